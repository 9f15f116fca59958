// Package admin is the privileged command surface: stats, broadcast and
// ban/unban, gated by a fixed allow-list loaded at startup.
package admin

import (
	"context"
	"fmt"
	"strings"

	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/features/user/service"
	"media-downloader-bot/internal/platform/telegram"
)

// Listing more than this many users in the admin panel gets truncated.
const maxListedUsers = 200

type Stats struct {
	Users  int
	Banned int
}

type Service struct {
	allow map[int64]struct{}
	users *service.Service
	gw    telegram.Gateway
}

func New(adminIDs []int64, users *service.Service, gw telegram.Gateway) *Service {
	allow := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allow[id] = struct{}{}
	}
	return &Service{allow: allow, users: users, gw: gw}
}

// IsAdmin reports allow-list membership. Non-members get the same localized
// refusal whatever they tried, so nothing leaks about which commands exist.
func (s *Service) IsAdmin(id int64) bool {
	_, ok := s.allow[id]
	return ok
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	banned, err := s.users.BannedCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: users, Banned: banned}, nil
}

// UserList renders the registered users, capped at maxListedUsers entries.
func (s *Service) UserList(ctx context.Context) (string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, u := range users {
		if i == maxListedUsers {
			break
		}
		fmt.Fprintf(&b, "%d — %s\n", u.ID, u.FirstName)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Broadcast attempts a direct send to every registered user. Per-recipient
// failures (blocked bot, deleted account) are swallowed; the returned count
// is exactly the number of successful sends.
func (s *Service) Broadcast(ctx context.Context, text string) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if _, err := s.gw.SendMessage(u.ID, text); err != nil {
			logger.Debug().Err(err).Int64("user_id", u.ID).Msg("broadcast send failed")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) Ban(ctx context.Context, id int64) error {
	return s.users.Ban(ctx, id)
}

func (s *Service) Unban(ctx context.Context, id int64) error {
	return s.users.Unban(ctx, id)
}

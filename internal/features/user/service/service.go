package service

import (
	"context"
	"errors"
	"time"

	"media-downloader-bot/internal/common/apperr"
	"media-downloader-bot/internal/common/i18n"
	"media-downloader-bot/internal/common/logger"
	"media-downloader-bot/internal/common/syncutil"
	"media-downloader-bot/internal/features/user/models"
	"media-downloader-bot/internal/features/user/repository"
)

// Service owns all reads and writes of user records. Every mutation of one
// user's record goes through the same keyed mutex, so concurrent handlers see
// last-writer-wins with no lost updates.
type Service struct {
	repo  repository.UserRepository
	locks *syncutil.KeyedMutex
}

func New(repo repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		locks: syncutil.NewKeyedMutex(),
	}
}

// GetOrCreate registers the user on first contact and refreshes the display
// name on subsequent ones.
func (s *Service) GetOrCreate(ctx context.Context, id int64, firstName string) (*models.User, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	user, err := s.repo.Get(ctx, id)
	if err == nil {
		if firstName != "" && user.FirstName != firstName {
			user.FirstName = firstName
			user.UpdatedAt = time.Now()
			s.persist(ctx, user)
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:        id,
		FirstName: firstName,
		Language:  string(i18n.Default),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.persist(ctx, user)
	return user, nil
}

// Language returns the user's locale, defaulting when the user is unknown or
// has never chosen one.
func (s *Service) Language(ctx context.Context, id int64) i18n.Locale {
	user, err := s.repo.Get(ctx, id)
	if err != nil || user.Language == "" {
		return i18n.Default
	}
	return i18n.Locale(user.Language)
}

// SetLanguage persists a locale choice. Unsupported codes are rejected and
// leave the record unchanged.
func (s *Service) SetLanguage(ctx context.Context, id int64, code string) error {
	if !i18n.Supported(code) {
		return apperr.Newf(apperr.CodeInput, "unsupported language code %q", code)
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	user, err := s.getOrCreateLocked(ctx, id, "")
	if err != nil {
		return err
	}
	user.Language = code
	user.UpdatedAt = time.Now()
	s.persist(ctx, user)
	return nil
}

// SetPendingLink records the last submitted URL, registering the user if this
// is their first contact. A second submission overwrites the first.
func (s *Service) SetPendingLink(ctx context.Context, id int64, firstName, link string) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	user, err := s.getOrCreateLocked(ctx, id, firstName)
	if err != nil {
		return err
	}
	user.PendingLink = link
	user.UpdatedAt = time.Now()
	s.persist(ctx, user)
	return nil
}

// PendingLink snapshots the user's current pending link under the record
// lock. The returned value is meant to be passed by value through the
// fetch/deliver task, never re-read after an async gap.
func (s *Service) PendingLink(ctx context.Context, id int64) (string, bool) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	user, err := s.repo.Get(ctx, id)
	if err != nil || user.PendingLink == "" {
		return "", false
	}
	return user.PendingLink, true
}

// Ban flags the user. Banning an already banned id is a no-op.
func (s *Service) Ban(ctx context.Context, id int64) error {
	return s.setBanned(ctx, id, true)
}

// Unban clears the flag. Unbanning a non-banned id is a no-op.
func (s *Service) Unban(ctx context.Context, id int64) error {
	return s.setBanned(ctx, id, false)
}

func (s *Service) setBanned(ctx context.Context, id int64, banned bool) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	user, err := s.getOrCreateLocked(ctx, id, "")
	if err != nil {
		return err
	}
	if user.Banned == banned {
		return nil
	}
	user.Banned = banned
	user.UpdatedAt = time.Now()
	return s.persistErr(ctx, user)
}

// IsBanned reports whether any inbound event from id must be dropped.
func (s *Service) IsBanned(ctx context.Context, id int64) bool {
	user, err := s.repo.Get(ctx, id)
	return err == nil && user.Banned
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) BannedCount(ctx context.Context) (int, error) {
	return s.repo.BannedCount(ctx)
}

func (s *Service) getOrCreateLocked(ctx context.Context, id int64, firstName string) (*models.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err == nil {
		if firstName != "" {
			user.FirstName = firstName
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return &models.User{
		ID:        id,
		FirstName: firstName,
		Language:  string(i18n.Default),
		CreatedAt: time.Now(),
	}, nil
}

// persist writes the record, logging store failures instead of surfacing
// them: in-memory state keeps serving until the next successful write.
func (s *Service) persist(ctx context.Context, user *models.User) {
	if err := s.repo.Put(ctx, user); err != nil {
		logger.Error().Err(apperr.Wrap(err, apperr.CodePersistence, "put user")).
			Int64("user_id", user.ID).
			Msg("failed to persist user record")
	}
}

func (s *Service) persistErr(ctx context.Context, user *models.User) error {
	if err := s.repo.Put(ctx, user); err != nil {
		wrapped := apperr.Wrap(err, apperr.CodePersistence, "put user")
		logger.Error().Err(wrapped).Int64("user_id", user.ID).
			Msg("failed to persist user record")
		return wrapped
	}
	return nil
}

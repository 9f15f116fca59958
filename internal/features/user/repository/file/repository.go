// Package file implements the user repository as a single JSON snapshot in
// the legacy layout: {users, banned, langs, current_links}. The whole record
// set lives in memory and is rewritten on every mutation.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"media-downloader-bot/internal/features/user/models"
	"media-downloader-bot/internal/features/user/repository"
)

// snapshot is the on-disk layout. Top-level keys not listed here are carried
// through load and save untouched, so the format stays forward-compatible.
type snapshot struct {
	Users        map[string]*models.User `json:"users"`
	Banned       []string                `json:"banned"`
	Langs        map[string]string       `json:"langs"`
	CurrentLinks map[string]string       `json:"current_links"`
}

type userRepository struct {
	path string

	mu    sync.RWMutex
	users map[int64]*models.User
	extra map[string]json.RawMessage
}

// New loads (or initializes) the snapshot at path and returns a repository
// over it. Corrupt or missing files start an empty store, matching the
// original loader's behavior.
func New(path string) (repository.UserRepository, error) {
	r := &userRepository{
		path:  path,
		users: make(map[int64]*models.User),
		extra: make(map[string]json.RawMessage),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *userRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Unreadable snapshot: start empty rather than refuse to boot.
		return nil
	}

	var snap snapshot
	for key, val := range raw {
		switch key {
		case "users":
			_ = json.Unmarshal(val, &snap.Users)
		case "banned":
			_ = json.Unmarshal(val, &snap.Banned)
		case "langs":
			_ = json.Unmarshal(val, &snap.Langs)
		case "current_links":
			_ = json.Unmarshal(val, &snap.CurrentLinks)
		default:
			r.extra[key] = val
		}
	}

	for idStr, u := range snap.Users {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || u == nil {
			continue
		}
		u.ID = id
		r.users[id] = u
	}

	// The legacy maps are merged into records; entries for unknown ids are
	// pruned so banned/langs stay a subset of users.
	for _, idStr := range snap.Banned {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			if u, ok := r.users[id]; ok {
				u.Banned = true
			}
		}
	}
	for idStr, code := range snap.Langs {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			if u, ok := r.users[id]; ok && u.Language == "" {
				u.Language = code
			}
		}
	}
	for idStr, link := range snap.CurrentLinks {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			if u, ok := r.users[id]; ok && u.PendingLink == "" {
				u.PendingLink = link
			}
		}
	}

	return nil
}

// save rewrites the snapshot atomically: marshal, write a temp file in the
// same directory, rename over the target. Callers hold r.mu.
func (r *userRepository) save() error {
	snap := snapshot{
		Users:        make(map[string]*models.User, len(r.users)),
		Banned:       []string{},
		Langs:        make(map[string]string),
		CurrentLinks: make(map[string]string),
	}
	for id, u := range r.users {
		idStr := strconv.FormatInt(id, 10)
		snap.Users[idStr] = u
		if u.Banned {
			snap.Banned = append(snap.Banned, idStr)
		}
		if u.Language != "" {
			snap.Langs[idStr] = u.Language
		}
		if u.PendingLink != "" {
			snap.CurrentLinks[idStr] = u.PendingLink
		}
	}
	sort.Strings(snap.Banned)

	out := make(map[string]interface{}, len(r.extra)+4)
	for key, val := range r.extra {
		out[key] = val
	}
	out["users"] = snap.Users
	out["banned"] = snap.Banned
	out["langs"] = snap.Langs
	out["current_links"] = snap.CurrentLinks

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".bot_data-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *userRepository) Put(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	r.users[user.ID] = &clone
	return r.save()
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return r.save()
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *userRepository) BannedCount(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.Banned {
			n++
		}
	}
	return n, nil
}

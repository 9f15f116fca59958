package repository

import (
	"context"
	"errors"

	"media-downloader-bot/internal/features/user/models"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("user not found")

// UserRepository is the injected store abstraction behind the user service.
// Implementations must make each write atomic with respect to the persisted
// representation: a reader never observes a partial write.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Put(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	BannedCount(ctx context.Context) (int, error)
}

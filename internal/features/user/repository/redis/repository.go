// Package redis implements the user repository on Redis: one JSON record per
// user:<id> key plus a users:banned set for cheap banned counting.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"media-downloader-bot/internal/features/user/models"
	"media-downloader-bot/internal/features/user/repository"
)

const bannedSetKey = "users:banned"

type userRepository struct {
	client *redis.Client
}

func New(client *redis.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Put(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	member := strconv.FormatInt(user.ID, 10)
	if user.Banned {
		pipe.SAdd(ctx, bannedSetKey, member)
	} else {
		pipe.SRem(ctx, bannedSetKey, member)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.SRem(ctx, bannedSetKey, strconv.FormatInt(id, 10))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	iter := r.client.Scan(ctx, 0, "user:*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var user models.User
		if err := json.Unmarshal(data, &user); err != nil {
			continue
		}
		users = append(users, &user)
	}

	return users, iter.Err()
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, "user:*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

func (r *userRepository) BannedCount(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, bannedSetKey).Result()
	return int(n), err
}

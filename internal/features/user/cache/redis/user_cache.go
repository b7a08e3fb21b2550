package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wishlist-backend/internal/features/user/models"
	rplatform "wishlist-backend/internal/platform/redis"
)

// ErrCacheMiss is returned when the user is not cached.
var ErrCacheMiss = errors.New("user cache miss")

// UserCache keeps user profiles as JSON blobs keyed by id.
type UserCache struct {
	client *rplatform.Client
	ttl    time.Duration
}

func NewUserCache(client *rplatform.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) keyByID(id int64) string { return fmt.Sprintf("user:id:%d", id) }

func (c *UserCache) Set(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.keyByID(u.ID), b, c.ttl).Err()
}

// GetByID returns the cached user or ErrCacheMiss.
func (c *UserCache) GetByID(ctx context.Context, id int64) (*models.User, error) {
	v, err := c.client.Get(ctx, c.keyByID(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.keyByID(id)).Err()
}

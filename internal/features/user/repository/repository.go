package repository

import (
	"context"
	"errors"
	"time"

	"wishlist-backend/internal/features/user/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// Create inserts user and fills its timestamps.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// UpdateFields writes only the given columns and returns the new updated_at.
	UpdateFields(ctx context.Context, id int64, changes map[models.Column]string) (time.Time, error)
}

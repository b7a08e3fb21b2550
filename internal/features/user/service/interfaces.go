package service

import (
	"context"

	"wishlist-backend/internal/features/auth/initdata"
	"wishlist-backend/internal/features/auth/token"
	"wishlist-backend/internal/features/user/models"
)

type UserService interface {
	// Login creates or refreshes the user asserted by identity and issues an access token.
	Login(ctx context.Context, identity *initdata.Identity) (*models.LoginResult, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	Issue(subjectID int64) (*token.Token, error)
}

// UserCache is optional; a nil cache disables caching.
type UserCache interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Set(ctx context.Context, u *models.User) error
	Invalidate(ctx context.Context, id int64) error
}

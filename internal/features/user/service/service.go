package service

import (
	"context"
	"errors"
	"sort"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/logger"
	"wishlist-backend/internal/features/auth/initdata"
	usercache "wishlist-backend/internal/features/user/cache/redis"
	"wishlist-backend/internal/features/user/models"
	"wishlist-backend/internal/features/user/repository"
)

type userService struct {
	repo   repository.UserRepository
	tx     Transactor
	tokens TokenIssuer
	cache  UserCache
}

func NewUserService(repo repository.UserRepository, tx Transactor, tokens TokenIssuer, cache UserCache) UserService {
	return &userService{
		repo:   repo,
		tx:     tx,
		tokens: tokens,
		cache:  cache,
	}
}

func (s *userService) Login(ctx context.Context, identity *initdata.Identity) (*models.LoginResult, error) {
	result := &models.LoginResult{}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.repo.GetByID(ctx, identity.ID)
		if errors.Is(err, repository.ErrUserNotFound) {
			user = models.NewUser(identity)
			if err := s.repo.Create(ctx, user); err != nil {
				return storageError("create user", err)
			}
			result.User = user
			result.Created = true
			return nil
		}
		if err != nil {
			return storageError("get user", err)
		}

		result.User = user
		changes := user.ChangedFields(identity)
		if len(changes) == 0 {
			return nil
		}

		updatedAt, err := s.repo.UpdateFields(ctx, user.ID, changes)
		if err != nil {
			return storageError("update user", err)
		}
		user.Apply(changes, updatedAt)
		result.Changed = sortedColumns(changes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Created || len(result.Changed) > 0 {
		s.invalidate(ctx, identity.ID)
	}

	tok, err := s.tokens.Issue(identity.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to issue token")
	}
	result.Token = tok

	logger.Debug().
		Int64("user_id", identity.ID).
		Bool("created", result.Created).
		Int("changed_fields", len(result.Changed)).
		Msg("User logged in")

	return result, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetByID(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !isCacheMiss(err) {
			logger.Warn().Err(err).Int64("user_id", id).Msg("User cache read failed")
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("User", id)
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			logger.Warn().Err(err).Int64("user_id", id).Msg("User cache write failed")
		}
	}

	return user, nil
}

func (s *userService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("user_id", id).Msg("User cache invalidation failed")
	}
}

// storageError keeps typed errors from the repository and wraps the rest.
func storageError(operation string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewDatabaseError(operation, err)
}

func sortedColumns(changes map[models.Column]string) []models.Column {
	columns := make([]models.Column, 0, len(changes))
	for column := range changes {
		columns = append(columns, column)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })
	return columns
}

func isCacheMiss(err error) bool {
	return errors.Is(err, usercache.ErrCacheMiss)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/user/models"
	"wishlist-backend/internal/features/user/repository"
	"wishlist-backend/internal/platform/postgres"
)

// constraint name -> offending field
var uniqueFields = map[string]string{
	"users_pkey":      "tg_id",
	"idx_tg_username": "tg_username",
}

// nullable columns are written through NULLIF so "" is stored as NULL
var nullableColumns = map[models.Column]bool{
	models.ColumnUsername:  true,
	models.ColumnLastName:  true,
	models.ColumnAvatarURL: true,
}

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (tg_id, tg_username, first_name, last_name, avatar_url)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING created_at, updated_at
	`

	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName, user.AvatarURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			return apperrors.NewAlreadyExistsError(fieldOf(constraint))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT tg_id, COALESCE(tg_username, ''), first_name, COALESCE(last_name, ''),
		       COALESCE(avatar_url, ''), created_at, updated_at
		FROM users
		WHERE tg_id = $1
	`

	var user models.User
	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *postgresRepository) UpdateFields(ctx context.Context, id int64, changes map[models.Column]string) (time.Time, error) {
	if len(changes) == 0 {
		return time.Time{}, fmt.Errorf("no fields to update")
	}

	columns := make([]string, 0, len(changes))
	for column := range changes {
		columns = append(columns, string(column))
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := []interface{}{id}
	for _, column := range columns {
		args = append(args, changes[models.Column(column)])
		placeholder := fmt.Sprintf("$%d", len(args))
		if nullableColumns[models.Column(column)] {
			placeholder = fmt.Sprintf("NULLIF(%s, '')", placeholder)
		}
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE tg_id = $1 RETURNING updated_at", strings.Join(sets, ", "))

	var updatedAt time.Time
	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, repository.ErrUserNotFound
		}
		if constraint, ok := postgres.UniqueViolation(err); ok {
			return time.Time{}, apperrors.NewAlreadyExistsError(fieldOf(constraint))
		}
		return time.Time{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updatedAt, nil
}

func fieldOf(constraint string) string {
	if field, ok := uniqueFields[constraint]; ok {
		return field
	}
	return "unknown"
}

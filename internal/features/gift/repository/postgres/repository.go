package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/gift/models"
	"wishlist-backend/internal/features/gift/repository"
	"wishlist-backend/internal/platform/postgres"
)

const (
	giftFKConstraint        = "gift_reservations_gift_id_fkey"
	reservationPKConstraint = "gift_reservations_pkey"
)

// selectGifts projects the reservation for the viewer bound to $1.
const selectGifts = `
	SELECT g.id, g.user_id, g.name, COALESCE(g.url, ''), g.wish_rate, g.price, COALESCE(g.note, ''),
	       g.created_at, g.updated_at,
	       gr.gift_id IS NOT NULL AS is_reserved,
	       CASE WHEN gr.reserved_by_tg_id = $1 THEN gr.reserved_by_tg_id END AS reserved_by
	FROM gifts g
	LEFT JOIN gift_reservations gr ON gr.gift_id = g.id
`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.GiftRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, g *models.Gift) error {
	query := `
		INSERT INTO gifts (user_id, name, url, wish_rate, price, note)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''))
		RETURNING id, created_at, updated_at
	`

	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query,
		g.OwnerID, g.Name, g.URL, nullInt(g.WishRate), nullInt64(g.Price), g.Note,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if _, ok := postgres.ForeignKeyViolation(err); ok {
			return apperrors.NewNotFoundError("User", g.OwnerID)
		}
		return fmt.Errorf("failed to create gift: %w", err)
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id, viewerID int64) (*models.Gift, error) {
	query := selectGifts + `WHERE g.id = $2`

	g, err := scanGift(postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrGiftNotFound
		}
		return nil, fmt.Errorf("failed to get gift: %w", err)
	}
	return g, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID, viewerID int64) ([]*models.Gift, error) {
	query := selectGifts + `WHERE g.user_id = $2 ORDER BY g.created_at, g.id`

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, viewerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	defer rows.Close()

	var gifts []*models.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gifts: %w", err)
	}
	return gifts, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.exec(ctx, "delete gift", `DELETE FROM gifts WHERE id = $1`, id)
}

func (r *postgresRepository) AddReservation(ctx context.Context, giftID, reserverID int64) error {
	query := `INSERT INTO gift_reservations (gift_id, reserved_by_tg_id) VALUES ($1, $2)`

	_, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, giftID, reserverID)
	if err == nil {
		return nil
	}
	if constraint, ok := postgres.UniqueViolation(err); ok && constraint == reservationPKConstraint {
		return apperrors.NewConflictError("Gift", apperrors.ReasonAlreadyReserved, "Gift is already reserved").
			WithDetail("id", giftID)
	}
	if constraint, ok := postgres.ForeignKeyViolation(err); ok {
		if constraint == giftFKConstraint {
			return apperrors.NewNotFoundError("Gift", giftID)
		}
		return apperrors.NewNotFoundError("User", reserverID)
	}
	return fmt.Errorf("failed to reserve gift: %w", err)
}

func (r *postgresRepository) DeleteReservationBy(ctx context.Context, giftID, reserverID int64) (bool, error) {
	return r.exec(ctx, "release reservation",
		`DELETE FROM gift_reservations WHERE gift_id = $1 AND reserved_by_tg_id = $2`, giftID, reserverID)
}

func (r *postgresRepository) DeleteReservation(ctx context.Context, giftID int64) (bool, error) {
	return r.exec(ctx, "release reservation", `DELETE FROM gift_reservations WHERE gift_id = $1`, giftID)
}

func (r *postgresRepository) exec(ctx context.Context, operation, query string, args ...interface{}) (bool, error) {
	result, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s: %w", operation, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGift(row scanner) (*models.Gift, error) {
	var (
		g          models.Gift
		wishRate   sql.NullInt32
		price      sql.NullInt64
		reservedBy sql.NullInt64
	)
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.URL, &wishRate, &price, &g.Note,
		&g.CreatedAt, &g.UpdatedAt, &g.IsReserved, &reservedBy)
	if err != nil {
		return nil, err
	}
	if wishRate.Valid {
		v := int(wishRate.Int32)
		g.WishRate = &v
	}
	if price.Valid {
		g.Price = &price.Int64
	}
	if reservedBy.Valid {
		g.ReservedBy = &reservedBy.Int64
	}
	return &g, nil
}

func nullInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/gift/models"
	"wishlist-backend/internal/features/gift/repository"
)

var giftColumns = []string{
	"id", "user_id", "name", "url", "wish_rate", "price", "note",
	"created_at", "updated_at", "is_reserved", "reserved_by",
}

func newRepo(t *testing.T) (repository.GiftRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	rate := 10

	mock.ExpectQuery(`INSERT INTO gifts`).
		WithArgs(int64(100), "Bike", "", int64(10), nil, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	g := &models.Gift{OwnerID: 100, Name: "Bike", WishRate: &rate}
	require.NoError(t, repo.Create(context.Background(), g))

	assert.Equal(t, int64(7), g.ID)
	assert.Equal(t, now, g.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownOwner(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`INSERT INTO gifts`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "gifts_user_id_fkey"})

	err := repo.Create(context.Background(), &models.Gift{OwnerID: 999, Name: "Bike"})
	assert.ErrorIs(t, err, apperrors.Reason(apperrors.ErrCodeNotFound, "User"))
}

func TestGet_ViewerProjection(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`LEFT JOIN gift_reservations gr ON gr.gift_id = g.id\s+WHERE g.id = \$2`).
		WithArgs(int64(200), int64(7)).
		WillReturnRows(sqlmock.NewRows(giftColumns).
			AddRow(int64(7), int64(100), "Bike", "https://example.com", nil, int64(5000), "", now, now, true, int64(200)))

	g, err := repo.Get(context.Background(), 7, 200)
	require.NoError(t, err)

	assert.Equal(t, int64(100), g.OwnerID)
	assert.Nil(t, g.WishRate)
	require.NotNil(t, g.Price)
	assert.Equal(t, int64(5000), *g.Price)
	assert.True(t, g.IsReserved)
	require.NotNil(t, g.ReservedBy)
	assert.Equal(t, int64(200), *g.ReservedBy)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM gifts g`).
		WithArgs(int64(100), int64(42)).
		WillReturnRows(sqlmock.NewRows(giftColumns))

	_, err := repo.Get(context.Background(), 42, 100)
	assert.ErrorIs(t, err, repository.ErrGiftNotFound)
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE g.user_id = \$2 ORDER BY g.created_at, g.id`).
		WithArgs(int64(300), int64(100)).
		WillReturnRows(sqlmock.NewRows(giftColumns).
			AddRow(int64(1), int64(100), "Bike", "", int64(3), nil, "", now, now, true, nil).
			AddRow(int64(2), int64(100), "Book", "", nil, nil, "paperback", now, now, false, nil))

	gifts, err := repo.ListByOwner(context.Background(), 100, 300)
	require.NoError(t, err)
	require.Len(t, gifts, 2)

	assert.True(t, gifts[0].IsReserved)
	assert.Nil(t, gifts[0].ReservedBy)
	require.NotNil(t, gifts[0].WishRate)
	assert.Equal(t, 3, *gifts[0].WishRate)
	assert.Equal(t, "paperback", gifts[1].Note)
}

func TestAddReservation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "ok"},
		{
			name: "already reserved",
			err:  &pq.Error{Code: "23505", Constraint: "gift_reservations_pkey"},
			want: apperrors.Reason(apperrors.ErrCodeConflict, apperrors.ReasonAlreadyReserved),
		},
		{
			name: "gift deleted",
			err:  &pq.Error{Code: "23503", Constraint: "gift_reservations_gift_id_fkey"},
			want: apperrors.Reason(apperrors.ErrCodeNotFound, "Gift"),
		},
		{
			name: "unknown reserver",
			err:  &pq.Error{Code: "23503", Constraint: "gift_reservations_reserved_by_fkey"},
			want: apperrors.Reason(apperrors.ErrCodeNotFound, "User"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			exp := mock.ExpectExec(`INSERT INTO gift_reservations`).WithArgs(int64(7), int64(200))
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.AddReservation(context.Background(), 7, 200)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAddReservation_StorageError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO gift_reservations`).WillReturnError(errors.New("connection reset"))

	err := repo.AddReservation(context.Background(), 7, 200)
	require.Error(t, err)
	assert.False(t, apperrors.IsAppError(err))
}

func TestDeleteReservations(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM gift_reservations WHERE gift_id = \$1 AND reserved_by_tg_id = \$2`).
		WithArgs(int64(7), int64(300)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM gift_reservations WHERE gift_id = \$1$`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM gifts WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := repo.DeleteReservationBy(ctx, 7, 300)
	require.NoError(t, err)
	assert.False(t, released)

	released, err = repo.DeleteReservation(ctx, 7)
	require.NoError(t, err)
	assert.True(t, released)

	deleted, err := repo.Delete(ctx, 7)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

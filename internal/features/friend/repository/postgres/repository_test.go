package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/friend/models"
	"wishlist-backend/internal/features/friend/repository"
)

func newRepo(t *testing.T) (repository.FriendRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestUpsertRequest(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO friend_requests .* ON CONFLICT \(sender_tg_id, receiver_tg_id\)`).
		WithArgs(int64(100), int64(200)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertRequest(context.Background(), 100, 200))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRequest_UnknownUser(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO friend_requests`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "friend_requests_receiver_tg_id_fkey"})

	err := repo.UpsertRequest(context.Background(), 100, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptRequest(t *testing.T) {
	tests := []struct {
		name     string
		accepted int64
		want     bool
	}{
		{name: "pending request", accepted: 1, want: true},
		{name: "nothing pending", accepted: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery(`WITH accepted AS`).
				WithArgs(int64(100), int64(200)).
				WillReturnRows(sqlmock.NewRows([]string{"accepted", "mirrored"}).AddRow(tt.accepted, 0))

			got, err := repo.AcceptRequest(context.Background(), 200, 100)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRejectRequest(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`UPDATE friend_requests\s+SET status = 'rejected'`).
		WithArgs(int64(100), int64(200)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rejected, err := repo.RejectRequest(context.Background(), 200, 100)
	require.NoError(t, err)
	assert.False(t, rejected)
}

func TestAddAndDeleteFriendship(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(`INSERT INTO friends .* ON CONFLICT DO NOTHING`).
		WithArgs(int64(100), int64(200)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM friends`).
		WithArgs(int64(200), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	ctx := context.Background()
	require.NoError(t, repo.AddFriendship(ctx, 100, 200))
	deleted, err := repo.DeleteFriendship(ctx, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending_SenderName(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`FROM friend_requests fr`).
		WithArgs(int64(200)).
		WillReturnRows(sqlmock.NewRows([]string{"sender_tg_id", "receiver_tg_id", "status", "created_at", "first_name", "last_name", "tg_username"}).
			AddRow(int64(100), int64(200), "pending", now, "Ann", "Lee", "ann").
			AddRow(int64(300), int64(200), "pending", now.Add(-time.Hour), "Bo", "", ""))

	requests, err := repo.ListPending(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "Ann Lee", requests[0].SenderName)
	assert.Equal(t, "ann", requests[0].SenderUsername)
	assert.Equal(t, models.StatusPending, requests[0].Status)
	assert.Equal(t, "Bo", requests[1].SenderName)
	assert.Empty(t, requests[1].SenderUsername)
}

func TestListFriends(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	mock.ExpectQuery(`FROM friends f\s+JOIN users u`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"tg_id", "tg_username", "first_name", "last_name", "avatar_url", "created_at", "updated_at"}).
			AddRow(int64(200), "", "Bob", "", "", now, now))

	friends, err := repo.ListFriends(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, int64(200), friends[0].ID)
}

func TestRelations(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`UNION ALL`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "id"}).
			AddRow("outgoing", int64(2)).
			AddRow("friend", int64(3)).
			AddRow("incoming", int64(2)).
			AddRow("incoming", int64(4)).
			AddRow("outgoing", int64(5)))

	relations, err := repo.Relations(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.ActionAddFriend, relations.Classify(2))
	assert.Equal(t, models.ActionAlreadyFriends, relations.Classify(3))
	assert.Equal(t, models.ActionAddFriend, relations.Classify(4))
	assert.Equal(t, models.ActionRequestAlreadySent, relations.Classify(5))
	assert.Equal(t, models.ActionSendRequest, relations.Classify(6))
}

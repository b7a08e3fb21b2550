package postgres

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/friend/models"
	"wishlist-backend/internal/features/friend/repository"
	usermodels "wishlist-backend/internal/features/user/models"
	"wishlist-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.FriendRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM friends WHERE user_tg_id = $1 AND friend_tg_id = $2)`

	var exists bool
	if err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, userID, otherID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) UpsertRequest(ctx context.Context, senderID, receiverID int64) error {
	query := `
		INSERT INTO friend_requests (sender_tg_id, receiver_tg_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (sender_tg_id, receiver_tg_id)
		DO UPDATE SET status = 'pending', updated_at = now()
	`

	if _, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, senderID, receiverID); err != nil {
		if _, ok := postgres.ForeignKeyViolation(err); ok {
			return apperrors.NewNotFoundError("User", receiverID)
		}
		return fmt.Errorf("failed to upsert friend request: %w", err)
	}
	return nil
}

func (r *postgresRepository) AcceptRequest(ctx context.Context, receiverID, senderID int64) (bool, error) {
	query := `
		WITH accepted AS (
			UPDATE friend_requests
			SET status = 'accepted', updated_at = now()
			WHERE sender_tg_id = $1 AND receiver_tg_id = $2 AND status = 'pending'
			RETURNING sender_tg_id
		), mirrored AS (
			UPDATE friend_requests
			SET status = 'accepted', updated_at = now()
			WHERE sender_tg_id = $2 AND receiver_tg_id = $1 AND status = 'pending'
			  AND EXISTS (SELECT 1 FROM accepted)
			RETURNING sender_tg_id
		)
		SELECT (SELECT count(*) FROM accepted), (SELECT count(*) FROM mirrored)
	`

	var accepted, mirrored int64
	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, senderID, receiverID).Scan(&accepted, &mirrored)
	if err != nil {
		return false, fmt.Errorf("failed to accept friend request: %w", err)
	}
	return accepted > 0, nil
}

func (r *postgresRepository) RejectRequest(ctx context.Context, receiverID, senderID int64) (bool, error) {
	query := `
		UPDATE friend_requests
		SET status = 'rejected', updated_at = now()
		WHERE sender_tg_id = $1 AND receiver_tg_id = $2 AND status = 'pending'
	`

	result, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("failed to reject friend request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresRepository) AddFriendship(ctx context.Context, userID, otherID int64) error {
	query := `
		INSERT INTO friends (user_tg_id, friend_tg_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`

	if _, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, userID, otherID); err != nil {
		return fmt.Errorf("failed to add friendship: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteFriendship(ctx context.Context, userID, otherID int64) (int64, error) {
	query := `
		DELETE FROM friends
		WHERE (user_tg_id = $1 AND friend_tg_id = $2)
		   OR (user_tg_id = $2 AND friend_tg_id = $1)
	`

	result, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, userID, otherID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete friendship: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *postgresRepository) ListPending(ctx context.Context, receiverID int64) ([]*models.PendingRequest, error) {
	query := `
		SELECT fr.sender_tg_id, fr.receiver_tg_id, fr.status, fr.created_at,
		       u.first_name, COALESCE(u.last_name, ''), COALESCE(u.tg_username, '')
		FROM friend_requests fr
		JOIN users u ON u.tg_id = fr.sender_tg_id
		WHERE fr.receiver_tg_id = $1 AND fr.status = 'pending'
		ORDER BY fr.updated_at DESC, fr.sender_tg_id
	`

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.PendingRequest
	for rows.Next() {
		var (
			req       models.PendingRequest
			firstName string
			lastName  string
		)
		if err := rows.Scan(&req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt,
			&firstName, &lastName, &req.SenderUsername); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		sender := usermodels.User{FirstName: firstName, LastName: lastName}
		req.SenderName = sender.DisplayName()
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend requests: %w", err)
	}

	return requests, nil
}

func (r *postgresRepository) ListFriends(ctx context.Context, userID int64) ([]*usermodels.User, error) {
	query := `
		SELECT u.tg_id, COALESCE(u.tg_username, ''), u.first_name, COALESCE(u.last_name, ''),
		       COALESCE(u.avatar_url, ''), u.created_at, u.updated_at
		FROM friends f
		JOIN users u ON u.tg_id = f.friend_tg_id
		WHERE f.user_tg_id = $1
		ORDER BY f.created_at, u.tg_id
	`

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*usermodels.User
	for rows.Next() {
		var u usermodels.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
			&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

func (r *postgresRepository) Relations(ctx context.Context, userID int64) (*models.Relations, error) {
	query := `
		SELECT 'friend', friend_tg_id FROM friends WHERE user_tg_id = $1
		UNION ALL
		SELECT 'incoming', sender_tg_id FROM friend_requests WHERE receiver_tg_id = $1 AND status = 'pending'
		UNION ALL
		SELECT 'outgoing', receiver_tg_id FROM friend_requests WHERE sender_tg_id = $1 AND status = 'pending'
	`

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load relations: %w", err)
	}
	defer rows.Close()

	kinds := map[string][]int64{}
	for rows.Next() {
		var (
			kind string
			id   int64
		)
		if err := rows.Scan(&kind, &id); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		kinds[kind] = append(kinds[kind], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate relations: %w", err)
	}

	relations := models.NewRelations(userID)
	for _, id := range kinds["friend"] {
		relations.AddFriend(id)
	}
	for _, id := range kinds["incoming"] {
		relations.AddIncoming(id)
	}
	for _, id := range kinds["outgoing"] {
		relations.AddOutgoing(id)
	}
	return relations, nil
}

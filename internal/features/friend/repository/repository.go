package repository

import (
	"context"

	"wishlist-backend/internal/features/friend/models"
	usermodels "wishlist-backend/internal/features/user/models"
)

type FriendRepository interface {
	AreFriends(ctx context.Context, userID, otherID int64) (bool, error)
	// UpsertRequest stores a pending request, reviving an answered one.
	UpsertRequest(ctx context.Context, senderID, receiverID int64) error
	// AcceptRequest marks the pending sender->receiver request accepted, together with
	// a pending receiver->sender request if any. It reports whether the first transitioned.
	AcceptRequest(ctx context.Context, receiverID, senderID int64) (bool, error)
	RejectRequest(ctx context.Context, receiverID, senderID int64) (bool, error)
	// AddFriendship inserts both directed rows; existing rows are kept.
	AddFriendship(ctx context.Context, userID, otherID int64) error
	DeleteFriendship(ctx context.Context, userID, otherID int64) (int64, error)
	ListPending(ctx context.Context, receiverID int64) ([]*models.PendingRequest, error)
	ListFriends(ctx context.Context, userID int64) ([]*usermodels.User, error)
	Relations(ctx context.Context, userID int64) (*models.Relations, error)
}

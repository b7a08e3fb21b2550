package repository

import (
	"context"
	"errors"

	"wishlist-backend/internal/features/gift/models"
)

var ErrGiftNotFound = errors.New("gift not found")

type GiftRepository interface {
	// Create stores g and fills its id and timestamps.
	Create(ctx context.Context, g *models.Gift) error
	// Get projects the reservation state for viewerID.
	Get(ctx context.Context, id, viewerID int64) (*models.Gift, error)
	ListByOwner(ctx context.Context, ownerID, viewerID int64) ([]*models.Gift, error)
	Delete(ctx context.Context, id int64) (bool, error)

	AddReservation(ctx context.Context, giftID, reserverID int64) error
	// DeleteReservationBy removes the reservation only if reserverID holds it.
	DeleteReservationBy(ctx context.Context, giftID, reserverID int64) (bool, error)
	DeleteReservation(ctx context.Context, giftID int64) (bool, error)
}

package service

import (
	"context"
	"errors"
	"strings"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/logger"
	"wishlist-backend/internal/features/gift/models"
	"wishlist-backend/internal/features/gift/repository"
	usermodels "wishlist-backend/internal/features/user/models"
)

type GiftService interface {
	Add(ctx context.Context, g *models.Gift) (int64, error)
	Get(ctx context.Context, giftID, viewerID int64) (*models.Gift, error)
	ListByOwner(ctx context.Context, ownerID, viewerID int64) ([]*models.Gift, error)
	Delete(ctx context.Context, giftID, requesterID int64) error
	Reserve(ctx context.Context, giftID, reserverID int64) error
	// ReleaseByFriend is a no-op unless reserverID holds the reservation.
	ReleaseByFriend(ctx context.Context, giftID, reserverID int64) error
	// ReleaseByOwner drops whichever reservation the gift has.
	ReleaseByOwner(ctx context.Context, giftID, requesterID int64) error
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*usermodels.User, error)
}

// FriendChecker reports whether friendID is in userID's friend list.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, friendID int64) (bool, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type giftService struct {
	repo    repository.GiftRepository
	users   UserDirectory
	friends FriendChecker
	tx      Transactor
}

func NewGiftService(repo repository.GiftRepository, users UserDirectory, friends FriendChecker, tx Transactor) GiftService {
	return &giftService{
		repo:    repo,
		users:   users,
		friends: friends,
		tx:      tx,
	}
}

func (s *giftService) Add(ctx context.Context, g *models.Gift) (int64, error) {
	if strings.TrimSpace(g.Name) == "" {
		return 0, apperrors.NewValidationError("name", "must not be empty")
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return 0, storageError("create gift", err)
	}

	logger.Debug().Int64("gift_id", g.ID).Int64("owner_id", g.OwnerID).Msg("Gift added")
	return g.ID, nil
}

func (s *giftService) Get(ctx context.Context, giftID, viewerID int64) (*models.Gift, error) {
	g, err := s.repo.Get(ctx, giftID, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrGiftNotFound) {
			return nil, apperrors.NewNotFoundError("Gift", giftID)
		}
		return nil, storageError("get gift", err)
	}
	return g, nil
}

func (s *giftService) ListByOwner(ctx context.Context, ownerID, viewerID int64) ([]*models.Gift, error) {
	if _, err := s.users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	gifts, err := s.repo.ListByOwner(ctx, ownerID, viewerID)
	if err != nil {
		return nil, storageError("list gifts", err)
	}
	return gifts, nil
}

func (s *giftService) Delete(ctx context.Context, giftID, requesterID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		g, err := s.Get(ctx, giftID, requesterID)
		if err != nil {
			return err
		}
		if !g.IsOwnedBy(requesterID) {
			return apperrors.NewForbiddenError(apperrors.ReasonNotOwner, "Only the owner can delete a gift")
		}

		if _, err := s.repo.Delete(ctx, giftID); err != nil {
			return storageError("delete gift", err)
		}

		logger.Debug().Int64("gift_id", giftID).Int64("owner_id", requesterID).Msg("Gift deleted")
		return nil
	})
}

func (s *giftService) Reserve(ctx context.Context, giftID, reserverID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		g, err := s.Get(ctx, giftID, reserverID)
		if err != nil {
			return err
		}
		if g.IsOwnedBy(reserverID) {
			return apperrors.NewForbiddenError(apperrors.ReasonOwnerCannotReserve, "Owner cannot reserve their own gift")
		}

		friends, err := s.friends.AreFriends(ctx, g.OwnerID, reserverID)
		if err != nil {
			return storageError("check friendship", err)
		}
		if !friends {
			return apperrors.NewForbiddenError(apperrors.ReasonNotFriend, "Only friends of the owner can reserve a gift")
		}

		if err := s.repo.AddReservation(ctx, giftID, reserverID); err != nil {
			return storageError("reserve gift", err)
		}

		logger.Debug().Int64("gift_id", giftID).Int64("reserver_id", reserverID).Msg("Gift reserved")
		return nil
	})
}

func (s *giftService) ReleaseByFriend(ctx context.Context, giftID, reserverID int64) error {
	if _, err := s.Get(ctx, giftID, reserverID); err != nil {
		return err
	}

	released, err := s.repo.DeleteReservationBy(ctx, giftID, reserverID)
	if err != nil {
		return storageError("release reservation", err)
	}

	logger.Debug().Int64("gift_id", giftID).Int64("reserver_id", reserverID).Bool("released", released).Msg("Reservation released by friend")
	return nil
}

func (s *giftService) ReleaseByOwner(ctx context.Context, giftID, requesterID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		g, err := s.Get(ctx, giftID, requesterID)
		if err != nil {
			return err
		}
		if !g.IsOwnedBy(requesterID) {
			return apperrors.NewForbiddenError(apperrors.ReasonNotOwner, "Only the owner can withdraw a reservation")
		}

		released, err := s.repo.DeleteReservation(ctx, giftID)
		if err != nil {
			return storageError("release reservation", err)
		}

		logger.Debug().Int64("gift_id", giftID).Bool("released", released).Msg("Reservation released by owner")
		return nil
	})
}

func storageError(operation string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewDatabaseError(operation, err)
}

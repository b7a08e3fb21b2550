package service

import (
	"context"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/common/logger"
	"wishlist-backend/internal/features/friend/models"
	"wishlist-backend/internal/features/friend/repository"
	usermodels "wishlist-backend/internal/features/user/models"
)

type FriendService interface {
	SendRequest(ctx context.Context, senderID, receiverID int64) error
	AcceptRequest(ctx context.Context, receiverID, senderID int64) error
	RejectRequest(ctx context.Context, receiverID, senderID int64) error
	ListPending(ctx context.Context, userID int64) ([]*models.PendingRequest, error)
	ListFriends(ctx context.Context, userID int64) ([]*usermodels.User, error)
	DeleteFriendship(ctx context.Context, userID, otherID int64) error
	RelationsOf(ctx context.Context, userID int64) (*models.Relations, error)
	// RelationTo classifies what userID can do toward otherID.
	RelationTo(ctx context.Context, userID, otherID int64) (models.Action, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*usermodels.User, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type friendService struct {
	repo  repository.FriendRepository
	users UserDirectory
	tx    Transactor
}

func NewFriendService(repo repository.FriendRepository, users UserDirectory, tx Transactor) FriendService {
	return &friendService{
		repo:  repo,
		users: users,
		tx:    tx,
	}
}

func (s *friendService) SendRequest(ctx context.Context, senderID, receiverID int64) error {
	if senderID == receiverID {
		return apperrors.NewBadRequestError(apperrors.ReasonSelfRequest, "Cannot send a friend request to yourself")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range []int64{senderID, receiverID} {
			if _, err := s.users.GetUser(ctx, id); err != nil {
				return err
			}
		}

		friends, err := s.repo.AreFriends(ctx, senderID, receiverID)
		if err != nil {
			return storageError("check friendship", err)
		}
		if friends {
			return apperrors.NewBadRequestError(apperrors.ReasonAlreadyFriends, "Users are already friends")
		}

		if err := s.repo.UpsertRequest(ctx, senderID, receiverID); err != nil {
			return storageError("send friend request", err)
		}

		logger.Debug().Int64("sender_id", senderID).Int64("receiver_id", receiverID).Msg("Friend request sent")
		return nil
	})
}

func (s *friendService) AcceptRequest(ctx context.Context, receiverID, senderID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		accepted, err := s.repo.AcceptRequest(ctx, receiverID, senderID)
		if err != nil {
			return storageError("accept friend request", err)
		}
		if !accepted {
			// already resolved or never sent
			return nil
		}

		if err := s.repo.AddFriendship(ctx, senderID, receiverID); err != nil {
			return storageError("add friendship", err)
		}

		logger.Debug().Int64("sender_id", senderID).Int64("receiver_id", receiverID).Msg("Friend request accepted")
		return nil
	})
}

func (s *friendService) RejectRequest(ctx context.Context, receiverID, senderID int64) error {
	if _, err := s.repo.RejectRequest(ctx, receiverID, senderID); err != nil {
		return storageError("reject friend request", err)
	}
	return nil
}

func (s *friendService) ListPending(ctx context.Context, userID int64) ([]*models.PendingRequest, error) {
	requests, err := s.repo.ListPending(ctx, userID)
	if err != nil {
		return nil, storageError("list friend requests", err)
	}
	return requests, nil
}

func (s *friendService) ListFriends(ctx context.Context, userID int64) ([]*usermodels.User, error) {
	friends, err := s.repo.ListFriends(ctx, userID)
	if err != nil {
		return nil, storageError("list friends", err)
	}
	return friends, nil
}

func (s *friendService) DeleteFriendship(ctx context.Context, userID, otherID int64) error {
	deleted, err := s.repo.DeleteFriendship(ctx, userID, otherID)
	if err != nil {
		return storageError("delete friendship", err)
	}
	logger.Debug().Int64("user_id", userID).Int64("other_id", otherID).Int64("rows", deleted).Msg("Friendship deleted")
	return nil
}

func (s *friendService) RelationsOf(ctx context.Context, userID int64) (*models.Relations, error) {
	relations, err := s.repo.Relations(ctx, userID)
	if err != nil {
		return nil, storageError("load relations", err)
	}
	return relations, nil
}

func (s *friendService) RelationTo(ctx context.Context, userID, otherID int64) (models.Action, error) {
	if _, err := s.users.GetUser(ctx, otherID); err != nil {
		return "", err
	}
	relations, err := s.RelationsOf(ctx, userID)
	if err != nil {
		return "", err
	}
	return relations.Classify(otherID), nil
}

func storageError(operation string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewDatabaseError(operation, err)
}

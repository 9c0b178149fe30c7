package service

import (
	"context"

	"racemates/internal/models"
	"racemates/internal/relationship"
	"racemates/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendLinkRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendLinkRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest sends a friend request to the target user. A previously
// rejected link between the pair does not stand in the way: the dead row is
// replaced with a fresh pending request.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.FriendLink, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendLinkStatusAccepted:
			return nil, models.NewValidationError("You are already friends")
		case models.FriendLinkStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewValidationError("Friend request already sent")
			}
			return nil, models.NewValidationError("You already have a pending friend request from this user")
		case models.FriendLinkStatusBlocked:
			return nil, models.NewValidationError("Cannot send friend request to this user")
		case models.FriendLinkStatusRejected:
			if err := s.friendRepo.Delete(ctx, existing.ID); err != nil {
				return nil, err
			}
		}
	}

	link := &models.FriendLink{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendLinkStatusPending,
	}
	if err := s.friendRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, link.ID)
}

// GetPendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request addressed to the user.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendLink, error) {
	link, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if link.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("You can only accept friend requests sent to you")
	}
	if link.Status != models.FriendLinkStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendLinkStatusAccepted); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects a pending friend request addressed to the user.
// The row is kept with rejected status rather than deleted, so the request
// cannot silently revert to an open invitation.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendLink, error) {
	link, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if link.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("You can only reject friend requests sent to you")
	}
	if link.Status != models.FriendLinkStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendLinkStatusRejected); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// CancelFriendRequest withdraws a pending request the user sent. Unlike a
// rejection the row is removed, so a later request starts clean.
func (s *FriendService) CancelFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendLink, error) {
	link, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if link.RequesterID != userID {
		return nil, models.NewUnauthorizedError("You can only cancel requests you sent")
	}
	if link.Status != models.FriendLinkStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	return link, nil
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetRelationships classifies every friend link touching the user from their
// point of view and partitions them into friends, incoming and outgoing lists.
func (s *FriendService) GetRelationships(ctx context.Context, userID uint) (relationship.Lists, error) {
	links, err := s.friendRepo.GetLinksFor(ctx, userID)
	if err != nil {
		return relationship.Lists{}, err
	}
	return relationship.Partition(userID, links), nil
}

// GetRelationshipWith resolves the relationship between the user and a single
// target as seen by the user.
func (s *FriendService) GetRelationshipWith(ctx context.Context, userID, targetUserID uint) (relationship.Resolution, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return relationship.Resolution{}, err
	}

	link, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return relationship.Resolution{}, err
	}
	if link == nil {
		return relationship.Resolution{
			Classification: relationship.Inactive,
			OtherPartyID:   targetUserID,
		}, nil
	}

	res, err := relationship.Resolve(userID, link)
	if err != nil {
		return relationship.Resolution{}, models.NewInternalError(err)
	}
	return res, nil
}

// RemoveFriend removes the friendship between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.FriendLink, error) {
	link, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.Status != models.FriendLinkStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", 0)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return nil, err
	}
	return link, nil
}

// BlockUser blocks the target user, replacing any existing link between the
// pair. A blocked link refuses new friend requests from either side.
func (s *FriendService) BlockUser(ctx context.Context, userID, targetUserID uint) (*models.FriendLink, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot block yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.FriendLinkStatusBlocked {
			return existing, nil
		}
		if err := s.friendRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	link := &models.FriendLink{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendLinkStatusBlocked,
	}
	if err := s.friendRepo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

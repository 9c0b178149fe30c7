package repository

import (
	"context"
	"errors"

	"racemates/internal/models"

	"gorm.io/gorm"
)

// FriendLinkRepository defines the interface for friend link data operations.
type FriendLinkRepository interface {
	Create(ctx context.Context, link *models.FriendLink) error
	GetByID(ctx context.Context, id uint) (*models.FriendLink, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendLink, error)
	GetLinksFor(ctx context.Context, userID uint) ([]models.FriendLink, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendLink, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.FriendLink, error)
	UpdateStatus(ctx context.Context, linkID uint, status models.FriendLinkStatus) error
	Delete(ctx context.Context, linkID uint) error
	RemoveFriendship(ctx context.Context, userID1, userID2 uint) error
}

type friendLinkRepository struct {
	db *gorm.DB
}

// NewFriendLinkRepository creates a new friend link repository.
func NewFriendLinkRepository(db *gorm.DB) FriendLinkRepository {
	return &friendLinkRepository{db: db}
}

func (r *friendLinkRepository) Create(ctx context.Context, link *models.FriendLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A friend link between these users already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendLinkRepository) GetByID(ctx context.Context, id uint) (*models.FriendLink, error) {
	var link models.FriendLink
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Addressee").First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("FriendLink", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &link, nil
}

func (r *friendLinkRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendLink, error) {
	var link models.FriendLink

	// A link can exist in either direction.
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1).
		Preload("Requester").
		Preload("Addressee").
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No link exists
		}
		return nil, models.NewInternalError(err)
	}
	return &link, nil
}

func (r *friendLinkRepository) GetLinksFor(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	var links []models.FriendLink
	if err := readDB(r.db).WithContext(ctx).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Preload("Requester").
		Preload("Addressee").
		Order("updated_at DESC").
		Find(&links).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return links, nil
}

func (r *friendLinkRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	// For every accepted link touching the user, select the other side.
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN friend_links f ON (users.id = f.requester_id OR users.id = f.addressee_id)").
		Where("f.status = ? AND (f.requester_id = ? OR f.addressee_id = ?) AND users.id != ?",
			models.FriendLinkStatusAccepted, userID, userID, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *friendLinkRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	var links []models.FriendLink

	// Pending requests where the user is the addressee
	if err := readDB(r.db).WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, models.FriendLinkStatusPending).
		Preload("Requester").
		Preload("Addressee").
		Find(&links).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return links, nil
}

func (r *friendLinkRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendLink, error) {
	var links []models.FriendLink

	// Pending requests where the user is the requester
	if err := readDB(r.db).WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.FriendLinkStatusPending).
		Preload("Requester").
		Preload("Addressee").
		Find(&links).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return links, nil
}

func (r *friendLinkRepository) UpdateStatus(ctx context.Context, linkID uint, status models.FriendLinkStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.FriendLink{}).
		Where("id = ?", linkID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendLinkRepository) Delete(ctx context.Context, linkID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.FriendLink{}, linkID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendLinkRepository) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.FriendLink{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

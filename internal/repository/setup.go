package repository

import (
	"context"
	"errors"

	"racemates/internal/models"

	"gorm.io/gorm"
)

// SetupRepository defines the interface for car setup file data operations.
type SetupRepository interface {
	Create(ctx context.Context, setup *models.SetupFile) error
	GetByID(ctx context.Context, id uint) (*models.SetupFile, error)
	GetWithContent(ctx context.Context, id uint) (*models.SetupFile, error)
	Update(ctx context.Context, setup *models.SetupFile) error
	Delete(ctx context.Context, id uint) error
	ListForOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.SetupFile, error)
	ListForTeam(ctx context.Context, teamID uint, limit, offset int) ([]models.SetupFile, error)
}

type setupRepository struct {
	db *gorm.DB
}

// NewSetupRepository creates a new setup file repository.
func NewSetupRepository(db *gorm.DB) SetupRepository {
	return &setupRepository{db: db}
}

func (r *setupRepository) Create(ctx context.Context, setup *models.SetupFile) error {
	if err := r.db.WithContext(ctx).Create(setup).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A setup with this storage key already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *setupRepository) GetByID(ctx context.Context, id uint) (*models.SetupFile, error) {
	var setup models.SetupFile
	// Omit the blob; listings and metadata views never need it.
	if err := readDB(r.db).WithContext(ctx).
		Omit("content").
		Preload("Owner").
		First(&setup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("SetupFile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &setup, nil
}

func (r *setupRepository) GetWithContent(ctx context.Context, id uint) (*models.SetupFile, error) {
	var setup models.SetupFile
	if err := r.db.WithContext(ctx).First(&setup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("SetupFile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &setup, nil
}

func (r *setupRepository) Update(ctx context.Context, setup *models.SetupFile) error {
	if err := r.db.WithContext(ctx).Save(setup).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *setupRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.SetupFile{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *setupRepository) ListForOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.SetupFile, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var setups []models.SetupFile
	if err := readDB(r.db).WithContext(ctx).
		Omit("content").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&setups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return setups, nil
}

func (r *setupRepository) ListForTeam(ctx context.Context, teamID uint, limit, offset int) ([]models.SetupFile, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var setups []models.SetupFile
	if err := readDB(r.db).WithContext(ctx).
		Omit("content").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&setups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return setups, nil
}

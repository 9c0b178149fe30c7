package repository

import (
	"context"
	"errors"

	"racemates/internal/models"

	"gorm.io/gorm"
)

// NoticeRepository defines the interface for notice board data operations.
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id uint) (*models.Notice, error)
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, category string, status models.NoticeStatus, limit, offset int) ([]models.Notice, error)
	SetStatus(ctx context.Context, id uint, status models.NoticeStatus) error
	CreateReply(ctx context.Context, reply *models.NoticeReply) error
	GetReplies(ctx context.Context, noticeID uint) ([]models.NoticeReply, error)
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a new notice repository.
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if err := r.db.WithContext(ctx).Create(notice).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *noticeRepository) GetByID(ctx context.Context, id uint) (*models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Author").
		First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notice", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &notice, nil
}

func (r *noticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	if err := r.db.WithContext(ctx).Save(notice).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *noticeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Notice{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *noticeRepository) List(ctx context.Context, category string, status models.NoticeStatus, limit, offset int) ([]models.Notice, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx).Preload("Author")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var notices []models.Notice
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notices).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notices, nil
}

func (r *noticeRepository) SetStatus(ctx context.Context, id uint, status models.NoticeStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *noticeRepository) CreateReply(ctx context.Context, reply *models.NoticeReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *noticeRepository) GetReplies(ctx context.Context, noticeID uint) ([]models.NoticeReply, error) {
	var replies []models.NoticeReply
	if err := readDB(r.db).WithContext(ctx).
		Where("notice_id = ?", noticeID).
		Preload("Author").
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

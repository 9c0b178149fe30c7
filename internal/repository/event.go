package repository

import (
	"context"
	"errors"
	"time"

	"racemates/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository defines the interface for event and RSVP data operations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	ListUpcoming(ctx context.Context, teamID *uint, limit, offset int) ([]models.Event, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Event, error)
	UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error
	GetRSVPs(ctx context.Context, eventID uint) ([]models.EventRSVP, error)
	GetConfirmedAttendees(ctx context.Context, eventID uint) ([]models.User, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).
		Preload("RSVPs").
		Preload("RSVPs.User").
		First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Event{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, teamID *uint, limit, offset int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx).Where("starts_at > ?", time.Now())
	if teamID != nil {
		q = q.Where("team_id = ?", *teamID)
	}

	var events []models.Event
	if err := q.Order("starts_at ASC").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Events the user created, RSVP'd to, or that belong to one of their teams.
	var events []models.Event
	if err := readDB(r.db).WithContext(ctx).
		Distinct("events.*").
		Joins("LEFT JOIN event_rsvps r ON events.id = r.event_id AND r.user_id = ?", userID).
		Joins("LEFT JOIN team_memberships tm ON events.team_id = tm.team_id AND tm.user_id = ?", userID).
		Where("events.created_by = ? OR r.id IS NOT NULL OR tm.id IS NOT NULL", userID).
		Where("events.starts_at > ?", time.Now()).
		Order("events.starts_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "updated_at"}),
	}).Create(rsvp).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetRSVPs(ctx context.Context, eventID uint) ([]models.EventRSVP, error) {
	var rsvps []models.EventRSVP
	if err := readDB(r.db).WithContext(ctx).
		Where("event_id = ?", eventID).
		Preload("User").
		Find(&rsvps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rsvps, nil
}

func (r *eventRepository) GetConfirmedAttendees(ctx context.Context, eventID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN event_rsvps r ON users.id = r.user_id").
		Where("r.event_id = ? AND r.response = ?", eventID, models.RSVPYes).
		Order("r.created_at ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

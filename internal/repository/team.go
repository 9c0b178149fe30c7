package repository

import (
	"context"
	"errors"
	"time"

	"racemates/internal/cache"
	"racemates/internal/models"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uint) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, recruitingOnly bool, limit, offset int) ([]models.Team, error)
	GetMembership(ctx context.Context, teamID, userID uint) (*models.TeamMembership, error)
	GetMemberships(ctx context.Context, userID uint) ([]models.TeamMembership, error)
	AddMember(ctx context.Context, membership *models.TeamMembership) error
	UpdateMemberRole(ctx context.Context, teamID, userID uint, role models.TeamRole) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	CreateJoinRequest(ctx context.Context, req *models.TeamJoinRequest) error
	GetJoinRequest(ctx context.Context, id uint) (*models.TeamJoinRequest, error)
	GetPendingJoinRequest(ctx context.Context, teamID, userID uint) (*models.TeamJoinRequest, error)
	GetPendingJoinRequests(ctx context.Context, teamID uint) ([]models.TeamJoinRequest, error)
	ResolveJoinRequest(ctx context.Context, id uint, status models.TeamJoinRequestStatus, reviewerID uint) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A team with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	key := cache.TeamKey(id)

	err := cache.Aside(ctx, key, &team, cache.TeamTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Preload("Members").
			Preload("Members.User").
			First(&team, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Team", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Save(team).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTeam(ctx, team.ID)
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Team{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTeam(ctx, id)
	return nil
}

func (r *teamRepository) List(ctx context.Context, recruitingOnly bool, limit, offset int) ([]models.Team, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx)
	if recruitingOnly {
		q = q.Where("recruiting = ?", true)
	}

	var teams []models.Team
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&teams).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return teams, nil
}

func (r *teamRepository) GetMembership(ctx context.Context, teamID, userID uint) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	if err := readDB(r.db).WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *teamRepository) GetMemberships(ctx context.Context, userID uint) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Team").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *teamRepository) AddMember(ctx context.Context, membership *models.TeamMembership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User is already a member of this team")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTeam(ctx, membership.TeamID)
	return nil
}

func (r *teamRepository) UpdateMemberRole(ctx context.Context, teamID, userID uint, role models.TeamRole) error {
	if err := r.db.WithContext(ctx).
		Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTeam(ctx, teamID)
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMembership{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTeam(ctx, teamID)
	return nil
}

func (r *teamRepository) CreateJoinRequest(ctx context.Context, req *models.TeamJoinRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) GetJoinRequest(ctx context.Context, id uint) (*models.TeamJoinRequest, error) {
	var req models.TeamJoinRequest
	if err := r.db.WithContext(ctx).Preload("User").Preload("Team").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("TeamJoinRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *teamRepository) GetPendingJoinRequest(ctx context.Context, teamID, userID uint) (*models.TeamJoinRequest, error) {
	var req models.TeamJoinRequest
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, models.TeamJoinRequestStatusPending).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *teamRepository) GetPendingJoinRequests(ctx context.Context, teamID uint) ([]models.TeamJoinRequest, error) {
	var reqs []models.TeamJoinRequest
	if err := readDB(r.db).WithContext(ctx).
		Where("team_id = ? AND status = ?", teamID, models.TeamJoinRequestStatusPending).
		Preload("User").
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *teamRepository) ResolveJoinRequest(ctx context.Context, id uint, status models.TeamJoinRequestStatus, reviewerID uint) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&models.TeamJoinRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              status,
			"reviewed_by_user_id": reviewerID,
			"reviewed_at":         now,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

package service

import (
	"context"

	"racemates/internal/models"
	"racemates/internal/repository"
	"racemates/internal/validation"
)

// TeamService provides team management business logic.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// CreateTeamInput is the input for creating a team.
type CreateTeamInput struct {
	OwnerID     uint
	Name        string
	Tag         string
	Description string
	Avatar      string
	Recruiting  bool
}

// UpdateTeamInput carries editable team fields. Empty strings leave the
// field unchanged.
type UpdateTeamInput struct {
	TeamID      uint
	ActorID     uint
	Description string
	Avatar      string
	Tag         string
	Recruiting  *bool
}

// NewTeamService returns a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo}
}

// CreateTeam creates a team with the creator as owner.
func (s *TeamService) CreateTeam(ctx context.Context, in CreateTeamInput) (*models.Team, error) {
	if err := validation.ValidateTeamName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateTeamTag(in.Tag); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	team := &models.Team{
		Name:        in.Name,
		Tag:         in.Tag,
		Description: in.Description,
		Avatar:      in.Avatar,
		OwnerID:     in.OwnerID,
		Recruiting:  in.Recruiting,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	membership := &models.TeamMembership{
		TeamID: team.ID,
		UserID: in.OwnerID,
		Role:   models.TeamRoleOwner,
	}
	if err := s.teamRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	return s.teamRepo.GetByID(ctx, team.ID)
}

// GetTeam returns the team with members.
func (s *TeamService) GetTeam(ctx context.Context, teamID uint) (*models.Team, error) {
	return s.teamRepo.GetByID(ctx, teamID)
}

// ListTeams lists teams, optionally only those recruiting.
func (s *TeamService) ListTeams(ctx context.Context, recruitingOnly bool, limit, offset int) ([]models.Team, error) {
	return s.teamRepo.List(ctx, recruitingOnly, limit, offset)
}

// GetUserTeams returns the teams the user belongs to.
func (s *TeamService) GetUserTeams(ctx context.Context, userID uint) ([]models.TeamMembership, error) {
	return s.teamRepo.GetMemberships(ctx, userID)
}

// UpdateTeam applies team edits. Owners and managers may edit.
func (s *TeamService) UpdateTeam(ctx context.Context, in UpdateTeamInput) (*models.Team, error) {
	if err := s.requireManager(ctx, in.TeamID, in.ActorID); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, in.TeamID)
	if err != nil {
		return nil, err
	}

	if in.Description != "" {
		team.Description = in.Description
	}
	if in.Avatar != "" {
		team.Avatar = in.Avatar
	}
	if in.Tag != "" {
		if err := validation.ValidateTeamTag(in.Tag); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		team.Tag = in.Tag
	}
	if in.Recruiting != nil {
		team.Recruiting = *in.Recruiting
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DisbandTeam deletes the team. Only the owner may disband.
func (s *TeamService) DisbandTeam(ctx context.Context, teamID, actorID uint) error {
	membership, err := s.teamRepo.GetMembership(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if membership == nil || membership.Role != models.TeamRoleOwner {
		return models.NewUnauthorizedError("Only the team owner can disband the team")
	}
	return s.teamRepo.Delete(ctx, teamID)
}

// RequestToJoin creates a pending join request for a recruiting team.
func (s *TeamService) RequestToJoin(ctx context.Context, teamID, userID uint, message string) (*models.TeamJoinRequest, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.Recruiting {
		return nil, models.NewValidationError("This team is not recruiting")
	}

	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return nil, models.NewValidationError("You are already a member of this team")
	}

	pending, err := s.teamRepo.GetPendingJoinRequest(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, models.NewValidationError("You already have a pending request for this team")
	}

	req := &models.TeamJoinRequest{
		TeamID:  teamID,
		UserID:  userID,
		Message: message,
		Status:  models.TeamJoinRequestStatusPending,
	}
	if err := s.teamRepo.CreateJoinRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetPendingJoinRequests lists pending requests for managers to review.
func (s *TeamService) GetPendingJoinRequests(ctx context.Context, teamID, actorID uint) ([]models.TeamJoinRequest, error) {
	if err := s.requireManager(ctx, teamID, actorID); err != nil {
		return nil, err
	}
	return s.teamRepo.GetPendingJoinRequests(ctx, teamID)
}

// ReviewJoinRequest approves or rejects a pending join request. Approval
// creates the membership.
func (s *TeamService) ReviewJoinRequest(ctx context.Context, requestID, actorID uint, approve bool) (*models.TeamJoinRequest, error) {
	req, err := s.teamRepo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.TeamJoinRequestStatusPending {
		return nil, models.NewValidationError("Join request is not pending")
	}
	if err := s.requireManager(ctx, req.TeamID, actorID); err != nil {
		return nil, err
	}

	status := models.TeamJoinRequestStatusRejected
	if approve {
		status = models.TeamJoinRequestStatusApproved
	}
	if err := s.teamRepo.ResolveJoinRequest(ctx, requestID, status, actorID); err != nil {
		return nil, err
	}

	if approve {
		membership := &models.TeamMembership{
			TeamID: req.TeamID,
			UserID: req.UserID,
			Role:   models.TeamRoleDriver,
		}
		if err := s.teamRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	}

	return s.teamRepo.GetJoinRequest(ctx, requestID)
}

// SetMemberRole promotes or demotes a member. Only the owner changes roles,
// and the owner's own role is fixed.
func (s *TeamService) SetMemberRole(ctx context.Context, teamID, actorID, memberID uint, role models.TeamRole) error {
	actor, err := s.teamRepo.GetMembership(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if actor == nil || actor.Role != models.TeamRoleOwner {
		return models.NewUnauthorizedError("Only the team owner can change member roles")
	}
	if memberID == actorID {
		return models.NewValidationError("The owner role cannot be changed")
	}
	if role != models.TeamRoleManager && role != models.TeamRoleDriver {
		return models.NewValidationError("Role must be manager or driver")
	}

	member, err := s.teamRepo.GetMembership(ctx, teamID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return models.NewNotFoundError("TeamMembership", memberID)
	}

	return s.teamRepo.UpdateMemberRole(ctx, teamID, memberID, role)
}

// RemoveMember kicks a member (managers and above) or lets a member leave.
// The owner cannot leave; they must disband or transfer first.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, memberID uint) error {
	member, err := s.teamRepo.GetMembership(ctx, teamID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return models.NewNotFoundError("TeamMembership", memberID)
	}
	if member.Role == models.TeamRoleOwner {
		return models.NewValidationError("The owner cannot be removed from the team")
	}

	if actorID != memberID {
		if err := s.requireManager(ctx, teamID, actorID); err != nil {
			return err
		}
	}

	return s.teamRepo.RemoveMember(ctx, teamID, memberID)
}

func (s *TeamService) requireManager(ctx context.Context, teamID, userID uint) error {
	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if membership == nil || (membership.Role != models.TeamRoleOwner && membership.Role != models.TeamRoleManager) {
		return models.NewUnauthorizedError("You must be a team manager to do this")
	}
	return nil
}

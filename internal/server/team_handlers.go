package server

import (
	"time"

	"racemates/internal/models"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam handles POST /api/teams. The creator becomes owner.
func (s *Server) CreateTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Tag         string `json:"tag"`
		Description string `json:"description"`
		Avatar      string `json:"avatar"`
		Recruiting  *bool  `json:"recruiting"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recruiting := true
	if req.Recruiting != nil {
		recruiting = *req.Recruiting
	}

	team, err := s.teamService.CreateTeam(c.Context(), service.CreateTeamInput{
		OwnerID:     userID,
		Name:        req.Name,
		Tag:         req.Tag,
		Description: req.Description,
		Avatar:      req.Avatar,
		Recruiting:  recruiting,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

// GetTeam handles GET /api/teams/:id
func (s *Server) GetTeam(c *fiber.Ctx) error {
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	team, err := s.teamService.GetTeam(c.Context(), teamID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(team)
}

// ListTeams handles GET /api/teams
func (s *Server) ListTeams(c *fiber.Ctx) error {
	p := parsePagination(c, 25)
	recruitingOnly := c.QueryBool("recruiting")

	teams, err := s.teamService.ListTeams(c.Context(), recruitingOnly, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(teams)
}

// GetMyTeams handles GET /api/teams/mine
func (s *Server) GetMyTeams(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	memberships, err := s.teamService.GetUserTeams(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(memberships)
}

// GetTeamMembers handles GET /api/teams/:id/members
func (s *Server) GetTeamMembers(c *fiber.Ctx) error {
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	team, err := s.teamService.GetTeam(c.Context(), teamID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(team.Members)
}

// UpdateTeam handles PUT /api/teams/:id. Owner or manager only.
func (s *Server) UpdateTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Description string `json:"description"`
		Avatar      string `json:"avatar"`
		Tag         string `json:"tag"`
		Recruiting  *bool  `json:"recruiting"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	team, err := s.teamService.UpdateTeam(c.Context(), service.UpdateTeamInput{
		TeamID:      teamID,
		ActorID:     userID,
		Description: req.Description,
		Avatar:      req.Avatar,
		Tag:         req.Tag,
		Recruiting:  req.Recruiting,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(team)
}

// DisbandTeam handles DELETE /api/teams/:id. Owner only.
func (s *Server) DisbandTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.teamService.DisbandTeam(c.Context(), teamID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RequestToJoin handles POST /api/teams/:id/join
func (s *Server) RequestToJoin(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	joinReq, err := s.teamService.RequestToJoin(c.Context(), teamID, userID, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Let the team's owner know there is something to review.
	if team, terr := s.teamService.GetTeam(c.Context(), teamID); terr == nil {
		s.publishUserEvent(team.OwnerID, EventTeamJoinRequested, map[string]interface{}{
			"request_id": joinReq.ID,
			"team_id":    teamID,
			"user_id":    userID,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(joinReq)
}

// GetTeamJoinRequests handles GET /api/teams/:id/requests. Owner or manager only.
func (s *Server) GetTeamJoinRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	requests, err := s.teamService.GetPendingJoinRequests(c.Context(), teamID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// ReviewJoinRequest handles POST /api/teams/requests/:requestId/review
func (s *Server) ReviewJoinRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	joinReq, err := s.teamService.ReviewJoinRequest(c.Context(), requestID, userID, req.Approve)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(joinReq.UserID, EventTeamJoinReviewed, map[string]interface{}{
		"request_id":  joinReq.ID,
		"team_id":     joinReq.TeamID,
		"status":      string(joinReq.Status),
		"reviewed_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(joinReq)
}

// SetMemberRole handles PUT /api/teams/:id/members/:userId/role. Owner only.
func (s *Server) SetMemberRole(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.teamService.SetMemberRole(c.Context(), teamID, userID, memberID, models.TeamRole(req.Role)); err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(memberID, EventTeamMemberRoleChanged, map[string]interface{}{
		"team_id": teamID,
		"role":    req.Role,
	})

	return c.SendStatus(fiber.StatusOK)
}

// RemoveTeamMember handles DELETE /api/teams/:id/members/:userId. A member
// may remove themselves; managers may remove drivers; the owner is
// unremovable.
func (s *Server) RemoveTeamMember(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.teamService.RemoveMember(c.Context(), teamID, userID, memberID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

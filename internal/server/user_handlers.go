package server

import (
	"racemates/internal/models"
	"racemates/internal/repository"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		DisplayName    string   `json:"display_name"`
		Bio            string   `json:"bio"`
		Avatar         string   `json:"avatar"`
		Region         string   `json:"region"`
		Timezone       string   `json:"timezone"`
		Platforms      []string `json:"platforms"`
		IRating        *int     `json:"irating"`
		SafetyRating   *float64 `json:"safety_rating"`
		LicenseClass   string   `json:"license_class"`
		TTRating       *int     `json:"tt_rating"`
		DrivingStyles  []string `json:"driving_styles"`
		RoleTags       []string `json:"role_tags"`
		LookingForTeam *bool    `json:"looking_for_team"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         userID,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		Avatar:         req.Avatar,
		Region:         req.Region,
		Timezone:       req.Timezone,
		Platforms:      req.Platforms,
		IRating:        req.IRating,
		SafetyRating:   req.SafetyRating,
		LicenseClass:   req.LicenseClass,
		TTRating:       req.TTRating,
		DrivingStyles:  req.DrivingStyles,
		RoleTags:       req.RoleTags,
		LookingForTeam: req.LookingForTeam,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// ChangeMyUsername handles PUT /api/users/me/username
func (s *Server) ChangeMyUsername(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.ChangeUsername(c.Context(), userID, req.Username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyProgression handles GET /api/users/me/progression
func (s *Server) GetMyProgression(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	progression, err := s.userService.GetProgression(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(progression)
}

// GetUserProgression handles GET /api/users/:id/progression
func (s *Server) GetUserProgression(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	progression, err := s.userService.GetProgression(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(progression)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// SearchRacers handles GET /api/users/search. Only racers who completed
// onboarding appear in results.
func (s *Server) SearchRacers(c *fiber.Ctx) error {
	p := parsePagination(c, 25)

	users, err := s.userService.SearchRacers(c.Context(), repository.RacerFilter{
		Region:         c.Query("region"),
		Platform:       c.Query("platform"),
		LookingForTeam: c.QueryBool("looking_for_team"),
		MinIRating:     c.QueryInt("min_irating", 0),
		Limit:          p.Limit,
		Offset:         p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(c.Context(), id, true)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(c.Context(), id, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

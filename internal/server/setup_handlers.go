package server

import (
	"fmt"
	"io"
	"strconv"

	"racemates/internal/models"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadSetup handles POST /api/setups. The setup file arrives as a
// multipart upload; car/track/sim/notes ride along as form fields. The
// content is stored as an opaque blob, never parsed.
func (s *Server) UploadSetup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Setup file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var teamID *uint
	if raw := c.FormValue("team_id"); raw != "" {
		id, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid team ID"))
		}
		tid := uint(id)
		teamID = &tid
	}

	setup, err := s.setupService.Upload(c.Context(), service.UploadSetupInput{
		OwnerID:  userID,
		TeamID:   teamID,
		Car:      c.FormValue("car"),
		Track:    c.FormValue("track"),
		Sim:      c.FormValue("sim"),
		FileName: fileHeader.Filename,
		Notes:    c.FormValue("notes"),
		Content:  content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(setup)
}

// GetSetup handles GET /api/setups/:id (metadata only, no content).
func (s *Server) GetSetup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	setupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	setup, err := s.setupService.GetMetadata(c.Context(), setupID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(setup)
}

// DownloadSetup handles GET /api/setups/:id/download. Owner or a member of
// the team the setup is shared with.
func (s *Server) DownloadSetup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	setupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	setup, err := s.setupService.Download(c.Context(), setupID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", setup.FileName))
	return c.Send(setup.Content)
}

// ListMySetups handles GET /api/setups/mine
func (s *Server) ListMySetups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 25)

	setups, err := s.setupService.ListMine(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(setups)
}

// ListTeamSetups handles GET /api/teams/:id/setups. Members only.
func (s *Server) ListTeamSetups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 25)

	setups, err := s.setupService.ListForTeam(c.Context(), teamID, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(setups)
}

// UpdateSetupNotes handles PUT /api/setups/:id/notes. Owner only.
func (s *Server) UpdateSetupNotes(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	setupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	setup, err := s.setupService.UpdateNotes(c.Context(), setupID, userID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(setup)
}

// ShareSetup handles PUT /api/setups/:id/share. A null team_id makes the
// setup private again.
func (s *Server) ShareSetup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	setupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		TeamID *uint `json:"team_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	setup, err := s.setupService.ShareWithTeam(c.Context(), setupID, userID, req.TeamID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if setup.TeamID != nil {
		// Ping the team channel members through their personal streams.
		if team, terr := s.teamService.GetTeam(c.Context(), *setup.TeamID); terr == nil {
			for _, member := range team.Members {
				if member.UserID == userID {
					continue
				}
				s.publishUserEvent(member.UserID, EventSetupShared, map[string]interface{}{
					"setup_id": setup.ID,
					"team_id":  *setup.TeamID,
					"car":      setup.Car,
					"track":    setup.Track,
				})
			}
		}
	}

	return c.JSON(setup)
}

// DeleteSetup handles DELETE /api/setups/:id. Owner only.
func (s *Server) DeleteSetup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	setupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.setupService.Delete(c.Context(), setupID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"time"

	"racemates/internal/models"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateEvent handles POST /api/events. Team events require membership in
// the team; open events are visible to the creator's friends.
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		TeamID          *uint     `json:"team_id"`
		Title           string    `json:"title"`
		Track           string    `json:"track"`
		Sim             string    `json:"sim"`
		Description     string    `json:"description"`
		StartsAt        time.Time `json:"starts_at"`
		DurationMinutes int       `json:"duration_minutes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	event, err := s.eventService.CreateEvent(c.Context(), service.CreateEventInput{
		CreatedBy:       userID,
		TeamID:          req.TeamID,
		Title:           req.Title,
		Track:           req.Track,
		Sim:             req.Sim,
		Description:     req.Description,
		StartsAt:        req.StartsAt,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetEvent handles GET /api/events/:id
func (s *Server) GetEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	event, err := s.eventService.GetEvent(c.Context(), eventID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(event)
}

// ListMyEvents handles GET /api/events/mine
func (s *Server) ListMyEvents(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 25)

	events, err := s.eventService.ListMyEvents(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(events)
}

// ListTeamEvents handles GET /api/teams/:id/events
func (s *Server) ListTeamEvents(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 25)

	events, err := s.eventService.ListTeamEvents(c.Context(), teamID, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(events)
}

// RSVPToEvent handles POST /api/events/:id/rsvp. One row per (event, user);
// a repeated RSVP replaces the previous answer.
func (s *Server) RSVPToEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Response string `json:"response"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rsvp, err := s.eventService.RSVP(c.Context(), eventID, userID, models.RSVPResponse(req.Response))
	if err != nil {
		return respondServiceError(c, err)
	}

	// Tell the organizer who is coming.
	if event, gerr := s.eventRepo.GetByID(c.Context(), eventID); gerr == nil && event.CreatedBy != userID {
		s.publishUserEvent(event.CreatedBy, EventEventRSVPUpdated, map[string]interface{}{
			"event_id": eventID,
			"user_id":  userID,
			"response": req.Response,
		})
	}

	return c.JSON(rsvp)
}

// GetEventRSVPs handles GET /api/events/:id/rsvps
func (s *Server) GetEventRSVPs(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rsvps, err := s.eventService.GetRSVPs(c.Context(), eventID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(rsvps)
}

// PlanEventStints handles GET /api/events/:id/stints. The event's duration
// is split evenly across confirmed attendees in RSVP order; leftover minutes
// go to the earliest stints.
func (s *Server) PlanEventStints(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stints, err := s.eventService.PlanStints(c.Context(), eventID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"event_id": eventID,
		"stints":   stints,
	})
}

// CancelEvent handles DELETE /api/events/:id. Creator or a team manager.
func (s *Server) CancelEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Capture the RSVP list before the event disappears.
	rsvps, _ := s.eventRepo.GetRSVPs(c.Context(), eventID)

	if err := s.eventService.CancelEvent(c.Context(), eventID, userID); err != nil {
		return respondServiceError(c, err)
	}

	for _, rsvp := range rsvps {
		if rsvp.UserID == userID {
			continue
		}
		s.publishUserEvent(rsvp.UserID, EventEventCancelled, map[string]interface{}{
			"event_id":     eventID,
			"cancelled_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

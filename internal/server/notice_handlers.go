package server

import (
	"time"

	"racemates/internal/models"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostNotice handles POST /api/notices
func (s *Server) PostNotice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	notice, err := s.noticeService.PostNotice(c.Context(), service.CreateNoticeInput{
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(notice)
}

// GetNotice handles GET /api/notices/:id
func (s *Server) GetNotice(c *fiber.Ctx) error {
	noticeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notice, err := s.noticeService.GetNotice(c.Context(), noticeID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notice)
}

// ListNotices handles GET /api/notices with optional category and status filters.
func (s *Server) ListNotices(c *fiber.Ctx) error {
	p := parsePagination(c, 25)

	notices, err := s.noticeService.ListNotices(c.Context(),
		c.Query("category"), models.NoticeStatus(c.Query("status")), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notices)
}

// ReplyToNotice handles POST /api/notices/:id/replies. Closed notices
// reject new replies.
func (s *Server) ReplyToNotice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	noticeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.noticeService.Reply(c.Context(), noticeID, userID, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify the notice author about the reply.
	if notice, gerr := s.noticeService.GetNotice(c.Context(), noticeID); gerr == nil && notice.AuthorID != userID {
		s.publishUserEvent(notice.AuthorID, EventNoticeReplyPosted, map[string]interface{}{
			"notice_id":  noticeID,
			"reply_id":   reply.ID,
			"from_user":  userSummary(reply.Author),
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// CloseNotice handles POST /api/notices/:id/close. Author only.
func (s *Server) CloseNotice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	noticeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notice, err := s.noticeService.CloseNotice(c.Context(), noticeID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notice)
}

// ReopenNotice handles POST /api/notices/:id/reopen. Author only.
func (s *Server) ReopenNotice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	noticeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notice, err := s.noticeService.ReopenNotice(c.Context(), noticeID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notice)
}

// DeleteNotice handles DELETE /api/notices/:id. Author or admin.
func (s *Server) DeleteNotice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	noticeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	isAdmin, err := s.isAdmin(c, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.noticeService.DeleteNotice(c.Context(), noticeID, userID, isAdmin); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

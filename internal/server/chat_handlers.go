package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"racemates/internal/models"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StartDirectConversation handles POST /api/conversations/direct/:userId.
// DMs are only available between accepted friends.
func (s *Server) StartDirectConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	friendID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	conv, err := s.chatService.StartDirectConversation(c.Context(), userID, friendID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	convs, err := s.chatService.GetConversations(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(convs)
}

// GetConversation handles GET /api/conversations/:id
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conv, err := s.chatService.GetConversationForUser(c.Context(), convID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(conv)
}

// GetMessages handles GET /api/conversations/:id/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	messages, err := s.chatService.GetMessagesForUser(c.Context(), convID, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(messages)
}

// SendMessage handles POST /api/conversations/:id/messages. Direct messages
// re-check the friendship at send time, so an unfriended or blocked pair
// cannot keep talking through an old conversation.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, conv, err := s.chatService.SendMessage(c.Context(), service.SendMessageInput{
		UserID:         userID,
		ConversationID: convID,
		Content:        req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.broadcastMessage(conv, message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// broadcastMessage fans a new message out to the conversation channel and to
// each participant's personal notification stream.
func (s *Server) broadcastMessage(conv *models.Conversation, message *models.Message) {
	if s.notifier != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":            EventMessageReceived,
			"conversation_id": conv.ID,
			"payload":         message,
		})
		if err != nil {
			log.Printf("marshal chat message error: %v", err)
			return
		}
		if perr := s.notifier.PublishChatMessage(context.Background(), conv.ID, string(payload)); perr != nil {
			log.Printf("publish chat message error: %v", perr)
		}
	}

	for _, participant := range conv.Participants {
		if participant.ID == message.SenderID {
			continue
		}
		s.publishUserEvent(participant.ID, EventMessageReceived, map[string]interface{}{
			"conversation_id": conv.ID,
			"message_id":      message.ID,
			"from_user":       userSummary(message.Sender),
			"preview":         previewOf(message.Content),
			"created_at":      time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

// previewOf truncates message content for notification payloads.
func previewOf(content string) string {
	const maxPreview = 120
	runes := []rune(content)
	if len(runes) <= maxPreview {
		return content
	}
	return string(runes[:maxPreview]) + "…"
}

// AddConversationParticipant handles POST /api/conversations/:id/participants.
// Group conversations only; team channels admit team members.
func (s *Server) AddConversationParticipant(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	conv, err := s.chatService.AddParticipant(c.Context(), convID, userID, req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(conv)
}

// MarkConversationRead handles POST /api/conversations/:id/read
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.MarkRead(c.Context(), convID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveConversation handles DELETE /api/conversations/:id. Only team
// channels can be left; DMs are permanent until unfriending.
func (s *Server) LeaveConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	convID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.chatService.LeaveConversation(c.Context(), convID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTeamChannel handles GET /api/teams/:id/channel. The channel is created
// on first access by any team member.
func (s *Server) GetTeamChannel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conv, err := s.chatService.EnsureTeamChannel(c.Context(), teamID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(conv)
}

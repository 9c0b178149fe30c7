// Package service provides application business logic (friends, onboarding,
// chat, teams, events and the rest).
package service

import (
	"context"
	"fmt"

	"racemates/internal/models"
	"racemates/internal/repository"
)

const maxMessageContentLen = 10000

// ChatService provides direct and team messaging business logic.
type ChatService struct {
	chatRepo   repository.ChatRepository
	friendRepo repository.FriendLinkRepository
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	UserID         uint
	ConversationID uint
	Content        string
}

// NewChatService returns a new ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	friendRepo repository.FriendLinkRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		friendRepo: friendRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
	}
}

// StartDirectConversation opens (or returns the existing) DM between the
// user and a friend. DMs are only available between accepted friends.
func (s *ChatService) StartDirectConversation(ctx context.Context, userID, friendID uint) (*models.Conversation, error) {
	if userID == friendID {
		return nil, models.NewValidationError("Cannot start a conversation with yourself")
	}

	link, err := s.friendRepo.GetBetweenUsers(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.Status != models.FriendLinkStatusAccepted {
		return nil, models.NewUnauthorizedError("You can only message your friends")
	}

	existing, err := s.chatRepo.GetDirectConversation(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.chatRepo.GetConversation(ctx, existing.ID)
	}

	conv := &models.Conversation{
		IsGroup:   false,
		CreatedBy: userID,
	}
	if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	if err := s.chatRepo.AddParticipant(ctx, conv.ID, userID); err != nil {
		return nil, err
	}
	if err := s.chatRepo.AddParticipant(ctx, conv.ID, friendID); err != nil {
		return nil, err
	}

	return s.chatRepo.GetConversation(ctx, conv.ID)
}

// EnsureTeamChannel returns the team's channel, creating it on first use
// and adding the member.
func (s *ChatService) EnsureTeamChannel(ctx context.Context, teamID, userID uint) (*models.Conversation, error) {
	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewUnauthorizedError("You are not a member of this team")
	}

	conv, err := s.chatRepo.GetTeamConversation(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		conv = &models.Conversation{
			Name:      fmt.Sprintf("%s channel", team.Name),
			IsGroup:   true,
			TeamID:    &teamID,
			CreatedBy: userID,
		}
		if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
			return nil, err
		}
	}

	if err := s.chatRepo.AddParticipant(ctx, conv.ID, userID); err != nil {
		return nil, err
	}

	return s.chatRepo.GetConversation(ctx, conv.ID)
}

// AddParticipant adds another user to a group conversation. Direct
// conversations are fixed to their two friends; team channels only admit
// members of the team.
func (s *ChatService) AddParticipant(ctx context.Context, convID, actorID, newUserID uint) (*models.Conversation, error) {
	conv, err := s.GetConversationForUser(ctx, convID, actorID)
	if err != nil {
		return nil, err
	}
	if !conv.IsGroup {
		return nil, models.NewValidationError("Direct conversations cannot take additional participants")
	}
	if conv.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *conv.TeamID, newUserID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, models.NewValidationError("Only team members can join the team channel")
		}
	}
	if err := s.chatRepo.AddParticipant(ctx, convID, newUserID); err != nil {
		return nil, err
	}
	return s.chatRepo.GetConversation(ctx, convID)
}

// GetConversations returns the user's conversations, most recent first.
func (s *ChatService) GetConversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	return s.chatRepo.GetUserConversations(ctx, userID)
}

// GetConversationForUser returns the conversation if the user is a participant.
func (s *ChatService) GetConversationForUser(ctx context.Context, convID, userID uint) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !isConversationParticipant(conv, userID) {
		return nil, models.NewUnauthorizedError("You are not a participant in this conversation")
	}
	return conv, nil
}

// SendMessage sends a message in a conversation the user participates in.
// For DMs the friendship must still be live: unfriending or blocking ends
// the ability to message.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, *models.Conversation, error) {
	if in.Content == "" {
		return nil, nil, models.NewValidationError("Message content is required")
	}
	if len(in.Content) > maxMessageContentLen {
		return nil, nil, models.NewValidationError("Message content too long (max 10000 characters)")
	}

	conv, err := s.chatRepo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	if !isConversationParticipant(conv, in.UserID) {
		return nil, nil, models.NewUnauthorizedError("You are not a participant in this conversation")
	}

	if !conv.IsGroup {
		for _, participant := range conv.Participants {
			if participant.ID == in.UserID {
				continue
			}
			link, err := s.friendRepo.GetBetweenUsers(ctx, in.UserID, participant.ID)
			if err != nil {
				return nil, nil, err
			}
			if link == nil || link.Status != models.FriendLinkStatusAccepted {
				return nil, nil, models.NewUnauthorizedError("You can only message your friends")
			}
		}
	} else if conv.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *conv.TeamID, in.UserID)
		if err != nil {
			return nil, nil, err
		}
		if membership == nil {
			return nil, nil, models.NewUnauthorizedError("You are no longer a member of this team")
		}
	}

	message := &models.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.UserID,
		Content:        in.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, nil, err
	}

	if sender, err := s.userRepo.GetByID(ctx, in.UserID); err == nil {
		message.Sender = sender
	}

	return message, conv, nil
}

// GetMessagesForUser returns messages for a conversation (participant check applied).
func (s *ChatService) GetMessagesForUser(ctx context.Context, convID, userID uint, limit, offset int) ([]*models.Message, error) {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !isConversationParticipant(conv, userID) {
		return nil, models.NewUnauthorizedError("You are not a participant in this conversation")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.chatRepo.GetMessages(ctx, convID, limit, offset)
}

// MarkRead records that the user has read the conversation up to now.
func (s *ChatService) MarkRead(ctx context.Context, convID, userID uint) error {
	ok, err := s.chatRepo.IsParticipant(ctx, convID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewUnauthorizedError("You are not a participant in this conversation")
	}
	return s.chatRepo.UpdateLastRead(ctx, convID, userID)
}

// LeaveConversation removes the user from a group conversation.
func (s *ChatService) LeaveConversation(ctx context.Context, convID, userID uint) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !isConversationParticipant(conv, userID) {
		return nil, models.NewUnauthorizedError("You are not a participant in this conversation")
	}
	if !conv.IsGroup {
		return nil, models.NewValidationError("Cannot leave a direct conversation")
	}
	if err := s.chatRepo.RemoveParticipant(ctx, convID, userID); err != nil {
		return nil, err
	}
	return conv, nil
}

func isConversationParticipant(conv *models.Conversation, userID uint) bool {
	for _, participant := range conv.Participants {
		if participant.ID == userID {
			return true
		}
	}
	return false
}

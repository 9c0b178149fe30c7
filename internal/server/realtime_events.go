package server

import (
	"context"
	"encoding/json"
	"log"

	"racemates/internal/middleware"
	"racemates/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventFriendRequestReceived  = "friend_request_received"
	EventFriendRequestSent      = "friend_request_sent"
	EventFriendRequestAccepted  = "friend_request_accepted"
	EventFriendAdded            = "friend_added"
	EventFriendRequestRejected  = "friend_request_rejected"
	EventFriendRequestCancelled = "friend_request_cancelled"
	EventFriendRemoved          = "friend_removed"
	EventFriendPresenceChanged  = "friend_presence_changed"
	EventMessageReceived        = "message_received"
	EventTeamJoinRequested      = "team_join_requested"
	EventTeamJoinReviewed       = "team_join_reviewed"
	EventTeamMemberRoleChanged  = "team_member_role_changed"
	EventEventInviteCreated     = "event_created"
	EventEventRSVPUpdated       = "event_rsvp_updated"
	EventEventCancelled         = "event_cancelled"
	EventNoticeReplyPosted      = "notice_reply_posted"
	EventSetupShared            = "setup_shared"
	EventToast                  = "toast"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	middleware.RealtimeEventsPublished.WithLabelValues(eventType).Inc()

	message := string(eventJSON)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	middleware.RealtimeEventsPublished.WithLabelValues(eventType).Inc()

	message := string(eventJSON)
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}

// toastNotifier adapts publishUserEvent to the onboarding wizard's toast sink.
type toastNotifier struct {
	server *Server
	userID uint
}

// Notify implements onboarding.Notifier.
func (n toastNotifier) Notify(level, message string) {
	n.server.publishUserEvent(n.userID, EventToast, map[string]interface{}{
		"level":   level,
		"message": message,
	})
}

func userSummary(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return map[string]interface{}{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"avatar":       user.Avatar,
	}
}

package server

import (
	"time"

	"racemates/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friends/requests/:userId
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	link, err := s.friendService.SendFriendRequest(ctx, userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify both users so UI updates immediately.
	s.publishUserEvent(link.AddresseeID, EventFriendRequestReceived, map[string]interface{}{
		"request_id": link.ID,
		"from_user":  userSummary(link.Requester),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	s.publishUserEvent(link.RequesterID, EventFriendRequestSent, map[string]interface{}{
		"request_id": link.ID,
		"to_user":    userSummary(link.Addressee),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(link)
}

// GetPendingRequests handles GET /api/friends/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetPendingRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetSentRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	link, err := s.friendService.AcceptFriendRequest(ctx, userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(link.RequesterID, EventFriendRequestAccepted, map[string]interface{}{
		"request_id":  link.ID,
		"friend_user": userSummary(link.Addressee),
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	s.publishUserEvent(link.AddresseeID, EventFriendAdded, map[string]interface{}{
		"request_id":  link.ID,
		"friend_user": userSummary(link.Requester),
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(link)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject.
// The link row survives with rejected status; only the requester starting a
// brand-new request clears it.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	link, err := s.friendService.RejectFriendRequest(ctx, userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(link.RequesterID, EventFriendRequestRejected, map[string]interface{}{
		"request_id":  link.ID,
		"by_user_id":  userID,
		"rejected_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(link)
}

// CancelFriendRequest handles POST /api/friends/requests/:requestId/cancel
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	link, err := s.friendService.CancelFriendRequest(ctx, userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(link.AddresseeID, EventFriendRequestCancelled, map[string]interface{}{
		"request_id":   link.ID,
		"by_user_id":   userID,
		"cancelled_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	friends, err := s.friendService.GetFriends(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(friends)
}

// GetRelationships handles GET /api/friends/links. Every link touching the
// user is resolved from their point of view and partitioned into friends,
// incoming and outgoing lists.
func (s *Server) GetRelationships(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lists, err := s.friendService.GetRelationships(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(lists)
}

// GetFriendshipStatus handles GET /api/friends/status/:userId
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	res, err := s.friendService.GetRelationshipWith(ctx, userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(res)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if _, err := s.friendService.RemoveFriend(ctx, userID, targetUserID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(userID, EventFriendRemoved, map[string]interface{}{
		"user_id":    targetUserID,
		"removed_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	s.publishUserEvent(targetUserID, EventFriendRemoved, map[string]interface{}{
		"user_id":    userID,
		"removed_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.SendStatus(fiber.StatusOK)
}

// BlockUser handles POST /api/friends/block/:userId. Any existing link with
// the target is replaced by a blocked one; new requests from either side are
// refused while the block stands.
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	link, err := s.friendService.BlockUser(ctx, userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  string(models.FriendLinkStatusBlocked),
		"link_id": link.ID,
		"user_id": targetUserID,
	})
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketApp(t *testing.T, s *Server, userID uint) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/api/ws/ticket", asUser(userID), s.IssueWSTicket)
	app.Get("/api/ws/whoami", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID").(uint)})
	})
	return app
}

func issueTicket(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/ws/ticket", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}
	decodeJSON(t, resp.Body, &body)
	_ = resp.Body.Close()
	require.NotEmpty(t, body.Ticket)
	assert.Equal(t, 30, body.ExpiresIn)
	return body.Ticket
}

func TestWSTicketIsSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.redis.Close() })

	racer := seedUser(t, s, "ticketholder")
	app := ticketApp(t, s, racer.ID)

	ticket := issueTicket(t, app)

	// First use authenticates as the issuing user.
	resp, err := app.Test(httptest.NewRequest(
		http.MethodGet, "/api/ws/whoami?ticket="+ticket, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var who struct {
		UserID uint `json:"user_id"`
	}
	decodeJSON(t, resp.Body, &who)
	_ = resp.Body.Close()
	assert.Equal(t, racer.ID, who.UserID)

	// The ticket is consumed on first use.
	resp, err = app.Test(httptest.NewRequest(
		http.MethodGet, "/api/ws/whoami?ticket="+ticket, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestWSTicketExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.redis.Close() })

	racer := seedUser(t, s, "slowpoke")
	app := ticketApp(t, s, racer.ID)

	ticket := issueTicket(t, app)

	// Past its 30 second lifetime the ticket no longer authenticates.
	mr.FastForward(31 * time.Second)

	resp, err := app.Test(httptest.NewRequest(
		http.MethodGet, "/api/ws/whoami?ticket="+ticket, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestWSPathRejectsQueryToken(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.redis.Close() })

	racer := seedUser(t, s, "sneaky")
	app := ticketApp(t, s, racer.ID)

	token, err := s.generateToken(racer.ID, "sneaky")
	require.NoError(t, err)

	// A bare JWT in the query string is not accepted on websocket paths;
	// browsers must trade it for a ticket first.
	resp, err := app.Test(httptest.NewRequest(
		http.MethodGet, "/api/ws/whoami?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	// The same JWT in the Authorization header still works.
	req := httptest.NewRequest(http.MethodGet, "/api/ws/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestIssueWSTicketWithoutRedis(t *testing.T) {
	s := newTestServer(t)
	racer := seedUser(t, s, "offline")
	app := ticketApp(t, s, racer.ID)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/ws/ticket", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()
}

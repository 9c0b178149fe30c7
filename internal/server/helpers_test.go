package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"racemates/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"requestId", "request ID"},
		{"other", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, humanizeParam(tt.param))
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 25)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		name           string
		url            string
		expectedLimit  int
		expectedOffset int
	}{
		{"Defaults", "/items", 25, 0},
		{"Explicit", "/items?limit=10&offset=5", 10, 5},
		{"ClampedLimit", "/items?limit=5000", 100, 0},
		{"NegativeOffset", "/items?offset=-3", 25, 0},
		{"ZeroLimit", "/items?limit=0", 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body struct {
				Limit  int `json:"limit"`
				Offset int `json:"offset"`
			}
			decodeJSON(t, resp.Body, &body)
			assert.Equal(t, tt.expectedLimit, body.Limit)
			assert.Equal(t, tt.expectedOffset, body.Offset)
		})
	}
}

func TestRespondServiceErrorStatuses(t *testing.T) {
	app := fiber.New()
	app.Get("/not-found", func(c *fiber.Ctx) error {
		return respondServiceError(c, models.NewNotFoundError("User", 1))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return respondServiceError(c, models.NewValidationError("bad input"))
	})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return respondServiceError(c, models.NewUnauthorizedError("no"))
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return respondServiceError(c, assert.AnError)
	})

	tests := []struct {
		url            string
		expectedStatus int
	}{
		{"/not-found", http.StatusNotFound},
		{"/validation", http.StatusBadRequest},
		{"/forbidden", http.StatusForbidden},
		{"/unknown", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, tt.expectedStatus, resp.StatusCode, tt.url)
		_ = resp.Body.Close()
	}
}

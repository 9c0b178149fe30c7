package server

import (
	"encoding/json"
	"io"
	"testing"

	"racemates/internal/config"
	"racemates/internal/database"
	"racemates/internal/onboarding"
	"racemates/internal/repository"
	"racemates/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server on an in-memory SQLite database with no
// Redis. Metrics middleware is left nil so repeated test runs do not
// re-register Prometheus collectors.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	t.Cleanup(func() {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
	})

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendLinkRepository(db)
	chatRepo := repository.NewChatRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	eventRepo := repository.NewEventRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	setupRepo := repository.NewSetupRepository(db)

	s := &Server{
		config:     &config.Config{JWTSecret: "test-secret", Port: "0"},
		db:         db,
		userRepo:   userRepo,
		friendRepo: friendRepo,
		chatRepo:   chatRepo,
		teamRepo:   teamRepo,
		eventRepo:  eventRepo,
		noticeRepo: noticeRepo,
		setupRepo:  setupRepo,
	}

	s.friendService = service.NewFriendService(friendRepo, userRepo)
	s.onboardingService = service.NewOnboardingService(db, onboarding.NewMemoryStore())
	s.userService = service.NewUserService(userRepo)
	s.chatService = service.NewChatService(chatRepo, friendRepo, teamRepo, userRepo)
	s.teamService = service.NewTeamService(teamRepo, userRepo)
	s.eventService = service.NewEventService(eventRepo, teamRepo, friendRepo)
	s.noticeService = service.NewNoticeService(noticeRepo, userRepo)
	s.setupService = service.NewSetupService(setupRepo, teamRepo)

	return s
}

// decodeJSON decodes a response body, failing the test on malformed JSON.
func decodeJSON(t *testing.T, r io.Reader, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(dest))
}

// asUser returns middleware that injects a fixed authenticated user, the way
// AuthRequired would after validating a token.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

package service

import (
	"context"
	"testing"

	"racemates/internal/database"
	"racemates/internal/models"
	"racemates/internal/onboarding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestOnboardingFinalizeWritesProfileAndFlag(t *testing.T) {
	db := newServiceTestDB(t)
	user := &models.User{Username: "ace", Email: "ace@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	store := onboarding.NewMemoryStore()
	svc := NewOnboardingService(db, store)

	draft := onboarding.ProfileDraft{
		DisplayName:    "Ace",
		Region:         "Europe",
		Timezone:       "CET",
		Platforms:      []string{"iRacing", "ACC"},
		IRating:        2100,
		SafetyRating:   3.7,
		LicenseClass:   "B",
		DrivingStyles:  []string{"endurance"},
		RoleTags:       []string{"driver"},
		LookingForTeam: true,
	}

	err := svc.FinalizeOnboarding(context.Background(), user.ID, draft)
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.OnboardingComplete)
	assert.Equal(t, "Ace", got.DisplayName)
	assert.Equal(t, "Europe", got.Region)
	assert.Equal(t, models.StringList{"iRacing", "ACC"}, got.Platforms)
	assert.Equal(t, 2100, got.IRating)
	assert.True(t, got.LookingForTeam)
	assert.Equal(t, WelcomeXP, got.XP)
}

func TestOnboardingFinalizeTwiceRejected(t *testing.T) {
	db := newServiceTestDB(t)
	user := &models.User{Username: "ace", Email: "ace@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	svc := NewOnboardingService(db, onboarding.NewMemoryStore())
	draft := onboarding.ProfileDraft{DisplayName: "Ace", Region: "Europe", Timezone: "CET"}

	require.NoError(t, svc.FinalizeOnboarding(context.Background(), user.ID, draft))

	err := svc.FinalizeOnboarding(context.Background(), user.ID, draft)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// XP was not granted twice
	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, WelcomeXP, got.XP)
}

func TestOnboardingFinalizeUnknownUser(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewOnboardingService(db, onboarding.NewMemoryStore())

	err := svc.FinalizeOnboarding(context.Background(), 999, onboarding.ProfileDraft{})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestOnboardingLoadWizardRestoresSnapshot(t *testing.T) {
	db := newServiceTestDB(t)
	user := &models.User{Username: "ace", Email: "ace@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	store := onboarding.NewMemoryStore()
	svc := NewOnboardingService(db, store)
	ctx := context.Background()

	w, err := svc.LoadWizard(ctx, user.ID, nil)
	require.NoError(t, err)
	w.SetDraft(onboarding.ProfileDraft{DisplayName: "Ace", Region: "Europe", Timezone: "CET"})
	require.NoError(t, w.Advance(ctx))
	require.NoError(t, svc.SaveWizard(ctx, w))

	restored, err := svc.LoadWizard(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.StepIndex())
	assert.Equal(t, "Ace", restored.Draft().DisplayName)
}

func TestOnboardingLoadWizardCorruptSnapshotStartsOver(t *testing.T) {
	db := newServiceTestDB(t)
	user := &models.User{Username: "ace", Email: "ace@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	store := onboarding.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), user.ID, []byte("{not json")))

	svc := NewOnboardingService(db, store)
	w, err := svc.LoadWizard(context.Background(), user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, w.StepIndex())
}

func TestOnboardingFinalizeClearsSnapshot(t *testing.T) {
	db := newServiceTestDB(t)
	user := &models.User{Username: "ace", Email: "ace@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)

	store := onboarding.NewMemoryStore()
	svc := NewOnboardingService(db, store)
	ctx := context.Background()

	w, err := svc.LoadWizard(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.SaveWizard(ctx, w))

	draft := onboarding.ProfileDraft{DisplayName: "Ace", Region: "Europe", Timezone: "CET"}
	require.NoError(t, svc.FinalizeOnboarding(ctx, user.ID, draft))

	_, err = store.Load(ctx, user.ID)
	assert.ErrorIs(t, err, onboarding.ErrNoSnapshot)
}

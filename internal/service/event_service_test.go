package service

import (
	"context"
	"testing"
	"time"

	"racemates/internal/models"
	"racemates/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEventFixture(t *testing.T, db *gorm.DB) (*models.User, *models.User, *models.User) {
	t.Helper()
	organizer := &models.User{Username: "organizer", Email: "org@example.com", Password: "x", DisplayName: "Organizer"}
	d2 := &models.User{Username: "driver2", Email: "d2@example.com", Password: "x", DisplayName: "Driver Two"}
	d3 := &models.User{Username: "driver3", Email: "d3@example.com", Password: "x"}
	require.NoError(t, db.Create(organizer).Error)
	require.NoError(t, db.Create(d2).Error)
	require.NoError(t, db.Create(d3).Error)
	return organizer, d2, d3
}

func newEventService(db *gorm.DB) *EventService {
	return NewEventService(
		repository.NewEventRepository(db),
		repository.NewTeamRepository(db),
		repository.NewFriendLinkRepository(db),
	)
}

func TestEventServiceCreateAndRSVP(t *testing.T) {
	db := newServiceTestDB(t)
	organizer, friend, _ := seedEventFixture(t, db)
	ctx := context.Background()

	// friend link so the friend can see the open event
	require.NoError(t, db.Create(&models.FriendLink{
		RequesterID: organizer.ID,
		AddresseeID: friend.ID,
		Status:      models.FriendLinkStatusAccepted,
	}).Error)

	svc := newEventService(db)

	event, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       organizer.ID,
		Title:           "Spa 6h",
		Track:           "Spa-Francorchamps",
		Sim:             "iRacing",
		StartsAt:        time.Now().Add(24 * time.Hour),
		DurationMinutes: 360,
	})
	require.NoError(t, err)

	_, err = svc.RSVP(ctx, event.ID, friend.ID, models.RSVPYes)
	require.NoError(t, err)

	// Changing the answer upserts rather than duplicating.
	_, err = svc.RSVP(ctx, event.ID, friend.ID, models.RSVPMaybe)
	require.NoError(t, err)

	rsvps, err := svc.GetRSVPs(ctx, event.ID, organizer.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, models.RSVPMaybe, rsvps[0].Response)
}

func TestEventServiceStrangerCannotSeeOpenEvent(t *testing.T) {
	db := newServiceTestDB(t)
	organizer, _, stranger := seedEventFixture(t, db)
	ctx := context.Background()

	svc := newEventService(db)
	event, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       organizer.ID,
		Title:           "Practice",
		StartsAt:        time.Now().Add(time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	_, err = svc.GetEvent(ctx, event.ID, stranger.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestEventServicePlanStintsEvenSplit(t *testing.T) {
	db := newServiceTestDB(t)
	organizer, d2, d3 := seedEventFixture(t, db)
	ctx := context.Background()

	for _, other := range []uint{d2.ID, d3.ID} {
		require.NoError(t, db.Create(&models.FriendLink{
			RequesterID: organizer.ID,
			AddresseeID: other,
			Status:      models.FriendLinkStatusAccepted,
		}).Error)
	}

	svc := newEventService(db)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	event, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       organizer.ID,
		Title:           "Nordschleife 4h",
		StartsAt:        start,
		DurationMinutes: 245, // not divisible by 3
	})
	require.NoError(t, err)

	for _, id := range []uint{organizer.ID, d2.ID, d3.ID} {
		_, err := svc.RSVP(ctx, event.ID, id, models.RSVPYes)
		require.NoError(t, err)
	}

	stints, err := svc.PlanStints(ctx, event.ID, organizer.ID)
	require.NoError(t, err)
	require.Len(t, stints, 3)

	// 245 = 82 + 82 + 81; the remainder lands on the earliest stints.
	assert.Equal(t, 82, stints[0].Minutes)
	assert.Equal(t, 82, stints[1].Minutes)
	assert.Equal(t, 81, stints[2].Minutes)

	// Contiguous coverage of the full event window.
	total := 0
	for i, st := range stints {
		total += st.Minutes
		assert.Equal(t, i+1, st.Order)
		if i > 0 {
			assert.Equal(t, stints[i-1].EndsAt, st.StartsAt)
		}
	}
	assert.Equal(t, event.DurationMinutes, total)
	assert.Equal(t, start, stints[0].StartsAt)
	assert.Equal(t, start.Add(time.Duration(event.DurationMinutes)*time.Minute), stints[2].EndsAt)
}

func TestEventServicePlanStintsNoDrivers(t *testing.T) {
	db := newServiceTestDB(t)
	organizer, _, _ := seedEventFixture(t, db)
	ctx := context.Background()

	svc := newEventService(db)
	event, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       organizer.ID,
		Title:           "Solo practice",
		StartsAt:        time.Now().Add(time.Hour),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	_, err = svc.PlanStints(ctx, event.ID, organizer.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestEventServiceTeamEventRequiresMembership(t *testing.T) {
	db := newServiceTestDB(t)
	organizer, outsider, _ := seedEventFixture(t, db)
	ctx := context.Background()

	team := &models.Team{Name: "Apex Predators", OwnerID: organizer.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMembership{
		TeamID: team.ID, UserID: organizer.ID, Role: models.TeamRoleOwner,
	}).Error)

	svc := newEventService(db)

	_, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       outsider.ID,
		TeamID:          &team.ID,
		Title:           "Team practice",
		StartsAt:        time.Now().Add(time.Hour),
		DurationMinutes: 90,
	})
	require.Error(t, err)

	event, err := svc.CreateEvent(ctx, CreateEventInput{
		CreatedBy:       organizer.ID,
		TeamID:          &team.ID,
		Title:           "Team practice",
		StartsAt:        time.Now().Add(time.Hour),
		DurationMinutes: 90,
	})
	require.NoError(t, err)

	_, err = svc.GetEvent(ctx, event.ID, outsider.ID)
	require.Error(t, err)
}

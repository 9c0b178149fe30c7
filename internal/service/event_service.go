package service

import (
	"context"
	"time"

	"racemates/internal/models"
	"racemates/internal/repository"
)

// EventService provides event scheduling, RSVP and stint planning logic.
type EventService struct {
	eventRepo  repository.EventRepository
	teamRepo   repository.TeamRepository
	friendRepo repository.FriendLinkRepository
}

// CreateEventInput is the input for scheduling an event.
type CreateEventInput struct {
	CreatedBy       uint
	TeamID          *uint
	Title           string
	Track           string
	Sim             string
	Description     string
	StartsAt        time.Time
	DurationMinutes int
}

// Stint is one driver's slice of a planned race.
type Stint struct {
	DriverID    uint      `json:"driver_id"`
	Driver      string    `json:"driver"`
	Order       int       `json:"order"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Minutes     int       `json:"minutes"`
}

// NewEventService returns a new EventService.
func NewEventService(
	eventRepo repository.EventRepository,
	teamRepo repository.TeamRepository,
	friendRepo repository.FriendLinkRepository,
) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		teamRepo:   teamRepo,
		friendRepo: friendRepo,
	}
}

// CreateEvent schedules an event. Team events require team membership.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Event title is required")
	}
	if in.StartsAt.Before(time.Now()) {
		return nil, models.NewValidationError("Event must start in the future")
	}
	if in.DurationMinutes <= 0 {
		return nil, models.NewValidationError("Event duration must be positive")
	}

	if in.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *in.TeamID, in.CreatedBy)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, models.NewUnauthorizedError("You must be a team member to schedule a team event")
		}
	}

	event := &models.Event{
		TeamID:          in.TeamID,
		CreatedBy:       in.CreatedBy,
		Title:           in.Title,
		Track:           in.Track,
		Sim:             in.Sim,
		Description:     in.Description,
		StartsAt:        in.StartsAt,
		DurationMinutes: in.DurationMinutes,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent returns an event the user may see: team events require
// membership, open events require friendship with the creator (or being
// the creator).
func (s *EventService) GetEvent(ctx context.Context, eventID, userID uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(ctx, event, userID); err != nil {
		return nil, err
	}
	return event, nil
}

// ListTeamEvents lists upcoming events for a team the user belongs to.
func (s *EventService) ListTeamEvents(ctx context.Context, teamID, userID uint, limit, offset int) ([]models.Event, error) {
	membership, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, models.NewUnauthorizedError("You are not a member of this team")
	}
	return s.eventRepo.ListUpcoming(ctx, &teamID, limit, offset)
}

// ListMyEvents lists the user's upcoming events: created, RSVP'd, or on
// one of their teams.
func (s *EventService) ListMyEvents(ctx context.Context, userID uint, limit, offset int) ([]models.Event, error) {
	return s.eventRepo.ListForUser(ctx, userID, limit, offset)
}

// RSVP records or replaces the user's answer to an event.
func (s *EventService) RSVP(ctx context.Context, eventID, userID uint, response models.RSVPResponse) (*models.EventRSVP, error) {
	switch response {
	case models.RSVPYes, models.RSVPNo, models.RSVPMaybe:
	default:
		return nil, models.NewValidationError("Response must be yes, no or maybe")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(ctx, event, userID); err != nil {
		return nil, err
	}
	if event.StartsAt.Before(time.Now()) {
		return nil, models.NewValidationError("Cannot RSVP to a past event")
	}

	rsvp := &models.EventRSVP{
		EventID:  eventID,
		UserID:   userID,
		Response: response,
	}
	if err := s.eventRepo.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, err
	}
	return rsvp, nil
}

// GetRSVPs returns all responses for an event the user may see.
func (s *EventService) GetRSVPs(ctx context.Context, eventID, userID uint) ([]models.EventRSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(ctx, event, userID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetRSVPs(ctx, eventID)
}

// PlanStints splits the event duration evenly across confirmed attendees in
// RSVP order. Remainder minutes go to the earliest stints, so the plan
// always covers the full duration.
func (s *EventService) PlanStints(ctx context.Context, eventID, userID uint) ([]Stint, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(ctx, event, userID); err != nil {
		return nil, err
	}

	drivers, err := s.eventRepo.GetConfirmedAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, models.NewValidationError("No confirmed drivers to plan stints for")
	}

	base := event.DurationMinutes / len(drivers)
	remainder := event.DurationMinutes % len(drivers)

	stints := make([]Stint, 0, len(drivers))
	cursor := event.StartsAt
	for i, driver := range drivers {
		minutes := base
		if i < remainder {
			minutes++
		}
		end := cursor.Add(time.Duration(minutes) * time.Minute)

		name := driver.DisplayName
		if name == "" {
			name = driver.Username
		}

		stints = append(stints, Stint{
			DriverID: driver.ID,
			Driver:   name,
			Order:    i + 1,
			StartsAt: cursor,
			EndsAt:   end,
			Minutes:  minutes,
		})
		cursor = end
	}
	return stints, nil
}

// CancelEvent deletes an event. Only the creator or a team manager may
// cancel.
func (s *EventService) CancelEvent(ctx context.Context, eventID, userID uint) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	authorized := event.CreatedBy == userID
	if !authorized && event.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *event.TeamID, userID)
		if err != nil {
			return err
		}
		authorized = membership != nil &&
			(membership.Role == models.TeamRoleOwner || membership.Role == models.TeamRoleManager)
	}
	if !authorized {
		return models.NewUnauthorizedError("Only the organizer or a team manager can cancel an event")
	}

	return s.eventRepo.Delete(ctx, eventID)
}

func (s *EventService) checkVisibility(ctx context.Context, event *models.Event, userID uint) error {
	if event.CreatedBy == userID {
		return nil
	}
	if event.TeamID != nil {
		membership, err := s.teamRepo.GetMembership(ctx, *event.TeamID, userID)
		if err != nil {
			return err
		}
		if membership == nil {
			return models.NewUnauthorizedError("This event belongs to a team you are not in")
		}
		return nil
	}

	link, err := s.friendRepo.GetBetweenUsers(ctx, event.CreatedBy, userID)
	if err != nil {
		return err
	}
	if link == nil || link.Status != models.FriendLinkStatusAccepted {
		return models.NewUnauthorizedError("This event is only visible to the organizer's friends")
	}
	return nil
}

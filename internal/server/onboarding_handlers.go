package server

import (
	"errors"

	"racemates/internal/models"
	"racemates/internal/onboarding"

	"github.com/gofiber/fiber/v2"
)

// wizardState is the JSON shape of the wizard returned to the client.
type wizardState struct {
	Steps       []onboarding.Step       `json:"steps"`
	StepIndex   int                     `json:"step_index"`
	CurrentStep onboarding.Step         `json:"current_step"`
	CanAdvance  bool                    `json:"can_advance"`
	IsComplete  bool                    `json:"is_complete"`
	Draft       onboarding.ProfileDraft `json:"draft"`
}

func wizardStateOf(w *onboarding.Wizard) wizardState {
	return wizardState{
		Steps:       w.Steps(),
		StepIndex:   w.StepIndex(),
		CurrentStep: w.CurrentStep(),
		CanAdvance:  w.CanAdvance(),
		IsComplete:  w.IsComplete(),
		Draft:       w.Draft(),
	}
}

func (s *Server) loadWizard(c *fiber.Ctx, userID uint) (*onboarding.Wizard, error) {
	w, err := s.onboardingService.LoadWizard(c.Context(), userID, toastNotifier{server: s, userID: userID})
	if err != nil {
		return nil, respondServiceError(c, err)
	}
	return w, nil
}

// GetOnboardingState handles GET /api/onboarding
func (s *Server) GetOnboardingState(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	done, err := s.onboardingService.IsComplete(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if done {
		return c.JSON(fiber.Map{"is_complete": true})
	}

	w, err := s.loadWizard(c, userID)
	if w == nil {
		return err
	}

	return c.JSON(wizardStateOf(w))
}

// SaveOnboardingDraft handles PUT /api/onboarding/draft. Draft edits update
// the working form without moving the wizard; validation only runs on
// advance.
func (s *Server) SaveOnboardingDraft(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var draft onboarding.ProfileDraft
	if err := c.BodyParser(&draft); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// The profile row is authoritative: after finalize the snapshot is gone
	// and a reloaded wizard would look fresh, so the flag has to be checked
	// here rather than on the wizard.
	done, err := s.onboardingService.IsComplete(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if done {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Onboarding already complete"))
	}

	w, err := s.loadWizard(c, userID)
	if w == nil {
		return err
	}

	w.SetDraft(draft)
	if err := s.onboardingService.SaveWizard(c.Context(), w); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(wizardStateOf(w))
}

// AdvanceOnboarding handles POST /api/onboarding/advance. Advancing past the
// final step runs the atomic finalize write; on failure the wizard stays on
// the final step so the user can retry.
func (s *Server) AdvanceOnboarding(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	w, err := s.loadWizard(c, userID)
	if w == nil {
		return err
	}

	if err := w.Advance(c.Context()); err != nil {
		switch {
		case errors.Is(err, onboarding.ErrValidationGate):
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Current step is incomplete"))
		case errors.Is(err, onboarding.ErrAlreadyComplete):
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewValidationError("Onboarding already complete"))
		default:
			return respondServiceError(c, err)
		}
	}

	if !w.IsComplete() {
		if err := s.onboardingService.SaveWizard(c.Context(), w); err != nil {
			return respondServiceError(c, err)
		}
	}

	return c.JSON(wizardStateOf(w))
}

// RetreatOnboarding handles POST /api/onboarding/retreat. Going back never
// clears completed steps and never revalidates.
func (s *Server) RetreatOnboarding(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	w, err := s.loadWizard(c, userID)
	if w == nil {
		return err
	}

	if !w.Retreat() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot go back from the first step"))
	}

	if err := s.onboardingService.SaveWizard(c.Context(), w); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(wizardStateOf(w))
}

// Package onboarding implements the five-step profile setup wizard: a
// strictly linear state machine with per-step validation gates and a single
// atomic finalize write at the end.
package onboarding

import (
	"context"
	"errors"
)

// StepID identifies a wizard step.
type StepID string

const (
	// StepPersonal collects display name, region and timezone.
	StepPersonal StepID = "personal"
	// StepPlatforms collects the sims the racer drives on.
	StepPlatforms StepID = "platforms"
	// StepIRacing collects optional iRacing statistics.
	StepIRacing StepID = "iracing"
	// StepPreferences collects driving styles, role tags and the
	// looking-for-team flag.
	StepPreferences StepID = "preferences"
	// StepFinalSetup is the review step; advancing from it finalizes.
	StepFinalSetup StepID = "finalSetup"
)

var stepOrder = []StepID{StepPersonal, StepPlatforms, StepIRacing, StepPreferences, StepFinalSetup}

var stepTitles = map[StepID]string{
	StepPersonal:    "About you",
	StepPlatforms:   "Your platforms",
	StepIRacing:     "iRacing stats",
	StepPreferences: "Driving preferences",
	StepFinalSetup:  "Review & finish",
}

// Step is one entry in the wizard's fixed sequence.
type Step struct {
	ID        StepID `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ProfileDraft is the wizard's in-memory working form. Its fields are copied
// onto the profile record by the finalize write and the draft is discarded.
type ProfileDraft struct {
	DisplayName    string   `json:"display_name"`
	Region         string   `json:"region"`
	Timezone       string   `json:"timezone"`
	Platforms      []string `json:"platforms"`
	IRating        int      `json:"irating"`
	SafetyRating   float64  `json:"safety_rating"`
	LicenseClass   string   `json:"license_class"`
	TTRating       int      `json:"tt_rating"`
	DrivingStyles  []string `json:"driving_styles"`
	RoleTags       []string `json:"role_tags"`
	LookingForTeam bool     `json:"looking_for_team"`
}

// Finalizer performs the combined finalize write: persist every draft field
// onto the profile AND set the onboarding-complete flag, as one unit.
// Implementations must not partially succeed.
type Finalizer interface {
	FinalizeOnboarding(ctx context.Context, userID uint, draft ProfileDraft) error
}

// Notifier is a fire-and-forget sink for user-facing toast signals.
type Notifier interface {
	Notify(level, message string)
}

var (
	// ErrValidationGate means the current step's predicate does not hold.
	// Advance performed no state change; this is never surfaced as a toast.
	ErrValidationGate = errors.New("current step is incomplete")
	// ErrAlreadyComplete means the wizard reached Done; no transitions remain.
	ErrAlreadyComplete = errors.New("onboarding already complete")
)

// Wizard is the onboarding state machine for one user session. It is owned
// by a single session; no concurrent writers.
type Wizard struct {
	userID    uint
	steps     []Step
	current   int
	complete  bool
	draft     ProfileDraft
	finalizer Finalizer
	notifier  Notifier
}

// New returns a fresh wizard at the first step. The notifier may be nil.
func New(userID uint, finalizer Finalizer, notifier Notifier) *Wizard {
	steps := make([]Step, len(stepOrder))
	for i, id := range stepOrder {
		steps[i] = Step{ID: id, Title: stepTitles[id]}
	}
	return &Wizard{
		userID:    userID,
		steps:     steps,
		finalizer: finalizer,
		notifier:  notifier,
	}
}

// UserID returns the owning user's id.
func (w *Wizard) UserID() uint { return w.userID }

// StepIndex returns the current step index.
func (w *Wizard) StepIndex() int { return w.current }

// CurrentStep returns the step the wizard is on.
func (w *Wizard) CurrentStep() Step { return w.steps[w.current] }

// Steps returns a copy of the step sequence.
func (w *Wizard) Steps() []Step {
	out := make([]Step, len(w.steps))
	copy(out, w.steps)
	return out
}

// IsComplete reports whether the terminal Done state was reached.
func (w *Wizard) IsComplete() bool { return w.complete }

// Draft returns the working form.
func (w *Wizard) Draft() ProfileDraft { return w.draft }

// SetDraft replaces the working form. Draft edits do not move the wizard.
func (w *Wizard) SetDraft(d ProfileDraft) { w.draft = d }

// CanAdvance evaluates the current step's validation predicate.
func (w *Wizard) CanAdvance() bool {
	if w.complete {
		return false
	}
	switch w.steps[w.current].ID {
	case StepPersonal:
		return w.draft.DisplayName != "" && w.draft.Region != "" && w.draft.Timezone != ""
	case StepPlatforms:
		return len(w.draft.Platforms) > 0
	case StepPreferences:
		return len(w.draft.DrivingStyles) > 0
	default: // iracing and finalSetup are always passable
		return true
	}
}

// Advance moves forward one step. It marks the current step completed, and
// when leaving the final step it runs the finalize write first: on failure
// the wizard stays on the final step with IsComplete still false so the
// user can retry.
func (w *Wizard) Advance(ctx context.Context) error {
	if w.complete {
		return ErrAlreadyComplete
	}
	if !w.CanAdvance() {
		return ErrValidationGate
	}

	if w.steps[w.current].ID == StepFinalSetup {
		if err := w.finalizer.FinalizeOnboarding(ctx, w.userID, w.draft); err != nil {
			if w.notifier != nil {
				w.notifier.Notify("error", "Could not save your profile. Please try again.")
			}
			return err
		}
		w.steps[w.current].Completed = true
		w.complete = true
		if w.notifier != nil {
			w.notifier.Notify("success", "Welcome to RaceMates! Your profile is ready.")
		}
		return nil
	}

	w.steps[w.current].Completed = true
	w.current++
	return nil
}

// Retreat moves back one step. It never clears completion of the step being
// left and never revalidates. Returns false when already at the first step
// or after completion.
func (w *Wizard) Retreat() bool {
	if w.complete || w.current == 0 {
		return false
	}
	w.current--
	return true
}

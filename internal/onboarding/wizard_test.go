package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finalizerStub struct {
	calls int
	err   error
	last  ProfileDraft
}

func (f *finalizerStub) FinalizeOnboarding(_ context.Context, _ uint, draft ProfileDraft) error {
	f.calls++
	f.last = draft
	return f.err
}

type toastRecorder struct {
	levels []string
}

func (r *toastRecorder) Notify(level, _ string) {
	r.levels = append(r.levels, level)
}

func validDraft() ProfileDraft {
	return ProfileDraft{
		DisplayName:   "Ace",
		Region:        "Europe",
		Timezone:      "CET",
		Platforms:     []string{"iracing"},
		DrivingStyles: []string{"endurance"},
	}
}

func TestWizardMonotonicCompletion(t *testing.T) {
	fin := &finalizerStub{}
	w := New(1, fin, nil)
	w.SetDraft(validDraft())

	visited := []int{w.StepIndex()}
	for !w.IsComplete() {
		require.True(t, w.CanAdvance())
		require.NoError(t, w.Advance(context.Background()))
		if !w.IsComplete() {
			visited = append(visited, w.StepIndex())
		}
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, visited)
	assert.Equal(t, 1, fin.calls)
	for _, step := range w.Steps() {
		assert.True(t, step.Completed, "step %s should be completed", step.ID)
	}

	// Terminal: no transitions out of Done.
	assert.ErrorIs(t, w.Advance(context.Background()), ErrAlreadyComplete)
	assert.False(t, w.Retreat())
}

func TestWizardValidationGate(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)
	draft := validDraft()
	draft.DisplayName = ""
	w.SetDraft(draft)

	assert.False(t, w.CanAdvance())
	err := w.Advance(context.Background())
	assert.ErrorIs(t, err, ErrValidationGate)
	assert.Equal(t, 0, w.StepIndex())
	assert.False(t, w.Steps()[0].Completed)
}

func TestWizardStepPredicates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProfileDraft)
		step   int // index whose gate should fail
	}{
		{"missing region", func(d *ProfileDraft) { d.Region = "" }, 0},
		{"missing timezone", func(d *ProfileDraft) { d.Timezone = "" }, 0},
		{"no platforms", func(d *ProfileDraft) { d.Platforms = nil }, 1},
		{"no driving styles", func(d *ProfileDraft) { d.DrivingStyles = nil }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(1, &finalizerStub{}, nil)
			draft := validDraft()
			tt.mutate(&draft)
			w.SetDraft(draft)

			for w.StepIndex() < tt.step {
				require.NoError(t, w.Advance(context.Background()))
			}
			assert.ErrorIs(t, w.Advance(context.Background()), ErrValidationGate)
			assert.Equal(t, tt.step, w.StepIndex())
		})
	}
}

func TestWizardIRacingStepIsOptional(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)
	draft := validDraft()
	draft.IRating = 0
	draft.SafetyRating = 0
	draft.LicenseClass = ""
	w.SetDraft(draft)

	require.NoError(t, w.Advance(context.Background()))
	require.NoError(t, w.Advance(context.Background()))
	// Now on iracing; empty stats must not block.
	assert.True(t, w.CanAdvance())
	require.NoError(t, w.Advance(context.Background()))
	assert.Equal(t, 3, w.StepIndex())
}

func TestWizardRetreatNonDestructive(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)
	w.SetDraft(validDraft())

	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, 1, w.StepIndex())

	require.True(t, w.Retreat())
	assert.Equal(t, 0, w.StepIndex())
	assert.True(t, w.Steps()[0].Completed, "retreat must not clear completion")

	require.NoError(t, w.Advance(context.Background()))
	assert.Equal(t, 1, w.StepIndex())
	assert.True(t, w.Steps()[0].Completed)

	// Retreat at step 0 is refused.
	w2 := New(1, &finalizerStub{}, nil)
	assert.False(t, w2.Retreat())
}

func TestWizardFinalizeFailureStaysOnFinalStep(t *testing.T) {
	fin := &finalizerStub{err: errors.New("backend write failed")}
	toasts := &toastRecorder{}
	w := New(1, fin, toasts)
	w.SetDraft(validDraft())

	for w.StepIndex() < 4 {
		require.NoError(t, w.Advance(context.Background()))
	}

	err := w.Advance(context.Background())
	require.Error(t, err)
	assert.False(t, w.IsComplete())
	assert.Equal(t, 4, w.StepIndex())
	assert.False(t, w.Steps()[4].Completed)
	assert.Equal(t, []string{"error"}, toasts.levels)

	// Retry after the backend recovers.
	fin.err = nil
	require.NoError(t, w.Advance(context.Background()))
	assert.True(t, w.IsComplete())
	assert.Equal(t, 2, fin.calls)
	assert.Equal(t, []string{"error", "success"}, toasts.levels)
	assert.Equal(t, "Ace", fin.last.DisplayName)
}

func TestWizardFreshDraftScenario(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)

	// Empty display name cannot advance past the first step.
	assert.ErrorIs(t, w.Advance(context.Background()), ErrValidationGate)

	draft := w.Draft()
	draft.DisplayName = "Ace"
	draft.Region = "Europe"
	draft.Timezone = "CET"
	w.SetDraft(draft)

	require.NoError(t, w.Advance(context.Background()))
	assert.Equal(t, StepPlatforms, w.CurrentStep().ID)
}

func TestWizardSnapshotRoundTrip(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)
	w.SetDraft(validDraft())
	require.NoError(t, w.Advance(context.Background()))
	require.NoError(t, w.Advance(context.Background()))

	data, err := w.EncodeSnapshot()
	require.NoError(t, err)

	restored := New(1, &finalizerStub{}, nil)
	require.NoError(t, restored.RestoreSnapshot(data))

	assert.Equal(t, w.StepIndex(), restored.StepIndex())
	assert.Equal(t, w.Draft(), restored.Draft())
	assert.Equal(t, w.Steps(), restored.Steps())
	assert.False(t, restored.IsComplete())
}

func TestWizardRestoreRejectsBadIndex(t *testing.T) {
	w := New(1, &finalizerStub{}, nil)
	assert.Error(t, w.RestoreSnapshot([]byte(`{"step_index":9}`)))
	assert.Error(t, w.RestoreSnapshot([]byte(`not json`)))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.Save(ctx, 1, []byte(`{}`)))
	b, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), b)

	require.NoError(t, store.Clear(ctx, 1))
	_, err = store.Load(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

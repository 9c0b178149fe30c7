package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by a Store when no snapshot exists for the user.
var ErrNoSnapshot = errors.New("no onboarding snapshot")

// Store persists wizard snapshots between requests. The server flushes a
// snapshot on every transition so a reload resumes progress.
type Store interface {
	Load(ctx context.Context, userID uint) ([]byte, error)
	Save(ctx context.Context, userID uint, snapshot []byte) error
	Clear(ctx context.Context, userID uint) error
}

// snapshot is the serialized wizard state. Completed steps are stored by id
// so the fixed step sequence can evolve without invalidating snapshots.
type snapshot struct {
	StepIndex  int          `json:"step_index"`
	Completed  []StepID     `json:"completed"`
	IsComplete bool         `json:"is_complete"`
	Draft      ProfileDraft `json:"draft"`
}

// EncodeSnapshot serializes the wizard's state.
func (w *Wizard) EncodeSnapshot() ([]byte, error) {
	s := snapshot{
		StepIndex:  w.current,
		IsComplete: w.complete,
		Draft:      w.draft,
	}
	for _, step := range w.steps {
		if step.Completed {
			s.Completed = append(s.Completed, step.ID)
		}
	}
	return json.Marshal(s)
}

// RestoreSnapshot replaces the wizard's state with a previously encoded
// snapshot. Unknown step ids are ignored; an out-of-range index is rejected.
func (w *Wizard) RestoreSnapshot(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode onboarding snapshot: %w", err)
	}
	if s.StepIndex < 0 || s.StepIndex >= len(w.steps) {
		return fmt.Errorf("onboarding snapshot step index %d out of range", s.StepIndex)
	}

	w.current = s.StepIndex
	w.complete = s.IsComplete
	w.draft = s.Draft
	for i := range w.steps {
		w.steps[i].Completed = false
		for _, id := range s.Completed {
			if w.steps[i].ID == id {
				w.steps[i].Completed = true
			}
		}
	}
	return nil
}

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	snapshots map[uint][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[uint][]byte)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, userID uint) ([]byte, error) {
	b, ok := m.snapshots[userID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return b, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, userID uint, snapshot []byte) error {
	m.snapshots[userID] = snapshot
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, userID uint) error {
	delete(m.snapshots, userID)
	return nil
}

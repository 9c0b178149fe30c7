package cache

import (
	"context"
	"errors"

	"racemates/internal/onboarding"

	"github.com/redis/go-redis/v9"
)

// WizardStore persists onboarding wizard snapshots in Redis. It is the
// server-side analog of the original client's local-storage persistence: a
// snapshot is flushed on every wizard transition so a reload resumes
// progress.
type WizardStore struct {
	rdb *redis.Client
}

// NewWizardStore returns a WizardStore backed by the given client.
func NewWizardStore(rdb *redis.Client) *WizardStore {
	return &WizardStore{rdb: rdb}
}

// Load implements onboarding.Store.
func (s *WizardStore) Load(ctx context.Context, userID uint) ([]byte, error) {
	if s.rdb == nil {
		return nil, onboarding.ErrNoSnapshot
	}
	data, err := s.rdb.Get(ctx, WizardKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, onboarding.ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

// Save implements onboarding.Store.
func (s *WizardStore) Save(ctx context.Context, userID uint, snapshot []byte) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, WizardKey(userID), snapshot, WizardTTL).Err()
}

// Clear implements onboarding.Store.
func (s *WizardStore) Clear(ctx context.Context, userID uint) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, WizardKey(userID)).Err()
}

package cache

import (
	"context"
	"testing"

	"racemates/internal/onboarding"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := NewWizardStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	_, err = store.Load(ctx, 7)
	assert.ErrorIs(t, err, onboarding.ErrNoSnapshot)

	snapshot := []byte(`{"step_index":2}`)
	require.NoError(t, store.Save(ctx, 7, snapshot))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)

	require.NoError(t, store.Clear(ctx, 7))
	_, err = store.Load(ctx, 7)
	assert.ErrorIs(t, err, onboarding.ErrNoSnapshot)
}

func TestWizardStoreNilClient(t *testing.T) {
	store := NewWizardStore(nil)
	ctx := context.Background()

	_, err := store.Load(ctx, 1)
	assert.ErrorIs(t, err, onboarding.ErrNoSnapshot)
	assert.NoError(t, store.Save(ctx, 1, []byte(`{}`)))
	assert.NoError(t, store.Clear(ctx, 1))
}

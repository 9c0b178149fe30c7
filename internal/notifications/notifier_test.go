package notifications

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierPublishUserNilRedis(t *testing.T) {
	// Notifier with nil Redis should return nil error (fail-open/noop)
	n := NewNotifier(nil)
	err := n.PublishUser(context.Background(), 1, "test payload")
	assert.NoError(t, err)
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestConversationChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "chat:conv:5", ConversationChannel(5))
}

func TestParseUserChannel(t *testing.T) {
	t.Parallel()

	id, err := ParseUserChannel("notifications:user:42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseUserChannel("chat:conv:1")
	assert.Error(t, err)
}

func TestParseConversationChannel(t *testing.T) {
	t.Parallel()

	id, err := ParseConversationChannel("chat:conv:42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseConversationChannel("notifications:user:1")
	assert.Error(t, err)
}

func TestPatternSubscriberDeliversUserMessages(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	channels := make(chan string, 2)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, _ string) {
		atomic.AddInt32(&received, 1)
		channels <- channel
	}))

	require.NoError(t, n.PublishUser(context.Background(), 7, "hello"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	select {
	case channel := <-channels:
		assert.Equal(t, "notifications:user:7", channel)
	default:
		t.Fatal("no channel recorded")
	}
}

func TestChatWiringFansOutToOnlineParticipants(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	alice, err := hub.Register(1, nil)
	require.NoError(t, err)
	bob, err := hub.Register(2, nil)
	require.NoError(t, err)

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lookedUp atomic.Uint64
	lookup := func(_ context.Context, convID uint) ([]uint, error) {
		lookedUp.Store(uint64(convID))
		// User 3 has no connection; fanout must skip them silently.
		return []uint{1, 2, 3}, nil
	}
	require.NoError(t, hub.StartChatWiring(ctx, n, lookup))

	payload := `{"type":"message_received","conversation_id":42}`
	require.NoError(t, n.PublishChatMessage(context.Background(), 42, payload))

	for _, client := range []*Client{alice, bob} {
		select {
		case got := <-client.Send:
			assert.Equal(t, payload, string(got))
		case <-time.After(time.Second):
			t.Fatal("participant did not receive the chat payload")
		}
	}
	assert.Equal(t, uint64(42), lookedUp.Load())
}

func TestChatWiringWithoutRedisIsNoop(t *testing.T) {
	hub := NewHub()

	// A nil-Redis notifier means wiring is a no-op rather than an error.
	n := NewNotifier(nil)
	err := hub.StartChatWiring(context.Background(), n, func(context.Context, uint) ([]uint, error) {
		t.Fatal("lookup must not run without Redis")
		return nil, nil
	})
	assert.NoError(t, err)
}

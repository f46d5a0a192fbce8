package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(10))
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(10))
	assert.Equal(t, 0, hub.ConnectionCount())

	// Unregistering twice must not corrupt the count.
	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)
}

func TestHub_BroadcastAllPreservesOrderPerObserver(t *testing.T) {
	hub := NewHub()

	alice, err := hub.Register(1, nil)
	require.NoError(t, err)
	bob, err := hub.Register(2, nil)
	require.NoError(t, err)

	messages := []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}
	for _, m := range messages {
		hub.BroadcastAll(m)
	}

	for _, c := range []*Client{alice, bob} {
		for _, want := range messages {
			select {
			case got := <-c.Send:
				assert.Equal(t, want, string(got))
			default:
				t.Fatalf("client %d: missing message %q", c.UserID, want)
			}
		}
	}
}

func TestHub_BroadcastTargetsSingleUser(t *testing.T) {
	hub := NewHub()

	alice, err := hub.Register(1, nil)
	require.NoError(t, err)
	bob, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, "only alice")

	select {
	case got := <-alice.Send:
		assert.Equal(t, "only alice", string(got))
	default:
		t.Fatal("alice received nothing")
	}

	select {
	case <-bob.Send:
		t.Fatal("bob should not have received the message")
	default:
	}
}

func TestHub_BroadcastWithNoObserversIsNoop(t *testing.T) {
	hub := NewHub()

	// Must not panic or block with zero registered clients.
	hub.BroadcastAll("nobody home")
	hub.Broadcast(42, "nobody home")
}

func TestHub_StartWiringForwardsRedisMessages(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(3, nil)
	require.NoError(t, err)

	require.NoError(t, notifier.PublishBroadcast(context.Background(), "from redis"))

	assert.Eventually(t, func() bool {
		select {
		case got := <-client.Send:
			return string(got) == "from redis"
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	require.NoError(t, notifier.PublishUser(context.Background(), 3, "direct"))
	assert.Eventually(t, func() bool {
		select {
		case got := <-client.Send:
			return string(got) == "direct"
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}

func TestHub_ShutdownClearsConnections(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register(5, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(5))
}

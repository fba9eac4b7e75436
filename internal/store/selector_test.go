package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

func testLogger() *logger.Logger {
	return logger.Nop()
}

// flakyStore wraps a MemoryStore with a switchable Ping failure.
type flakyStore struct {
	*MemoryStore
	unreachable atomic.Bool
}

func (f *flakyStore) Ping(ctx context.Context) error {
	if f.unreachable.Load() {
		return errors.New("connection refused")
	}
	return f.MemoryStore.Ping(ctx)
}

func TestSelector_ServesPrimaryWhileHealthy(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	sel := NewSelector(primary, 10*time.Second, testLogger())

	sel.Probe(context.Background())
	assert.Same(t, Store(primary), sel.Current())
}

func TestSelector_RecoveryWithinWindowClearsOutage(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	sel := NewSelector(primary, time.Hour, testLogger())
	ctx := context.Background()

	primary.unreachable.Store(true)
	sel.Probe(ctx)
	require.False(t, sel.fallbackActive.Load())
	require.False(t, sel.downSince.IsZero())

	primary.unreachable.Store(false)
	sel.Probe(ctx)
	assert.True(t, sel.downSince.IsZero())
	assert.Same(t, Store(primary), sel.Current())
}

func TestSelector_SwitchesAfterWindow(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	sel := NewSelector(primary, 10*time.Millisecond, testLogger())
	ctx := context.Background()

	primary.unreachable.Store(true)
	sel.Probe(ctx)
	require.False(t, sel.fallbackActive.Load(), "first failed probe only starts the window")

	time.Sleep(20 * time.Millisecond)
	sel.Probe(ctx)
	require.True(t, sel.fallbackActive.Load())
	assert.Same(t, Store(sel.fallback), sel.Current())
}

func TestSelector_SwitchIsOneWay(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	sel := NewSelector(primary, time.Millisecond, testLogger())
	ctx := context.Background()

	primary.unreachable.Store(true)
	sel.Probe(ctx)
	time.Sleep(5 * time.Millisecond)
	sel.Probe(ctx)
	require.True(t, sel.fallbackActive.Load())

	// primary coming back does not undo the switch
	primary.unreachable.Store(false)
	sel.Probe(ctx)
	assert.Same(t, Store(sel.fallback), sel.Current())
}

func TestSelector_FallbackStartsEmpty(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()

	// data written to the primary before the outage
	_, err := primary.Users().CreateUser(ctx, models.User{
		UserID:   utils.NewID(),
		Username: "john",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	sel := NewSelector(primary, time.Millisecond, testLogger())
	primary.unreachable.Store(true)
	sel.Probe(ctx)
	time.Sleep(5 * time.Millisecond)
	sel.Probe(ctx)
	require.True(t, sel.fallbackActive.Load())

	count, err := sel.Users().CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSelector_DelegatesOperations(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	sel := NewSelector(primary, time.Hour, testLogger())
	ctx := context.Background()

	user, err := sel.Users().CreateUser(ctx, models.User{
		UserID:   utils.NewID(),
		Username: "john",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	found, err := primary.Users().FindUserByID(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "john", found.Username)
}

package shutdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"irc-client/internal/logger"
)

func TestManager_ShutdownReverseOrder(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}

	m.Register(record("registration"))
	m.Register(record("application"))

	m.Shutdown()

	assert.Equal(t, []string{"application", "registration"}, order)

	select {
	case <-m.done:
	default:
		t.Fatal("Done not closed")
	}
}

func TestManager_ShutdownOnce(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})

	calls := 0
	m.Register(Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
}

func TestManager_ComponentTimeout(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})
	m.timeout = 20 * time.Millisecond

	release := make(chan struct{})
	defer close(release)

	ran := false
	m.Register(Func(func() { ran = true }))
	m.Register(Func(func() { <-release }))

	start := time.Now()
	m.Shutdown()

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, ran)
}

func TestManager_ListenStopsWithContext(t *testing.T) {
	m := NewManager(logger.NoOpLogger{})
	ctx, cancel := context.WithCancel(context.Background())

	m.Listen(ctx)
	cancel()

	select {
	case <-m.done:
		t.Fatal("cancelling the listen context must not shut down")
	case <-time.After(20 * time.Millisecond):
	}
}

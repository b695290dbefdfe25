package shutdown_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"memoboard/pkg/shutdown"
)

func TestRun_ExecutesHooksInOrder(t *testing.T) {
	var calls []int

	shutdown.Run(context.Background(), time.Second,
		func(context.Context) error { calls = append(calls, 1); return nil },
		func(context.Context) error { calls = append(calls, 2); return errors.New("ignored") },
		func(context.Context) error { calls = append(calls, 3); return nil },
	)

	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestRun_StopsAtTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	shutdown.Run(context.Background(), 50*time.Millisecond,
		func(ctx context.Context) error {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return ctx.Err()
		},
	)

	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_ReturnsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called bool
	shutdown.Wait(ctx, time.Second, func(ctx context.Context) error {
		called = true
		return ctx.Err()
	})

	assert.True(t, called, "hooks run even though the parent context is canceled")
}

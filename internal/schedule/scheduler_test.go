package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndRepeats(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var runs atomic.Int32
	id, err := s.Every(50*time.Millisecond, "generate", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	require.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestScheduler_DoesNotOverlapRuns(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var active, maxActive atomic.Int32
	_, err = s.Every(10*time.Millisecond, "slow", func(context.Context) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(60 * time.Millisecond)
		active.Add(-1)
		return errors.New("still failing")
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	require.Equal(t, int32(1), maxActive.Load())
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	_, err = s.Every(0, "never", func(context.Context) error { return nil })
	require.Error(t, err)
}

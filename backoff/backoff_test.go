package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPauseEscalatesPastBudget(t *testing.T) {
	b := New(4)
	start := time.Now()
	for i := 0; i < 4; i++ {
		b.Pause()
	}
	spinElapsed := time.Since(start)

	// Still within the spin phase: cheap, no real sleep involved.
	require.Less(t, spinElapsed, 50*time.Millisecond)

	start = time.Now()
	b.Pause() // first call past budget: escalates to a sleep
	require.GreaterOrEqual(t, time.Since(start), time.Duration(0))
	require.Equal(t, 5, b.Count())
}

func TestResetClearsCounter(t *testing.T) {
	b := New(4)
	b.Pause()
	b.Pause()
	require.Equal(t, 2, b.Count())
	b.Reset()
	require.Equal(t, 0, b.Count())
}

func TestDefaultBudget(t *testing.T) {
	b := &Backoff{}
	require.Equal(t, defaultSpinBudget, b.budget())
}

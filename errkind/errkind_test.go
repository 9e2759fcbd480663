package errkind

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetLastClear(t *testing.T) {
	Clear()
	require.Nil(t, Last())

	cause := errors.New("boom")
	Set(NotFound, cause)

	last := Last()
	require.NotNil(t, last)
	require.Equal(t, NotFound, last.Kind)
	require.ErrorIs(t, last, cause)

	Clear()
	require.Nil(t, Last())
}

func TestPerGoroutineIsolation(t *testing.T) {
	Clear()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		Set(TimedOut, nil)
		require.Equal(t, TimedOut, Last().Kind)
	}()

	go func() {
		defer wg.Done()
		Set(OutOfMemory, nil)
		require.Equal(t, OutOfMemory, Last().Kind)
	}()

	wg.Wait()
}

func TestKindStringNeverEmpty(t *testing.T) {
	for k := UnknownError; k <= TemporaryError; k++ {
		require.NotEmpty(t, k.String())
	}
}

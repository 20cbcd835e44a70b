package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ashmetov/booklib/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuit_breaker.New(10, 100*time.Millisecond, 0.5, 3)

	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// fill the tail with failures until the breaker opens
	for i := 0; i < 10; i++ {
		err := cb.Call(failingService)
		require.Error(t, err)
	}
	require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

	// after the timeout the breaker probes in half-open state
	time.Sleep(150 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// closed again: failures below the percentile keep passing through
	cb.Reset()
	require.Error(t, cb.Call(failingService))
	require.NoError(t, cb.Call(successfulService))
}

func Test_circuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuit_breaker.New(4, 50*time.Millisecond, 0.5, 2)

	for i := 0; i < 4; i++ {
		require.Error(t, cb.Call(failingService))
	}
	require.ErrorIs(t, cb.Call(failingService), circuit_breaker.ErrOpenCB)

	time.Sleep(80 * time.Millisecond)

	// first probe fails, the breaker opens again immediately
	require.Error(t, cb.Call(failingService))
	require.ErrorIs(t, cb.Call(failingService), circuit_breaker.ErrOpenCB)
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicy_ClampsAndFallsBack(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial clamped to max")
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		policy Policy
		want   []time.Duration
	}{
		{NewPolicy(ModeFixed, 100*ms, 500*ms, 3), []time.Duration{0, 100 * ms, 100 * ms, 100 * ms}},
		{NewPolicy(ModeLinear, 100*ms, 250*ms, 5), []time.Duration{0, 100 * ms, 200 * ms, 250 * ms}},
		{NewPolicy(ModeExponential, 50*ms, 160*ms, 5), []time.Duration{0, 50 * ms, 100 * ms, 160 * ms}},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy.Mode), func(t *testing.T) {
			for attempt, want := range tc.want {
				assert.Equal(t, want, tc.policy.Delay(attempt), "attempt %d", attempt)
			}
		})
	}
	assert.Equal(t, 160*ms, NewPolicy(ModeExponential, 50*ms, 160*ms, 5).Delay(80), "overflow falls back to the cap")
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	fast := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 3)
	transient := errors.New("transient")
	permanent := errors.New("permanent")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := fast.Do(t.Context(), isTransient, func() error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := fast.Do(t.Context(), nil, func() error { calls++; return transient })
		require.ErrorIs(t, err, transient)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops on non-retryable", func(t *testing.T) {
		calls := 0
		err := fast.Do(t.Context(), isTransient, func() error { calls++; return permanent })
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		calls := 0
		err := NewPolicy(ModeFixed, time.Hour, time.Hour, 3).Do(ctx, nil, func() error { calls++; return transient })
		require.ErrorIs(t, err, transient)
		assert.Equal(t, 1, calls)
	})
}

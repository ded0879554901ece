package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, 200*time.Millisecond, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Zero(t, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial, "initial is clamped to max")
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("bogus", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), p)
}

func TestFromPreview(t *testing.T) {
	p := FromPreview(config.PreviewConfig{Retries: 3, RetryBackoff: config.RetryBackoffExponential, RetryInitial: "50ms", RetryMax: "1s"})
	require.Equal(t, Policy{Mode: config.RetryBackoffExponential, Initial: 50 * time.Millisecond, Max: time.Second, MaxRetries: 3}, p)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration // attempts 1..n
	}{
		{"fixed", NewPolicy(config.RetryBackoffFixed, 100*ms, 500*ms, 3), []time.Duration{100 * ms, 100 * ms, 100 * ms}},
		{"linear", NewPolicy(config.RetryBackoffLinear, 100*ms, 250*ms, 5), []time.Duration{100 * ms, 200 * ms, 250 * ms, 250 * ms}},
		{"exponential", NewPolicy(config.RetryBackoffExponential, 50*ms, 160*ms, 5), []time.Duration{50 * ms, 100 * ms, 160 * ms, 160 * ms}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Zero(t, tc.policy.Delay(0))
			for i, want := range tc.want {
				require.Equal(t, want, tc.policy.Delay(i+1), "attempt %d", i+1)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)
	boom := errors.New("boom")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls, retries := 0, 0
		err := p.Do(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return boom
			}
			return nil
		}, func(int, time.Duration, error) { retries++ })
		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, 2, retries)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := p.Do(context.Background(), func(context.Context) error { calls++; return boom }, nil)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 4, calls)
	})

	t.Run("stops when context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := p.Do(ctx, func(context.Context) error { calls++; return boom }, nil)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, calls)
	})
}

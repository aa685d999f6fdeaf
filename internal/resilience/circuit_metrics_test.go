package resilience_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/kanakjewels/storefront/internal/resilience"
)

func TestBreakerMetrics(t *testing.T) {
	resilience.BreakerState.Reset()
	resilience.BreakerTransitions.Reset()
	resilience.BreakerOpenedTotal.Reset()

	breaker := resilience.NewBreaker(1, 0.5, 20*time.Millisecond).WithTarget("platform-orders")
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	state := testutil.ToFloat64(resilience.BreakerState.WithLabelValues("platform-orders"))
	require.Equal(t, 1.0, state, "gauge reads open after the trip")

	require.Eventually(t, func() bool {
		return breaker.Allow(ctx)
	}, time.Second, 5*time.Millisecond)

	state = testutil.ToFloat64(resilience.BreakerState.WithLabelValues("platform-orders"))
	require.Equal(t, 2.0, state, "gauge reads half-open during the trial")

	breaker.Report(ctx, true)

	state = testutil.ToFloat64(resilience.BreakerState.WithLabelValues("platform-orders"))
	require.Equal(t, 0.0, state, "gauge reads closed after recovery")

	opened := testutil.ToFloat64(resilience.BreakerOpenedTotal.WithLabelValues("platform-orders"))
	require.Equal(t, 1.0, opened)

	for _, hop := range [][2]string{
		{"closed", "open"},
		{"open", "half_open"},
		{"half_open", "closed"},
	} {
		count := testutil.ToFloat64(resilience.BreakerTransitions.WithLabelValues("platform-orders", hop[0], hop[1]))
		require.Equal(t, 1.0, count, "transition %s->%s", hop[0], hop[1])
	}
}

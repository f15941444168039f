package conditionscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	cloud := 40.0
	cond := conditions.Conditions{CloudCoverPct: &cloud, Seeing: conditions.SeeingAverage}

	_, ok, err := cache.Get(ctx, "conditions:45.5146:-122.8476")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "conditions:45.5146:-122.8476", cond, time.Minute))

	got, ok, err := cache.Get(ctx, "conditions:45.5146:-122.8476")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, conditions.SeeingAverage, got.Seeing)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", conditions.Conditions{}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

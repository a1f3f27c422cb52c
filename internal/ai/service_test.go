package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BatchDelay = time.Millisecond
	cfg.MaxCallsPerMinute = 100
	return cfg
}

// countingProvider wraps a ProviderFunc and counts invocations.
type countingProvider struct {
	calls int64
	fn    func(ctx context.Context, in Input) (Result, error)
}

func (p *countingProvider) Categorize(ctx context.Context, in Input) (Result, error) {
	atomic.AddInt64(&p.calls, 1)
	return p.fn(ctx, in)
}

func (p *countingProvider) count() int64 {
	return atomic.LoadInt64(&p.calls)
}

func TestCategorizeInvalidCategoryFromProvider(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{Category: "Cat Videos", Confidence: 0.95}, nil
	}}
	svc := NewService(testConfig(), provider)

	result := svc.Categorize(context.Background(), Input{URL: "https://example.com"})

	assert.Equal(t, FallbackCategory, result.Category)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Contains(t, result.Reasoning, "Cat Videos")
	assert.True(t, ValidCategory(result.Category))
}

func TestCategorizeLowConfidenceDowngraded(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{Category: "Development", Confidence: 0.4, Reasoning: "not sure"}, nil
	}}
	svc := NewService(testConfig(), provider)

	result := svc.Categorize(context.Background(), Input{URL: "https://example.com"})

	assert.Equal(t, FallbackCategory, result.Category)
	assert.Equal(t, 0.4, result.Confidence, "original confidence must be preserved")
	assert.Equal(t, "not sure", result.Reasoning)
}

func TestCategorizeCacheIdempotence(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{Category: "Development", Confidence: 0.9, Reasoning: "code"}, nil
	}}
	svc := NewService(testConfig(), provider)

	in := Input{URL: "https://github.com/x/y", Title: "X", Description: "a repo"}
	first := svc.Categorize(context.Background(), in)
	second := svc.Categorize(context.Background(), in)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, provider.count(), "second call must be served from cache")
	assert.Equal(t, 1, svc.Stats().CacheSize)
}

func TestCategorizeRateLimitShortCircuits(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{Category: "Development", Confidence: 0.9}, nil
	}}
	cfg := testConfig()
	cfg.MaxCallsPerMinute = 2
	svc := NewService(cfg, provider)

	svc.Categorize(context.Background(), Input{URL: "https://a.example"})
	svc.Categorize(context.Background(), Input{URL: "https://b.example"})
	result := svc.Categorize(context.Background(), Input{URL: "https://c.example"})

	assert.Equal(t, FallbackCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "rate limit exceeded", result.Reasoning)
	assert.EqualValues(t, 2, provider.count(), "denied call must not reach the provider")

	// The denial is not cached: the same input still resolves fresh later.
	assert.Equal(t, 2, svc.Stats().CacheSize)
}

func TestCategorizeProviderErrorFallsBack(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{}, errors.New("connection refused")
	}}
	svc := NewService(testConfig(), provider)

	result := svc.Categorize(context.Background(), Input{URL: "https://example.com"})

	assert.Equal(t, FallbackCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Reasoning, "connection refused")
	assert.Equal(t, 0, svc.Stats().CacheSize, "error results must not be cached")
}

func TestCategorizeCallTimeoutFallsBack(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}}
	cfg := testConfig()
	cfg.CallTimeout = 10 * time.Millisecond
	svc := NewService(cfg, provider)

	result := svc.Categorize(context.Background(), Input{URL: "https://slow.example"})

	assert.Equal(t, FallbackCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Reasoning, "AI categorization failed")
	assert.EqualValues(t, 1, provider.count())
	assert.Equal(t, 0, svc.Stats().CacheSize, "timed-out results must not be cached")
}

func TestCategorizeUnconfiguredUsesHeuristic(t *testing.T) {
	svc := NewService(testConfig(), nil)
	require.False(t, svc.Configured())

	t.Run("development-like url", func(t *testing.T) {
		result := svc.Categorize(context.Background(), Input{URL: "https://github.com/x/y", Title: "X"})
		assert.Equal(t, "Development", result.Category)
		assert.Greater(t, result.Confidence, 0.0)
	})

	t.Run("unknown domain falls back", func(t *testing.T) {
		result := svc.Categorize(context.Background(), Input{URL: "https://unknown-domain.example"})
		assert.Equal(t, FallbackCategory, result.Category)
		assert.Equal(t, 0.0, result.Confidence)
	})
}

func TestClearCacheForcesFreshCall(t *testing.T) {
	provider := &countingProvider{fn: func(ctx context.Context, in Input) (Result, error) {
		return Result{Category: "Science", Confidence: 0.8}, nil
	}}
	svc := NewService(testConfig(), provider)

	in := Input{URL: "https://example.com/paper"}
	svc.Categorize(context.Background(), in)
	require.EqualValues(t, 1, provider.count())
	require.Equal(t, 1, svc.Stats().CacheSize)

	svc.ClearCache()
	assert.Equal(t, 0, svc.Stats().CacheSize)

	svc.Categorize(context.Background(), in)
	assert.EqualValues(t, 2, provider.count())
}

func TestStats(t *testing.T) {
	svc := NewService(testConfig(), nil)
	stats := svc.Stats()

	assert.Equal(t, 0, stats.CacheSize)
	assert.Equal(t, 0, stats.RecentRequests)
	assert.Equal(t, len(Categories), stats.AvailableCategories)
	assert.Equal(t, FallbackCategory, stats.FallbackCategory)
	assert.Equal(t, MinConfidence, stats.MinConfidenceThreshold)
	assert.False(t, stats.Configured)
}

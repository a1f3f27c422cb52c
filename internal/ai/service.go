package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"linkstash/internal/metrics"
)

// Service categorizes bookmarks. It owns the response cache and the outbound
// call window; construct one per process and inject it into consumers.
type Service struct {
	cfg      Config
	provider Provider
	cache    *resultCache
	limiter  *callWindow
}

// NewService builds a Service. A nil provider means the external LLM is
// unconfigured; the service then degrades to the keyword heuristic instead of
// failing.
func NewService(cfg Config, provider Provider) *Service {
	return &Service{
		cfg:      cfg,
		provider: provider,
		cache:    newResultCache(cfg.CacheTTL),
		limiter:  newCallWindow(cfg.MaxCallsPerMinute),
	}
}

// Configured reports whether a real LLM provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Categorize produces a result for one bookmark using at most one outbound
// call. Failures never propagate: every path resolves to a well-formed
// Result whose category belongs to the taxonomy.
func (s *Service) Categorize(ctx context.Context, in Input) Result {
	key := cacheKey(in)
	if cached, ok := s.cache.Get(key); ok {
		log.Debug().Str("url", in.URL).Msg("Using cached categorization result")
		metrics.CategorizationCacheHitsTotal.Inc()
		return cached
	}

	if !s.limiter.Allow() {
		log.Warn().Str("url", in.URL).Msg("Rate limit exceeded for AI categorization")
		metrics.CategorizationFallbacksTotal.WithLabelValues("rate_limit").Inc()
		// Not cached: the denial reflects limiter state, not content.
		return Result{Category: FallbackCategory, Confidence: 0, Reasoning: "rate limit exceeded"}
	}

	if s.provider == nil {
		log.Debug().Str("url", in.URL).Msg("LLM provider not configured, using heuristic categorization")
		metrics.CategorizationHeuristicTotal.Inc()
		return classifyHeuristic(in)
	}

	s.limiter.Record()
	metrics.CategorizationCallsTotal.Inc()

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.provider.Categorize(callCtx, in)
	metrics.CategorizationDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("url", in.URL).Msg("Error categorizing bookmark")
		metrics.CategorizationFallbacksTotal.WithLabelValues("call_error").Inc()
		return Result{
			Category:   FallbackCategory,
			Confidence: 0,
			Reasoning:  fmt.Sprintf("AI categorization failed: %s", err.Error()),
		}
	}

	result := s.validateResult(raw, in)
	s.cache.Put(key, result)

	log.Info().Str("url", in.URL).Str("category", result.Category).Float64("confidence", result.Confidence).Msg("Bookmark categorized")
	return result
}

// validateResult applies the taxonomy and confidence rules to a raw provider
// result.
func (s *Service) validateResult(raw Result, in Input) Result {
	if !ValidCategory(raw.Category) {
		log.Warn().Str("url", in.URL).Str("category", raw.Category).Msg("Invalid category returned by AI, using fallback")
		metrics.CategorizationFallbacksTotal.WithLabelValues("invalid_category").Inc()
		return Result{
			Category:   FallbackCategory,
			Confidence: 0.3,
			Reasoning:  fmt.Sprintf("AI returned invalid category %q", raw.Category),
		}
	}
	if raw.Confidence < MinConfidence {
		log.Warn().Str("url", in.URL).Float64("confidence", raw.Confidence).Msg("Low confidence categorization, using fallback")
		metrics.CategorizationFallbacksTotal.WithLabelValues("low_confidence").Inc()
		reasoning := raw.Reasoning
		if reasoning == "" {
			reasoning = "low confidence categorization"
		}
		return Result{
			Category:   FallbackCategory,
			Confidence: raw.Confidence,
			Reasoning:  reasoning,
		}
	}
	return raw
}

// CategorizeBatch categorizes inputs in contiguous chunks of Config.BatchSize.
// Items within a chunk run concurrently; chunks run sequentially with a pacing
// delay in between. The returned slice always holds exactly len(inputs)
// results, positionally matching the inputs.
func (s *Service) CategorizeBatch(ctx context.Context, inputs []Input) []Result {
	results := make([]Result, len(inputs))

	for start := 0; start < len(inputs); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(inputs) {
			end = len(inputs)
		}

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.Categorize(gCtx, inputs[i])
				return nil
			})
		}
		// Categorize never fails, so Wait only acts as the chunk barrier.
		_ = g.Wait()

		if end < len(inputs) {
			select {
			case <-time.After(s.cfg.BatchDelay):
			case <-ctx.Done():
				// Resolve the remaining items through the normal fallback
				// paths without further pacing.
			}
		}
	}

	return results
}

// Stats is the read-only diagnostics view of the service.
type Stats struct {
	CacheSize              int     `json:"cacheSize"`
	RecentRequests         int     `json:"recentRequests"`
	AvailableCategories    int     `json:"availableCategories"`
	FallbackCategory       string  `json:"fallbackCategory"`
	MinConfidenceThreshold float64 `json:"minConfidenceThreshold"`
	BatchSize              int     `json:"batchSize"`
	Configured             bool    `json:"configured"`
}

// Stats reports current cache and rate-limiter state for diagnostics.
func (s *Service) Stats() Stats {
	return Stats{
		CacheSize:              s.cache.Size(),
		RecentRequests:         s.limiter.Recent(),
		AvailableCategories:    len(Categories),
		FallbackCategory:       FallbackCategory,
		MinConfidenceThreshold: MinConfidence,
		BatchSize:              s.cfg.BatchSize,
		Configured:             s.Configured(),
	}
}

// ClearCache empties the response cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
	log.Info().Msg("Categorization cache cleared")
}

package infra

import (
	"context"

	infraredis "order-analytics/internal/infra/redis"
)

// MetricsCacheInterface stores computed summaries keyed by the filter that produced them.
type MetricsCacheInterface interface {
	// Get decodes the cached value into dst and reports whether it was present, together with
	// the cache generation the lookup ran against.
	Get(ctx context.Context, key string, dst any) (gen int64, hit bool, err error)
	// Set stores value under gen. A gen older than the current one makes the write unreachable.
	Set(ctx context.Context, gen int64, key string, value any) error
	// Invalidate drops every entry written before the call.
	Invalidate(ctx context.Context) error
}

var _ MetricsCacheInterface = (*infraredis.MetricsCache)(nil)

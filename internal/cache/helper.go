package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// StartCacheSpan starts a "cache.<operation>" span for key under the
// transaction carried by ctx. Returns nil when ctx has no Sentry hub.
func StartCacheSpan(ctx context.Context, key, operation string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache."+operation)
	if span == nil {
		return nil
	}
	span.Description = key
	span.SetData("cache.key", key)
	return span
}

// SetSpanHit records whether a lookup was served from the cache
func SetSpanHit(span *sentry.Span, hit bool) {
	if span != nil {
		span.SetData("cache.hit", hit)
	}
}

// FinishSpan safely finishes a span, handling nil spans
func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Status = sentry.SpanStatusOK
		span.Finish()
	}
}

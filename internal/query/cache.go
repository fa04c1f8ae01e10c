package query

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/taxadmin/internal/cache"
	"github.com/flexprice/taxadmin/internal/config"
	"github.com/flexprice/taxadmin/internal/domain/country"
	"github.com/flexprice/taxadmin/internal/domain/tax"
	"github.com/flexprice/taxadmin/internal/httpclient"
	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/metrics"
	"github.com/flexprice/taxadmin/internal/remote"
	"github.com/flexprice/taxadmin/internal/types"
	"golang.org/x/sync/singleflight"
)

// Cache keys for the two queries the view reads
var (
	KeyTaxes     = cache.GenerateKey(cache.PrefixTaxList, "all")
	KeyCountries = cache.GenerateKey(cache.PrefixCountryList, "all")
)

// Cache is the single source of truth for the lists the view observes. Reads
// go through the backing store and hit the remote client only when an entry
// is Empty or Stale; concurrent misses for the same key share one fetch. A
// successful write invalidates the tax list so the next read re-fetches once.
type Cache struct {
	remote  remote.Client
	store   cache.Cache
	ttl     time.Duration
	logger  *logger.Logger
	metrics *metrics.Metrics

	group singleflight.Group

	mu         sync.Mutex
	states     map[string]State
	generation map[string]uint64
}

// NewCache creates a query cache over the remote client and backing store
func NewCache(
	client remote.Client,
	store cache.Cache,
	cfg *config.Configuration,
	log *logger.Logger,
	m *metrics.Metrics,
) *Cache {
	return &Cache{
		remote:     client,
		store:      store,
		ttl:        cache.ExpirationFor(cfg.Cache.TTL),
		logger:     log,
		metrics:    m,
		states:     make(map[string]State),
		generation: make(map[string]uint64),
	}
}

// fetchFunc resolves a query against the remote client
type fetchFunc func(ctx context.Context) (value interface{}, outcome types.Outcome, cause error)

// GetTaxes returns the current tax list. It never fails: the remote client
// always resolves, with fallback data if need be.
func (q *Cache) GetTaxes(ctx context.Context) ([]*tax.Tax, error) {
	v, err := q.load(ctx, KeyTaxes, metrics.OpFetchTaxes, func(ctx context.Context) (interface{}, types.Outcome, error) {
		res := q.remote.FetchTaxes(ctx)
		return res.Taxes, res.Outcome, res.Cause
	})
	if err != nil {
		return nil, err
	}
	return tax.CloneList(v.([]*tax.Tax)), nil
}

// GetCountries returns the current country list. Writes never invalidate it.
func (q *Cache) GetCountries(ctx context.Context) ([]*country.Country, error) {
	v, err := q.load(ctx, KeyCountries, metrics.OpFetchCountries, func(ctx context.Context) (interface{}, types.Outcome, error) {
		res := q.remote.FetchCountries(ctx)
		return res.Countries, res.Outcome, res.Cause
	})
	if err != nil {
		return nil, err
	}
	return country.CloneList(v.([]*country.Country)), nil
}

// UpdateTax writes through the remote client. On success the tax list is
// invalidated exactly once; on failure the cache is left untouched and the
// error is returned as is.
func (q *Cache) UpdateTax(ctx context.Context, id string, payload tax.UpdatePayload) (*tax.Tax, error) {
	res, err := q.remote.UpdateTax(ctx, id, payload)
	q.report(ctx, metrics.OpUpdateTax, res.Outcome, res.Cause)
	if err != nil {
		return nil, err
	}

	q.Invalidate(ctx, KeyTaxes)
	return res.Tax, nil
}

// Invalidate marks key Stale so the next read re-fetches. An Empty entry
// stays Empty. A load already in flight is detached: its callers still get
// its result, but later readers start a new fetch instead of joining it.
func (q *Cache) Invalidate(ctx context.Context, key string) {
	q.mu.Lock()
	q.generation[key]++
	if s, ok := q.states[key]; ok && s != StateEmpty {
		q.states[key] = StateStale
	}
	// under mu so no reader can see Stale and still join the old flight
	q.group.Forget(key)
	q.mu.Unlock()

	q.store.Delete(ctx, key)
	q.metrics.ObserveInvalidation(key)
	q.logger.Debugw("query invalidated", "key", key)
}

// State reports where key is in its lifecycle
func (q *Cache) State(key string) State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateLocked(key)
}

func (q *Cache) stateLocked(key string) State {
	if s, ok := q.states[key]; ok {
		return s
	}
	return StateEmpty
}

func (q *Cache) load(ctx context.Context, key, op string, fetch fetchFunc) (interface{}, error) {
	span := cache.StartCacheSpan(ctx, key, "get")
	defer cache.FinishSpan(span)

	if v, ok := q.lookup(ctx, key); ok {
		cache.SetSpanHit(span, true)
		q.metrics.ObserveLookup(key, true)
		return v, nil
	}
	cache.SetSpanHit(span, false)
	q.metrics.ObserveLookup(key, false)

	// The shared fetch must not be cut short because the caller that
	// happened to start it went away.
	flightCtx := context.WithoutCancel(ctx)

	v, err, shared := q.group.Do(key, func() (interface{}, error) {
		if v, ok := q.lookup(flightCtx, key); ok {
			return v, nil
		}

		gen := q.begin(key)
		value, outcome, cause := fetch(flightCtx)
		q.report(flightCtx, op, outcome, cause)
		q.finish(flightCtx, key, gen, value)
		return value, nil
	})
	if shared {
		q.logger.Debugw("query fetch shared", "key", key)
	}
	return v, err
}

// lookup returns the stored value when key is Fresh. A Fresh entry the store
// no longer holds (TTL expiry, disabled cache) becomes Stale.
func (q *Cache) lookup(ctx context.Context, key string) (interface{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stateLocked(key) != StateFresh {
		return nil, false
	}
	v, ok := q.store.Get(ctx, key)
	if !ok {
		q.states[key] = StateStale
		return nil, false
	}
	return v, true
}

// begin moves key to Loading and returns the generation the load belongs to
func (q *Cache) begin(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.states[key] = StateLoading
	return q.generation[key]
}

// finish stores value unless key was invalidated while the load was in flight
func (q *Cache) finish(ctx context.Context, key string, gen uint64, value interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Invalidate already marked the entry Stale and a newer load may own it now
	if q.generation[key] != gen {
		q.logger.Debugw("query invalidated during load, result not cached", "key", key)
		return
	}
	q.store.Set(ctx, key, value, q.ttl)
	q.states[key] = StateFresh
}

// report logs and counts how a remote call resolved
func (q *Cache) report(ctx context.Context, op string, outcome types.Outcome, cause error) {
	q.metrics.ObserveRemote(op, outcome)

	log := q.logger.With("operation", op, "outcome", outcome.String(), "request_id", types.GetRequestID(ctx))
	if httpErr, ok := httpclient.IsHTTPError(cause); ok {
		log = log.With("status", httpErr.StatusCode)
	}
	switch outcome {
	case types.OutcomeSuccess:
		log.Debugw("remote call succeeded")
	case types.OutcomeFallback:
		log.Warnw("remote tax service failed, serving fallback data", "error", cause)
	case types.OutcomeFailure:
		log.Warnw("remote tax service failed and no fallback record exists", "error", cause)
	}
}

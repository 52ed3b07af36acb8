package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"call-history/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// QueryOptions tunes a Query. Zero values get defaults.
type QueryOptions struct {
	Cache   Cache
	Limiter Limiter
	Logger  *slog.Logger

	// TTL is how long a fetched page is served from cache.
	TTL time.Duration
	// FetchTimeout bounds one upstream fetch, independent of any request.
	FetchTimeout time.Duration
	// Wait is how long Get blocks before reporting StateLoading.
	Wait time.Duration
}

// Query maps a key to a cached async result.
//
// At most one fetch per key is in flight; concurrent callers share it. A fetch
// outlives the request that started it, so a Loading result fills the cache
// for the next render. Failed fetches are not cached and never retried.
type Query struct {
	source  Source
	cache   Cache
	limiter Limiter
	log     *slog.Logger

	ttl          time.Duration
	fetchTimeout time.Duration
	wait         time.Duration

	group singleflight.Group
}

func NewQuery(src Source, opts QueryOptions) *Query {
	q := &Query{
		source:       src,
		cache:        opts.Cache,
		limiter:      opts.Limiter,
		log:          opts.Logger,
		ttl:          opts.TTL,
		fetchTimeout: opts.FetchTimeout,
		wait:         opts.Wait,
	}
	if q.cache == nil {
		q.cache = NewMemoryCache()
	}
	if q.log == nil {
		q.log = slog.Default()
	}
	if q.ttl <= 0 {
		q.ttl = 30 * time.Second
	}
	if q.fetchTimeout <= 0 {
		q.fetchTimeout = 10 * time.Second
	}
	if q.wait <= 0 {
		q.wait = 2 * time.Second
	}
	return q
}

// Get returns the current result for key, starting a fetch when nothing is
// cached or in flight.
func (q *Query) Get(ctx context.Context, key Key) Result {
	page, ok, err := q.cache.Get(ctx, key)
	if err != nil {
		logger.From(ctx).Warn("page cache read failed", "key", key.String(), "err", err)
	}
	if ok {
		return Result{Key: key, State: StateReady, Page: page}
	}

	ch := q.group.DoChan(key.String(), func() (any, error) {
		return q.fetch(key)
	})

	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrNotFound) {
				return Result{Key: key, State: StateNotFound, Err: res.Err}
			}
			return Result{Key: key, State: StateError, Err: res.Err}
		}
		return Result{Key: key, State: StateReady, Page: res.Val.(Page)}
	case <-timer.C:
		logger.From(ctx).Debug("calls fetch still running", "key", key.String())
		return Result{Key: key, State: StateLoading}
	case <-ctx.Done():
		return Result{Key: key, State: StateLoading, Err: ctx.Err()}
	}
}

func (q *Query) fetch(key Key) (Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.fetchTimeout)
	defer cancel()

	start := time.Now()
	log := q.log.With("key", key.String())

	if q.limiter != nil {
		release, err := q.limiter.Acquire(ctx)
		if err != nil {
			log.Warn("upstream slot unavailable", "err", err)
			if errors.Is(err, ErrBusy) {
				return Page{}, err
			}
			return Page{}, errors.Join(ErrBusy, err)
		}
		defer release()
	}

	page, err := q.source.FetchPage(ctx, key.Offset, key.Limit)
	if err != nil {
		log.Error("calls fetch failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
		return Page{}, err
	}
	log.Debug("calls fetched", "total_count", page.TotalCount, "nodes", len(page.Nodes), "duration_ms", time.Since(start).Milliseconds())

	if err := q.cache.Set(ctx, key, page, q.ttl); err != nil {
		log.Warn("page cache write failed", "err", err)
	}
	return page, nil
}

package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/matchforge/sportadmin/internal/ports"
)

// ErrQueryDisabled is returned when a query's precondition is false, e.g. a
// detail lookup before an id is known. No request is issued in that case.
var ErrQueryDisabled = errors.New("query disabled")

// Querier is the single owner of the cache. All reads go through Resolve;
// all mutation-side cache writes go through the mutation helpers. Nothing
// else may write to the store.
type Querier struct {
	cache  ports.CacheStore
	group  singleflight.Group
	logger *slog.Logger

	// latest guards against stale responses: every local write to a key
	// with a fetch in flight bumps its generation, and the fetch result is
	// applied only if the generation is unchanged since the fetch began.
	// Entries exist only while a fetch is in flight, so the table stays
	// bounded no matter how many keys a long-lived process touches.
	mu       sync.Mutex
	latest   map[string]uint64
	inflight map[string]int

	wg sync.WaitGroup
}

func NewQuerier(cache ports.CacheStore) *Querier {
	return &Querier{
		cache:    cache,
		logger:   slog.Default().With("module", "query", "layer", "application"),
		latest:   make(map[string]uint64),
		inflight: make(map[string]int),
	}
}

// QueryOptions tune one Resolve call.
type QueryOptions struct {
	// Disabled is the evaluated precondition: when true, Resolve returns
	// ErrQueryDisabled without touching cache or network.
	Disabled bool
	// PlaceholderKey, when set on a cache miss, is read as a
	// non-authoritative stand-in (typically the previous page's key) while
	// the real fetch runs in the background. This is what keeps pagination
	// from flickering through an empty state.
	PlaceholderKey *ports.Key
}

// Resolve is the read path: fresh entry → cached value with no network;
// stale entry → stale value now, revalidation in the background; miss →
// placeholder if available, else a blocking fetch. Concurrent resolves of
// the same key share one in-flight request.
func Resolve[T any](ctx context.Context, q *Querier, key ports.Key, fetch func(context.Context) (T, error), opts QueryOptions) (T, error) {
	var zero T
	if opts.Disabled {
		return zero, ErrQueryDisabled
	}

	entry, err := q.cache.Get(ctx, key)
	if err != nil {
		q.logger.WarnContext(ctx, "cache read failed", "key", key.String(), "error", err.Error())
	}
	if entry != nil {
		if v, ok := decodeValue[T](entry.Value); ok {
			if !entry.Stale {
				return v, nil
			}
			revalidate(ctx, q, key, fetch)
			return v, nil
		}
	}

	if opts.PlaceholderKey != nil {
		if prev, prevErr := q.cache.Get(ctx, *opts.PlaceholderKey); prevErr == nil && prev != nil {
			if v, ok := decodeValue[T](prev.Value); ok {
				revalidate(ctx, q, key, fetch)
				return v, nil
			}
		}
	}

	return fetchShared(ctx, q, key, fetch)
}

// MarkStale flags one entry for refetch-on-next-read. This is the "refetch"
// primitive: mark, then Resolve.
func (q *Querier) MarkStale(ctx context.Context, key ports.Key) error {
	return q.cache.MarkStale(ctx, key)
}

// InvalidateLists marks every list-scoped entry of the resource stale,
// relation-scoped sub-keys included, and leaves detail entries alone.
func (q *Querier) InvalidateLists(ctx context.Context, r Resource) error {
	return q.cache.InvalidateScope(ctx, string(r), ports.KindList)
}

// Wait blocks until all background revalidations have settled. Tests use it
// to make stale-while-revalidate deterministic.
func (q *Querier) Wait() {
	q.wg.Wait()
}

// fetchShared runs the network call under singleflight and applies the
// result only if the key was not written to while the call was in flight.
func fetchShared[T any](ctx context.Context, q *Querier, key ports.Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	res, err, _ := q.group.Do(key.String(), func() (any, error) {
		gen := q.beginFetch(key)
		defer q.endFetch(key)
		v, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		q.commit(ctx, key, gen, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		// Shared result under a different instantiation; should not happen
		// with per-resource keys.
		return zero, errors.New("cache: mismatched query result type")
	}
	return v, nil
}

// revalidate refreshes a stale entry without blocking the caller. The fetch
// is detached from the request context so the caller returning early does
// not cancel the refresh.
func revalidate[T any](ctx context.Context, q *Querier, key ports.Key, fetch func(context.Context) (T, error)) {
	q.wg.Add(1)
	bg := context.WithoutCancel(ctx)
	go func() {
		defer q.wg.Done()
		if _, err := fetchShared(bg, q, key, fetch); err != nil {
			q.logger.WarnContext(bg, "background revalidation failed", "key", key.String(), "error", err.Error())
		}
	}()
}

// beginFetch registers an in-flight fetch and returns the generation it
// must still see at commit time.
func (q *Querier) beginFetch(key ports.Key) uint64 {
	k := key.String()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight[k]++
	return q.latest[k]
}

// endFetch retires a fetch. Once no fetch is in flight for the key its
// generation entry is dropped; the next fetch starts from zero again.
func (q *Querier) endFetch(key ports.Key) {
	k := key.String()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight[k]--
	if q.inflight[k] <= 0 {
		delete(q.inflight, k)
		delete(q.latest, k)
	}
}

// supersede invalidates any in-flight fetch for the key: its result will be
// discarded instead of clobbering a newer local write. With nothing in
// flight there is nothing to invalidate.
func (q *Querier) supersede(key ports.Key) {
	k := key.String()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inflight[k] > 0 {
		q.latest[k]++
	}
}

// commit writes a fetch result unless the key was superseded mid-flight.
// The write happens under the lock so a supersede cannot slip between the
// generation check and the Set; a mutation's own write then always lands
// after the fetch result, never under it.
func (q *Querier) commit(ctx context.Context, key ports.Key, gen uint64, value any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.latest[key.String()] != gen {
		return
	}
	if err := q.cache.Set(ctx, key, value); err != nil {
		q.logger.WarnContext(ctx, "cache write failed", "key", key.String(), "error", err.Error())
	}
}

// decodeValue recovers a typed value from a cache entry. In-process stores
// hold the typed value; serializing stores hold raw JSON.
func decodeValue[T any](v any) (T, bool) {
	switch t := v.(type) {
	case T:
		return t, true
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(t, &out); err == nil {
			return out, true
		}
	case []byte:
		var out T
		if err := json.Unmarshal(t, &out); err == nil {
			return out, true
		}
	}
	var zero T
	return zero, false
}

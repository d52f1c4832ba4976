package ports

import (
	"context"
	"time"
)

// Kind discriminates the two scopes a cache key can live in. Bulk
// invalidation always targets exactly one kind: list-scope invalidation must
// never touch detail entries, and vice versa.
const (
	KindList   = "list"
	KindDetail = "detail"
)

// Key identifies one cacheable query result. Resource and Kind are
// namespace tokens; Identity is either an entity id (detail) or the
// canonical serialization of the filter set (list). Keys are comparable, so
// two calls with deeply-equal filters resolve to the same entry.
type Key struct {
	Resource string
	Kind     string
	Identity string
}

func (k Key) String() string {
	return k.Resource + ":" + k.Kind + ":" + k.Identity
}

// Entry is the last-known-good value for a key. Stale entries remain
// readable as placeholder data; reading one obliges the caller to trigger a
// refetch. Value holds the typed value for in-process stores and
// json.RawMessage for serializing stores.
type Entry struct {
	Value     any
	FetchedAt time.Time
	Stale     bool
}

// CacheStore is the injected cache the query layer owns. Implementations
// must keep scope invalidation strictly kind-bounded and must evict entries
// left untouched past their idle window.
type CacheStore interface {
	// Get returns the entry for key, or nil on a miss. A Get counts as a
	// touch for idle-eviction purposes.
	Get(ctx context.Context, key Key) (*Entry, error)
	// Set writes a fresh value for key, clearing any staleness mark.
	Set(ctx context.Context, key Key, value any) error
	// MarkStale flags the entry so the next read triggers a refetch. Marking
	// a missing key is a no-op.
	MarkStale(ctx context.Context, key Key) error
	// InvalidateScope marks every entry with the given resource and kind
	// stale, and nothing else.
	InvalidateScope(ctx context.Context, resource, kind string) error
	// Remove deletes the entry outright.
	Remove(ctx context.Context, key Key) error
}

package application

import (
	"context"

	"github.com/matchforge/sportadmin/internal/ports"
)

// Mutations follow one invariants-first protocol:
//
//   - create never splices into cached list pages (pagination and ordering
//     make that unsafe); it marks every list entry stale instead.
//   - update/patch write optimistically: snapshot, speculative merged write,
//     commit the server value or restore the snapshot verbatim. Either way
//     the detail entry and all list entries end up stale, so the cache
//     converges on the server even if the merge was imprecise.
//   - delete removes the detail entry outright and marks lists stale. The
//     entity no longer exists, so keeping a stale copy would be a lie.
//
// Concurrent mutations on the same id are not serialized here; last write
// wins at the network layer.

// CreateMutation runs a create call and invalidates the resource's list
// scope on success.
func CreateMutation[T any](ctx context.Context, q *Querier, r Resource, call func(context.Context) (T, error)) (T, error) {
	out, err := call(ctx)
	if err != nil {
		return out, err
	}
	if invErr := q.InvalidateLists(ctx, r); invErr != nil {
		q.logger.WarnContext(ctx, "list invalidation failed", "resource", string(r), "error", invErr.Error())
	}
	return out, nil
}

// OptimisticUpdate applies merge to the cached detail value before the
// network call resolves, then commits the server's response or rolls the
// snapshot back. merge receives the previous cached value; it is skipped
// entirely when nothing is cached for the id.
func OptimisticUpdate[T any](ctx context.Context, q *Querier, r Resource, id string, merge func(prev T) T, call func(context.Context) (T, error)) (T, error) {
	key := DetailKey(r, id)

	var snapshot T
	hasSnapshot := false
	if entry, err := q.cache.Get(ctx, key); err == nil && entry != nil {
		if v, ok := decodeValue[T](entry.Value); ok {
			snapshot = v
			hasSnapshot = true
		}
	}

	if hasSnapshot {
		// The speculative write supersedes any in-flight fetch for the key
		// so a slow response cannot overwrite it.
		q.supersede(key)
		if err := q.cache.Set(ctx, key, merge(snapshot)); err != nil {
			q.logger.WarnContext(ctx, "optimistic write failed", "key", key.String(), "error", err.Error())
		}
	}

	out, err := call(ctx)
	if err != nil {
		if hasSnapshot {
			q.supersede(key)
			if restoreErr := q.cache.Set(ctx, key, snapshot); restoreErr != nil {
				q.logger.WarnContext(ctx, "rollback write failed", "key", key.String(), "error", restoreErr.Error())
			}
		}
		q.settle(ctx, r, key)
		return out, err
	}

	q.supersede(key)
	if setErr := q.cache.Set(ctx, key, out); setErr != nil {
		q.logger.WarnContext(ctx, "post-update write failed", "key", key.String(), "error", setErr.Error())
	}
	q.settle(ctx, r, key)
	return out, nil
}

// DeleteMutation runs a delete call; on success the detail entry is removed
// and the resource's lists are marked stale.
func DeleteMutation(ctx context.Context, q *Querier, r Resource, id string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		return err
	}
	key := DetailKey(r, id)
	q.supersede(key)
	if err := q.cache.Remove(ctx, key); err != nil {
		q.logger.WarnContext(ctx, "cache remove failed", "key", key.String(), "error", err.Error())
	}
	if err := q.InvalidateLists(ctx, r); err != nil {
		q.logger.WarnContext(ctx, "list invalidation failed", "resource", string(r), "error", err.Error())
	}
	return nil
}

// settle marks both the detail entry and the resource's list scope stale,
// the eventual-consistency tail of every update whether it succeeded or not.
func (q *Querier) settle(ctx context.Context, r Resource, detail ports.Key) {
	if err := q.cache.MarkStale(ctx, detail); err != nil {
		q.logger.WarnContext(ctx, "detail invalidation failed", "key", detail.String(), "error", err.Error())
	}
	if err := q.InvalidateLists(ctx, r); err != nil {
		q.logger.WarnContext(ctx, "list invalidation failed", "resource", string(r), "error", err.Error())
	}
}

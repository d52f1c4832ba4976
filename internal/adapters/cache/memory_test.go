package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matchforge/sportadmin/internal/ports"
)

func newTestMemory(t *testing.T) (*Memory, *time.Time) {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(5*time.Minute, 10*time.Minute)
	t.Cleanup(m.Close)
	m.nowFn = func() time.Time { return now }
	return m, &now
}

func listKey(identity string) ports.Key {
	return ports.Key{Resource: "leagues", Kind: ports.KindList, Identity: identity}
}

func detailKey(id string) ports.Key {
	return ports.Key{Resource: "leagues", Kind: ports.KindDetail, Identity: id}
}

func TestMemoryFreshnessWindow(t *testing.T) {
	t.Parallel()

	m, now := newTestMemory(t)
	ctx := context.Background()
	key := listKey("{}")

	if err := m.Set(ctx, key, "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	entry, err := m.Get(ctx, key)
	if err != nil || entry == nil {
		t.Fatalf("expected entry, got %v, %v", entry, err)
	}
	if entry.Stale {
		t.Fatalf("entry should be fresh immediately after set")
	}

	*now = now.Add(6 * time.Minute)
	entry, _ = m.Get(ctx, key)
	if entry == nil || !entry.Stale {
		t.Fatalf("entry should be stale past the freshness window, got %+v", entry)
	}
	if entry.Value != "v1" {
		t.Fatalf("stale entry must still serve the last-known value")
	}
}

func TestMemoryIdleEviction(t *testing.T) {
	t.Parallel()

	m, now := newTestMemory(t)
	ctx := context.Background()
	key := listKey("{}")

	_ = m.Set(ctx, key, "v1")

	// Touch at +8m keeps the entry alive past +10m from set.
	*now = now.Add(8 * time.Minute)
	if entry, _ := m.Get(ctx, key); entry == nil {
		t.Fatalf("entry evicted before the idle window elapsed")
	}

	*now = now.Add(11 * time.Minute)
	if entry, _ := m.Get(ctx, key); entry != nil {
		t.Fatalf("entry should be evicted after the idle window, got %+v", entry)
	}
}

func TestMemoryMarkStale(t *testing.T) {
	t.Parallel()

	m, _ := newTestMemory(t)
	ctx := context.Background()
	key := detailKey("1")

	_ = m.Set(ctx, key, "v1")
	if err := m.MarkStale(ctx, key); err != nil {
		t.Fatalf("mark stale failed: %v", err)
	}
	entry, _ := m.Get(ctx, key)
	if entry == nil || !entry.Stale {
		t.Fatalf("expected stale entry, got %+v", entry)
	}

	// Marking a missing key is a no-op.
	if err := m.MarkStale(ctx, detailKey("missing")); err != nil {
		t.Fatalf("mark stale on missing key: %v", err)
	}
}

func TestMemoryScopeInvalidationIsKindBounded(t *testing.T) {
	t.Parallel()

	m, _ := newTestMemory(t)
	ctx := context.Background()

	_ = m.Set(ctx, listKey("{}"), "list")
	_ = m.Set(ctx, listKey(`{"country":"7"}`), "byCountry")
	_ = m.Set(ctx, detailKey("1"), "detail")
	_ = m.Set(ctx, ports.Key{Resource: "teams", Kind: ports.KindList, Identity: "{}"}, "teams")

	if err := m.InvalidateScope(ctx, "leagues", ports.KindList); err != nil {
		t.Fatalf("invalidate scope failed: %v", err)
	}

	for _, key := range []ports.Key{listKey("{}"), listKey(`{"country":"7"}`)} {
		entry, _ := m.Get(ctx, key)
		if entry == nil || !entry.Stale {
			t.Fatalf("list-scoped entry %v should be stale", key)
		}
	}
	if entry, _ := m.Get(ctx, detailKey("1")); entry == nil || entry.Stale {
		t.Fatalf("detail entry must survive list-scope invalidation, got %+v", entry)
	}
	if entry, _ := m.Get(ctx, ports.Key{Resource: "teams", Kind: ports.KindList, Identity: "{}"}); entry == nil || entry.Stale {
		t.Fatalf("other resources must survive the invalidation, got %+v", entry)
	}
}

func TestMemoryRemove(t *testing.T) {
	t.Parallel()

	m, _ := newTestMemory(t)
	ctx := context.Background()
	key := detailKey("1")

	_ = m.Set(ctx, key, "v1")
	if err := m.Remove(ctx, key); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if entry, _ := m.Get(ctx, key); entry != nil {
		t.Fatalf("removed entry still present: %+v", entry)
	}
	if m.Len() != 0 {
		t.Fatalf("store should be empty, has %d entries", m.Len())
	}
}

package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "access_token"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestFileStoreRoundtrip(t *testing.T) {
	t.Parallel()

	store := newTestFileStore(t)
	ctx := context.Background()

	got, err := store.Token(ctx)
	if err != nil || got != "" {
		t.Fatalf("empty store = %q, %v", got, err)
	}

	if err := store.Set(ctx, "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = store.Token(ctx)
	if err != nil || got != "opaque-token" {
		t.Fatalf("token after set = %q, %v", got, err)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileStoreClear(t *testing.T) {
	t.Parallel()

	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, err := store.Token(ctx); err != nil || got != "" {
		t.Fatalf("token after clear = %q, %v", got, err)
	}

	// Clearing an already-empty store is not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStoreDropsExpiredJWT(t *testing.T) {
	t.Parallel()

	store := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, signedToken(t, time.Now().Add(-time.Hour))); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Token(ctx)
	if err != nil || got != "" {
		t.Fatalf("expired token should be dropped, got %q, %v", got, err)
	}
	if _, statErr := os.Stat(store.path); !os.IsNotExist(statErr) {
		t.Fatalf("expired token file should be removed, stat = %v", statErr)
	}
}

func TestFileStoreKeepsLiveJWT(t *testing.T) {
	t.Parallel()

	store := newTestFileStore(t)
	ctx := context.Background()

	token := signedToken(t, time.Now().Add(time.Hour))
	if err := store.Set(ctx, token); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := store.Token(ctx); err != nil || got != token {
		t.Fatalf("live token = %q, %v", got, err)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := store.Token(ctx); got != "opaque-token" {
		t.Fatalf("token = %q", got)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := store.Token(ctx); got != "" {
		t.Fatalf("token after clear = %q", got)
	}

	if err := store.Set(ctx, signedToken(t, time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("set expired: %v", err)
	}
	if got, _ := store.Token(ctx); got != "" {
		t.Fatalf("expired token should not be returned, got %q", got)
	}
}

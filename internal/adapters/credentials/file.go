package credentials

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// tokenFileName is the well-known storage location for the credential,
// relative to the user config dir.
const tokenFileName = "sportadmin/access_token"

// FileStore persists the token under the user's config directory so it
// survives process restarts. Reads and writes are serialized; the file is
// created owner-only.
type FileStore struct {
	mu    sync.Mutex
	path  string
	nowFn func() time.Time
}

// NewFileStore uses the default well-known path. Pass a non-empty path to
// override it, e.g. in tests.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(base, tokenFileName)
	}
	return &FileStore{path: path, nowFn: time.Now}, nil
}

func (s *FileStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", nil
	}
	if expired(token, s.nowFn()) {
		_ = os.Remove(s.path)
		return "", nil
	}
	return token, nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	cacheadapter "github.com/matchforge/sportadmin/internal/adapters/cache"
	"github.com/matchforge/sportadmin/internal/adapters/credentials"
	"github.com/matchforge/sportadmin/internal/adapters/rest"
	"github.com/matchforge/sportadmin/internal/application"
	"github.com/matchforge/sportadmin/internal/ports"
)

// Runtime wires config, token store, cache store, transport, and the
// application service into one ready-to-use SDK instance.
type Runtime struct {
	cfg       Config
	logger    *slog.Logger
	service   *application.Service
	tokens    ports.TokenStore
	cleanupFn func()
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg)}))
	slog.SetDefault(logger)

	tokens, err := credentials.NewFileStore(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	var (
		store   ports.CacheStore
		cleanup func()
	)
	if cfg.RedisURL != "" {
		client, connErr := cacheadapter.Connect(ctx, cfg.RedisURL)
		if connErr != nil {
			return nil, fmt.Errorf("connect redis: %w", connErr)
		}
		if pingErr := client.Ping(ctx).Err(); pingErr != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", pingErr)
		}
		store = cacheadapter.NewRedis(client, cfg.CacheFreshFor, cfg.CacheEvictAfter)
		cleanup = func() { _ = client.Close() }
	} else {
		mem := cacheadapter.NewMemory(cfg.CacheFreshFor, cfg.CacheEvictAfter)
		store = mem
		cleanup = mem.Close
	}

	restOpts := []rest.Option{
		rest.WithLogger(logger.With("module", "rest", "layer", "adapter")),
		rest.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	}
	if !cfg.IsProduction() {
		restOpts = append(restOpts, rest.WithDebugLogging())
	}
	rc, err := rest.New(cfg.BaseURL, tokens, restOpts...)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init rest client: %w", err)
	}

	return &Runtime{
		cfg:       cfg,
		logger:    logger,
		service:   application.NewService(rc, store),
		tokens:    tokens,
		cleanupFn: cleanup,
	}, nil
}

func (r *Runtime) Config() Config                { return r.cfg }
func (r *Runtime) Logger() *slog.Logger          { return r.logger }
func (r *Runtime) Service() *application.Service { return r.service }
func (r *Runtime) TokenStore() ports.TokenStore  { return r.tokens }

func (r *Runtime) Close() {
	if r.cleanupFn != nil {
		r.cleanupFn()
	}
}

func logLevel(cfg Config) slog.Level {
	if cfg.IsProduction() {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

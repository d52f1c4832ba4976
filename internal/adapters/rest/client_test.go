package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matchforge/sportadmin/internal/adapters/credentials"
	"github.com/matchforge/sportadmin/internal/domain"
)

type fixture struct {
	client *Client
	tokens *credentials.MemoryStore
	last   *http.Request
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	f := &fixture{tokens: credentials.NewMemoryStore()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.last = r
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, f.tokens)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	f.client = client
	return f
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestBearerAttachedWhenTokenPresent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusOK, `{}`))
	ctx := context.Background()

	if err := f.client.Get(ctx, "/api/countries/", nil, nil); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := f.last.Header.Get("Authorization"); got != "" {
		t.Fatalf("unauthenticated request carried Authorization %q", got)
	}

	_ = f.tokens.Set(ctx, "tok-123")
	if err := f.client.Get(ctx, "/api/countries/", nil, nil); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := f.last.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", got)
	}
}

func TestPostCarriesIdempotencyKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusCreated, `{"id":"1"}`))

	var out map[string]any
	if err := f.client.Post(context.Background(), "/api/countries/", map[string]string{"name": "x"}, &out); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if f.last.Header.Get("X-Idempotency-Key") == "" {
		t.Fatalf("POST must carry an idempotency key")
	}
	if f.last.Header.Get("X-Request-Id") == "" {
		t.Fatalf("every request must carry a request id")
	}
}

func TestUnauthorizedClearsStoredCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusUnauthorized, `{"detail":"token expired"}`))
	ctx := context.Background()
	_ = f.tokens.Set(ctx, "tok-dead")

	err := f.client.Get(ctx, "/api/countries/", nil, nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Message != "Unauthorized. Please login again." {
		t.Fatalf("message = %q", apiErr.Message)
	}

	token, _ := f.tokens.Token(ctx)
	if token != "" {
		t.Fatalf("credential should be cleared after 401, still %q", token)
	}
}

func TestValidationErrorsFlattenedIntoMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusBadRequest, `{"errors":{"name":["too short"],"code":["required","invalid"]}}`))

	err := f.client.Post(context.Background(), "/api/countries/", map[string]string{}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Message != "code: required, invalid; name: too short" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if got := apiErr.Fields["name"]; len(got) != 1 || got[0] != "too short" {
		t.Fatalf("fields[name] = %v", got)
	}
}

func TestBareFieldMapNormalized(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusBadRequest, `{"name":["too short"]}`))

	err := f.client.Post(context.Background(), "/api/countries/", map[string]string{}, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Message != "name: too short" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestStatusTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status  int
		kind    error
		message string
	}{
		{http.StatusForbidden, domain.ErrForbidden, "You do not have permission to perform this action."},
		{http.StatusNotFound, domain.ErrNotFound, "Resource not found."},
		{http.StatusInternalServerError, domain.ErrServer, "Internal server error. Please try again later."},
	}
	for _, tc := range cases {
		f := newFixture(t, respond(tc.status, `{}`))
		err := f.client.Get(context.Background(), "/api/countries/1/", nil, nil)
		if !errors.Is(err, tc.kind) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.kind, err)
		}
		var apiErr *domain.APIError
		if !errors.As(err, &apiErr) || apiErr.Message != tc.message {
			t.Fatalf("status %d: message = %v", tc.status, err)
		}
	}
}

func TestConflictUsesServerDetail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusConflict, `{"detail":"record is referenced by leagues"}`))

	err := f.client.Delete(context.Background(), "/api/countries/1/")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "record is referenced by leagues" {
		t.Fatalf("message = %v", err)
	}
}

func TestNetworkFailureNormalized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(respond(http.StatusOK, `{}`))
	srv.Close() // connection refused from here on

	client, err := New(srv.URL, credentials.NewMemoryStore())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = client.Get(context.Background(), "/api/countries/", nil, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Network unreachable. Please check your connection." {
		t.Fatalf("message = %v", err)
	}
}

func TestSuccessDecodesBody(t *testing.T) {
	t.Parallel()

	f := newFixture(t, respond(http.StatusOK, `{"count":1,"next":null,"previous":null,"results":[{"id":"1","name":"England"}]}`))

	var env domain.Envelope[json.RawMessage]
	if err := f.client.Get(context.Background(), "/api/countries/", nil, &env); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if env.Count != 1 || len(env.Results) != 1 {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Next != nil || env.Previous != nil {
		t.Fatalf("expected nil cursors at the edges, got %+v", env)
	}
}

package ports

import "context"

// TokenStore holds the opaque bearer credential the transport attaches to
// outbound requests. An empty token means "send unauthenticated". The
// transport clears the store when the backend answers 401.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

package repository

import (
	"context"
	"time"
)

// TokenRepository persists the single operator bearer token issued by
// the remote service. The TTL tracks the token's own lifetime so a
// stale token expires out of storage instead of bouncing off the API.
type TokenRepository interface {
	SaveAdminToken(ctx context.Context, token string, exp time.Duration) error
	AdminToken(ctx context.Context) (string, error)
	ClearAdminToken(ctx context.Context) error
}

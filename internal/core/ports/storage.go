package ports

import (
	"context"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// KeyValueStore is the device storage abstraction behind the session.
// Get reports found=false for a missing key without an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionStore persists the authenticated session across restarts.
// Load never fails: unreadable state is reported as no session.
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, bool)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

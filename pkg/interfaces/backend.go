package interfaces

import (
	"context"
	"encoding/json"
	"time"
)

// Session describes an authenticated backend session.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Database exposes the relational half of the hosted backend. Service code
// talks to repositories; this surface exists for connectivity checks and
// privileged scripts.
type Database interface {
	Ping(ctx context.Context) error
}

// Auth resolves sessions and roles from bearer tokens.
type Auth interface {
	// SessionFromToken validates the supplied access token and returns the
	// session it belongs to. Invalid or expired tokens return an error.
	SessionFromToken(ctx context.Context, token string) (*Session, error)
	// CheckSession reports whether the adapter can currently reach the auth
	// subsystem at all. Used by health probes.
	CheckSession(ctx context.Context) error
}

// ObjectStorage exposes the backend's bucket API.
type ObjectStorage interface {
	ListBuckets(ctx context.Context) ([]string, error)
}

// Functions invokes named serverless functions with a JSON payload.
type Functions interface {
	Invoke(ctx context.Context, name string, payload any) (json.RawMessage, error)
}

// Backend bundles the four subsystems of the hosted platform behind one
// pluggable boundary. The concrete backend is an external service, not
// something this module reimplements.
type Backend interface {
	Database() Database
	Auth() Auth
	Storage() ObjectStorage
	Functions() Functions
}

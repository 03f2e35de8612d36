package backend

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/agencykit/cms/pkg/interfaces"
)

// ErrSubsystemDown is returned by memory subsystems toggled into failure.
var ErrSubsystemDown = errors.New("backend: subsystem unavailable")

// ErrInvalidToken indicates the supplied access token resolves to no session.
var ErrInvalidToken = errors.New("backend: invalid or expired token")

// FunctionHandler implements one named serverless function in memory.
type FunctionHandler func(ctx context.Context, payload any) (json.RawMessage, error)

// Memory is an in-memory backend for tests and scaffolding. Each subsystem
// can be toggled into failure to exercise degraded paths.
type Memory struct {
	mu sync.RWMutex

	failDatabase  bool
	failAuth      bool
	failStorage   bool
	failFunctions bool

	sessions  map[string]interfaces.Session
	buckets   []string
	functions map[string]FunctionHandler
}

// NewMemory constructs a memory backend with a default bucket.
func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[string]interfaces.Session),
		buckets:   []string{"media"},
		functions: make(map[string]FunctionHandler),
	}
}

var _ interfaces.Backend = (*Memory)(nil)

// PutSession registers an access token and the session it resolves to.
func (m *Memory) PutSession(token string, session interfaces.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = time.Now().Add(time.Hour)
	}
	m.sessions[token] = session
}

// PutFunction registers a named function handler.
func (m *Memory) PutFunction(name string, handler FunctionHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.functions[name] = handler
}

// SetBuckets replaces the bucket listing.
func (m *Memory) SetBuckets(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets = append([]string(nil), names...)
}

// FailDatabase toggles the database subsystem.
func (m *Memory) FailDatabase(fail bool) { m.setFail(&m.failDatabase, fail) }

// FailAuth toggles the auth subsystem.
func (m *Memory) FailAuth(fail bool) { m.setFail(&m.failAuth, fail) }

// FailStorage toggles the storage subsystem.
func (m *Memory) FailStorage(fail bool) { m.setFail(&m.failStorage, fail) }

// FailFunctions toggles the functions subsystem.
func (m *Memory) FailFunctions(fail bool) { m.setFail(&m.failFunctions, fail) }

func (m *Memory) setFail(flag *bool, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*flag = fail
}

// Database implements interfaces.Backend.
func (m *Memory) Database() interfaces.Database { return memoryDatabase{m} }

// Auth implements interfaces.Backend.
func (m *Memory) Auth() interfaces.Auth { return memoryAuth{m} }

// Storage implements interfaces.Backend.
func (m *Memory) Storage() interfaces.ObjectStorage { return memoryStorage{m} }

// Functions implements interfaces.Backend.
func (m *Memory) Functions() interfaces.Functions { return memoryFunctions{m} }

type memoryDatabase struct{ m *Memory }

func (d memoryDatabase) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.m.mu.RLock()
	defer d.m.mu.RUnlock()
	if d.m.failDatabase {
		return ErrSubsystemDown
	}
	return nil
}

type memoryAuth struct{ m *Memory }

func (a memoryAuth) SessionFromToken(ctx context.Context, token string) (*interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	if a.m.failAuth {
		return nil, ErrSubsystemDown
	}
	session, ok := a.m.sessions[token]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return &session, nil
}

func (a memoryAuth) CheckSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	if a.m.failAuth {
		return ErrSubsystemDown
	}
	return nil
}

type memoryStorage struct{ m *Memory }

func (s memoryStorage) ListBuckets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	if s.m.failStorage {
		return nil, ErrSubsystemDown
	}
	return append([]string(nil), s.m.buckets...), nil
}

type memoryFunctions struct{ m *Memory }

func (f memoryFunctions) Invoke(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.m.mu.RLock()
	failed := f.m.failFunctions
	handler, ok := f.m.functions[name]
	f.m.mu.RUnlock()

	if failed {
		return nil, ErrSubsystemDown
	}
	if !ok {
		// Unknown functions answer like a ping so health probes work without
		// explicit registration.
		return json.RawMessage(`{"status":"ok"}`), nil
	}
	return handler(ctx, payload)
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/pkg/interfaces"
)

var (
	// ErrBackendURLRequired indicates the platform URL was not configured.
	ErrBackendURLRequired = errors.New("backend: url is required")
	// ErrServiceKeyRequired indicates the service-role key was not configured.
	ErrServiceKeyRequired = errors.New("backend: service key is required")
	// ErrDatabaseMissing indicates the bun handle was not supplied.
	ErrDatabaseMissing = errors.New("backend: database handle not configured")
)

// Config locates the hosted platform. URL and ServiceKey come from the
// process environment for privileged scripts (AGENCY_BACKEND_URL,
// AGENCY_SERVICE_KEY).
type Config struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// Platform adapts the hosted database/auth/storage/functions service to the
// interfaces.Backend boundary. The database half rides on an already
// configured bun handle; the rest speaks the platform's HTTP API.
type Platform struct {
	db     *bun.DB
	url    string
	key    string
	client *http.Client
}

// NewPlatform constructs the live backend adapter.
func NewPlatform(db *bun.DB, cfg Config) (*Platform, error) {
	url := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if url == "" {
		return nil, goerrors.Wrap(ErrBackendURLRequired, goerrors.CategoryValidation, "backend configuration invalid")
	}
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, goerrors.Wrap(ErrServiceKeyRequired, goerrors.CategoryValidation, "backend configuration invalid")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Platform{db: db, url: url, key: cfg.ServiceKey, client: client}, nil
}

var _ interfaces.Backend = (*Platform)(nil)

// Database implements interfaces.Backend.
func (p *Platform) Database() interfaces.Database { return platformDatabase{p} }

// Auth implements interfaces.Backend.
func (p *Platform) Auth() interfaces.Auth { return platformAuth{p} }

// Storage implements interfaces.Backend.
func (p *Platform) Storage() interfaces.ObjectStorage { return platformStorage{p} }

// Functions implements interfaces.Backend.
func (p *Platform) Functions() interfaces.Functions { return platformFunctions{p} }

type platformDatabase struct{ p *Platform }

func (d platformDatabase) Ping(ctx context.Context) error {
	if d.p.db == nil {
		return ErrDatabaseMissing
	}
	return d.p.db.PingContext(ctx)
}

type platformAuth struct{ p *Platform }

func (a platformAuth) SessionFromToken(ctx context.Context, token string) (*interfaces.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	body, status, err := a.p.request(ctx, http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("backend: auth responded with status %d", status)
	}

	var user struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		AppMetadata struct {
			Role string `json:"role"`
		} `json:"app_metadata"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("backend: decoding auth user: %w", err)
	}

	return &interfaces.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.AppMetadata.Role,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (a platformAuth) CheckSession(ctx context.Context) error {
	_, status, err := a.p.request(ctx, http.MethodGet, "/auth/v1/health", a.p.key, nil)
	if err != nil {
		return err
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("backend: auth health status %d", status)
	}
	return nil
}

type platformStorage struct{ p *Platform }

func (s platformStorage) ListBuckets(ctx context.Context) ([]string, error) {
	body, status, err := s.p.request(ctx, http.MethodGet, "/storage/v1/bucket", s.p.key, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("backend: storage responded with status %d", status)
	}

	var buckets []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &buckets); err != nil {
		return nil, fmt.Errorf("backend: decoding bucket listing: %w", err)
	}

	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	return names, nil
}

type platformFunctions struct{ p *Platform }

func (f platformFunctions) Invoke(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	body, status, err := f.p.request(ctx, http.MethodPost, "/functions/v1/"+name, f.p.key, payload)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("backend: function %q responded with status %d", name, status)
	}
	return json.RawMessage(body), nil
}

func (p *Platform) request(ctx context.Context, method, path, token string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, goerrors.Wrap(err, goerrors.CategoryValidation, "encoding request payload")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.url+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("backend: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("backend: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("backend: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/health"
	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/internal/sanitizer"
	"github.com/agencykit/cms/pkg/interfaces"
)

// Roles allowed to call the sanitize function.
var editorRoles = map[string]bool{
	"admin":  true,
	"editor": true,
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type sanitizeRequest struct {
	HTML string `json:"html"`
}

type sanitizeResponse struct {
	Sanitized string `json:"sanitized"`
	Modified  bool   `json:"modified"`
	Message   string `json:"message"`
}

// API serves the edge endpoints: the sanitize function, public contact
// submissions, and health reporting.
type API struct {
	auth    interfaces.Auth
	monitor *health.Monitor
	contact contact.Service
	logger  interfaces.Logger
}

// Option configures the API.
type Option func(*API)

// WithLogger overrides the module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithContactService enables the public contact submission endpoint.
func WithContactService(svc contact.Service) Option {
	return func(a *API) {
		a.contact = svc
	}
}

// NewAPI constructs the edge API. The monitor may be nil, in which case
// /health reports service_unavailable.
func NewAPI(auth interfaces.Auth, monitor *health.Monitor, opts ...Option) *API {
	a := &API{
		auth:    auth,
		monitor: monitor,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the routed handler with CORS applied.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /functions/sanitize-html", a.handleSanitize)
	mux.HandleFunc("POST /contact", a.handleContact)
	mux.HandleFunc("GET /health", a.handleHealth)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authorize resolves the caller's session and enforces the editor role set.
// It writes the error response itself and reports success via the bool.
func (a *API) authorize(w http.ResponseWriter, r *http.Request) (*interfaces.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "missing bearer token",
		})
		return nil, false
	}

	session, err := a.auth.SessionFromToken(r.Context(), token)
	if err != nil || session == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "invalid or expired token",
		})
		return nil, false
	}

	if !editorRoles[strings.ToLower(session.Role)] {
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:   "forbidden",
			Message: "role not permitted",
		})
		return nil, false
	}

	return session, true
}

func (a *API) handleSanitize(w http.ResponseWriter, r *http.Request) {
	if a.auth == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	session, ok := a.authorize(w, r)
	if !ok {
		return
	}

	var req sanitizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: "body must be JSON with an html field",
		})
		return
	}

	result := sanitizer.Sanitize(req.HTML)
	if result.Modified {
		a.logger.Info("sanitized submitted html",
			"user_id", session.UserID,
			"bytes_in", len(req.HTML),
			"bytes_out", len(result.Sanitized),
		)
	}

	message := "no changes"
	if result.Modified {
		message = "content was modified"
	}
	writeJSON(w, http.StatusOK, sanitizeResponse{
		Sanitized: result.Sanitized,
		Modified:  result.Modified,
		Message:   message,
	})
}

// handleContact accepts public contact form submissions; no auth required.
func (a *API) handleContact(w http.ResponseWriter, r *http.Request) {
	if a.contact == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var req contact.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: "body must be a JSON contact submission",
		})
		return
	}

	submission, err := a.contact.Submit(r.Context(), req)
	if err != nil {
		if goerrors.IsCategory(err, goerrors.CategoryValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   "validation_failed",
				Message: err.Error(),
			})
			return
		}
		a.logger.Error("contact submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
		return
	}

	a.logger.Info("contact submission stored", "submission_id", submission.ID, "source", submission.Source)
	writeJSON(w, http.StatusCreated, submission)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.monitor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	report := a.monitor.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	// reject trailing garbage after the JSON document
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing content")
	}
	return nil
}

package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/identity"
)

var (
	ErrClientNameRequired  = errors.New("quotes: client name is required")
	ErrClientEmailRequired = errors.New("quotes: client email is required")
	ErrTitleRequired       = errors.New("quotes: title is required")
	ErrIDRequired          = errors.New("quotes: quote id required")
	ErrInvalidStatus       = errors.New("quotes: invalid status")
)

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From QuoteStatus
	To   QuoteStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("quotes: cannot transition from %q to %q", e.From, e.To)
}

// transitions maps each status to the statuses reachable from it.
var transitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusAccepted, QuoteStatusRejected},
	QuoteStatusAccepted: {QuoteStatusConverted},
}

func canTransition(from, to QuoteStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service exposes quote management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetByReference(ctx context.Context, reference string) (*Quote, error)
	List(ctx context.Context) ([]*Quote, error)
	UpdateItems(ctx context.Context, id uuid.UUID, items []LineItem) (*Quote, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, target QuoteStatus, actor string) (*Quote, error)
	AddNote(ctx context.Context, id uuid.UUID, note, actor string) error
	Activities(ctx context.Context, id uuid.UUID) ([]*Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateQuoteRequest captures the information required to open a quote.
type CreateQuoteRequest struct {
	ClientName  string
	ClientEmail string
	Title       string
	Notes       string
	Currency    string
	Items       []LineItem
}

type service struct {
	repo Repository
	now  func() time.Time
	id   func() uuid.UUID
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// NewService constructs a quote service with the required dependencies.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{repo: repo, now: time.Now, id: uuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sumItems(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Total()
	}
	return total
}

func (s *service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, ErrClientNameRequired
	}
	email := strings.TrimSpace(req.ClientEmail)
	if email == "" {
		return nil, ErrClientEmailRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := s.now()
	id := s.id()
	record := &Quote{
		ID:          id,
		Reference:   identity.QuoteReference(id),
		ClientName:  name,
		ClientEmail: email,
		Title:       title,
		Notes:       req.Notes,
		Status:      QuoteStatusDraft,
		Items:       req.Items,
		TotalCents:  sumItems(req.Items),
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AppendActivity(ctx, &Activity{
		ID:        s.id(),
		QuoteID:   created.ID,
		Kind:      ActivityCreated,
		Note:      "quote created",
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByReference(ctx context.Context, reference string) (*Quote, error) {
	return s.repo.GetByReference(ctx, strings.TrimSpace(reference))
}

func (s *service) List(ctx context.Context) ([]*Quote, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateItems(ctx context.Context, id uuid.UUID, items []LineItem) (*Quote, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Items = items
	record.TotalCents = sumItems(items)
	record.UpdatedAt = s.now()

	return s.repo.Update(ctx, record)
}

func (s *service) ChangeStatus(ctx context.Context, id uuid.UUID, target QuoteStatus, actor string) (*Quote, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Status == target {
		return record, nil
	}
	if !canTransition(record.Status, target) {
		return nil, &TransitionError{From: record.Status, To: target}
	}

	previous := record.Status
	record.Status = target
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AppendActivity(ctx, &Activity{
		ID:        s.id(),
		QuoteID:   updated.ID,
		Kind:      ActivityStatusChanged,
		Note:      fmt.Sprintf("status changed from %s to %s", previous, target),
		Actor:     actor,
		CreatedAt: record.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *service) AddNote(ctx context.Context, id uuid.UUID, note, actor string) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.AppendActivity(ctx, &Activity{
		ID:        s.id(),
		QuoteID:   id,
		Kind:      ActivityNote,
		Note:      note,
		Actor:     actor,
		CreatedAt: s.now(),
	})
	return err
}

func (s *service) Activities(ctx context.Context, id uuid.UUID) ([]*Activity, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.Activities(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

package quotes

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage operations for quotes and their activity trail.
type Repository interface {
	Create(ctx context.Context, record *Quote) (*Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetByReference(ctx context.Context, reference string) (*Quote, error)
	List(ctx context.Context) ([]*Quote, error)
	Update(ctx context.Context, record *Quote) (*Quote, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AppendActivity(ctx context.Context, entry *Activity) (*Activity, error)
	Activities(ctx context.Context, quoteID uuid.UUID) ([]*Activity, error)
}

// NewQuoteRepository builds the generic bun repository for quotes.
func NewQuoteRepository(db *bun.DB) repository.Repository[*Quote] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Quote]{
		NewRecord: func() *Quote { return &Quote{} },
		GetID: func(q *Quote) uuid.UUID {
			return q.ID
		},
		SetID: func(q *Quote, id uuid.UUID) {
			q.ID = id
		},
		GetIdentifier: func() string {
			return "reference"
		},
		GetIdentifierValue: func(q *Quote) string {
			return q.Reference
		},
	})
}

// NewActivityRepository builds the generic bun repository for quote activities.
func NewActivityRepository(db *bun.DB) repository.Repository[*Activity] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Activity]{
		NewRecord: func() *Activity { return &Activity{} },
		GetID: func(a *Activity) uuid.UUID {
			return a.ID
		},
		SetID: func(a *Activity, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(a *Activity) string {
			return a.ID.String()
		},
	})
}

// BunRepository implements Repository on top of bun.
type BunRepository struct {
	quotes     repository.Repository[*Quote]
	activities repository.Repository[*Activity]
}

// NewBunRepository creates a quote repository backed by bun.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		quotes:     NewQuoteRepository(db),
		activities: NewActivityRepository(db),
	}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *Quote) (*Quote, error) {
	return r.quotes.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	record, err := r.quotes.GetByID(ctx, id.String())
	if err != nil {
		return nil, r.mapError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByReference(ctx context.Context, reference string) (*Quote, error) {
	record, err := r.quotes.GetByIdentifier(ctx, reference)
	if err != nil {
		return nil, r.mapError(err, reference)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Quote, error) {
	records, _, err := r.quotes.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at DESC")
		}),
	)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *Quote) (*Quote, error) {
	return r.quotes.Update(ctx, record)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.quotes.Delete(ctx, &Quote{ID: id})
}

func (r *BunRepository) AppendActivity(ctx context.Context, entry *Activity) (*Activity, error) {
	return r.activities.Create(ctx, entry)
}

func (r *BunRepository) Activities(ctx context.Context, quoteID uuid.UUID) ([]*Activity, error) {
	records, _, err := r.activities.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.quote_id = ?", quoteID).Order("created_at ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) mapError(err error, key string) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("quotes repository error: %w", err)
}

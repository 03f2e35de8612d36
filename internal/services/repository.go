package services

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage operations for offerings.
type Repository interface {
	Create(ctx context.Context, record *Offering) (*Offering, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	GetBySlug(ctx context.Context, slug string) (*Offering, error)
	List(ctx context.Context) ([]*Offering, error)
	Update(ctx context.Context, record *Offering) (*Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// NewOfferingRepository builds the generic bun repository for offerings.
func NewOfferingRepository(db *bun.DB) repository.Repository[*Offering] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Offering]{
		NewRecord: func() *Offering { return &Offering{} },
		GetID: func(o *Offering) uuid.UUID {
			return o.ID
		},
		SetID: func(o *Offering, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(o *Offering) string {
			return o.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo repository.Repository[*Offering]
}

// NewBunRepository creates an offering repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an offering repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewOfferingRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *Offering) (*Offering, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Offering, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Offering, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *Offering) (*Offering, error) {
	return r.repo.Update(ctx, record)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Offering{ID: id})
}

func (r *BunRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("services repository error: %w", err)
}

package projects

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

// NewProjectRepository builds the generic bun repository for projects.
func NewProjectRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.Slug
		},
	})
}

// NewProjectImageRepository builds the generic bun repository for images.
func NewProjectImageRepository(db *bun.DB) repository.Repository[*ProjectImage] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ProjectImage]{
		NewRecord: func() *ProjectImage { return &ProjectImage{} },
		GetID: func(i *ProjectImage) uuid.UUID {
			return i.ID
		},
		SetID: func(i *ProjectImage, id uuid.UUID) {
			i.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(i *ProjectImage) string {
			if i == nil {
				return ""
			}
			return i.ID.String()
		},
	})
}

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo   repository.Repository[*Project]
	images repository.Repository[*ProjectImage]
}

// NewBunRepository creates a project repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a project repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewProjectRepository(db)
	images := NewProjectImageRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		images = repositorycache.New(images, cacheService, serializer)
	}
	return &BunRepository{repo: base, images: images}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	return r.repo.Update(ctx, record)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Project{ID: id})
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

func (r *BunRepository) AddImage(ctx context.Context, image *ProjectImage) (*ProjectImage, error) {
	return r.images.Create(ctx, image)
}

func (r *BunRepository) ListImages(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error) {
	records, _, err := r.images.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				Order("position ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) RemoveImage(ctx context.Context, imageID uuid.UUID) error {
	return r.images.Delete(ctx, &ProjectImage{ID: imageID})
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("projects repository error: %w", err)
}

package blog

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

// NewPostRepository builds the generic bun repository for posts.
func NewPostRepository(db *bun.DB) repository.Repository[*BlogPost] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*BlogPost]{
		NewRecord: func() *BlogPost { return &BlogPost{} },
		GetID: func(p *BlogPost) uuid.UUID {
			return p.ID
		},
		SetID: func(p *BlogPost, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *BlogPost) string {
			return p.Slug
		},
	})
}

// NewCategoryRepository builds the generic bun repository for categories.
func NewCategoryRepository(db *bun.DB) repository.Repository[*Category] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *Category) string {
			return c.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional caching. The join
// table is written through the bare bun handle; m2m link rows have no
// single-column identity for the generic repository.
type BunRepository struct {
	db         *bun.DB
	posts      repository.Repository[*BlogPost]
	categories repository.Repository[*Category]
}

// NewBunRepository creates a blog repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a blog repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	posts := NewPostRepository(db)
	categories := NewCategoryRepository(db)
	if cacheService != nil && serializer != nil {
		posts = repositorycache.New(posts, cacheService, serializer)
		categories = repositorycache.New(categories, cacheService, serializer)
	}
	return &BunRepository{db: db, posts: posts, categories: categories}
}

var _ Repository = (*BunRepository)(nil)

func (r *BunRepository) CreatePost(ctx context.Context, record *BlogPost) (*BlogPost, error) {
	return r.posts.Create(ctx, record)
}

func (r *BunRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	record, err := r.posts.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "blog post", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	record, err := r.posts.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "blog post", slug)
	}
	return record, nil
}

func (r *BunRepository) ListPosts(ctx context.Context) ([]*BlogPost, error) {
	records, _, err := r.posts.List(ctx)
	return records, err
}

func (r *BunRepository) UpdatePost(ctx context.Context, record *BlogPost) (*BlogPost, error) {
	return r.posts.Update(ctx, record)
}

func (r *BunRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.posts.Delete(ctx, &BlogPost{ID: id})
}

func (r *BunRepository) PostSlugExists(ctx context.Context, slug string) (bool, error) {
	records, _, err := r.posts.List(ctx,
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

func (r *BunRepository) CreateCategory(ctx context.Context, record *Category) (*Category, error) {
	return r.categories.Create(ctx, record)
}

func (r *BunRepository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	record, err := r.categories.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "category", slug)
	}
	return record, nil
}

func (r *BunRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	records, _, err := r.categories.List(ctx)
	return records, err
}

func (r *BunRepository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	records, _, err := r.categories.List(ctx,
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

func (r *BunRepository) AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) error {
	link := &BlogPostCategory{BlogPostID: postID, CategoryID: categoryID}
	_, err := r.db.NewInsert().Model(link).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func (r *BunRepository) CategoriesForPost(ctx context.Context, postID uuid.UUID) ([]*Category, error) {
	var records []*Category
	err := r.db.NewSelect().
		Model(&records).
		Join("JOIN blog_post_categories AS bpc ON bpc.category_id = cat.id").
		Where("bpc.blog_post_id = ?", postID).
		Order("cat.name ASC").
		Scan(ctx)
	return records, err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

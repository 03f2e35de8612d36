package blog

import (
	"context"

	"github.com/google/uuid"
)

// Repository abstracts storage operations for posts and categories.
type Repository interface {
	CreatePost(ctx context.Context, record *BlogPost) (*BlogPost, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	ListPosts(ctx context.Context) ([]*BlogPost, error)
	UpdatePost(ctx context.Context, record *BlogPost) (*BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	PostSlugExists(ctx context.Context, slug string) (bool, error)

	CreateCategory(ctx context.Context, record *Category) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	CategorySlugExists(ctx context.Context, slug string) (bool, error)

	AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) error
	CategoriesForPost(ctx context.Context, postID uuid.UUID) ([]*Category, error)
}

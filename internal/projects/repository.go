package projects

import (
	"context"

	"github.com/google/uuid"
)

// Repository abstracts storage operations for projects and their images.
type Repository interface {
	Create(ctx context.Context, record *Project) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, record *Project) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	AddImage(ctx context.Context, image *ProjectImage) (*ProjectImage, error)
	ListImages(ctx context.Context, projectID uuid.UUID) ([]*ProjectImage, error)
	RemoveImage(ctx context.Context, imageID uuid.UUID) error
}

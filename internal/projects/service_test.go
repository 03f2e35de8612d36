package projects_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agencykit/cms/internal/projects"
)

func TestProjectCreateAndSlugCollision(t *testing.T) {
	svc := projects.NewService(projects.NewMemoryRepository())

	first, err := svc.Create(context.Background(), projects.CreateProjectRequest{Title: "Retail Rebrand"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Slug != "retail-rebrand" {
		t.Fatalf("expected derived slug got %q", first.Slug)
	}

	second, err := svc.Create(context.Background(), projects.CreateProjectRequest{Title: "Retail Rebrand"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.Slug != "retail-rebrand-2" {
		t.Fatalf("expected suffixed slug got %q", second.Slug)
	}
}

func TestProjectImagesLifecycle(t *testing.T) {
	svc := projects.NewService(projects.NewMemoryRepository())

	project, err := svc.Create(context.Background(), projects.CreateProjectRequest{Title: "Gallery"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, url := range []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"} {
		if _, err := svc.AddImage(context.Background(), projects.AddImageRequest{
			ProjectID: project.ID,
			URL:       url,
			Position:  i,
		}); err != nil {
			t.Fatalf("add image %d: %v", i, err)
		}
	}

	images, err := svc.Images(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images got %d", len(images))
	}
	if images[0].Position > images[1].Position {
		t.Fatalf("expected images ordered by position")
	}

	if err := svc.RemoveImage(context.Background(), images[0].ID); err != nil {
		t.Fatalf("remove image: %v", err)
	}

	images, err = svc.Images(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("images after remove: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image got %d", len(images))
	}
}

func TestProjectAddImageValidation(t *testing.T) {
	svc := projects.NewService(projects.NewMemoryRepository())

	project, err := svc.Create(context.Background(), projects.CreateProjectRequest{Title: "Validation"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.AddImage(context.Background(), projects.AddImageRequest{ProjectID: project.ID, URL: "  "})
	if !errors.Is(err, projects.ErrImageURLEmpty) {
		t.Fatalf("expected ErrImageURLEmpty got %v", err)
	}
}

package faqs

import (
	"context"
	"errors"
	"testing"

	"github.com/agencykit/cms/internal/domain"
)

func TestCreateDerivesSlugFromQuestion(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	faq, err := svc.Create(context.Background(), "How long does a project take?", "Usually 6-8 weeks.", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if faq.Slug != "how-long-does-a-project-take" {
		t.Fatalf("unexpected slug %q", faq.Slug)
	}
	if faq.Status != string(domain.StatusDraft) {
		t.Fatalf("expected draft status, got %q", faq.Status)
	}
}

func TestCreateResolvesDuplicateQuestions(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Do you offer support?", "Yes.", 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, "Do you offer support?", "Yes, extended plans too.", 1)
	if err != nil {
		t.Fatalf("create duplicate: %v", err)
	}
	if second.Slug != "do-you-offer-support-2" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestCreateRejectsEmptyQuestion(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Create(context.Background(), "  ", "answer", 0); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("expected ErrQuestionRequired, got %v", err)
	}
}

func TestListOrdersByPosition(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Third question?", "c", 3); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "First question?", "a", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Second question?", "b", 2); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 faqs, got %d", len(list))
	}
	for i, want := range []string{"first-question", "second-question", "third-question"} {
		if list[i].Slug != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, list[i].Slug)
		}
	}
}

func TestUpdateAndStatusTransitions(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	faq, err := svc.Create(ctx, "What is your process?", "Discovery first.", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	answer := "Discovery, design, build, launch."
	updated, err := svc.Update(ctx, faq.ID, nil, &answer, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Answer != answer {
		t.Fatalf("answer not updated: %q", updated.Answer)
	}
	if updated.Question != faq.Question {
		t.Fatalf("question should be untouched")
	}

	published, err := svc.SetStatus(ctx, faq.ID, domain.StatusPublished)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if published.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published, got %q", published.Status)
	}
}

func TestDeleteRemovesFAQ(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	faq, err := svc.Create(ctx, "Can I cancel anytime?", "Yes.", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, faq.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var notFound *NotFoundError
	if _, err := svc.Get(ctx, faq.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

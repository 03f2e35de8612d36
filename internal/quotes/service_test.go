package quotes

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestService() Service {
	return NewService(NewMemoryRepository())
}

func TestCreateAssignsReferenceAndTotals(t *testing.T) {
	svc := newTestService()

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Website redesign",
		Items: []LineItem{
			{Description: "Design", Quantity: 2, UnitPriceCents: 150000},
			{Description: "Development", Quantity: 1, UnitPriceCents: 400000},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(quote.Reference, "Q-") || len(quote.Reference) != 10 {
		t.Fatalf("unexpected reference %q", quote.Reference)
	}
	if quote.TotalCents != 700000 {
		t.Fatalf("expected total 700000, got %d", quote.TotalCents)
	}
	if quote.Status != QuoteStatusDraft {
		t.Fatalf("expected draft, got %q", quote.Status)
	}
	if quote.Currency != "USD" {
		t.Fatalf("expected USD default, got %q", quote.Currency)
	}

	activities, err := svc.Activities(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 1 || activities[0].Kind != ActivityCreated {
		t.Fatalf("expected a created activity, got %+v", activities)
	}
}

func TestCreateValidatesClientFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateQuoteRequest{ClientEmail: "a@b.test", Title: "x"}); !errors.Is(err, ErrClientNameRequired) {
		t.Fatalf("expected ErrClientNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateQuoteRequest{ClientName: "Acme", Title: "x"}); !errors.Is(err, ErrClientEmailRequired) {
		t.Fatalf("expected ErrClientEmailRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateQuoteRequest{ClientName: "Acme", ClientEmail: "a@b.test"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestChangeStatusRecordsActivityTrail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "SEO retainer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, target := range []QuoteStatus{QuoteStatusSent, QuoteStatusAccepted, QuoteStatusConverted} {
		updated, err := svc.ChangeStatus(ctx, quote.ID, target, "admin@agency.test")
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("expected %s, got %s", target, updated.Status)
		}
	}

	activities, err := svc.Activities(ctx, quote.ID)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	// created + three status changes
	if len(activities) != 4 {
		t.Fatalf("expected 4 activities, got %d", len(activities))
	}
	last := activities[len(activities)-1]
	if last.Kind != ActivityStatusChanged || !strings.Contains(last.Note, "converted") {
		t.Fatalf("unexpected trail entry %+v", last)
	}
}

func TestChangeStatusRejectsInvalidTransitions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Brand refresh",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var transitionErr *TransitionError
	if _, err := svc.ChangeStatus(ctx, quote.ID, QuoteStatusConverted, ""); !errors.As(err, &transitionErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if transitionErr.From != QuoteStatusDraft || transitionErr.To != QuoteStatusConverted {
		t.Fatalf("unexpected transition error %+v", transitionErr)
	}

	if _, err := svc.ChangeStatus(ctx, quote.ID, QuoteStatus("bogus"), ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestChangeStatusIsIdempotentForSameStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Landing pages",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ChangeStatus(ctx, quote.ID, QuoteStatusDraft, ""); err != nil {
		t.Fatalf("same-status change: %v", err)
	}

	activities, err := svc.Activities(ctx, quote.ID)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("no-op transition should not append activity, got %d entries", len(activities))
	}
}

func TestUpdateItemsRecomputesTotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Ad campaign",
		Items:       []LineItem{{Description: "Setup", Quantity: 1, UnitPriceCents: 50000}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateItems(ctx, quote.ID, []LineItem{
		{Description: "Setup", Quantity: 1, UnitPriceCents: 50000},
		{Description: "Monthly management", Quantity: 3, UnitPriceCents: 100000},
	})
	if err != nil {
		t.Fatalf("update items: %v", err)
	}
	if updated.TotalCents != 350000 {
		t.Fatalf("expected total 350000, got %d", updated.TotalCents)
	}
}

func TestGetByReference(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Analytics setup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.GetByReference(ctx, quote.Reference)
	if err != nil {
		t.Fatalf("get by reference: %v", err)
	}
	if found.ID != quote.ID {
		t.Fatalf("expected quote %s, got %s", quote.ID, found.ID)
	}

	var notFound *NotFoundError
	if _, err := svc.GetByReference(ctx, "Q-MISSING1"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

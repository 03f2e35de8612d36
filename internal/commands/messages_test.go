package commands

import (
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/domain"
	"github.com/agencykit/cms/internal/pages"
	"github.com/agencykit/cms/internal/proposals"
	"github.com/agencykit/cms/internal/quotes"
)

func TestPublishContentCommandPublishesPage(t *testing.T) {
	pageSvc := pages.NewService(pages.NewMemoryRepository())
	ctx := context.Background()

	page, err := pageSvc.Create(ctx, pages.CreatePageRequest{Title: "About Us"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	handler := NewPublishContentHandler(map[string]PublishFunc{
		KindPage: func(ctx context.Context, id uuid.UUID) error {
			_, err := pageSvc.Publish(ctx, id)
			return err
		},
	}, nil)

	if err := handler.Execute(ctx, PublishContentCommand{Kind: KindPage, ID: page.ID}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	published, err := pageSvc.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if published.CurrentStatus() != domain.StatusPublished {
		t.Fatalf("expected published, got %q", published.Status)
	}
}

func TestPublishContentCommandValidation(t *testing.T) {
	handler := NewPublishContentHandler(map[string]PublishFunc{}, nil)
	ctx := context.Background()

	err := handler.Execute(ctx, PublishContentCommand{Kind: "widget", ID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for bad kind, got %v", err)
	}

	err = handler.Execute(ctx, PublishContentCommand{Kind: KindPage})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
}

func TestTemplateCommandsDuplicateAndArchive(t *testing.T) {
	svc := proposals.NewService(proposals.NewMemoryRepository())
	ctx := context.Background()

	tpl, err := svc.Create(ctx, proposals.CreateTemplateRequest{Title: "Web Proposal"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	handlers := NewTemplateHandlers(svc, nil)

	if err := handlers.Duplicate.Execute(ctx, DuplicateTemplateCommand{TemplateID: tpl.ID}); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 templates after duplicate, got %d", len(list))
	}

	if err := handlers.Archive.Execute(ctx, ArchiveTemplateCommand{TemplateID: tpl.ID}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	archived, err := svc.Get(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if archived.CurrentStatus() != domain.StatusArchived {
		t.Fatalf("expected archived, got %q", archived.Status)
	}

	if err := handlers.Archive.Execute(ctx, ArchiveTemplateCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordQuoteActivityCommand(t *testing.T) {
	svc := quotes.NewService(quotes.NewMemoryRepository())
	ctx := context.Background()

	quote, err := svc.Create(ctx, quotes.CreateQuoteRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Title:       "Campaign",
	})
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	handler := NewRecordQuoteActivityHandler(svc, nil)
	if err := handler.Execute(ctx, RecordQuoteActivityCommand{
		QuoteID: quote.ID,
		Note:    "called the client",
		Actor:   "admin@agency.test",
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	activities, err := svc.Activities(ctx, quote.ID)
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected created plus note, got %d", len(activities))
	}

	if err := handler.Execute(ctx, RecordQuoteActivityCommand{QuoteID: quote.ID}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for empty note, got %v", err)
	}
}

func TestExportSubmissionsCommand(t *testing.T) {
	svc := contact.NewService(contact.NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, contact.SubmitRequest{
		Name:    "Jordan",
		Email:   "jordan@client.test",
		Message: "hello",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var buf strings.Builder
	handler := NewExportSubmissionsHandler(svc, nil)
	if err := handler.Execute(ctx, ExportSubmissionsCommand{Destination: &buf}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "jordan@client.test") {
		t.Fatalf("export missing submission: %q", buf.String())
	}

	if err := handler.Execute(ctx, ExportSubmissionsCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for nil destination, got %v", err)
	}
}

package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agencykit/cms/internal/backend"
	"github.com/agencykit/cms/internal/commands"
	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/health"
	"github.com/agencykit/cms/internal/pages"
	"github.com/agencykit/cms/internal/quotes"
	"github.com/agencykit/cms/internal/settings"
)

func newTestModule(t *testing.T) (*Module, *backend.Memory) {
	t.Helper()

	be := backend.NewMemory()
	cfg := DefaultConfig()
	cfg.Logging.Provider = "noop"

	module, err := New(cfg, WithBackend(be))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(module.Stop)
	return module, be
}

func TestModuleWiresAllServices(t *testing.T) {
	module, _ := newTestModule(t)

	if module.Pages() == nil {
		t.Fatal("expected page service")
	}
	if module.Projects() == nil {
		t.Fatal("expected project service")
	}
	if module.Blog() == nil {
		t.Fatal("expected blog service")
	}
	if module.Offerings() == nil {
		t.Fatal("expected offering service")
	}
	if module.FAQs() == nil {
		t.Fatal("expected faq service")
	}
	if module.Quotes() == nil {
		t.Fatal("expected quote service")
	}
	if module.Proposals() == nil {
		t.Fatal("expected proposal service")
	}
	if module.Contact() == nil {
		t.Fatal("expected contact service")
	}
	if module.Settings() == nil {
		t.Fatal("expected settings service")
	}
	if module.Payments() == nil {
		t.Fatal("expected payments provider")
	}
	if module.Health() == nil {
		t.Fatal("expected health monitor")
	}
	if module.QueryCache() == nil {
		t.Fatal("expected query cache")
	}
}

func TestModuleContentRoundTrip(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	page, err := module.Pages().Create(ctx, pages.CreatePageRequest{
		Title: "About Us",
		Body:  "<p>Who we are</p>",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if page.Slug != "about-us" {
		t.Fatalf("Slug = %q, want %q", page.Slug, "about-us")
	}

	published, err := module.Pages().Publish(ctx, page.ID)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected published_at to be set")
	}
}

func TestModuleQuoteLifecycle(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	quote, err := module.Quotes().Create(ctx, quotes.CreateQuoteRequest{
		ClientName:  "Ada Lovelace",
		ClientEmail: "ada@example.test",
		Title:       "Site redesign",
		Items: []quotes.LineItem{
			{Description: "Design sprint", Quantity: 1, UnitPriceCents: 250000},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := module.Quotes().ChangeStatus(ctx, quote.ID, quotes.QuoteStatusSent, "ada"); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}

	trail, err := module.Quotes().Activities(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Activities() error = %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail length = %d, want 2", len(trail))
	}
}

func TestModuleCommandsPublishPage(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	page, err := module.Pages().Create(ctx, pages.CreatePageRequest{
		Title: "Services",
		Body:  "<p>What we do</p>",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = module.Commands().PublishContent.Execute(ctx, commands.PublishContentCommand{
		Kind: commands.KindPage,
		ID:   page.ID,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	published, err := module.Pages().Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected command to publish the page")
	}
}

func TestModuleCommandsExportSubmissions(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	if _, err := module.Contact().Submit(ctx, contact.SubmitRequest{
		Name:    "Grace Hopper",
		Email:   "grace@client.test",
		Message: "Need a landing page",
	}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var buf strings.Builder
	err := module.Commands().ExportSubmissions.Execute(ctx, commands.ExportSubmissionsCommand{
		Destination: &buf,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "grace@client.test") {
		t.Fatalf("export missing submission, got %q", buf.String())
	}
}

func TestModuleSettingsDefaults(t *testing.T) {
	module, _ := newTestModule(t)

	info := module.Settings().ContactInfo(context.Background())
	if info.Email != settings.DefaultContactInfo().Email {
		t.Fatalf("Email = %q, want default", info.Email)
	}
}

func TestModuleHealthReflectsBackend(t *testing.T) {
	module, be := newTestModule(t)
	ctx := context.Background()

	report := module.Health().Check(ctx)
	if report.Status != health.StatusHealthy {
		t.Fatalf("Status = %q, want healthy", report.Status)
	}

	be.FailDatabase(true)
	be.FailStorage(true)
	be.FailFunctions(true)

	report = module.Health().Check(ctx)
	if report.Status != health.StatusUnhealthy {
		t.Fatalf("Status = %q, want unhealthy", report.Status)
	}
}

func TestModuleHandlerServesHealth(t *testing.T) {
	module, _ := newTestModule(t)

	srv := httptest.NewServer(module.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Payments.Provider = "carrier-pigeon"

	if _, err := New(cfg, WithBackend(backend.NewMemory())); err == nil {
		t.Fatal("expected invalid payment provider to fail")
	}
}

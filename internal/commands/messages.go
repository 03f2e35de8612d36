package commands

import (
	"context"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/proposals"
	"github.com/agencykit/cms/internal/quotes"
	"github.com/agencykit/cms/pkg/interfaces"
)

// Content kinds accepted by PublishContentCommand.
const (
	KindPage     = "page"
	KindProject  = "project"
	KindBlogPost = "blog_post"
	KindService  = "service"
)

// PublishFunc publishes one entity of a given kind.
type PublishFunc func(ctx context.Context, id uuid.UUID) error

// PublishContentCommand requests publication of a content entity.
type PublishContentCommand struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return "agency.content.publish" }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishContentCommand) Validate() error {
	errs := validation.Errors{}
	switch m.Kind {
	case KindPage, KindProject, KindBlogPost, KindService:
	default:
		errs["kind"] = validation.NewError("agency.content.publish.kind_invalid", "kind must be a known content kind")
	}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError("agency.content.publish.id_required", "id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishContentHandler dispatches publication to the per-kind services.
type PublishContentHandler struct {
	inner *Handler[PublishContentCommand]
}

// NewPublishContentHandler constructs a handler wired to one PublishFunc per content kind.
func NewPublishContentHandler(publishers map[string]PublishFunc, logger interfaces.Logger, opts ...HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, msg PublishContentCommand) error {
		publish, ok := publishers[msg.Kind]
		if !ok {
			return validation.Errors{
				"kind": validation.NewError("agency.content.publish.kind_unsupported", "no publisher registered for kind"),
			}
		}
		return publish(ctx, msg.ID)
	}

	handlerOpts := []HandlerOption[PublishContentCommand]{
		WithLogger[PublishContentCommand](logger),
		WithOperation[PublishContentCommand]("content.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishContentHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishContentCommand].Execute.
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DuplicateTemplateCommand copies a proposal template under a fresh slug.
type DuplicateTemplateCommand struct {
	TemplateID uuid.UUID `json:"template_id"`
}

func (DuplicateTemplateCommand) Type() string { return "agency.proposals.duplicate" }

func (m DuplicateTemplateCommand) Validate() error {
	if m.TemplateID == uuid.Nil {
		return validation.Errors{
			"template_id": validation.NewError("agency.proposals.duplicate.template_id_required", "template_id is required"),
		}
	}
	return nil
}

// ArchiveTemplateCommand retires a proposal template.
type ArchiveTemplateCommand struct {
	TemplateID uuid.UUID `json:"template_id"`
}

func (ArchiveTemplateCommand) Type() string { return "agency.proposals.archive" }

func (m ArchiveTemplateCommand) Validate() error {
	if m.TemplateID == uuid.Nil {
		return validation.Errors{
			"template_id": validation.NewError("agency.proposals.archive.template_id_required", "template_id is required"),
		}
	}
	return nil
}

// TemplateHandlers bundles the proposal template command handlers.
type TemplateHandlers struct {
	Duplicate *Handler[DuplicateTemplateCommand]
	Archive   *Handler[ArchiveTemplateCommand]
}

// NewTemplateHandlers constructs handlers wired to the proposal service.
func NewTemplateHandlers(service proposals.Service, logger interfaces.Logger) *TemplateHandlers {
	return &TemplateHandlers{
		Duplicate: NewHandler(func(ctx context.Context, msg DuplicateTemplateCommand) error {
			_, err := service.Duplicate(ctx, msg.TemplateID)
			return err
		},
			WithLogger[DuplicateTemplateCommand](logger),
			WithOperation[DuplicateTemplateCommand]("proposals.duplicate"),
		),
		Archive: NewHandler(func(ctx context.Context, msg ArchiveTemplateCommand) error {
			_, err := service.Archive(ctx, msg.TemplateID)
			return err
		},
			WithLogger[ArchiveTemplateCommand](logger),
			WithOperation[ArchiveTemplateCommand]("proposals.archive"),
		),
	}
}

// RecordQuoteActivityCommand appends a note to a quote's activity trail.
type RecordQuoteActivityCommand struct {
	QuoteID uuid.UUID `json:"quote_id"`
	Note    string    `json:"note"`
	Actor   string    `json:"actor,omitempty"`
}

func (RecordQuoteActivityCommand) Type() string { return "agency.quotes.record_activity" }

func (m RecordQuoteActivityCommand) Validate() error {
	errs := validation.Errors{}
	if m.QuoteID == uuid.Nil {
		errs["quote_id"] = validation.NewError("agency.quotes.record_activity.quote_id_required", "quote_id is required")
	}
	if m.Note == "" {
		errs["note"] = validation.NewError("agency.quotes.record_activity.note_required", "note is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// NewRecordQuoteActivityHandler constructs a handler wired to the quote service.
func NewRecordQuoteActivityHandler(service quotes.Service, logger interfaces.Logger, opts ...HandlerOption[RecordQuoteActivityCommand]) *Handler[RecordQuoteActivityCommand] {
	exec := func(ctx context.Context, msg RecordQuoteActivityCommand) error {
		return service.AddNote(ctx, msg.QuoteID, msg.Note, msg.Actor)
	}

	handlerOpts := []HandlerOption[RecordQuoteActivityCommand]{
		WithLogger[RecordQuoteActivityCommand](logger),
		WithOperation[RecordQuoteActivityCommand]("quotes.record_activity"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return NewHandler(exec, handlerOpts...)
}

// ExportSubmissionsCommand streams contact submissions as CSV.
type ExportSubmissionsCommand struct {
	Destination io.Writer `json:"-"`
}

func (ExportSubmissionsCommand) Type() string { return "agency.contact.export" }

func (m ExportSubmissionsCommand) Validate() error {
	if m.Destination == nil {
		return validation.Errors{
			"destination": validation.NewError("agency.contact.export.destination_required", "destination writer is required"),
		}
	}
	return nil
}

// NewExportSubmissionsHandler constructs a handler wired to the contact service.
func NewExportSubmissionsHandler(service contact.Service, logger interfaces.Logger, opts ...HandlerOption[ExportSubmissionsCommand]) *Handler[ExportSubmissionsCommand] {
	exec := func(ctx context.Context, msg ExportSubmissionsCommand) error {
		return contact.ExportCSV(ctx, service, msg.Destination)
	}

	handlerOpts := []HandlerOption[ExportSubmissionsCommand]{
		WithLogger[ExportSubmissionsCommand](logger),
		WithOperation[ExportSubmissionsCommand]("contact.export"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return NewHandler(exec, handlerOpts...)
}

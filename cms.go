package cms

import (
	"context"
	"net/http"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agencykit/cms/internal/backend"
	"github.com/agencykit/cms/internal/blog"
	"github.com/agencykit/cms/internal/commands"
	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/faqs"
	"github.com/agencykit/cms/internal/health"
	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/internal/logging/gologger"
	"github.com/agencykit/cms/internal/pages"
	"github.com/agencykit/cms/internal/payments"
	"github.com/agencykit/cms/internal/projects"
	"github.com/agencykit/cms/internal/proposals"
	"github.com/agencykit/cms/internal/querycache"
	"github.com/agencykit/cms/internal/quotes"
	"github.com/agencykit/cms/internal/server"
	"github.com/agencykit/cms/internal/services"
	"github.com/agencykit/cms/internal/settings"
	"github.com/agencykit/cms/pkg/interfaces"
)

// Service contracts re-exported for consumers of the cms package.
type (
	PageService     = pages.Service
	ProjectService  = projects.Service
	BlogService     = blog.Service
	OfferingService = services.Service
	FAQService      = faqs.Service
	QuoteService    = quotes.Service
	ProposalService = proposals.Service
	ContactService  = contact.Service
	SettingsService = settings.Service
)

// Commands bundles the admin command handlers wired to the module services.
// Hosts drive mutations through these instead of calling services directly
// when they want validation, timeouts, and telemetry around the operation.
type Commands struct {
	PublishContent      *commands.PublishContentHandler
	Templates           *commands.TemplateHandlers
	RecordQuoteActivity *commands.Handler[commands.RecordQuoteActivityCommand]
	ExportSubmissions   *commands.Handler[commands.ExportSubmissionsCommand]
}

// Module is the top level runtime façade: it owns the shared cache, the
// health monitor, and every domain service wired to one backend.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	backend  interfaces.Backend
	db       *bun.DB

	queryCache *querycache.Cache
	monitor    *health.Monitor
	api        *server.API

	pages     pages.Service
	projects  projects.Service
	blog      blog.Service
	offerings services.Service
	faqs      faqs.Service
	quotes    quotes.Service
	proposals proposals.Service
	contact   contact.Service
	settings  settings.Service
	payments  interfaces.CheckoutProvider

	commands *Commands
}

// Option overrides module wiring, mostly for hosts and tests.
type Option func(*Module)

// WithBackend injects a backend implementation instead of the hosted platform.
func WithBackend(be interfaces.Backend) Option {
	return func(m *Module) {
		m.backend = be
	}
}

// WithDB injects the bun database handle used for repositories and the
// hosted platform adapter.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithLoggerProvider injects a logger provider, bypassing the configured one.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// New constructs a module from configuration. Hosts that inject neither a
// backend nor a database get in-memory storage, which suits tests and local
// prototyping.
func New(cfg Config, opts ...Option) (*Module, error) {
	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	requireBackend := m.backend == nil && m.db != nil
	if err := cfg.Validate(requireBackend); err != nil {
		return nil, err
	}

	if err := m.configureLogging(); err != nil {
		return nil, err
	}
	if err := m.configureBackend(); err != nil {
		return nil, err
	}
	m.configureCache()
	if err := m.configureServices(); err != nil {
		return nil, err
	}
	m.configureCommands()
	m.configureHealth()

	return m, nil
}

func (m *Module) configureLogging() error {
	if m.provider != nil {
		return nil
	}
	switch m.cfg.Logging.Provider {
	case "noop":
		m.provider = nil
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     m.cfg.Logging.Level,
			Format:    m.cfg.Logging.Format,
			AddSource: m.cfg.Logging.AddSource,
			Focus:     m.cfg.Logging.Focus,
		})
		if err != nil {
			return err
		}
		m.provider = provider
		return nil
	}
}

func (m *Module) configureBackend() error {
	if m.backend != nil {
		return nil
	}
	if m.db == nil {
		m.backend = backend.NewMemory()
		return nil
	}
	platform, err := backend.NewPlatform(m.db, backend.Config{
		URL:        m.cfg.Backend.URL,
		ServiceKey: m.cfg.Backend.ServiceKey,
	})
	if err != nil {
		return err
	}
	m.backend = platform
	return nil
}

func (m *Module) configureCache() {
	cacheOpts := []querycache.Option{
		querycache.WithLogger(logging.CacheLogger(m.provider)),
	}
	if m.cfg.Cache.CleanupInterval > 0 {
		cacheOpts = append(cacheOpts, querycache.WithCleanupInterval(m.cfg.Cache.CleanupInterval))
	}
	m.queryCache = querycache.New(cacheOpts...)
}

func (m *Module) repositoryCache() (repocache.CacheService, repocache.KeySerializer) {
	if !m.cfg.Cache.Enabled || m.db == nil {
		return nil, nil
	}
	cfg := repocache.DefaultConfig()
	if m.cfg.Cache.DefaultTTL > 0 {
		cfg.TTL = m.cfg.Cache.DefaultTTL
	}
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		logging.CacheLogger(m.provider).Error("repository cache unavailable, caching disabled", "error", err)
		return nil, nil
	}
	return service, repocache.NewDefaultKeySerializer()
}

func (m *Module) configureServices() error {
	var (
		pageRepo     pages.Repository
		projectRepo  projects.Repository
		blogRepo     blog.Repository
		offeringRepo services.Repository
		faqRepo      faqs.Repository
		quoteRepo    quotes.Repository
		proposalRepo proposals.Repository
		contactRepo  contact.Repository
		settingStore settings.Store
	)

	if m.db != nil {
		cacheService, serializer := m.repositoryCache()
		pageRepo = pages.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		projectRepo = projects.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		blogRepo = blog.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		offeringRepo = services.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		faqRepo = faqs.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		quoteRepo = quotes.NewBunRepository(m.db)
		proposalRepo = proposals.NewBunRepositoryWithCache(m.db, cacheService, serializer)
		contactRepo = contact.NewBunRepository(m.db)
		settingStore = settings.NewBunStore(m.db)
	} else {
		pageRepo = pages.NewMemoryRepository()
		projectRepo = projects.NewMemoryRepository()
		blogRepo = blog.NewMemoryRepository()
		offeringRepo = services.NewMemoryRepository()
		faqRepo = faqs.NewMemoryRepository()
		quoteRepo = quotes.NewMemoryRepository()
		proposalRepo = proposals.NewMemoryRepository()
		contactRepo = contact.NewMemoryRepository()
		settingStore = settings.NewMemoryStore()
	}

	m.pages = pages.NewService(pageRepo)
	m.projects = projects.NewService(projectRepo)
	m.blog = blog.NewService(blogRepo)
	m.offerings = services.NewService(offeringRepo)
	m.faqs = faqs.NewService(faqRepo)
	m.quotes = quotes.NewService(quoteRepo)
	m.proposals = proposals.NewService(proposalRepo)
	m.contact = contact.NewService(contactRepo)

	settingsOpts := []settings.ServiceOption{
		settings.WithLogger(logging.SettingsLogger(m.provider)),
	}
	if m.cfg.Settings.TTL > 0 {
		settingsOpts = append(settingsOpts, settings.WithTTL(m.cfg.Settings.TTL))
	}
	m.settings = settings.NewService(settingStore, m.queryCache, settingsOpts...)

	provider, err := payments.NewProvider(
		m.cfg.Payments.Provider,
		m.backend.Functions(),
		logging.PaymentsLogger(m.provider),
	)
	if err != nil {
		return err
	}
	m.payments = provider
	return nil
}

func (m *Module) configureCommands() {
	logger := logging.CommandsLogger(m.provider)

	publishers := map[string]commands.PublishFunc{
		commands.KindPage: func(ctx context.Context, id uuid.UUID) error {
			_, err := m.pages.Publish(ctx, id)
			return err
		},
		commands.KindProject: func(ctx context.Context, id uuid.UUID) error {
			_, err := m.projects.Publish(ctx, id)
			return err
		},
		commands.KindBlogPost: func(ctx context.Context, id uuid.UUID) error {
			_, err := m.blog.Publish(ctx, id)
			return err
		},
		commands.KindService: func(ctx context.Context, id uuid.UUID) error {
			_, err := m.offerings.Publish(ctx, id)
			return err
		},
	}

	m.commands = &Commands{
		PublishContent:      commands.NewPublishContentHandler(publishers, logger),
		Templates:           commands.NewTemplateHandlers(m.proposals, logger),
		RecordQuoteActivity: commands.NewRecordQuoteActivityHandler(m.quotes, logger),
		ExportSubmissions:   commands.NewExportSubmissionsHandler(m.contact, logger),
	}
}

func (m *Module) configureHealth() {
	checkerOpts := []health.CheckerOption{}
	if m.cfg.Health.ProbeTimeout > 0 {
		checkerOpts = append(checkerOpts, health.WithProbeTimeout(m.cfg.Health.ProbeTimeout))
	}
	checker := health.NewChecker(m.backend, checkerOpts...)

	monitorOpts := []health.MonitorOption{
		health.WithMonitorLogger(logging.HealthLogger(m.provider)),
	}
	if m.cfg.Health.PollInterval > 0 {
		monitorOpts = append(monitorOpts, health.WithPollInterval(m.cfg.Health.PollInterval))
	}
	m.monitor = health.NewMonitor(checker, monitorOpts...)

	m.api = server.NewAPI(m.backend.Auth(), m.monitor,
		server.WithLogger(logging.ServerLogger(m.provider)),
		server.WithContactService(m.contact),
	)
}

// Start launches background work: the health monitor poll loop.
func (m *Module) Start(ctx context.Context) {
	m.monitor.Start(ctx)
}

// Stop halts background work and releases cache resources.
func (m *Module) Stop() {
	m.monitor.Stop()
	m.queryCache.Stop()
}

// Pages returns the page service.
func (m *Module) Pages() PageService { return m.pages }

// Projects returns the portfolio project service.
func (m *Module) Projects() ProjectService { return m.projects }

// Blog returns the blog service.
func (m *Module) Blog() BlogService { return m.blog }

// Offerings returns the service-offering catalogue service.
func (m *Module) Offerings() OfferingService { return m.offerings }

// FAQs returns the FAQ service.
func (m *Module) FAQs() FAQService { return m.faqs }

// Quotes returns the quote service.
func (m *Module) Quotes() QuoteService { return m.quotes }

// Proposals returns the proposal template service.
func (m *Module) Proposals() ProposalService { return m.proposals }

// Contact returns the contact submission service.
func (m *Module) Contact() ContactService { return m.contact }

// Settings returns the cached settings service.
func (m *Module) Settings() SettingsService { return m.settings }

// Commands returns the admin command handlers.
func (m *Module) Commands() *Commands { return m.commands }

// Payments returns the configured checkout provider.
func (m *Module) Payments() interfaces.CheckoutProvider { return m.payments }

// Health returns the health monitor.
func (m *Module) Health() *health.Monitor { return m.monitor }

// QueryCache returns the shared query cache.
func (m *Module) QueryCache() *querycache.Cache { return m.queryCache }

// Backend returns the platform bindings in use.
func (m *Module) Backend() interfaces.Backend { return m.backend }

// Handler returns the edge API handler (sanitize function and health).
func (m *Module) Handler() http.Handler { return m.api.Handler() }

// Logger returns a named module logger.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

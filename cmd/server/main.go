package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/agencykit/cms"
	"github.com/agencykit/cms/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	ctx := context.Background()

	cfg := cms.DefaultConfig()
	if addr := os.Getenv("AGENCY_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if addr := os.Getenv("AGENCY_EDGE_ADDR"); addr != "" {
		cfg.Server.EdgeAddr = addr
	}
	if level := os.Getenv("AGENCY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("AGENCY_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	cfg.Backend.URL = os.Getenv("AGENCY_BACKEND_URL")
	cfg.Backend.ServiceKey = os.Getenv("AGENCY_SERVICE_KEY")

	opts := []cms.Option{}
	dsn := os.Getenv("AGENCY_DB_DSN")
	if dsn != "" {
		db, err := openDatabase(dsn)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if err := applyMigrations(ctx, db); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		opts = append(opts, cms.WithDB(db))
	} else {
		log.Println("AGENCY_DB_DSN not set; running with in-memory storage")
	}

	module, err := cms.New(cfg, opts...)
	if err != nil {
		log.Fatalf("initialize module: %v", err)
	}

	module.Start(ctx)
	defer module.Stop()

	server := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			AppName: "Agency CMS",
		})
	})
	setupRoutes(server.Router(), module)

	log.Printf("starting server on %s", cfg.Server.Addr)
	go func() {
		if err := server.Serve(cfg.Server.Addr); err != nil {
			log.Printf("server error: %v", err)
		}
	}()

	// The edge surface (sanitize function, contact intake, health) is a plain
	// net/http handler, so it gets its own listener next to the fiber app.
	edge := &http.Server{
		Addr:    cfg.Server.EdgeAddr,
		Handler: module.Handler(),
	}
	log.Printf("starting edge api on %s", cfg.Server.EdgeAddr)
	go func() {
		if err := edge.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("edge api error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := edge.Shutdown(shutdownCtx); err != nil {
		log.Printf("edge api forced shutdown: %v", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

// openDatabase resolves the dialect from the DSN scheme: postgres URLs go
// through pgdriver, everything else is treated as a sqlite path.
func openDatabase(dsn string) (*bun.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// applyMigrations executes the embedded schema files in lexical order. The
// statements are idempotent so re-running on boot is safe.
func applyMigrations(ctx context.Context, db *bun.DB) error {
	migrations := cms.GetMigrationsFS()
	entries, err := fs.Glob(migrations, "data/sql/migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, entry := range entries {
		contents, err := fs.ReadFile(migrations, entry)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry, err)
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry, err)
		}
	}
	return nil
}

func setupRoutes(r router.Router[*fiber.App], module *cms.Module) {
	pageSvc := module.Pages()
	projectSvc := module.Projects()
	blogSvc := module.Blog()
	offeringSvc := module.Offerings()
	faqSvc := module.FAQs()
	settingsSvc := module.Settings()

	r.Get("/api/pages", func(ctx router.Context) error {
		records, err := pageSvc.List(ctx.Context())
		if err != nil {
			return err
		}
		out := make([]map[string]any, 0, len(records))
		for _, page := range records {
			if !page.CurrentStatus().IsPublished() {
				continue
			}
			out = append(out, map[string]any{
				"slug":         page.Slug,
				"title":        page.Title,
				"published_at": page.PublishedAt,
			})
		}
		return ctx.JSON(200, out)
	})

	r.Get("/api/pages/:slug", func(ctx router.Context) error {
		page, err := pageSvc.GetBySlug(ctx.Context(), ctx.Param("slug"))
		if err != nil {
			return ctx.JSON(404, map[string]string{"error": "page not found"})
		}
		if !page.CurrentStatus().IsPublished() {
			return ctx.JSON(404, map[string]string{"error": "page not found"})
		}
		return ctx.JSON(200, page)
	})

	r.Get("/api/projects", func(ctx router.Context) error {
		records, err := projectSvc.List(ctx.Context())
		if err != nil {
			return err
		}
		out := records[:0:0]
		for _, project := range records {
			if project.CurrentStatus().IsPublished() {
				out = append(out, project)
			}
		}
		return ctx.JSON(200, out)
	})

	r.Get("/api/projects/:slug", func(ctx router.Context) error {
		project, err := projectSvc.GetBySlug(ctx.Context(), ctx.Param("slug"))
		if err != nil || !project.CurrentStatus().IsPublished() {
			return ctx.JSON(404, map[string]string{"error": "project not found"})
		}
		images, err := projectSvc.Images(ctx.Context(), project.ID)
		if err != nil {
			return err
		}
		return ctx.JSON(200, map[string]any{
			"project": project,
			"images":  images,
		})
	})

	r.Get("/api/posts", func(ctx router.Context) error {
		records, err := blogSvc.List(ctx.Context())
		if err != nil {
			return err
		}
		out := records[:0:0]
		for _, post := range records {
			if post.CurrentStatus().IsPublished() {
				out = append(out, post)
			}
		}
		return ctx.JSON(200, out)
	})

	r.Get("/api/posts/:slug", func(ctx router.Context) error {
		post, err := blogSvc.GetBySlug(ctx.Context(), ctx.Param("slug"))
		if err != nil || !post.CurrentStatus().IsPublished() {
			return ctx.JSON(404, map[string]string{"error": "post not found"})
		}
		categories, err := blogSvc.Categories(ctx.Context(), post.ID)
		if err != nil {
			return err
		}
		return ctx.JSON(200, map[string]any{
			"post":       post,
			"categories": categories,
		})
	})

	r.Get("/api/services", func(ctx router.Context) error {
		records, err := offeringSvc.List(ctx.Context())
		if err != nil {
			return err
		}
		out := records[:0:0]
		for _, offering := range records {
			if offering.CurrentStatus().IsPublished() {
				out = append(out, offering)
			}
		}
		return ctx.JSON(200, out)
	})

	r.Get("/api/faqs", func(ctx router.Context) error {
		records, err := faqSvc.List(ctx.Context())
		if err != nil {
			return err
		}
		out := records[:0:0]
		for _, faq := range records {
			if domain.NormalizeStatus(faq.Status).IsPublished() {
				out = append(out, faq)
			}
		}
		return ctx.JSON(200, out)
	})

	r.Get("/api/contact-info", func(ctx router.Context) error {
		return ctx.JSON(200, settingsSvc.ContactInfo(ctx.Context()))
	})

	r.Get("/api/seo-defaults", func(ctx router.Context) error {
		return ctx.JSON(200, settingsSvc.SEODefaults(ctx.Context()))
	})
}

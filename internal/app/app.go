// Package app wires configuration into the store, the recipe form, the
// renderers and the HTTP handler shared by every command.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-recipes/internal/config"
	"github.com/goliatone/go-recipes/internal/cookies"
	"github.com/goliatone/go-recipes/internal/db"
	"github.com/goliatone/go-recipes/internal/flash"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/internal/server"
	"github.com/goliatone/go-recipes/internal/web"
	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/hybrid"
	"github.com/goliatone/go-recipes/pkg/render"
	"github.com/goliatone/go-recipes/pkg/render/template/gotemplate"
	"github.com/goliatone/go-recipes/pkg/uischema"
)

// App holds the long-lived collaborators built from Config.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Store     recipes.Store
	Schema    *uischema.Store
	Form      *forms.Form
	Engine    *gotemplate.Engine
	Adapter   *hybrid.Adapter
	Renderers *render.Registry

	pool *pgxpool.Pool
}

// New builds an App. With DATABASE_URL set the store is Postgres, otherwise
// recipes live in memory for the lifetime of the process.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	schema, err := loadSchema(cfg.UISchemaDir)
	if err != nil {
		return nil, err
	}
	a.Schema = schema

	if cfg.UseDatabase() {
		pool, err := db.Connect(ctx, db.Config{
			URL:           cfg.DatabaseURL,
			MaxConns:      cfg.DBMaxConns,
			RetryAttempts: cfg.DBRetryAttempts,
			RetryInterval: cfg.DBRetryInterval,
		})
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.Store = recipes.NewPostgresStore(pool)
	} else {
		logger.WarnContext(ctx, "DATABASE_URL not set, recipes are kept in memory")
		a.Store = recipes.NewMemoryStore()
	}

	if a.Form, err = recipes.NewForm(a.Store, schema); err != nil {
		a.Close()
		return nil, err
	}

	engineOpts := []gotemplate.Option{}
	if cfg.TemplatesDir != "" {
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.TemplatesDir))
	}
	engineOpts = append(engineOpts, gotemplate.WithFS(web.Templates()), gotemplate.WithFS(hybrid.Templates()))
	if a.Engine, err = gotemplate.New(engineOpts...); err != nil {
		a.Close()
		return nil, fmt.Errorf("app: template engine: %w", err)
	}
	if a.Adapter, err = hybrid.New(a.Engine, hybrid.WithTheme(schema.Theme(), cfg.ThemeVariant)); err != nil {
		a.Close()
		return nil, err
	}

	a.Renderers = render.NewRegistry()
	if err := a.Renderers.Register(a.Adapter); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Handler assembles the HTTP router. It needs SECRET_KEY for cookie
// signing.
func (a *App) Handler(ctx context.Context) (http.Handler, error) {
	if err := a.Config.ValidateServe(); err != nil {
		return nil, err
	}
	signer, err := cookies.NewSigner(a.Config.SecretKey, !a.Config.Debug)
	if err != nil {
		return nil, err
	}
	flashes := flash.New(signer)

	pages, err := web.New(a.Engine,
		web.WithFlash(flashes),
		web.WithTheme(a.Schema.Theme(), a.Config.ThemeVariant),
	)
	if err != nil {
		return nil, err
	}

	formConfig, _ := a.Schema.Form(recipes.FormName)
	handler, err := recipes.NewHandler(recipes.HandlerConfig{
		Store:    a.Store,
		Form:     a.Form,
		Renderer: a.Adapter,
		Pages:    pages,
		Flash:    flashes,
		Logger:   a.Logger,
		Schema:   formConfig,
	})
	if err != nil {
		return nil, err
	}
	api, err := recipes.NewAPI(ctx, a.Store, a.Form, a.Logger)
	if err != nil {
		return nil, err
	}

	var checks []func(context.Context) error
	if a.pool != nil {
		checks = append(checks, db.Healthcheck(a.pool))
	}
	return server.NewRouter(server.RouterConfig{
		Logger:  a.Logger,
		Signer:  signer,
		Recipes: handler,
		API:     api,
		Checks:  checks,
	})
}

// Migrate applies the schema migrations. It fails without DATABASE_URL.
func (a *App) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return errors.New("app: migrate: DATABASE_URL not set")
	}
	return db.Migrate(ctx, a.pool, a.Logger)
}

// Close releases the database pool.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

func loadSchema(dir string) (*uischema.Store, error) {
	files := uischema.EmbeddedFS()
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("app: ui schema dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("app: ui schema dir %q is not a directory", dir)
		}
		files = os.DirFS(dir)
	}
	return uischema.LoadFS(files)
}

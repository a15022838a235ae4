// Package bootstrap builds the application graph: storage, repositories,
// services, handlers, and the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/analyses"
	"lease-backend/internal/documents"
	"lease-backend/internal/export"
	"lease-backend/internal/llm"
	openai "lease-backend/internal/llm/openai"
	"lease-backend/internal/qa"
	"lease-backend/internal/shared/config"
	"lease-backend/internal/shared/server"
	"lease-backend/internal/shared/storage/db"
	"lease-backend/internal/shared/storage/object"
	localstore "lease-backend/internal/shared/storage/object/local"
	s3store "lease-backend/internal/shared/storage/object/s3"
	"lease-backend/internal/valuation"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	DocumentsRepo documents.DocumentsRepo
	AnalysesRepo  analyses.Repo
	QARepo        qa.Repo

	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	QAService        *qa.Service
	ValuationService *valuation.Service

	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	QAHandler        *qa.Handler
	ValuationHandler *valuation.Handler
	ExportHandler    *export.Handler
}

// Option overrides a dependency before services are wired. Tests inject a
// stub oracle this way.
type Option func(*App)

// WithLLM overrides the oracle client.
func WithLLM(client llm.Client) Option {
	return func(app *App) { app.LLM = client }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.LLM == nil {
		client, err := buildLLM(cfg)
		if err != nil {
			return nil, err
		}
		app.LLM = client
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentHandler:  app.DocumentsHandler,
		AnalysisHandler:  app.AnalysisHandler,
		QAHandler:        app.QAHandler,
		ValuationHandler: app.ValuationHandler,
		ExportHandler:    app.ExportHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "openai" {
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	}
	return llm.PlaceholderClient{}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.QARepo = &qa.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.QARepo = qa.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store: app.Store,
		Repo:  app.DocumentsRepo,
	}
	app.AnalysesService = &analyses.Service{
		Repo:     app.AnalysesRepo,
		Docs:     app.DocumentsService,
		LLM:      app.LLM,
		Provider: app.Config.LLMProvider,
		Model:    app.Config.LLMModel,
	}
	app.QAService = &qa.Service{
		Repo:     app.QARepo,
		Docs:     app.DocumentsService,
		Analyses: app.AnalysesService,
		LLM:      app.LLM,
	}
	app.ValuationService = &valuation.Service{
		Docs:     app.DocumentsService,
		Analyses: app.AnalysesService,
		LLM:      app.LLM,
	}

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService, app.Config.MaxUploadBytes)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)
	app.QAHandler = qa.NewHandler(app.QAService)
	app.ValuationHandler = valuation.NewHandler(app.ValuationService)
	app.ExportHandler = export.NewHandler(app.DocumentsService, app.AnalysesService, app.QAService, app.ValuationService)
}

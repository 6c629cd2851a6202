package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lwerth/INFO510-public/internal/adapters/otel"
	"github.com/lwerth/INFO510-public/internal/adapters/storage"
	"github.com/lwerth/INFO510-public/internal/adapters/turso"
	"github.com/lwerth/INFO510-public/internal/logging"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/runner"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB        *sql.DB
	Runs      ports.RunRepository
	Summaries ports.SummaryRepository
	Artifacts ports.ArtifactStore
	Exporter  ports.MetricsExporter
	Runner    *runner.Service
	Logger    zerolog.Logger
}

// NewAppContext creates an AppContext with all dependencies initialized.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	logger := logging.New(verbose)

	db, err := turso.NewDB()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	artifacts, err := storage.NewArtifactStorage()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize artifact storage: %w", err)
	}

	repos := turso.NewRepositories(db)
	exporter := newExporter(ctx, logger)

	return &AppContext{
		DB:        db,
		Runs:      repos.Runs,
		Summaries: repos.Summaries,
		Artifacts: artifacts,
		Exporter:  exporter,
		Runner:    runner.New(repos.Runs, repos.Summaries, artifacts, exporter, logger),
		Logger:    logger,
	}, nil
}

// newExporter builds the OTLP metrics exporter when telemetry is
// configured, environment first and config file second, and degrades
// to a no-op otherwise.
func newExporter(ctx context.Context, logger zerolog.Logger) ports.MetricsExporter {
	oc := otel.LoadConfig()
	if oc.Endpoint == "" && cfg.OtelEndpoint != "" {
		oc.Endpoint = cfg.OtelEndpoint
		oc.Insecure = cfg.OtelInsecure
		oc.Enabled = true
	}
	if !oc.Enabled || oc.Endpoint == "" {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, oc)
	if err != nil {
		logger.Warn().Err(err).Msg("metrics exporter disabled")
		return otel.NewNoOpExporter()
	}
	return exp
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Exporter != nil {
		if err := a.Exporter.Close(context.Background()); err != nil {
			a.Logger.Warn().Err(err).Msg("closing metrics exporter")
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// withApp runs fn with a fully wired AppContext and tears it down after.
func withApp(ctx context.Context, fn func(*AppContext) error) error {
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

// Command fiscalsim runs the reference demo server for the financial
// simulation engine: an in-memory PatternStore, an HTTP transport exposing
// run-control and progress-streaming endpoints, and — when PGSQL_URL is
// configured — a PostgreSQL-backed ResultSink with schema migrations
// applied on startup, grounded on the teacher's cmd/mma_backend/main.go
// wiring order (logger, config, database, migrations, router, serve).
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SscSPs/fiscalsim/internal/adapters/patternstore/memory"
	"github.com/SscSPs/fiscalsim/internal/adapters/resultstore/pgsql"
	"github.com/SscSPs/fiscalsim/internal/core/ports"
	"github.com/SscSPs/fiscalsim/internal/core/services"
	httptransport "github.com/SscSPs/fiscalsim/internal/transport/http"
	"github.com/SscSPs/fiscalsim/pkg/config"
	"github.com/SscSPs/fiscalsim/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	resultSink, closeDB := buildResultSink(cfg, logger)
	if closeDB != nil {
		defer closeDB()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := memory.New()
	registry := httptransport.NewBroadcastRegistryWithHeartbeat(cfg.HeartbeatInterval)
	container := services.NewContainer(store,
		services.WithProgressSink(registry),
		services.WithResultSink(resultSink),
	)

	handler := httptransport.NewSimulationHandler(container.Runner, store, registry)
	router, err := httptransport.Router(handler, logger, cfg.RateLimitFormat)
	if err != nil {
		logger.Error("failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildResultSink wires the PostgreSQL-backed ResultSink and applies
// pending migrations when PGSQL_URL is configured, falling back to the
// engine's no-op sink otherwise (the engine mandates no storage format
// beyond SimulationResults itself — spec §6 — so running without
// persistence is a supported mode for the demo).
func buildResultSink(cfg *config.Config, logger *slog.Logger) (ports.ResultSink, func()) {
	if cfg.DatabaseURL == "" {
		logger.Warn("PGSQL_URL not set; running without result persistence")
		return ports.NoopResultSink{}, nil
	}

	pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	return pgsql.NewResultSink(pool), func() { database.ClosePgxPool(pool) }
}

// runMigrations applies every pending migration under
// internal/adapters/resultstore/migrations, grounded on the teacher's
// sql.Open("pgx", …) + golang-migrate/database/postgres wiring.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer migrationDB.Close()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://internal/adapters/resultstore/migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("no new migrations to apply")
	} else {
		logger.Info("database migrations applied successfully")
	}
	return nil
}

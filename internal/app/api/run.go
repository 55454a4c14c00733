package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/clients/http/inventory"
	exportsmemory "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/memory"
	exportsobs "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/observability"
	exportspostgres "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/persistence/postgres"
	exportsstock "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/stock"
	exportsworkflows "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/workflows"
	exportsapp "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	exportsports "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/httpapi"
	platformobservability "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/observability"
	platformpostgres "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/postgres"
)

// Run boots the exports HTTP API with observability, repositories, the
// inventory gateway, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "exports-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}

	repo, cleanupRepo := buildExportRepository(ctx, cfg, logger)
	defer cleanupRepo()

	inventoryClient, err := inventory.NewClient(cfg.InventoryBaseURL, inventory.WithTimeout(cfg.InventoryTimeout))
	if err != nil {
		logger.Error("invalid inventory configuration", slog.String("error", err.Error()))
		return err
	}
	stockGateway := exportsstock.NewGateway(inventoryClient)
	logger.Info("inventory gateway configured",
		slog.String("base_url", cfg.InventoryBaseURL),
		slog.Duration("timeout", cfg.InventoryTimeout))

	coreService := exportsapp.NewService(repo, stockGateway, exportsapp.WithLogger(logger))
	exportService := exportsobs.New(
		coreService,
		exportsobs.WithLogger(logger),
		exportsobs.WithTracer(instruments.Tracer("internal.exports.application")),
		exportsobs.WithMeter(instruments.Meter("internal.exports.application")),
	)

	var orchestrator exportsports.WorkflowOrchestrator = exportsworkflows.NewInlineExportWorkflows(exportService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running creation saga inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = exportsworkflows.NewTemporalExportWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := httpapi.NewRouter(
		httpapi.NewExportsAPI(exportService, orchestrator),
		otelgin.Middleware(serviceName),
	)
	addr := ":" + cfg.Port
	logger.Info("exports API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("exports API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildExportRepository(ctx context.Context, cfg Config, logger *slog.Logger) (exportsports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory export repository")
		return exportsmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return exportsmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return exportsmemory.NewRepository(), func() {}
	}
	logger.Info("export repository configured with postgres")
	return exportspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/clients/http/inventory"
	exportsmemory "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/memory"
	exportspostgres "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/persistence/postgres"
	exportsstock "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/stock"
	exportsports "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
	platformobservability "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/observability"
	platformpostgres "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/postgres"
	exportactivities "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/activities/exports"
	exportworkflows "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/workflows/exports"
)

func main() {
	ctx := context.Background()
	const serviceName = "exports-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildExportRepository(ctx, logger)
	defer cleanupRepo()

	inventoryClient, err := inventory.NewClient(os.Getenv("INVENTORY_BASE_URL"), inventoryTimeoutOption(logger))
	if err != nil {
		logger.Error("invalid inventory configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	stockGateway := exportsstock.NewGateway(inventoryClient)
	activities := exportactivities.NewActivities(repo, stockGateway)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, exportworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(exportworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: exportworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.PrepareOrder, activity.RegisterOptions{Name: exportactivities.PrepareOrderActivityName})
	w.RegisterActivityWithOptions(activities.VerifyStock, activity.RegisterOptions{Name: exportactivities.VerifyStockActivityName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: exportactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(activities.CommitStock, activity.RegisterOptions{Name: exportactivities.CommitStockActivityName})
	w.RegisterActivityWithOptions(activities.CompensateOrder, activity.RegisterOptions{Name: exportactivities.CompensateOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", exportworkflows.OrderCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildExportRepository(ctx context.Context, logger *slog.Logger) (exportsports.Repository, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory export repository")
		return exportsmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return exportsmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return exportsmemory.NewRepository(), func() {}
	}
	logger.Info("worker export repository configured with postgres")
	return exportspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func inventoryTimeoutOption(logger *slog.Logger) inventory.Option {
	raw := strings.TrimSpace(os.Getenv("INVENTORY_TIMEOUT_SECONDS"))
	if raw == "" {
		return nil
	}
	seconds, err := time.ParseDuration(raw + "s")
	if err != nil || seconds <= 0 {
		logger.Warn("invalid INVENTORY_TIMEOUT_SECONDS, using default", slog.String("value", raw))
		return nil
	}
	return inventory.WithTimeout(seconds)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/spec-kit/provisioning-service/internal/api/http"
	"github.com/spec-kit/provisioning-service/internal/api/http/handlers"
	"github.com/spec-kit/provisioning-service/internal/auth"
	"github.com/spec-kit/provisioning-service/internal/config"
	"github.com/spec-kit/provisioning-service/internal/events"
	"github.com/spec-kit/provisioning-service/internal/observability"
	"github.com/spec-kit/provisioning-service/internal/persistence"
	"github.com/spec-kit/provisioning-service/internal/repository"
	"github.com/spec-kit/provisioning-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redisStore := persistence.NewRedis(cfg.Redis, logger)
	defer redisStore.Close()

	pool := postgres.PoolHandle()
	requestRepo := repository.NewRequestRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	tariffRepo := repository.NewTariffRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterLogSubscriber(dispatcher, logger)

	inventoryService := service.NewInventoryService(equipmentRepo, dispatcher)
	provisioningService := service.NewProvisioningService(service.ProvisioningDependencies{
		ContractRepo: contractRepo,
		Inventory:    inventoryService,
		Dispatcher:   dispatcher,
	})
	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo:  requestRepo,
		Provisioning: provisioningService,
		Dispatcher:   dispatcher,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	statusService := service.NewStatusService(statusRepo, redisStore, logger)
	catalogService := service.NewCatalogService(equipmentRepo, tariffRepo)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	httpapi.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httpapi.RegisterRoutes(app, httpapi.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Requests:       handlers.NewRequestsHandler(requestService),
		Contracts:      handlers.NewContractsHandler(provisioningService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Statuses:       handlers.NewStatusesHandler(statusService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.App.Addr()), zap.String("version", cfg.App.Version))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

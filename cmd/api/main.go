package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/swift-ticket/internal/api/http"
	"github.com/spec-kit/swift-ticket/internal/api/http/handlers"
	"github.com/spec-kit/swift-ticket/internal/auth"
	"github.com/spec-kit/swift-ticket/internal/config"
	"github.com/spec-kit/swift-ticket/internal/events"
	"github.com/spec-kit/swift-ticket/internal/notify"
	"github.com/spec-kit/swift-ticket/internal/observability"
	"github.com/spec-kit/swift-ticket/internal/persistence"
	"github.com/spec-kit/swift-ticket/internal/repository"
	"github.com/spec-kit/swift-ticket/internal/service"
	"github.com/spec-kit/swift-ticket/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	metrics := observability.NewMetrics()
	state, err := service.LoadState(ctx, service.StateDependencies{
		UnitRepo:    repository.NewUnitRepository(store, logger),
		UserRepo:    repository.NewUserRepository(store, logger),
		SessionRepo: repository.NewSessionRepository(store, logger),
		TicketRepo:  repository.NewTicketRepository(store, logger),
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		logger.Fatal("failed to load state", zap.Error(err))
	}

	notifier := worker.NewNotificationWorker(logger, cfg.Notification.QueueSize, cfg.Notification.Timeout(), buildSinks(cfg.Notification, logger)...)
	notifier.StartNotificationWorker()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, notifier).RegisterHandlers()

	authService := service.NewAuthService(*cfg, state, dispatcher)
	ticketService := service.NewTicketService(cfg.Ticket, state, dispatcher)
	directoryService := service.NewDirectoryService(cfg.Auth, state, dispatcher)
	dashboardService := service.NewDashboardService(cfg.Ticket, state)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	validator := handlers.NewValidator()
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, store),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Tickets:        handlers.NewTicketsHandler(ticketService, directoryService, validator),
		Admin:          handlers.NewAdminHandler(directoryService, validator),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
		Registry:       metrics.Registry(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := notifier.Stop(stopCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
}

func buildSinks(cfg config.NotificationConfig, logger *zap.Logger) []notify.Sink {
	var sinks []notify.Sink
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.WebhookURL, cfg.Timeout()))
		logger.Info("webhook notifications enabled")
	}
	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, notify.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic))
		logger.Info("kafka notifications enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	return sinks
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

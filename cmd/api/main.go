package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/withyou-admin/internal/api/http"
	"github.com/spec-kit/withyou-admin/internal/api/http/handlers"
	"github.com/spec-kit/withyou-admin/internal/auth"
	"github.com/spec-kit/withyou-admin/internal/config"
	"github.com/spec-kit/withyou-admin/internal/events"
	"github.com/spec-kit/withyou-admin/internal/observability"
	"github.com/spec-kit/withyou-admin/internal/persistence"
	"github.com/spec-kit/withyou-admin/internal/repository"
	"github.com/spec-kit/withyou-admin/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to connect document store", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Store.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	subscribeAuditLog(dispatcher, logger, metrics)

	registry := auth.NewSessionRegistry()
	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	registry.StartSweeper(cfg.Auth.SweepInterval(), stopSweeper, func(removed int) {
		logger.Info("session sweep", zap.Int("removed", removed))
	})

	limiter := auth.NewLoginLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	sessionService := service.NewSessionService(cfg.Auth, service.SessionDependencies{
		Registry:   registry,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	records := repository.NewRecordRepository(pg.PoolHandle(), logger, metrics)
	snapshotService := service.NewSnapshotService(records, dispatcher, logger)
	searchService := service.NewSearchService(records)

	authMiddleware := auth.NewMiddleware(sessionService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Admin:          handlers.NewAdminHandler(sessionService),
		Dashboard:      handlers.NewDashboardHandler(snapshotService, searchService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// subscribeAuditLog records session lifecycle and record consistency events.
// Payloads hold operational metadata only, so the audit log is safe for
// non-privileged viewers.
func subscribeAuditLog(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	audit := func(_ context.Context, event events.Event) error {
		logger.Info("audit",
			zap.String("event", string(event.Type)),
			zap.String("school_id", event.SchoolID),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventLoginFailed,
		events.EventSessionIssued,
		events.EventSessionExpired,
		events.EventSessionLoggedOut,
	} {
		dispatcher.Subscribe(eventType, audit)
	}

	dispatcher.Subscribe(events.EventInconsistentRecord, func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.InconsistentRecordPayload)
		if !ok {
			return audit(context.Background(), event)
		}
		logger.Warn("audit",
			zap.String("event", string(event.Type)),
			zap.String("school_id", event.SchoolID),
			zap.String("collection", payload.Collection),
			zap.String("reason", payload.Reason),
			zap.Int64("total_skipped", metrics.InconsistentRecords(payload.Collection)),
		)
		return nil
	})
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

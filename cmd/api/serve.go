package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/pureiot/support-service/internal/api/http"
	"github.com/pureiot/support-service/internal/api/http/handlers"
	"github.com/pureiot/support-service/internal/config"
	"github.com/pureiot/support-service/internal/events"
	"github.com/pureiot/support-service/internal/mail"
	"github.com/pureiot/support-service/internal/observability"
	"github.com/pureiot/support-service/internal/persistence"
	"github.com/pureiot/support-service/internal/ratelimit"
	"github.com/pureiot/support-service/internal/render"
	"github.com/pureiot/support-service/internal/repository"
	"github.com/pureiot/support-service/internal/repository/memory"
	"github.com/pureiot/support-service/internal/service"
	"github.com/pureiot/support-service/internal/worker"
)

// South African Standard Time, used when the zone database lacks the configured zone.
var sast = time.FixedZone("SAST", 2*60*60)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var store repository.Store
	if pg.Configured() {
		store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		store = memory.NewStore()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var limiter ratelimit.Limiter
	if redis.Configured() {
		limiter = ratelimit.NewRedisLimiter(redis.Client, "support:submit",
			ratelimit.Window{Duration: time.Minute, Max: cfg.Limits.SubmitPerMinute},
			ratelimit.Window{Duration: time.Hour, Max: cfg.Limits.SubmitPerHour},
		)
	}

	var sender mail.Sender
	if cfg.SMTP.Enabled() {
		sender = mail.NewSMTPSender(cfg.SMTP)
	} else {
		logger.Warn("SMTP_USER not provided; support emails will only be logged")
		sender = mail.NewLogSender(logger)
	}

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	notifier := service.NewNotificationService(sender, renderer, metrics, logger, service.NotificationConfig{
		From:         cfg.SMTP.From,
		SupportEmail: cfg.Support.Email,
		Location:     loadLocation(cfg.Support.TimeZone, logger),
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := httptransport.NewApp(httptransport.ServerConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		ProxyHeader:    cfg.App.ProxyHeader,
		TrustedProxies: cfg.App.TrustedProxies,
	}, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:     handlers.NewTicketsHandler(ticketService, cfg.App.BaseURL),
		Updates:     handlers.NewUpdateFormHandler(ticketService, renderer, logger),
		SubmitLimit: httptransport.SubmissionLimit(limiter, logger),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	return app.Shutdown()
}

func loadLocation(name string, logger *zap.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown time zone; falling back to SAST", zap.String("zone", name), zap.Error(err))
		return sast
	}
	return loc
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

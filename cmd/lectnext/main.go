package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Edinam27/lect-next/cmd/lectnext/cli"
	"github.com/Edinam27/lect-next/internal/academics"
	"github.com/Edinam27/lect-next/internal/app"
	"github.com/Edinam27/lect-next/internal/attendance"
	"github.com/Edinam27/lect-next/internal/audit"
	"github.com/Edinam27/lect-next/internal/auth"
	"github.com/Edinam27/lect-next/internal/authz"
	"github.com/Edinam27/lect-next/internal/notifications"
	"github.com/Edinam27/lect-next/internal/observability"
	"github.com/Edinam27/lect-next/internal/platform/cache"
	"github.com/Edinam27/lect-next/internal/platform/db"
	"github.com/Edinam27/lect-next/internal/reports"
	"github.com/Edinam27/lect-next/internal/shared"
	"github.com/Edinam27/lect-next/internal/users"
	"github.com/Edinam27/lect-next/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
				logger.Error("migrate", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Info("migrations applied")
			return
		case "jobs":
			if err := runJobsCommand(ctx, cfg, logger, os.Args[2:]); err != nil {
				logger.Error("jobs command", slog.Any("error", err))
				os.Exit(1)
			}
			return
		}
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
			logger.Error("migrate on start", slog.Any("error", err))
			os.Exit(1)
		}
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "lectnext_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	authzStore := authz.NewPGStore(dbpool)
	resolver := authz.NewResolver(authzStore, logger)
	evaluator := authz.NewEvaluator(resolver)
	metrics := observability.NewMetrics()
	gate := authz.Middleware{Evaluator: evaluator, Logger: logger, Metrics: metrics}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, gate)

	academicsRepo := academics.NewRepository(dbpool)
	academicsService := academics.NewService(academicsRepo, auditLogger)
	academicsHandler := academics.NewHandler(logger, academicsService, gate)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	attendanceRepo := attendance.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo, redisClient, idempotencyStore, auditLogger, jobClient, logger)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, gate, authzStore)

	notificationsRepo := notifications.NewRepository(dbpool)
	notificationsHandler := notifications.NewHandler(logger, notificationsRepo, gate)

	auditService := audit.NewService(dbpool)
	auditHandler := audit.NewHandler(logger, auditService, gate)

	reportsRepo := reports.NewRepository(dbpool)
	gotenberg := reports.NewGotenbergClient(cfg.GotenbergURL)
	pdfExporter, err := reports.NewPDFExporter(gotenberg)
	if err != nil {
		logger.Error("init pdf exporter", slog.Any("error", err))
		os.Exit(1)
	}
	reportsService := reports.NewService(reportsRepo, pdfExporter, logger)
	reportsHandler := reports.NewHandler(reportsService, gate, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		CSRFManager:          csrfManager,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		AcademicsHandler:     academicsHandler,
		AttendanceHandler:    attendanceHandler,
		NotificationsHandler: notificationsHandler,
		AuditHandler:         auditHandler,
		ReportsHandler:       reportsHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runJobsCommand(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) error {
	ops, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := ops.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
	}()

	if len(args) == 0 {
		return errors.New("usage: lectnext jobs <trigger NAME|stats>")
	}
	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return errors.New("usage: lectnext jobs trigger NAME")
		}
		info, err := ops.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		logger.Info("job enqueued", slog.String("task", info.Type), slog.String("id", info.ID))
		return nil
	case "stats":
		stats, err := ops.InspectQueue(ctx)
		if err != nil {
			return err
		}
		logger.Info("queue stats",
			slog.String("queue", stats.Queue),
			slog.Int("pending", stats.Pending),
			slog.Int("active", stats.Active),
			slog.Int("scheduled", stats.Scheduled),
			slog.Int("retry", stats.Retry))
		return nil
	default:
		return fmt.Errorf("unknown jobs command %q", args[0])
	}
}

// Package main - entry point for the I.E.P. Barton enrollment assistant API.
//
// The service is the conversational backend of the school's mobile app: a
// state-machine chatbot that guides parents through enrollment, receives
// documents, verifies enrollment status against the class lists and collects
// callback contacts for the admissions advisor.
//
// The layering follows Clean Architecture:
// - Domain: dialogue and roster business logic without external dependencies
// - Application: the dialogue engine and document intake
// - Infrastructure: Redis sessions, Postgres history/documents, disk storage
// - Interface: HTTP endpoints for the mobile client
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xavierdev25/barton-mobile-chatbot/config"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/application/engine"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/dialogue"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/persistence/memory"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/persistence/postgres"
	redisstore "github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/persistence/redis"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/rosterfile"
	"github.com/xavierdev25/barton-mobile-chatbot/internal/infrastructure/storage"
	httpserver "github.com/xavierdev25/barton-mobile-chatbot/internal/interface/http"
	"github.com/xavierdev25/barton-mobile-chatbot/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Barton enrollment assistant",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SESSION STORE (Redis, memory fallback in development)
	// ─────────────────────────────────────────────────────────────────────────
	var sessions dialogue.SessionStore
	var sessionCounter httpserver.Counter
	var redisClient *goredis.Client

	if cfg.Redis.Disabled {
		log.Warn("redis disabled, sessions are kept in memory")
		mem := memory.NewSessionStore()
		sessions, sessionCounter = mem, mem
	} else {
		log.Info("connecting to Redis...")
		redisCfg := redisstore.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout
		redisCfg.SessionTTL = cfg.Redis.SessionTTL

		redisClient, err = redisstore.Connect(redisCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection...")
			_ = redisClient.Close()
		}()

		store := redisstore.NewSessionStore(redisClient, cfg.Redis.SessionTTL)
		sessions, sessionCounter = store, store
		log.Info("Redis connection established")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HISTORY & DOCUMENT STORES (Postgres, memory fallback)
	// ─────────────────────────────────────────────────────────────────────────
	var history dialogue.HistoryStore
	var documents dialogue.DocumentStore
	var historyCounter, documentCounter httpserver.Counter
	var dbConn *postgres.Connection

	if cfg.Database.Enabled() {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		log.Info("database connection established")

		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		historyRepo := postgres.NewHistoryRepo(dbConn)
		documentRepo := postgres.NewDocumentRepo(dbConn)
		history, historyCounter = historyRepo, historyRepo
		documents, documentCounter = documentRepo, documentRepo
	} else {
		log.Warn("no database configured, history and documents are kept in memory")
		memHistory := memory.NewHistoryStore()
		memDocuments := memory.NewDocumentStore()
		history, historyCounter = memHistory, memHistory
		documents, documentCounter = memDocuments, memDocuments
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. STUDENT ROSTER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("loading student roster...")
	loader := rosterfile.NewLoader(log)

	var students roster.Slice
	if len(cfg.Roster.Files) > 0 {
		students, err = loader.LoadFiles(cfg.Roster.Files)
	} else {
		students, err = loader.LoadDir(cfg.Roster.Dir)
	}
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	if len(students) == 0 {
		log.Warn("roster is empty, verification will find no students",
			logger.String("dir", cfg.Roster.Dir))
	} else {
		log.Info("roster loaded", logger.Int("students", len(students)))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. DOCUMENT INTAKE
	// ─────────────────────────────────────────────────────────────────────────
	files, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	policy := engine.DefaultUploadPolicy()
	policy.MaxFileSize = cfg.Uploads.MaxFileSize
	intake := engine.NewDocumentIntake(documents, files, policy, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. DIALOGUE ENGINE
	// ─────────────────────────────────────────────────────────────────────────
	catalog := buildCatalog(cfg.Enrollment)

	eng := engine.New(engine.Options{
		Sessions: sessions,
		History:  history,
		Intake:   intake,
		Catalog:  catalog,
		Logger:   log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.MaxMessageLength = cfg.HTTP.MaxMessageLength
	httpConfig.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpServer := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		Engine:          eng,
		Sessions:        sessions,
		History:         history,
		Documents:       documents,
		Roster:          students,
		Catalog:         catalog,
		SessionCounter:  sessionCounter,
		HistoryCounter:  historyCounter,
		DocumentCounter: documentCounter,
		Logger:          log,
		HealthChecker: &healthChecker{
			db:       dbConn,
			redis:    redisClient,
			students: len(students),
		},
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 9. START & GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("Barton enrollment assistant is running",
		logger.String("address", httpServer.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger builds the structured logger from configuration.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// buildCatalog maps the enrollment configuration onto the engine catalog.
// Every configured grade shares the standard document list.
func buildCatalog(cfg config.EnrollmentConfig) engine.Catalog {
	catalog := engine.DefaultCatalog()
	catalog.Year = cfg.Year
	catalog.Costs = roster.Costs{
		Enrollment:         cfg.EnrollmentFee,
		MonthlyInstallment: cfg.MonthlyInstallment,
	}
	catalog.Institution = engine.Institution{
		Name:    cfg.InstitutionName,
		Address: cfg.InstitutionAddress,
		Phone:   cfg.InstitutionPhone,
		Hours:   cfg.InstitutionHours,
	}

	if len(cfg.Grades) > 0 {
		requirements := make(map[string]string, len(cfg.Grades))
		for _, grade := range cfg.Grades {
			if req, ok := catalog.Requirements[grade]; ok {
				requirements[grade] = req
			} else {
				requirements[grade] = catalog.Requirements[catalog.Grades[0]]
			}
		}
		catalog.Grades = cfg.Grades
		catalog.Requirements = requirements
	}

	return catalog
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// healthChecker probes the backing services for /health and /ready.
// Nil backends count as healthy: the memory fallbacks cannot fail.
type healthChecker struct {
	db       *postgres.Connection
	redis    *goredis.Client
	students int
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	status := httpserver.HealthStatus{
		Healthy:    true,
		Ready:      true,
		Components: map[string]string{},
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status.Healthy = false
			status.Ready = false
			status.Message = "database unreachable"
			status.Components["database"] = err.Error()
		} else {
			status.Components["database"] = "ok"
		}
	} else {
		status.Components["database"] = "memory"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status.Healthy = false
			status.Ready = false
			status.Message = "redis unreachable"
			status.Components["redis"] = err.Error()
		} else {
			status.Components["redis"] = "ok"
		}
	} else {
		status.Components["redis"] = "memory"
	}

	status.Components["roster"] = fmt.Sprintf("%d students", h.students)
	return status
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	governanceapp "github.com/colony/backend/internal/application/governance"
	housingapp "github.com/colony/backend/internal/application/housing"
	residencyapp "github.com/colony/backend/internal/application/residency"
	"github.com/colony/backend/internal/domain/residency"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/cache"
	"github.com/colony/backend/internal/infrastructure/config"
	"github.com/colony/backend/internal/infrastructure/event"
	"github.com/colony/backend/internal/infrastructure/identity"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/infrastructure/migration"
	"github.com/colony/backend/internal/infrastructure/persistence"
	"github.com/colony/backend/internal/infrastructure/telemetry"
	"github.com/colony/backend/internal/interfaces/http/handler"
	"github.com/colony/backend/internal/interfaces/http/middleware"
	"github.com/colony/backend/internal/interfaces/http/router"
	"github.com/colony/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Bootstrap logger until the OTLP log bridge exists
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logsProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting colony registry",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileCPU:      cfg.Telemetry.SpanProfilesEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.SpanProfilesEnabled && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := prepareSchema(&cfg.Database, db, log); err != nil {
		log.Fatal("Failed to prepare schema", zap.Error(err))
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		DBSystem:        cfg.Database.Driver,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	var httpMeter metric.Meter
	if meterProvider.IsEnabled() {
		httpMeter = meterProvider.Meter("github.com/colony/backend/http")
	}
	registryMetrics, err := telemetry.NewRegistryMetrics(meterProvider.Meter("github.com/colony/backend"))
	if err != nil {
		log.Fatal("Failed to create registry metrics", zap.Error(err))
	}

	catalog, err := config.LoadRoleCatalog(cfg.Governance.CatalogFile)
	if err != nil {
		log.Fatal("Failed to load role catalog", zap.Error(err))
	}
	clock := shared.SystemClock{Location: cfg.App.Location()}

	identities, err := newIdentityStore(cfg.Identity, db, clock)
	if err != nil {
		log.Fatal("Failed to configure identity store", zap.Error(err))
	}

	// Repositories
	houseRepo := persistence.NewGormHouseRepository(db.DB)
	bearerRepo := persistence.NewGormOfficeBearerRepository(db.DB)
	profileRepo := persistence.NewGormTenantProfileRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Event bus with the audit trail as its only subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditTrailHandler(auditRepo))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	houseService := housingapp.NewHouseService(housingapp.HouseServiceConfig{
		Repository:     houseRepo,
		EventPublisher: eventBus,
		Clock:          clock,
		Metrics:        registryMetrics,
		Logger:         log,
	})
	registryService := governanceapp.NewBearerRegistryService(governanceapp.BearerRegistryServiceConfig{
		Repository:     bearerRepo,
		Catalog:        catalog,
		EventPublisher: eventBus,
		Clock:          clock,
		Metrics:        registryMetrics,
		Logger:         log,
	})
	provisioningService := residencyapp.NewTenantProvisioningService(residencyapp.TenantProvisioningServiceConfig{
		Houses:         houseService,
		Identities:     identities,
		Profiles:       profileRepo,
		Credentials:    residency.NewCredentialSynthesizer(cfg.Identity.ShadowEmailDomain, clock, nil),
		EventPublisher: eventBus,
		Clock:          clock,
		Metrics:        registryMetrics,
		Logger:         log,
	})

	checks := map[string]handler.ReadinessCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var idempotency shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotency, err = cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		if pinger, ok := idempotency.(interface{ Ping(context.Context) error }); ok {
			checks["redis"] = pinger.Ping
		}
		defer func() {
			if closer, ok := idempotency.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
		}()
	}

	var writeLimiter *middleware.RateLimiter
	if cfg.HTTP.WriteRateLimit > 0 {
		writeLimiter = middleware.NewRateLimiter(cfg.HTTP.WriteRateLimit, cfg.HTTP.WriteRateWindow, clock)
		defer writeLimiter.Stop()
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:           log,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   tracerProvider.IsEnabled(),
		Meter:            httpMeter,
		ProfilingEnabled: profiler.IsEnabled(),
		CORS:             cors,
		Security:         middleware.DefaultSecurityConfig(),
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		Idempotency:      idempotency,
		IdempotencyTTL:   cfg.Idempotency.TTL,
		WriteLimiter:     writeLimiter,
	}, router.Handlers{
		House:      handler.NewHouseHandler(houseService),
		Governance: handler.NewGovernanceHandler(registryService),
		Tenant:     handler.NewTenantHandler(provisioningService),
		Audit:      handler.NewAuditHandler(auditRepo),
		System:     handler.NewSystemHandler(version, checks),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log exporter", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// prepareSchema migrates postgres with the embedded migrations and creates
// the sqlite tables in place. Migrations run outside the gorm pool.
func prepareSchema(cfg *config.DatabaseConfig, db *persistence.Database, log *zap.Logger) error {
	if db.Driver == config.DriverSQLite {
		return persistence.EnsureSQLiteSchema(db.DB)
	}
	return migration.Apply(cfg.DSN(), migrations.FS, log)
}

func newIdentityStore(cfg config.IdentityConfig, db *persistence.Database, clock shared.Clock) (residency.IdentityStore, error) {
	if cfg.Provider == config.IdentityProviderGoTrue {
		store, err := identity.NewGoTrueStore(identity.GoTrueConfig{
			BaseURL:    cfg.GoTrueURL,
			ServiceKey: cfg.ServiceKey,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return identity.NewLocalStore(db.DB, clock), nil
}

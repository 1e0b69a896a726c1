package router

import (
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/interfaces/http/handler"
	"github.com/colony/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups served by the engine
type Handlers struct {
	House      *handler.HouseHandler
	Governance *handler.GovernanceHandler
	Tenant     *handler.TenantHandler
	Audit      *handler.AuditHandler
	System     *handler.SystemHandler
}

// EngineConfig holds the cross-cutting settings of the HTTP stack
type EngineConfig struct {
	Logger           *zap.Logger
	ServiceName      string
	TracingEnabled   bool
	Meter            metric.Meter // nil disables HTTP metrics
	ProfilingEnabled bool
	CORS             middleware.CORSConfig
	Security         middleware.SecurityConfig
	MaxBodySize      int64
	TrustedProxies   []string

	// Idempotency guards POST /tenants; nil disables the guard
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
	// WriteLimiter throttles write endpoints per client; nil disables it
	WriteLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain and every route:
//
//	GET    /health, /ready
//	       /api/v1/houses        list, create, summary, get, update, delete
//	       /api/v1/governance    roles, roster, bearers, role active/members/tenure
//	       /api/v1/tenants       provision, list
//	GET    /api/v1/audit
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
		SkipPaths:   []string{"/health", "/ready"},
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.Profiling(cfg.ProfilingEnabled))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	write := writeGuards(cfg)
	provision := append(append([]gin.HandlerFunc{}, write...), idempotencyGuard(cfg, log)...)

	houses := NewDomainGroup("housing", "/houses")
	houses.GET("", h.House.List)
	houses.POST("", with(write, h.House.Create)...)
	houses.GET("/summary", h.House.Summary)
	houses.GET("/:id", h.House.GetByID)
	houses.PUT("/:id", with(write, h.House.Update)...)
	houses.DELETE("/:id", with(write, h.House.Delete)...)

	governance := NewDomainGroup("governance", "/governance")
	governance.GET("/roles", h.Governance.Roles)
	governance.GET("/roster", h.Governance.Roster)
	governance.POST("/bearers", with(write, h.Governance.Appoint)...)
	governance.DELETE("/bearers/:id", with(write, h.Governance.Remove)...)
	roles := governance.Group("roles", "/roles/:role")
	roles.GET("/active", h.Governance.Active)
	roles.GET("/members", h.Governance.Members)
	roles.GET("/tenure", h.Governance.Tenure)

	tenants := NewDomainGroup("residency", "/tenants")
	tenants.POST("", with(provision, h.Tenant.Provision)...)
	tenants.GET("", h.Tenant.List)

	auditLog := NewDomainGroup("audit", "/audit")
	auditLog.GET("", h.Audit.Latest)

	NewRouter(engine).
		Register(houses).
		Register(governance).
		Register(tenants).
		Register(auditLog).
		Setup()

	return engine, nil
}

func writeGuards(cfg EngineConfig) []gin.HandlerFunc {
	if cfg.WriteLimiter == nil {
		return nil
	}
	return []gin.HandlerFunc{middleware.RateLimit(cfg.WriteLimiter)}
}

func idempotencyGuard(cfg EngineConfig, log *zap.Logger) []gin.HandlerFunc {
	if cfg.Idempotency == nil {
		return nil
	}
	return []gin.HandlerFunc{middleware.IdempotencyKey(cfg.Idempotency, cfg.IdempotencyTTL, log)}
}

func with(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}

// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduforge-api/internal/config"
	"eduforge-api/internal/interfaces/http/handler"
	"eduforge-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health    *handler.HealthHandler
	Catalog   *handler.CatalogHandler
	Project   *handler.ProjectHandler
	Progress  *handler.ProgressHandler
	Wizard    *handler.WizardHandler
	Dashboard *handler.DashboardHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	limiter  middleware.RateLimiter
}

// New 创建路由器，limiter 为空时不限流
func New(cfg *config.Config, handlers *Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置全局中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	tenant := r.cfg.Security.Tenant
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
		ScopeHeaders:   []string{tenant.HeaderName, tenant.UserHeaderName},
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Tracing(r.cfg.App.Name)...)
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.metricsPath(), "/health", "/ready", "/live"))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	tenant := r.cfg.Security.Tenant
	v1 := r.engine.Group("/v1")
	v1.Use(middleware.Tenant(middleware.TenantConfig{
		HeaderName:      tenant.HeaderName,
		UserHeaderName:  tenant.UserHeaderName,
		DefaultTenantID: tenant.DefaultTenantID,
	}))
	v1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
	}, r.limiter))

	catalog := v1.Group("/catalog")
	{
		catalog.GET("/stages", h.Catalog.ListStages)
		catalog.GET("/wizard-steps", h.Catalog.ListWizardSteps)
	}

	v1.GET("/dashboard", h.Dashboard.GetDashboard)

	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.GET("/:pid", h.Project.GetProject)
		projects.PUT("/:pid", h.Project.UpdateProject)
		projects.DELETE("/:pid", h.Project.DeleteProject)
		projects.PUT("/:pid/pipeline-status", h.Project.UpdatePipelineStatus)

		projects.GET("/:pid/progress", h.Progress.GetProgress)
		projects.GET("/:pid/continue", h.Progress.Continue)
		projects.POST("/:pid/stages/:stage/select", h.Progress.SelectStage)
	}

	sessions := v1.Group("/wizard-sessions")
	{
		sessions.POST("", h.Wizard.StartSession)
		sessions.GET("/:sid", h.Wizard.GetSession)
		sessions.DELETE("/:sid", h.Wizard.CancelSession)
		sessions.POST("/:sid/advance", h.Wizard.Advance)
		sessions.POST("/:sid/retreat", h.Wizard.Retreat)
		sessions.POST("/:sid/complete", h.Wizard.Complete)
	}
}

func (r *Router) metricsPath() string {
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return "/metrics"
}

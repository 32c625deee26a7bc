// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/config"
	"github.com/divyansh01440/nirvana-agency/internal/handler"
	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth      *handler.AuthHandler
	Recovery  *handler.RecoveryHandler
	Bookings  *handler.BookingHandler
	Queries   *handler.QueryHandler
	Reviews   *handler.ReviewHandler
	Projects  *handler.ProjectHandler
	Analytics *handler.AnalyticsHandler
	Admin     *handler.AdminHandler
	Ready     echo.HandlerFunc
}

// Options configures the route-level middleware.  A nil Redis client
// disables caching and recovery rate limiting.
type Options struct {
	JWTSecret         string
	Redis             *redis.Client
	Cache             config.CacheConfig
	RecoveryRateLimit config.RateLimitConfig
	Log               *zap.Logger

	// Purge clears cached public responses after a successful write.  Nil
	// builds it from Cache and Redis.
	Purge echo.MiddlewareFunc
}

func (o Options) purge() echo.MiddlewareFunc {
	if o.Purge != nil {
		return o.Purge
	}
	return middleware.InvalidateOnWrite(o.Cache, o.Redis, o.Log)
}

// Register mounts every route group.
func Register(e *echo.Echo, h Handlers, opt Options) {
	RegisterRoutes(e, h.Ready)
	RegisterAuth(e, h.Auth, opt)
	RegisterRecovery(e, h.Recovery, opt)
	RegisterResources(e, h, opt)
	RegisterAdmin(e, h.Admin, opt)
}

// RegisterRoutes registers the probes.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
}

// RegisterAuth registers session routes under /v1/auth and the caller's
// profile under /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, opt Options) {
	optional := middleware.OptionalJWTAuth(opt.JWTSecret)

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)              // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess) // keeps the refresh token
	g.POST("/logout", a.Logout, optional)      // bearer without body token revokes all sessions

	e.GET("/v1/me", a.Me, optional)
	// approved reviews carry the author's name
	e.PUT("/v1/me/profile", a.UpdateProfile, middleware.JWTAuth(opt.JWTSecret), opt.purge())
}

// RegisterRecovery registers the password reset flow behind its own,
// stricter rate limiter.
func RegisterRecovery(e *echo.Echo, r *handler.RecoveryHandler, opt Options) {
	g := e.Group("/v1/password-reset", middleware.NewTokenBucket(opt.RecoveryRateLimit, opt.Redis, opt.Log))
	g.POST("/request", r.Request)
	g.POST("/token", r.Token)
	g.POST("/verify", r.Verify)
	g.POST("/complete", r.Complete)
}

// RegisterResources registers bookings, queries, reviews, projects and
// analytics.  Reads that need a role use the optional JWT so the service
// can answer with an empty, denied result; writes need a token.
func RegisterResources(e *echo.Echo, h Handlers, opt Options) {
	optional := middleware.OptionalJWTAuth(opt.JWTSecret)
	strict := middleware.JWTAuth(opt.JWTSecret)
	cache := middleware.NewRedisCache(opt.Cache, opt.Redis)
	purge := opt.purge()

	b := e.Group("/v1/bookings")
	b.POST("", h.Bookings.Create, strict)
	b.GET("/mine", h.Bookings.Mine, optional)
	b.GET("", h.Bookings.List, optional)
	b.GET("/stats", h.Bookings.Stats, optional)
	b.PATCH("/:id/status", h.Bookings.UpdateStatus, strict)

	q := e.Group("/v1/queries")
	q.POST("", h.Queries.Create, optional) // anonymous senders allowed
	q.GET("", h.Queries.List, optional)
	q.GET("/stats", h.Queries.Stats, optional)
	q.PATCH("/:id/status", h.Queries.UpdateStatus, strict)

	r := e.Group("/v1/reviews")
	r.GET("/approved", h.Reviews.Approved, cache)
	r.GET("/eligible-bookings", h.Reviews.Eligible, optional)
	r.GET("", h.Reviews.List, optional)
	r.POST("", h.Reviews.Create, strict)
	r.PATCH("/:id/approval", h.Reviews.SetApproval, strict, purge)

	p := e.Group("/v1/projects")
	p.GET("", h.Projects.List, cache)
	p.POST("", h.Projects.Create, strict, purge)
	p.PATCH("/:id", h.Projects.Update, strict, purge)
	p.DELETE("/:id", h.Projects.Remove, strict, purge)

	a := e.Group("/v1/analytics")
	a.POST("/page-view", h.Analytics.PageView)
	a.POST("/visitor", h.Analytics.Visitor)
	a.GET("/stats", h.Analytics.Stats, optional)
	a.GET("/total", h.Analytics.Total, optional)
}

// RegisterAdmin registers user management.  The role check here rejects
// non-admin tokens early; the service checks the stored role again.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, opt Options) {
	g := e.Group("/v1/admin", middleware.JWTAuth(opt.JWTSecret), middleware.RequireRole(string(model.RoleAdmin)))
	g.GET("/users", a.Users)
	g.PATCH("/users/:id/role", a.SetRole)
	g.DELETE("/users/:id", a.DeleteUser, opt.purge()) // cascades to the user's reviews
}

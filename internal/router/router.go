package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/handler"
	"github.com/iliyamo/learning-platform/internal/middleware"
)

// RegisterPublic registers the unauthenticated read endpoints. The course
// catalogue sits behind the Redis response cache when one is configured.
func RegisterPublic(e *echo.Echo, ch *handler.CourseHandler, th *handler.TemplateHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cached := middleware.ResponseCache(cacheCfg, rdb)
	e.GET("/courses", ch.List, cached)
	e.GET("/courses/:id", ch.Get, cached)
	e.GET("/courses/:id/lessons", ch.ListLessons, cached)
	e.GET("/templates", th.List, cached)
}

// RegisterAuth registers registration and login under /auth. These are the
// brute-forceable endpoints, so the rate limiter mounts here.
func RegisterAuth(e *echo.Echo, ah *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/auth", middleware.RateLimit(rlCfg, rdb))
	g.POST("/register", ah.Register)
	g.POST("/login", ah.Login)
}

// RegisterProtected registers every endpoint that needs a verified
// session. The Authenticate middleware reloads the user row per request,
// so role changes take effect immediately.
func RegisterProtected(
	e *echo.Echo,
	v *auth.Verifier,
	ah *handler.AuthHandler,
	ch *handler.CourseHandler,
	eh *handler.EnrollHandler,
	ph *handler.ProgressHandler,
	mh *handler.ChatHandler,
) {
	g := e.Group("", middleware.Authenticate(v))

	g.POST("/auth/logout", ah.Logout)
	g.GET("/auth/me", ah.Me)

	g.POST("/courses", ch.Create)
	g.PUT("/courses/:id", ch.Update)
	g.DELETE("/courses/:id", ch.Delete)
	g.POST("/courses/:id/lessons", ch.CreateLesson)

	g.POST("/courses/:id/enroll", eh.Enroll)
	g.GET("/enrollments", eh.List)

	g.GET("/progress", ph.Get)
	g.POST("/progress", ph.Post)

	g.GET("/chat", mh.Get)
	g.POST("/chat", mh.Post)
}

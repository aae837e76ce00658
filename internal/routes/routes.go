package routes

import (
	"net/http"

	"safespace_backend/internal/handlers"
	"safespace_backend/internal/logger"
	"safespace_backend/internal/middleware"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the whole HTTP surface: the public auth routes, the
// session-protected routes, and the health probe.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *token.Service,
	users repositories.UserRepository,
	roles repositories.RoleRepository,
	rdb *redis.Client,
) {
	ginRouter.GET("/health", healthHandler(rdb))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
	}

	protected := ginRouter.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(tokens, users, roles))
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
		appHandlers.ProfileHandler.RegisterRoutes(protected)
	}

	logger.Info("HTTP routes registered")
}

// healthHandler reports liveness plus the state of the token store. A dead
// Redis degrades the report but still answers 200 so orchestration restarts
// are driven by the process, not a dependency blip.
func healthHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisStatus := "ok"
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"redis":  redisStatus,
		})
	}
}

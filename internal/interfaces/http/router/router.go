// Package router assembles the gin engine, its middleware chain and all
// API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/cabinet/backend/internal/application/identity"
	"github.com/cabinet/backend/internal/infrastructure/auth"
	"github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/cabinet/backend/internal/infrastructure/logger"
	"github.com/cabinet/backend/internal/interfaces/http/handler"
	"github.com/cabinet/backend/internal/interfaces/http/middleware"
)

// Handlers groups the API handlers wired into the router
type Handlers struct {
	Auth      *handler.AuthHandler
	Documents *handler.DocumentHandler
	Review    *handler.ReviewHandler
	Tenants   *handler.TenantHandler
	Users     *handler.UserHandler
	System    *handler.SystemHandler
}

// New builds the gin engine with the full middleware chain and routes.
//
// Everything under /api/v1 except /auth/login requires a valid token;
// role checks happen in the application layer, not in routing.
func New(
	cfg *config.Config,
	log *zap.Logger,
	jwtService *auth.JWTService,
	authService *identityapp.AuthService,
	handlers Handlers,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handlers.System.Health)

	api := engine.Group("/api/v1")
	api.POST("/auth/login", handlers.Auth.Login)

	authenticated := api.Group("")
	authenticated.Use(middleware.Auth(jwtService, authService, log))
	{
		authenticated.GET("/auth/me", handlers.Auth.Me)

		documents := authenticated.Group("/documents")
		{
			documents.POST("", handlers.Documents.Create)
			documents.GET("", handlers.Documents.List)
			documents.GET("/:id", handlers.Documents.Get)
			documents.GET("/:id/download", handlers.Documents.Download)
			documents.PUT("/:id/file", handlers.Documents.ReplaceFile)
			documents.DELETE("/:id", handlers.Documents.Delete)
		}

		review := authenticated.Group("/review")
		{
			review.GET("/documents/pending", handlers.Review.ListPending)
			review.POST("/documents/:id/approve", handlers.Review.Approve)
			review.POST("/documents/:id/reject", handlers.Review.Reject)
		}

		tenants := authenticated.Group("/tenants")
		{
			tenants.POST("", handlers.Tenants.Create)
			tenants.GET("", handlers.Tenants.List)
			tenants.GET("/:id", handlers.Tenants.Get)
			tenants.POST("/:id/activate", handlers.Tenants.Activate)
			tenants.POST("/:id/deactivate", handlers.Tenants.Deactivate)
		}

		users := authenticated.Group("/users")
		{
			users.POST("", handlers.Users.Create)
			users.GET("", handlers.Users.List)
			users.GET("/:id", handlers.Users.Get)
			users.POST("/:id/activate", handlers.Users.Activate)
			users.POST("/:id/deactivate", handlers.Users.Deactivate)
		}
	}

	return engine
}

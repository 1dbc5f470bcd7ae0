package router

import (
	"time"

	"watchlist/config"
	"watchlist/internal/cache"
	"watchlist/internal/handler"
	"watchlist/internal/middleware"
	"watchlist/internal/repository"
	"watchlist/internal/service"
	"watchlist/internal/ws"
	"watchlist/pkg/tmdb"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the collaborators Setup does not build from config itself. Nil fields
// get defaults: a TMDB client, no cache, a fresh hub and limiter.
type Dependencies struct {
	Catalog service.CatalogProvider
	Cache   cache.Cache
	Hub     *ws.Hub
	Limiter *middleware.InMemoryRateLimiter
}

func Setup(cfg *config.Config, db *gorm.DB, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Catalog == nil {
		deps.Catalog = tmdb.NewClient(tmdb.Config{
			BaseURL:           cfg.Catalog.BaseURL,
			APIKey:            cfg.Catalog.APIKey,
			ReadToken:         cfg.Catalog.ReadToken,
			Timeout:           cfg.Catalog.Timeout.Duration,
			RequestsPerSecond: cfg.Catalog.RequestsPerS,
		})
	}
	if deps.Hub == nil {
		deps.Hub = ws.NewHub()
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewInMemoryRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, 10*time.Minute)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	favRepo := repository.NewFavoriteRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	favSvc := service.NewFavoriteService(favRepo, deps.Hub)
	catalogSvc := service.NewCatalogService(deps.Catalog, deps.Cache, cfg.Catalog.CacheTTL.Duration, cfg.Catalog.ImageBaseURL)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	favHandler := handler.NewFavoriteHandler(favSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	healthHandler := handler.NewHealthHandler(db)

	r.GET("/healthz", healthHandler.Live)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/ws/favorites", ws.ServeFavorites(cfg, deps.Hub))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(deps.Limiter))
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/signin", authHandler.Signin)
		authGroup.GET("/me", middleware.AuthRequired(&cfg.JWT), authHandler.Me)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(&cfg.JWT))
		{
			favorites := protected.Group("/favorites")
			favorites.POST("", favHandler.Create)
			favorites.GET("", favHandler.List)
			favorites.GET("/:id", favHandler.Get)
			favorites.PUT("/:id", favHandler.Replace)
			favorites.PATCH("/:id", favHandler.Patch)
			favorites.DELETE("/:id", favHandler.Delete)

			movies := protected.Group("/movies")
			movies.GET("/search", catalogHandler.Search)
			movies.GET("/details/:id", catalogHandler.Details)
		}
	}
	return r
}

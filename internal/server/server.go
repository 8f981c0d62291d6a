// Package server wires the store, services and handlers into one gin engine.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Deps are the external resources the server runs on. Redis is optional.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images storage.ImageStore
	Log    *logger.Logger
}

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	db      *gorm.DB
	metrics *observability.Metrics
	log     *logger.Logger
}

// New builds the engine with every route registered.
func New(cfg *config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	gin.SetMode(cfg.Environment.GinMode())
	metrics := observability.NewMetrics()

	router := gin.New()
	router.Use(
		middleware.ErrorHandler(log),
		middleware.RequestLogger(log),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	st := store.New(deps.DB, log, store.WithShortHashLength(cfg.ShortHashLength))
	auth := service.NewAuthService(st, cfg.JWTSecret, log)
	relations := make([]service.IRelationService, 0, len(model.RelationKinds))
	for _, kind := range model.RelationKinds {
		relations = append(relations, service.NewRelationService(st, kind, metrics, log))
	}

	var limiter *middleware.RateLimiter
	if deps.Redis != nil && cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewWriteRateLimiter(deps.Redis, cfg.RateLimitPerMinute, log)
	}

	api.SetupAPI(router, &api.Services{
		Auth:          auth,
		Profiles:      service.NewProfileService(st, deps.Images, log),
		Subscriptions: service.NewSubscriptionService(st, metrics, log),
		Catalog:       service.NewCatalogService(st, log),
		Recipes:       service.NewRecipeService(st, deps.Images, log),
		Relations:     relations,
		ShoppingList:  service.NewShoppingListService(st, metrics),
		ShortLinks:    service.NewShortLinkService(st, metrics),
	}, api.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		RateLimiter:   limiter,
		Log:           log,
	})
	if mem, ok := deps.Images.(*storage.MemoryStore); ok {
		api.RegisterMediaRoutes(router, mem)
	}

	s := &Server{cfg: cfg, router: router, db: deps.DB, metrics: metrics, log: log.With("component", "server")}
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return s
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.log.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "up"})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// NewImageStore picks S3 when a bucket is configured and process memory
// otherwise.
func NewImageStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.ImageStore, error) {
	if cfg.S3Bucket != "" {
		return storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL, log)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = "http://" + cfg.Addr()
	}
	return storage.NewMemoryStore(base), nil
}

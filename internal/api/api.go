package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth          service.IAuthService
	Profiles      service.IProfileService
	Subscriptions service.ISubscriptionService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Relations     []service.IRelationService
	ShoppingList  service.IShoppingListService
	ShortLinks    service.IShortLinkService
}

type Options struct {
	PublicBaseURL string
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	Log         *logger.Logger
}

// SetupAPI mounts /api/v1 and the short link redirect on router.
func SetupAPI(router *gin.Engine, svc *Services, opts Options) {
	RegisterValidators()
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuth(svc.Auth))
	if opts.RateLimiter != nil {
		v1.Use(opts.RateLimiter.RateLimitMiddleware())
	}
	{
		NewAuthHandler(svc.Auth, log).RegisterRoutes(v1)
		NewUserHandler(svc.Profiles, svc.Subscriptions, svc.Auth, log).RegisterRoutes(v1)
		NewCatalogHandler(svc.Catalog, log).RegisterRoutes(v1)
		NewRecipeHandler(svc.Recipes, svc.Relations, svc.ShoppingList, svc.ShortLinks, svc.Auth, opts.PublicBaseURL, log).RegisterRoutes(v1)
	}
	NewShortLinkHandler(svc.ShortLinks, log).RegisterRoutes(router)
}

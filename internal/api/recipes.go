package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes       service.IRecipeService
	relations     []service.IRelationService
	shopping      service.IShoppingListService
	shortLinks    service.IShortLinkService
	auth          middleware.TokenValidator
	publicBaseURL string
	log           *logger.Logger
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	relations []service.IRelationService,
	shopping service.IShoppingListService,
	shortLinks service.IShortLinkService,
	auth middleware.TokenValidator,
	publicBaseURL string,
	log *logger.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		relations:     relations,
		shopping:      shopping,
		shortLinks:    shortLinks,
		auth:          auth,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", requireAuth, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		for _, rel := range h.relations {
			path := "/:id/" + rel.Kind().String()
			recipes.POST(path, requireAuth, h.addRelation(rel))
			recipes.DELETE(path, requireAuth, h.removeRelation(rel))
		}
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := queryPage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	q := &types.RecipeQuery{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
		Limit:            page.Limit,
		Offset:           page.Offset,
	}
	if raw := c.Query("author"); raw != "" {
		author, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("author must be a user id"))
			return
		}
		q.AuthorID = &author
	}
	out, err := h.recipes.List(c.Request.Context(), viewer(c), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.recipes.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.recipes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(rel service.IRelationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		out, err := rel.Add(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func (h *RecipeHandler) removeRelation(rel service.IRelationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := caller(c)
		if !ok {
			return
		}
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			// nothing can be related to an id that names no recipe
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "nothing to remove", Code: "not_found"})
			return
		}
		if err := rel.Remove(c.Request.Context(), userID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	text, err := h.shopping.Export(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	path, err := h.shortLinks.Link(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: h.baseURL(c) + path})
}

// baseURL prefers the configured public URL and falls back to the request's
// scheme and host.
func (h *RecipeHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host
}

// ShortLinkHandler resolves /s/<hash>/ to the recipe it names.
type ShortLinkHandler struct {
	shortLinks service.IShortLinkService
	log        *logger.Logger
}

func NewShortLinkHandler(shortLinks service.IShortLinkService, log *logger.Logger) *ShortLinkHandler {
	return &ShortLinkHandler{shortLinks: shortLinks, log: log}
}

func (h *ShortLinkHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET(shortlink.Path(":hash"), h.Resolve)
}

func (h *ShortLinkHandler) Resolve(c *gin.Context) {
	recipe, err := h.shortLinks.Resolve(c.Request.Context(), c.Param("hash"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/api/v1/recipes/"+recipe.ID.String())
}

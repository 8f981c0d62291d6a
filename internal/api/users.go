package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	profiles      service.IProfileService
	subscriptions service.ISubscriptionService
	auth          middleware.TokenValidator
	log           *logger.Logger
}

func NewUserHandler(profiles service.IProfileService, subscriptions service.ISubscriptionService, auth middleware.TokenValidator, log *logger.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, subscriptions: subscriptions, auth: auth, log: log}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", requireAuth, h.Me)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.PUT("/me/avatar", requireAuth, h.SetAvatar)
		users.DELETE("/me/avatar", requireAuth, h.DeleteAvatar)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := queryPage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.profiles.ListUsers(c.Request.Context(), viewer(c), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.profiles.GetProfile(c.Request.Context(), viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.profiles.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ref, err := h.profiles.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: ref})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	if err := h.profiles.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.profiles.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	page, err := queryPage(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	recipesLimit, err := queryInt(c, "recipes_limit", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.subscriptions.ListSubscriptions(c.Request.Context(), userID, page, recipesLimit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipesLimit, err := queryInt(c, "recipes_limit", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID, recipesLimit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

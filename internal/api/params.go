package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/store"
)

const maxPageLimit = 100

// pathID parses a uuid path parameter. Malformed ids cannot name any row,
// so they answer 404.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: "not_found"})
		return uuid.Nil, false
	}
	return id, true
}

// viewer returns the authenticated caller or nil.
func viewer(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

// caller is for routes behind AuthMiddleware.
func caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "unauthorized"})
	}
	return id, ok
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func queryPage(c *gin.Context) (store.Page, error) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return store.Page{}, err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return store.Page{}, err
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return store.Page{Limit: limit, Offset: offset}, nil
}

func queryBool(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

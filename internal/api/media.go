package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/storage"
)

// RegisterMediaRoutes serves images kept by a MemoryStore under /media.
func RegisterMediaRoutes(router gin.IRoutes, images *storage.MemoryStore) {
	router.GET("/media/*key", func(c *gin.Context) {
		img, ok := images.Get(c.Param("key"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: "not_found"})
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, img.ContentType, img.Data)
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a service error to an HTTP status and a stable code.
// A missing relation on removal stays 400 so clients can tell it apart from
// an unknown recipe or author only by code.
func statusFor(err error) (int, string) {
	if cv, ok := store.AsViolation(err); ok {
		return http.StatusBadRequest, string(cv.Kind)
	}
	switch {
	case errors.Is(err, store.ErrNothingToRemove):
		return http.StatusBadRequest, "not_found"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrAlreadyExists):
		return http.StatusBadRequest, "already_exists"
	case errors.Is(err, store.ErrConstraint):
		return http.StatusBadRequest, "constraint"
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "invalid_credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, storage.ErrInvalidImage):
		return http.StatusBadRequest, "invalid_image"
	}
	return http.StatusInternalServerError, "internal"
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
}

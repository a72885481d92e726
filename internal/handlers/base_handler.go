package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/utils"
)

type ErrorResponse = models.ErrorResponse

// BaseHandler carries the logging and error-mapping shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLogger(c, h.logger)
}

// LogRequest logs an incoming request with its route.
func (h *BaseHandler) LogRequest(c *gin.Context, message string, args ...any) {
	args = append(args, "method", c.Request.Method, "path", c.FullPath())
	h.log(c).Debug(message, args...)
}

// LogError logs a failed request with the underlying error.
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, args ...any) {
	args = append(args, "error", err, "method", c.Request.Method, "path", c.FullPath())
	h.log(c).Error(message, args...)
}

func (h *BaseHandler) respondError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}

// handleServiceError maps service errors to HTTP responses. Unknown errors are
// logged and reported as a bare 500.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		h.respondError(c, http.StatusBadRequest, "Validation failed", services.ValidationDetails(err))
	case errors.Is(err, services.ErrBadRequest):
		h.respondError(c, http.StatusBadRequest, capitalize(strings.TrimSuffix(err.Error(), ": "+services.ErrBadRequest.Error())), nil)
	case errors.Is(err, services.ErrUserNotFound):
		h.respondError(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, services.ErrProfileNotFound):
		h.respondError(c, http.StatusNotFound, "Career profile not found", nil)
	case errors.Is(err, services.ErrFileNotFound):
		h.respondError(c, http.StatusNotFound, "File not found", nil)
	case errors.Is(err, services.ErrProfileExists):
		h.respondError(c, http.StatusConflict, "Career profile already exists. Use PUT to update.", nil)
	case errors.Is(err, services.ErrEmailTaken):
		h.respondError(c, http.StatusConflict, "Email is already in use", nil)
	case errors.Is(err, services.ErrFileTooLarge):
		h.respondError(c, http.StatusRequestEntityTooLarge, "File too large", nil)
	case errors.Is(err, services.ErrUnsupportedFileType):
		h.respondError(c, http.StatusBadRequest, "Unsupported file type", nil)
	default:
		h.LogError(c, err, "Request failed")
		h.respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/httputil"
	"github.com/persistorai/netgraph/internal/metrics"
	"github.com/persistorai/netgraph/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeDataUnavailable  = "data_unavailable"
	ErrCodeUserNotFound     = "user_not_found"
	ErrCodeNoPath           = "no_path"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeInternalError    = "internal_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// handleServiceError maps service errors onto status codes. Unclassified
// errors are logged and reported without detail.
func handleServiceError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		respondError(c, http.StatusNotFound, ErrCodeUserNotFound, err.Error())
	case errors.Is(err, models.ErrNoPath):
		respondError(c, http.StatusNotFound, ErrCodeNoPath, err.Error())
	case errors.Is(err, models.ErrDataUnavailable):
		respondError(c, http.StatusNotFound, ErrCodeDataUnavailable, err.Error())
	case errors.Is(err, models.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("api.store_unavailable")
		respondError(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "data store unavailable")
	default:
		log.WithError(err).Error("api.internal_error")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

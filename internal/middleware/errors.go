package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/netgraph/internal/httputil"
	"github.com/persistorai/netgraph/internal/metrics"
)

// respondError counts the error and delegates to httputil.RespondError.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

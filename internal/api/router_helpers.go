package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/middleware"
)

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// maxTop caps the top query parameter.
const maxTop = 1000

// parseDays reads the optional days query parameter. Absent means the
// configured window; range checks are left to the service.
func parseDays(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("days")
	if !ok || raw == "" {
		return domain.ConfiguredWindow, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("days must be an integer, got %q", raw)
	}

	return v, nil
}

// parseTop reads the optional top query parameter, clamped to maxTop.
func parseTop(c *gin.Context) (int, error) {
	raw := c.Query("top")
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("top must be a non-negative integer, got %q", raw)
	}

	return min(v, maxTop), nil
}

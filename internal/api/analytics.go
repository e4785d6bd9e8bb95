package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalyticsHandler serves the graph and activity endpoints.
type AnalyticsHandler struct {
	svc AnalyticsRepository
	log *logrus.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(svc AnalyticsRepository, log *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// Social handles GET /graph/social.
func (h *AnalyticsHandler) Social(c *gin.Context) {
	res, err := h.svc.SocialNetwork(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Messages handles GET /graph/messages.
func (h *AnalyticsHandler) Messages(c *gin.Context) {
	days, err := parseDays(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	res, err := h.svc.MessageActivity(c.Request.Context(), days)
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Centrality handles GET /graph/centrality.
func (h *AnalyticsHandler) Centrality(c *gin.Context) {
	days, err := parseDays(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	res, err := h.svc.Centrality(c.Request.Context(), days)
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// PageRank handles GET /graph/pagerank.
func (h *AnalyticsHandler) PageRank(c *gin.Context) {
	days, err := parseDays(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	top, err := parseTop(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	res, err := h.svc.PageRank(c.Request.Context(), days, top)
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// HITS handles GET /graph/hits.
func (h *AnalyticsHandler) HITS(c *gin.Context) {
	days, err := parseDays(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	res, err := h.svc.HITS(c.Request.Context(), days)
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Communities handles GET /graph/communities.
func (h *AnalyticsHandler) Communities(c *gin.Context) {
	res, err := h.svc.Communities(c.Request.Context(), c.Query("user"))
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Path handles GET /graph/path.
func (h *AnalyticsHandler) Path(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		respondError(c, http.StatusBadRequest, ErrCodeBadRequest, "from and to are required")
		return
	}

	res, err := h.svc.ShortestPath(c.Request.Context(), from, to)
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// TimeSeries handles GET /timeseries.
func (h *AnalyticsHandler) TimeSeries(c *gin.Context) {
	res, err := h.svc.TimeSeries(c.Request.Context(), c.Query("window"))
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Behavior handles GET /users/behavior.
func (h *AnalyticsHandler) Behavior(c *gin.Context) {
	res, err := h.svc.UserBehavior(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// FriendDistribution handles GET /users/friend-distribution.
func (h *AnalyticsHandler) FriendDistribution(c *gin.Context) {
	res, err := h.svc.FriendDistribution(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

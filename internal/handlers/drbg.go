package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
)

const (
	defaultReseedPage = 50
	maxReseedPage     = 500
)

// Status handles GET /api/v1/drbg/status.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.gen.Status())
}

// Reseed handles POST /api/v1/drbg/reseed by pulling a fresh seed now.
func (h *Handler) Reseed(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx, "handlers")
	if err := h.gen.Reseed(ctx, rng.ReasonManual); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reseed failed: " + err.Error()})
		return
	}
	l.Info("manual reseed", "operator", c.GetString("operator_username"))
	c.JSON(http.StatusOK, h.gen.Status())
}

// ListReseeds handles GET /api/v1/drbg/reseeds?limit=N, newest first.
func (h *Handler) ListReseeds(c *gin.Context) {
	limit := defaultReseedPage
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxReseedPage {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(maxReseedPage)})
			return
		}
		limit = v
	}
	evs, err := h.store.ListReseeds(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, evs)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RandomBytes handles GET /api/v1/random?nbytes=N with N raw bytes.
// A missing nbytes serves an empty body.
func (h *Handler) RandomBytes(c *gin.Context) {
	n := 0
	if s, ok := c.GetQuery("nbytes"); ok {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > h.maxRequestBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nbytes must be between 0 and " + strconv.Itoa(h.maxRequestBytes)})
			return
		}
		n = v
	}

	out, err := h.gen.Generate(c.Request.Context(), n*8)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generator unavailable"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/octet-stream", out)
}

// RandomUint32 handles GET /api/v1/random/uint32.
func (h *Handler) RandomUint32(c *gin.Context) {
	v, err := h.gen.Uint32()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generator unavailable"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"value": v})
}

// RandomInt handles GET /api/v1/random/int?max=M with a uniform value in [0, M).
func (h *Handler) RandomInt(c *gin.Context) {
	max, err := strconv.Atoi(c.Query("max"))
	if err != nil || max < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max must be a positive integer"})
		return
	}
	v, err := h.gen.Intn(max)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generator unavailable"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"value": v, "max": max})
}

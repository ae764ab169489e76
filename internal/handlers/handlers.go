// Package handlers exposes a Generator over HTTP with gin.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ArowuTest/ctrdrbg/internal/auth"
	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/models"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
	"github.com/ArowuTest/ctrdrbg/internal/store"
)

// Handler carries the dependencies of every route.
type Handler struct {
	store           store.Store
	gen             *rng.Generator
	auth            *auth.Issuer
	maxRequestBytes int
}

// New returns a Handler. maxRequestBytes bounds GET /random and is capped at
// rng.MaxBytesPerRequest.
func New(s store.Store, gen *rng.Generator, iss *auth.Issuer, maxRequestBytes int) *Handler {
	if maxRequestBytes <= 0 || maxRequestBytes > rng.MaxBytesPerRequest {
		maxRequestBytes = rng.MaxBytesPerRequest
	}
	return &Handler{store: s, gen: gen, auth: iss, maxRequestBytes: maxRequestBytes}
}

// Register mounts every route under /api/v1.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/v1")

	random := api.Group("/random")
	{
		random.GET("", h.RandomBytes)
		random.GET("/uint32", h.RandomUint32)
		random.GET("/int", h.RandomInt)
	}

	api.POST("/admin/login", h.Login)

	ops := api.Group("/admin/operators", h.RequireAuth(models.RoleAdmin))
	{
		ops.POST("", h.CreateOperator)
		ops.GET("", h.ListOperators)
		ops.GET("/:id", h.GetOperator)
		ops.PUT("/:id", h.UpdateOperator)
		ops.DELETE("/:id", h.DeleteOperator)
	}

	d := api.Group("/drbg")
	{
		d.GET("/status", h.RequireAuth(), h.Status)
		d.POST("/reseed", h.RequireAuth(models.RoleAdmin, models.RoleOperator), h.Reseed)
		d.GET("/reseeds", h.RequireAuth(), h.ListReseeds)
	}
}

// RequestLogger logs each request and stores l in the request context.
func RequestLogger(l logr.Logger) gin.HandlerFunc {
	l = l.WithName("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(log.ContextWithLogger(c.Request.Context(), l))
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			l.Error(c.Errors.Last(), "request failed", kv...)
			return
		}
		if status >= http.StatusInternalServerError {
			l.Info("request failed", kv...)
			return
		}
		l.V(1).Info("request", kv...)
	}
}

type operatorKey struct{}

func withOperator(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, operatorKey{}, id)
}

func operatorFrom(ctx context.Context) *uuid.UUID {
	id, ok := ctx.Value(operatorKey{}).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// ReseedRecorder returns a reseed hook that writes an audit row for every
// instantiate and reseed. Manual reseeds carry the requesting operator.
// Outcomes are logged to the logger carried by the hook's context.
func ReseedRecorder(s store.Store) func(context.Context, rng.ReseedInfo) {
	return func(ctx context.Context, info rng.ReseedInfo) {
		l := log.FromContext(ctx, "audit")
		ev := &models.ReseedEvent{
			GeneratorID: info.GeneratorID,
			Reason:      info.Reason,
			PrevCounter: info.PrevCounter,
			OperatorID:  operatorFrom(ctx),
			At:          info.At,
		}
		if err := s.RecordReseed(ctx, ev); err != nil {
			l.Error(err, "cannot record reseed", "generator", info.GeneratorID, "reason", info.Reason)
			return
		}
		l.V(1).Info("reseed recorded", "generator", info.GeneratorID, "reason", info.Reason, "prev_counter", info.PrevCounter)
	}
}

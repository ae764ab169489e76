package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/ctrdrbg/internal/auth"
	"github.com/ArowuTest/ctrdrbg/internal/entropy"
	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/models"
	"github.com/ArowuTest/ctrdrbg/internal/rng"
	"github.com/ArowuTest/ctrdrbg/internal/store"
)

type brokenStore struct {
	store.Store
}

func (brokenStore) RecordReseed(context.Context, *models.ReseedEvent) error {
	return errors.New("connection refused")
}

func TestReseedRecorderLogsToContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := log.ContextWithLogger(context.Background(), log.NewLogger(&buf, 0))

	ReseedRecorder(brokenStore{})(ctx, rng.ReseedInfo{GeneratorID: uuid.New(), Reason: rng.ReasonInterval, At: time.Now()})
	assert.Contains(t, buf.String(), "cannot record reseed")
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), "audit")
}

func TestReseedRecorderStoresOperator(t *testing.T) {
	st := store.NewMemory()
	op := uuid.New()
	ctx := withOperator(context.Background(), op)

	ReseedRecorder(st)(ctx, rng.ReseedInfo{GeneratorID: uuid.New(), Reason: rng.ReasonManual, PrevCounter: 7, At: time.Now()})

	evs, err := st.ListReseeds(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.NotNil(t, evs[0].OperatorID)
	assert.Equal(t, op, *evs[0].OperatorID)
	assert.Equal(t, uint64(7), evs[0].PrevCounter)
}

func TestRequestLoggerReachesHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := log.NewLogger(&buf, 0)

	src, err := entropy.NewFixed(zeroSeed, zeroSeed)
	require.NoError(t, err)
	st := store.NewMemory()
	gen, err := rng.New(context.Background(), src, rng.WithOnReseed(ReseedRecorder(st)))
	require.NoError(t, err)
	iss, err := auth.New("test-secret", 0)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestLogger(logger))
	New(st, gen, iss, 0).Register(r)
	e := &env{router: r, store: st, gen: gen}
	admin := e.admin(t)

	w := e.do(t, http.MethodPost, "/api/v1/admin/login", "", gin.H{"username": "root", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, buf.String(), "failed login")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drbg/reseed", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "manual reseed")
	assert.Contains(t, buf.String(), `"operator"="root"`)
}

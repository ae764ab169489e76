package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/ctrdrbg/internal/models"
)

func TestMemoryOperators(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	bob := &models.Operator{Username: "bob", PasswordHash: "x", Role: models.RoleOperator}
	require.NoError(t, m.CreateOperator(ctx, bob))
	assert.NotEqual(t, uuid.Nil, bob.ID)
	assert.Equal(t, models.StatusActive, bob.Status)

	alice := &models.Operator{Username: "alice", PasswordHash: "y", Role: models.RoleAdmin}
	require.NoError(t, m.CreateOperator(ctx, alice))

	assert.ErrorIs(t, m.CreateOperator(ctx, &models.Operator{Username: "bob"}), ErrDuplicate)

	got, err := m.FindOperatorByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	_, err = m.FindOperatorByUsername(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)

	ops, err := m.ListOperators(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "alice", ops[0].Username)

	bob.Role = models.RoleAuditor
	require.NoError(t, m.UpdateOperator(ctx, bob))
	got, err = m.GetOperator(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuditor, got.Role)

	bob.Username = "alice"
	assert.ErrorIs(t, m.UpdateOperator(ctx, bob), ErrDuplicate)
	assert.ErrorIs(t, m.UpdateOperator(ctx, &models.Operator{ID: uuid.New()}), ErrNotFound)

	require.NoError(t, m.DeleteOperator(ctx, bob.ID))
	assert.ErrorIs(t, m.DeleteOperator(ctx, bob.ID), ErrNotFound)

	n, err := m.CountOperators(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryReseeds(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	gen := uuid.New()
	start := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.RecordReseed(ctx, &models.ReseedEvent{
			GeneratorID: gen,
			Reason:      "interval",
			PrevCounter: uint64(i),
			At:          start.Add(time.Duration(i) * time.Second),
		}))
	}

	evs, err := m.ListReseeds(ctx, 3)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, uint64(4), evs[0].PrevCounter)
	assert.Equal(t, uint64(2), evs[2].PrevCounter)
	assert.NotEqual(t, uuid.Nil, evs[0].ID)

	evs, err = m.ListReseeds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, evs, 5)
}

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ArowuTest/ctrdrbg/internal/models"
)

// Memory is a Store held in process memory. It is used when no database is
// configured; its contents are lost on restart.
type Memory struct {
	mu        sync.RWMutex
	operators map[uuid.UUID]models.Operator
	reseeds   []models.ReseedEvent
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{operators: make(map[uuid.UUID]models.Operator)}
}

// CreateOperator stores op, assigning an id and the Active status when unset.
func (m *Memory) CreateOperator(_ context.Context, op *models.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.operators {
		if o.Username == op.Username {
			return ErrDuplicate
		}
	}
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	if op.Status == "" {
		op.Status = models.StatusActive
	}
	now := time.Now()
	op.CreatedAt, op.UpdatedAt = now, now
	m.operators[op.ID] = *op
	return nil
}

// GetOperator returns a copy of the operator with id.
func (m *Memory) GetOperator(_ context.Context, id uuid.UUID) (*models.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	op, ok := m.operators[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &op, nil
}

// FindOperatorByUsername returns a copy of the operator named username.
func (m *Memory) FindOperatorByUsername(_ context.Context, username string) (*models.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, op := range m.operators {
		if op.Username == username {
			op := op
			return &op, nil
		}
	}
	return nil, ErrNotFound
}

// ListOperators returns every operator ordered by username.
func (m *Memory) ListOperators(_ context.Context) ([]models.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ops := make([]models.Operator, 0, len(m.operators))
	for _, op := range m.operators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Username < ops[j].Username })
	return ops, nil
}

// UpdateOperator replaces the stored operator with op.
func (m *Memory) UpdateOperator(_ context.Context, op *models.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.operators[op.ID]; !ok {
		return ErrNotFound
	}
	for id, o := range m.operators {
		if id != op.ID && o.Username == op.Username {
			return ErrDuplicate
		}
	}
	op.UpdatedAt = time.Now()
	m.operators[op.ID] = *op
	return nil
}

// DeleteOperator removes the operator with id.
func (m *Memory) DeleteOperator(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.operators[id]; !ok {
		return ErrNotFound
	}
	delete(m.operators, id)
	return nil
}

// CountOperators returns the number of operators.
func (m *Memory) CountOperators(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.operators)), nil
}

// RecordReseed appends ev to the audit trail.
func (m *Memory) RecordReseed(_ context.Context, ev *models.ReseedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	m.reseeds = append(m.reseeds, *ev)
	return nil
}

// ListReseeds returns up to limit events, newest first. A limit of 0 returns all.
func (m *Memory) ListReseeds(_ context.Context, limit int) ([]models.ReseedEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.reseeds)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.ReseedEvent, 0, n)
	for i := len(m.reseeds) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.reseeds[i])
	}
	return out, nil
}

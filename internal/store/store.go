// Package store persists operators and the reseed audit trail.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ArowuTest/ctrdrbg/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("store: duplicate record")
)

// Store is implemented by Gorm and Memory.
type Store interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	GetOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error)
	FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
	ListOperators(ctx context.Context) ([]models.Operator, error)
	UpdateOperator(ctx context.Context, op *models.Operator) error
	DeleteOperator(ctx context.Context, id uuid.UUID) error
	CountOperators(ctx context.Context) (int64, error)

	RecordReseed(ctx context.Context, ev *models.ReseedEvent) error
	// ListReseeds returns the newest events first, at most limit of them.
	ListReseeds(ctx context.Context, limit int) ([]models.ReseedEvent, error)
}

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ArowuTest/ctrdrbg/internal/models"
)

// Gorm is a Store backed by a gorm database, postgres in production.
type Gorm struct {
	db *gorm.DB
}

// NewGorm returns a Store using db. Call models.Migrate first.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// CreateOperator inserts op, assigning an id and the Active status when unset.
func (g *Gorm) CreateOperator(ctx context.Context, op *models.Operator) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	if op.Status == "" {
		op.Status = models.StatusActive
	}
	return translate(g.db.WithContext(ctx).Create(op).Error)
}

// GetOperator loads the operator with id.
func (g *Gorm) GetOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	var op models.Operator
	if err := g.db.WithContext(ctx).First(&op, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &op, nil
}

// FindOperatorByUsername loads the operator named username.
func (g *Gorm) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var op models.Operator
	if err := g.db.WithContext(ctx).Where("username = ?", username).First(&op).Error; err != nil {
		return nil, translate(err)
	}
	return &op, nil
}

// ListOperators loads every operator ordered by username.
func (g *Gorm) ListOperators(ctx context.Context) ([]models.Operator, error) {
	var ops []models.Operator
	if err := g.db.WithContext(ctx).Order("username asc").Find(&ops).Error; err != nil {
		return nil, translate(err)
	}
	return ops, nil
}

// UpdateOperator writes the mutable fields of op.
func (g *Gorm) UpdateOperator(ctx context.Context, op *models.Operator) error {
	res := g.db.WithContext(ctx).Model(&models.Operator{}).Where("id = ?", op.ID).Updates(map[string]interface{}{
		"username":      op.Username,
		"password_hash": op.PasswordHash,
		"role":          op.Role,
		"status":        op.Status,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOperator removes the operator with id.
func (g *Gorm) DeleteOperator(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).Delete(&models.Operator{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOperators returns the number of operators.
func (g *Gorm) CountOperators(ctx context.Context) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.Operator{}).Count(&n).Error
	return n, translate(err)
}

// RecordReseed inserts ev.
func (g *Gorm) RecordReseed(ctx context.Context, ev *models.ReseedEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	return translate(g.db.WithContext(ctx).Create(ev).Error)
}

// ListReseeds loads up to limit events, newest first. A limit of 0 loads all.
func (g *Gorm) ListReseeds(ctx context.Context, limit int) ([]models.ReseedEvent, error) {
	var evs []models.ReseedEvent
	q := g.db.WithContext(ctx).Order("at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&evs).Error; err != nil {
		return nil, translate(err)
	}
	return evs, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperatorRole enumerates allowed roles.
type OperatorRole string

const (
	RoleAdmin    OperatorRole = "ADMIN"    // manages operators, may reseed
	RoleOperator OperatorRole = "OPERATOR" // may force a reseed
	RoleAuditor  OperatorRole = "AUDITOR"  // read-only status and audit
)

// Valid reports whether r is a known role.
func (r OperatorRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleAuditor:
		return true
	}
	return false
}

// OperatorStatus enumerates account states.
type OperatorStatus string

const (
	StatusActive   OperatorStatus = "Active"
	StatusInactive OperatorStatus = "Inactive"
	StatusLocked   OperatorStatus = "Locked"
)

// Valid reports whether s is a known status.
func (s OperatorStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusLocked:
		return true
	}
	return false
}

// Operator is a user allowed to administer the generator.
type Operator struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         OperatorRole   `gorm:"not null" json:"role"`
	Status       OperatorStatus `gorm:"not null;default:'Active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ReseedEvent is one audit row per instantiate or reseed of a generator.
// It records when and why the seed changed, never any DRBG state.
type ReseedEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GeneratorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"generator_id"`
	Reason      string     `gorm:"not null" json:"reason"`
	PrevCounter uint64     `gorm:"not null" json:"prev_counter"`
	OperatorID  *uuid.UUID `gorm:"type:uuid;default:null" json:"operator_id,omitempty"` // set for manual reseeds
	At          time.Time  `gorm:"not null;index" json:"at"`
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Operator{},
		&ReseedEvent{},
	)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArowuTest/ctrdrbg/internal/models"
	"github.com/ArowuTest/ctrdrbg/internal/store"
)

// CreateOperator creates a new operator.
func (h *Handler) CreateOperator(c *gin.Context) {
	var input struct {
		Username string                `json:"username" binding:"required"`
		Password string                `json:"password" binding:"required,min=8"`
		Role     models.OperatorRole   `json:"role" binding:"required"`
		Status   models.OperatorStatus `json:"status,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	if !input.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	if input.Status == "" {
		input.Status = models.StatusActive
	} else if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	op := models.Operator{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         input.Role,
		Status:       input.Status,
	}
	if err := h.store.CreateOperator(c.Request.Context(), &op); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, op)
}

// ListOperators returns all operators.
func (h *Handler) ListOperators(c *gin.Context) {
	ops, err := h.store.ListOperators(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

// GetOperator returns one operator by ID.
func (h *Handler) GetOperator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}
	op, err := h.store.GetOperator(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// UpdateOperator changes the fields present in the payload.
func (h *Handler) UpdateOperator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID"})
		return
	}

	var input struct {
		Username *string                `json:"username"`
		Password *string                `json:"password" binding:"omitempty,min=8"`
		Role     *models.OperatorRole   `json:"role"`
		Status   *models.OperatorStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	op, err := h.store.GetOperator(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	if input.Username != nil && *input.Username != "" {
		op.Username = *input.Username
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		op.Role = *input.Role
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		op.Status = *input.Status
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		op.PasswordHash = string(hashed)
	}

	if err := h.store.UpdateOperator(c.Request.Context(), op); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// DeleteOperator removes an operator. Operators cannot delete themselves.
func (h *Handler) DeleteOperator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID"})
		return
	}
	if self, ok := c.Get("operator_id"); ok && self.(uuid.UUID) == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}
	if err := h.store.DeleteOperator(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

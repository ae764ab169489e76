// internal/handlers/auth.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArowuTest/ctrdrbg/internal/log"
	"github.com/ArowuTest/ctrdrbg/internal/models"
	"github.com/ArowuTest/ctrdrbg/internal/store"
)

// loginRequest defines JSON payload for login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload: " + err.Error()})
		return
	}

	op, err := h.store.FindOperatorByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		log.FromContext(c.Request.Context(), "handlers").Info("failed login", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if op.Status != models.StatusActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is " + string(op.Status)})
		return
	}

	token, err := h.auth.GenerateJWT(op.ID.String(), op.Username, string(op.Role))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"operator_id": op.ID.String(),
		"username":    op.Username,
		"role":        op.Role,
	})
}

// RequireAuth is a middleware that checks for a valid "Bearer" JWT issued to
// an active operator. With allowedRoles set, only those roles pass.
func (h *Handler) RequireAuth(allowedRoles ...models.OperatorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr := c.GetHeader("Authorization")
		if hdr == "" || !strings.HasPrefix(hdr, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := h.auth.ParseAndVerify(strings.TrimPrefix(hdr, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			return
		}
		id, err := uuid.Parse(claims.OperatorID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		// Tokens outlive role changes, so the stored operator decides.
		op, err := h.store.GetOperator(c.Request.Context(), id)
		if err != nil || op.Status != models.StatusActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Operator is not active"})
			return
		}
		if len(allowedRoles) > 0 {
			valid := false
			for _, r := range allowedRoles {
				if r == op.Role {
					valid = true
					break
				}
			}
			if !valid {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden for role: " + string(op.Role)})
				return
			}
		}

		c.Set("operator_id", op.ID)
		c.Set("operator_role", op.Role)
		c.Set("operator_username", op.Username)
		c.Request = c.Request.WithContext(withOperator(c.Request.Context(), op.ID))
		c.Next()
	}
}

// Bootstrap creates an ADMIN operator when the store holds no operators yet.
// It reports whether one was created.
func Bootstrap(ctx context.Context, s store.Store, username, password string) (bool, error) {
	n, err := s.CountOperators(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	op := &models.Operator{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := s.CreateOperator(ctx, op); err != nil {
		return false, err
	}
	return true, nil
}

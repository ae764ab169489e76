// internal/auth/auth.go

package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 12 * time.Hour

var (
	// ErrNoSecret is returned by New for an empty secret.
	ErrNoSecret = errors.New("auth: empty signing secret")
	// ErrInvalidToken is returned for a token that parses but does not verify.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims defines the JWT payload for operators.
type Claims struct {
	OperatorID string `json:"operator_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	jwt.StandardClaims
}

// Issuer signs and verifies HS256 operator tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns an Issuer keyed by secret. A ttl of zero means DefaultTTL.
func New(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateJWT creates a signed token for the operator.
func (i *Issuer) GenerateJWT(operatorID, username, role string) (string, error) {
	now := i.now()
	claims := Claims{
		OperatorID: operatorID,
		Username:   username,
		Role:       role,
		StandardClaims: jwt.StandardClaims{
			Issuer:    "ctrdrbg",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(i.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseAndVerify validates the token string and returns its claims.
func (i *Issuer) ParseAndVerify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// HS256 only
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

const DefaultTTL = 30 * 24 * time.Hour

// Claims identify the user and the family their requests are scoped to.
type Claims struct {
	UserID   string `json:"id"`
	FamilyID string `json:"familyId"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret   []byte
	ttl      time.Duration
	clockNow func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, clockNow: time.Now}
}

// Issue signs an HS256 token for the user.
func (t *Tokens) Issue(userID, familyID string) (string, error) {
	now := t.clockNow()
	claims := Claims{
		UserID:   userID,
		FamilyID: familyID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses a token and returns its claims. Every failure is an AuthError.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errs.NewAuthError("token expired")
		}
		return nil, errs.NewAuthError("invalid token")
	}
	if !token.Valid || claims.UserID == "" || claims.FamilyID == "" {
		return nil, errs.NewAuthError("invalid token")
	}
	return claims, nil
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/surenmigorskiy-ui/duo-backend/internal/auth"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

type tokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

type Middleware struct {
	Tokens          tokenVerifier
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(tokens tokenVerifier, rh response.ResponseHandler) *Middleware {
	return &Middleware{Tokens: tokens, ResponseHandler: rh}
}

// context keys
type contextKey string

const (
	UserIDKey   contextKey = "userId"
	FamilyIDKey contextKey = "familyId"
)

// Authenticate requires a valid bearer session token and stores its claims in
// the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewAuthError("no token"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewAuthError("invalid Authorization header"))
			return
		}

		claims, err := m.Tokens.Verify(parts[1])
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, FamilyIDKey, claims.FamilyID)
		_, ctx = logger.With(ctx, "user_id", claims.UserID, "family_id", claims.FamilyID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func FamilyID(ctx context.Context) string {
	id, _ := ctx.Value(FamilyIDKey).(string)
	return id
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type authCtxKey int

const adminKey authCtxKey = 3

type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func secret() []byte {
	s := os.Getenv("LOGOSURVEY_JWT_SECRET")
	if s == "" {
		s = "logosurvey-dev-secret"
	}
	return []byte(s)
}

// SignAdminToken mints a short-lived bearer token for the dashboard.
func SignAdminToken(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{Admin: true, RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now), ExpiresAt: jwt.NewNumericDate(now.Add(ttl))}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

func parseToken(tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) { return secret(), nil })
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// WithAuth attaches admin claims to the context when a valid bearer token is
// present.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if c, err := parseToken(tok); err == nil && c.Admin {
				ctx := context.WithValue(r.Context(), adminKey, c)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests that did not carry a valid admin token.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(adminKey).(*Claims); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IsAdmin reports whether the context carries admin claims.
func IsAdmin(ctx context.Context) bool {
	_, ok := ctx.Value(adminKey).(*Claims)
	return ok
}

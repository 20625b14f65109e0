package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

type contextKey string

const (
	ctxUserID contextKey = "userID"
	ctxRole   contextKey = "role"
)

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

// Role returns the authenticated user's role from the request context.
func Role(ctx context.Context) string {
	v, _ := ctx.Value(ctxRole).(string)
	return v
}

// Auth validates bearer tokens and gates routes by role.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// RequireRole returns middleware that rejects requests lacking a valid token
// or whose role is not in the allowlist. An empty allowlist admits any
// authenticated user.
func (a *Auth) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				deny(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				deny(w, http.StatusUnauthorized, "Bearer token required")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return a.secret, nil
			})
			if err != nil || !token.Valid {
				deny(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if len(allowedRoles) > 0 {
				roleAllowed := false
				for _, role := range allowedRoles {
					if role == claims.Role {
						roleAllowed = true
						break
					}
				}
				if !roleAllowed {
					deny(w, http.StatusForbidden, "Access denied")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.Subject)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

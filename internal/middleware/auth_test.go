package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   "2a3cbf19-5f08-4b2e-9a41-8a2a63c1d001",
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func protected(a *Auth, roles ...string) http.Handler {
	return a.RequireRole(roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(Role(r.Context())))
	}))
}

func TestRequireRole(t *testing.T) {
	a := NewAuth(testSecret)
	valid := signToken(t, "MANAGER", testSecret, time.Now().Add(time.Hour))

	tests := []struct {
		name       string
		header     string
		roles      []string
		wantStatus int
	}{
		{"missing header", "", []string{"ADMIN"}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", []string{"ADMIN"}, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", []string{"ADMIN"}, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "ADMIN", "other-secret", time.Now().Add(time.Hour)), []string{"ADMIN"}, http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, "ADMIN", testSecret, time.Now().Add(-time.Hour)), []string{"ADMIN"}, http.StatusUnauthorized},
		{"role not allowed", "Bearer " + valid, []string{"ADMIN"}, http.StatusForbidden},
		{"role allowed", "Bearer " + valid, []string{"ADMIN", "MANAGER"}, http.StatusOK},
		{"empty allowlist admits any role", "Bearer " + valid, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(a, tt.roles...).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestContextCarriesIdentity(t *testing.T) {
	a := NewAuth(testSecret)
	token := signToken(t, "DRIVER", testSecret, time.Now().Add(time.Hour))

	var gotUserID, gotRole string
	h := a.RequireRole()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		gotRole = Role(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotUserID != "2a3cbf19-5f08-4b2e-9a41-8a2a63c1d001" {
		t.Errorf("user id = %q, want the token subject", gotUserID)
	}
	if gotRole != "DRIVER" {
		t.Errorf("role = %q, want DRIVER", gotRole)
	}
}

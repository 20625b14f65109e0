package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/middleware"
	"github.com/rliyanage/distro-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, role string) ([]*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateSettings(_ context.Context, id string, settings []byte) error {
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error { return nil }

func (f *fakeUserRepo) ReplaceSuppliers(_ context.Context, userID string, supplierIDs []string) error {
	return nil
}

func (f *fakeUserRepo) ListSupplierIDs(_ context.Context, userID string) ([]string, error) {
	return nil, nil
}

func testUser(t *testing.T, active bool) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &user.User{
		ID:           uuid.New(),
		Email:        "manager@example.com",
		PasswordHash: string(hash),
		Name:         "Manager",
		Role:         user.RoleManager,
		IsActive:     active,
	}
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	u := testUser(t, true)
	repo := &fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}}
	svc := NewService(repo, "test-secret", 24)

	token, role, err := svc.Login(context.Background(), u.Email, "right-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if role != "MANAGER" {
		t.Errorf("role = %q, want MANAGER", role)
	}

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != u.ID.String() {
		t.Errorf("subject = %q, want user id", claims.Subject)
	}
	if claims.Role != "MANAGER" {
		t.Errorf("claim role = %q, want MANAGER", claims.Role)
	}
}

func TestLoginRejections(t *testing.T) {
	active := testUser(t, true)
	inactive := testUser(t, false)
	inactive.Email = "gone@example.com"
	repo := &fakeUserRepo{byEmail: map[string]*user.User{
		active.Email:   active,
		inactive.Email: inactive,
	}}
	svc := NewService(repo, "test-secret", 24)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "right-password"},
		{"wrong password", active.Email, "wrong-password"},
		{"deactivated account", inactive.Email, "right-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Login(context.Background(), tt.email, tt.password); err == nil {
				t.Fatal("expected login to fail")
			}
		})
	}
}

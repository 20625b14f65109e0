package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rliyanage/distro-backend/internal/middleware"
	"github.com/rliyanage/distro-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo   user.Repository
	jwtSecret  []byte
	expiration time.Duration
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, jwtSecret string, expirationHours int) Service {
	return &service{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		expiration: time.Duration(expirationHours) * time.Hour,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}
	if !u.IsActive {
		return "", "", errors.New("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	claims := &middleware.Claims{
		Role: string(u.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(s.expiration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}
	return tokenString, string(u.Role), nil
}

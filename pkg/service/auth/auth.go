// Package auth provides JWT-based authentication for the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/ognlabs/token-transfer/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

// Service issues and reads JWT tokens for account holders.
type Service struct {
	users  repository.UserRepository
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(users repository.UserRepository, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{users: users, cfg: cfg, logger: logger}
}

// Login checks the credentials and returns the user, or
// domain.ErrUnauthorized without distinguishing which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login failed", "email", email)
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// GenerateToken signs a JWT for the user.
func (s *Service) GenerateToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// GetCurrentUserID extracts the authenticated user's ID from a verified
// token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("token missing user_id claim")
	}
	return uuid.Parse(raw)
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clinicapi/internal/config"
)

// AuthService checks the clinician credential and issues session tokens.
type AuthService interface {
	// Login returns a signed token when the credential matches, and
	// ErrInvalidCredentials otherwise.
	Login(username, password string) (string, error)
}

// authService validates against the single environment-supplied credential.
// The password is compared as a bcrypt hash so the secret is never held or
// logged in clear text.
type authService struct {
	cfg config.AuthConfig
}

// NewAuthService constructs a new AuthService.
func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(username, password string) (string, error) {
	if s.cfg.Username == "" || s.cfg.PasswordHash == "" {
		// no credential configured means nobody can log in
		return "", ErrInvalidCredentials
	}
	if username != s.cfg.Username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(s.cfg.TokenTTLMin) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

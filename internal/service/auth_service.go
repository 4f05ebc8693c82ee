package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"autoscuola/internal/db"
	"autoscuola/internal/repository"
	"autoscuola/internal/schedule"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateUser(ctx context.Context, email, password string, role schedule.Role, fullName, phone string) (*db.User, error)
}

type authService struct {
	repo   repository.UserRepository
	secret string
}

func NewAuthService(repo repository.UserRepository, secret string) AuthService {
	return &authService{repo: repo, secret: secret}
}

// Login verifies the password and issues a JWT carrying the user id and
// role. The middleware trusts only these claims; the core receives the
// role as plain data.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) CreateUser(ctx context.Context, email, password string, role schedule.Role, fullName, phone string) (*db.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	return s.repo.Create(ctx, email, password, role, fullName, phone)
}

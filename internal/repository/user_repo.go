package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"autoscuola/internal/apperrors"
	"autoscuola/internal/db"
	"autoscuola/internal/schedule"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id int64) (*db.User, error)
	Create(ctx context.Context, email, password string, role schedule.Role, fullName, phone string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, full_name, phone, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*db.User, error) {
	var u db.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, full_name, phone, created_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Resource: "user", ID: id}
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, email, password string, role schedule.Role, fullName, phone string) (*db.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u := &db.User{Email: email, PasswordHash: string(hashed), Role: role, FullName: fullName, Phone: phone}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, role, full_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.Role, u.FullName, u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", err)
	}
	return u, nil
}

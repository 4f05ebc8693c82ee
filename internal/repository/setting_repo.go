package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

type SettingRepository struct {
	DB *sql.DB
}

func NewSettingRepository(database *sql.DB) *SettingRepository {
	return &SettingRepository{DB: database}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetInt reads an integer setting, falling back to the default when the
// key is missing or malformed.
func (r *SettingRepository) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	value, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return 0, fmt.Errorf("error reading setting %q: %w", key, err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("error writing setting %q: %w", key, err)
	}
	return nil
}

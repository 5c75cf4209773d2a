package readingstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taiwoajasa245/quran-reader-api/internal/database"
)

type postgresKV struct {
	db *sql.DB
}

// NewPostgresKV stores values in the reading_state table created by
// database.Service.Migrate.
func NewPostgresKV(dbService database.Service) KV {
	return &postgresKV{db: dbService.DB()}
}

func (r *postgresKV) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM reading_state WHERE key = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (r *postgresKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO reading_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

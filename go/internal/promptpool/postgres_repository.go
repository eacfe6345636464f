package promptpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

const createPromptsTable = `
	CREATE TABLE IF NOT EXISTS custom_prompts (
		id         BIGSERIAL PRIMARY KEY,
		prompt     TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresRepository stores custom prompts in Postgres
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps pool and makes sure the table exists
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, createPromptsTable); err != nil {
		return nil, fmt.Errorf("failed to create custom_prompts table: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

// Health pings the database
func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ListCustom returns prompts in insertion order
func (r *PostgresRepository) ListCustom(ctx context.Context) ([]string, error) {
	const q = `SELECT prompt FROM custom_prompts ORDER BY id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	prompts := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	return prompts, nil
}

// InsertCustom stores prompt. A unique violation is reported as models.ErrDuplicate.
func (r *PostgresRepository) InsertCustom(ctx context.Context, prompt string) error {
	const q = `INSERT INTO custom_prompts (prompt) VALUES ($1)`

	if _, err := r.pool.Exec(ctx, q, prompt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("prompt %q: %w", prompt, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

var _ HealthChecker = (*PostgresRepository)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

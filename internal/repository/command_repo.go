// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dverbeek/windriver/internal/domain"
)

// CommandRepository persists the WebDriver command audit trail. It is
// write-heavy and best-effort: audit failures are logged, never surfaced to
// the driving client.
type CommandRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCommandRepository(pool *pgxpool.Pool, logger *slog.Logger) *CommandRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *CommandRepository) Record(ctx context.Context, rec domain.CommandRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO commands (id, session_id, method, path, status, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		rec.ID,
		rec.SessionID,
		rec.Method,
		rec.Path,
		rec.Status,
		rec.DurationMS,
		rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("record command failed",
			"method", rec.Method,
			"path", rec.Path,
			"error", err,
		)
		return err
	}
	return nil
}

// ListRecent returns the newest audited commands, most recent first.
func (r *CommandRepository) ListRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, method, path, status, duration_ms, created_at
		FROM commands
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		r.logger.Error("list commands query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CommandRecord, 0, limit)
	for rows.Next() {
		var rec domain.CommandRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.Method,
			&rec.Path,
			&rec.Status,
			&rec.DurationMS,
			&rec.CreatedAt,
		); err != nil {
			r.logger.Error("scan command row failed", "error", err)
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

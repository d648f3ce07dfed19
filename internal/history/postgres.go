package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// PostgresDurable is the Durable implementation backing Store with a
// Postgres table, patterned after the
// internal/gateway/repository/projectstore postgres backend: lazy
// single-shot schema creation plus a plain upsert on write.
type PostgresDurable struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

// NewPostgresDurable wraps an already-opened *sql.DB. Schema creation is
// deferred to the first call rather than done here, so constructing a
// Store never blocks on the database.
func NewPostgresDurable(db *sql.DB) *PostgresDurable {
	return &PostgresDurable{db: db}
}

func (p *PostgresDurable) ensureSchema(ctx context.Context) error {
	p.schemaOnce.Do(func() {
		_, p.schemaErr = p.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS user_poi_history (
				user_key      TEXT NOT NULL,
				poi_key       TEXT NOT NULL,
				first_seen_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_key, poi_key)
			)`)
	})
	return p.schemaErr
}

// LoadHeard returns every poi_key userKey has previously been marked for.
func (p *PostgresDurable) LoadHeard(ctx context.Context, userKey string) ([]string, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, `SELECT poi_key FROM user_poi_history WHERE user_key = $1`, userKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var poiKey string
		if err := rows.Scan(&poiKey); err != nil {
			return nil, err
		}
		out = append(out, poiKey)
	}
	return out, rows.Err()
}

// MarkHeard upserts a (userKey, poiKey) pair. The conflict branch is a
// no-op: first_seen_at is never overwritten once set.
func (p *PostgresDurable) MarkHeard(ctx context.Context, userKey, poiKey string, firstSeenAt time.Time) error {
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO user_poi_history (user_key, poi_key, first_seen_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_key, poi_key) DO NOTHING`,
		userKey, poiKey, firstSeenAt)
	return err
}

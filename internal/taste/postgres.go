package taste

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"narrator/internal/domain"
)

// PostgresDurable is the Durable implementation backing Store with a
// Postgres table, grounded on the same upsert pattern used in
// internal/history and internal/exposure.
type PostgresDurable struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresDurable(db *sql.DB) *PostgresDurable {
	return &PostgresDurable{db: db}
}

func (p *PostgresDurable) ensureSchema(ctx context.Context) error {
	p.schemaOnce.Do(func() {
		_, p.schemaErr = p.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS taste_profiles (
				user_key   TEXT PRIMARY KEY,
				humor      DOUBLE PRECISION NOT NULL,
				nerdy      DOUBLE PRECISION NOT NULL,
				dramatic   DOUBLE PRECISION NOT NULL,
				shortness  DOUBLE PRECISION NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`)
	})
	return p.schemaErr
}

func (p *PostgresDurable) Load(ctx context.Context, userKey string) (domain.TasteProfile, bool, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return domain.TasteProfile{}, false, fmt.Errorf("ensure schema: %w", err)
	}
	row := p.db.QueryRowContext(ctx, `
		SELECT humor, nerdy, dramatic, shortness, updated_at
		FROM taste_profiles WHERE user_key = $1`, userKey)

	var profile domain.TasteProfile
	profile.ID = userKey
	switch err := row.Scan(&profile.Humor, &profile.Nerdy, &profile.Dramatic, &profile.Shortness, &profile.UpdatedAt); err {
	case nil:
		return profile, true, nil
	case sql.ErrNoRows:
		return domain.TasteProfile{}, false, nil
	default:
		return domain.TasteProfile{}, false, err
	}
}

func (p *PostgresDurable) Save(ctx context.Context, userKey string, profile domain.TasteProfile) error {
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO taste_profiles (user_key, humor, nerdy, dramatic, shortness, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_key) DO UPDATE SET
			humor = EXCLUDED.humor,
			nerdy = EXCLUDED.nerdy,
			dramatic = EXCLUDED.dramatic,
			shortness = EXCLUDED.shortness,
			updated_at = EXCLUDED.updated_at`,
		userKey, profile.Humor, profile.Nerdy, profile.Dramatic, profile.Shortness, profile.UpdatedAt)
	return err
}

package exposure

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"narrator/internal/domain"
)

// PostgresDurable is the Durable sink backing Log with a Postgres table.
// Grounded on the same ensureSchema-once pattern as
// internal/history.PostgresDurable.
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
			CREATE TABLE IF NOT EXISTS exposure_log (
				id               TEXT PRIMARY KEY,
				ts               TIMESTAMPTZ NOT NULL,
				user_key         TEXT NOT NULL,
				lat              DOUBLE PRECISION NOT NULL,
				lng              DOUBLE PRECISION NOT NULL,
				poi_key          TEXT,
				poi_name         TEXT,
				poi_source       TEXT,
				distance_meters  DOUBLE PRECISION,
				should_speak     BOOLEAN NOT NULL,
				reason           TEXT NOT NULL,
				taste_profile_id TEXT,
				story_len        INT NOT NULL DEFAULT 0
			)`)
	})
	return p.schemaErr
}

// Append inserts one exposure record. A missing ID is filled in here so
// callers never have to generate one themselves.
func (p *PostgresDurable) Append(ctx context.Context, rec domain.ExposureRecord) error {
	if err := p.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO exposure_log
			(id, ts, user_key, lat, lng, poi_key, poi_name, poi_source, distance_meters, should_speak, reason, taste_profile_id, story_len)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Timestamp, rec.UserKey, rec.Lat, rec.Lng,
		rec.PoiKey, rec.PoiName, rec.PoiSource, rec.DistanceMeters,
		rec.ShouldSpeak, rec.Reason, rec.TasteProfileID, rec.StoryLen)
	return err
}

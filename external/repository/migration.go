package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE meeting_type AS ENUM ('upload', 'live', 'recorded'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		filename TEXT NOT NULL,
		transcript TEXT NOT NULL,
		summary TEXT NOT NULL,
		meeting_type meeting_type NOT NULL,
		"timestamp" TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_timestamp ON meetings ("timestamp" DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_filename ON meetings (filename)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

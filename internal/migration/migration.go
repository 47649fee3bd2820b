package migration

import (
	"context"

	"hoaxlens/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createAnalysisSessionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analysis_sessions table")
	}

	if err := r.createHoaxAnalysesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create hoax_analyses table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createAnalysisSessionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_sessions (
			id UUID PRIMARY KEY,
			post_url TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			progress INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			report_id BIGINT,
			completed_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createHoaxAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hoax_analyses (
			id BIGSERIAL PRIMARY KEY,
			post_id VARCHAR(100) NOT NULL,
			post_text TEXT NOT NULL DEFAULT '',
			hoax_probability DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_hoax BOOLEAN NOT NULL DEFAULT false,
			raw_analysis TEXT,
			hoax_reasons JSONB,
			bot_probability DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_bot BOOLEAN NOT NULL DEFAULT false,
			fact_check_results JSONB,
			network_data JSONB,
			report_path TEXT,
			network_viz_path TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_analysis_sessions_status ON analysis_sessions(status);
		CREATE INDEX IF NOT EXISTS idx_analysis_sessions_completed_at ON analysis_sessions(completed_at DESC);
		CREATE INDEX IF NOT EXISTS idx_hoax_analyses_post_id ON hoax_analyses(post_id);
		CREATE INDEX IF NOT EXISTS idx_hoax_analyses_created_at ON hoax_analyses(created_at DESC)
	`)
	return err
}

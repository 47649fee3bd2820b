package postgres

import (
	"context"
	"database/sql"

	"hoaxlens/internal/errors"
	"hoaxlens/models"
	"hoaxlens/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *models.AnalysisSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_sessions (id, post_url, status, progress, error_message, report_id, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, session.ID, session.PostURL, session.Status, session.Progress, session.ErrorMessage, session.ReportID, session.CompletedAt, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return errors.DatabaseError("insert analysis session", err)
	}
	return nil
}

// Update persists the full mutable state of a session. The orchestrator is
// the only caller, so last-write-wins is safe here.
func (r *SessionRepositoryImpl) Update(ctx context.Context, session *models.AnalysisSession) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE analysis_sessions
		SET status = $2, progress = $3, error_message = $4, report_id = $5, completed_at = $6, updated_at = NOW()
		WHERE id = $1
	`, session.ID, session.Status, session.Progress, session.ErrorMessage, session.ReportID, session.CompletedAt)
	if err != nil {
		return errors.DatabaseError("update analysis session", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.AnalysisSession, error) {
	var session models.AnalysisSession
	err := r.db.GetContext(ctx, &session, `
		SELECT id, post_url, status, progress, error_message, report_id, completed_at, created_at, updated_at
		FROM analysis_sessions
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("session")
	}
	if err != nil {
		return nil, errors.DatabaseError("get analysis session", err)
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) ListCompleted(ctx context.Context, limit, offset int) ([]*models.AnalysisSession, error) {
	var sessions []*models.AnalysisSession
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT id, post_url, status, progress, error_message, report_id, completed_at, created_at, updated_at
		FROM analysis_sessions
		WHERE status = $1
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3
	`, models.StatusCompleted, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("list completed sessions", err)
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) CountByStatus(ctx context.Context, status models.SessionStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM analysis_sessions WHERE status = $1
	`, status)
	if err != nil {
		return 0, errors.DatabaseError("count sessions by status", err)
	}
	return count, nil
}

package ports

import (
	"context"

	"hoaxlens/models"

	"github.com/google/uuid"
)

// SessionRepository is the orchestrator's only persistence dependency for
// session state. Get returns a NOT_FOUND error for unknown ids.
type SessionRepository interface {
	Create(ctx context.Context, session *models.AnalysisSession) error
	Update(ctx context.Context, session *models.AnalysisSession) error
	Get(ctx context.Context, id uuid.UUID) (*models.AnalysisSession, error)
	ListCompleted(ctx context.Context, limit, offset int) ([]*models.AnalysisSession, error)
	CountByStatus(ctx context.Context, status models.SessionStatus) (int, error)
}

// AnalysisRepository stores the final analysis records.
type AnalysisRepository interface {
	Save(ctx context.Context, record *models.AnalysisRecord) (int64, error)
	Get(ctx context.Context, id int64) (*models.AnalysisRecord, error)
	CountHoaxes(ctx context.Context) (int, int, error)
}

package postgres

import (
	"context"
	"database/sql"

	"hoaxlens/internal/errors"
	"hoaxlens/models"
	"hoaxlens/ports"

	"github.com/jmoiron/sqlx"
)

// AnalysisRepositoryImpl implements AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

// Save inserts one completed analysis and returns its generated id.
// JSONBMap columns implement driver.Valuer, so they convert automatically.
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, record *models.AnalysisRecord) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO hoax_analyses (post_id, post_text, hoax_probability, is_hoax, raw_analysis, hoax_reasons, bot_probability, is_bot, fact_check_results, network_data, report_path, network_viz_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, record.PostID, record.PostText, record.HoaxProbability, record.IsHoax, record.RawAnalysis, record.HoaxReasons,
		record.BotProbability, record.IsBot, record.FactCheck, record.NetworkData,
		record.ReportPath, record.NetworkVizPath, record.CreatedAt).Scan(&id)
	if err != nil {
		return 0, errors.DatabaseError("insert analysis record", err)
	}
	record.ID = id
	return id, nil
}

func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT id, post_id, post_text, hoax_probability, is_hoax, raw_analysis, hoax_reasons, bot_probability, is_bot, fact_check_results, network_data, report_path, network_viz_path, created_at
		FROM hoax_analyses
		WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("analysis record")
	}
	if err != nil {
		return nil, errors.DatabaseError("get analysis record", err)
	}
	return &record, nil
}

// CountHoaxes returns total analyses and how many were flagged as hoaxes.
func (r *AnalysisRepositoryImpl) CountHoaxes(ctx context.Context) (int, int, error) {
	var counts struct {
		Total  int `db:"total"`
		Hoaxes int `db:"hoaxes"`
	}
	err := r.db.GetContext(ctx, &counts, `
		SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_hoax) AS hoaxes
		FROM hoax_analyses
	`)
	if err != nil {
		return 0, 0, errors.DatabaseError("count analyses", err)
	}
	return counts.Total, counts.Hoaxes, nil
}

package analysis

import (
	"context"

	"github.com/google/uuid"

	"hoaxlens/internal/errors"
	"hoaxlens/models"
)

// Status returns the polling snapshot for one session.
func (o *Orchestrator) Status(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	session, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// Result returns the stored analysis record for a completed session.
// Incomplete sessions yield NOT_FOUND.
func (o *Orchestrator) Result(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	session, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reportID, ok := session.ReportRef()
	if session.CurrentStatus() != models.StatusCompleted || !ok {
		return nil, errors.NotFound("analysis result")
	}
	return o.records.Get(ctx, reportID)
}

// History lists completed sessions, newest first. Each item joins the
// session to its stored analysis so listings carry the post URL, a text
// snippet and the verdict without a second round trip per entry.
func (o *Orchestrator) History(ctx context.Context, limit, offset int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	sessions, err := o.sessions.ListCompleted(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		item := session.Snapshot()
		item["post_url"] = session.PostURL
		if reportID, ok := session.ReportRef(); ok {
			record, err := o.records.Get(ctx, reportID)
			if err != nil {
				// A missing record degrades the item, not the listing.
				o.logger.Warn("history: analysis record %d unavailable: %v", reportID, err)
			} else {
				item["hoax_probability"] = record.HoaxProbability
				item["is_hoax"] = record.IsHoax
				item["text_snippet"] = models.Truncate(record.PostText, 100)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// Statistics aggregates counts across all stored analyses.
func (o *Orchestrator) Statistics(ctx context.Context) (map[string]interface{}, error) {
	total, hoaxes, err := o.records.CountHoaxes(ctx)
	if err != nil {
		return nil, err
	}
	processing, err := o.sessions.CountByStatus(ctx, models.StatusProcessing)
	if err != nil {
		return nil, err
	}
	failed, err := o.sessions.CountByStatus(ctx, models.StatusFailed)
	if err != nil {
		return nil, err
	}

	hoaxShare := 0.0
	if total > 0 {
		hoaxShare = models.Round3(float64(hoaxes) / float64(total))
	}
	return map[string]interface{}{
		"total_analyses":      total,
		"hoax_count":          hoaxes,
		"hoax_share":          hoaxShare,
		"processing_sessions": processing,
		"failed_sessions":     failed,
	}, nil
}

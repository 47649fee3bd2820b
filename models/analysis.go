package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JSONBMap is a custom type for PostgreSQL JSONB columns that maps to map[string]interface{}
type JSONBMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONBMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*j = make(JSONBMap)
		return nil
	}

	if len(bytes) == 0 {
		*j = make(JSONBMap)
		return nil
	}

	result := make(JSONBMap)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// SessionStatus is the lifecycle state of an analysis session. Transitions
// are forward-only: pending -> processing -> {completed, failed}.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal forward
// transition.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// Progress checkpoints recorded by the orchestrator, in pipeline order.
const (
	CheckpointAccepted      = 10
	CheckpointFetched       = 20
	CheckpointPersisted     = 30
	CheckpointHoaxScored    = 50
	CheckpointBotScored     = 60
	CheckpointFactChecked   = 70
	CheckpointNetworkDone   = 80
	CheckpointVisualization = 85
	CheckpointReportWritten = 95
	CheckpointComplete      = 100
)

// AnalysisSession tracks one analysis request from submission to a terminal
// state. The orchestrator is its only writer; observers read snapshots via
// the session repository.
type AnalysisSession struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	PostURL      string         `json:"post_url" db:"post_url"`
	Status       SessionStatus  `json:"status" db:"status"`
	Progress     int            `json:"progress" db:"progress"`
	ErrorMessage sql.NullString `json:"error_message,omitempty" db:"error_message"`
	ReportID     sql.NullInt64  `json:"report_id,omitempty" db:"report_id"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	mu           sync.RWMutex
}

// NewAnalysisSession creates a pending session for one post URL.
func NewAnalysisSession(id uuid.UUID, postURL string) *AnalysisSession {
	now := time.Now()
	return &AnalysisSession{
		ID:        id,
		PostURL:   postURL,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance raises progress to checkpoint. Progress is monotone: lower values
// and updates after a terminal state are ignored.
func (s *AnalysisSession) Advance(checkpoint int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status.Terminal() || checkpoint <= s.Progress {
		return
	}
	if checkpoint > 100 {
		checkpoint = 100
	}
	s.Progress = checkpoint
	s.UpdatedAt = time.Now()
}

// SetStatus applies a state transition, rejecting illegal ones.
func (s *AnalysisSession) SetStatus(next SessionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Status.CanTransition(next) {
		return false
	}
	s.Status = next
	now := time.Now()
	s.UpdatedAt = now
	if next.Terminal() {
		s.CompletedAt = &now
	}
	return true
}

// Fail moves the session to failed with the error description captured
// verbatim. Progress stays frozen at the last successful checkpoint.
func (s *AnalysisSession) Fail(errMsg string) bool {
	if !s.SetStatus(StatusFailed) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ErrorMessage = sql.NullString{String: errMsg, Valid: errMsg != ""}
	return true
}

// Complete moves the session to completed at 100%, linking the stored report.
func (s *AnalysisSession) Complete(reportID int64) bool {
	if !s.SetStatus(StatusCompleted) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Progress = CheckpointComplete
	s.ReportID = sql.NullInt64{Int64: reportID, Valid: true}
	return true
}

// CurrentStatus reads the status under the session lock.
func (s *AnalysisSession) CurrentStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// ReportRef returns the linked report id, if the session completed.
func (s *AnalysisSession) ReportRef() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ReportID.Valid {
		return 0, false
	}
	return s.ReportID.Int64, true
}

// Snapshot returns a read-only view for status polling.
func (s *AnalysisSession) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	errMsg := ""
	if s.ErrorMessage.Valid {
		errMsg = s.ErrorMessage.String
	}
	return map[string]interface{}{
		"session_id":    s.ID,
		"status":        s.Status,
		"progress":      s.Progress,
		"error_message": errMsg,
		"created_at":    s.CreatedAt,
		"completed_at":  s.CompletedAt,
	}
}

// AnalysisRecord is the persisted result of one completed analysis. The JSON
// keys of the payload maps are the stable contract downstream consumers read.
type AnalysisRecord struct {
	ID              int64     `json:"id" db:"id"`
	PostID          string    `json:"post_id" db:"post_id"`
	PostText        string    `json:"post_text" db:"post_text"`
	HoaxProbability float64   `json:"hoax_probability" db:"hoax_probability"`
	IsHoax          bool      `json:"is_hoax" db:"is_hoax"`
	RawAnalysis     string    `json:"raw_analysis" db:"raw_analysis"`
	HoaxReasons     JSONBMap  `json:"hoax_reasons" db:"hoax_reasons"`
	BotProbability  float64   `json:"bot_probability" db:"bot_probability"`
	IsBot           bool      `json:"is_bot" db:"is_bot"`
	FactCheck       JSONBMap  `json:"fact_check_results" db:"fact_check_results"`
	NetworkData     JSONBMap  `json:"network_data" db:"network_data"`
	ReportPath      string    `json:"pdf_report_path" db:"report_path"`
	NetworkVizPath  string    `json:"network_visualization_path" db:"network_viz_path"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoaxlens/internal/analysis"
	"hoaxlens/internal/botdetect"
	"hoaxlens/internal/errors"
	"hoaxlens/internal/hoax"
	"hoaxlens/internal/network"
	"hoaxlens/models"
	"hoaxlens/ports"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.AnalysisSession
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.AnalysisSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) Update(context.Context, *models.AnalysisSession) error { return nil }

func (r *fakeSessionRepo) Get(_ context.Context, id uuid.UUID) (*models.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("session")
	}
	return s, nil
}

func (r *fakeSessionRepo) ListCompleted(context.Context, int, int) ([]*models.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var completed []*models.AnalysisSession
	for _, s := range r.sessions {
		if s.Snapshot()["status"] == models.StatusCompleted {
			completed = append(completed, s)
		}
	}
	return completed, nil
}

func (r *fakeSessionRepo) CountByStatus(context.Context, models.SessionStatus) (int, error) {
	return 0, nil
}

type fakeAnalysisRepo struct {
	mu      sync.Mutex
	records map[int64]*models.AnalysisRecord
	nextID  int64
}

func (r *fakeAnalysisRepo) Save(_ context.Context, record *models.AnalysisRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	r.records[r.nextID] = record
	return r.nextID, nil
}

func (r *fakeAnalysisRepo) Get(_ context.Context, id int64) (*models.AnalysisRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, errors.NotFound("analysis record")
	}
	return record, nil
}

func (r *fakeAnalysisRepo) CountHoaxes(context.Context) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hoaxes := 0
	for _, rec := range r.records {
		if rec.IsHoax {
			hoaxes++
		}
	}
	return len(r.records), hoaxes, nil
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(_ context.Context, postURL string) (*models.ContentItem, *models.AuthorProfile, error) {
	created := time.Now().AddDate(-1, 0, 0)
	return &models.ContentItem{PostID: "p-1", URL: postURL, Text: "sample claim"},
		&models.AuthorProfile{
			UserID: "u-1", Username: "author", DisplayName: "Author",
			Bio: "writes about things", FollowersCount: 400, FollowingCount: 200,
			PostCount: 900, ProfileImageURL: "https://example.com/a.jpg", CreatedAt: &created,
		}, nil
}

func (fakeFetcher) SpreadGraph(context.Context, string) (*models.SpreadGraph, error) {
	return &models.SpreadGraph{
		Nodes: []models.SpreadNode{
			{ID: "u-1", Role: models.RoleOriginal, Followers: 400, Influence: 0.6},
			{ID: "u-2", Role: models.RoleReplier, Followers: 30, Influence: 0.4},
		},
		Edges: []models.SpreadEdge{{From: "u-1", To: "u-2", Type: models.InteractionReply, Weight: 0.5}},
	}, nil
}

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, query string) (*models.FactCheckResults, error) {
	return &models.FactCheckResults{Query: query}, nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderReport(map[string]interface{}) (string, error) {
	return "/reports/r.html", nil
}

func (fakeRenderer) RenderNetworkWorkbook(*models.NetworkReport) (string, error) {
	return "/viz/n.xlsx", nil
}

type fakeReasoning struct{}

func (fakeReasoning) Complete(context.Context, string, string) (string, error) {
	return `{"hoax_probability": 0.2, "is_hoax": false, "confidence_level": "medium", "analysis_summary": "ok", "red_flags": [], "reasons": [], "category": "normal", "recommendations": []}`, nil
}

func newTestServer(t *testing.T) (*Server, *fakeSessionRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessionRepo{sessions: make(map[uuid.UUID]*models.AnalysisSession)}
	records := &fakeAnalysisRepo{records: make(map[int64]*models.AnalysisRecord)}

	var reasoning ports.ReasoningPort = fakeReasoning{}
	orch := analysis.NewOrchestrator(
		fakeFetcher{},
		hoax.NewEngine(reasoning, 0.7, "ctx"),
		botdetect.NewEngine(0.6),
		network.NewAnalyzer(),
		fakeSearch{},
		fakeRenderer{},
		sessions,
		records,
	)
	return NewServer(orch), sessions
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeAcceptsRequest(t *testing.T) {
	s, sessions := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/analyze", []byte(`{"url": "https://x.com/u/status/1"}`))
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, err := uuid.Parse(resp["session_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp["status"])

	// The session exists and eventually terminates.
	require.Eventually(t, func() bool {
		session, err := sessions.Get(context.Background(), id)
		if err != nil {
			return false
		}
		return session.Snapshot()["status"].(models.SessionStatus).Terminal()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestAnalyzeRejectsMissingURL(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/analyze", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(s, http.MethodPost, "/api/analyze", []byte(`{"url": "   "}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	s, sessions := newTestServer(t)

	session := models.NewAnalysisSession(uuid.New(), "https://x.com/u/status/9")
	require.NoError(t, sessions.Create(context.Background(), session))

	w := doRequest(s, http.MethodGet, "/api/status/"+session.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, float64(0), resp["progress"])
}

func TestStatusUnknownSession(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/status/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(s, http.MethodGet, "/api/status/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResultRequiresCompletion(t *testing.T) {
	s, sessions := newTestServer(t)

	session := models.NewAnalysisSession(uuid.New(), "https://x.com/u/status/8")
	require.NoError(t, sessions.Create(context.Background(), session))

	w := doRequest(s, http.MethodGet, "/api/result/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultAfterPipelineCompletes(t *testing.T) {
	s, sessions := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/analyze", []byte(`{"url": "https://x.com/u/status/2"}`))
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp["session_id"].(string)

	require.Eventually(t, func() bool {
		session, err := sessions.Get(context.Background(), uuid.MustParse(id))
		return err == nil && session.Snapshot()["status"] == models.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	w = doRequest(s, http.MethodGet, "/api/result/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "p-1", record["post_id"])
	assert.Contains(t, record, "hoax_probability")
	assert.Contains(t, record, "bot_probability")
	assert.Contains(t, record, "fact_check_results")
	assert.Contains(t, record, "network_data")
	assert.Contains(t, record, "pdf_report_path")
	assert.Contains(t, record, "network_visualization_path")
}

func TestStatisticsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "total_analyses")
	assert.Contains(t, resp, "hoax_share")
}

func TestHistoryEndpoint(t *testing.T) {
	s, sessions := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/history?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "sessions")
	assert.Equal(t, float64(0), resp["count"])

	// A completed analysis shows up with its verdict joined in.
	w = doRequest(s, http.MethodPost, "/api/analyze", []byte(`{"url": "https://x.com/u/status/7"}`))
	require.Equal(t, http.StatusAccepted, w.Code)
	var accepted map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	id, err := uuid.Parse(accepted["session_id"].(string))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		session, err := sessions.Get(context.Background(), id)
		if err != nil {
			return false
		}
		return session.Snapshot()["status"] == models.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	w = doRequest(s, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["sessions"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "https://x.com/u/status/7", item["post_url"])
	assert.Equal(t, "sample claim", item["text_snippet"])
	assert.Equal(t, false, item["is_hoax"])
	assert.Contains(t, item, "hoax_probability")
}

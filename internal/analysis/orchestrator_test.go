package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoaxlens/internal/botdetect"
	"hoaxlens/internal/errors"
	"hoaxlens/internal/hoax"
	"hoaxlens/internal/network"
	"hoaxlens/models"
)

type memSessionRepo struct {
	mu          sync.Mutex
	sessions    map[uuid.UUID]*models.AnalysisSession
	progressLog []int
	failUpdates bool
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*models.AnalysisSession)}
}

func (r *memSessionRepo) Create(_ context.Context, s *models.AnalysisSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) Update(_ context.Context, s *models.AnalysisSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdates {
		return fmt.Errorf("update rejected")
	}
	snapshot := s.Snapshot()
	r.progressLog = append(r.progressLog, snapshot["progress"].(int))
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, id uuid.UUID) (*models.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("session")
	}
	return s, nil
}

func (r *memSessionRepo) ListCompleted(_ context.Context, limit, offset int) ([]*models.AnalysisSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var completed []*models.AnalysisSession
	for _, s := range r.sessions {
		if s.CurrentStatus() == models.StatusCompleted {
			completed = append(completed, s)
		}
	}
	return completed, nil
}

func (r *memSessionRepo) CountByStatus(_ context.Context, status models.SessionStatus) (int, error) {
	return 0, nil
}

func (r *memSessionRepo) log() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.progressLog))
	copy(out, r.progressLog)
	return out
}

type memAnalysisRepo struct {
	mu      sync.Mutex
	records map[int64]*models.AnalysisRecord
	nextID  int64
	failing bool
}

func newMemAnalysisRepo() *memAnalysisRepo {
	return &memAnalysisRepo{records: make(map[int64]*models.AnalysisRecord)}
}

func (r *memAnalysisRepo) Save(_ context.Context, record *models.AnalysisRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return 0, fmt.Errorf("insert rejected")
	}
	r.nextID++
	record.ID = r.nextID
	r.records[r.nextID] = record
	return r.nextID, nil
}

func (r *memAnalysisRepo) Get(_ context.Context, id int64) (*models.AnalysisRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, errors.NotFound("analysis record")
	}
	return record, nil
}

func (r *memAnalysisRepo) CountHoaxes(_ context.Context) (int, int, error) {
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

type stubFetcher struct {
	fetchErr error
	graphErr error
}

func (f *stubFetcher) Fetch(_ context.Context, postURL string) (*models.ContentItem, *models.AuthorProfile, error) {
	if f.fetchErr != nil {
		return nil, nil, f.fetchErr
	}
	created := time.Now().AddDate(-2, 0, 0)
	return &models.ContentItem{
			PostID: "post-1",
			URL:    postURL,
			Text:   "city council approves new park budget",
		}, &models.AuthorProfile{
			UserID:          "u-1",
			Username:        "maria_chen",
			DisplayName:     "Maria Chen",
			Bio:             "City hall reporter covering local politics and budgets since 2015.",
			FollowersCount:  5200,
			FollowingCount:  480,
			PostCount:       3100,
			Verified:        true,
			ProfileImageURL: "https://example.com/avatar.jpg",
			CreatedAt:       &created,
		}, nil
}

func (f *stubFetcher) SpreadGraph(_ context.Context, postID string) (*models.SpreadGraph, error) {
	if f.graphErr != nil {
		return nil, f.graphErr
	}
	return &models.SpreadGraph{
		Nodes: []models.SpreadNode{
			{ID: "u-1", Label: "Maria Chen", Role: models.RoleOriginal, Followers: 5200, Influence: 0.8},
			{ID: "u-2", Label: "Reader", Role: models.RoleResharer, Followers: 90, Influence: 0.4},
		},
		Edges: []models.SpreadEdge{
			{From: "u-1", To: "u-2", Type: models.InteractionReshare, Weight: 1},
		},
	}, nil
}

type stubSearch struct {
	err error
}

func (s *stubSearch) Search(_ context.Context, query string) (*models.FactCheckResults, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.FactCheckResults{Query: query, TotalResults: 2}, nil
}

type stubRenderer struct {
	reportErr   error
	workbookErr error
}

func (r *stubRenderer) RenderReport(map[string]interface{}) (string, error) {
	if r.reportErr != nil {
		return "", r.reportErr
	}
	return "/reports/report-1.html", nil
}

func (r *stubRenderer) RenderNetworkWorkbook(*models.NetworkReport) (string, error) {
	if r.workbookErr != nil {
		return "", r.workbookErr
	}
	return "/visualizations/network-1.xlsx", nil
}

type stubReasoning struct {
	reply string
	err   error
}

func (s *stubReasoning) Complete(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

type fixture struct {
	orch     *Orchestrator
	sessions *memSessionRepo
	records  *memAnalysisRepo
	fetcher  *stubFetcher
	search   *stubSearch
	renderer *stubRenderer
}

func newFixture() *fixture {
	f := &fixture{
		sessions: newMemSessionRepo(),
		records:  newMemAnalysisRepo(),
		fetcher:  &stubFetcher{},
		search:   &stubSearch{},
		renderer: &stubRenderer{},
	}
	reasoning := &stubReasoning{reply: `{"hoax_probability": 0.15, "is_hoax": false, "confidence_level": "high", "analysis_summary": "Routine civic reporting.", "red_flags": [], "reasons": ["verifiable source"], "category": "normal", "recommendations": []}`}
	f.orch = NewOrchestrator(
		f.fetcher,
		hoax.NewEngine(reasoning, 0.7, "test context"),
		botdetect.NewEngine(0.6),
		network.NewAnalyzer(),
		f.search,
		f.renderer,
		f.sessions,
		f.records,
	).WithStageTimeout(2 * time.Second)
	return f
}

func awaitTerminal(t *testing.T, session *models.AnalysisSession) map[string]interface{} {
	t.Helper()
	var snapshot map[string]interface{}
	require.Eventually(t, func() bool {
		snapshot = session.Snapshot()
		status := snapshot["status"].(models.SessionStatus)
		return status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)
	return snapshot
}

func TestSubmitRejectsEmptyURL(t *testing.T) {
	f := newFixture()
	_, err := f.orch.Submit(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestPipelineCompletes(t *testing.T) {
	f := newFixture()

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/1")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusCompleted, snapshot["status"])
	assert.Equal(t, 100, snapshot["progress"])
	assert.Empty(t, snapshot["error_message"])

	// Every checkpoint persisted, in pipeline order.
	assert.Equal(t, []int{10, 20, 30, 50, 60, 70, 80, 85, 95, 100}, f.sessions.log())

	record, err := f.orch.Result(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "post-1", record.PostID)
	assert.Equal(t, "city council approves new park budget", record.PostText)
	assert.False(t, record.IsHoax)
	assert.False(t, record.IsBot)
	assert.Equal(t, "/reports/report-1.html", record.ReportPath)
	assert.Equal(t, "/visualizations/network-1.xlsx", record.NetworkVizPath)
	assert.NotEmpty(t, record.NetworkData)
	assert.NotEmpty(t, record.FactCheck)
}

func TestFetchFailureFreezesProgress(t *testing.T) {
	f := newFixture()
	f.fetcher.fetchErr = errors.NotFound("post")

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/404")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusFailed, snapshot["status"])
	assert.Equal(t, 10, snapshot["progress"])
	assert.Equal(t, "post not found", snapshot["error_message"])

	_, err = f.orch.Result(context.Background(), session.ID)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestSearchFailureFailsSession(t *testing.T) {
	f := newFixture()
	f.search.err = fmt.Errorf("search quota exceeded")

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/2")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusFailed, snapshot["status"])
	assert.Equal(t, 60, snapshot["progress"])
	assert.Contains(t, snapshot["error_message"], "search quota exceeded")
}

func TestRendererFailureFailsSession(t *testing.T) {
	f := newFixture()
	f.renderer.workbookErr = fmt.Errorf("disk full")

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/3")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusFailed, snapshot["status"])
	assert.Equal(t, 80, snapshot["progress"])
}

func TestSaveFailureFailsSession(t *testing.T) {
	f := newFixture()
	f.records.failing = true

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/4")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusFailed, snapshot["status"])
	assert.Equal(t, 95, snapshot["progress"])
}

func TestReasoningFailureStillCompletes(t *testing.T) {
	f := newFixture()
	// Degraded reasoning path: the pipeline must still finish on rules.
	f.orch.hoax = hoax.NewEngine(&stubReasoning{err: fmt.Errorf("model offline")}, 0.7, "test context")

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/5")
	require.NoError(t, err)

	snapshot := awaitTerminal(t, session)
	assert.Equal(t, models.StatusCompleted, snapshot["status"])

	record, err := f.orch.Result(context.Background(), session.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, record.RawAnalysis)
}

func TestFactCheckQueryTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "misinfo "
	}
	query := factCheckQuery(long)
	assert.Equal(t, "fact check "+long[:100], query)
	assert.Equal(t, "fact check short claim", factCheckQuery("short claim"))

	// Truncation counts runes, so multi-byte text stays valid UTF-8.
	wide := strings.Repeat("🔥klaim ", 20)
	truncated := factCheckQuery(wide)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, "fact check "+string([]rune(wide)[:100]), truncated)
}

func TestHistoryJoinsAnalysisFields(t *testing.T) {
	f := newFixture()

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/9")
	require.NoError(t, err)
	awaitTerminal(t, session)

	items, err := f.orch.History(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, session.ID, item["session_id"])
	assert.Equal(t, "https://example.com/status/9", item["post_url"])
	assert.Equal(t, "city council approves new park budget", item["text_snippet"])
	assert.Equal(t, false, item["is_hoax"])
	assert.Contains(t, item, "hoax_probability")
}

func TestHistorySurvivesMissingRecord(t *testing.T) {
	f := newFixture()

	session, err := f.orch.Submit(context.Background(), "https://example.com/status/10")
	require.NoError(t, err)
	awaitTerminal(t, session)

	// Simulate a record pruned out from under a completed session.
	f.records.mu.Lock()
	f.records.records = map[int64]*models.AnalysisRecord{}
	f.records.mu.Unlock()

	items, err := f.orch.History(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com/status/10", items[0]["post_url"])
	assert.NotContains(t, items[0], "hoax_probability")
}

// Package analysis sequences the scoring engines against one request and
// owns the session state machine.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hoaxlens/internal"
	"hoaxlens/internal/botdetect"
	"hoaxlens/internal/errors"
	"hoaxlens/internal/hoax"
	"hoaxlens/internal/network"
	"hoaxlens/models"
	"hoaxlens/ports"
)

// DefaultStageTimeout bounds each external collaborator call.
const DefaultStageTimeout = 60 * time.Second

// Orchestrator runs the full analysis pipeline for one post URL per Submit
// call. It is the sole writer of each session it creates; observers poll
// through the session repository.
type Orchestrator struct {
	fetcher  ports.ContentFetcher
	hoax     *hoax.Engine
	bots     *botdetect.Engine
	network  *network.Analyzer
	search   ports.SearchPort
	renderer ports.ReportRenderer
	sessions ports.SessionRepository
	records  ports.AnalysisRepository

	stageTimeout time.Duration
	logger       *internal.Logger
}

func NewOrchestrator(
	fetcher ports.ContentFetcher,
	hoaxEngine *hoax.Engine,
	botEngine *botdetect.Engine,
	networkAnalyzer *network.Analyzer,
	search ports.SearchPort,
	renderer ports.ReportRenderer,
	sessions ports.SessionRepository,
	records ports.AnalysisRepository,
) *Orchestrator {
	return &Orchestrator{
		fetcher:      fetcher,
		hoax:         hoaxEngine,
		bots:         botEngine,
		network:      networkAnalyzer,
		search:       search,
		renderer:     renderer,
		sessions:     sessions,
		records:      records,
		stageTimeout: DefaultStageTimeout,
		logger:       internal.NewDefaultLogger("orchestrator"),
	}
}

// WithStageTimeout overrides the per-collaborator timeout. Intended for
// tests and short-lived deployments.
func (o *Orchestrator) WithStageTimeout(d time.Duration) *Orchestrator {
	if d > 0 {
		o.stageTimeout = d
	}
	return o
}

// Submit validates the request, persists a pending session, and starts the
// pipeline in a background goroutine. The returned session is safe to read
// immediately for its id.
func (o *Orchestrator) Submit(ctx context.Context, postURL string) (*models.AnalysisSession, error) {
	postURL = strings.TrimSpace(postURL)
	if postURL == "" {
		return nil, errors.InvalidInput("post URL must not be empty")
	}

	session := models.NewAnalysisSession(uuid.New(), postURL)
	if err := o.sessions.Create(ctx, session); err != nil {
		return nil, errors.DatabaseError("create session", err)
	}

	o.logger.Info("session %s accepted for %s", session.ID, postURL)
	go o.run(session)

	return session, nil
}

// run executes the pipeline to a terminal state. It never returns an error:
// every failure is recorded on the session.
func (o *Orchestrator) run(session *models.AnalysisSession) {
	ctx := context.Background()

	session.SetStatus(models.StatusProcessing)
	if err := o.checkpoint(ctx, session, models.CheckpointAccepted); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 1: resolve the post and its author.
	content, author, err := o.fetchContent(ctx, session.PostURL)
	if err != nil {
		o.fail(ctx, session, err)
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointFetched); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 2: input snapshot is on the session record now.
	if err := o.checkpoint(ctx, session, models.CheckpointPersisted); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 3+4: hoax and bot scoring run concurrently. Both engines absorb
	// their own degradation, so the group only fails on context cancellation.
	var verdict models.HoaxVerdict
	var botResult models.ScoreResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hctx, cancel := context.WithTimeout(gctx, o.stageTimeout)
		defer cancel()
		verdict = o.hoax.Analyze(hctx, content.Text, *author)
		return nil
	})
	g.Go(func() error {
		botResult = o.bots.Detect(*author)
		return nil
	})
	if err := g.Wait(); err != nil {
		o.fail(ctx, session, err)
		return
	}
	// Checkpoints recorded in pipeline order once both stages finish.
	if err := o.checkpoint(ctx, session, models.CheckpointHoaxScored); err != nil {
		o.fail(ctx, session, err)
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointBotScored); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 5: fact-check retrieval.
	factCheck, err := o.factCheck(ctx, content.Text)
	if err != nil {
		o.fail(ctx, session, err)
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointFactChecked); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 6: spread-network analysis.
	networkReport, spreadGraph, err := o.analyzeNetwork(ctx, content.PostID)
	if err != nil {
		o.fail(ctx, session, err)
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointNetworkDone); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 7: network workbook artifact.
	vizPath, err := o.renderer.RenderNetworkWorkbook(networkReport)
	if err != nil {
		o.fail(ctx, session, errors.Wrap(err, "render network workbook"))
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointVisualization); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 8: final report artifact.
	reportPath, err := o.renderer.RenderReport(reportData(session.PostURL, content, author, verdict, botResult, factCheck, networkReport))
	if err != nil {
		o.fail(ctx, session, errors.Wrap(err, "render report"))
		return
	}
	if err := o.checkpoint(ctx, session, models.CheckpointReportWritten); err != nil {
		o.fail(ctx, session, err)
		return
	}

	// Stage 9: persist the final record and close the session.
	record := buildRecord(content, verdict, botResult, factCheck, spreadGraph, networkReport, reportPath, vizPath)
	recordID, err := o.records.Save(ctx, record)
	if err != nil {
		o.fail(ctx, session, errors.DatabaseError("save analysis record", err))
		return
	}

	session.Complete(recordID)
	if err := o.sessions.Update(ctx, session); err != nil {
		o.logger.Error("session %s completed but final update failed: %v", session.ID, err)
		return
	}
	o.logger.Info("session %s completed, record %d", session.ID, recordID)
}

func (o *Orchestrator) fetchContent(ctx context.Context, postURL string) (*models.ContentItem, *models.AuthorProfile, error) {
	fctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	content, author, err := o.fetcher.Fetch(fctx, postURL)
	if err != nil {
		return nil, nil, err
	}
	if content == nil || author == nil {
		return nil, nil, errors.ExternalService("content fetch", fmt.Errorf("fetcher returned incomplete result"))
	}
	return content, author, nil
}

func (o *Orchestrator) factCheck(ctx context.Context, text string) (*models.FactCheckResults, error) {
	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	query := factCheckQuery(text)
	results, err := o.search.Search(sctx, query)
	if err != nil {
		return nil, errors.ExternalService("fact-check search", err)
	}
	if results == nil {
		results = &models.FactCheckResults{Query: query}
	}
	return results, nil
}

func (o *Orchestrator) analyzeNetwork(ctx context.Context, postID string) (*models.NetworkReport, *models.SpreadGraph, error) {
	nctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	graph, err := o.fetcher.SpreadGraph(nctx, postID)
	if err != nil {
		return nil, nil, errors.ExternalService("spread graph fetch", err)
	}
	report, err := o.network.Analyze(graph)
	if err != nil {
		return nil, nil, err
	}
	return report, graph, nil
}

// checkpoint advances session progress and persists the new state so status
// polling observes every step.
func (o *Orchestrator) checkpoint(ctx context.Context, session *models.AnalysisSession, value int) error {
	session.Advance(value)
	if err := o.sessions.Update(ctx, session); err != nil {
		return errors.DatabaseError("persist session progress", err)
	}
	return nil
}

// fail records the terminal failure with the error description verbatim.
// Progress stays frozen at the last successful checkpoint.
func (o *Orchestrator) fail(ctx context.Context, session *models.AnalysisSession, cause error) {
	o.logger.Error("session %s failed at progress %d: %v", session.ID, session.Progress, cause)
	session.Fail(cause.Error())
	if err := o.sessions.Update(ctx, session); err != nil {
		o.logger.Error("session %s failure could not be persisted: %v", session.ID, err)
	}
}

// factCheckQuery builds the search query from the leading content text.
// Truncation is rune-based so multi-byte characters survive intact.
func factCheckQuery(text string) string {
	return "fact check " + models.Truncate(text, 100)
}

func buildRecord(
	content *models.ContentItem,
	verdict models.HoaxVerdict,
	botResult models.ScoreResult,
	factCheck *models.FactCheckResults,
	graph *models.SpreadGraph,
	networkReport *models.NetworkReport,
	reportPath, vizPath string,
) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		PostID:          content.PostID,
		PostText:        content.Text,
		HoaxProbability: verdict.Probability,
		IsHoax:          verdict.IsHoax,
		RawAnalysis:     verdict.RawAnalysis,
		HoaxReasons: models.JSONBMap{
			"reasons":         verdict.Reasons,
			"red_flags":       verdict.RedFlags,
			"summary":         verdict.Summary,
			"category":        verdict.Category,
			"recommendations": verdict.Recommendations,
		},
		BotProbability: botResult.Probability,
		IsBot:          botResult.Positive,
		FactCheck:      toJSONBMap(factCheck),
		NetworkData: models.JSONBMap{
			"graph":  toJSONBMap(graph),
			"report": toJSONBMap(networkReport),
		},
		ReportPath:     reportPath,
		NetworkVizPath: vizPath,
		CreatedAt:      time.Now(),
	}
}

// reportData is the structured payload handed to the report renderer.
func reportData(
	postURL string,
	content *models.ContentItem,
	author *models.AuthorProfile,
	verdict models.HoaxVerdict,
	botResult models.ScoreResult,
	factCheck *models.FactCheckResults,
	networkReport *models.NetworkReport,
) map[string]interface{} {
	return map[string]interface{}{
		"post_url":           postURL,
		"content":            content,
		"author":             author,
		"hoax_analysis":      verdict,
		"bot_detection":      botResult,
		"fact_check_results": factCheck,
		"network_analysis":   networkReport,
	}
}

// toJSONBMap round-trips any JSON-marshalable value into a JSONB column
// value. Marshal failures yield an empty map rather than a nil column.
func toJSONBMap(v interface{}) models.JSONBMap {
	raw, err := json.Marshal(v)
	if err != nil {
		return models.JSONBMap{}
	}
	out := models.JSONBMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.JSONBMap{}
	}
	return out
}

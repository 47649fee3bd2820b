package hoax

import (
	"context"

	"hoaxlens/internal"
	"hoaxlens/models"
	"hoaxlens/ports"
)

// fallbackMarker is stored in RawAnalysis when the rule evaluator produced
// the verdict, so audits can tell the two paths apart.
const fallbackMarker = "rule-based fallback analysis (reasoning collaborator unavailable)"

// Engine scores a text for misinformation probability. The reasoning
// collaborator is preferred; every failure mode degrades to a deterministic
// local evaluator, so Analyze never returns an error.
type Engine struct {
	reasoning ports.ReasoningPort
	threshold float64
	system    string
	logger    *internal.Logger
}

// NewEngine creates a hoax-content engine. reasoning may be nil, in which
// case every call takes the rule-based path.
func NewEngine(reasoning ports.ReasoningPort, threshold float64, systemContext string) *Engine {
	return &Engine{
		reasoning: reasoning,
		threshold: threshold,
		system:    systemContext,
		logger:    internal.NewDefaultLogger("HoaxEngine"),
	}
}

// Analyze scores one post text in the context of its author.
func (e *Engine) Analyze(ctx context.Context, text string, author models.AuthorProfile) models.HoaxVerdict {
	if e.reasoning == nil {
		return e.ruleEvaluate(text, author)
	}

	reply, err := e.reasoning.Complete(ctx, e.system, buildPrompt(text, author))
	if err != nil {
		e.logger.Warn("reasoning call failed, using rule evaluator: %v", err)
		return e.ruleEvaluate(text, author)
	}

	outcome := parseReply(reply)
	if outcome.Parsed == nil {
		e.logger.Debug("reply carried no parsable JSON, classifying by keywords")
		return e.keywordVerdict(outcome.RawText)
	}

	return e.verdictFromPayload(outcome.Parsed, reply)
}

func (e *Engine) verdictFromPayload(payload *analysisPayload, raw string) models.HoaxVerdict {
	confidence := models.ConfidenceTier(payload.ConfidenceLevel)
	switch confidence {
	case models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh:
	default:
		confidence = models.TierForScore(payload.HoaxProbability)
	}

	return models.HoaxVerdict{
		Probability:     models.Round3(payload.HoaxProbability),
		IsHoax:          payload.IsHoax,
		Confidence:      confidence,
		Summary:         payload.AnalysisSummary,
		RedFlags:        emptyIfNil(payload.RedFlags),
		Reasons:         emptyIfNil(payload.Reasons),
		Category:        payload.Category,
		Recommendations: emptyIfNil(payload.Recommendations),
		RawAnalysis:     raw,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

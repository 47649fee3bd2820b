package hoax

import (
	"encoding/json"
	"regexp"
	"strings"
)

// analysisPayload is the strict JSON shape requested from the reasoning
// collaborator.
type analysisPayload struct {
	HoaxProbability float64  `json:"hoax_probability"`
	IsHoax          bool     `json:"is_hoax"`
	ConfidenceLevel string   `json:"confidence_level"`
	AnalysisSummary string   `json:"analysis_summary"`
	RedFlags        []string `json:"red_flags"`
	Reasons         []string `json:"reasons"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

// parseOutcome is the tagged result of parsing a reasoning reply: either a
// well-formed payload or the raw unparsable text. The fallback path is an
// explicit branch on this type rather than duck-typed field access.
type parseOutcome struct {
	Parsed  *analysisPayload
	RawText string
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseReply extracts and decodes the first JSON object in the reply.
// Markdown code fences are stripped first. An undecodable reply yields an
// Unparsable outcome, never an error.
func parseReply(reply string) parseOutcome {
	cleaned := stripCodeFences(reply)

	match := jsonObjectRe.FindString(cleaned)
	if match == "" {
		return parseOutcome{RawText: reply}
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return parseOutcome{RawText: reply}
	}

	if payload.HoaxProbability < 0 {
		payload.HoaxProbability = 0
	}
	if payload.HoaxProbability > 1 {
		payload.HoaxProbability = 1
	}
	if payload.Category == "" {
		payload.Category = CategoryNormal
	}

	return parseOutcome{Parsed: &payload}
}

func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

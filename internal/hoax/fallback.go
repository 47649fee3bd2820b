package hoax

import (
	"fmt"
	"strings"

	"hoaxlens/models"
)

// Content categories assigned by first keyword-family match, in fixed order.
const (
	CategoryHealth     = "health"
	CategoryPolitical  = "political"
	CategoryDisaster   = "disaster"
	CategoryCelebrity  = "celebrity"
	CategoryFinancial  = "financial"
	CategoryConspiracy = "conspiracy"
	CategoryNormal     = "normal"
)

// hoaxKeywords are the sensational/alarming terms and unverified-claim
// markers used by the rule evaluator.
var hoaxKeywords = []string{
	"breaking", "urgent", "viral", "rahasia", "tersembunyi", "konspirasi",
	"jangan percaya", "pemerintah menyembunyikan", "fakta tersembunyi",
	"akan terjadi", "prediksi", "ramalan", "paranormal", "chip 5g",
	"vaksin berbahaya", "obat ajaib", "sembuh total", "tanpa efek samping",
}

type categoryFamily struct {
	name     string
	keywords []string
}

var categoryFamilies = []categoryFamily{
	{CategoryHealth, []string{"vaksin", "obat", "virus", "covid", "kesehatan", "penyakit", "dokter"}},
	{CategoryPolitical, []string{"pemerintah", "presiden", "politik", "pemilu", "partai", "menteri"}},
	{CategoryDisaster, []string{"gempa", "banjir", "tsunami", "bencana", "darurat", "evakuasi"}},
	{CategoryCelebrity, []string{"artis", "selebriti", "aktor", "penyanyi", "viral"}},
	{CategoryFinancial, []string{"investasi", "saham", "crypto", "bitcoin", "uang", "bisnis"}},
	{CategoryConspiracy, []string{"konspirasi", "rahasia", "tersembunyi", "illuminati", "freemason"}},
}

// classifyCategory returns the first matching keyword family, or normal.
func classifyCategory(text string) string {
	lower := strings.ToLower(text)
	for _, family := range categoryFamilies {
		for _, keyword := range family.keywords {
			if strings.Contains(lower, keyword) {
				return family.name
			}
		}
	}
	return CategoryNormal
}

// ruleEvaluate is the deterministic fallback scorer used when the reasoning
// collaborator is unavailable. Keyword matches drive a content-suspicion
// score capped at 0.7; author metrics add up to 0.5 more; the total is
// clamped to [0,1].
func (e *Engine) ruleEvaluate(text string, author models.AuthorProfile) models.HoaxVerdict {
	lower := strings.ToLower(text)

	var matched []string
	for _, keyword := range hoaxKeywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}

	contentScore := float64(len(matched)) * 0.2
	if contentScore > 0.7 {
		contentScore = 0.7
	}

	var authorScore float64
	if author.FollowersCount > 0 {
		ratio := float64(author.FollowingCount) / float64(author.FollowersCount)
		if ratio > 2 {
			authorScore += 0.3
		}
	}
	if author.FollowersCount < 100 {
		authorScore += 0.2
	}

	total := contentScore + authorScore
	if total > 1 {
		total = 1
	}
	total = models.Round3(total)

	return models.HoaxVerdict{
		Probability: total,
		IsHoax:      total > e.threshold,
		Confidence:  models.ConfidenceMedium,
		Summary: fmt.Sprintf("Rule-based analysis from %d suspicious keywords and author account metrics.",
			len(matched)),
		RedFlags: matched,
		Reasons:  ruleReasons(len(matched), authorScore),
		Category: classifyCategory(lower),
		Recommendations: []string{
			"Verify the information against trusted sources",
			"Check the date and context of the claim",
			"Look for confirmation from official mass media",
		},
		RawAnalysis: fallbackMarker,
	}
}

func ruleReasons(keywordMatches int, authorScore float64) []string {
	var reasons []string
	if keywordMatches > 0 {
		reasons = append(reasons, fmt.Sprintf("Contains %d keywords commonly used in hoaxes", keywordMatches))
	}
	if authorScore > 0.2 {
		reasons = append(reasons, "Author account metrics show suspicious characteristics")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "No clear hoax indicators detected")
	}
	return reasons
}

// keywordVerdict classifies a free-text reasoning reply that carried no
// parsable JSON. Confidence is forced to low.
func (e *Engine) keywordVerdict(reply string) models.HoaxVerdict {
	indicators := []string{"hoax", "fake", "false", "palsu", "tidak benar", "misinformation", "misinformasi"}

	lower := strings.ToLower(reply)
	isHoax := false
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			isHoax = true
			break
		}
	}

	probability := 0.3
	if isHoax {
		probability = 0.6
	}

	summary := models.Truncate(reply, 200)
	if summary != reply {
		summary += "..."
	}

	return models.HoaxVerdict{
		Probability:     probability,
		IsHoax:          isHoax,
		Confidence:      models.ConfidenceLow,
		Summary:         summary,
		RedFlags:        []string{},
		Reasons:         []string{"Classification derived from the collaborator's free-text reply"},
		Category:        CategoryNormal,
		Recommendations: []string{"Further verification required", "Consult a subject-matter expert"},
		RawAnalysis:     reply,
	}
}

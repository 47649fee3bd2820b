package botdetect

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"hoaxlens/internal/scoring"
	"hoaxlens/models"
)

// Factor names used by the automation-probability model.
const (
	FactorUsername     = "username_pattern"
	FactorDisplayName  = "display_name_pattern"
	FactorRatio        = "follower_ratio"
	FactorAccountAge   = "account_age"
	FactorFrequency    = "post_frequency"
	FactorCompleteness = "profile_completeness"
	FactorBio          = "bio_pattern"
)

// The observed weight table sums to 1.35; the engine normalizes it to a 1.0
// budget at construction so the composite score stays in [0,1].
var factorWeights = map[string]float64{
	FactorUsername:     0.30,
	FactorDisplayName:  0.20,
	FactorRatio:        0.25,
	FactorAccountAge:   0.15,
	FactorFrequency:    0.10,
	FactorCompleteness: 0.15,
	FactorBio:          0.20,
}

var factorLabels = map[string]string{
	FactorUsername:     "suspicious username pattern",
	FactorDisplayName:  "suspicious display name pattern",
	FactorRatio:        "abnormal follower/following ratio",
	FactorAccountAge:   "account is very new",
	FactorFrequency:    "abnormal posting frequency",
	FactorCompleteness: "incomplete profile",
	FactorBio:          "suspicious bio pattern",
}

var suspiciousUsernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[a-z]+\d{4,}$`),
	regexp.MustCompile(`(?i)^[a-z]+_\d{4,}$`),
	regexp.MustCompile(`(?i)^\d+[a-z]+\d+$`),
	regexp.MustCompile(`(?i)^(user|bot|account)\d+$`),
	regexp.MustCompile(`(?i)^[a-z]{1,3}\d{6,}$`),
}

var (
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	urlRe     = regexp.MustCompile(`https?://[^\s]+`)
)

var genericNames = []string{"user", "account", "info", "news", "update", "official"}

var automationKeywords = []string{"bot", "automated", "auto", "script", "program"}

// Engine computes an automation probability for an account profile. Detect
// is a pure function of its input, so a single engine instance is safe for
// concurrent use.
type Engine struct {
	model     *scoring.Model
	threshold float64
	now       func() time.Time
}

// NewEngine creates a bot-detection engine with the given classification
// threshold.
func NewEngine(threshold float64) *Engine {
	return &Engine{
		model:     scoring.NewNormalizedModel(factorWeights),
		threshold: threshold,
		now:       time.Now,
	}
}

// Detect scores one profile against the factor table and classifies it.
func (e *Engine) Detect(profile models.AuthorProfile) models.ScoreResult {
	scores := map[string]float64{
		FactorUsername:     scoreUsername(profile.Username),
		FactorDisplayName:  scoreDisplayName(profile.DisplayName),
		FactorRatio:        scoreFollowerRatio(profile.FollowersCount, profile.FollowingCount),
		FactorAccountAge:   e.scoreAccountAge(profile.CreatedAt),
		FactorFrequency:    e.scorePostFrequency(profile.PostCount, profile.CreatedAt),
		FactorCompleteness: scoreCompleteness(profile),
		FactorBio:          scoreBio(profile.Bio),
	}

	// Every factor has a weight, so Combine cannot fail here.
	total, _ := e.model.Combine(scores)
	total = models.Round3(total)
	isBot := total > e.threshold

	return models.ScoreResult{
		Probability:     total,
		Positive:        isBot,
		Confidence:      models.TierForScore(total),
		FactorScores:    scores,
		Explanation:     explain(scores, total),
		RiskFactors:     riskFactors(scores),
		Recommendations: recommendations(scores, isBot),
	}
}

func scoreUsername(username string) float64 {
	if username == "" {
		return 0.5
	}
	for _, re := range suspiciousUsernamePatterns {
		if re.MatchString(username) {
			return 0.8
		}
	}
	if lowCharDiversity(username, 0.5) {
		return 0.6
	}
	if len(username) > 15 {
		return 0.4
	}
	return 0.1
}

func scoreDisplayName(name string) float64 {
	if name == "" {
		return 0.3
	}
	symbols := len(nonWordRe.FindAllString(name, -1))
	if float64(symbols) > float64(len(name))*0.3 {
		return 0.6
	}
	lower := strings.ToLower(name)
	for _, generic := range genericNames {
		if strings.Contains(lower, generic) {
			return 0.5
		}
	}
	return 0.1
}

func scoreFollowerRatio(followers, following int) float64 {
	if followers == 0 && following == 0 {
		return 0.7 // empty shell
	}
	if followers == 0 {
		return 0.8
	}

	ratio := float64(following) / float64(followers)
	switch {
	case ratio > 10:
		return 0.9
	case ratio > 5:
		return 0.7
	case ratio > 2:
		return 0.5
	case ratio < 0.1:
		return 0.3
	default:
		return 0.1
	}
}

func (e *Engine) scoreAccountAge(createdAt *time.Time) float64 {
	if createdAt == nil {
		return 0.5
	}
	ageDays := e.now().Sub(*createdAt).Hours() / 24
	switch {
	case ageDays < 30:
		return 0.8
	case ageDays < 90:
		return 0.6
	case ageDays < 365:
		return 0.3
	default:
		return 0.1
	}
}

func (e *Engine) scorePostFrequency(postCount int, createdAt *time.Time) float64 {
	if createdAt == nil || postCount == 0 {
		return 0.5
	}
	ageDays := e.now().Sub(*createdAt).Hours() / 24
	if ageDays < 1 {
		ageDays = 1
	}

	perDay := float64(postCount) / ageDays
	switch {
	case perDay > 50:
		return 0.9
	case perDay > 20:
		return 0.7
	case perDay > 10:
		return 0.5
	case perDay < 0.1:
		return 0.3
	default:
		return 0.1
	}
}

func scoreCompleteness(profile models.AuthorProfile) float64 {
	const totalFields = 5
	present := 0
	if profile.Bio != "" {
		present++
	}
	if profile.HasProfileImage() {
		present++
	}
	if profile.Verified {
		present++
	}
	if profile.DisplayName != "" {
		present++
	}
	if profile.FollowersCount > 0 {
		present++
	}
	incompleteness := 1 - float64(present)/totalFields
	return incompleteness * 0.8
}

func scoreBio(bio string) float64 {
	if bio == "" {
		return 0.4
	}
	if len(bio) < 10 {
		return 0.6
	}
	lower := strings.ToLower(bio)
	for _, keyword := range automationKeywords {
		if strings.Contains(lower, keyword) {
			return 0.9
		}
	}
	if len(urlRe.FindAllString(bio, -1)) > 2 {
		return 0.7
	}
	if lowCharDiversity(bio, 0.3) {
		return 0.5
	}
	return 0.1
}

// lowCharDiversity reports whether the distinct-rune count falls below the
// given fraction of the string length.
func lowCharDiversity(s string, fraction float64) bool {
	distinct := make(map[rune]struct{})
	for _, r := range s {
		distinct[r] = struct{}{}
	}
	return float64(len(distinct)) < float64(len([]rune(s)))*fraction
}

func explain(scores map[string]float64, total float64) string {
	var explanation string
	switch {
	case total > 0.8:
		explanation = fmt.Sprintf("This account has a high probability (%.1f%%) of being automated. ", total*100)
	case total > 0.6:
		explanation = fmt.Sprintf("This account has a moderate probability (%.1f%%) of being automated. ", total*100)
	default:
		explanation = fmt.Sprintf("This account has a low probability (%.1f%%) of being automated. ", total*100)
	}

	high := riskFactors(scores)
	if len(high) > 0 {
		explanation += "Main risk factors: " + strings.Join(high, ", ") + "."
	}
	return explanation
}

// riskFactors lists, in fixed factor order, every factor scoring above 0.6.
func riskFactors(scores map[string]float64) []string {
	order := []string{
		FactorUsername, FactorDisplayName, FactorRatio, FactorAccountAge,
		FactorFrequency, FactorCompleteness, FactorBio,
	}
	var factors []string
	for _, factor := range order {
		if scores[factor] > 0.6 {
			factors = append(factors, factorLabels[factor])
		}
	}
	return factors
}

func recommendations(scores map[string]float64, isBot bool) []string {
	var recs []string
	if isBot {
		recs = append(recs,
			"Treat information from this account with caution",
			"Verify claims against independent sources",
			"Consider reporting the account if activity looks coordinated")
	} else {
		recs = append(recs,
			"Account looks normal, but still verify the information",
			"Judge credibility by the content the account shares")
	}

	if scores[FactorRatio] > 0.6 {
		recs = append(recs, "Inspect the quality of followers and followed accounts")
	}
	if scores[FactorAccountAge] > 0.6 {
		recs = append(recs, "Account is new; wait for a longer track record")
	}
	if scores[FactorFrequency] > 0.6 {
		recs = append(recs, "Posting frequency is abnormal; review the activity pattern")
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

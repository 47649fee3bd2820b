package models

import (
	"strconv"
	"time"
)

// Truncate returns at most max runes of s. Slicing on runes keeps multi-byte
// characters intact.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// AuthorProfile is an immutable snapshot of the account that published the
// content under analysis. It is engine input only; engines never mutate it.
type AuthorProfile struct {
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	DisplayName     string     `json:"display_name"`
	Bio             string     `json:"bio"`
	FollowersCount  int        `json:"followers_count"`
	FollowingCount  int        `json:"following_count"`
	PostCount       int        `json:"post_count"`
	Verified        bool       `json:"verified"`
	ProfileImageURL string     `json:"profile_image_url"`
	CreatedAt       *time.Time `json:"account_creation_date,omitempty"`
}

// HasProfileImage reports whether the profile carries an avatar.
func (p AuthorProfile) HasProfileImage() bool {
	return p.ProfileImageURL != ""
}

// ContentItem is an immutable snapshot of one post.
type ContentItem struct {
	PostID       string     `json:"post_id"`
	URL          string     `json:"url"`
	Text         string     `json:"text"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	ReshareCount int        `json:"reshare_count"`
	LikeCount    int        `json:"like_count"`
	ReplyCount   int        `json:"reply_count"`
	QuoteCount   int        `json:"quote_count"`
}

// Node roles in a spread-event graph. Exactly one node per graph carries
// RoleOriginal.
const (
	RoleOriginal  = "original"
	RoleResharer  = "resharer"
	RoleReplier   = "replier"
	RoleMentioner = "mentioner"
)

// Edge interaction types.
const (
	InteractionReshare = "reshare"
	InteractionReply   = "reply"
	InteractionMention = "mention"
)

// SpreadNode is one actor in the spread-event graph.
type SpreadNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Role      string  `json:"role"`
	Followers int     `json:"followers"`
	Influence float64 `json:"influence_score"`
}

// SpreadEdge is one interaction between two declared actors. Weight is in
// (0,1].
type SpreadEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// SpreadGraph is the raw input to the network analyzer. A zero-node graph is
// a valid degenerate input.
type SpreadGraph struct {
	Nodes []SpreadNode `json:"nodes"`
	Edges []SpreadEdge `json:"edges"`
}

// Search stance labels for fact-check results.
const (
	StanceSupporting    = "supporting"
	StanceContradicting = "contradicting"
	StanceNeutral       = "neutral"
)

// SearchResult is one web result returned by the search collaborator.
type SearchResult struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Relevance   float64 `json:"relevance_score"`
	Stance      string  `json:"stance"`
	Credibility string  `json:"source_credibility"`
}

// FactCheckResults groups search results by stance for one query.
type FactCheckResults struct {
	Query         string         `json:"query"`
	TotalResults  int            `json:"total_results"`
	Results       []SearchResult `json:"results"`
	Supporting    []SearchResult `json:"supporting_sources"`
	Contradicting []SearchResult `json:"contradicting_sources"`
	Neutral       []SearchResult `json:"neutral_sources"`
}

// Summary condenses the stance groups into a verdict hint for the report.
func (f *FactCheckResults) Summary() map[string]interface{} {
	supporting := len(f.Supporting)
	contradicting := len(f.Contradicting)
	neutral := len(f.Neutral)
	total := supporting + contradicting + neutral

	if total == 0 {
		return map[string]interface{}{
			"summary":        "Not enough information found for verification.",
			"confidence":     "low",
			"recommendation": "Retry the search with different keywords.",
		}
	}

	supportPct := float64(supporting) / float64(total) * 100
	contradictPct := float64(contradicting) / float64(total) * 100

	switch {
	case contradictPct > 50:
		return map[string]interface{}{
			"summary":        "Most sources (" + strconv.FormatFloat(contradictPct, 'f', 1, 64) + "%) dispute this claim.",
			"confidence":     "high",
			"recommendation": "The claim is likely inaccurate or a hoax.",
		}
	case supportPct > 50:
		return map[string]interface{}{
			"summary":        "Most sources (" + strconv.FormatFloat(supportPct, 'f', 1, 64) + "%) support this claim.",
			"confidence":     "medium",
			"recommendation": "The claim is likely accurate but deserves further verification.",
		}
	default:
		return map[string]interface{}{
			"summary":        "Sources are mixed on this claim.",
			"confidence":     "medium",
			"recommendation": "Deeper analysis is needed to judge accuracy.",
		}
	}
}

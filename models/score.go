package models

import "math"

// Confidence tiers derived from a continuous probability.
type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
)

// TierForScore buckets a probability into a confidence tier.
func TierForScore(score float64) ConfidenceTier {
	switch {
	case score > 0.8:
		return ConfidenceHigh
	case score > 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoreResult is the common output shape of the scoring engines. Instances
// are produced fresh per analysis and never mutated afterwards.
type ScoreResult struct {
	Probability     float64            `json:"probability"`
	Positive        bool               `json:"positive"`
	Confidence      ConfidenceTier     `json:"confidence_level"`
	FactorScores    map[string]float64 `json:"scores,omitempty"`
	Explanation     string             `json:"explanation,omitempty"`
	RiskFactors     []string           `json:"risk_factors,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// HoaxVerdict extends ScoreResult with content-specific fields.
type HoaxVerdict struct {
	Probability     float64        `json:"hoax_probability"`
	IsHoax          bool           `json:"is_hoax"`
	Confidence      ConfidenceTier `json:"confidence_level"`
	Summary         string         `json:"analysis_summary"`
	RedFlags        []string       `json:"red_flags"`
	Reasons         []string       `json:"reasons"`
	Category        string         `json:"category"`
	Recommendations []string       `json:"recommendations"`
	// RawAnalysis retains the reasoning collaborator's reply verbatim, or a
	// marker noting the rule-based fallback was used.
	RawAnalysis string `json:"raw_analysis"`
}

// NetworkMetrics are the structural measures of one spread graph.
type NetworkMetrics struct {
	NumNodes             int                           `json:"num_nodes"`
	NumEdges             int                           `json:"num_edges"`
	Density              float64                       `json:"density"`
	NumComponents        int                           `json:"num_components"`
	LargestComponentSize int                           `json:"largest_component_size"`
	AvgDegree            float64                       `json:"avg_degree"`
	Centrality           map[string]map[string]float64 `json:"centrality_measures"`
}

// InfluentialNode is one entry of the ranked influence list.
type InfluentialNode struct {
	NodeID           string  `json:"node_id"`
	Label            string  `json:"label"`
	Role             string  `json:"role"`
	Followers        int     `json:"followers"`
	InfluenceScore   float64 `json:"influence_score"`
	PageRank         float64 `json:"pagerank"`
	DegreeCentrality float64 `json:"degree_centrality"`
}

// Community is one detected community and its internal structure.
type Community struct {
	CommunityID int      `json:"community_id"`
	Nodes       []string `json:"nodes"`
	Size        int      `json:"size"`
	Density     float64  `json:"density"`
}

// Community detection methods, in fallback order. MethodTrivial is a
// first-class outcome so callers can assert the chain bottomed out.
const (
	CommunityMethodLouvain = "louvain"
	CommunityMethodGreedy  = "greedy-modularity"
	CommunityMethodTrivial = "trivial"
)

// CommunityReport is the partition produced by the strategy chain.
type CommunityReport struct {
	Communities    []Community `json:"communities"`
	Modularity     float64     `json:"modularity"`
	NumCommunities int         `json:"num_communities"`
	Method         string      `json:"method"`
}

// SpreadPatterns are the derived spread-behavior scores.
type SpreadPatterns struct {
	ViralPotential float64 `json:"viral_potential"`
	EchoChamber    float64 `json:"echo_chamber_score"`
	BotInfluence   float64 `json:"bot_influence"`
	SpreadVelocity float64 `json:"spread_velocity"`
}

// Spread-type labels, first matching rule wins.
const (
	SpreadViral        = "viral"
	SpreadEchoChamber  = "echo-chamber"
	SpreadBotDriven    = "bot-driven"
	SpreadConcentrated = "concentrated"
	SpreadOrganic      = "organic"
)

// NetworkReport is the full output of the network analyzer.
type NetworkReport struct {
	Metrics          NetworkMetrics    `json:"network_metrics"`
	InfluentialNodes []InfluentialNode `json:"influential_nodes"`
	Communities      CommunityReport   `json:"communities"`
	Patterns         SpreadPatterns    `json:"spread_patterns"`
	SpreadType       string            `json:"spread_type"`
	RiskScore        float64           `json:"risk_score"`
	RiskLevel        string            `json:"risk_level"`
	TotalNodes       int               `json:"total_nodes"`
	TotalEdges       int               `json:"total_edges"`
}

// Round3 rounds to the 3-decimal precision used throughout reports.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

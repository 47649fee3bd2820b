// Package network analyzes how a piece of content moved through a social
// graph: structural metrics, influence ranking, community structure, and a
// spread-risk classification.
package network

import (
	"github.com/montanaflynn/stats"

	"hoaxlens/internal"
	"hoaxlens/models"
)

const topInfluentialNodes = 10

// Analyzer turns a raw spread graph into a NetworkReport. It holds no
// per-call state and is safe for concurrent use.
type Analyzer struct {
	logger *internal.Logger
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{logger: internal.NewDefaultLogger("network")}
}

// Analyze validates the input graph and assembles the full report. Invalid
// input is the only error path; centrality or community failures degrade to
// partial results instead of failing the analysis.
func (a *Analyzer) Analyze(input *models.SpreadGraph) (*models.NetworkReport, error) {
	if input == nil {
		input = &models.SpreadGraph{}
	}

	sg, err := buildSpreadGraph(input)
	if err != nil {
		return nil, err
	}

	if sg.numNodes() == 0 {
		return emptyReport(), nil
	}

	centrality := sg.computeCentrality()
	if !centrality.ok {
		a.logger.Warn("centrality computation failed, ranking on prior influence only")
	}

	patterns := sg.spreadPatterns()
	density := sg.density()
	components, largest := sg.componentStats()

	report := &models.NetworkReport{
		Metrics: models.NetworkMetrics{
			NumNodes:             sg.numNodes(),
			NumEdges:             sg.numEdges(),
			Density:              models.Round3(density),
			NumComponents:        components,
			LargestComponentSize: largest,
			AvgDegree:            models.Round3(sg.avgDegree()),
			Centrality:           centrality.measureMaps(),
		},
		InfluentialNodes: sg.rankInfluentialNodes(centrality, topInfluentialNodes),
		Communities:      sg.detectCommunities(),
		Patterns:         patterns,
		SpreadType:       classifySpreadType(patterns, density),
		RiskScore:        aggregateRisk(patterns, density),
		TotalNodes:       sg.numNodes(),
		TotalEdges:       sg.numEdges(),
	}
	report.RiskLevel = riskLevel(report.RiskScore)

	a.logger.Debug("analyzed graph: %d nodes, %d edges, spread type %s, risk %.3f",
		report.TotalNodes, report.TotalEdges, report.SpreadType, report.RiskScore)

	return report, nil
}

func (sg *spreadGraph) avgDegree() float64 {
	n := sg.numNodes()
	if n == 0 {
		return 0
	}
	degrees := make([]float64, 0, n)
	for id := int64(0); id < int64(n); id++ {
		degrees = append(degrees, float64(sg.degree(id)))
	}
	mean, err := stats.Mean(degrees)
	if err != nil {
		return 0
	}
	return mean
}

// emptyReport is the degenerate result for a zero-node graph. Every field
// stays populated so downstream serialization never sees nil maps.
func emptyReport() *models.NetworkReport {
	return &models.NetworkReport{
		Metrics: models.NetworkMetrics{
			Centrality: map[string]map[string]float64{},
		},
		InfluentialNodes: []models.InfluentialNode{},
		Communities: models.CommunityReport{
			Communities: []models.Community{},
			Method:      models.CommunityMethodTrivial,
		},
		SpreadType: models.SpreadOrganic,
		RiskLevel:  "low",
	}
}

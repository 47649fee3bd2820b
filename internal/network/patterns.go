package network

import (
	"github.com/montanaflynn/stats"

	"hoaxlens/models"
)

// spreadPatterns derives the behavioral scores from graph structure and node
// attributes.
func (sg *spreadGraph) spreadPatterns() models.SpreadPatterns {
	return models.SpreadPatterns{
		ViralPotential: models.Round3(sg.viralPotential()),
		EchoChamber:    models.Round3(sg.echoChamberScore()),
		BotInfluence:   models.Round3(sg.botInfluenceRatio()),
		SpreadVelocity: models.Round3(sg.spreadVelocity()),
	}
}

// viralPotential combines reshare volume with total follower reach,
// normalized into [0,1].
func (sg *spreadGraph) viralPotential() float64 {
	if sg.numNodes() == 0 {
		return 0
	}

	reshares := len(sg.edgesOfType(models.InteractionReshare))

	totalFollowers := 0
	for _, node := range sg.nodes {
		totalFollowers += node.Followers
	}

	score := (float64(reshares)*0.3 + float64(totalFollowers)*0.0001) / 10
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// echoChamberScore is the average clustering coefficient of the undirected
// projection; zero for graphs of fewer than three nodes.
func (sg *spreadGraph) echoChamberScore() float64 {
	n := sg.numNodes()
	if n < 3 {
		return 0
	}

	coefficients := make([]float64, 0, n)
	for id := int64(0); id < int64(n); id++ {
		coefficients = append(coefficients, sg.clusteringCoefficient(id))
	}

	mean, err := stats.Mean(coefficients)
	if err != nil {
		return 0
	}
	return mean
}

// clusteringCoefficient is the fraction of a node's neighbor pairs that are
// themselves connected.
func (sg *spreadGraph) clusteringCoefficient(id int64) float64 {
	neighbors := sg.neighbors(id)
	k := len(neighbors)
	if k < 2 {
		return 0
	}

	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if sg.undirected.HasEdgeBetween(neighbors[i].ID(), neighbors[j].ID()) {
				links++
			}
		}
	}
	return float64(2*links) / float64(k*(k-1))
}

// botInfluenceRatio is the fraction of nodes whose prior influence estimate
// falls below the automation cutoff.
const botInfluenceCutoff = 0.3

func (sg *spreadGraph) botInfluenceRatio() float64 {
	n := sg.numNodes()
	if n == 0 {
		return 0
	}
	suspect := 0
	for _, node := range sg.nodes {
		if node.Influence < botInfluenceCutoff {
			suspect++
		}
	}
	return float64(suspect) / float64(n)
}

// spreadVelocity is the edge/node ratio capped at 10.
func (sg *spreadGraph) spreadVelocity() float64 {
	n := sg.numNodes()
	if n == 0 || sg.numEdges() == 0 {
		return 0
	}
	velocity := float64(sg.numEdges()) / float64(n)
	if velocity > 10 {
		velocity = 10
	}
	return velocity
}

func (sg *spreadGraph) edgesOfType(interaction string) []models.SpreadEdge {
	var matched []models.SpreadEdge
	for _, edge := range sg.inputEdges {
		if edge.Type == interaction && edge.From != edge.To {
			matched = append(matched, edge)
		}
	}
	return matched
}

// classifySpreadType applies the first matching rule, in fixed order.
func classifySpreadType(patterns models.SpreadPatterns, density float64) string {
	switch {
	case patterns.ViralPotential > 0.7:
		return models.SpreadViral
	case patterns.EchoChamber > 0.6:
		return models.SpreadEchoChamber
	case patterns.BotInfluence > 0.5:
		return models.SpreadBotDriven
	case density > 0.5:
		return models.SpreadConcentrated
	default:
		return models.SpreadOrganic
	}
}

// Aggregate network-risk weights.
const (
	riskViralWeight   = 0.3
	riskBotWeight     = 0.4
	riskEchoWeight    = 0.2
	riskDensityWeight = 0.1
	riskDensityCap    = 0.5
)

func aggregateRisk(patterns models.SpreadPatterns, density float64) float64 {
	if density > riskDensityCap {
		density = riskDensityCap
	}
	risk := patterns.ViralPotential*riskViralWeight +
		patterns.BotInfluence*riskBotWeight +
		patterns.EchoChamber*riskEchoWeight +
		density*riskDensityWeight
	return models.Round3(risk)
}

func riskLevel(risk float64) string {
	switch {
	case risk > 0.7:
		return "high"
	case risk > 0.4:
		return "medium"
	default:
		return "low"
	}
}

package network

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/topo"

	"hoaxlens/models"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// centralityResult carries the per-node centrality maps. ok is false when
// the computation failed and the maps are empty; callers must then fall back
// to prior influence estimates.
type centralityResult struct {
	ok          bool
	degree      map[string]float64
	betweenness map[string]float64
	closeness   map[string]float64
	pageRank    map[string]float64
}

// computeCentrality evaluates degree, betweenness, closeness and PageRank
// over the directed graph. A panic from any underlying algorithm on a
// pathological graph degrades to an empty result instead of aborting the
// analysis.
func (sg *spreadGraph) computeCentrality() (result centralityResult) {
	defer func() {
		if r := recover(); r != nil {
			result = centralityResult{}
		}
	}()

	n := sg.numNodes()
	if n == 0 {
		return centralityResult{}
	}

	result = centralityResult{
		ok:          true,
		degree:      make(map[string]float64, n),
		betweenness: make(map[string]float64, n),
		closeness:   make(map[string]float64, n),
		pageRank:    make(map[string]float64, n),
	}

	for id, actor := range sg.actorIDs {
		d := 0.0
		if n > 1 {
			d = float64(sg.degree(int64(id))) / float64(n-1)
		}
		result.degree[actor] = d
	}

	between := network.Betweenness(sg.directed)
	pr := network.PageRank(sg.directed, pageRankDamping, pageRankTolerance)
	closeMap := network.Closeness(sg.directed, path.DijkstraAllPaths(sg.directed))

	for id, actor := range sg.actorIDs {
		result.betweenness[actor] = finiteOrZero(between[int64(id)])
		result.closeness[actor] = finiteOrZero(closeMap[int64(id)])
		result.pageRank[actor] = finiteOrZero(pr[int64(id)])
	}

	return result
}

// measureMaps flattens the result into the report's centrality map, rounded
// for serialization.
func (c centralityResult) measureMaps() map[string]map[string]float64 {
	if !c.ok {
		return map[string]map[string]float64{}
	}
	round := func(m map[string]float64) map[string]float64 {
		out := make(map[string]float64, len(m))
		for k, v := range m {
			out[k] = models.Round3(v)
		}
		return out
	}
	return map[string]map[string]float64{
		"degree":      round(c.degree),
		"betweenness": round(c.betweenness),
		"closeness":   round(c.closeness),
		"pagerank":    round(c.pageRank),
	}
}

// Composite influence weights for the ranked node list.
const (
	influencePageRankWeight = 0.4
	influenceDegreeWeight   = 0.3
	influencePriorWeight    = 0.3
)

// rankInfluentialNodes combines PageRank, degree centrality and the prior
// influence estimate, descending. When centrality failed upstream the
// PageRank and degree terms are zero and the ranking degrades to the prior
// estimate alone.
func (sg *spreadGraph) rankInfluentialNodes(c centralityResult, topN int) []models.InfluentialNode {
	ranked := make([]models.InfluentialNode, 0, sg.numNodes())

	for _, node := range sg.nodes {
		pr := c.pageRank[node.ID]
		deg := c.degree[node.ID]
		score := pr*influencePageRankWeight + deg*influenceDegreeWeight + node.Influence*influencePriorWeight
		if !c.ok {
			score = node.Influence
		}

		ranked = append(ranked, models.InfluentialNode{
			NodeID:           node.ID,
			Label:            node.Label,
			Role:             node.Role,
			Followers:        node.Followers,
			InfluenceScore:   models.Round3(score),
			PageRank:         models.Round3(pr),
			DegreeCentrality: models.Round3(deg),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InfluenceScore > ranked[j].InfluenceScore
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// finiteOrZero maps the NaN/Inf values that closeness can yield on
// disconnected graphs to zero so reports stay serializable.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// componentStats returns the weakly-connected-component count and the size
// of the largest component.
func (sg *spreadGraph) componentStats() (count, largest int) {
	if sg.numNodes() == 0 {
		return 0, 0
	}
	components := topo.ConnectedComponents(sg.undirected)
	for _, component := range components {
		if len(component) > largest {
			largest = len(component)
		}
	}
	return len(components), largest
}

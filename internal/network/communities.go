package network

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"

	"hoaxlens/models"
)

var errPartitionFailed = errors.New("community partition failed")

// communityStrategy is one partition algorithm in the fallback chain. An
// error moves the chain to the next strategy.
type communityStrategy struct {
	name string
	run  func(sg *spreadGraph) ([][]int64, error)
}

// communityStrategies, tried in order. The trivial outcome is a first-class
// result so callers can tell the chain bottomed out.
var communityStrategies = []communityStrategy{
	{models.CommunityMethodLouvain, louvainPartition},
	{models.CommunityMethodGreedy, greedyModularityPartition},
	{models.CommunityMethodTrivial, trivialPartition},
}

// detectCommunities runs the strategy chain and assembles the report. Graphs
// with fewer than three nodes go straight to the trivial partition.
func (sg *spreadGraph) detectCommunities() models.CommunityReport {
	if sg.numNodes() < 3 {
		return sg.communityReport(models.CommunityMethodTrivial, mustTrivial(sg))
	}

	for _, strategy := range communityStrategies {
		partition, err := strategy.run(sg)
		if err != nil {
			continue
		}
		return sg.communityReport(strategy.name, partition)
	}

	// Unreachable: the trivial strategy cannot fail.
	return sg.communityReport(models.CommunityMethodTrivial, mustTrivial(sg))
}

func (sg *spreadGraph) communityReport(method string, partition [][]int64) models.CommunityReport {
	report := models.CommunityReport{
		Method:      method,
		Communities: make([]models.Community, 0, len(partition)),
	}

	if method != models.CommunityMethodTrivial && sg.numNodes() > 0 {
		report.Modularity = models.Round3(sg.modularity(partition))
	}

	for i, member := range partition {
		actors := make([]string, 0, len(member))
		for _, id := range member {
			actors = append(actors, sg.actorIDs[id])
		}
		sort.Strings(actors)
		report.Communities = append(report.Communities, models.Community{
			CommunityID: i,
			Nodes:       actors,
			Size:        len(member),
			Density:     models.Round3(sg.subgraphDensity(member)),
		})
	}
	report.NumCommunities = len(report.Communities)
	return report
}

// louvainPartition runs gonum's modularity-maximizing partitioner over the
// undirected projection. The library panics on inputs it cannot handle;
// that is translated to an error so the chain can fall through.
func louvainPartition(sg *spreadGraph) (partition [][]int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			partition = nil
			err = errPartitionFailed
		}
	}()

	reduced := community.Modularize(sg.undirected, 1.0, nil)
	for _, comm := range reduced.Communities() {
		members := make([]int64, 0, len(comm))
		for _, node := range comm {
			members = append(members, node.ID())
		}
		partition = append(partition, members)
	}
	if len(partition) == 0 {
		return nil, errPartitionFailed
	}
	return partition, nil
}

// greedyModularityPartition agglomerates singleton communities, repeatedly
// merging the connected pair with the best modularity gain until no merge
// improves the partition.
func greedyModularityPartition(sg *spreadGraph) (partition [][]int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			partition = nil
			err = errPartitionFailed
		}
	}()

	n := sg.numNodes()
	partition = make([][]int64, n)
	for i := range partition {
		partition[i] = []int64{int64(i)}
	}

	current := sg.modularity(partition)
	for len(partition) > 1 {
		bestI, bestJ := -1, -1
		bestQ := current

		for i := 0; i < len(partition); i++ {
			for j := i + 1; j < len(partition); j++ {
				if !sg.communitiesConnected(partition[i], partition[j]) {
					continue
				}
				candidate := mergePartition(partition, i, j)
				if q := sg.modularity(candidate); q > bestQ {
					bestQ, bestI, bestJ = q, i, j
				}
			}
		}

		if bestI < 0 {
			break
		}
		partition = mergePartition(partition, bestI, bestJ)
		current = bestQ
	}

	return partition, nil
}

// trivialPartition places every node in a single community.
func trivialPartition(sg *spreadGraph) ([][]int64, error) {
	return mustTrivial(sg), nil
}

func mustTrivial(sg *spreadGraph) [][]int64 {
	if sg.numNodes() == 0 {
		return nil
	}
	members := make([]int64, sg.numNodes())
	for i := range members {
		members[i] = int64(i)
	}
	return [][]int64{members}
}

func mergePartition(partition [][]int64, i, j int) [][]int64 {
	merged := make([][]int64, 0, len(partition)-1)
	combined := append(append([]int64{}, partition[i]...), partition[j]...)
	for k, comm := range partition {
		if k == i || k == j {
			continue
		}
		merged = append(merged, comm)
	}
	return append(merged, combined)
}

func (sg *spreadGraph) communitiesConnected(a, b []int64) bool {
	inB := make(map[int64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	for _, id := range a {
		for _, neighbor := range sg.neighbors(id) {
			if _, ok := inB[neighbor.ID()]; ok {
				return true
			}
		}
	}
	return false
}

// modularity scores a partition over the undirected projection.
func (sg *spreadGraph) modularity(partition [][]int64) float64 {
	communities := make([][]graph.Node, 0, len(partition))
	for _, member := range partition {
		nodes := make([]graph.Node, 0, len(member))
		for _, id := range member {
			nodes = append(nodes, sg.undirected.Node(id))
		}
		communities = append(communities, nodes)
	}
	return community.Q(sg.undirected, communities, 1.0)
}

// subgraphDensity is the directed density of the community's induced
// subgraph.
func (sg *spreadGraph) subgraphDensity(member []int64) float64 {
	if len(member) < 2 {
		return 0
	}
	inSet := make(map[int64]struct{}, len(member))
	for _, id := range member {
		inSet[id] = struct{}{}
	}

	internal := 0
	edges := sg.directed.WeightedEdges()
	for edges.Next() {
		edge := edges.WeightedEdge()
		if _, ok := inSet[edge.From().ID()]; !ok {
			continue
		}
		if _, ok := inSet[edge.To().ID()]; ok {
			internal++
		}
	}
	n := len(member)
	return float64(internal) / float64(n*(n-1))
}

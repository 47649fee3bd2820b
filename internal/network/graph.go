package network

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"hoaxlens/internal/errors"
	"hoaxlens/models"
)

// spreadGraph is the per-call graph state. A fresh one is built for every
// Analyze invocation so a shared Analyzer stays safe under concurrent use.
type spreadGraph struct {
	directed   *simple.WeightedDirectedGraph
	undirected *simple.WeightedUndirectedGraph
	index      map[string]int64
	actorIDs   []string
	nodes      []models.SpreadNode
	inputEdges []models.SpreadEdge
}

// buildSpreadGraph validates the raw input and materializes both directed
// and undirected gonum graphs. A zero-node input is a valid degenerate case.
func buildSpreadGraph(input *models.SpreadGraph) (*spreadGraph, error) {
	sg := &spreadGraph{
		directed:   simple.NewWeightedDirectedGraph(0, 0),
		undirected: simple.NewWeightedUndirectedGraph(0, 0),
		index:      make(map[string]int64, len(input.Nodes)),
		nodes:      input.Nodes,
		inputEdges: input.Edges,
	}

	originals := 0
	for i, node := range input.Nodes {
		if node.ID == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("graph node %d has empty id", i))
		}
		if _, exists := sg.index[node.ID]; exists {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate graph node id %q", node.ID))
		}
		id := int64(i)
		sg.index[node.ID] = id
		sg.actorIDs = append(sg.actorIDs, node.ID)
		sg.directed.AddNode(simple.Node(id))
		sg.undirected.AddNode(simple.Node(id))
		if node.Role == models.RoleOriginal {
			originals++
		}
	}

	if len(input.Nodes) > 0 && originals != 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("graph must declare exactly one original node, got %d", originals))
	}

	for i, edge := range input.Edges {
		from, ok := sg.index[edge.From]
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("edge %d references undeclared node %q", i, edge.From))
		}
		to, ok := sg.index[edge.To]
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("edge %d references undeclared node %q", i, edge.To))
		}
		if edge.Weight <= 0 || edge.Weight > 1 {
			return nil, errors.InvalidInput(fmt.Sprintf("edge %d weight %v outside (0,1]", i, edge.Weight))
		}
		if from == to {
			// Self-interactions carry no spread information.
			continue
		}
		sg.directed.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(from), T: simple.Node(to), W: edge.Weight})
		sg.undirected.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(from), T: simple.Node(to), W: edge.Weight})
	}

	return sg, nil
}

func (sg *spreadGraph) numNodes() int {
	return len(sg.actorIDs)
}

func (sg *spreadGraph) numEdges() int {
	return sg.directed.WeightedEdges().Len()
}

// density is edges / (nodes * (nodes-1)) for a directed graph.
func (sg *spreadGraph) density() float64 {
	n := sg.numNodes()
	if n < 2 {
		return 0
	}
	return float64(sg.numEdges()) / float64(n*(n-1))
}

// degree returns in-degree plus out-degree for one node.
func (sg *spreadGraph) degree(id int64) int {
	return len(graph.NodesOf(sg.directed.From(id))) + len(graph.NodesOf(sg.directed.To(id)))
}

// neighbors returns the undirected adjacency of one node.
func (sg *spreadGraph) neighbors(id int64) []graph.Node {
	return graph.NodesOf(sg.undirected.From(id))
}

package fraud

import (
	"errors"
	"math"
	"sort"

	libgraph "github.com/dominikbraun/graph"
)

// VizNode is one node projection in the visualisation payload.
type VizNode struct {
	ID       string
	TxIn     int
	TxOut    int
	TxTotal  int
	TotalIn  float64
	TotalOut float64

	Suspicious bool
	RingID     *string
}

// VizEdge is one deduplicated edge projection.
type VizEdge struct {
	Source string
	Target string
	Amount float64
}

// VizPayload is the bounded node/edge projection of the transaction network
// (§4.8), prioritising suspicious nodes when the graph exceeds MaxGraphNodes.
type VizPayload struct {
	Nodes []VizNode
	Edges []VizEdge
}

// BuildVisualization selects display nodes, then uses a simple directed graph
// (github.com/dominikbraun/graph) purely as the endpoint-pair dedup
// structure for display edges: AddEdge's ErrEdgeAlreadyExists is exactly the
// "collapse parallel edges, keep the first-seen amount" rule §4.8 asks for.
func BuildVisualization(g *Graph, suspicious map[string]bool, ringByAccount map[string]string) VizPayload {
	allIDs := g.NodeIDs()

	display := selectDisplayNodes(g, allIDs, suspicious)

	nodes := make([]VizNode, 0, len(display))
	for id := range display {
		n := g.Nodes[id]
		var ringID *string
		if r, ok := ringByAccount[id]; ok {
			ringID = &r
		}
		nodes = append(nodes, VizNode{
			ID:         id,
			TxIn:       n.TxIn,
			TxOut:      n.TxOut,
			TxTotal:    n.TxTotal(),
			TotalIn:    round2(n.TotalIn),
			TotalOut:   round2(n.TotalOut),
			Suspicious: suspicious[id],
			RingID:     ringID,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := dedupDisplayEdges(g, display)

	return VizPayload{Nodes: nodes, Edges: edges}
}

func selectDisplayNodes(g *Graph, allIDs []string, suspicious map[string]bool) map[string]struct{} {
	display := make(map[string]struct{}, len(allIDs))

	if len(allIDs) <= MaxGraphNodes {
		for _, id := range allIDs {
			display[id] = struct{}{}
		}
		return display
	}

	var suspiciousIDs, others []string
	for _, id := range allIDs {
		if suspicious[id] {
			suspiciousIDs = append(suspiciousIDs, id)
		} else {
			others = append(others, id)
		}
	}
	// When the suspicious accounts alone exceed the cap, only the first
	// MaxGraphNodes of them in ascending id order are displayed.
	if len(suspiciousIDs) > MaxGraphNodes {
		suspiciousIDs = suspiciousIDs[:MaxGraphNodes]
	}
	for _, id := range suspiciousIDs {
		display[id] = struct{}{}
	}

	budget := MaxGraphNodes - len(suspiciousIDs)
	if budget > 0 {
		sort.Slice(others, func(i, j int) bool {
			ti, tj := g.Nodes[others[i]].TxTotal(), g.Nodes[others[j]].TxTotal()
			if ti != tj {
				return ti > tj
			}
			return others[i] < others[j]
		})
		if budget > len(others) {
			budget = len(others)
		}
		for _, id := range others[:budget] {
			display[id] = struct{}{}
		}
	}

	return display
}

func dedupDisplayEdges(g *Graph, display map[string]struct{}) []VizEdge {
	dg := libgraph.New(libgraph.StringHash, libgraph.Directed())
	for id := range display {
		_ = dg.AddVertex(id)
	}

	var edges []VizEdge
	for _, e := range g.Edges {
		if _, ok := display[e.Source]; !ok {
			continue
		}
		if _, ok := display[e.Target]; !ok {
			continue
		}

		err := dg.AddEdge(e.Source, e.Target)
		if err == nil {
			edges = append(edges, VizEdge{Source: e.Source, Target: e.Target, Amount: round2(e.Amount)})
		} else if !errors.Is(err, libgraph.ErrEdgeAlreadyExists) {
			// Only a missing vertex could produce another error here, and
			// every endpoint was just added above; this branch is
			// unreachable in practice.
			continue
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return edges
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

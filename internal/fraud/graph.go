package fraud

import "sort"

// Graph is the directed multigraph built from one transaction batch. Adjacency
// and reverse adjacency store unique neighbours; the edge indices preserve
// parallel edges. Graph is read-only once BuildGraph returns.
type Graph struct {
	Nodes    map[string]*NodeStats
	Adj      map[string]map[string]struct{}
	Rev      map[string]map[string]struct{}
	Edges    []Edge
	BySource map[string][]Edge
	ByTarget map[string][]Edge
}

func newGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]*NodeStats),
		Adj:      make(map[string]map[string]struct{}),
		Rev:      make(map[string]map[string]struct{}),
		BySource: make(map[string][]Edge),
		ByTarget: make(map[string][]Edge),
	}
}

func (g *Graph) node(id string) *NodeStats {
	n, ok := g.Nodes[id]
	if !ok {
		n = &NodeStats{ID: id}
		g.Nodes[id] = n
	}
	return n
}

func (g *Graph) link(u, v string) {
	if g.Adj[u] == nil {
		g.Adj[u] = make(map[string]struct{})
	}
	g.Adj[u][v] = struct{}{}
	if g.Rev[v] == nil {
		g.Rev[v] = make(map[string]struct{})
	}
	g.Rev[v][u] = struct{}{}
}

// BuildGraph ingests a transaction batch (§4.1). Ingestion is total: there is
// no failure mode over well-typed input.
func BuildGraph(transactions []Transaction) *Graph {
	g := newGraph()

	for _, tx := range transactions {
		src := g.node(tx.SenderID)
		dst := g.node(tx.ReceiverID)

		src.TxOut++
		src.TotalOut += tx.Amount
		dst.TxIn++
		dst.TotalIn += tx.Amount

		if tx.Timestamp != nil {
			src.Timestamps = append(src.Timestamps, *tx.Timestamp)
			dst.Timestamps = append(dst.Timestamps, *tx.Timestamp)
		}

		g.link(tx.SenderID, tx.ReceiverID)

		e := Edge{Source: tx.SenderID, Target: tx.ReceiverID, Amount: tx.Amount, Timestamp: tx.Timestamp}
		g.Edges = append(g.Edges, e)
		g.BySource[tx.SenderID] = append(g.BySource[tx.SenderID], e)
		g.ByTarget[tx.ReceiverID] = append(g.ByTarget[tx.ReceiverID], e)
	}

	// Defensive: materialise stats for any node that only shows up in the
	// adjacency structures (never happens when every edge passes through the
	// loop above, but guards future callers that build adjacency directly).
	for u, nbrs := range g.Adj {
		g.node(u)
		for v := range nbrs {
			g.node(v)
		}
	}

	for _, n := range g.Nodes {
		sort.Slice(n.Timestamps, func(i, j int) bool { return n.Timestamps[i].Before(n.Timestamps[j]) })
	}

	return g
}

// NodeIDs returns every node id in ascending order. Several detectors rely on
// ascending-id traversal for deterministic output.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedNeighbors returns the ascending-id out-neighbours of u.
func (g *Graph) SortedNeighbors(u string) []string {
	return sortedKeys(g.Adj[u])
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// txTotalOrSentinel returns a node's tx_total, or a very high sentinel when
// the node has no recorded statistics (§4.5: "missing statistics are treated
// as a very high sentinel, not a shell").
func (g *Graph) txTotalOrSentinel(id string) int {
	n, ok := g.Nodes[id]
	if !ok {
		return legitimacyBigNumber
	}
	return n.TxTotal()
}

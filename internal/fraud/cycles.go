package fraud

import (
	"sort"
	"strings"
)

// Cycle is a simple directed cycle of 3 to 5 distinct nodes, in traversal
// order; the closing edge from the last to the first member is implicit.
type Cycle struct {
	Members []string
}

// DetectCycles enumerates simple directed cycles of length CycleMin..CycleMax
// under the canonical-start rule (§4.3): a DFS is launched from every node s
// in ascending id order and may only step to neighbours whose id is strictly
// greater than s, except when closing the cycle back to s itself. This emits
// each undirected cycle at most once via its smallest-id rotation. A
// post-pass deduplicates by unordered member set, since parallel-edge
// structure can still produce the same member set more than once.
func DetectCycles(g *Graph) []Cycle {
	var cycles []Cycle
	seen := make(map[string]struct{})

	for _, s := range g.NodeIDs() {
		if len(cycles) >= CycleMaxResults {
			break
		}
		path := []string{s}
		onPath := map[string]bool{s: true}
		cycleDFS(g, s, s, path, onPath, &cycles, seen)
	}

	return cycles
}

func cycleDFS(g *Graph, start, cur string, path []string, onPath map[string]bool, cycles *[]Cycle, seen map[string]struct{}) {
	if len(*cycles) >= CycleMaxResults {
		return
	}

	for _, nb := range g.SortedNeighbors(cur) {
		if len(*cycles) >= CycleMaxResults {
			return
		}

		if nb == start {
			if len(path) >= CycleMin {
				recordCycle(path, cycles, seen)
			}
			continue
		}

		if nb <= start { // canonical-start pruning
			continue
		}
		if onPath[nb] {
			continue
		}
		if len(path)+1 > CycleMax {
			continue
		}

		path = append(path, nb)
		onPath[nb] = true
		cycleDFS(g, start, nb, path, onPath, cycles, seen)
		onPath[nb] = false
		path = path[:len(path)-1]
	}
}

func recordCycle(path []string, cycles *[]Cycle, seen map[string]struct{}) {
	key := memberSetKey(path)
	if _, ok := seen[key]; ok {
		return
	}
	seen[key] = struct{}{}

	members := make([]string, len(path))
	copy(members, path)
	*cycles = append(*cycles, Cycle{Members: members})
}

func memberSetKey(members []string) string {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

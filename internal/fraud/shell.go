package fraud

import "strings"

// ShellFinding is a chain of accounts rich in low-activity intermediaries.
type ShellFinding struct {
	Path       []string
	ShellCount int
}

// DetectShells runs a breadth-first path enumeration from every node
// (ascending id) up to ShellMaxChainNode nodes long, looking for chains with
// at least ShellMinInterim low-activity intermediaries (§4.5). Three caps bound
// the search: per-start path length, a global dequeue budget, and a global
// result cap.
func DetectShells(g *Graph) []ShellFinding {
	var results []ShellFinding
	seenPaths := make(map[string]struct{})
	steps := 0

	for _, s := range g.NodeIDs() {
		if steps >= ShellMaxSteps || len(results) >= MaxShellResults {
			break
		}

		queue := [][]string{{s}}
		enqueued := map[string]bool{s: true}

		for len(queue) > 0 {
			if steps >= ShellMaxSteps || len(results) >= MaxShellResults {
				break
			}

			path := queue[0]
			queue = queue[1:]
			steps++

			if ok, count := qualifiesAsShell(g, path); ok {
				key := strings.Join(path, "->")
				if _, dup := seenPaths[key]; !dup {
					seenPaths[key] = struct{}{}
					members := make([]string, len(path))
					copy(members, path)
					results = append(results, ShellFinding{Path: members, ShellCount: count})
					if len(results) >= MaxShellResults {
						break
					}
				}
			}

			if len(path) >= ShellMaxChainNode {
				continue
			}

			cur := path[len(path)-1]
			for _, nb := range g.SortedNeighbors(cur) {
				if enqueued[nb] {
					continue
				}
				extended := make([]string, len(path)+1)
				copy(extended, path)
				extended[len(path)] = nb
				queue = append(queue, extended)
				enqueued[nb] = true
			}
		}
	}

	return results
}

func qualifiesAsShell(g *Graph, path []string) (bool, int) {
	if len(path) < ShellMinChain {
		return false, 0
	}

	count := 0
	for _, node := range path[1 : len(path)-1] {
		if g.txTotalOrSentinel(node) <= ShellMaxTx {
			count++
		}
	}

	return count >= ShellMinInterim, count
}

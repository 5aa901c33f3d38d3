package fraud

import (
	"sort"
	"time"
)

// SmurfFinding is a single high-fan-in or high-fan-out hub.
type SmurfFinding struct {
	Node        string
	Type        string // LabelFanIn or LabelFanOut
	Partners    []string
	Score       float64
	WindowCount int
}

// DetectSmurfs flags nodes with unique in-degree or out-degree at or above
// SmurfThreshold (§4.4). When both fan-in and fan-out qualify for the same
// node, the higher-scoring variant wins.
func DetectSmurfs(g *Graph) map[string]*SmurfFinding {
	findings := make(map[string]*SmurfFinding)

	for _, u := range g.NodeIDs() {
		var best *SmurfFinding

		if senders := sortedKeys(g.Rev[u]); len(senders) >= SmurfThreshold {
			windowCount := MaxInWindow(edgeTimestamps(g.ByTarget[u]), SmurfWindow)
			score := smurfScore(len(senders), windowCount)
			best = &SmurfFinding{Node: u, Type: LabelFanIn, Partners: truncatePartners(senders), Score: score, WindowCount: windowCount}
		}

		if receivers := sortedKeys(g.Adj[u]); len(receivers) >= SmurfThreshold {
			windowCount := MaxInWindow(edgeTimestamps(g.BySource[u]), SmurfWindow)
			score := smurfScore(len(receivers), windowCount)
			if best == nil || score > best.Score {
				best = &SmurfFinding{Node: u, Type: LabelFanOut, Partners: truncatePartners(receivers), Score: score, WindowCount: windowCount}
			}
		}

		if best != nil {
			findings[u] = best
		}
	}

	return findings
}

func smurfScore(uniquePartners, windowCount int) float64 {
	score := 40 + 3*float64(uniquePartners-SmurfThreshold) + 2*float64(windowCount)
	if score > 100 {
		score = 100
	}
	return score
}

func truncatePartners(sorted []string) []string {
	out := make([]string, len(sorted))
	copy(out, sorted)
	return out
}

func edgeTimestamps(edges []Edge) []time.Time {
	var ts []time.Time
	for _, e := range edges {
		if e.Timestamp != nil {
			ts = append(ts, *e.Timestamp)
		}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	return ts
}

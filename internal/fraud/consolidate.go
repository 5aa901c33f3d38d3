package fraud

import (
	"fmt"
	"math"
	"sort"
)

// accountFlag is the consolidator's working state for one account (§3).
type accountFlag struct {
	patterns map[string]struct{}
	ringID   string // provisional ring id of the first ring that claimed this account
	score    float64
}

// candidateRing is a provisional ring before dedup/renumbering.
type candidateRing struct {
	provisionalID string
	members       []string // full ring.member_accounts, as reported in the output
	assigned      []string // subset of members that were actually flagged with this ring's id
	patternType   string
	risk          float64
}

// consolidator threads the account-flag map through the three detector
// passes, then dedups and reconciles ring ids (§4.7). It is constructed fresh
// for every Run invocation — no state is shared across batches.
type consolidator struct {
	graph      *Graph
	legitimate map[string]bool

	flags   map[string]*accountFlag
	order   []string // accounts in first-flagged order, for stable tie-breaks
	ringSeq int
	rings   []candidateRing
}

func newConsolidator(g *Graph, legitimate map[string]bool) *consolidator {
	return &consolidator{
		graph:      g,
		legitimate: legitimate,
		flags:      make(map[string]*accountFlag),
	}
}

func (c *consolidator) nextRingID() string {
	c.ringSeq++
	return fmt.Sprintf("RING_%03d", c.ringSeq)
}

// flag records one (account, pattern, ring, increment) observation. It is a
// silent no-op for legitimate accounts. The score update is the
// diminishing-returns accumulation of §4.7: monotone non-decreasing, bounded
// by 100, with strictly smaller boosts as the score approaches saturation.
func (c *consolidator) flag(acc, pattern, ringID string, increment float64) {
	if c.legitimate[acc] {
		return
	}

	f, ok := c.flags[acc]
	if !ok {
		f = &accountFlag{patterns: make(map[string]struct{})}
		c.flags[acc] = f
		c.order = append(c.order, acc)
	}

	f.patterns[pattern] = struct{}{}
	f.score = math.Min(100, f.score+increment*(1-f.score/120))

	if ringID != "" && f.ringID == "" {
		f.ringID = ringID
	}
}

// addPatternOnly attaches a label without touching the score (used by the
// velocity sweep, which is a label-only pass per §4.7).
func (c *consolidator) addPatternOnly(acc, pattern string) {
	f, ok := c.flags[acc]
	if !ok {
		return
	}
	f.patterns[pattern] = struct{}{}
}

func dedupMembersDroppingLegitimate(members []string, legitimate map[string]bool) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if legitimate[m] {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Consolidate fuses the three detectors' output into rings and per-account
// scores (§4.7). cycles, smurfs and shells are processed in that fixed order
// so provisional ring ids are allocated deterministically.
func Consolidate(g *Graph, legitimate map[string]bool, cycles []Cycle, smurfs map[string]*SmurfFinding, shells []ShellFinding) ([]Ring, []SuspiciousAccount) {
	c := newConsolidator(g, legitimate)

	c.processCycles(cycles)
	c.processSmurfs(smurfs)
	c.processShells(shells)
	c.velocitySweep()

	kept, provisionalToFinal := c.dedupAndRenumber()
	lookup := buildRingIDLookup(kept)

	suspicious := c.emitSuspicious(lookup, provisionalToFinal)

	rings := make([]Ring, len(kept))
	for i, r := range kept {
		rings[i] = Ring{
			RingID:         r.provisionalID, // renumbered in place by dedupAndRenumber
			MemberAccounts: r.members,
			PatternType:    r.patternType,
			RiskScore:      round1(r.risk),
		}
	}

	return rings, suspicious
}

func (c *consolidator) processCycles(cycles []Cycle) {
	for _, cycle := range cycles {
		k := len(cycle.Members)
		base := cycleBaseRisk(k)
		temporal := cycleTemporalBonus(c.graph, cycle.Members)
		decay := cycleDecayBonus(c.graph, cycle.Members)
		risk := math.Min(100, base+temporal+decay)

		members := dedupMembersDroppingLegitimate(cycle.Members, c.legitimate)
		if len(members) < 2 {
			continue
		}

		ringID := c.nextRingID()
		c.rings = append(c.rings, candidateRing{provisionalID: ringID, members: members, assigned: members, patternType: PatternCycle, risk: risk})

		pattern := fmt.Sprintf("cycle_length_%d", k)
		increment := base + 0.5*temporal
		for _, m := range members {
			c.flag(m, pattern, ringID, increment)
		}
	}
}

func cycleBaseRisk(k int) float64 {
	switch k {
	case 3:
		return 85
	case 4:
		return 80
	case 5:
		return 75
	default:
		return 70
	}
}

// cycleTemporalBonus collects the timestamps of the edges realising each
// consecutive pair around the cycle (including the closing edge) and scores
// the bonus by the span between earliest and latest.
func cycleTemporalBonus(g *Graph, members []string) float64 {
	k := len(members)
	var all []int64 // unix nanos, to avoid importing time comparisons repeatedly
	for i := 0; i < k; i++ {
		u, v := members[i], members[(i+1)%k]
		for _, e := range g.BySource[u] {
			if e.Target == v && e.Timestamp != nil {
				all = append(all, e.Timestamp.UnixNano())
			}
		}
	}
	if len(all) == 0 {
		return 0
	}

	minTs, maxTs := all[0], all[0]
	for _, t := range all {
		if t < minTs {
			minTs = t
		}
		if t > maxTs {
			maxTs = t
		}
	}

	spanHours := float64(maxTs-minTs) / float64(hourNanos)
	switch {
	case spanHours <= 72:
		return 8.0
	case spanHours <= 168:
		return 4.0
	default:
		return 0
	}
}

const hourNanos = int64(60 * 60 * 1e9)

// cycleDecayBonus looks at the sequence of per-edge maximum amounts around
// the cycle (one value per edge, in cycle order) and awards the bonus only
// when every consecutive ratio falls in the decay band [0.65, 0.98]. A zero
// prior amount is treated as a neutral ratio of 1, which fails the band.
func cycleDecayBonus(g *Graph, members []string) float64 {
	k := len(members)
	maxAmounts := make([]float64, k)
	for i := 0; i < k; i++ {
		u, v := members[i], members[(i+1)%k]
		bestAmt := 0.0
		for _, e := range g.BySource[u] {
			if e.Target == v && e.Amount > bestAmt {
				bestAmt = e.Amount
			}
		}
		maxAmounts[i] = bestAmt
	}

	for i := 0; i < k-1; i++ {
		ratio := 1.0
		if maxAmounts[i] != 0 {
			ratio = maxAmounts[i+1] / maxAmounts[i]
		}
		if ratio < 0.65 || ratio > 0.98 {
			return 0
		}
	}
	return 6.0
}

func (c *consolidator) processSmurfs(smurfs map[string]*SmurfFinding) {
	hubs := make([]string, 0, len(smurfs))
	for hub := range smurfs {
		hubs = append(hubs, hub)
	}
	sort.Strings(hubs)

	for _, hub := range hubs {
		finding := smurfs[hub]
		if c.legitimate[hub] {
			continue
		}

		partners := finding.Partners
		if len(partners) > 20 {
			partners = partners[:20]
		}

		all := append([]string{hub}, partners...)
		members := dedupMembersDroppingLegitimate(all, c.legitimate)

		ringID := c.nextRingID()
		// Only the hub is ever flagged with this ring's id (§4.7: peripheral
		// members stay unaffiliated unless another detector places them in a
		// ring), so the lookup-rebuild below must only treat the hub as
		// "assigned" here, even though members lists every participant.
		c.rings = append(c.rings, candidateRing{provisionalID: ringID, members: members, assigned: []string{hub}, patternType: PatternSmurfing, risk: finding.Score})

		c.flag(hub, finding.Type, ringID, 0.6*finding.Score)
		if finding.WindowCount >= 5 {
			c.flag(hub, LabelHighVelocity, ringID, 1.5*float64(finding.WindowCount))
		}

		peripheralLabel := LabelFanInContributor
		if finding.Type == LabelFanOut {
			peripheralLabel = LabelFanOutReceiver
		}
		for _, p := range partners {
			if p == hub {
				continue
			}
			c.flag(p, peripheralLabel, "", 0.3*finding.Score)
		}
	}
}

func (c *consolidator) processShells(shells []ShellFinding) {
	for _, finding := range shells {
		members := dedupMembersDroppingLegitimate(finding.Path, c.legitimate)
		if len(members) < 2 {
			continue
		}

		risk := math.Min(100, 55+10*float64(finding.ShellCount)+2*float64(len(finding.Path)))

		ringID := c.nextRingID()
		c.rings = append(c.rings, candidateRing{provisionalID: ringID, members: members, assigned: members, patternType: PatternShellNetwork, risk: risk})

		increment := 0.5 * risk
		for _, m := range members {
			c.flag(m, LabelLayeredShell, ringID, increment)
		}
	}
}

func (c *consolidator) velocitySweep() {
	for _, acc := range c.order {
		n, ok := c.graph.Nodes[acc]
		if !ok {
			continue
		}
		if MaxInWindow(n.Timestamps, VelocityWindow) >= VelocityMinCount {
			c.addPatternOnly(acc, LabelHighVelocity)
		}
	}
}

// dedupAndRenumber sorts candidate rings by risk descending and greedily
// keeps a ring unless it overlaps a previously-kept ring by more than 0.85
// under the min-denominator Jaccard-like ratio. Kept rings are renumbered
// RING_001.. in the kept (risk-descending) order.
func (c *consolidator) dedupAndRenumber() ([]candidateRing, map[string]string) {
	sorted := make([]candidateRing, len(c.rings))
	copy(sorted, c.rings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].risk > sorted[j].risk })

	var kept []candidateRing
	provisionalToFinal := make(map[string]string)

	for _, r := range sorted {
		overlapsKept := false
		for _, k := range kept {
			if overlapRatio(r.members, k.members) > 0.85 {
				overlapsKept = true
				break
			}
		}
		if overlapsKept {
			continue
		}
		kept = append(kept, r)
	}

	for i := range kept {
		finalID := fmt.Sprintf("RING_%03d", i+1)
		provisionalToFinal[kept[i].provisionalID] = finalID
		kept[i].provisionalID = finalID
	}

	return kept, provisionalToFinal
}

// overlapRatio is |A ∩ B| / max(1, min(|A|, |B|)).
func overlapRatio(a, b []string) float64 {
	setB := make(map[string]struct{}, len(b))
	for _, m := range b {
		setB[m] = struct{}{}
	}
	intersection := 0
	for _, m := range a {
		if _, ok := setB[m]; ok {
			intersection++
		}
	}
	denom := len(a)
	if len(b) < denom {
		denom = len(b)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(intersection) / float64(denom)
}

// buildRingIDLookup assigns each account to the highest-risk kept ring that
// lists it among its assigned accounts (a smurfing ring's peripheral members
// are not assigned and get no entry from it). kept is already in
// risk-descending order, so a first-writer
// policy over that order implements "highest risk wins" — the deterministic
// policy this implementation commits to for the open question in §9.
func buildRingIDLookup(kept []candidateRing) map[string]string {
	lookup := make(map[string]string)
	for _, r := range kept {
		for _, m := range r.assigned {
			if _, ok := lookup[m]; !ok {
				lookup[m] = r.provisionalID
			}
		}
	}
	return lookup
}

func (c *consolidator) emitSuspicious(lookup, provisionalToFinal map[string]string) []SuspiciousAccount {
	var out []SuspiciousAccount

	for _, acc := range c.order {
		f := c.flags[acc]
		if f.score < 1 {
			continue
		}

		assigned := RingUnknown
		if finalID, ok := lookup[acc]; ok {
			assigned = finalID
		} else if f.ringID != "" {
			if finalID, ok := provisionalToFinal[f.ringID]; ok {
				assigned = finalID
			}
		}

		patterns := make([]string, 0, len(f.patterns))
		for p := range f.patterns {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)

		out = append(out, SuspiciousAccount{
			AccountID:        acc,
			SuspicionScore:   round1(f.score),
			DetectedPatterns: patterns,
			RingID:           assigned,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SuspicionScore > out[j].SuspicionScore })

	return out
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

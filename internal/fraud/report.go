package fraud

// Run executes the full pipeline over one batch and returns the report.
// The core is synchronous: there is no suspension point and no internal
// timeout (§5) — a caller that needs a deadline must abandon the call from
// outside.
func Run(transactions []Transaction) Report {
	g := BuildGraph(transactions)

	legitimate := ClassifyLegitimate(g)
	cycles := DetectCycles(g)
	smurfs := DetectSmurfs(g)
	shells := DetectShells(g)

	rings, suspicious := Consolidate(g, legitimate, cycles, smurfs, shells)

	suspiciousSet := make(map[string]bool, len(suspicious))
	ringByAccount := make(map[string]string, len(suspicious))
	for _, s := range suspicious {
		suspiciousSet[s.AccountID] = true
		ringByAccount[s.AccountID] = s.RingID
	}

	viz := BuildVisualization(g, suspiciousSet, ringByAccount)

	return Report{
		SuspiciousAccounts: suspicious,
		FraudRings:         rings,
		Graph:              viz,
		Summary: Summary{
			TotalAccountsAnalyzed:     len(g.Nodes),
			TotalTransactions:         len(transactions),
			SuspiciousAccountsFlagged: len(suspicious),
			FraudRingsDetected:        len(rings),
			CyclesFound:               len(cycles),
			SmurfingHubsFound:         len(smurfs),
			ShellChainsFound:          len(shells),
		},
	}
}

// Package fraud implements the graph analytics core: it ingests a batch of
// monetary transactions and produces per-account suspicion scores, fraud
// rings, and a bounded visualisation payload. The package is synchronous and
// has no process-wide mutable state — every exported entry point operates on
// a single in-memory batch and returns a plain value.
package fraud

import "time"

// Transaction is one already-validated input record. TransactionID is opaque
// and never consulted by the analytics below.
type Transaction struct {
	TransactionID string
	SenderID      string
	ReceiverID    string
	Amount        float64
	Timestamp     *time.Time
}

// Edge is a directed transaction edge retained with full multiplicity.
type Edge struct {
	Source    string
	Target    string
	Amount    float64
	Timestamp *time.Time
}

// NodeStats holds the derived statistics for one account.
type NodeStats struct {
	ID         string
	TxIn       int
	TxOut      int
	TotalIn    float64
	TotalOut   float64
	Timestamps []time.Time // ascending, nil timestamps already dropped
}

// TxTotal is tx_in + tx_out.
func (n *NodeStats) TxTotal() int {
	return n.TxIn + n.TxOut
}

// Pattern type labels used on fraud rings.
const (
	PatternCycle        = "cycle"
	PatternSmurfing     = "smurfing"
	PatternShellNetwork = "shell_network"
)

// Account flag pattern labels (§4.7).
const (
	LabelFanIn            = "fan_in"
	LabelFanOut           = "fan_out"
	LabelFanInContributor = "fan_in_contributor"
	LabelFanOutReceiver   = "fan_out_receiver"
	LabelHighVelocity     = "high_velocity"
	LabelLayeredShell     = "layered_shell"
)

// RingUnknown is the sentinel ring id for a flagged account whose ring was
// culled during dedup or never assigned.
const RingUnknown = "RING_UNKNOWN"

// Tunable thresholds named in the external contract (§6). Changing any of
// these changes the report.
const (
	CycleMin          = 3
	CycleMax          = 5
	CycleMaxResults   = 500
	SmurfThreshold    = 10
	SmurfWindow       = 72 * time.Hour
	ShellMinChain     = 3
	ShellMaxChainNode = 6
	ShellMinInterim   = 2
	ShellMaxTx        = 3
	ShellMaxSteps     = 50_000
	MaxShellResults   = 300
	VelocityWindow    = 24 * time.Hour
	VelocityMinCount  = 6
	MaxGraphNodes     = 800

	legitimacyBigNumber = 1 << 30 // sentinel tx_total for a node missing statistics
)

// Ring is a consolidated, deduplicated cluster of cooperating accounts.
type Ring struct {
	RingID         string
	MemberAccounts []string
	PatternType    string
	RiskScore      float64
}

// SuspiciousAccount is one row of the final suspicion list.
type SuspiciousAccount struct {
	AccountID       string
	SuspicionScore  float64
	DetectedPatterns []string
	RingID          string
}

// Summary is the report's envelope of batch-level counters. ProcessingTimeSeconds
// is left at zero by the core — it is populated by the host after Run returns.
type Summary struct {
	TotalAccountsAnalyzed     int
	TotalTransactions         int
	SuspiciousAccountsFlagged int
	FraudRingsDetected        int
	CyclesFound               int
	SmurfingHubsFound         int
	ShellChainsFound          int
	ProcessingTimeSeconds     float64
}

// Report is the complete output of one Run invocation.
type Report struct {
	SuspiciousAccounts []SuspiciousAccount
	FraudRings         []Ring
	Graph              VizPayload
	Summary            Summary
}

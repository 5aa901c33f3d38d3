package handlers

// ReportResponse is the wire shape of a fraud.Report (§6 of the core spec).
type ReportResponse struct {
	SuspiciousAccounts []SuspiciousAccountResponse `json:"suspicious_accounts"`
	FraudRings         []FraudRingResponse         `json:"fraud_rings"`
	Graph              GraphResponse               `json:"graph"`
	Summary            SummaryResponse             `json:"summary"`
}

// SuspiciousAccountResponse is one row of the suspicious-accounts list.
type SuspiciousAccountResponse struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           string   `json:"ring_id"`
}

// FraudRingResponse is one consolidated ring.
type FraudRingResponse struct {
	RingID         string   `json:"ring_id"`
	MemberAccounts []string `json:"member_accounts"`
	PatternType    string   `json:"pattern_type"`
	RiskScore      float64  `json:"risk_score"`
}

// GraphResponse is the bounded visualisation payload.
type GraphResponse struct {
	Nodes []GraphNodeResponse `json:"nodes"`
	Edges []GraphEdgeResponse `json:"edges"`
}

// GraphNodeResponse is one node projection.
type GraphNodeResponse struct {
	ID         string  `json:"id"`
	TxIn       int     `json:"tx_in"`
	TxOut      int     `json:"tx_out"`
	TxTotal    int     `json:"tx_total"`
	TotalIn    float64 `json:"total_in"`
	TotalOut   float64 `json:"total_out"`
	Suspicious bool    `json:"suspicious"`
	RingID     *string `json:"ring_id,omitempty"`
}

// GraphEdgeResponse is one deduplicated display edge.
type GraphEdgeResponse struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
}

// SummaryResponse is the batch-level counters envelope.
type SummaryResponse struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	TotalTransactions         int     `json:"total_transactions"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	CyclesFound               int     `json:"cycles_found"`
	SmurfingHubsFound         int     `json:"smurfing_hubs_found"`
	ShellChainsFound          int     `json:"shell_chains_found"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

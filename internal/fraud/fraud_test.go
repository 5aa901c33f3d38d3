package fraud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hours float64) *time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(hours * float64(time.Hour)))
	return &t
}

func tx(sender, receiver string, amount float64, ts *time.Time) Transaction {
	return Transaction{TransactionID: "t", SenderID: sender, ReceiverID: receiver, Amount: amount, Timestamp: ts}
}

// Scenario 1: minimal 3-cycle (§8).
func TestMinimalThreeCycle(t *testing.T) {
	txs := []Transaction{
		tx("A", "B", 5000, at(0)),
		tx("B", "C", 4800, at(2)),
		tx("C", "A", 4600, at(5)),
	}

	report := Run(txs)

	require.Len(t, report.FraudRings, 1)
	ring := report.FraudRings[0]
	assert.Equal(t, PatternCycle, ring.PatternType)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, ring.MemberAccounts)
	assert.InDelta(t, 99.0, ring.RiskScore, 0.01)

	require.Len(t, report.SuspiciousAccounts, 3)
	for _, sa := range report.SuspiciousAccounts {
		assert.Equal(t, ring.RingID, sa.RingID)
	}
}

// Scenario 2: fan-in smurf (§8).
func TestFanInSmurf(t *testing.T) {
	var txs []Transaction
	base := at(0)
	for i := 0; i < 14; i++ {
		sender := string(rune('a' + i))
		ts := base.Add(time.Duration(i) * time.Hour)
		txs = append(txs, tx(sender, "H", 500+float64(i)*10, &ts))
	}
	txs = append(txs, tx("H", "x1", 2000, at(20)))
	txs = append(txs, tx("H", "x2", 2000, at(21)))

	report := Run(txs)

	var hubRing *Ring
	for i := range report.FraudRings {
		if report.FraudRings[i].PatternType == PatternSmurfing {
			hubRing = &report.FraudRings[i]
		}
	}
	require.NotNil(t, hubRing)
	assert.InDelta(t, 80.0, hubRing.RiskScore, 0.01)

	var hubAccount *SuspiciousAccount
	for i := range report.SuspiciousAccounts {
		if report.SuspiciousAccounts[i].AccountID == "H" {
			hubAccount = &report.SuspiciousAccounts[i]
		}
	}
	require.NotNil(t, hubAccount)
	assert.Contains(t, hubAccount.DetectedPatterns, LabelFanIn)
	assert.Contains(t, hubAccount.DetectedPatterns, LabelHighVelocity)

	for _, sa := range report.SuspiciousAccounts {
		if sa.AccountID != "H" {
			assert.Equal(t, RingUnknown, sa.RingID)
		}
	}
}

// Scenario 3: legitimate merchant suppression (§8).
func TestLegitimateMerchantSuppressed(t *testing.T) {
	var txs []Transaction
	for i := 0; i < 21; i++ {
		sender := string(rune('a'+i%26)) + string(rune('A'+i/26))
		txs = append(txs, tx(sender, "M", 50, at(float64(i))))
	}
	txs = append(txs, tx("M", "z1", 10, at(30)))

	report := Run(txs)

	for _, sa := range report.SuspiciousAccounts {
		assert.NotEqual(t, "M", sa.AccountID)
	}
	for _, ring := range report.FraudRings {
		assert.NotContains(t, ring.MemberAccounts, "M")
	}

	var found bool
	for _, n := range report.Graph.Nodes {
		if n.ID == "M" {
			found = true
			assert.False(t, n.Suspicious)
		}
	}
	assert.True(t, found)
}

// Scenario 4: shell chain (§8).
func TestShellChain(t *testing.T) {
	txs := []Transaction{
		tx("S", "X1", 1000, at(0)),
		tx("X1", "X2", 990, at(1)),
		tx("X2", "X3", 980, at(2)),
		tx("X3", "D", 970, at(3)),
	}

	report := Run(txs)

	var shellRing *Ring
	for i := range report.FraudRings {
		if report.FraudRings[i].PatternType == PatternShellNetwork {
			shellRing = &report.FraudRings[i]
		}
	}
	require.NotNil(t, shellRing)
	assert.ElementsMatch(t, []string{"S", "X1", "X2", "X3", "D"}, shellRing.MemberAccounts)
	assert.InDelta(t, 95.0, shellRing.RiskScore, 0.01)
}

// Scenario 5: ring dedup — an overlapping 3-cycle and 4-cycle collapse to one ring.
func TestRingDedupOverlap(t *testing.T) {
	txs := []Transaction{
		tx("A", "B", 5000, at(0)),
		tx("B", "C", 4800, at(2)),
		tx("C", "A", 4600, at(5)),
		tx("A", "B", 5000, at(10)),
		tx("B", "C", 4800, at(12)),
		tx("C", "D", 4700, at(14)),
		tx("D", "A", 4600, at(16)),
	}

	report := Run(txs)

	kept := 0
	for _, ring := range report.FraudRings {
		if ring.PatternType == PatternCycle {
			kept++
		}
	}
	assert.Equal(t, 1, kept)
	assert.Equal(t, "RING_001", report.FraudRings[0].RingID)
}

// Scenario 6: unparseable (nil) timestamps still detect the cycle, with no
// velocity patterns anywhere.
func TestNilTimestampsCycle(t *testing.T) {
	txs := []Transaction{
		tx("A", "B", 5000, nil),
		tx("B", "C", 4800, nil),
		tx("C", "A", 4600, nil),
	}

	report := Run(txs)

	require.Len(t, report.FraudRings, 1)
	assert.InDelta(t, 91.0, report.FraudRings[0].RiskScore, 0.01)

	for _, sa := range report.SuspiciousAccounts {
		assert.NotContains(t, sa.DetectedPatterns, LabelHighVelocity)
	}
}

func TestMaxInWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{
		base,
		base.Add(1 * time.Hour),
		base.Add(2 * time.Hour),
		base.Add(100 * time.Hour),
	}
	assert.Equal(t, 3, MaxInWindow(ts, 72*time.Hour))
	assert.Equal(t, 0, MaxInWindow(nil, time.Hour))
}

func TestInvariants(t *testing.T) {
	txs := []Transaction{
		tx("A", "B", 5000, at(0)),
		tx("B", "C", 4800, at(2)),
		tx("C", "A", 4600, at(5)),
	}
	report := Run(txs)

	for _, sa := range report.SuspiciousAccounts {
		assert.GreaterOrEqual(t, sa.SuspicionScore, 0.0)
		assert.LessOrEqual(t, sa.SuspicionScore, 100.0)
		assert.True(t, isSortedAscending(sa.DetectedPatterns))
	}
	for _, r := range report.FraudRings {
		assert.GreaterOrEqual(t, r.RiskScore, 0.0)
		assert.LessOrEqual(t, r.RiskScore, 100.0)
	}

	ringIDs := make(map[string]bool)
	for _, r := range report.FraudRings {
		ringIDs[r.RingID] = true
	}
	for _, sa := range report.SuspiciousAccounts {
		assert.True(t, sa.RingID == RingUnknown || ringIDs[sa.RingID])
	}

	for i := 1; i < len(report.SuspiciousAccounts); i++ {
		assert.GreaterOrEqual(t, report.SuspiciousAccounts[i-1].SuspicionScore, report.SuspiciousAccounts[i].SuspicionScore)
	}

	assert.LessOrEqual(t, len(report.Graph.Nodes), MaxGraphNodes)
}

func TestDeterminism(t *testing.T) {
	txs := []Transaction{
		tx("A", "B", 5000, at(0)),
		tx("B", "C", 4800, at(2)),
		tx("C", "A", 4600, at(5)),
	}
	r1 := Run(txs)
	r2 := Run(txs)
	assert.Equal(t, r1, r2)
}

func isSortedAscending(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

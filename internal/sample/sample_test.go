package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisshield/fraudring/internal/fraud"
)

func TestBatchCoversEveryPattern(t *testing.T) {
	txs := Batch()
	require.NotEmpty(t, txs)

	report := fraud.Run(txs)

	var sawCycle, sawSmurf, sawShell bool
	for _, r := range report.FraudRings {
		switch r.PatternType {
		case fraud.PatternCycle:
			sawCycle = true
		case fraud.PatternSmurfing:
			sawSmurf = true
		case fraud.PatternShellNetwork:
			sawShell = true
		}
	}
	assert.True(t, sawCycle, "expected a cycle ring in the sample batch")
	assert.True(t, sawSmurf, "expected a smurfing ring in the sample batch")
	assert.True(t, sawShell, "expected a shell-network ring in the sample batch")

	for _, sa := range report.SuspiciousAccounts {
		assert.NotEqual(t, "merchant-co", sa.AccountID)
		assert.NotEqual(t, "payroll-co", sa.AccountID)
	}
}

func TestBatchSizeIsStableAcrossCalls(t *testing.T) {
	a := Batch()
	b := Batch()
	assert.Equal(t, len(a), len(b))
}

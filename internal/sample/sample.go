// Package sample builds the fixed synthetic transaction batch the demo
// endpoint returns, covering at least one instance of every pattern the fraud
// package detects plus two accounts that the legitimacy filter suppresses.
package sample

import (
	"time"

	"github.com/google/uuid"

	"github.com/aegisshield/fraudring/internal/fraud"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(hours float64) *time.Time {
	t := epoch.Add(time.Duration(hours * float64(time.Hour)))
	return &t
}

func tx(sender, receiver string, amount float64, hours float64) fraud.Transaction {
	return fraud.Transaction{
		TransactionID: uuid.NewString(),
		SenderID:      sender,
		ReceiverID:    receiver,
		Amount:        amount,
		Timestamp:     at(hours),
	}
}

// Batch returns the fixed demo transaction set.
func Batch() []fraud.Transaction {
	var txs []fraud.Transaction

	// A 3-cycle (A, B, C) sharing nodes A and B with a 4-cycle (A, B, D, E).
	// Their overlap ratio is 2/3, below the 0.85 dedup threshold, so both
	// cycle rings survive ring dedup.
	txs = append(txs,
		tx("A", "B", 5200, 0),
		tx("B", "C", 5000, 2),
		tx("C", "A", 4800, 5),
		tx("A", "B", 5200, 10),
		tx("B", "D", 5000, 12),
		tx("D", "E", 4900, 14),
		tx("E", "A", 4800, 16),
	)

	// A 14-sender fan-in smurf converging on hub "fanin-hub".
	for i := 0; i < 14; i++ {
		sender := uuid.NewString()[:8]
		txs = append(txs, tx(sender, "fanin-hub", 450+float64(i)*15, float64(i)))
	}
	txs = append(txs,
		tx("fanin-hub", "fanin-out1", 2500, 20),
		tx("fanin-hub", "fanin-out2", 2500, 21),
	)

	// A 13-receiver fan-out smurf dispersing from hub "fanout-hub".
	for i := 0; i < 13; i++ {
		receiver := uuid.NewString()[:8]
		txs = append(txs, tx("fanout-hub", receiver, 400+float64(i)*10, float64(24+i)))
	}
	txs = append(txs, tx("fanout-seed1", "fanout-hub", 2600, 23), tx("fanout-seed2", "fanout-hub", 2600, 22))

	// A 4-node shell chain: two low-activity intermediaries passing a
	// near-constant amount through to a final destination.
	txs = append(txs,
		tx("shell-src", "shell-mid1", 3000, 40),
		tx("shell-mid1", "shell-mid2", 2970, 41),
		tx("shell-mid2", "shell-dst", 2940, 42),
	)

	// A legitimate merchant: many distinct small-amount payers, one small
	// payout, inflow well above outflow.
	for i := 0; i < 20; i++ {
		payer := uuid.NewString()[:8]
		txs = append(txs, tx(payer, "merchant-co", 40+float64(i), float64(50+i)))
	}
	txs = append(txs, tx("merchant-co", "merchant-supplier", 80, 90))

	// A legitimate payroll source: one sender fanning out to many
	// low-activity receivers in roughly equal amounts.
	for i := 0; i < 16; i++ {
		employee := uuid.NewString()[:8]
		txs = append(txs, tx("payroll-co", employee, 3000, float64(100+i)))
	}

	// Background noise: a handful of unrelated one-off transfers that
	// should never surface as suspicious.
	txs = append(txs,
		tx("noise1", "noise2", 120, 200),
		tx("noise3", "noise4", 75, 201),
		tx("noise5", "noise1", 60, 202),
	)

	return txs
}

// Package ingest turns an uploaded transaction report into the
// fraud.Transaction batch the analysis core consumes. Parsing lives outside
// internal/fraud because it is host plumbing, not graph analytics (§1 of the
// core spec draws that line explicitly).
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aegisshield/fraudring/internal/fraud"
)

var requiredColumns = []string{"sender_id", "receiver_id"}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var headerAliases = map[string]string{
	"transaction_id": "transaction_id",
	"txn_id":         "transaction_id",
	"id":             "transaction_id",
	"sender_id":      "sender_id",
	"sender":         "sender_id",
	"source":         "sender_id",
	"source_id":      "sender_id",
	"from":           "sender_id",
	"receiver_id":    "receiver_id",
	"receiver":       "receiver_id",
	"target":         "receiver_id",
	"target_id":      "receiver_id",
	"to":             "receiver_id",
	"amount":         "amount",
	"value":          "amount",
	"timestamp":      "timestamp",
	"time":           "timestamp",
	"date":           "timestamp",
}

// MissingColumnsError is returned when the header lacks sender_id or
// receiver_id after alias normalization; the host maps it to a 400.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseCSV reads a transaction report and returns the rows that carry both
// endpoints. Rows missing sender_id or receiver_id are dropped rather than
// rejected, since a batch report (§6) is expected to contain noisy rows.
func ParseCSV(r io.Reader) ([]fraud.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, raw := range header {
		name := headerAliases[strings.ToLower(strings.TrimSpace(raw))]
		if name == "" {
			name = strings.ToLower(strings.TrimSpace(raw))
		}
		colIndex[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	txIdx, hasTxID := colIndex["transaction_id"]
	amtIdx, hasAmount := colIndex["amount"]
	tsIdx, hasTimestamp := colIndex["timestamp"]
	senderIdx := colIndex["sender_id"]
	receiverIdx := colIndex["receiver_id"]

	var out []fraud.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		sender := field(record, senderIdx)
		receiver := field(record, receiverIdx)
		if sender == "" || receiver == "" {
			continue
		}

		txID := ""
		if hasTxID {
			txID = field(record, txIdx)
		}
		if txID == "" {
			txID = uuid.NewString()
		}

		amount := 0.0
		if hasAmount {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(field(record, amtIdx)), 64); err == nil {
				amount = parsed
			}
		}

		var ts *time.Time
		if hasTimestamp {
			ts = parseTimestamp(field(record, tsIdx))
		}

		out = append(out, fraud.Transaction{
			TransactionID: txID,
			SenderID:      sender,
			ReceiverID:    receiver,
			Amount:        amount,
			Timestamp:     ts,
		})
	}

	return out, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVBasic(t *testing.T) {
	input := "transaction_id,sender_id,receiver_id,amount,timestamp\n" +
		"t1,A,B,100.50,2026-01-01T00:00:00Z\n" +
		"t2,B,C,200,2026-01-01 02:00:00\n"

	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "A", txs[0].SenderID)
	assert.Equal(t, "B", txs[0].ReceiverID)
	assert.InDelta(t, 100.50, txs[0].Amount, 0.001)
	require.NotNil(t, txs[0].Timestamp)

	assert.Equal(t, "B", txs[1].SenderID)
	require.NotNil(t, txs[1].Timestamp)
}

func TestParseCSVHeaderAliases(t *testing.T) {
	input := "From,To,Value\nA,B,50\n"
	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "A", txs[0].SenderID)
	assert.Equal(t, "B", txs[0].ReceiverID)
	assert.InDelta(t, 50, txs[0].Amount, 0.001)
}

func TestParseCSVDropsIncompleteRows(t *testing.T) {
	input := "sender_id,receiver_id,amount\nA,,100\n,B,100\nA,B,100\n"
	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "A", txs[0].SenderID)
}

func TestParseCSVUnparseableAmountDefaultsToZero(t *testing.T) {
	input := "sender_id,receiver_id,amount\nA,B,not-a-number\n"
	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 0.0, txs[0].Amount)
}

func TestParseCSVMissingColumns(t *testing.T) {
	input := "foo,bar\n1,2\n"
	_, err := ParseCSV(strings.NewReader(input))
	require.Error(t, err)

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.Missing, "sender_id")
	assert.Contains(t, missingErr.Missing, "receiver_id")
}

func TestParseCSVEmptyInput(t *testing.T) {
	txs, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestParseCSVGeneratesTransactionIDWhenMissing(t *testing.T) {
	input := "sender_id,receiver_id\nA,B\n"
	txs, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.NotEmpty(t, txs[0].TransactionID)
}

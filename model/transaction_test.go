package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTx() *Transaction {
	return &Transaction{
		Version: TransactionVersion,
		Inputs: []*TransactionInput{
			{
				PreviousOutpoint: Outpoint{TransactionID: strings.Repeat("ab", 32), Index: 1},
				Sequence:         0,
				Amount:           500_000_000,
			},
		},
		Outputs: []*TransactionOutput{
			{Amount: 200_000_000, Address: testAddress("kaspa")},
			{Amount: 299_998_000, Address: testAddress("kaspa")},
		},
		LockTime: 0,
	}
}

func TestTransactionBytesDeterministic(t *testing.T) {
	tx := testTx()

	b1, err := tx.Bytes()
	require.NoError(t, err)

	b2, err := tx.Bytes()
	require.NoError(t, err)

	assert.Equal(t, b1, b2)

	// version + count + 1 input + count + 2 outputs + locktime
	expected := 4 + 4 + (32 + 4 + 8) + 4 + 2*(8+4+len(testAddress("kaspa"))) + 8
	assert.Len(t, b1, expected)
}

func TestTransactionIDChangesWithContent(t *testing.T) {
	tx := testTx()

	id1, err := tx.ID()
	require.NoError(t, err)
	assert.Len(t, id1, 64)

	tx.Outputs[0].Amount++

	id2, err := tx.ID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestTransactionBytesBadTxID(t *testing.T) {
	tx := testTx()
	tx.Inputs[0].PreviousOutpoint.TransactionID = "not-hex"

	_, err := tx.Bytes()
	require.Error(t, err)
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx := testTx()
	tx.Inputs[0].ScriptPublicKey = HexBytes{0x20, 0x01, 0xac}

	b, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"scriptPublicKey":"2001ac"`)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, tx.Inputs[0].ScriptPublicKey, decoded.Inputs[0].ScriptPublicKey)
	assert.Equal(t, tx.Outputs[1].Amount, decoded.Outputs[1].Amount)
}

func TestTotalOutputs(t *testing.T) {
	tx := testTx()
	assert.Equal(t, uint64(499_998_000), tx.TotalOutputs())
}

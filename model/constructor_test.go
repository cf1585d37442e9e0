package model

import (
	"context"
	"strings"
	"testing"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *settings.PolicySettings {
	s := settings.NewSettings()
	return s.Policy
}

func testUTXO(amount uint64, daaScore uint64) *SpendableOutput {
	return &SpendableOutput{
		TransactionID: strings.Repeat("cd", 32),
		Index:         0,
		Amount:        amount,
		DAAScore:      daaScore,
	}
}

func TestConstructHappyPath(t *testing.T) {
	c := NewConstructor(testPolicy())

	inputs := []*SpendableOutput{testUTXO(500_000_000, 100)}
	payments := []*PaymentOutput{{Address: testAddress("kaspa"), Amount: 200_000_000}}

	tx, err := c.Construct(context.Background(), inputs, payments, testAddress("kaspa"), 2_000)
	require.NoError(t, err)

	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 2) // payment + change
	assert.Equal(t, uint64(200_000_000), tx.Outputs[0].Amount)
	assert.Equal(t, uint64(299_998_000), tx.Outputs[1].Amount)
	assert.Empty(t, tx.Inputs[0].SignatureScript)
}

func TestConstructDustChangeFoldedIntoFee(t *testing.T) {
	c := NewConstructor(testPolicy())

	// change of 100 sompi is below the 600 dust threshold
	inputs := []*SpendableOutput{testUTXO(200_002_100, 100)}
	payments := []*PaymentOutput{{Address: testAddress("kaspa"), Amount: 200_000_000}}

	tx, err := c.Construct(context.Background(), inputs, payments, testAddress("kaspa"), 2_000)
	require.NoError(t, err)

	require.Len(t, tx.Outputs, 1)
	assert.Equal(t, uint64(200_000_000), tx.TotalOutputs())
}

func TestConstructInsufficientInputs(t *testing.T) {
	c := NewConstructor(testPolicy())

	inputs := []*SpendableOutput{testUTXO(100, 100)}
	payments := []*PaymentOutput{{Address: testAddress("kaspa"), Amount: 200_000_000}}

	_, err := c.Construct(context.Background(), inputs, payments, testAddress("kaspa"), 2_000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))
}

func TestConstructNoInputs(t *testing.T) {
	c := NewConstructor(testPolicy())

	_, err := c.Construct(context.Background(), nil, nil, testAddress("kaspa"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))
}

func TestConstructMassLimit(t *testing.T) {
	policy := testPolicy()
	policy.MaxTxMass = 3_000 // fits 1-2 inputs only

	c := NewConstructor(policy)

	inputs := make([]*SpendableOutput, 0, 8)
	for i := 0; i < 8; i++ {
		inputs = append(inputs, testUTXO(100_000_000, uint64(i)))
	}

	payments := []*PaymentOutput{{Address: testAddress("kaspa"), Amount: 500_000_000}}

	_, err := c.Construct(context.Background(), inputs, payments, testAddress("kaspa"), 2_000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))
	assert.Contains(t, err.Error(), "mass")
}

package model

import (
	"context"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/settings"
)

// TxConstructor is the transaction-construction primitive. The default
// implementation builds in-process; tests substitute their own.
type TxConstructor interface {
	Construct(ctx context.Context, inputs []*SpendableOutput, payments []*PaymentOutput, changeAddress string, fee uint64) (*Transaction, error)
}

type Constructor struct {
	policy *settings.PolicySettings
}

func NewConstructor(policy *settings.PolicySettings) *Constructor {
	return &Constructor{policy: policy}
}

// Construct assembles an unsigned transaction spending inputs into payments
// plus a change output back to changeAddress. Change below the dust threshold
// is folded into the fee. Fails if the inputs do not cover payments plus fee,
// or if the transaction would exceed the standard mass limit.
func (c *Constructor) Construct(_ context.Context, inputs []*SpendableOutput, payments []*PaymentOutput, changeAddress string, fee uint64) (*Transaction, error) {
	if len(inputs) == 0 {
		return nil, errors.NewTxInvalidError("cannot construct a transaction with no inputs")
	}

	var totalIn uint64

	for _, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, errors.NewTxInvalidError("invalid input %s:%d", in.TransactionID, in.Index, err)
		}

		next := totalIn + in.Amount
		if next < totalIn {
			return nil, errors.NewTxInvalidError("input amounts overflow")
		}

		totalIn = next
	}

	paymentsTotal, err := SumPaymentAmounts(payments)
	if err != nil {
		return nil, errors.NewTxInvalidError("invalid payment amounts", err)
	}

	required := paymentsTotal + fee
	if required < paymentsTotal {
		return nil, errors.NewTxInvalidError("payments plus fee overflow")
	}

	if totalIn < required {
		return nil, errors.NewTxInvalidError("inputs %d sompi do not cover payments %d plus fee %d", totalIn, paymentsTotal, fee)
	}

	outputs := make([]*TransactionOutput, 0, len(payments)+1)
	for _, p := range payments {
		outputs = append(outputs, &TransactionOutput{Amount: p.Amount, Address: p.Address})
	}

	if change := totalIn - required; change >= c.policy.DustThreshold {
		outputs = append(outputs, &TransactionOutput{Amount: change, Address: changeAddress})
	}

	mass := c.policy.MassBase +
		c.policy.MassPerInput*uint64(len(inputs)) +
		c.policy.MassPerOutput*uint64(len(outputs))
	if mass > c.policy.MaxTxMass {
		return nil, errors.NewTxInvalidError("transaction mass %d exceeds maximum %d (%d inputs, %d outputs)", mass, c.policy.MaxTxMass, len(inputs), len(outputs))
	}

	txInputs := make([]*TransactionInput, 0, len(inputs))
	for _, in := range inputs {
		txInputs = append(txInputs, &TransactionInput{
			PreviousOutpoint: Outpoint{TransactionID: in.TransactionID, Index: in.Index},
			SignatureScript:  nil,
			Sequence:         0,
			Amount:           in.Amount,
			ScriptPublicKey:  in.ScriptBytes,
		})
	}

	return &Transaction{
		Version:  TransactionVersion,
		Inputs:   txInputs,
		Outputs:  outputs,
		LockTime: 0,
	}, nil
}

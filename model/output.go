package model

import (
	"encoding/hex"
	"encoding/json"

	"github.com/kasflow/txbuilder/errors"
)

// HexBytes marshals to/from a hex string instead of base64, matching the
// indexer's wire format for script bytes.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}

	*h = b

	return nil
}

// SpendableOutput is a UTXO owned by the funding address. Immutable once
// fetched; it lives for the duration of one build request only.
type SpendableOutput struct {
	TransactionID string   `json:"transactionId"`
	Index         uint32   `json:"index"`
	Amount        uint64   `json:"amount"`
	ScriptBytes   HexBytes `json:"scriptPublicKey"`
	DAAScore      uint64   `json:"blockDaaScore"`
	IsCoinbase    bool     `json:"isCoinbase"`
}

func (o *SpendableOutput) Validate() error {
	if len(o.TransactionID) != 64 {
		return errors.NewInvalidRequestError("transaction id must be 32 bytes hex, got %q", o.TransactionID)
	}

	if _, err := hex.DecodeString(o.TransactionID); err != nil {
		return errors.NewInvalidRequestError("transaction id is not valid hex: %q", o.TransactionID, err)
	}

	return nil
}

// PaymentOutput is a caller-supplied payment destination.
type PaymentOutput struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amountInBaseUnit"`
}

func (p *PaymentOutput) Validate(network string) error {
	if p.Amount == 0 {
		return errors.NewInvalidRequestError("payment amount must be positive for address %s", p.Address)
	}

	return ValidateAddress(network, p.Address)
}

// SumPaymentAmounts returns the total of all payment amounts, rejecting
// overflow of the 64-bit sompi range.
func SumPaymentAmounts(payments []*PaymentOutput) (uint64, error) {
	var total uint64

	for _, p := range payments {
		next := total + p.Amount
		if next < total {
			return 0, errors.NewInvalidRequestError("payment amounts overflow")
		}

		total = next
	}

	return total, nil
}

package model

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const TransactionVersion uint32 = 0

type Outpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// TransactionInput references a spendable output. The signature script stays
// empty: signing happens in an external wallet.
type TransactionInput struct {
	PreviousOutpoint Outpoint `json:"previousOutpoint"`
	SignatureScript  HexBytes `json:"signatureScript"`
	Sequence         uint64   `json:"sequence"`

	// Carried for the signer's benefit so it does not need an indexer round-trip.
	Amount          uint64   `json:"amount"`
	ScriptPublicKey HexBytes `json:"scriptPublicKey"`
}

type TransactionOutput struct {
	Amount  uint64 `json:"amount"`
	Address string `json:"address"`
}

// Transaction is an unsigned transaction ready for external signing.
type Transaction struct {
	Version  uint32               `json:"version"`
	Inputs   []*TransactionInput  `json:"inputs"`
	Outputs  []*TransactionOutput `json:"outputs"`
	LockTime uint64               `json:"lockTime"`
}

// Bytes returns the deterministic wire form:
//
//	version(4) + inputCount(4) + inputs(txid 32 + index 4 + sequence 8) +
//	outputCount(4) + outputs(amount 8 + addrLen 4 + addr) + locktime(8)
//
// All integers little-endian.
func (tx *Transaction) Bytes() ([]byte, error) {
	size := 4 + 4 + len(tx.Inputs)*(32+4+8) + 4 + 8
	for _, out := range tx.Outputs {
		size += 8 + 4 + len(out.Address)
	}

	buf := make([]byte, 0, size)

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))

	for _, in := range tx.Inputs {
		txid, err := hex.DecodeString(in.PreviousOutpoint.TransactionID)
		if err != nil {
			return nil, err
		}

		buf = append(buf, txid...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PreviousOutpoint.Index)
		buf = binary.LittleEndian.AppendUint64(buf, in.Sequence)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))

	for _, out := range tx.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, out.Amount)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Address)))
		buf = append(buf, out.Address...)
	}

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)

	return buf, nil
}

// ID returns the hex transaction id: blake2b-256 over the wire form.
func (tx *Transaction) ID() (string, error) {
	b, err := tx.Bytes()
	if err != nil {
		return "", err
	}

	sum := blake2b.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}

// TotalOutputs returns the sum of all output amounts.
func (tx *Transaction) TotalOutputs() uint64 {
	var total uint64
	for _, out := range tx.Outputs {
		total += out.Amount
	}

	return total
}

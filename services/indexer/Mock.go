package indexer

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/kasflow/txbuilder/model"
)

// Mock implements ClientI for tests.
type Mock struct {
	UTXOs map[string][]*model.SpendableOutput
	Err   error
	Calls atomic.Int64
}

func (m *Mock) GetUTXOsByAddress(_ context.Context, address string) ([]*model.SpendableOutput, error) {
	m.Calls.Add(1)

	if m.Err != nil {
		return nil, m.Err
	}

	return m.UTXOs[address], nil
}

func (m *Mock) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "OK", nil
}

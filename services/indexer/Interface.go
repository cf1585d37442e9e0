package indexer

import (
	"context"

	"github.com/kasflow/txbuilder/model"
)

// ClientI fetches spendable outputs from the external indexer.
type ClientI interface {
	GetUTXOsByAddress(ctx context.Context, address string) ([]*model.SpendableOutput, error)
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}

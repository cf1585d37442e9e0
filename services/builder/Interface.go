package builder

import (
	"context"

	"github.com/kasflow/txbuilder/model"
	"github.com/kasflow/txbuilder/services/telemetry"
)

// ServiceI builds unsigned transactions from a funding address and a set of
// payment outputs.
type ServiceI interface {
	Build(ctx context.Context, req *BuildRequest) (*BuildResult, error)
}

// BuildRequest is one transaction-construction request. RequestedFee, when
// set, is a floor under the computed fee, never a ceiling. Telemetry, when
// set, overrides the cached telemetry field-by-field.
type BuildRequest struct {
	FromAddress  string
	NetworkID    string
	Outputs      []*model.PaymentOutput
	Purpose      string
	RequestedFee *uint64
	Telemetry    *telemetry.Snapshot
}

// PolicyTrace records every policy decision made while building, so callers
// can audit why a transaction looks the way it does.
type PolicyTrace struct {
	SelectionMode            string            `json:"selectionMode"`
	FeeMode                  string            `json:"feeMode"`
	Freshness                string            `json:"freshness"`
	FeeComponents            map[string]uint64 `json:"feeComponents"`
	RequestedFeeFloorApplied bool              `json:"requestedFeeFloorApplied"`
	TruncatedByCap           bool              `json:"truncatedByCap"`
	InsufficientFunds        bool              `json:"insufficientFunds"`
	Reselected               bool              `json:"reselected"`
	FallbackUsed             bool              `json:"fallbackUsed"`
}

// BuildResult is a successfully constructed, unsigned transaction plus the
// trace of how it was built.
type BuildResult struct {
	SerializedTransaction string             `json:"serializedTransaction"`
	Transaction           *model.Transaction `json:"transaction"`
	FeePaid               uint64             `json:"feePaidInBaseUnit"`
	InputsUsed            int                `json:"inputsUsed"`
	TotalInputsAvailable  int                `json:"totalInputsAvailable"`
	Trace                 *PolicyTrace       `json:"policyTrace"`
}

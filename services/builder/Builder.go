package builder

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/model"
	"github.com/kasflow/txbuilder/services/indexer"
	"github.com/kasflow/txbuilder/services/telemetry"
	"github.com/kasflow/txbuilder/settings"
	"github.com/kasflow/txbuilder/ulogger"
)

// Builder orchestrates one transaction build: validate the request, snapshot
// telemetry, fetch spendable outputs, select inputs, price the fee, and
// construct. Construction gets at most two attempts: the optimal selection
// first, then all available inputs if the optimal subset was strict.
type Builder struct {
	logger         ulogger.Logger
	settings       *settings.Settings
	indexerClient  indexer.ClientI
	telemetryCache *telemetry.Cache
	constructor    model.TxConstructor

	// utxoMemo absorbs per-address request bursts so the indexer sees at
	// most one fetch per address per TTL.
	utxoMemo *ttlcache.Cache[string, []*model.SpendableOutput]
}

func NewBuilder(logger ulogger.Logger, tSettings *settings.Settings, indexerClient indexer.ClientI,
	telemetryCache *telemetry.Cache, constructor model.TxConstructor) *Builder {
	initPrometheusMetrics()

	memo := ttlcache.New[string, []*model.SpendableOutput](
		ttlcache.WithTTL[string, []*model.SpendableOutput](tSettings.TxBuilder.UTXOMemoTTL),
		ttlcache.WithDisableTouchOnHit[string, []*model.SpendableOutput](),
	)
	go memo.Start()

	return &Builder{
		logger:         logger,
		settings:       tSettings,
		indexerClient:  indexerClient,
		telemetryCache: telemetryCache,
		constructor:    constructor,
		utxoMemo:       memo,
	}
}

// Close stops the memo's expiry loop.
func (b *Builder) Close() {
	b.utxoMemo.Stop()
}

// Build constructs an unsigned transaction for req. It never mutates req and
// holds no state across calls beyond the UTXO memo.
func (b *Builder) Build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	start := time.Now()

	prometheusBuildRequests.Inc()

	result, err := b.build(ctx, req)
	if err != nil {
		prometheusBuildErrors.WithLabelValues(errorCode(err)).Inc()
		return nil, err
	}

	prometheusBuildSuccess.Inc()
	prometheusInputsSelected.Add(float64(result.InputsUsed))
	prometheusBuildDuration.Observe(time.Since(start).Seconds())

	return result, nil
}

func (b *Builder) build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	outputsTotal, err := b.validateRequest(req)
	if err != nil {
		return nil, err
	}

	snapshot := b.telemetryCache.Snapshot(ctx, req.Telemetry)

	candidates, err := b.spendableOutputs(ctx, req.FromAddress)
	if err != nil {
		return nil, errors.NewServiceError("failed to fetch spendable outputs for %s", req.FromAddress, err)
	}

	if len(candidates) == 0 {
		return nil, errors.NewNoSpendableOutputsError("address %s has no spendable outputs", req.FromAddress)
	}

	policy := b.settings.Policy

	prometheusSelectionMode.WithLabelValues(policy.SelectionMode).Inc()
	prometheusFeeMode.WithLabelValues(policy.FeeMode).Inc()

	ordered := orderCandidates(candidates, policy.SelectionMode)

	plan := selectToTarget(ordered, outputsTotal, policy.MaxInputs, policy.SelectionMode)
	quote := computeFee(req.RequestedFee, outputsTotal, plan, snapshot, policy)

	// The fee raises the target. One re-selection pass covers it; the fee
	// is then re-priced for the new input count and any remaining shortfall
	// is left for construction to reject.
	reselected := false

	target, err := addChecked(outputsTotal, quote.Fee)
	if err != nil {
		return nil, err
	}

	if target > plan.SelectedAmount {
		plan = selectToTarget(ordered, target, policy.MaxInputs, policy.SelectionMode)
		quote = computeFee(req.RequestedFee, outputsTotal, plan, snapshot, policy)
		reselected = true

		prometheusBuildReselections.Inc()

		if target, err = addChecked(outputsTotal, quote.Fee); err != nil {
			return nil, err
		}
	}

	// The re-priced fee can leave the final target uncovered with no third
	// pass to fix it; the plan must say so.
	plan.RequiredTarget = target
	plan.TruncatedByCap = plan.SelectedAmount < target

	trace := &PolicyTrace{
		SelectionMode:            plan.Mode,
		FeeMode:                  quote.Mode,
		Freshness:                snapshot.Freshness.String(),
		FeeComponents:            quote.Components,
		RequestedFeeFloorApplied: quote.FloorApplied,
		TruncatedByCap:           plan.TruncatedByCap,
		InsufficientFunds:        plan.Insufficient(),
		Reselected:               reselected,
	}

	tx, txErr := b.constructor.Construct(ctx, plan.SelectedInputs, req.Outputs, req.FromAddress, quote.Fee)
	if txErr != nil && len(plan.SelectedInputs) < len(candidates) {
		b.logger.Warnf("[Builder] optimal construction for %s failed, retrying with all %d inputs: %v",
			req.FromAddress, len(candidates), txErr)

		prometheusBuildFallbacks.Inc()

		var fallbackAmount uint64

		for _, candidate := range ordered {
			if fallbackAmount, err = addChecked(fallbackAmount, candidate.Amount); err != nil {
				return nil, err
			}
		}

		fallbackPlan := &SelectionPlan{
			Mode:           plan.Mode,
			SelectedInputs: ordered,
			SelectedAmount: fallbackAmount,
			RequiredTarget: plan.RequiredTarget,
		}

		fallbackQuote := computeFee(req.RequestedFee, outputsTotal, fallbackPlan, snapshot, policy)

		if fallbackPlan.RequiredTarget, err = addChecked(outputsTotal, fallbackQuote.Fee); err != nil {
			return nil, err
		}

		fallbackTx, fallbackErr := b.constructor.Construct(ctx, fallbackPlan.SelectedInputs, req.Outputs, req.FromAddress, fallbackQuote.Fee)
		if fallbackErr != nil {
			return nil, errors.NewConstructionFailedError("both construction attempts for %s failed: optimal: %v, fallback: %v",
				req.FromAddress, txErr, fallbackErr, errors.Join(txErr, fallbackErr))
		}

		tx = fallbackTx
		plan = fallbackPlan
		quote = fallbackQuote

		trace.FeeComponents = quote.Components
		trace.RequestedFeeFloorApplied = quote.FloorApplied
		trace.TruncatedByCap = false
		trace.InsufficientFunds = fallbackPlan.Insufficient()
		trace.FallbackUsed = true
	} else if txErr != nil {
		return nil, errors.NewConstructionFailedError("construction for %s failed with every available input already selected", req.FromAddress, txErr)
	}

	serialized, err := tx.Bytes()
	if err != nil {
		return nil, errors.NewConstructionFailedError("failed to serialize transaction", err)
	}

	return &BuildResult{
		SerializedTransaction: hex.EncodeToString(serialized),
		Transaction:           tx,
		FeePaid:               plan.SelectedAmount - tx.TotalOutputs(),
		InputsUsed:            len(plan.SelectedInputs),
		TotalInputsAvailable:  len(candidates),
		Trace:                 trace,
	}, nil
}

func (b *Builder) validateRequest(req *BuildRequest) (uint64, error) {
	if req == nil {
		return 0, errors.NewInvalidRequestError("request is required")
	}

	if req.NetworkID == "" {
		return 0, errors.NewInvalidRequestError("networkId is required")
	}

	if err := model.ValidateAddress(req.NetworkID, req.FromAddress); err != nil {
		return 0, errors.NewInvalidRequestError("invalid fromAddress", err)
	}

	if len(req.Outputs) == 0 {
		return 0, errors.NewInvalidRequestError("at least one output is required")
	}

	for i, output := range req.Outputs {
		if err := output.Validate(req.NetworkID); err != nil {
			return 0, errors.NewInvalidRequestError("invalid output at index %d", i, err)
		}
	}

	outputsTotal, err := model.SumPaymentAmounts(req.Outputs)
	if err != nil {
		return 0, errors.NewInvalidRequestError("invalid output amounts", err)
	}

	return outputsTotal, nil
}

// spendableOutputs returns the candidate set for address, served from the
// memo when a recent fetch exists.
func (b *Builder) spendableOutputs(ctx context.Context, address string) ([]*model.SpendableOutput, error) {
	if item := b.utxoMemo.Get(address); item != nil {
		return item.Value(), nil
	}

	utxos, err := b.indexerClient.GetUTXOsByAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	b.utxoMemo.Set(address, utxos, ttlcache.DefaultTTL)

	return utxos, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.NewInvalidRequestError("amount overflow")
	}

	return sum, nil
}

func errorCode(err error) string {
	var terr *errors.Error
	if errors.As(err, &terr) {
		return terr.Code().String()
	}

	return "ERR_UNKNOWN"
}

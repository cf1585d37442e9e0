package builder

import (
	"github.com/kasflow/txbuilder/services/telemetry"
	"github.com/kasflow/txbuilder/settings"
)

const (
	FeeModeFixed     = "fixed"
	FeeModeOutputBps = "output_bps"
	FeeModeAdaptive  = "adaptive"
)

// FeeQuote is the priced fee for one selection plan, with the per-component
// breakdown that ends up in the policy trace.
type FeeQuote struct {
	Mode         string
	Fee          uint64
	Components   map[string]uint64
	FloorApplied bool
}

// computeFee prices the fee for a selection plan. The adaptive mode sums a
// structural part (base, per-input, fragmentation, truncation) and a
// telemetry part (congestion, receipt lag, scheduler latency). Structural
// components never depend on telemetry freshness; telemetry components are
// scaled by it: fresh pays in full, soft-stale pays a configured fraction,
// hard-stale pays nothing. A requested fee hint acts as a floor in every
// mode except fixed.
func computeFee(requestedFee *uint64, outputsTotal uint64, plan *SelectionPlan, snapshot *telemetry.Snapshot, policy *settings.PolicySettings) *FeeQuote {
	quote := &FeeQuote{
		Mode:       policy.FeeMode,
		Components: make(map[string]uint64),
	}

	switch policy.FeeMode {
	case FeeModeFixed:
		quote.Fee = policy.FixedFee
		quote.Components["fixed"] = policy.FixedFee

		return quote

	case FeeModeOutputBps:
		quote.Fee = ceilBps(outputsTotal, policy.OutputBpsRate)
		quote.Components["output_bps"] = quote.Fee

	default: // adaptive
		telemetryBps := freshnessBps(snapshot.Freshness, policy)

		quote.Components["base"] = policy.BaseFee
		quote.Components["per_input"] = policy.PerInputCost * uint64(len(plan.SelectedInputs))

		if len(plan.SelectedInputs) > policy.FragmentationThresholdInputs {
			quote.Components["fragmentation"] = policy.FragmentationBonus
		}

		if plan.TruncatedByCap {
			quote.Components["truncation"] = policy.TruncationBonus
		}

		if snapshot.DAACongestionPct != nil {
			quote.Components["congestion"] = scaleBps(congestionShare(*snapshot.DAACongestionPct, policy.CongestionBonus), telemetryBps)
		}

		if snapshot.ReceiptLagP95Ms != nil {
			quote.Components["receipt_lag"] = scaleBps(
				tieredBonus(*snapshot.ReceiptLagP95Ms, policy.ReceiptLagHighMs, policy.ReceiptLagCriticalMs, policy.ReceiptLagBonus, policy.TierPartialBps),
				telemetryBps,
			)
		}

		if snapshot.SchedulerCallbackLatencyP95Ms != nil {
			quote.Components["scheduler_latency"] = scaleBps(
				tieredBonus(*snapshot.SchedulerCallbackLatencyP95Ms, policy.SchedulerLatencyHighMs, policy.SchedulerLatencyCriticalMs, policy.SchedulerLatencyBonus, policy.TierPartialBps),
				telemetryBps,
			)
		}

		for _, component := range quote.Components {
			quote.Fee += component
		}
	}

	if requestedFee != nil && *requestedFee > quote.Fee {
		quote.Fee = *requestedFee
		quote.FloorApplied = true
	}

	return quote
}

// freshnessBps maps telemetry freshness to the basis-point multiplier
// applied to every telemetry-derived component.
func freshnessBps(freshness telemetry.FreshnessState, policy *settings.PolicySettings) uint64 {
	switch freshness {
	case telemetry.FreshnessStaleSoft:
		return policy.StaleSoftDiscountBps
	case telemetry.FreshnessStaleHard:
		return 0
	default:
		return 10_000
	}
}

// tieredBonus returns the full bonus at or above the critical threshold, a
// TierPartialBps fraction of it at or above the high threshold, and zero
// below both.
func tieredBonus(valueMs float64, highMs, criticalMs, bonus, partialBps uint64) uint64 {
	if valueMs >= float64(criticalMs) {
		return bonus
	}

	if valueMs >= float64(highMs) {
		return scaleBps(bonus, partialBps)
	}

	return 0
}

// congestionShare scales the congestion bonus linearly by the saturation
// percentage, clamped to [0, 100].
func congestionShare(pct float64, bonus uint64) uint64 {
	if pct <= 0 {
		return 0
	}

	if pct >= 100 {
		return bonus
	}

	return bonus * uint64(pct) / 100
}

func scaleBps(value, bps uint64) uint64 {
	return value/10_000*bps + value%10_000*bps/10_000
}

// ceilBps computes ceil(total * bps / 10000) without 128-bit intermediates.
func ceilBps(total, bps uint64) uint64 {
	quotient := total / 10_000
	remainder := total % 10_000

	fee := quotient * bps

	part := remainder * bps
	fee += part / 10_000

	if part%10_000 != 0 {
		fee++
	}

	return fee
}

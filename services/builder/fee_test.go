package builder

import (
	"testing"

	"github.com/kasflow/txbuilder/model"
	"github.com/kasflow/txbuilder/services/telemetry"
	"github.com/kasflow/txbuilder/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *settings.PolicySettings {
	return settings.NewSettings().Policy
}

func planWithInputs(n int) *SelectionPlan {
	inputs := make([]*model.SpendableOutput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, testUTXO(1_000_000, uint64(100+i)))
	}

	return &SelectionPlan{
		Mode:           SelectionModeAuto,
		SelectedInputs: inputs,
		SelectedAmount: uint64(n) * 1_000_000,
	}
}

func freshSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{Freshness: telemetry.FreshnessFresh}
}

func TestComputeFeeFixed(t *testing.T) {
	policy := testPolicy()
	policy.FeeMode = FeeModeFixed
	policy.FixedFee = 2_000

	quote := computeFee(nil, 1_000_000, planWithInputs(3), freshSnapshot(), policy)

	assert.Equal(t, uint64(2_000), quote.Fee)
	assert.Equal(t, uint64(2_000), quote.Components["fixed"])
}

func TestComputeFeeOutputBpsRoundsUp(t *testing.T) {
	policy := testPolicy()
	policy.FeeMode = FeeModeOutputBps
	policy.OutputBpsRate = 10

	// 10 bps of 1,000,001 is 1,000.001, rounded up
	quote := computeFee(nil, 1_000_001, planWithInputs(1), freshSnapshot(), policy)

	assert.Equal(t, uint64(1_001), quote.Fee)
}

func TestComputeFeeAdaptiveStructuralOnly(t *testing.T) {
	policy := testPolicy()

	quote := computeFee(nil, 1_000_000, planWithInputs(3), freshSnapshot(), policy)

	// base 1000 + 3 inputs x 500, no telemetry fields set
	assert.Equal(t, uint64(2_500), quote.Fee)
	assert.Equal(t, uint64(1_000), quote.Components["base"])
	assert.Equal(t, uint64(1_500), quote.Components["per_input"])
	assert.NotContains(t, quote.Components, "congestion")
}

func TestComputeFeeAdaptiveFragmentationBonus(t *testing.T) {
	policy := testPolicy()

	below := computeFee(nil, 1_000_000, planWithInputs(16), freshSnapshot(), policy)
	above := computeFee(nil, 1_000_000, planWithInputs(17), freshSnapshot(), policy)

	assert.NotContains(t, below.Components, "fragmentation")
	assert.Equal(t, policy.FragmentationBonus, above.Components["fragmentation"])
}

func TestComputeFeeAdaptiveTruncationBonusSurvivesStaleness(t *testing.T) {
	policy := testPolicy()

	plan := planWithInputs(2)
	plan.TruncatedByCap = true

	snapshot := &telemetry.Snapshot{Freshness: telemetry.FreshnessStaleHard}

	quote := computeFee(nil, 1_000_000, plan, snapshot, policy)

	// truncation is structural: hard-stale telemetry does not discount it
	assert.Equal(t, policy.TruncationBonus, quote.Components["truncation"])
}

func TestComputeFeeAdaptiveCongestionScalesLinearly(t *testing.T) {
	policy := testPolicy()
	plan := planWithInputs(1)

	half := computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
		DAACongestionPct: telemetry.Float64(50),
		Freshness:        telemetry.FreshnessFresh,
	}, policy)

	full := computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
		DAACongestionPct: telemetry.Float64(100),
		Freshness:        telemetry.FreshnessFresh,
	}, policy)

	over := computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
		DAACongestionPct: telemetry.Float64(250),
		Freshness:        telemetry.FreshnessFresh,
	}, policy)

	assert.Equal(t, policy.CongestionBonus/2, half.Components["congestion"])
	assert.Equal(t, policy.CongestionBonus, full.Components["congestion"])
	assert.Equal(t, policy.CongestionBonus, over.Components["congestion"])
}

func TestComputeFeeAdaptiveReceiptLagTiers(t *testing.T) {
	policy := testPolicy()
	plan := planWithInputs(1)

	quoteFor := func(lagMs float64) *FeeQuote {
		return computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
			ReceiptLagP95Ms: telemetry.Float64(lagMs),
			Freshness:       telemetry.FreshnessFresh,
		}, policy)
	}

	assert.NotContains(t, quoteFor(4_999).Components, "receipt_lag")
	assert.Equal(t, policy.ReceiptLagBonus/2, quoteFor(5_000).Components["receipt_lag"])
	assert.Equal(t, policy.ReceiptLagBonus, quoteFor(30_000).Components["receipt_lag"])
}

func TestComputeFeeAdaptiveSchedulerLatencyTiers(t *testing.T) {
	policy := testPolicy()
	plan := planWithInputs(1)

	quoteFor := func(latencyMs float64) *FeeQuote {
		return computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
			SchedulerCallbackLatencyP95Ms: telemetry.Float64(latencyMs),
			Freshness:                     telemetry.FreshnessFresh,
		}, policy)
	}

	assert.NotContains(t, quoteFor(1_999).Components, "scheduler_latency")
	assert.Equal(t, policy.SchedulerLatencyBonus/2, quoteFor(2_000).Components["scheduler_latency"])
	assert.Equal(t, policy.SchedulerLatencyBonus, quoteFor(10_000).Components["scheduler_latency"])
}

func TestComputeFeeAdaptiveFreshnessMonotonic(t *testing.T) {
	policy := testPolicy()
	plan := planWithInputs(1)

	quoteFor := func(f telemetry.FreshnessState) *FeeQuote {
		return computeFee(nil, 1_000_000, plan, &telemetry.Snapshot{
			DAACongestionPct:              telemetry.Float64(80),
			ReceiptLagP95Ms:               telemetry.Float64(40_000),
			SchedulerCallbackLatencyP95Ms: telemetry.Float64(12_000),
			Freshness:                     f,
		}, policy)
	}

	fresh := quoteFor(telemetry.FreshnessFresh)
	soft := quoteFor(telemetry.FreshnessStaleSoft)
	hard := quoteFor(telemetry.FreshnessStaleHard)

	require.Greater(t, fresh.Fee, soft.Fee)
	require.Greater(t, soft.Fee, hard.Fee)

	// hard-stale strips every telemetry component down to zero
	assert.Zero(t, hard.Components["congestion"])
	assert.Zero(t, hard.Components["receipt_lag"])
	assert.Zero(t, hard.Components["scheduler_latency"])
}

func TestComputeFeeRequestedFeeIsAFloor(t *testing.T) {
	policy := testPolicy()
	plan := planWithInputs(1)

	low := uint64(10)
	high := uint64(1_000_000)

	unfloored := computeFee(&low, 1_000_000, plan, freshSnapshot(), policy)
	floored := computeFee(&high, 1_000_000, plan, freshSnapshot(), policy)

	assert.False(t, unfloored.FloorApplied)
	assert.Greater(t, unfloored.Fee, low)

	assert.True(t, floored.FloorApplied)
	assert.Equal(t, high, floored.Fee)
}

func TestComputeFeeFixedIgnoresHint(t *testing.T) {
	policy := testPolicy()
	policy.FeeMode = FeeModeFixed
	policy.FixedFee = 2_000

	hint := uint64(50_000)

	quote := computeFee(&hint, 1_000_000, planWithInputs(1), freshSnapshot(), policy)

	assert.Equal(t, uint64(2_000), quote.Fee)
	assert.False(t, quote.FloorApplied)
}

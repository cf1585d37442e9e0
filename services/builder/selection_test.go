package builder

import (
	"strings"
	"testing"

	"github.com/kasflow/txbuilder/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUTXO(amount, daaScore uint64) *model.SpendableOutput {
	return &model.SpendableOutput{
		TransactionID: strings.Repeat("ab", 32),
		Index:         0,
		Amount:        amount,
		DAAScore:      daaScore,
	}
}

func amounts(outputs []*model.SpendableOutput) []uint64 {
	result := make([]uint64, 0, len(outputs))
	for _, o := range outputs {
		result = append(result, o.Amount)
	}

	return result
}

func TestOrderCandidatesAuto(t *testing.T) {
	candidates := []*model.SpendableOutput{
		testUTXO(300, 120),
		testUTXO(100, 100),
		testUTXO(200, 110),
		testUTXO(500, 130),
	}

	ordered := orderCandidates(candidates, SelectionModeAuto)

	assert.Equal(t, []uint64{100, 200, 300, 500}, amounts(ordered))

	// the original slice is untouched
	assert.Equal(t, uint64(300), candidates[0].Amount)
}

func TestOrderCandidatesAutoTiesByAmount(t *testing.T) {
	candidates := []*model.SpendableOutput{
		testUTXO(900, 100),
		testUTXO(100, 100),
	}

	ordered := orderCandidates(candidates, SelectionModeAuto)

	assert.Equal(t, []uint64{100, 900}, amounts(ordered))
}

func TestOrderCandidatesLargestFirst(t *testing.T) {
	candidates := []*model.SpendableOutput{
		testUTXO(100, 100),
		testUTXO(500, 130),
		testUTXO(200, 110),
	}

	ordered := orderCandidates(candidates, SelectionModeLargestFirst)

	assert.Equal(t, []uint64{500, 200, 100}, amounts(ordered))
}

func TestOrderCandidatesSmallestFirst(t *testing.T) {
	candidates := []*model.SpendableOutput{
		testUTXO(500, 130),
		testUTXO(100, 100),
		testUTXO(200, 110),
	}

	ordered := orderCandidates(candidates, SelectionModeSmallestFirst)

	assert.Equal(t, []uint64{100, 200, 500}, amounts(ordered))
}

func TestSelectToTargetOldestFirstStopsAtTarget(t *testing.T) {
	candidates := []*model.SpendableOutput{
		testUTXO(300_000_000, 120),
		testUTXO(100_000_000, 100),
		testUTXO(200_000_000, 110),
		testUTXO(500_000_000, 130),
	}

	ordered := orderCandidates(candidates, SelectionModeAuto)
	plan := selectToTarget(ordered, 250_000_000, 3, SelectionModeAuto)

	require.Len(t, plan.SelectedInputs, 2)
	assert.Equal(t, uint64(100), plan.SelectedInputs[0].DAAScore)
	assert.Equal(t, uint64(110), plan.SelectedInputs[1].DAAScore)
	assert.Equal(t, uint64(300_000_000), plan.SelectedAmount)
	assert.False(t, plan.TruncatedByCap)
	assert.False(t, plan.Insufficient())
}

func TestSelectToTargetLargestFirstSingleInput(t *testing.T) {
	ordered := orderCandidates([]*model.SpendableOutput{testUTXO(900_000_000, 100)}, SelectionModeLargestFirst)

	plan := selectToTarget(ordered, 200_000_000, 1, SelectionModeLargestFirst)

	require.Len(t, plan.SelectedInputs, 1)
	assert.False(t, plan.TruncatedByCap)
}

func TestSelectToTargetCapHitBeforeTarget(t *testing.T) {
	ordered := orderCandidates([]*model.SpendableOutput{
		testUTXO(100, 100),
		testUTXO(100, 110),
		testUTXO(100, 120),
	}, SelectionModeAuto)

	plan := selectToTarget(ordered, 1_000, 2, SelectionModeAuto)

	require.Len(t, plan.SelectedInputs, 2)
	assert.Equal(t, uint64(200), plan.SelectedAmount)
	assert.True(t, plan.TruncatedByCap)
	assert.True(t, plan.Insufficient())
}

func TestSelectToTargetExhaustedBelowTarget(t *testing.T) {
	ordered := orderCandidates([]*model.SpendableOutput{testUTXO(100, 100)}, SelectionModeAuto)

	plan := selectToTarget(ordered, 1_000, 64, SelectionModeAuto)

	require.Len(t, plan.SelectedInputs, 1)
	assert.True(t, plan.TruncatedByCap)
}

func TestSelectToTargetNoCandidates(t *testing.T) {
	plan := selectToTarget(nil, 1_000, 64, SelectionModeAuto)

	assert.Empty(t, plan.SelectedInputs)
	assert.Zero(t, plan.SelectedAmount)
	assert.True(t, plan.TruncatedByCap)
}

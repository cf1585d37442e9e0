package builder

import (
	"sort"

	"github.com/kasflow/txbuilder/model"
)

const (
	SelectionModeAuto          = "auto"
	SelectionModeLargestFirst  = "largest_first"
	SelectionModeSmallestFirst = "smallest_first"
)

// SelectionPlan is the outcome of one coin-selection pass. Immutable once
// returned; a changed fee target gets a fresh pass over the same ordering.
type SelectionPlan struct {
	Mode           string
	SelectedInputs []*model.SpendableOutput
	SelectedAmount uint64
	RequiredTarget uint64
	TruncatedByCap bool
}

// Insufficient reports whether the selected inputs fail to cover the target.
func (p *SelectionPlan) Insufficient() bool {
	return p.SelectedAmount < p.RequiredTarget
}

// orderCandidates returns a copy of candidates in the spend order for mode:
//
//   - auto: oldest first (ascending DAA score), ties by ascending amount,
//     consolidating old dust-like outputs
//   - largest_first: descending amount, minimizing input count
//   - smallest_first: ascending amount, maximizing consolidation
func orderCandidates(candidates []*model.SpendableOutput, mode string) []*model.SpendableOutput {
	ordered := make([]*model.SpendableOutput, len(candidates))
	copy(ordered, candidates)

	switch mode {
	case SelectionModeLargestFirst:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Amount > ordered[j].Amount
		})
	case SelectionModeSmallestFirst:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Amount < ordered[j].Amount
		})
	default: // auto
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].DAAScore != ordered[j].DAAScore {
				return ordered[i].DAAScore < ordered[j].DAAScore
			}

			return ordered[i].Amount < ordered[j].Amount
		})
	}

	return ordered
}

// selectToTarget walks the ordered candidates, accumulating until the target
// is reached or maxInputs is hit, whichever comes first. A plan that falls
// short of the target carries TruncatedByCap=true; the caller decides what
// to do with the weak result. Zero candidates yield an empty plan, which is
// not itself an error.
func selectToTarget(ordered []*model.SpendableOutput, target uint64, maxInputs int, mode string) *SelectionPlan {
	plan := &SelectionPlan{
		Mode:           mode,
		SelectedInputs: make([]*model.SpendableOutput, 0, maxInputs),
		RequiredTarget: target,
	}

	for _, candidate := range ordered {
		if plan.SelectedAmount >= target {
			break
		}

		if len(plan.SelectedInputs) >= maxInputs {
			break
		}

		plan.SelectedInputs = append(plan.SelectedInputs, candidate)
		plan.SelectedAmount += candidate.Amount
	}

	plan.TruncatedByCap = plan.SelectedAmount < target

	return plan
}

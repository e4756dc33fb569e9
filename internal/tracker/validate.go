package tracker

import "alignment-editor/internal/alignment"

// ValidationResult reports chain feasibility for the checked range.
type ValidationResult struct {
	Indices []int // extended curve index range that was checked
	Failed  map[int]bool
	IsValid bool
}

// ValidateChain checks tangent-length feasibility for the affected curve
// range. The range is first extended by one immediate neighbor on each
// open side, so a boundary curve is checked against geometry that is not
// itself being dragged.
//
// For every adjacent pair, the left curve's outgoing tangent plus the
// right curve's incoming tangent must fit within the distance between
// their PIs; a violation marks both curves of the pair, never just one.
// If the first or last curve of the whole chain is in range, its outer
// tangent is additionally checked against the fixed chain anchor.
func ValidateChain(ch *alignment.Chain, affected []int) ValidationResult {
	res := ValidationResult{Failed: map[int]bool{}, IsValid: true}
	if len(affected) == 0 || len(ch.Curves) == 0 {
		return res
	}

	lo, hi := affected[0], affected[len(affected)-1]
	if lo > 0 {
		lo--
	}
	if hi < len(ch.Curves)-1 {
		hi++
	}
	for i := lo; i <= hi; i++ {
		res.Indices = append(res.Indices, i)
	}

	for i := lo; i < hi; i++ {
		left, right := ch.Curves[i], ch.Curves[i+1]
		room := left.PI.Distance(right.PI)
		if left.TangentAtEnd()+right.TangentAtStart() > room {
			res.Failed[i] = true
			res.Failed[i+1] = true
			tracer().Debugf("pair %d/%d infeasible: tangents %.4f+%.4f > %.4f",
				i, i+1, left.TangentAtEnd(), right.TangentAtStart(), room)
		}
	}

	if lo == 0 {
		first := ch.Curves[0]
		anchor := ch.Points[0].Position
		if first.TangentAtStart() > first.PI.Distance(anchor) {
			res.Failed[0] = true
		}
	}
	if hi == len(ch.Curves)-1 {
		last := ch.Curves[hi]
		anchor := ch.Points[len(ch.Points)-1].Position
		if last.TangentAtEnd() > last.PI.Distance(anchor) {
			res.Failed[hi] = true
		}
	}

	res.IsValid = len(res.Failed) == 0
	return res
}

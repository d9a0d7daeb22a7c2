package heist

import "github.com/samber/lo"

// WeightScale is the total probability mass of every per-tier outcome table.
const WeightScale = 100_000

// Outcome is one weighted entry of a bank's outcome table. Weight is the raw
// per-entry mass used by the close-time draw; Multiplier scales the base
// reward and is zero for every loss class.
type Outcome struct {
	Weight     uint32       `json:"weight"`
	Multiplier uint8        `json:"multiplier"`
	IsNegative bool         `json:"is_negative"`
	Class      OutcomeClass `json:"class"`
}

func positive(weight uint32, multiplier uint8) Outcome {
	return Outcome{Weight: weight, Multiplier: multiplier, Class: ClassNone}
}

func negative(weight uint32, class OutcomeClass) Outcome {
	return Outcome{Weight: weight, IsNegative: true, Class: class}
}

// OutcomesFor returns the fixed 8-entry outcome table of a tier: four payout
// entries (x1, x2, x5, x10) followed by four loss entries. The tables are
// generated exactly once, at first pool initialization, and are never
// regenerated by later funding calls. Each table sums to WeightScale.
func OutcomesFor(tier Tier) []Outcome {
	switch tier {
	case TierLow:
		return []Outcome{
			positive(54_000, 1),
			positive(13_000, 2),
			positive(2_000, 5),
			positive(1_000, 10),
			negative(29_947, ClassFumbled),
			negative(45, ClassConfiscated),
			negative(8, ClassArrested),
			negative(0, ClassRekt),
		}
	case TierMid:
		return []Outcome{
			positive(45_000, 1),
			positive(10_000, 2),
			positive(3_000, 5),
			positive(2_000, 10),
			negative(39_924, ClassFumbled),
			negative(68, ClassConfiscated),
			negative(8, ClassArrested),
			negative(0, ClassRekt),
		}
	default:
		return []Outcome{
			positive(36_000, 1),
			positive(7_000, 2),
			positive(4_000, 5),
			positive(3_000, 10),
			negative(49_897, ClassFumbled),
			negative(88, ClassConfiscated),
			negative(14, ClassArrested),
			negative(2, ClassRekt),
		}
	}
}

// ValidateOutcomes reports whether a table carries the full probability mass.
func ValidateOutcomes(outcomes []Outcome) bool {
	total := lo.SumBy(outcomes, func(o Outcome) uint64 { return uint64(o.Weight) })
	return total == WeightScale
}

// SelectOutcome resolves a draw in [0, WeightScale) against a table using the
// program's literal selection rule: the first entry whose raw weight strictly
// exceeds the draw wins. This is not a cumulative-distribution lookup; a draw
// at or above the largest weight matches nothing, and the second return is
// false. Callers treat that as an invariant violation and abort.
func SelectOutcome(outcomes []Outcome, draw uint64) (Outcome, bool) {
	for _, o := range outcomes {
		if uint64(o.Weight) > draw {
			return o, true
		}
	}
	return Outcome{}, false
}

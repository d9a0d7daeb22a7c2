package heist

import (
	"testing"
)

func TestOutcomesForMass(t *testing.T) {
	for _, tier := range Tiers() {
		t.Run(tier.String(), func(t *testing.T) {
			outcomes := OutcomesFor(tier)
			if len(outcomes) != 8 {
				t.Fatalf("expected 8 entries, got %d", len(outcomes))
			}
			if !ValidateOutcomes(outcomes) {
				var total uint64
				for _, o := range outcomes {
					total += uint64(o.Weight)
				}
				t.Errorf("expected total mass %d, got %d", WeightScale, total)
			}
		})
	}
}

func TestOutcomesForShape(t *testing.T) {
	wantMultipliers := []uint8{1, 2, 5, 10}
	wantClasses := []OutcomeClass{ClassFumbled, ClassConfiscated, ClassArrested, ClassRekt}

	for _, tier := range Tiers() {
		t.Run(tier.String(), func(t *testing.T) {
			outcomes := OutcomesFor(tier)
			for i, want := range wantMultipliers {
				o := outcomes[i]
				if o.IsNegative {
					t.Errorf("entry %d: expected payout entry, got negative", i)
				}
				if o.Multiplier != want {
					t.Errorf("entry %d: expected multiplier %d, got %d", i, want, o.Multiplier)
				}
				if o.Class != ClassNone {
					t.Errorf("entry %d: expected class none, got %v", i, o.Class)
				}
			}
			for i, want := range wantClasses {
				o := outcomes[4+i]
				if !o.IsNegative {
					t.Errorf("entry %d: expected negative entry", 4+i)
				}
				if o.Multiplier != 0 {
					t.Errorf("entry %d: expected zero multiplier, got %d", 4+i, o.Multiplier)
				}
				if o.Class != want {
					t.Errorf("entry %d: expected class %v, got %v", 4+i, want, o.Class)
				}
			}
		})
	}
}

func TestOutcomesForStable(t *testing.T) {
	// Tables are value copies; mutating one must not leak into the next.
	first := OutcomesFor(TierLow)
	first[0].Weight = 0
	second := OutcomesFor(TierLow)
	if second[0].Weight != 54_000 {
		t.Errorf("expected fresh table weight 54000, got %d", second[0].Weight)
	}
}

func TestSelectOutcome(t *testing.T) {
	tests := []struct {
		name      string
		tier      Tier
		draw      uint64
		wantMatch bool
		wantMult  uint8
		wantClass OutcomeClass
	}{
		// The rule is first entry whose raw weight strictly exceeds the
		// draw, not a cumulative walk. The low bank's leading weight covers
		// every draw below it, and nothing covers draws at or above it.
		{name: "low zero draw", tier: TierLow, draw: 0, wantMatch: true, wantMult: 1, wantClass: ClassNone},
		{name: "low below first weight", tier: TierLow, draw: 53_999, wantMatch: true, wantMult: 1, wantClass: ClassNone},
		{name: "low at first weight falls through", tier: TierLow, draw: 54_000, wantMatch: false},
		{name: "low max draw falls through", tier: TierLow, draw: 99_999, wantMatch: false},

		{name: "mid below first weight", tier: TierMid, draw: 44_999, wantMatch: true, wantMult: 1, wantClass: ClassNone},
		{name: "mid at first weight falls through", tier: TierMid, draw: 45_000, wantMatch: false},

		{name: "high below first weight", tier: TierHigh, draw: 35_999, wantMatch: true, wantMult: 1, wantClass: ClassNone},
		{name: "high fumbled band", tier: TierHigh, draw: 36_000, wantMatch: true, wantMult: 0, wantClass: ClassFumbled},
		{name: "high fumbled band upper", tier: TierHigh, draw: 49_896, wantMatch: true, wantMult: 0, wantClass: ClassFumbled},
		{name: "high past fumbled falls through", tier: TierHigh, draw: 49_897, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectOutcome(OutcomesFor(tt.tier), tt.draw)
			if ok != tt.wantMatch {
				t.Fatalf("expected match=%v, got %v (outcome %+v)", tt.wantMatch, ok, got)
			}
			if !ok {
				return
			}
			if got.Multiplier != tt.wantMult {
				t.Errorf("expected multiplier %d, got %d", tt.wantMult, got.Multiplier)
			}
			if got.Class != tt.wantClass {
				t.Errorf("expected class %v, got %v", tt.wantClass, got.Class)
			}
			if got.IsNegative != (tt.wantClass != ClassNone) {
				t.Errorf("unexpected IsNegative=%v for class %v", got.IsNegative, got.Class)
			}
		})
	}
}

func TestSelectOutcomeFirstMatchWins(t *testing.T) {
	table := []Outcome{
		{Weight: 10, Multiplier: 1},
		{Weight: 500, Multiplier: 2},
		{Weight: 900, Multiplier: 5},
	}

	// Draw 20 skips the first entry (10 is not greater than 20) and lands
	// on the second, even though a cumulative walk would also pick it.
	got, ok := SelectOutcome(table, 20)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Multiplier != 2 {
		t.Errorf("expected multiplier 2, got %d", got.Multiplier)
	}

	// Draw 5 is covered by every entry; the first wins.
	got, ok = SelectOutcome(table, 5)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Multiplier != 1 {
		t.Errorf("expected multiplier 1, got %d", got.Multiplier)
	}

	if _, ok := SelectOutcome(table, 900); ok {
		t.Error("expected no match at the largest weight")
	}
}

func TestValidateOutcomes(t *testing.T) {
	if ValidateOutcomes([]Outcome{{Weight: 1}}) {
		t.Error("expected short table to fail validation")
	}
	if !ValidateOutcomes([]Outcome{{Weight: 60_000}, {Weight: 40_000}}) {
		t.Error("expected full-mass table to pass validation")
	}
}

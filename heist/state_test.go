package heist

import (
	"testing"
)

func TestGenerateBanks(t *testing.T) {
	banks := GenerateBanks(150)
	if len(banks) != NumTiers {
		t.Fatalf("expected %d banks, got %d", NumTiers, len(banks))
	}
	for i, tier := range Tiers() {
		b := banks[i]
		if b.Tier != tier {
			t.Errorf("bank %d: expected tier %v, got %v", i, tier, b.Tier)
		}
		if b.RewardPerHour != 150 {
			t.Errorf("bank %d: expected reward per hour 150, got %d", i, b.RewardPerHour)
		}
		if b.TotalStaked != 0 {
			t.Errorf("bank %d: expected zero total staked, got %d", i, b.TotalStaked)
		}
		if !ValidateOutcomes(b.Outcomes) {
			t.Errorf("bank %d: outcome table does not carry full mass", i)
		}
	}
}

func TestGlobalStateBankReturnsSlot(t *testing.T) {
	g := &GlobalState{Banks: GenerateBanks(100)}

	g.Bank(TierMid).TotalStaked++
	if g.Banks[TierMid].TotalStaked != 1 {
		t.Errorf("expected mutation through Bank to hit the slot, got %d", g.Banks[TierMid].TotalStaked)
	}
	if g.Banks[TierLow].TotalStaked != 0 || g.Banks[TierHigh].TotalStaked != 0 {
		t.Error("expected other bank slots untouched")
	}
}

func TestRecordLens(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "global", got: GlobalLen(), want: 123},
		{name: "player", got: PlayerInfoLen(), want: 19},
		{name: "stake", got: StakeInfoLen(), want: 114},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %d bytes, got %d", tt.want, tt.got)
			}
		})
	}
}

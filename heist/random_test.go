package heist

import (
	"testing"
	"time"
)

func TestDrawDeterministic(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	first := Draw(now, "alice")
	second := Draw(now, "alice")
	if first != second {
		t.Errorf("expected repeated draws to match, got %d and %d", first, second)
	}
}

func TestDrawKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		unix     int64
		identity string
		want     uint64
	}{
		{name: "alice", unix: 1_700_000_000, identity: "alice", want: 36_141},
		{name: "alice one hour later", unix: 1_700_003_600, identity: "alice", want: 74_419},
		{name: "alice two hours later", unix: 1_700_007_200, identity: "alice", want: 12_698},
		{name: "bob", unix: 1_700_000_000, identity: "bob", want: 28_273},
		{name: "carol two hours later", unix: 1_700_007_200, identity: "carol", want: 35_757},
		{name: "mallory one hour later", unix: 1_700_003_600, identity: "mallory", want: 45_973},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Draw(time.Unix(tt.unix, 0), tt.identity)
			if got != tt.want {
				t.Errorf("expected draw %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDrawRange(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 10_000; i++ {
		got := Draw(base.Add(time.Duration(i)*time.Second), "range-check")
		if got >= WeightScale {
			t.Fatalf("draw %d out of range at offset %d", got, i)
		}
	}
}

func TestDrawFoldsIdentityBySum(t *testing.T) {
	// Identity bytes are folded by summing, so permuted identities with the
	// same byte sum seed the generator identically.
	now := time.Unix(1_700_000_000, 0)
	if Draw(now, "ab") != Draw(now, "ba") {
		t.Error("expected permuted identities with equal byte sums to draw equally")
	}
}

func TestDrawIgnoresSubSecondTime(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	later := time.Unix(1_700_000_000, 999_000_000)
	if Draw(now, "alice") != Draw(later, "alice") {
		t.Error("expected draws within the same second to match")
	}
}

package heist

import "fmt"

// Tier identifies one of the three fixed risk banks.
type Tier uint8

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

// NumTiers is the fixed bank count. Banks are created once at pool
// initialization and never added to.
const NumTiers = 3

// Tiers returns the tiers in bank-slot order.
func Tiers() [NumTiers]Tier {
	return [NumTiers]Tier{TierLow, TierMid, TierHigh}
}

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// Valid reports whether t names a real bank slot.
func (t Tier) Valid() bool {
	return t < NumTiers
}

// ParseTier converts the wire form ("low", "mid", "high") to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "mid":
		return TierMid, nil
	case "high":
		return TierHigh, nil
	}
	return 0, fmt.Errorf("unknown bank tier %q", s)
}

// OutcomeClass tags the resolved result of a stake close. Positive payouts
// carry ClassNone; the four loss classes all pay zero.
type OutcomeClass uint8

const (
	ClassNone OutcomeClass = iota
	ClassFumbled
	ClassConfiscated
	ClassArrested
	ClassRekt
)

func (c OutcomeClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassFumbled:
		return "fumbled"
	case ClassConfiscated:
		return "confiscated"
	case ClassArrested:
		return "arrested"
	case ClassRekt:
		return "rekt"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// RoleType is the fixed role catalogue attached to the global record.
type RoleType uint8

const (
	RoleChimp RoleType = iota
	RoleGorilla
)

func (r RoleType) String() string {
	switch r {
	case RoleChimp:
		return "chimp"
	case RoleGorilla:
		return "gorilla"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Role wraps a RoleType for global-catalogue storage.
type Role struct {
	Type RoleType `json:"type"`
}

// DefaultRoles returns the role catalogue stored at first initialization.
func DefaultRoles() []Role {
	return []Role{{Type: RoleChimp}, {Type: RoleGorilla}}
}

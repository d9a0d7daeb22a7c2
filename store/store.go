// Package store persists the program records: the global pool state, one
// record per player and one record per open stake.
//
// Every lifecycle operation runs as a single atomic unit: either all of its
// writes to the global, player and stake records commit together, or none
// do. Implementations provide per-key optimistic concurrency — a commit
// fails with ErrStoreConflict when a record read inside Apply was mutated
// concurrently, and the caller resubmits. Stale data is never silently
// overwritten.
package store

import (
	"context"

	"github.com/energeticlee/heist-clone/heist"
)

// View is the record set visible to one lifecycle operation. Fields are
// private copies; mutations only take effect when Apply commits.
//
// A nil Player or Stake means the record does not exist. The closure creates
// a record by assigning the field and deletes the stake by setting it to nil.
type View struct {
	Global *heist.GlobalState
	Player *heist.PlayerInfo
	Stake  *heist.StakeInfo
}

// Store is the program's record storage.
type Store interface {
	// Apply loads the global record plus the player and stake records keyed
	// by (player, mint), runs fn against private copies, and commits every
	// mutation atomically. Empty player/mint keys skip the respective
	// records. An error from fn aborts the commit with no side effects.
	Apply(ctx context.Context, player, mint string, fn func(v *View) error) error

	// Global returns the global record, or nil if the pool was never funded.
	Global(ctx context.Context) (*heist.GlobalState, error)

	// Player returns a player record, or nil if unknown.
	Player(ctx context.Context, id string) (*heist.PlayerInfo, error)

	// Stake returns the open stake for (player, mint), or nil.
	Stake(ctx context.Context, player, mint string) (*heist.StakeInfo, error)

	// PlayerStakes lists the open stakes owned by a player.
	PlayerStakes(ctx context.Context, player string) ([]*heist.StakeInfo, error)
}

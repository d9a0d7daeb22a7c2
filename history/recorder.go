// Package history records closed stake episodes for audit queries. The
// recorder sits outside the lifecycle transaction: a failed insert is logged
// and dropped, never unwinding a committed close.
package history

import (
	"context"
	"time"
)

// Episode is one completed stake, from open to close.
type Episode struct {
	Player       string
	Mint         string
	Tier         string
	StakeStart   time.Time
	StakeEnd     time.Time
	ElapsedHours uint64
	BaseReward   uint64
	Draw         uint64
	Multiplier   uint8
	OutcomeClass string
	Reward       uint64
}

// Recorder persists closed episodes.
type Recorder interface {
	Record(ctx context.Context, e *Episode) error
	Close() error
}

// Noop is the recorder used when no database is configured.
type Noop struct{}

func (Noop) Record(ctx context.Context, e *Episode) error { return nil }
func (Noop) Close() error                                 { return nil }

// Package feed streams stake-close outcomes to live subscribers.
package feed

import (
	"context"
	"time"
)

// OutcomeUpdate is one resolved close pushed to the feed.
type OutcomeUpdate struct {
	Player       string    `json:"player"`
	Mint         string    `json:"mint"`
	Tier         string    `json:"tier"`
	OutcomeClass string    `json:"outcomeClass"`
	Multiplier   uint8     `json:"multiplier"`
	Reward       uint64    `json:"reward"`
	ClosedAt     time.Time `json:"closedAt"`
}

// Hub is a minimal pub/sub for outcome updates.
type Hub struct {
	ch chan OutcomeUpdate
}

// NewHub creates a hub with a buffered channel.
func NewHub(buffer int) *Hub {
	return &Hub{
		ch: make(chan OutcomeUpdate, buffer),
	}
}

// Send publishes an update (non-blocking with drop on full buffer).
func (h *Hub) Send(update OutcomeUpdate) {
	select {
	case h.ch <- update:
	default:
		// drop if listeners are slow; keep simple
	}
}

// Listen returns a channel plus a cancel function to stop listening.
func (h *Hub) Listen(ctx context.Context) (<-chan OutcomeUpdate, context.CancelFunc) {
	listenerCtx, cancel := context.WithCancel(ctx)
	out := make(chan OutcomeUpdate, cap(h.ch))

	go func() {
		defer close(out)
		for {
			select {
			case <-listenerCtx.Done():
				return
			case update, ok := <-h.ch:
				if !ok {
					return
				}
				select {
				case out <- update:
				case <-listenerCtx.Done():
					return
				}
			}
		}
	}()

	return out, cancel
}

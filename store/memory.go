package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/energeticlee/heist-clone/heist"
)

// Memory is an in-memory Store. Apply holds the store lock for the whole
// closure, which serializes conflicting operations instead of failing them;
// the observable contract is the same as the Redis store's optimistic
// commit. Used by tests and local development.
type Memory struct {
	mu      sync.Mutex
	global  *heist.GlobalState
	players map[string]*heist.PlayerInfo
	stakes  map[string]*heist.StakeInfo
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		players: make(map[string]*heist.PlayerInfo),
		stakes:  make(map[string]*heist.StakeInfo),
	}
}

func stakeKey(player, mint string) string {
	return player + ":" + mint
}

// clone deep-copies a record through its JSON form, the same encoding the
// Redis store persists.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("store: marshal %T: %v", v, err))
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("store: unmarshal %T: %v", v, err))
	}
	return out
}

// Apply implements Store.
func (m *Memory) Apply(ctx context.Context, player, mint string, fn func(v *View) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v := &View{Global: clone(m.global)}
	if player != "" {
		v.Player = clone(m.players[player])
	}
	if player != "" && mint != "" {
		v.Stake = clone(m.stakes[stakeKey(player, mint)])
	}

	if err := fn(v); err != nil {
		return err
	}

	m.global = v.Global
	if player != "" {
		if v.Player != nil {
			m.players[player] = v.Player
		}
	}
	if player != "" && mint != "" {
		key := stakeKey(player, mint)
		if v.Stake != nil {
			m.stakes[key] = v.Stake
		} else {
			delete(m.stakes, key)
		}
	}
	return nil
}

// Global implements Store.
func (m *Memory) Global(ctx context.Context) (*heist.GlobalState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.global), nil
}

// Player implements Store.
func (m *Memory) Player(ctx context.Context, id string) (*heist.PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.players[id]), nil
}

// Stake implements Store.
func (m *Memory) Stake(ctx context.Context, player, mint string) (*heist.StakeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.stakes[stakeKey(player, mint)]), nil
}

// PlayerStakes implements Store.
func (m *Memory) PlayerStakes(ctx context.Context, player string) ([]*heist.StakeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*heist.StakeInfo
	for _, s := range m.stakes {
		if s.Owner == player {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mint < out[j].Mint })
	return out, nil
}

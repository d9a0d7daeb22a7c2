package store

import (
	"context"
	"errors"
	"testing"

	"github.com/energeticlee/heist-clone/heist"
)

func TestMemoryApplyCreatesRecords(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Apply(ctx, "alice", "mint-1", func(v *View) error {
		if v.Global != nil || v.Player != nil || v.Stake != nil {
			t.Error("expected empty view on fresh store")
		}
		v.Global = &heist.GlobalState{Initialized: true, TotalPlayers: 1}
		v.Player = &heist.PlayerInfo{Initialized: true, ActiveStaked: 1}
		v.Stake = &heist.StakeInfo{Owner: "alice", Mint: "mint-1", Tier: heist.TierLow}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := m.Global(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g == nil || !g.Initialized || g.TotalPlayers != 1 {
		t.Errorf("expected committed global, got %+v", g)
	}

	p, err := m.Player(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.ActiveStaked != 1 {
		t.Errorf("expected committed player, got %+v", p)
	}

	s, err := m.Stake(ctx, "alice", "mint-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.Owner != "alice" {
		t.Errorf("expected committed stake, got %+v", s)
	}
}

func TestMemoryApplyErrorAbortsCommit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed(t, m)

	wantErr := errors.New("boom")
	err := m.Apply(ctx, "alice", "mint-1", func(v *View) error {
		v.Global.TotalPlayers = 99
		v.Player.PointBalance = 99
		v.Stake = nil
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	g, _ := m.Global(ctx)
	if g.TotalPlayers != 1 {
		t.Errorf("expected global untouched, got total players %d", g.TotalPlayers)
	}
	p, _ := m.Player(ctx, "alice")
	if p.PointBalance != 0 {
		t.Errorf("expected player untouched, got balance %d", p.PointBalance)
	}
	s, _ := m.Stake(ctx, "alice", "mint-1")
	if s == nil {
		t.Error("expected stake to survive the aborted delete")
	}
}

func TestMemoryApplyDeletesStakeKeepsPlayer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed(t, m)

	err := m.Apply(ctx, "alice", "mint-1", func(v *View) error {
		v.Player.ActiveStaked--
		v.Stake = nil
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := m.Stake(ctx, "alice", "mint-1")
	if s != nil {
		t.Errorf("expected stake deleted, got %+v", s)
	}
	p, _ := m.Player(ctx, "alice")
	if p == nil {
		t.Fatal("expected player record to survive the close")
	}
	if p.ActiveStaked != 0 {
		t.Errorf("expected zero active stakes, got %d", p.ActiveStaked)
	}
}

func TestMemoryReadsAreIsolatedCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed(t, m)

	g, _ := m.Global(ctx)
	g.TotalPlayers = 42

	fresh, _ := m.Global(ctx)
	if fresh.TotalPlayers != 1 {
		t.Errorf("expected store unaffected by caller mutation, got %d", fresh.TotalPlayers)
	}
}

func TestMemoryPlayerStakes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, mint := range []string{"mint-c", "mint-a", "mint-b"} {
		mint := mint
		err := m.Apply(ctx, "alice", mint, func(v *View) error {
			v.Global = &heist.GlobalState{Initialized: true}
			v.Stake = &heist.StakeInfo{Owner: "alice", Mint: mint}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err := m.Apply(ctx, "bob", "mint-z", func(v *View) error {
		v.Stake = &heist.StakeInfo{Owner: "bob", Mint: "mint-z"}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stakes, err := m.PlayerStakes(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stakes) != 3 {
		t.Fatalf("expected 3 stakes, got %d", len(stakes))
	}
	for i, want := range []string{"mint-a", "mint-b", "mint-c"} {
		if stakes[i].Mint != want {
			t.Errorf("stake %d: expected mint %q, got %q", i, want, stakes[i].Mint)
		}
	}
}

func TestMemoryApplyCancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Apply(ctx, "", "", func(v *View) error {
		t.Error("closure must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func seed(t *testing.T, m *Memory) {
	t.Helper()
	err := m.Apply(context.Background(), "alice", "mint-1", func(v *View) error {
		v.Global = &heist.GlobalState{Initialized: true, TotalPlayers: 1}
		v.Player = &heist.PlayerInfo{Initialized: true, ActiveStaked: 1}
		v.Stake = &heist.StakeInfo{Owner: "alice", Mint: "mint-1", Tier: heist.TierLow}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

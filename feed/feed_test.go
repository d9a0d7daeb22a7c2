package feed

import (
	"context"
	"testing"
	"time"
)

func TestHubDeliversToListener(t *testing.T) {
	hub := NewHub(4)
	updates, cancel := hub.Listen(context.Background())
	defer cancel()

	want := OutcomeUpdate{Player: "alice", Mint: "mint-1", Reward: 200}
	hub.Send(want)

	select {
	case got := <-updates:
		if got.Player != want.Player || got.Reward != want.Reward {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(1)

	// No listener draining; the second send must not block.
	done := make(chan struct{})
	go func() {
		hub.Send(OutcomeUpdate{Mint: "mint-1"})
		hub.Send(OutcomeUpdate{Mint: "mint-2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked on full buffer")
	}
}

func TestHubListenerStopsOnCancel(t *testing.T) {
	hub := NewHub(1)
	updates, cancel := hub.Listen(context.Background())
	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

package registry

import (
	"testing"
)

// -----------------------------------------------------------------------------

// fakeSub is a minimal ISubscriber for registry tests.
type fakeSub struct {
	id string
}

func (f *fakeSub) ID() string                     { return f.id }
func (f *fakeSub) Send(message interface{}) error { return nil }

// -----------------------------------------------------------------------------

func TestSubscribeAndLookup(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}

	if err := r.Subscribe(c1, []string{"EURUSD", "GBPUSD"}, true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if got := r.SymbolCount(); got != 2 {
		t.Errorf("expected 2 symbols, got %d", got)
	}
	if !r.HasSubscriber("EURUSD", c1) {
		t.Error("c1 should be subscribed to EURUSD")
	}
	if !r.IsTradeSubscriber(c1) {
		t.Error("c1 should be a trade subscriber")
	}
}

// -----------------------------------------------------------------------------

func TestSubscribeRejectsEmptySymbolList(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}

	if err := r.Subscribe(c1, nil, true); err == nil {
		t.Fatal("expected error for empty symbol list")
	}

	// No partial application: nothing registered, not even the trade flag.
	if r.SymbolCount() != 0 {
		t.Error("registry mutated by rejected subscribe")
	}
	if r.IsTradeSubscriber(c1) {
		t.Error("trade flag applied by rejected subscribe")
	}
}

// -----------------------------------------------------------------------------

func TestEmptySymbolSetsArePruned(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}
	c2 := &fakeSub{id: "c2"}

	r.Subscribe(c1, []string{"EURUSD"}, false)
	r.Subscribe(c2, []string{"EURUSD"}, false)

	r.Unsubscribe(c1, []string{"EURUSD"}, false)
	if r.SymbolCount() != 1 {
		t.Fatal("symbol should survive while one subscriber remains")
	}

	r.Unsubscribe(c2, []string{"EURUSD"}, false)
	if r.SymbolCount() != 0 {
		t.Error("emptied symbol entry was not pruned")
	}

	// Every remaining symbol key must have a non-empty set.
	for _, s := range r.Symbols() {
		if len(r.Subscribers(s)) == 0 {
			t.Errorf("symbol %s has an empty subscriber set", s)
		}
	}
}

// -----------------------------------------------------------------------------

func TestUnsubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}

	r.Subscribe(c1, []string{"EURUSD"}, false)
	r.Unsubscribe(c1, []string{"EURUSD"}, false)
	r.Unsubscribe(c1, []string{"EURUSD"}, false) // must be safe

	if r.SymbolCount() != 0 {
		t.Error("double unsubscribe left state behind")
	}
}

// -----------------------------------------------------------------------------

func TestDropRemovesEverywhere(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}
	c2 := &fakeSub{id: "c2"}

	r.Subscribe(c1, []string{"EURUSD", "GBPUSD", "USDJPY"}, true)
	r.Subscribe(c2, []string{"EURUSD"}, true)

	r.Drop(c1)

	for _, s := range []string{"EURUSD", "GBPUSD", "USDJPY"} {
		if r.HasSubscriber(s, c1) {
			t.Errorf("c1 still present in %s after drop", s)
		}
	}
	if r.IsTradeSubscriber(c1) {
		t.Error("c1 still a trade subscriber after drop")
	}

	// c2 unaffected; singly-held symbols pruned.
	if !r.HasSubscriber("EURUSD", c2) {
		t.Error("c2 lost its subscription")
	}
	if r.SymbolCount() != 1 {
		t.Errorf("expected only EURUSD to remain, have %d symbols", r.SymbolCount())
	}
}

// -----------------------------------------------------------------------------

func TestUnsubscribeKeepsTradeFeedUnlessAsked(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeSub{id: "c1"}

	r.Subscribe(c1, []string{"EURUSD"}, true)
	r.Unsubscribe(c1, []string{"EURUSD"}, false)

	if !r.IsTradeSubscriber(c1) {
		t.Error("trade feed dropped without unsubscribe_trades")
	}

	r.Unsubscribe(c1, []string{"EURUSD"}, true)
	if r.IsTradeSubscriber(c1) {
		t.Error("trade feed kept despite unsubscribe_trades")
	}
}

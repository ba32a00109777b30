package registry

import (
	"fmt"
	"sync"

	"trade-relay/src/interfaces"
)

// -----------------------------------------------------------------------------
// Registry maps symbols and the trade feed to interested subscribers. It is
// the single shared structure between the connection lifecycle (writes) and
// the pollers (reads), so every operation holds the mutex for its full
// duration. Entries reference subscribers, they never own them.
//
// Invariant: a symbol key with an empty subscriber set is removed
// immediately; there are never dangling empty sets.
// -----------------------------------------------------------------------------

type Registry struct {
	mu      sync.RWMutex
	symbols map[string]map[interfaces.ISubscriber]struct{}
	trades  map[interfaces.ISubscriber]struct{}
}

// -----------------------------------------------------------------------------

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		symbols: make(map[string]map[interfaces.ISubscriber]struct{}),
		trades:  make(map[interfaces.ISubscriber]struct{}),
	}
}

// -----------------------------------------------------------------------------

// Subscribe registers a subscriber for every symbol in the list, and for the
// trade feed when includeTrades is set. The symbol list must be non-empty;
// registration is atomic: either the whole list is applied or none of it.
func (r *Registry) Subscribe(sub interfaces.ISubscriber, symbols []string, includeTrades bool) error {
	if len(symbols) == 0 {
		return fmt.Errorf("empty symbol list")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, symbol := range symbols {
		set, ok := r.symbols[symbol]
		if !ok {
			set = make(map[interfaces.ISubscriber]struct{})
			r.symbols[symbol] = set
		}
		set[sub] = struct{}{}
	}

	if includeTrades {
		r.trades[sub] = struct{}{}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Unsubscribe removes a subscriber from the given symbols, pruning emptied
// symbol entries. Symbols the subscriber never held are ignored, so calling
// it twice is safe. dropTrades additionally removes the trade-feed
// subscription.
func (r *Registry) Unsubscribe(sub interfaces.ISubscriber, symbols []string, dropTrades bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, symbol := range symbols {
		if set, ok := r.symbols[symbol]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(r.symbols, symbol)
			}
		}
	}

	if dropTrades {
		delete(r.trades, sub)
	}
}

// -----------------------------------------------------------------------------

// Drop removes a subscriber from every symbol set and from the trade feed.
// Called unconditionally when its connection closes.
func (r *Registry) Drop(sub interfaces.ISubscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for symbol, set := range r.symbols {
		delete(set, sub)
		if len(set) == 0 {
			delete(r.symbols, symbol)
		}
	}

	delete(r.trades, sub)
}

// -----------------------------------------------------------------------------

// Symbols returns every symbol with at least one subscriber.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.symbols))
	for symbol := range r.symbols {
		out = append(out, symbol)
	}
	return out
}

// -----------------------------------------------------------------------------

// Subscribers returns a snapshot of the subscribers for one symbol. The
// pollers call this per event at fan-out time, so a subscribe or unsubscribe
// mid-cycle takes effect at the point of send.
func (r *Registry) Subscribers(symbol string) []interfaces.ISubscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.symbols[symbol]
	if !ok {
		return nil
	}

	out := make([]interfaces.ISubscriber, 0, len(set))
	for sub := range set {
		out = append(out, sub)
	}
	return out
}

// -----------------------------------------------------------------------------

// TradeSubscribers returns a snapshot of the trade-feed subscribers.
func (r *Registry) TradeSubscribers() []interfaces.ISubscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]interfaces.ISubscriber, 0, len(r.trades))
	for sub := range r.trades {
		out = append(out, sub)
	}
	return out
}

// -----------------------------------------------------------------------------

// TradeSubscriberCount reports how many subscribers want the trade feed.
func (r *Registry) TradeSubscriberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trades)
}

// -----------------------------------------------------------------------------

// SymbolCount reports how many symbols currently have subscribers.
func (r *Registry) SymbolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.symbols)
}

// -----------------------------------------------------------------------------

// HasSubscriber reports whether the subscriber holds the given symbol.
func (r *Registry) HasSubscriber(symbol string, sub interfaces.ISubscriber) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.symbols[symbol]
	if !ok {
		return false
	}
	_, ok = set[sub]
	return ok
}

// -----------------------------------------------------------------------------

// IsTradeSubscriber reports whether the subscriber receives the trade feed.
func (r *Registry) IsTradeSubscriber(sub interfaces.ISubscriber) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.trades[sub]
	return ok
}

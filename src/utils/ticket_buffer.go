package utils

import (
	"sort"
	"sync"
)

// -----------------------------------------------------------------------------
// Bounded, ticket-ordered history structures. Tickets are provider-assigned
// and treated as the recency order: when a cap is exceeded the lowest tickets
// are evicted first. This bounds memory under long uptime.
// -----------------------------------------------------------------------------

const (
	defaultBufferCap = 1000

	// When the dedup guard overflows it is trimmed to this many of the
	// highest tickets, mirroring the buffer cap / 2.
	guardKeepRatio = 2
)

// -----------------------------------------------------------------------------

// TicketBuffer is a capped map from ticket to the last event recorded for it.
type TicketBuffer struct {
	mu       sync.Mutex
	capacity int
	items    map[int64]interface{}
}

// -----------------------------------------------------------------------------

// NewTicketBuffer creates a buffer with a fixed capacity.
func NewTicketBuffer(capacity int) *TicketBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCap
	}
	return &TicketBuffer{
		capacity: capacity,
		items:    make(map[int64]interface{}),
	}
}

// -----------------------------------------------------------------------------

// Put records the latest value for a ticket, evicting the lowest tickets when
// the buffer exceeds its capacity.
func (b *TicketBuffer) Put(ticket int64, value interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[ticket] = value
	if len(b.items) <= b.capacity {
		return
	}

	tickets := make([]int64, 0, len(b.items))
	for t := range b.items {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i] < tickets[j] })

	for _, t := range tickets[:len(tickets)-b.capacity] {
		delete(b.items, t)
	}
}

// -----------------------------------------------------------------------------

// Get returns the value recorded for a ticket.
func (b *TicketBuffer) Get(ticket int64) (interface{}, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.items[ticket]
	return v, ok
}

// -----------------------------------------------------------------------------

// Len returns the current number of entries.
func (b *TicketBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// -----------------------------------------------------------------------------

// Tickets returns all stored tickets in ascending order.
func (b *TicketBuffer) Tickets() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	tickets := make([]int64, 0, len(b.items))
	for t := range b.items {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i] < tickets[j] })
	return tickets
}

// -----------------------------------------------------------------------------
// TicketSet is the deduplication guard for emitted deal tickets. It is capped:
// overflowing trims it down to the highest capacity/2 tickets, so a very old
// deal could in principle be re-emitted after 500+ newer deals. Accepted as an
// at-least-once weakness, matching the guard not being persisted across
// restarts.
// -----------------------------------------------------------------------------

type TicketSet struct {
	mu       sync.Mutex
	capacity int
	keep     int
	set      map[int64]struct{}
}

// -----------------------------------------------------------------------------

// NewTicketSet creates a guard that trims to capacity/2 entries when it grows
// past capacity.
func NewTicketSet(capacity int) *TicketSet {
	if capacity <= 0 {
		capacity = defaultBufferCap
	}
	return &TicketSet{
		capacity: capacity,
		keep:     capacity / guardKeepRatio,
		set:      make(map[int64]struct{}),
	}
}

// -----------------------------------------------------------------------------

// Add marks a ticket as seen.
func (s *TicketSet) Add(ticket int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set[ticket] = struct{}{}
	if len(s.set) <= s.capacity {
		return
	}

	tickets := make([]int64, 0, len(s.set))
	for t := range s.set {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i] < tickets[j] })

	for _, t := range tickets[:len(tickets)-s.keep] {
		delete(s.set, t)
	}
}

// -----------------------------------------------------------------------------

// Contains reports whether a ticket was already seen.
func (s *TicketSet) Contains(ticket int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[ticket]
	return ok
}

// -----------------------------------------------------------------------------

// Len returns the current guard size.
func (s *TicketSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

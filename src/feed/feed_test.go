package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// Shared fakes for the feed package tests.
// -----------------------------------------------------------------------------

// fakeProvider serves canned snapshots and counts calls.
type fakeProvider struct {
	mu        sync.Mutex
	quotes    map[string]models.MQuote
	positions []models.MPosition
	deals     []models.MTransaction

	quotesErr    error
	positionsErr error
	dealsErr     error

	quoteCalls int
	dealCalls  int
}

func (f *fakeProvider) GetQuotes(ctx context.Context, symbols []string) (map[string]models.MQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	out := make(map[string]models.MQuote)
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out[s] = q
		}
	}
	return out, nil
}

func (f *fakeProvider) GetOpenPositions(ctx context.Context) ([]models.MPosition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	return append([]models.MPosition(nil), f.positions...), nil
}

func (f *fakeProvider) GetRecentClosingDeals(ctx context.Context, window time.Duration) ([]models.MTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dealCalls++
	if f.dealsErr != nil {
		return nil, f.dealsErr
	}
	return append([]models.MTransaction(nil), f.deals...), nil
}

// -----------------------------------------------------------------------------

// captureSub records everything sent to it.
type captureSub struct {
	mu     sync.Mutex
	id     string
	events []interface{}
	fail   bool
}

func (c *captureSub) ID() string { return c.id }

func (c *captureSub) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("send buffer full")
	}
	c.events = append(c.events, message)
	return nil
}

func (c *captureSub) Events() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}(nil), c.events...)
}

// -----------------------------------------------------------------------------

func positionEventsOf(events []interface{}) []models.MPositionUpdate {
	var out []models.MPositionUpdate
	for _, e := range events {
		if p, ok := e.(models.MPositionUpdate); ok {
			out = append(out, p)
		}
	}
	return out
}

func transactionEventsOf(events []interface{}) []models.MTransactionUpdate {
	var out []models.MTransactionUpdate
	for _, e := range events {
		if t, ok := e.(models.MTransactionUpdate); ok {
			out = append(out, t)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

var errUpstream = fmt.Errorf("terminal unreachable")

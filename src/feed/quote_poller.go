package feed

import (
	"context"
	"time"

	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
	"trade-relay/src/models"
	"trade-relay/src/registry"
	"trade-relay/src/utils"
)

// -----------------------------------------------------------------------------
// QuotePoller periodically fetches quotes for every symbol that currently has
// a subscriber and fans a price event out to each of them. It never polls the
// provider when no one is listening.
// -----------------------------------------------------------------------------

type QuotePoller struct {
	Provider interfaces.ITradeProvider
	Registry *registry.Registry
	Logger   *logger.Logger
	Interval time.Duration

	// Hours is optional; when set, cycles are skipped while every tracked
	// market is closed.
	Hours *utils.MarketHours

	Metrics *Metrics
}

// -----------------------------------------------------------------------------

// NewQuotePoller wires a poller. interval must be positive.
func NewQuotePoller(provider interfaces.ITradeProvider, reg *registry.Registry, l *logger.Logger, interval time.Duration, metrics *Metrics) *QuotePoller {
	return &QuotePoller{
		Provider: provider,
		Registry: reg,
		Logger:   l,
		Interval: interval,
		Metrics:  metrics,
	}
}

// -----------------------------------------------------------------------------

// Run polls until the context is cancelled.
func (p *QuotePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.Logger.Info("Quote poller started (interval %s)", p.Interval)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("Quote poller stopped")
			return
		case <-ticker.C:
			p.PollOnce(ctx, time.Now())
		}
	}
}

// -----------------------------------------------------------------------------

// PollOnce runs a single cycle. Exposed for tests.
func (p *QuotePoller) PollOnce(ctx context.Context, now time.Time) {
	symbols := p.Registry.Symbols()
	if len(symbols) == 0 {
		return
	}

	if p.Hours != nil && !p.Hours.AnyOpen(now) {
		return
	}

	p.Metrics.priceCycles.Add(1)

	quotes, err := p.Provider.GetQuotes(ctx, symbols)
	if err != nil {
		// Recoverable: skip the cycle, retry next tick.
		p.Metrics.fetchErrors.Add(1)
		p.Logger.Error("Error fetching quotes: %v", err)
		return
	}

	timestamp := now.UTC().Format(time.RFC3339Nano)

	for symbol, quote := range quotes {
		event := models.MPriceUpdate{
			Type:      models.TypePriceUpdate,
			Symbol:    symbol,
			Bid:       quote.Bid,
			Ask:       quote.Ask,
			Spread:    quote.Spread(),
			Timestamp: timestamp,
		}

		// Membership is re-read per event so a mid-cycle subscribe or
		// unsubscribe takes effect at the point of send.
		for _, sub := range p.Registry.Subscribers(symbol) {
			if err := sub.Send(event); err != nil {
				// The lifecycle component prunes the connection; delivery
				// to the remaining subscribers continues.
				p.Metrics.sendErrors.Add(1)
				p.Logger.Error("Error sending price update to %s: %v", sub.ID(), err)
				continue
			}
			p.Metrics.priceEventsSent.Add(1)
		}
	}
}

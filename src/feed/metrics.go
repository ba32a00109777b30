package feed

import (
	"sync/atomic"

	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------

// Metrics counts engine activity. Shared by the pollers and the replay
// service, snapshotted by the HTTP metrics endpoint.
type Metrics struct {
	priceCycles      atomic.Int64
	tradeCycles      atomic.Int64
	priceEventsSent  atomic.Int64
	tradeEventsSent  atomic.Int64
	replayEventsSent atomic.Int64
	sendErrors       atomic.Int64
	fetchErrors      atomic.Int64
}

// -----------------------------------------------------------------------------

// NewMetrics creates a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// -----------------------------------------------------------------------------

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() models.MEngineMetrics {
	return models.MEngineMetrics{
		PriceCycles:      m.priceCycles.Load(),
		TradeCycles:      m.tradeCycles.Load(),
		PriceEventsSent:  m.priceEventsSent.Load(),
		TradeEventsSent:  m.tradeEventsSent.Load(),
		ReplayEventsSent: m.replayEventsSent.Load(),
		SendErrors:       m.sendErrors.Load(),
		FetchErrors:      m.fetchErrors.Load(),
	}
}

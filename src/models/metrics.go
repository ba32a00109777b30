package models

// MEngineMetrics represents a snapshot of the distribution engine counters,
// as served on /api/metrics.
type MEngineMetrics struct {
	PriceCycles      int64 `json:"price_cycles"`
	TradeCycles      int64 `json:"trade_cycles"`
	PriceEventsSent  int64 `json:"price_events_sent"`
	TradeEventsSent  int64 `json:"trade_events_sent"`
	ReplayEventsSent int64 `json:"replay_events_sent"`
	SendErrors       int64 `json:"send_errors"`
	FetchErrors      int64 `json:"fetch_errors"`
}

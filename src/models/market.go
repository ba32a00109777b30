package models

import "time"

// -----------------------------------------------------------------------------
// Market & account snapshot models.
// These are snapshots re-fetched from the upstream provider every poll cycle;
// none of them carries persisted identity except the provider-assigned ticket.
// -----------------------------------------------------------------------------

// Position side values as reported by the provider.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Transaction side values on the wire. A sell deal closes a buy position.
const (
	SideCloseBuy  = "close_buy"
	SideCloseSell = "close_sell"
)

// -----------------------------------------------------------------------------

// MQuote is an immutable bid/ask snapshot for one symbol.
type MQuote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

// Spread is derived, never stored.
func (q MQuote) Spread() float64 {
	return q.Ask - q.Bid
}

// -----------------------------------------------------------------------------

// MPosition is an open trade held by the account.
type MPosition struct {
	Ticket     int64   `json:"ticket"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"` // SideBuy or SideSell
	Volume     float64 `json:"volume"`
	OpenPrice  float64 `json:"open_price"`
	Profit     float64 `json:"profit"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// -----------------------------------------------------------------------------

// MTransaction is a completed deal that closed (or partially closed) a
// position. Created once by the provider, immutable afterwards, uniquely
// identified by Ticket. PositionID references the position it closed.
type MTransaction struct {
	Ticket     int64     `json:"ticket"`
	PositionID int64     `json:"position_id"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"` // direction of the closing deal: SideBuy or SideSell
	Volume     float64   `json:"volume"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	Swap       float64   `json:"swap"`
	Profit     float64   `json:"profit"`
	ClosedAt   time.Time `json:"closed_at"`
}

// CloseSide maps the deal direction to the wire transaction side. A sell
// deal closes a long position, so it is reported as close_buy.
func (t MTransaction) CloseSide() string {
	if t.Side == SideSell {
		return SideCloseBuy
	}
	return SideCloseSell
}

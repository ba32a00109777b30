package models

// -----------------------------------------------------------------------------
// Wire protocol messages (JSON). Field names are part of the protocol and
// must not change: remote clients match on them literally.
// -----------------------------------------------------------------------------

// Message type discriminators.
const (
	TypeSubscription      = "subscription"
	TypeSubConfirmation   = "subscription_confirmation"
	TypeUnsubConfirm      = "unsubscription_confirmation"
	TypePriceUpdate       = "price_update"
	TypeTradeUpdate       = "trade_update"
	TypePing              = "ping"
	TypePong              = "pong"
	TypeError             = "error"
	UpdateTypePosition    = "position"
	UpdateTypeTransaction = "transaction"
)

// Subscription actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// -----------------------------------------------------------------------------

// MEnvelope is the first-pass decode of any inbound message.
type MEnvelope struct {
	Type       string `json:"type"`
	UpdateType string `json:"update_type,omitempty"`
}

// -----------------------------------------------------------------------------

// MSubscriptionRequest is the inbound subscribe/unsubscribe message.
// LastTradeID / LastTransactionID carry the caller's resumption cursor.
type MSubscriptionRequest struct {
	Type              string   `json:"type"`
	Action            string   `json:"action"`
	Symbols           []string `json:"symbols"`
	IncludeTrades     bool     `json:"include_trades"`
	LastTradeID       int64    `json:"last_trade_id"`
	LastTransactionID int64    `json:"last_transaction_id"`
	UnsubscribeTrades bool     `json:"unsubscribe_trades"`
}

// -----------------------------------------------------------------------------

// MSubscriptionConfirmation acknowledges a successful subscribe.
type MSubscriptionConfirmation struct {
	Type           string   `json:"type"`
	Symbols        []string `json:"symbols"`
	TradesIncluded bool     `json:"trades_included"`
	Message        string   `json:"message"`
}

// MUnsubscriptionConfirmation acknowledges a successful unsubscribe.
type MUnsubscriptionConfirmation struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
	Message string   `json:"message"`
}

// -----------------------------------------------------------------------------

// MPriceUpdate is one quote fan-out event.
type MPriceUpdate struct {
	Type      string  `json:"type"`
	Symbol    string  `json:"symbol"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Spread    float64 `json:"spread"`
	Timestamp string  `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MPositionUpdate reports a new or changed open position.
type MPositionUpdate struct {
	Type       string  `json:"type"`        // always "trade_update"
	UpdateType string  `json:"update_type"` // always "position"
	TradeID    int64   `json:"trade_id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"` // "buy" | "sell"
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	SL         float64 `json:"sl"`
	TP         float64 `json:"tp"`
	Timestamp  string  `json:"timestamp"`
}

// MTransactionUpdate reports a closing deal.
type MTransactionUpdate struct {
	Type          string  `json:"type"`        // always "trade_update"
	UpdateType    string  `json:"update_type"` // always "transaction"
	TransactionID int64   `json:"transaction_id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"` // "close_buy" | "close_sell"
	Volume        float64 `json:"volume"`
	Price         float64 `json:"price"`
	Commission    float64 `json:"commission"`
	Swap          float64 `json:"swap"`
	Profit        float64 `json:"profit"`
	Timestamp     string  `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MPing / MPong keep the transport alive.
type MPing struct {
	Type string `json:"type"`
}

type MPong struct {
	Type string `json:"type"`
	Time string `json:"time"`
}

// -----------------------------------------------------------------------------

// MError is the structured error reply. The connection stays open after one.
type MError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error reply.
func NewError(message string) MError {
	return MError{Type: TypeError, Message: message}
}

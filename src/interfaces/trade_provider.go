package interfaces

import (
	"context"
	"time"

	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// ITradeProvider is the upstream market/account collaborator. The engine
// treats it as opaque: current quotes, current open positions, and a recent
// window of closing deals. Implementations may return partial quote results;
// missing symbols are simply absent from the map.
// -----------------------------------------------------------------------------

type ITradeProvider interface {

	// GetQuotes returns the current quote for each requested symbol it can
	// answer for. Partial results are allowed and are not an error.
	GetQuotes(ctx context.Context, symbols []string) (map[string]models.MQuote, error)

	// -----------------------------------------------------------------------------

	// GetOpenPositions returns every currently open position on the account.
	GetOpenPositions(ctx context.Context) ([]models.MPosition, error)

	// -----------------------------------------------------------------------------

	// GetRecentClosingDeals returns the deals that closed (or partially
	// closed) positions within the given lookback window.
	GetRecentClosingDeals(ctx context.Context, window time.Duration) ([]models.MTransaction, error)
}

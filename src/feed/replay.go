package feed

import (
	"context"
	"time"

	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
)

// -----------------------------------------------------------------------------
// Replayer closes the gap for a resubscribing trade client. The caller only
// needs current truth: still-open positions newer than its cursor are
// synthesized from the live snapshot, closed deals come from the provider's
// lookback window. Runs synchronously inside subscription handling.
// -----------------------------------------------------------------------------

type Replayer struct {
	Provider interfaces.ITradeProvider
	Logger   *logger.Logger
	Lookback time.Duration
	Metrics  *Metrics
}

// -----------------------------------------------------------------------------

// NewReplayer wires a replay service with the given deal lookback window.
func NewReplayer(provider interfaces.ITradeProvider, l *logger.Logger, lookback time.Duration, metrics *Metrics) *Replayer {
	return &Replayer{
		Provider: provider,
		Logger:   l,
		Lookback: lookback,
		Metrics:  metrics,
	}
}

// -----------------------------------------------------------------------------

// SendMissed sends the subset of currently-known events the caller has not
// yet seen, per its resumption cursor. Errors sending a single event are
// logged and do not abort the rest of the replay.
func (r *Replayer) SendMissed(ctx context.Context, sub interfaces.ISubscriber, lastTradeID, lastTransactionID int64) error {
	now := time.Now()

	positions, err := r.Provider.GetOpenPositions(ctx)
	if err != nil {
		r.Logger.Error("Replay: could not fetch open positions: %v", err)
		return err
	}

	for _, pos := range positions {
		if pos.Ticket <= lastTradeID {
			continue
		}
		if err := sub.Send(PositionEvent(pos, now)); err != nil {
			r.Metrics.sendErrors.Add(1)
			r.Logger.Error("Replay: error sending position %d to %s: %v", pos.Ticket, sub.ID(), err)
			continue
		}
		r.Metrics.replayEventsSent.Add(1)
	}

	deals, err := r.Provider.GetRecentClosingDeals(ctx, r.Lookback)
	if err != nil {
		r.Logger.Error("Replay: could not fetch closing deals: %v", err)
		return err
	}

	// Per-call dedup only: a replay burst never sends one deal twice, but it
	// is independent of the reconciler's long-lived guard.
	sent := make(map[int64]struct{})

	for _, deal := range deals {
		if deal.Ticket <= lastTransactionID {
			continue
		}
		if _, dup := sent[deal.Ticket]; dup {
			continue
		}
		sent[deal.Ticket] = struct{}{}

		if err := sub.Send(TransactionEvent(deal)); err != nil {
			r.Metrics.sendErrors.Add(1)
			r.Logger.Error("Replay: error sending transaction %d to %s: %v", deal.Ticket, sub.ID(), err)
			continue
		}
		r.Metrics.replayEventsSent.Add(1)
	}

	r.Logger.Info("Replay for %s complete (cursor trade=%d transaction=%d)", sub.ID(), lastTradeID, lastTransactionID)
	return nil
}

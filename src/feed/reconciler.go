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
// TradeReconciler turns the provider's raw account snapshots into discrete
// change events: position updates when profit moves or a position appears,
// transaction events when a position disappears and a closing deal is found
// in the lookback window. It is a no-op while nobody subscribes to trades.
//
// The dedup guard lives for the process lifetime only; after a restart the
// same closing deal can be emitted again. Downstream consumers must tolerate
// duplicates.
// -----------------------------------------------------------------------------

type TradeReconciler struct {
	Provider interfaces.ITradeProvider
	Registry *registry.Registry
	Logger   *logger.Logger
	Interval time.Duration
	Lookback time.Duration
	Metrics  *Metrics

	lastPositions map[int64]models.MPosition
	sentDeals     *utils.TicketSet

	// Bounded history of the last emitted event per ticket, kept for
	// inspection and to cap memory under long uptime.
	positionHistory    *utils.TicketBuffer
	transactionHistory *utils.TicketBuffer
}

// -----------------------------------------------------------------------------

// NewTradeReconciler wires a reconciler. historyCap bounds the guard and the
// per-ticket history buffers.
func NewTradeReconciler(provider interfaces.ITradeProvider, reg *registry.Registry, l *logger.Logger, interval, lookback time.Duration, historyCap int, metrics *Metrics) *TradeReconciler {
	return &TradeReconciler{
		Provider:           provider,
		Registry:           reg,
		Logger:             l,
		Interval:           interval,
		Lookback:           lookback,
		Metrics:            metrics,
		lastPositions:      make(map[int64]models.MPosition),
		sentDeals:          utils.NewTicketSet(historyCap),
		positionHistory:    utils.NewTicketBuffer(historyCap),
		transactionHistory: utils.NewTicketBuffer(historyCap),
	}
}

// -----------------------------------------------------------------------------

// Run reconciles until the context is cancelled.
func (r *TradeReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Logger.Info("Trade reconciler started (interval %s, lookback %s)", r.Interval, r.Lookback)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("Trade reconciler stopped")
			return
		case <-ticker.C:
			r.ReconcileOnce(ctx, time.Now())
		}
	}
}

// -----------------------------------------------------------------------------

// ReconcileOnce runs a single cycle. Exposed for tests.
//
// A fetch failure skips the whole cycle before anything is emitted or any
// state mutated, so a cycle is all-or-nothing.
func (r *TradeReconciler) ReconcileOnce(ctx context.Context, now time.Time) {
	if r.Registry.TradeSubscriberCount() == 0 {
		return
	}

	r.Metrics.tradeCycles.Add(1)

	positions, err := r.Provider.GetOpenPositions(ctx)
	if err != nil {
		r.Metrics.fetchErrors.Add(1)
		r.Logger.Error("Error fetching open positions: %v", err)
		return
	}

	current := PositionsByTicket(positions)
	diff := DiffPositions(r.lastPositions, current)

	// Closing deals are only fetched when a position actually vanished.
	var matched []models.MTransaction
	if len(diff.ClosedTickets) > 0 {
		deals, err := r.Provider.GetRecentClosingDeals(ctx, r.Lookback)
		if err != nil {
			r.Metrics.fetchErrors.Add(1)
			r.Logger.Error("Error fetching closing deals: %v", err)
			return
		}
		matched = MatchClosingDeals(diff.ClosedTickets, deals, r.sentDeals.Contains)
	}

	// Both fetches succeeded: emit and commit the new snapshot.
	for _, pos := range diff.Updated {
		event := PositionEvent(pos, now)
		r.positionHistory.Put(pos.Ticket, event)
		r.broadcast(event)
	}

	for _, deal := range matched {
		event := TransactionEvent(deal)
		r.sentDeals.Add(deal.Ticket)
		r.transactionHistory.Put(deal.Ticket, event)
		r.broadcast(event)
	}

	r.lastPositions = current
}

// -----------------------------------------------------------------------------

func (r *TradeReconciler) broadcast(event interface{}) {
	for _, sub := range r.Registry.TradeSubscribers() {
		if err := sub.Send(event); err != nil {
			r.Metrics.sendErrors.Add(1)
			r.Logger.Error("Error sending trade update to %s: %v", sub.ID(), err)
			continue
		}
		r.Metrics.tradeEventsSent.Add(1)
	}
}

// -----------------------------------------------------------------------------

// PositionEvent builds the wire event for a new or changed position.
func PositionEvent(pos models.MPosition, now time.Time) models.MPositionUpdate {
	return models.MPositionUpdate{
		Type:       models.TypeTradeUpdate,
		UpdateType: models.UpdateTypePosition,
		TradeID:    pos.Ticket,
		Symbol:     pos.Symbol,
		Side:       pos.Side,
		Volume:     pos.Volume,
		Price:      pos.OpenPrice,
		Profit:     pos.Profit,
		SL:         pos.StopLoss,
		TP:         pos.TakeProfit,
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
	}
}

// -----------------------------------------------------------------------------

// TransactionEvent builds the wire event for a closing deal. The timestamp is
// the deal's close time, not the observation time.
func TransactionEvent(deal models.MTransaction) models.MTransactionUpdate {
	return models.MTransactionUpdate{
		Type:          models.TypeTradeUpdate,
		UpdateType:    models.UpdateTypeTransaction,
		TransactionID: deal.Ticket,
		Symbol:        deal.Symbol,
		Side:          deal.CloseSide(),
		Volume:        deal.Volume,
		Price:         deal.Price,
		Commission:    deal.Commission,
		Swap:          deal.Swap,
		Profit:        deal.Profit,
		Timestamp:     deal.ClosedAt.UTC().Format(time.RFC3339Nano),
	}
}

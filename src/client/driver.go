package client

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
	"trade-relay/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Driver maintains one outbound connection to the distribution server. It
// reconnects forever with backoff, resubscribes with resumption cursors and
// forwards every event to the configured sink. Cursors survive reconnects,
// so a resubscribe picks up exactly where the last session broke off.
// -----------------------------------------------------------------------------

const (
	dialTimeout      = 10 * time.Second
	clientWriteWait  = 5 * time.Second
	clientReadLimit  = 64 * 1024
	statsLogInterval = 100
)

type Driver struct {
	Config models.MClientConfig
	Logger *logger.Logger
	Sink   interfaces.IEventSink

	backoff *Backoff

	conn    *websocket.Conn
	writeMu sync.Mutex

	// Resumption cursors: highest trade_id / transaction_id seen so far.
	lastTradeID       int64
	lastTransactionID int64

	priceCount atomic.Int64
	tradeCount atomic.Int64
	sinkErrors atomic.Int64
}

// -----------------------------------------------------------------------------

func NewDriver(cfg models.MClientConfig, l *logger.Logger, sink interfaces.IEventSink) *Driver {
	return &Driver{
		Config: cfg,
		Logger: l,
		Sink:   sink,
		backoff: NewBackoff(
			time.Duration(cfg.Backoff.InitialSeconds*float64(time.Second)),
			time.Duration(cfg.Backoff.MaxSeconds*float64(time.Second)),
			cfg.Backoff.Factor,
		),
	}
}

// -----------------------------------------------------------------------------
// Run loop
// -----------------------------------------------------------------------------

// Run connects, consumes and reconnects until the context is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := d.runSession(ctx); err != nil {
			d.Logger.Error("Session ended: %v", err)
		}

		if ctx.Err() != nil {
			d.logStats()
			return ctx.Err()
		}

		delay := d.backoff.Next()
		d.Logger.Info("Reconnecting in %v (last_trade_id=%d last_transaction_id=%d)",
			delay, d.lastTradeID, d.lastTransactionID)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			d.logStats()
			return ctx.Err()
		}
	}
}

// -----------------------------------------------------------------------------

func (d *Driver) runSession(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, d.Config.ServerURL, nil)
	if err != nil {
		return err
	}
	d.writeMu.Lock()
	d.conn = conn
	d.writeMu.Unlock()
	conn.SetReadLimit(clientReadLimit)

	defer func() {
		d.writeMu.Lock()
		d.conn = nil
		d.writeMu.Unlock()
		conn.Close()
	}()

	d.Logger.Info("Connected to %s", d.Config.ServerURL)

	if err := d.subscribe(); err != nil {
		return err
	}

	// Heartbeat keeps intermediaries from idling the connection out.
	heartbeatDone := make(chan struct{})
	defer close(heartbeatDone)
	go d.heartbeat(heartbeatDone)

	// Reader unblocks on conn.Close when the context is cancelled.
	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go func() {
		select {
		case <-ctx.Done():
			d.shutdownSession(conn)
		case <-sessionDone:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		d.handleMessage(ctx, raw)
	}
}

// -----------------------------------------------------------------------------

func (d *Driver) subscribe() error {
	return d.writeJSON(models.MSubscriptionRequest{
		Type:              models.TypeSubscription,
		Action:            models.ActionSubscribe,
		Symbols:           d.Config.Symbols,
		IncludeTrades:     d.Config.IncludeTrades,
		LastTradeID:       d.lastTradeID,
		LastTransactionID: d.lastTransactionID,
	})
}

// -----------------------------------------------------------------------------

// shutdownSession unsubscribes on a clean shutdown so the server prunes the
// registry immediately instead of waiting for the read deadline.
func (d *Driver) shutdownSession(conn *websocket.Conn) {
	d.writeJSON(models.MSubscriptionRequest{
		Type:    models.TypeSubscription,
		Action:  models.ActionUnsubscribe,
		Symbols: d.Config.Symbols,
	})
	d.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(clientWriteWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	d.writeMu.Unlock()
	conn.Close()
}

// -----------------------------------------------------------------------------

func (d *Driver) heartbeat(done <-chan struct{}) {
	seconds := d.Config.HeartbeatSeconds
	if seconds <= 0 {
		seconds = 30
	}
	ticker := time.NewTicker(time.Duration(seconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := d.writeJSON(models.MPing{Type: models.TypePing}); err != nil {
				return
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (d *Driver) writeJSON(message interface{}) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	conn := d.conn
	if conn == nil {
		return websocket.ErrCloseSent
	}
	conn.SetWriteDeadline(time.Now().Add(clientWriteWait))
	return conn.WriteJSON(message)
}

// -----------------------------------------------------------------------------
// Inbound message handling
// -----------------------------------------------------------------------------

func (d *Driver) handleMessage(ctx context.Context, raw []byte) {
	var env models.MEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.Logger.Warning("Discarding unparseable message: %v", err)
		return
	}

	switch env.Type {
	case models.TypeSubConfirmation:
		var conf models.MSubscriptionConfirmation
		if err := json.Unmarshal(raw, &conf); err == nil {
			d.Logger.Info("Subscribed to %v (trades: %v)", conf.Symbols, conf.TradesIncluded)
		}
		d.backoff.Reset()

	case models.TypeUnsubConfirm:
		d.Logger.Info("Unsubscription confirmed")

	case models.TypePriceUpdate:
		var update models.MPriceUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			d.Logger.Warning("Discarding malformed price update: %v", err)
			return
		}
		d.emit(ctx, update)
		if n := d.priceCount.Add(1); n%statsLogInterval == 0 {
			d.logStats()
		}

	case models.TypeTradeUpdate:
		d.handleTradeUpdate(ctx, raw, env.UpdateType)

	case models.TypePong:
		d.Logger.Debug("Heartbeat acknowledged")

	case models.TypeError:
		var e models.MError
		if err := json.Unmarshal(raw, &e); err == nil {
			d.Logger.Error("Server error: %s", e.Message)
		}

	default:
		d.Logger.Warning("Ignoring unknown message type %q", env.Type)
	}
}

// -----------------------------------------------------------------------------

func (d *Driver) handleTradeUpdate(ctx context.Context, raw []byte, updateType string) {
	switch updateType {
	case models.UpdateTypePosition:
		var update models.MPositionUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			d.Logger.Warning("Discarding malformed position update: %v", err)
			return
		}
		if update.TradeID > d.lastTradeID {
			d.lastTradeID = update.TradeID
		}
		d.emit(ctx, update)

	case models.UpdateTypeTransaction:
		var update models.MTransactionUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			d.Logger.Warning("Discarding malformed transaction update: %v", err)
			return
		}
		if update.TransactionID > d.lastTransactionID {
			d.lastTransactionID = update.TransactionID
		}
		d.emit(ctx, update)

	default:
		d.Logger.Warning("Ignoring unknown trade update type %q", updateType)
		return
	}

	d.tradeCount.Add(1)
}

// -----------------------------------------------------------------------------

func (d *Driver) emit(ctx context.Context, event interface{}) {
	if d.Sink == nil {
		return
	}
	if err := d.Sink.Emit(ctx, event); err != nil {
		d.sinkErrors.Add(1)
		d.Logger.Error("Sink error: %v", err)
	}
}

// -----------------------------------------------------------------------------

func (d *Driver) logStats() {
	d.Logger.Info("Forwarded %d price updates, %d trade updates (%d sink errors)",
		d.priceCount.Load(), d.tradeCount.Load(), d.sinkErrors.Load())
}

// -----------------------------------------------------------------------------

// Cursors returns the current resumption cursor pair.
func (d *Driver) Cursors() (lastTradeID, lastTransactionID int64) {
	return d.lastTradeID, d.lastTransactionID
}

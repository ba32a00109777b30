package client

import (
	"context"
	"testing"
	"time"

	"trade-relay/src/logger"
	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------

type memorySink struct {
	events []interface{}
}

func (s *memorySink) Emit(ctx context.Context, event interface{}) error {
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) Close() error { return nil }

// -----------------------------------------------------------------------------

func newTestDriver(sink *memorySink) *Driver {
	cfg := models.MClientConfig{
		ServerURL:     "ws://localhost:8765/ws",
		Symbols:       []string{"EURUSD"},
		IncludeTrades: true,
		Backoff:       models.MBackoffConfig{InitialSeconds: 5, Factor: 1.5, MaxSeconds: 60},
	}
	return NewDriver(cfg, logger.NewLogger("ERROR", "test"), sink)
}

// -----------------------------------------------------------------------------

func TestDriverTracksCursorsMonotonically(t *testing.T) {
	sink := &memorySink{}
	d := newTestDriver(sink)
	ctx := context.Background()

	d.handleMessage(ctx, []byte(`{"type":"trade_update","update_type":"position","trade_id":105,"symbol":"EURUSD","side":"buy","volume":0.1,"price":1.1,"profit":2.0,"sl":0,"tp":0,"timestamp":"2026-08-28T10:00:00Z"}`))
	d.handleMessage(ctx, []byte(`{"type":"trade_update","update_type":"transaction","transaction_id":560,"symbol":"EURUSD","side":"close_buy","volume":0.1,"price":1.2,"commission":-0.5,"swap":0,"profit":3.1,"timestamp":"2026-08-28T10:00:01Z"}`))

	// Replayed older events must not move the cursors backwards.
	d.handleMessage(ctx, []byte(`{"type":"trade_update","update_type":"position","trade_id":100,"symbol":"EURUSD","side":"buy","volume":0.1,"price":1.1,"profit":1.0,"sl":0,"tp":0,"timestamp":"2026-08-28T09:00:00Z"}`))
	d.handleMessage(ctx, []byte(`{"type":"trade_update","update_type":"transaction","transaction_id":550,"symbol":"EURUSD","side":"close_sell","volume":0.1,"price":1.2,"commission":-0.5,"swap":0,"profit":-1.0,"timestamp":"2026-08-28T09:00:01Z"}`))

	tradeID, transactionID := d.Cursors()
	if tradeID != 105 || transactionID != 560 {
		t.Errorf("expected cursors (105, 560), got (%d, %d)", tradeID, transactionID)
	}

	if len(sink.events) != 4 {
		t.Errorf("expected all 4 events forwarded, got %d", len(sink.events))
	}
}

// -----------------------------------------------------------------------------

func TestDriverForwardsPriceUpdates(t *testing.T) {
	sink := &memorySink{}
	d := newTestDriver(sink)

	d.handleMessage(context.Background(), []byte(`{"type":"price_update","symbol":"EURUSD","bid":1.1000,"ask":1.1002,"spread":0.0002,"timestamp":"2026-08-28T10:00:00Z"}`))

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	update, ok := sink.events[0].(models.MPriceUpdate)
	if !ok || update.Symbol != "EURUSD" || update.Spread != 0.0002 {
		t.Errorf("unexpected forwarded event: %+v", sink.events[0])
	}
}

// -----------------------------------------------------------------------------

func TestDriverConfirmationResetsBackoff(t *testing.T) {
	d := newTestDriver(&memorySink{})

	d.backoff.Next()
	d.backoff.Next()

	d.handleMessage(context.Background(), []byte(`{"type":"subscription_confirmation","symbols":["EURUSD"],"trades_included":true,"message":"Successfully subscribed"}`))

	if got := d.backoff.Next(); got != 5*time.Second {
		t.Errorf("confirmation must reset the backoff, next delay was %v", got)
	}
}

// -----------------------------------------------------------------------------

func TestDriverIgnoresMalformedAndUnknownMessages(t *testing.T) {
	sink := &memorySink{}
	d := newTestDriver(sink)
	ctx := context.Background()

	d.handleMessage(ctx, []byte(`not json`))
	d.handleMessage(ctx, []byte(`{"type":"telemetry"}`))
	d.handleMessage(ctx, []byte(`{"type":"trade_update","update_type":"margin_call"}`))

	if len(sink.events) != 0 {
		t.Errorf("nothing should reach the sink, got %d events", len(sink.events))
	}

	tradeID, transactionID := d.Cursors()
	if tradeID != 0 || transactionID != 0 {
		t.Errorf("cursors moved on garbage input: (%d, %d)", tradeID, transactionID)
	}
}

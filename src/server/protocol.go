package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trade-relay/src/interfaces"
	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// Wire protocol handling. Malformed input answers with a structured error
// and keeps the connection open; only transport failures close it.
// -----------------------------------------------------------------------------

func (s *Server) handleClientMessage(c *Client, raw []byte) {
	s.handleMessage(c, raw)
}

// -----------------------------------------------------------------------------

// handleMessage decodes and dispatches one inbound message. Split from the
// Client type so tests can drive it with a fake subscriber.
func (s *Server) handleMessage(sub interfaces.ISubscriber, raw []byte) {
	var env models.MEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.reply(sub, models.NewError("Invalid JSON format"))
		return
	}

	switch env.Type {
	case models.TypeSubscription:
		s.handleSubscription(sub, raw)

	case models.TypePing:
		s.reply(sub, models.MPong{
			Type: models.TypePong,
			Time: time.Now().UTC().Format(time.RFC3339Nano),
		})

	default:
		s.Logger.Warning("Unknown message type from %s: %q", sub.ID(), env.Type)
		s.reply(sub, models.NewError(fmt.Sprintf("Unknown message type: %s", env.Type)))
	}
}

// -----------------------------------------------------------------------------

func (s *Server) handleSubscription(sub interfaces.ISubscriber, raw []byte) {
	var req models.MSubscriptionRequest
	if err := json.Unmarshal(raw, &req); err != nil || len(req.Symbols) == 0 {
		// Covers symbols sent as a bare string as well as an empty list.
		// Nothing is applied: validation happens before any registry write.
		s.reply(sub, models.NewError("Invalid symbols format. Expected a list."))
		return
	}

	switch req.Action {
	case models.ActionSubscribe:
		if err := s.Registry.Subscribe(sub, req.Symbols, req.IncludeTrades); err != nil {
			s.reply(sub, models.NewError("Invalid symbols format. Expected a list."))
			return
		}

		// Resumption: replay missed events before confirming, so the caller
		// sees replayed state ahead of any fresh fan-out it now receives.
		if req.IncludeTrades && (req.LastTradeID > 0 || req.LastTransactionID > 0) {
			s.Logger.Info("Client %s requesting missed trades since trade_id=%d transaction_id=%d",
				sub.ID(), req.LastTradeID, req.LastTransactionID)
			if err := s.Replayer.SendMissed(context.Background(), sub, req.LastTradeID, req.LastTransactionID); err != nil {
				s.Logger.Error("Replay for %s failed: %v", sub.ID(), err)
			}
		}

		s.Logger.Info("Client %s subscribed to %v (trades: %v). Watched symbols: %d",
			sub.ID(), req.Symbols, req.IncludeTrades, s.Registry.SymbolCount())

		s.reply(sub, models.MSubscriptionConfirmation{
			Type:           models.TypeSubConfirmation,
			Symbols:        req.Symbols,
			TradesIncluded: req.IncludeTrades,
			Message:        "Successfully subscribed",
		})

	case models.ActionUnsubscribe:
		s.Registry.Unsubscribe(sub, req.Symbols, req.UnsubscribeTrades)

		s.Logger.Info("Client %s unsubscribed from %v. Watched symbols: %d",
			sub.ID(), req.Symbols, s.Registry.SymbolCount())

		s.reply(sub, models.MUnsubscriptionConfirmation{
			Type:    models.TypeUnsubConfirm,
			Symbols: req.Symbols,
			Message: "Successfully unsubscribed",
		})

	default:
		s.reply(sub, models.NewError(fmt.Sprintf("Unknown action: %s", req.Action)))
	}
}

// -----------------------------------------------------------------------------

func (s *Server) reply(sub interfaces.ISubscriber, message interface{}) {
	if err := sub.Send(message); err != nil {
		s.Logger.Error("Error replying to %s: %v", sub.ID(), err)
	}
}

package sink

import (
	"context"
	"database/sql"
	"fmt"

	"trade-relay/src/logger"
	"trade-relay/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------
// Postgres sink. Append-only event tables; ticket collisions from replayed
// streams are dropped on conflict instead of erroring the forwarder out.
// -----------------------------------------------------------------------------

type PostgresSink struct {
	Logger *logger.Logger
	DB     *sql.DB
}

// -----------------------------------------------------------------------------

func NewPostgresSink(cfg models.MPostgresConfig, l *logger.Logger) (*PostgresSink, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &PostgresSink{Logger: l, DB: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	l.Info("Postgres sink initialized")
	return s, nil
}

// -----------------------------------------------------------------------------

func (s *PostgresSink) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_events (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			bid DOUBLE PRECISION,
			ask DOUBLE PRECISION,
			spread DOUBLE PRECISION,
			event_time TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trade_events (
			ticket BIGINT NOT NULL,
			update_type TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT,
			volume DOUBLE PRECISION,
			price DOUBLE PRECISION,
			commission DOUBLE PRECISION,
			swap DOUBLE PRECISION,
			profit DOUBLE PRECISION,
			sl DOUBLE PRECISION,
			tp DOUBLE PRECISION,
			event_time TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (ticket, update_type, event_time)
		);`,
	}

	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create sink table: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresSink) Emit(ctx context.Context, event interface{}) error {
	switch e := event.(type) {
	case models.MPriceUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT INTO price_events (symbol, bid, ask, spread, event_time)
			VALUES ($1, $2, $3, $4, $5)
		`, e.Symbol, e.Bid, e.Ask, e.Spread, parseEventTime(e.Timestamp))
		return err

	case models.MPositionUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT INTO trade_events (ticket, update_type, symbol, side, volume, price, profit, sl, tp, commission, swap, event_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10)
			ON CONFLICT DO NOTHING
		`, e.TradeID, e.UpdateType, e.Symbol, e.Side, e.Volume, e.Price, e.Profit, e.SL, e.TP, parseEventTime(e.Timestamp))
		return err

	case models.MTransactionUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT INTO trade_events (ticket, update_type, symbol, side, volume, price, profit, sl, tp, commission, swap, event_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8, $9, $10)
			ON CONFLICT DO NOTHING
		`, e.TransactionID, e.UpdateType, e.Symbol, e.Side, e.Volume, e.Price, e.Profit, e.Commission, e.Swap, parseEventTime(e.Timestamp))
		return err

	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

// -----------------------------------------------------------------------------

func (s *PostgresSink) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

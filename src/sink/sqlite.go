package sink

import (
	"context"
	"database/sql"
	"fmt"

	"trade-relay/src/logger"
	"trade-relay/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------
// SQLite sink. Single-file local capture, mostly for development runs.
// -----------------------------------------------------------------------------

type SQLiteSink struct {
	Logger *logger.Logger
	DB     *sql.DB
}

// -----------------------------------------------------------------------------

func NewSQLiteSink(cfg models.MSQLiteConfig, l *logger.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteSink{Logger: l, DB: db}

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		l.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		l.Warning("Failed to set synchronous mode: %v", err)
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	l.Info("SQLite sink initialized (path: %s)", cfg.Path)
	return s, nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteSink) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			bid REAL,
			ask REAL,
			spread REAL,
			event_time TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trade_events (
			ticket INTEGER NOT NULL,
			update_type TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT,
			volume REAL,
			price REAL,
			commission REAL,
			swap REAL,
			profit REAL,
			sl REAL,
			tp REAL,
			event_time TEXT NOT NULL,
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

func (s *SQLiteSink) Emit(ctx context.Context, event interface{}) error {
	switch e := event.(type) {
	case models.MPriceUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT INTO price_events (symbol, bid, ask, spread, event_time)
			VALUES (?, ?, ?, ?, ?)
		`, e.Symbol, e.Bid, e.Ask, e.Spread, e.Timestamp)
		return err

	case models.MPositionUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO trade_events (ticket, update_type, symbol, side, volume, price, profit, sl, tp, commission, swap, event_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)
		`, e.TradeID, e.UpdateType, e.Symbol, e.Side, e.Volume, e.Price, e.Profit, e.SL, e.TP, e.Timestamp)
		return err

	case models.MTransactionUpdate:
		_, err := s.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO trade_events (ticket, update_type, symbol, side, volume, price, profit, sl, tp, commission, swap, event_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)
		`, e.TransactionID, e.UpdateType, e.Symbol, e.Side, e.Volume, e.Price, e.Profit, e.Commission, e.Swap, e.Timestamp)
		return err

	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

// -----------------------------------------------------------------------------

func (s *SQLiteSink) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

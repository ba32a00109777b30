package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"trade-relay/src/logger"
	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// CSV sink. One price file per symbol per UTC day plus one shared trade file
// per day. Files roll over on the first event after midnight.
// -----------------------------------------------------------------------------

type CSVSink struct {
	Logger *logger.Logger
	dir    string

	files map[string]*csvFile
}

type csvFile struct {
	file   *os.File
	writer *csv.Writer
}

// -----------------------------------------------------------------------------

func NewCSVSink(cfg models.MCSVConfig, l *logger.Logger) (*CSVSink, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create csv directory: %w", err)
	}

	l.Info("CSV sink writing to %s", dir)
	return &CSVSink{Logger: l, dir: dir, files: make(map[string]*csvFile)}, nil
}

// -----------------------------------------------------------------------------

func (s *CSVSink) Emit(ctx context.Context, event interface{}) error {
	switch e := event.(type) {
	case models.MPriceUpdate:
		name := fmt.Sprintf("prices_%s_%s.csv", e.Symbol, dayOf(e.Timestamp))
		header := []string{"timestamp", "symbol", "bid", "ask", "spread"}
		return s.append(name, header, []string{
			e.Timestamp, e.Symbol,
			formatFloat(e.Bid), formatFloat(e.Ask), formatFloat(e.Spread),
		})

	case models.MPositionUpdate:
		return s.appendTrade(e.Timestamp, []string{
			e.Timestamp, e.UpdateType, strconv.FormatInt(e.TradeID, 10),
			e.Symbol, e.Side, formatFloat(e.Volume), formatFloat(e.Price),
			formatFloat(e.Profit), formatFloat(e.SL), formatFloat(e.TP), "", "",
		})

	case models.MTransactionUpdate:
		return s.appendTrade(e.Timestamp, []string{
			e.Timestamp, e.UpdateType, strconv.FormatInt(e.TransactionID, 10),
			e.Symbol, e.Side, formatFloat(e.Volume), formatFloat(e.Price),
			formatFloat(e.Profit), "", "",
			formatFloat(e.Commission), formatFloat(e.Swap),
		})

	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

// -----------------------------------------------------------------------------

func (s *CSVSink) appendTrade(timestamp string, record []string) error {
	name := fmt.Sprintf("trades_%s.csv", dayOf(timestamp))
	header := []string{
		"timestamp", "update_type", "ticket", "symbol", "side",
		"volume", "price", "profit", "sl", "tp", "commission", "swap",
	}
	return s.append(name, header, record)
}

// -----------------------------------------------------------------------------

func (s *CSVSink) append(name string, header, record []string) error {
	cf, ok := s.files[name]
	if !ok {
		path := filepath.Join(s.dir, name)
		_, statErr := os.Stat(path)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}

		cf = &csvFile{file: file, writer: csv.NewWriter(file)}
		s.files[name] = cf

		if os.IsNotExist(statErr) {
			if err := cf.writer.Write(header); err != nil {
				return err
			}
		}
	}

	if err := cf.writer.Write(record); err != nil {
		return err
	}
	cf.writer.Flush()
	return cf.writer.Error()
}

// -----------------------------------------------------------------------------

func (s *CSVSink) Close() error {
	var firstErr error
	for name, cf := range s.files {
		cf.writer.Flush()
		if err := cf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, name)
	}
	return firstErr
}

// -----------------------------------------------------------------------------

func dayOf(timestamp string) string {
	return parseEventTime(timestamp).UTC().Format("2006-01-02")
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

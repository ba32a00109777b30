package sink

import (
	"context"
	"fmt"
	"time"

	"trade-relay/src/interfaces"
	"trade-relay/src/logger"
	"trade-relay/src/models"
)

// -----------------------------------------------------------------------------
// Sink factory. The forwarder picks exactly one downstream per run; "none"
// consumes the stream for connectivity checks without persisting anything.
// -----------------------------------------------------------------------------

func New(cfg models.MSinkConfig, l *logger.Logger) (interfaces.IEventSink, error) {
	switch cfg.Type {
	case "", "none":
		return &noneSink{Logger: l}, nil
	case "csv":
		return NewCSVSink(cfg.CSV, l)
	case "kafka":
		return NewKafkaSink(cfg.Kafka, l)
	case "postgres":
		return NewPostgresSink(cfg.Postgres, l)
	case "sqlite":
		return NewSQLiteSink(cfg.SQLite, l)
	case "redis":
		return NewRedisSink(cfg.Redis, l)
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}

// -----------------------------------------------------------------------------

type noneSink struct {
	Logger *logger.Logger
}

func (s *noneSink) Emit(ctx context.Context, event interface{}) error {
	s.Logger.Debug("Discarding event: %+v", event)
	return nil
}

func (s *noneSink) Close() error { return nil }

// -----------------------------------------------------------------------------

// parseEventTime turns a wire timestamp back into a time.Time, falling back
// to now for timestamps a foreign producer mangled.
func parseEventTime(value string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Now().UTC()
}

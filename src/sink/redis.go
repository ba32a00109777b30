package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trade-relay/src/logger"
	"trade-relay/src/models"

	"github.com/redis/go-redis/v9"
)

// -----------------------------------------------------------------------------
// Redis sink. Keeps the latest quote per symbol, a scored window of recent
// quotes and a capped list of trade events for dashboard consumers.
// -----------------------------------------------------------------------------

const tradeListCap = 1000

type RedisSink struct {
	Logger *logger.Logger
	client *redis.Client
	ttl    time.Duration
}

// -----------------------------------------------------------------------------

func NewRedisSink(cfg models.MRedisConfig, l *logger.Logger) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}

	l.Info("Redis sink ready (addr: %s, db: %d)", cfg.Addr, cfg.DB)
	return &RedisSink{Logger: l, client: client, ttl: ttl}, nil
}

// -----------------------------------------------------------------------------

func (s *RedisSink) Emit(ctx context.Context, event interface{}) error {
	switch e := event.(type) {
	case models.MPriceUpdate:
		return s.emitPrice(ctx, e)
	case models.MPositionUpdate, models.MTransactionUpdate:
		return s.emitTrade(ctx, event)
	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

// -----------------------------------------------------------------------------

func (s *RedisSink) emitPrice(ctx context.Context, update models.MPriceUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	latestKey := fmt.Sprintf("latest:%s", update.Symbol)
	if err := s.client.Set(ctx, latestKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set latest price: %w", err)
	}

	windowKey := fmt.Sprintf("window:%s", update.Symbol)
	z := redis.Z{
		Score:  float64(parseEventTime(update.Timestamp).Unix()),
		Member: data,
	}
	if err := s.client.ZAdd(ctx, windowKey, z).Err(); err != nil {
		return fmt.Errorf("failed to add price to window: %w", err)
	}
	_ = s.client.Expire(ctx, windowKey, s.ttl*2).Err()

	return nil
}

// -----------------------------------------------------------------------------

func (s *RedisSink) emitTrade(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, "trades", data)
	pipe.LTrim(ctx, "trades", 0, tradeListCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push trade event: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *RedisSink) Close() error {
	return s.client.Close()
}

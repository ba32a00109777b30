package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"trade-relay/src/logger"
	"trade-relay/src/models"

	kafkaGo "github.com/segmentio/kafka-go"
)

// -----------------------------------------------------------------------------
// Kafka sink. One topic for the whole stream; the symbol keys the message so
// per-symbol ordering survives partitioning.
// -----------------------------------------------------------------------------

type KafkaSink struct {
	Logger *logger.Logger
	writer *kafkaGo.Writer
}

// -----------------------------------------------------------------------------

func NewKafkaSink(cfg models.MKafkaConfig, l *logger.Logger) (*KafkaSink, error) {
	if err := ensureTopic(cfg); err != nil {
		return nil, err
	}

	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(cfg.BrokerURL),
		Topic:        cfg.Topic,
		Balancer:     &kafkaGo.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafkaGo.RequireOne,
	}

	l.Info("Kafka sink ready (broker: %s, topic: %s)", cfg.BrokerURL, cfg.Topic)
	return &KafkaSink{Logger: l, writer: writer}, nil
}

// -----------------------------------------------------------------------------

func ensureTopic(cfg models.MKafkaConfig) error {
	conn, err := kafkaGo.Dial("tcp", cfg.BrokerURL)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to get kafka controller: %w", err)
	}

	controllerConn, err := kafkaGo.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to connect to kafka controller: %w", err)
	}
	defer controllerConn.Close()

	return controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}

// -----------------------------------------------------------------------------

func (s *KafkaSink) Emit(ctx context.Context, event interface{}) error {
	var key string
	switch e := event.(type) {
	case models.MPriceUpdate:
		key = e.Symbol
	case models.MPositionUpdate:
		key = e.Symbol
	case models.MTransactionUpdate:
		key = e.Symbol
	default:
		return fmt.Errorf("unsupported event type %T", event)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// -----------------------------------------------------------------------------

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// Command kafka_smoketest publishes a synthetic transfer.completed event on
// the configured topic through the Kafka event bus and waits until the same
// bus consumes it back.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	infraeventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RunSmokeTest creates the topic if needed, then round-trips one event.
func RunSmokeTest(cfg config.EventBus, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		logger.Error("dial failed", "error", err)
		return err
	}
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	_ = conn.Close()
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		logger.Error("create topic failed", "topic", cfg.Topic, "error", err)
		return err
	}
	logger.Info("topic ready", "topic", cfg.Topic)

	bus, err := infraeventbus.NewWithKafka(infraeventbus.KafkaEventBusConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: "minibank-smoketest",
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := &events.TransferCompleted{
		ID:              uuid.New(),
		TransactionID:   uuid.New(),
		SourceAccountID: uuid.New(),
		DestAccountID:   uuid.New(),
		Amount:          decimal.NewFromInt(1),
		SourceCurrency:  currency.USD,
		Converted:       decimal.NewFromInt(90),
		Commission:      decimal.RequireFromString("1.80"),
		Credited:        decimal.RequireFromString("88.20"),
		DestCurrency:    currency.RUB,
		OccurredAt:      time.Now().UTC(),
	}

	received := make(chan struct{})
	var once sync.Once
	bus.Register(events.TransferCompletedType, func(_ context.Context, e eventbus.Event) error {
		if got, ok := e.(*events.TransferCompleted); ok && got.ID == sent.ID {
			once.Do(func() { close(received) })
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "eventID", sent.ID)

	select {
	case <-received:
		logger.Info("kafka smoke test passed")
		return nil
	case <-ctx.Done():
		return errors.New("event was not consumed before the deadline")
	}
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	if err := RunSmokeTest(cfg.EventBus, logger); err != nil {
		logger.Error("smoke test failed", "error", err)
		os.Exit(1)
	}
}

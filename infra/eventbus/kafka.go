package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaEventBus publishes events to a single topic wrapped in a type
// envelope. Registering a handler starts a consumer-group reader.
type KafkaEventBus struct {
	cfg    KafkaEventBusConfig
	writer *kafka.Writer
	logger *slog.Logger

	handlers    map[string][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex

	readerMtx sync.Mutex
	reader    *kafka.Reader
	closed    bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWithKafka creates a new Kafka-backed event bus.
func NewWithKafka(cfg KafkaEventBusConfig, logger *slog.Logger) (*KafkaEventBus, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka event bus: brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka event bus: topic is required")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "minibank"
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &KafkaEventBus{
		cfg: cfg,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
		},
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[string][]eventbus.HandlerFunc),
		ctx:      ctx,
		cancel:   cancel,
	}
	logger.Info("Kafka event bus initialized", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return bus, nil
}

// Emit publishes an event to Kafka.
func (b *KafkaEventBus) Emit(ctx context.Context, event eventbus.Event) error {
	value, err := encodeEnvelope(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.Type()),
		Value: value,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Register registers an event handler and starts consuming on first use.
// After Close the handler is recorded but no reader is started.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.readerMtx.Lock()
	defer b.readerMtx.Unlock()
	if b.closed {
		b.logger.Warn("handler registered on closed kafka event bus", "type", eventType)
		return
	}
	if b.reader != nil {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.cfg.Brokers,
		GroupID:  b.cfg.GroupID,
		Topic:    b.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	b.reader = reader
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(b.ctx, reader)
	}()
}

func (b *KafkaEventBus) consumeLoop(ctx context.Context, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			b.logger.Error("kafka consume error", "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		b.dispatch(ctx, msg.Value)
		if err := reader.CommitMessages(ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// dispatch decodes one message and hands it to the registered handlers.
// Undecodable messages are logged and skipped.
func (b *KafkaEventBus) dispatch(ctx context.Context, raw []byte) {
	evt, err := decodeEnvelope(raw)
	if err != nil {
		b.logger.Error("failed to decode kafka message", "error", err)
		return
	}
	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[evt.Type()]...)
	b.handlersMtx.RUnlock()
	for _, h := range handlers {
		runHandler(ctx, b.logger, evt, h)
	}
}

// Close stops the consumer and flushes the writer. Only the first call has
// any effect.
func (b *KafkaEventBus) Close() error {
	b.readerMtx.Lock()
	if b.closed {
		b.readerMtx.Unlock()
		return nil
	}
	b.closed = true
	reader := b.reader
	b.readerMtx.Unlock()

	b.cancel()
	if reader != nil {
		_ = reader.Close()
	}
	b.wg.Wait()
	return b.writer.Close()
}

func encodeEnvelope(event eventbus.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("kafka event bus: marshal %s: %w", event.Type(), err)
	}
	return json.Marshal(envelope{Type: event.Type(), Payload: payload})
}

func decodeEnvelope(raw []byte) (eventbus.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	constructor, ok := events.EventTypes[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, err
	}
	return evt, nil
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)

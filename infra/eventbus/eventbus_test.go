package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *events.TransferCompleted {
	return &events.TransferCompleted{
		ID:              uuid.New(),
		TransactionID:   uuid.New(),
		SourceAccountID: uuid.New(),
		DestAccountID:   uuid.New(),
		Amount:          decimal.NewFromInt(100),
		SourceCurrency:  currency.USD,
		Converted:       decimal.RequireFromString("111.11"),
		Commission:      decimal.RequireFromString("2.22"),
		Credited:        decimal.RequireFromString("108.89"),
		DestCurrency:    currency.EUR,
		OccurredAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestMemoryEventBus(t *testing.T) {
	bus := NewWithMemory(discardLogger())
	var got []eventbus.Event
	bus.Register(events.TransferCompletedType, func(_ context.Context, e eventbus.Event) error {
		got = append(got, e)
		return nil
	})
	bus.Register(events.TransferCompletedType, func(context.Context, eventbus.Event) error {
		return errors.New("handler failure is logged")
	})
	bus.Register(events.TransferCompletedType, func(context.Context, eventbus.Event) error {
		panic("recovered")
	})

	evt := sampleEvent()
	require.NoError(t, bus.Emit(context.Background(), evt))
	require.Len(t, got, 1)
	assert.Same(t, evt, got[0])
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	evt := sampleEvent()
	raw, err := encodeEnvelope(evt)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"transfer.completed"`)

	decoded, err := decodeEnvelope(raw)
	require.NoError(t, err)
	tc, ok := decoded.(*events.TransferCompleted)
	require.True(t, ok)
	assert.Equal(t, evt.TransactionID, tc.TransactionID)
	assert.True(t, tc.Credited.Equal(evt.Credited))
	assert.Equal(t, currency.EUR, tc.DestCurrency)

	_, err = decodeEnvelope([]byte(`{"type":"nope","payload":{}}`))
	assert.Error(t, err)
	_, err = decodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestKafkaEventBus_Dispatch(t *testing.T) {
	bus, err := NewWithKafka(KafkaEventBusConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, discardLogger())
	require.NoError(t, err)

	received := make(chan eventbus.Event, 1)
	bus.handlers[events.TransferCompletedType] = []eventbus.HandlerFunc{
		func(_ context.Context, e eventbus.Event) error { received <- e; return nil },
	}

	raw, err := encodeEnvelope(sampleEvent())
	require.NoError(t, err)
	bus.dispatch(context.Background(), raw)
	bus.dispatch(context.Background(), []byte("garbage"))

	select {
	case e := <-received:
		assert.Equal(t, events.TransferCompletedType, e.Type())
	default:
		t.Fatal("handler not called")
	}
	require.NoError(t, bus.Close())
}

func TestKafkaEventBus_RegisterAndCloseConcurrently(t *testing.T) {
	bus, err := NewWithKafka(KafkaEventBusConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "t"}, discardLogger())
	require.NoError(t, err)

	noop := func(context.Context, eventbus.Event) error { return nil }
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Register(events.TransferCompletedType, noop)
		}()
	}
	closeErr := make(chan error, 1)
	go func() { closeErr <- bus.Close() }()
	wg.Wait()

	select {
	case err := <-closeErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	assert.NoError(t, bus.Close())

	bus.Register(events.TransferCompletedType, noop)
	bus.readerMtx.Lock()
	defer bus.readerMtx.Unlock()
	assert.True(t, bus.closed)
}

func TestNewWithKafka_Validation(t *testing.T) {
	_, err := NewWithKafka(KafkaEventBusConfig{Topic: "t"}, nil)
	assert.Error(t, err)
	_, err = NewWithKafka(KafkaEventBusConfig{Brokers: []string{"b:9092"}}, nil)
	assert.Error(t, err)
}

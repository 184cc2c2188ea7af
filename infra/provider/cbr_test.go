package provider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cbrFixture = `{
  "Date": "2024-01-10T11:30:00+03:00",
  "Valute": {
    "USD": {"CharCode": "USD", "Nominal": 1, "Value": 90.1},
    "EUR": {"CharCode": "EUR", "Nominal": 1, "Value": 98.5},
    "JPY": {"CharCode": "JPY", "Nominal": 100, "Value": 61.7}
  }
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCBRConfig(url string) config.ExchangeRate {
	return config.ExchangeRate{
		URL:               url,
		HTTPTimeout:       time.Second,
		MaxRetries:        2,
		RequestsPerMinute: 6000,
		BurstSize:         10,
	}
}

func TestCBRProvider_RateOf(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, cbrFixture)
	}))
	defer srv.Close()

	p := NewCBRProvider(testCBRConfig(srv.URL), discardLogger())
	ctx := context.Background()

	usd, err := p.RateOf(ctx, currency.USD)
	require.NoError(t, err)
	assert.True(t, usd.Equal(decimal.RequireFromString("90.1")), "got %s", usd)

	q, err := p.Quote(ctx, currency.EUR)
	require.NoError(t, err)
	assert.Equal(t, "cbr", q.Source)
	assert.Equal(t, 2024, q.Timestamp.Year())

	rub, err := p.RateOf(ctx, currency.RUB)
	require.NoError(t, err)
	assert.True(t, rub.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int32(2), hits.Load(), "RUB is the base and never fetched")
}

func TestCBRProvider_FetchRates_SkipsUnsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, cbrFixture)
	}))
	defer srv.Close()

	rates, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).FetchRates(context.Background())
	require.NoError(t, err)
	assert.Len(t, rates, 3)
	assert.Contains(t, rates, currency.RUB)
	assert.Contains(t, rates, currency.USD)
	assert.Contains(t, rates, currency.EUR)
}

func TestCBRProvider_NominalDivides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Valute":{"USD":{"Nominal":10,"Value":901}}}`)
	}))
	defer srv.Close()

	usd, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).RateOf(context.Background(), currency.USD)
	require.NoError(t, err)
	assert.True(t, usd.Equal(decimal.RequireFromString("90.1")))
}

func TestCBRProvider_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, cbrFixture)
	}))
	defer srv.Close()

	usd, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).RateOf(context.Background(), currency.USD)
	require.NoError(t, err)
	assert.False(t, usd.IsZero())
	assert.Equal(t, int32(2), hits.Load())
}

func TestCBRProvider_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		_, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).RateOf(context.Background(), currency.USD)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})

	t.Run("bad json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}))
		defer srv.Close()
		_, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).RateOf(context.Background(), currency.USD)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})

	t.Run("missing currency", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"Valute":{"USD":{"Nominal":1,"Value":90}}}`)
		}))
		defer srv.Close()
		_, err := NewCBRProvider(testCBRConfig(srv.URL), discardLogger()).RateOf(context.Background(), currency.EUR)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewCBRProvider(testCBRConfig("http://127.0.0.1:0"), discardLogger()).RateOf(ctx, currency.USD)
		assert.ErrorIs(t, err, domain.ErrExchangeRateUnavailable)
	})
}

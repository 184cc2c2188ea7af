package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// CBRProvider reads rates from the Central Bank of Russia daily JSON feed.
// Rates are quoted in roubles per unit, so RUB is the base with rate 1.
type CBRProvider struct {
	url     string
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// cbrResponse is the subset of https://www.cbr-xml-daily.ru/daily_json.js we use.
// Example: {"Date":"2024-01-10T11:30:00+03:00","Valute":{"USD":{"Nominal":1,"Value":90.1}}}
type cbrResponse struct {
	Date   time.Time            `json:"Date"`
	Valute map[string]cbrValute `json:"Valute"`
}

type cbrValute struct {
	CharCode string          `json:"CharCode"`
	Nominal  int64           `json:"Nominal"`
	Value    decimal.Decimal `json:"Value"`
}

// NewCBRProvider creates a CBRProvider using the exchange-rate config.
func NewCBRProvider(cfg config.ExchangeRate, logger *slog.Logger) *CBRProvider {
	if logger == nil {
		logger = slog.Default()
	}
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cfg.HTTPTimeout
	client.Logger = logger

	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	return &CBRProvider{
		url:     cfg.URL,
		client:  client,
		limiter: rate.NewLimiter(perSecond, cfg.BurstSize),
		logger:  logger,
	}
}

// Name returns the provider's name
func (p *CBRProvider) Name() string {
	return "cbr"
}

// RateOf returns the rouble price of one unit of code.
func (p *CBRProvider) RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	q, err := p.Quote(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Value, nil
}

// Quote returns the rate of code with the feed timestamp.
func (p *CBRProvider) Quote(ctx context.Context, code currency.Code) (exchange.Rate, error) {
	if code == currency.RUB {
		return exchange.Rate{Currency: code, Value: decimal.NewFromInt(1), Source: p.Name(), Timestamp: time.Now().UTC()}, nil
	}
	rates, err := p.FetchRates(ctx)
	if err != nil {
		return exchange.Rate{}, err
	}
	r, ok := rates[code]
	if !ok {
		return exchange.Rate{}, fmt.Errorf("%w: %s not quoted by cbr", domain.ErrExchangeRateUnavailable, code)
	}
	return r, nil
}

// FetchRates downloads the feed and returns the rates of every supported currency.
func (p *CBRProvider) FetchRates(ctx context.Context) (map[currency.Code]exchange.Rate, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrExchangeRateUnavailable, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("Fetching exchange rates", "url", p.url)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeRateUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: cbr returned status %d: %s",
			domain.ErrExchangeRateUnavailable, resp.StatusCode, string(body))
	}

	var doc cbrResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrExchangeRateUnavailable, err)
	}

	ts := doc.Date.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	out := map[currency.Code]exchange.Rate{
		currency.RUB: {Currency: currency.RUB, Value: decimal.NewFromInt(1), Source: p.Name(), Timestamp: ts},
	}
	for key, v := range doc.Valute {
		code, err := currency.Parse(key)
		if err != nil {
			continue
		}
		if v.Nominal <= 0 || !v.Value.IsPositive() {
			p.logger.Warn("Skipping non-positive cbr quote", "currency", key, "nominal", v.Nominal, "value", v.Value)
			continue
		}
		out[code] = exchange.Rate{
			Currency:  code,
			Value:     v.Value.Div(decimal.NewFromInt(v.Nominal)),
			Source:    p.Name(),
			Timestamp: ts,
		}
	}
	p.logger.Info("Exchange rates fetched", "source", p.Name(), "count", len(out))
	return out, nil
}

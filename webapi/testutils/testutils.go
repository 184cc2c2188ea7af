// Package testutils builds fully wired HTTP apps for the webapi tests: an
// in-memory variant for fast tests and a Postgres variant backed by
// Testcontainers for the integration suite.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	infraeventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/memory"
	infraprovider "github.com/amirasaad/minibank/infra/provider"
	infrarepo "github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/migrations"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/exchange"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/webapi"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// StaticRates is the rate table used by every test app: RUB is the base.
var StaticRates = map[string]string{"RUB": "1", "USD": "90", "EUR": "98"}

// DefaultConfig returns a config suitable for tests: memory storage, static
// rates, 2% commission, auth off and a generous rate limit.
func DefaultConfig() *config.App {
	return &config.App{
		Env: "test",
		DB:  config.DB{Driver: "memory"},
		Exchange: config.ExchangeRate{
			Provider:    "static",
			Static:      StaticRates,
			CacheDriver: "none",
		},
		Fee:       config.Fee{CommissionRate: decimal.RequireFromString("0.02")},
		RateLimit: config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Auth:      config.Auth{Jwt: config.Jwt{Expiry: time.Hour, Issuer: "minibank-test"}},
		EventBus:  config.EventBus{Driver: "memory"},
	}
}

// TestApp bundles the fiber app with the pieces tests inspect.
type TestApp struct {
	App    *fiber.App
	Config *config.App
	Bus    *infraeventbus.MemoryEventBus
}

// NewTestApp wires the services over uow with static rates and a memory bus.
func NewTestApp(cfg *config.App, uow repository.UnitOfWork) (*TestApp, error) {
	rates, err := infraprovider.NewStaticProvider(cfg.Exchange.Static)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraeventbus.NewWithMemory(logger)
	deps := &config.Deps{
		Uow:       uow,
		Rates:     rates,
		Converter: exchange.NewConverter(rates),
		EventBus:  bus,
		Logger:    logger,
		Config:    cfg,
	}
	a := app.New(deps, cfg)
	return &TestApp{App: webapi.SetupApp(a), Config: cfg, Bus: bus}, nil
}

// NewMemoryApp is NewTestApp over a fresh in-memory store.
func NewMemoryApp(cfg *config.App) (*TestApp, error) {
	return NewTestApp(cfg, memory.NewUoW(memory.NewStore()))
}

// APISuite carries request helpers shared by the memory and Postgres suites.
type APISuite struct {
	suite.Suite
	TestApp *TestApp
	Token   string
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *APISuite) MakeRequest(method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	resp, err := s.TestApp.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads the response envelope and returns its data as a map.
func (s *APISuite) Decode(resp *http.Response) (common.Response, map[string]any) {
	defer resp.Body.Close() //nolint:errcheck
	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out.Data.(map[string]any)
	return out, data
}

// DecodeProblem reads an RFC 9457 problem body.
func (s *APISuite) DecodeProblem(resp *http.Response) common.ProblemDetails {
	defer resp.Body.Close() //nolint:errcheck
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// CreateTestUser creates a user with a random login via POST /users.
func (s *APISuite) CreateTestUser() uuid.UUID {
	suffix := uuid.New().String()[:8]
	body := fmt.Sprintf(`{"login":"user_%s","email":"user_%s@example.com"}`, suffix, suffix)
	resp := s.MakeRequest(http.MethodPost, "/users", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_, data := s.Decode(resp)
	return uuid.MustParse(data["id"].(string))
}

// OpenTestAccount opens an account for userID and sets its balance.
func (s *APISuite) OpenTestAccount(userID uuid.UUID, code, balance string) uuid.UUID {
	body := fmt.Sprintf(`{"user_id":"%s","currency":"%s"}`, userID, code)
	resp := s.MakeRequest(http.MethodPost, "/accounts", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_, data := s.Decode(resp)
	id := uuid.MustParse(data["id"].(string))
	if balance != "" {
		resp = s.MakeRequest(http.MethodPut, "/accounts/"+id.String()+"/balance", fmt.Sprintf(`{"balance":%s}`, balance))
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
	return id
}

// Balance returns the current balance of an account as a decimal.
func (s *APISuite) Balance(id uuid.UUID) decimal.Decimal {
	resp := s.MakeRequest(http.MethodGet, "/accounts/"+id.String(), "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data := s.Decode(resp)
	balance, err := decimal.NewFromString(fmt.Sprint(data["balance"]))
	s.Require().NoError(err)
	return balance
}

// E2ETestSuite provides a test suite with a real Postgres database using Testcontainers
type E2ETestSuite struct {
	APISuite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
}

// startPostgresContainer starts a Postgres container using Testcontainers
func (s *E2ETestSuite) startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

// SetupSuite initializes the test suite with a real Postgres database
func (s *E2ETestSuite) SetupSuite() {
	ctx := context.Background()

	pg, err := s.startPostgresContainer(ctx)
	s.Require().NoError(err)
	s.pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(migrations.Up(sqlDB, slog.Default()))

	cfg := DefaultConfig()
	cfg.DB = config.DB{Driver: "postgres", Url: dsn}
	s.TestApp, err = NewTestApp(cfg, infrarepo.NewUoW(s.db))
	s.Require().NoError(err)
}

// TearDownSuite cleans up the test suite resources
func (s *E2ETestSuite) TearDownSuite() {
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

package webapi_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/middleware"
	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WebAPITestSuite struct {
	testutils.APISuite
}

func (s *WebAPITestSuite) SetupTest() {
	var err error
	s.TestApp, err = testutils.NewMemoryApp(testutils.DefaultConfig())
	s.Require().NoError(err)
	s.Token = ""
}

func TestWebAPITestSuite(t *testing.T) {
	suite.Run(t, new(WebAPITestSuite))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (s *WebAPITestSuite) TestHealth() {
	resp := s.MakeRequest(http.MethodGet, "/", "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	s.Contains(string(body), "MiniBank")
}

func (s *WebAPITestSuite) TestUserLifecycle() {
	resp := s.MakeRequest(http.MethodPost, "/users", `{"login":"alice","email":"alice@example.com"}`)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_, data := s.Decode(resp)
	id := data["id"].(string)
	s.Equal("alice", data["login"])

	resp = s.MakeRequest(http.MethodGet, "/users/"+id, "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(http.MethodPut, "/users/"+id, `{"login":"alice2","email":"alice2@example.com"}`)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data = s.Decode(resp)
	s.Equal("alice2", data["login"])

	resp = s.MakeRequest(http.MethodGet, "/users", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	out, _ := s.Decode(resp)
	s.Len(out.Data, 1)

	resp = s.MakeRequest(http.MethodDelete, "/users/"+id, "")
	s.Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/users/"+id, "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *WebAPITestSuite) TestUserErrors() {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid email", http.MethodPost, "/users", `{"login":"bob","email":"not-an-email"}`, fiber.StatusBadRequest},
		{"missing login", http.MethodPost, "/users", `{"email":"bob@example.com"}`, fiber.StatusBadRequest},
		{"malformed body", http.MethodPost, "/users", `{"login":`, fiber.StatusBadRequest},
		{"bad id", http.MethodGet, "/users/not-a-uuid", "", fiber.StatusBadRequest},
		{"unknown id", http.MethodGet, "/users/" + uuid.NewString(), "", fiber.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/users/" + uuid.NewString(), "", fiber.StatusNotFound},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			resp := s.MakeRequest(tc.method, tc.path, tc.body)
			s.Equal(tc.status, resp.StatusCode)
			pd := s.DecodeProblem(resp)
			s.Equal(tc.status, pd.Status)
			s.NotEmpty(pd.Title)
		})
	}
}

func (s *WebAPITestSuite) TestDeleteUserWithAccounts() {
	userID := s.CreateTestUser()
	s.OpenTestAccount(userID, "USD", "")

	resp := s.MakeRequest(http.MethodDelete, "/users/"+userID.String(), "")
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *WebAPITestSuite) TestOpenAccount() {
	userID := s.CreateTestUser()

	s.Run("opens zero balance account", func() {
		resp := s.MakeRequest(http.MethodPost, "/accounts", fmt.Sprintf(`{"user_id":"%s","currency":"EUR"}`, userID))
		s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
		_, data := s.Decode(resp)
		s.Equal("EUR", data["currency"])
		s.Equal(true, data["open"])
		s.True(dec(fmt.Sprint(data["balance"])).IsZero())
	})

	s.Run("unsupported currency", func() {
		resp := s.MakeRequest(http.MethodPost, "/accounts", fmt.Sprintf(`{"user_id":"%s","currency":"GBP"}`, userID))
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	s.Run("unknown user", func() {
		resp := s.MakeRequest(http.MethodPost, "/accounts", fmt.Sprintf(`{"user_id":"%s","currency":"USD"}`, uuid.New()))
		s.Equal(fiber.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	s.Run("list by user", func() {
		resp := s.MakeRequest(http.MethodGet, "/accounts?user_id="+userID.String(), "")
		s.Require().Equal(fiber.StatusOK, resp.StatusCode)
		out, _ := s.Decode(resp)
		s.Len(out.Data, 1)
	})
}

func (s *WebAPITestSuite) TestUpdateBalanceRejectsNegative() {
	id := s.OpenTestAccount(s.CreateTestUser(), "USD", "")
	resp := s.MakeRequest(http.MethodPut, "/accounts/"+id.String()+"/balance", `{"balance":-5}`)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
	s.True(s.Balance(id).IsZero())
}

func (s *WebAPITestSuite) TestTransferSameCurrency() {
	src := s.OpenTestAccount(s.CreateTestUser(), "USD", "100")
	dst := s.OpenTestAccount(s.CreateTestUser(), "USD", "")

	body := fmt.Sprintf(`{"source_account_id":"%s","dest_account_id":"%s","amount":50}`, src, dst)
	resp := s.MakeRequest(http.MethodPost, "/transfers", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_, data := s.Decode(resp)
	s.True(dec("49").Equal(dec(fmt.Sprint(data["credited"]))))
	s.True(dec("1").Equal(dec(fmt.Sprint(data["commission"]))))

	s.True(dec("50").Equal(s.Balance(src)))
	s.True(dec("49").Equal(s.Balance(dst)))

	published := s.TestApp.Bus.Published()
	s.Require().Len(published, 1)
	s.Equal(events.TransferCompletedType, published[0].Type())
}

func (s *WebAPITestSuite) TestTransferConvertsCurrency() {
	src := s.OpenTestAccount(s.CreateTestUser(), "USD", "10")
	dst := s.OpenTestAccount(s.CreateTestUser(), "RUB", "")

	body := fmt.Sprintf(`{"source_account_id":"%s","dest_account_id":"%s","amount":"10"}`, src, dst)
	resp := s.MakeRequest(http.MethodPost, "/transfers", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_, data := s.Decode(resp)
	s.Equal("USD", data["source_currency"])
	s.Equal("RUB", data["dest_currency"])
	s.True(dec("900").Equal(dec(fmt.Sprint(data["converted"]))))
	s.True(dec("882").Equal(dec(fmt.Sprint(data["credited"]))))

	s.True(s.Balance(src).IsZero())
	s.True(dec("882").Equal(s.Balance(dst)))

	resp = s.MakeRequest(http.MethodGet, "/accounts/"+dst.String()+"/transactions", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	out, _ := s.Decode(resp)
	s.Len(out.Data, 1)

	resp = s.MakeRequest(http.MethodGet, "/transactions", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	out, _ = s.Decode(resp)
	s.Len(out.Data, 1)
}

func (s *WebAPITestSuite) TestTransferRejections() {
	owner := s.CreateTestUser()
	src := s.OpenTestAccount(owner, "USD", "10")
	dst := s.OpenTestAccount(s.CreateTestUser(), "USD", "")
	closed := s.OpenTestAccount(s.CreateTestUser(), "USD", "")
	resp := s.MakeRequest(http.MethodPost, "/accounts/"+closed.String()+"/close", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	tests := []struct {
		name   string
		src    string
		dst    string
		amount string
		status int
	}{
		{"same account", src.String(), src.String(), "1", fiber.StatusBadRequest},
		{"zero amount", src.String(), dst.String(), "0", fiber.StatusBadRequest},
		{"negative amount", src.String(), dst.String(), "-1", fiber.StatusBadRequest},
		{"too many decimals", src.String(), dst.String(), "1.005", fiber.StatusBadRequest},
		{"insufficient funds", src.String(), dst.String(), "10.01", fiber.StatusUnprocessableEntity},
		{"unknown destination", src.String(), uuid.NewString(), "1", fiber.StatusNotFound},
		{"closed destination", src.String(), closed.String(), "1", fiber.StatusUnprocessableEntity},
		{"invalid id", "nope", dst.String(), "1", fiber.StatusBadRequest},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			body := fmt.Sprintf(`{"source_account_id":"%s","dest_account_id":"%s","amount":%s}`, tc.src, tc.dst, tc.amount)
			resp := s.MakeRequest(http.MethodPost, "/transfers", body)
			s.Equal(tc.status, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}
	s.True(dec("10").Equal(s.Balance(src)))
	s.True(s.Balance(dst).IsZero())
	s.Empty(s.TestApp.Bus.Published())
}

func (s *WebAPITestSuite) TestCommissionPreview() {
	src := s.OpenTestAccount(s.CreateTestUser(), "USD", "")
	dst := s.OpenTestAccount(s.CreateTestUser(), "USD", "")

	resp := s.MakeRequest(http.MethodGet,
		fmt.Sprintf("/transfers/commission?amount=250&from=%s&to=%s", src, dst), "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data := s.Decode(resp)
	s.True(dec("5").Equal(dec(fmt.Sprint(data["commission"]))))

	resp = s.MakeRequest(http.MethodGet,
		fmt.Sprintf("/transfers/commission?amount=abc&from=%s&to=%s", src, dst), "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *WebAPITestSuite) TestCloseAccount() {
	id := s.OpenTestAccount(s.CreateTestUser(), "EUR", "3")

	resp := s.MakeRequest(http.MethodPost, "/accounts/"+id.String()+"/close", "")
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(http.MethodPut, "/accounts/"+id.String()+"/balance", `{"balance":0}`)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(http.MethodPost, "/accounts/"+id.String()+"/close", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data := s.Decode(resp)
	s.Equal(false, data["open"])
	s.NotNil(data["closed_at"])

	resp = s.MakeRequest(http.MethodPut, "/accounts/"+id.String()+"/balance", `{"balance":1}`)
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	_ = resp.Body.Close()
}

func (s *WebAPITestSuite) TestCurrencies() {
	resp := s.MakeRequest(http.MethodGet, "/currencies", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	out, _ := s.Decode(resp)
	s.Len(out.Data, 3)

	resp = s.MakeRequest(http.MethodGet, "/currencies/usd/rate", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data := s.Decode(resp)
	s.True(dec("90").Equal(dec(fmt.Sprint(data["value"]))))

	resp = s.MakeRequest(http.MethodGet, "/currencies/GBP/rate", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(http.MethodGet, "/currencies/convert?amount=100&from=USD&to=RUB", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	_, data = s.Decode(resp)
	s.True(dec("9000").Equal(dec(fmt.Sprint(data["converted"]))))

	resp = s.MakeRequest(http.MethodGet, "/currencies/rates", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	out, _ = s.Decode(resp)
	s.Len(out.Data, 3)
}

func TestRateLimit(t *testing.T) {
	cfg := testutils.DefaultConfig()
	cfg.RateLimit.MaxRequests = 2
	cfg.RateLimit.Window = time.Minute
	ta, err := testutils.NewMemoryApp(cfg)
	require.NoError(t, err)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp, err := ta.App.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("1.1.1.1"))
	assert.Equal(t, fiber.StatusOK, send("1.1.1.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("1.1.1.1"))
	assert.Equal(t, fiber.StatusOK, send("2.2.2.2"))
}

func TestAuthEnabled(t *testing.T) {
	cfg := testutils.DefaultConfig()
	cfg.Auth.Jwt.Secret = "test-secret"
	ta, err := testutils.NewMemoryApp(cfg)
	require.NoError(t, err)

	get := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := ta.App.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusBadRequest, get(""))
	assert.Equal(t, fiber.StatusUnauthorized, get("Bearer not.a.token"))

	token, err := middleware.IssueToken(cfg.Auth.Jwt, "tester", time.Now())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, get("Bearer "+token))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := ta.App.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "health stays public")
}

//go:build integration

package webapi_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type PostgresE2ETestSuite struct {
	testutils.E2ETestSuite
}

func TestPostgresE2ETestSuite(t *testing.T) {
	suite.Run(t, new(PostgresE2ETestSuite))
}

func (s *PostgresE2ETestSuite) TestTransferRoundTrip() {
	src := s.OpenTestAccount(s.CreateTestUser(), "USD", "10")
	dst := s.OpenTestAccount(s.CreateTestUser(), "RUB", "")

	body := fmt.Sprintf(`{"source_account_id":"%s","dest_account_id":"%s","amount":10}`, src, dst)
	resp := s.MakeRequest(http.MethodPost, "/transfers", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	s.True(s.Balance(src).IsZero())
	s.Equal("882.00", s.Balance(dst).StringFixed(2))
}

func (s *PostgresE2ETestSuite) TestConcurrentOpposingTransfers() {
	a := s.OpenTestAccount(s.CreateTestUser(), "USD", "1000")
	b := s.OpenTestAccount(s.CreateTestUser(), "USD", "1000")

	var wg sync.WaitGroup
	transfer := func(from, to string) {
		defer wg.Done()
		body := fmt.Sprintf(`{"source_account_id":"%s","dest_account_id":"%s","amount":5}`, from, to)
		resp := s.MakeRequest(http.MethodPost, "/transfers", body)
		_ = resp.Body.Close()
	}
	for range 20 {
		wg.Add(2)
		go transfer(a.String(), b.String())
		go transfer(b.String(), a.String())
	}
	wg.Wait()

	// Each side sent 100 and received 20 * 4.90.
	s.Equal("998.00", s.Balance(a).StringFixed(2))
	s.Equal("998.00", s.Balance(b).StringFixed(2))
}

func (s *PostgresE2ETestSuite) TestDeleteUserWithAccounts() {
	userID := s.CreateTestUser()
	s.OpenTestAccount(userID, "EUR", "")

	resp := s.MakeRequest(http.MethodDelete, "/users/"+userID.String(), "")
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	_ = resp.Body.Close()
}

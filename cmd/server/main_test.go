package main_test

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

type MainTestSuite struct {
	testutils.APISuite
}

func (s *MainTestSuite) SetupTest() {
	cfg := testutils.DefaultConfig()
	cfg.Auth.Jwt.Secret = "main-test-secret"
	var err error
	s.TestApp, err = testutils.NewMemoryApp(cfg)
	s.Require().NoError(err)
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (s *MainTestSuite) TestRootRoute() {
	resp := s.MakeRequest(http.MethodGet, "/", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestProtectedRoute_MissingToken() {
	resp := s.MakeRequest(http.MethodGet, "/accounts", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *MainTestSuite) TestNotFoundRoute() {
	resp := s.MakeRequest(http.MethodGet, "/doesnotexist", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *MainTestSuite) TestSwaggerDoc() {
	resp := s.MakeRequest(http.MethodGet, "/swagger/doc.json", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "MiniBank API")
}

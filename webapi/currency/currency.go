package currency

import (
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/middleware"
	currencysvc "github.com/amirasaad/minibank/pkg/service/currency"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers currency and exchange-rate endpoints.
func Routes(app *fiber.App, currencySvc *currencysvc.Service, cfg *config.App) {
	protected := middleware.Protected(cfg.Auth)
	app.Get("/currencies", protected, ListCurrencies(currencySvc))
	app.Get("/currencies/rates", protected, ListRates(currencySvc))
	app.Get("/currencies/convert", protected, Convert(currencySvc))
	app.Get("/currencies/:code/rate", protected, GetRate(currencySvc))
}

// ListCurrencies lists the supported currencies.
// @Summary List supported currencies
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response
// @Router /currencies [get]
func ListCurrencies(currencySvc *currencysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched", currencySvc.ListCurrencies())
	}
}

// ListRates returns the current rate of every supported currency.
// @Summary List exchange rates
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response
// @Failure 503 {object} common.ProblemDetails
// @Router /currencies/rates [get]
func ListRates(currencySvc *currencysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rates, err := currencySvc.ListRates(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Exchange rates unavailable", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rates fetched", rates)
	}
}

// GetRate returns the current rate of one currency.
// @Summary Get exchange rate
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 503 {object} common.ProblemDetails
// @Router /currencies/{code}/rate [get]
func GetRate(currencySvc *currencysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := currency.Parse(c.Params("code"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		rate, err := currencySvc.GetRate(c.UserContext(), code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Exchange rate unavailable", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rate fetched", rate)
	}
}

// Convert converts an amount between two currencies.
// @Summary Convert amount
// @Tags currencies
// @Produce json
// @Param amount query string true "Amount"
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 503 {object} common.ProblemDetails
// @Router /currencies/convert [get]
func Convert(currencySvc *currencysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := common.ParseDecimalQuery(c, "amount")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		from, err := currency.Parse(c.Query("from"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		to, err := currency.Parse(c.Query("to"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		conv, err := currencySvc.Convert(c.UserContext(), amount, from, to)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Conversion failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Converted", conv)
	}
}

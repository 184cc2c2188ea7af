package account

import (
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/middleware"
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers HTTP routes for accounts, transfers and the transaction log.
//
// Routes:
//   - POST   /accounts                     : Open an account for a user.
//   - GET    /accounts                     : List accounts, optionally filtered by user_id.
//   - GET    /accounts/:id                 : Retrieve one account.
//   - PUT    /accounts/:id/balance         : Overwrite the balance of an open account.
//   - POST   /accounts/:id/close           : Close an account with zero balance.
//   - GET    /accounts/:id/transactions    : List transactions touching the account.
//   - POST   /transfers                    : Move money between two accounts.
//   - GET    /transfers/commission         : Preview the commission of a transfer.
//   - GET    /transactions                 : List the whole transaction log.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	protected := middleware.Protected(cfg.Auth)
	app.Post("/accounts", protected, CreateAccount(accountSvc))
	app.Get("/accounts", protected, ListAccounts(accountSvc))
	app.Get("/accounts/:id", protected, GetAccount(accountSvc))
	app.Put("/accounts/:id/balance", protected, UpdateBalance(accountSvc))
	app.Post("/accounts/:id/close", protected, CloseAccount(accountSvc))
	app.Get("/accounts/:id/transactions", protected, GetTransactions(accountSvc))
	app.Post("/transfers", protected, Transfer(accountSvc))
	app.Get("/transfers/commission", protected, Commission(accountSvc))
	app.Get("/transactions", protected, ListTransactions(accountSvc))
}

// CreateAccount opens a zero-balance account.
// @Summary Open a new account
// @Description Opens an account in one of the supported currencies for an existing user.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created successfully"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "User not found"
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		userID, err := uuid.Parse(input.UserID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusBadRequest)
		}
		code, err := currency.Parse(input.Currency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		a, err := accountSvc.OpenAccount(c.UserContext(), userID, code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// ListAccounts lists accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param user_id query string false "Owner filter"
// @Success 200 {object} common.Response
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("user_id") == "" {
			accounts, err := accountSvc.ListAccounts(c.UserContext())
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accounts)
		}
		userID, err := common.ParseUUIDQuery(c, "user_id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		accounts, err := accountSvc.ListUserAccounts(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accounts)
	}
}

// GetAccount returns one account.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := accountSvc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", a)
	}
}

// UpdateBalance overwrites an account balance.
// @Summary Set account balance
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateBalanceRequest true "New balance"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails "Account closed"
// @Router /accounts/{id}/balance [put]
// @Security Bearer
func UpdateBalance(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[UpdateBalanceRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.UpdateBalance(c.UserContext(), id, input.Balance)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance updated", a)
	}
}

// CloseAccount closes an account.
// @Summary Close account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 422 {object} common.ProblemDetails "Balance is not zero or account already closed"
// @Router /accounts/{id}/close [post]
// @Security Bearer
func CloseAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		a, err := accountSvc.CloseAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to close account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account closed", a)
	}
}

// GetTransactions lists transactions for an account.
// @Summary List account transactions
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id}/transactions [get]
// @Security Bearer
func GetTransactions(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		txs, err := accountSvc.ListAccountTransactions(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", txs)
	}
}

package account

import (
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Transfer moves money between two accounts.
// @Summary Transfer funds
// @Description Debits the source in its own currency, converts into the destination currency and credits the remainder after commission.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 201 {object} common.Response "Transfer successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds or closed account"
// @Failure 503 {object} common.ProblemDetails "Exchange rate unavailable"
// @Router /transfers [post]
// @Security Bearer
func Transfer(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		sourceID, err := uuid.Parse(input.SourceAccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid source account ID", err, fiber.StatusBadRequest)
		}
		destID, err := uuid.Parse(input.DestAccountID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid destination account ID", err, fiber.StatusBadRequest)
		}
		receipt, err := accountSvc.TransferWithReceipt(c.UserContext(), input.Amount, sourceID, destID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer successful", toTransferResponse(receipt))
	}
}

// Commission previews the commission charged on a transfer.
// @Summary Preview commission
// @Tags transfers
// @Produce json
// @Param amount query string true "Amount"
// @Param from query string true "Source account ID"
// @Param to query string true "Destination account ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transfers/commission [get]
// @Security Bearer
func Commission(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := common.ParseDecimalQuery(c, "amount")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		from, err := common.ParseUUIDQuery(c, "from")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid source account ID", err)
		}
		to, err := common.ParseUUIDQuery(c, "to")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid destination account ID", err)
		}
		commission, err := accountSvc.CalculateCommission(c.UserContext(), amount, from, to)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to calculate commission", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Commission calculated", CommissionResponse{
			Amount:     amount,
			Commission: commission,
		})
	}
}

// ListTransactions returns the whole transaction log.
// @Summary List transactions
// @Tags transfers
// @Produce json
// @Success 200 {object} common.Response
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := accountSvc.ListTransactions(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", txs)
	}
}

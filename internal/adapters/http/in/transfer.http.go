package in

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/command"
	"github.com/fernbank/core/internal/services/query"
)

// TransferInput is the request body for /transfers/send: an in-network
// transfer between two accounts addressed by id (spec.md §4.1, §6).
//
// swagger:model TransferInput
// @Description TransferInput is the request body for an in-network transfer.
type TransferInput struct {
	SourceAccountID      string          `json:"sourceAccountId" validate:"required,uuid"`
	DestinationAccountID string          `json:"destinationAccountId" validate:"required,uuid"`
	Amount               decimal.Decimal `json:"amount" validate:"required"`
	Description          string          `json:"description" validate:"max=256"`
}

// TransferHandler answers /transfers/send: an in-network transfer gated by
// customer ownership of the source account (spec.md §6).
type TransferHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// Send moves funds between two accounts the caller is authorized to debit
// from (spec.md §4.1 InternalTransfer, ownership gate of spec.md §4.2).
//
//	@Summary		Send an in-network transfer
//	@Tags			Transfers
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string			true	"Bearer session token"
//	@Param			transfer		body		TransferInput	true	"Transfer"
//	@Success		201				{object}	mmodel.Transaction
//	@Router			/transfers/send [post]
func (handler *TransferHandler) Send(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.transfer_send")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*TransferInput)

	sourceID, err := uuid.Parse(payload.SourceAccountID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	destID, err := uuid.Parse(payload.DestinationAccountID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	source, err := handler.Query.AccountRepo.Find(ctx, sourceID)
	if err != nil {
		return http.WithError(c, err)
	}

	if !authz.OwnsCustomer(source.CustomerID) {
		return http.Forbidden(c, "NOT_OWNER", "Not Owner", "you do not own the resource you are trying to access")
	}

	debitTxn, _, err := handler.Command.InternalTransfer(ctx, sourceID, destID, payload.Amount, payload.Description, authz.UserID)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, debitTxn)
}

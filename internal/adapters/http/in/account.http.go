package in

import (
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/query"
)

// AccountHandler answers read-only access to Ledger accounts: accounts are
// opened only on customer approval or by an admin (spec.md §4.7), never
// created directly over HTTP.
type AccountHandler struct {
	Query *query.UseCase
}

// GetAccount fetches a single account the caller owns or has ACCOUNT_READ for.
//
//	@Summary		Get an account
//	@Tags			Accounts
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"Account ID"
//	@Success		200				{object}	mmodel.Account
//	@Router			/accounts/{id} [get]
func (handler *AccountHandler) GetAccount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_account")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	id := c.Locals("id").(uuid.UUID)

	account, err := handler.Query.GetAccountByID(ctx, authz, id)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, account)
}

// ListOwnAccounts lists every account opened under the caller's own customer.
//
//	@Summary		List own accounts
//	@Tags			Accounts
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Success		200				{object}	[]mmodel.Account
//	@Router			/accounts [get]
func (handler *AccountHandler) ListOwnAccounts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.list_own_accounts")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	if authz.CustomerID == nil {
		return http.Forbidden(c, "NOT_OWNER", "Not Owner", "caller has no linked customer")
	}

	customerID, err := uuid.Parse(*authz.CustomerID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	accounts, err := handler.Query.GetAccountsByCustomer(ctx, authz, customerID)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, accounts)
}

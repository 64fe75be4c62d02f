package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetAccountByID fetches an Account by id, enforcing that the caller either
// owns it or holds a staff permission to read any account (spec.md §4.2).
func (uc *UseCase) GetAccountByID(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID) (*mmodel.Account, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_account_by_id")
	defer span.End()

	logger.Infof("Retrieving account for id: %s", id)

	account, err := uc.AccountRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get account on repo", err)
		return nil, err
	}

	if !authz.CanAccessAccount(account.CustomerID, mmodel.PermissionAccountRead) {
		mopentelemetry.HandleSpanError(&span, "Not owner of account", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, accountTypeName)
	}

	return account, nil
}

// GetAccountsByCustomer lists every Account belonging to a customer
// (spec.md §4.2).
func (uc *UseCase) GetAccountsByCustomer(ctx context.Context, authz mmodel.AuthzContext, customerID uuid.UUID) ([]*mmodel.Account, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_accounts_by_customer")
	defer span.End()

	logger.Infof("Retrieving accounts for customer: %s", customerID)

	if !authz.CanAccessAccount(customerID.String(), mmodel.PermissionAccountRead) {
		mopentelemetry.HandleSpanError(&span, "Not owner of customer", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, accountTypeName)
	}

	accounts, err := uc.AccountRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get accounts on repo", err)
		return nil, err
	}

	return accounts, nil
}

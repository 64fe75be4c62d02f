package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetTransactionByID fetches a single Transaction journal row by id.
func (uc *UseCase) GetTransactionByID(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_transaction_by_id")
	defer span.End()

	txn, err := uc.TransactionRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transaction on repo", err)
		return nil, err
	}

	return txn, nil
}

// GetTransactionByReference fetches a Transaction by its transactionReference.
func (uc *UseCase) GetTransactionByReference(ctx context.Context, reference string) (*mmodel.Transaction, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_transaction_by_reference")
	defer span.End()

	txn, err := uc.TransactionRepo.FindByReference(ctx, reference)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transaction on repo", err)
		return nil, err
	}

	return txn, nil
}

// GetTransactionsByAccount lists an account's append-only journal, paginated,
// enforcing the caller owns the account or holds staff read access
// (spec.md §4.1, §4.2).
func (uc *UseCase) GetTransactionsByAccount(ctx context.Context, authz mmodel.AuthzContext, accountID uuid.UUID, page, limit int) ([]*mmodel.Transaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_transactions_by_account")
	defer span.End()

	logger.Infof("Retrieving transactions for account: %s", accountID)

	account, err := uc.AccountRepo.Find(ctx, accountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Account not found", err)
		return nil, err
	}

	if !authz.CanAccessAccount(account.CustomerID, mmodel.PermissionTransactionRead) {
		mopentelemetry.HandleSpanError(&span, "Not owner of account", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, transactionTypeName)
	}

	txns, err := uc.TransactionRepo.FindByAccountID(ctx, accountID, page, limit)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transactions on repo", err)
		return nil, err
	}

	return txns, nil
}

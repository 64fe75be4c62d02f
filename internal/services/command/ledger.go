package command

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// accountTypeName / transactionTypeName are used for ValidateBusinessError's
// entityType argument throughout the Ledger, matching the teacher's
// reflect.TypeOf(...).Name() idiom.
var (
	accountTypeName     = reflect.TypeOf(mmodel.Account{}).Name()
	transactionTypeName = reflect.TypeOf(mmodel.Transaction{}).Name()
)

// entryParams carries the fields that vary across the Ledger's four entry
// shapes (debit, hold-debit, credit, transfer leg) so postEntry can stay one
// function instead of four near-duplicates.
type entryParams struct {
	accountID            uuid.UUID
	amount               decimal.Decimal
	txnType              mmodel.TransactionType
	category             string
	description          string
	initiatedBy          string
	externalReference    *string
	destinationAccountID *string
	holdOnly             bool
	isDebit              bool
	bulkUploadBatchID    *string
}

// postEntry is the Ledger's single serializable write path: it loads the
// account FOR UPDATE, applies the balance delta, and appends one Transaction
// row (spec.md §4.1). Debit/Credit/InternalTransfer are all thin callers of
// this with isDebit/holdOnly set appropriately.
func (uc *UseCase) postEntry(ctx context.Context, p entryParams) (*mmodel.Transaction, error) {
	account, err := uc.AccountRepo.FindForUpdate(ctx, p.accountID)
	if err != nil {
		return nil, err
	}

	if account.Status != mmodel.AccountActive {
		return nil, common.ValidateBusinessError(common.ErrAccountNotActive, accountTypeName)
	}

	if p.isDebit {
		if !account.HasSufficientFunds(p.amount) {
			return nil, common.ValidateBusinessError(common.ErrInsufficientFunds, accountTypeName)
		}

		if account.BreachesMinimumBalance(p.amount) {
			return nil, common.ValidateBusinessError(common.ErrMinBalanceBreach, accountTypeName)
		}
	}

	balanceBefore := account.Balance
	status := mmodel.TransactionCompleted

	switch {
	case p.isDebit && p.holdOnly:
		account.AvailableBalance = account.AvailableBalance.Sub(p.amount)
		status = mmodel.TransactionProcessing
	case p.isDebit:
		account.Balance = account.Balance.Sub(p.amount)
		account.AvailableBalance = account.AvailableBalance.Sub(p.amount)
	default:
		account.Balance = account.Balance.Add(p.amount)
		account.AvailableBalance = account.AvailableBalance.Add(p.amount)
	}

	now := uc.Clock.Now()
	account.LastTransactionDate = &now

	if err := uc.AccountRepo.UpdateBalances(ctx, account); err != nil {
		return nil, common.ValidateInternalError(err, accountTypeName)
	}

	txn := &mmodel.Transaction{
		ID:                   uuid.New().String(),
		TransactionReference: uc.RefGen.TransactionReference(),
		ExternalReference:    p.externalReference,
		AccountID:            account.ID,
		DestinationAccountID: p.destinationAccountID,
		Type:                 p.txnType,
		Amount:               p.amount,
		Currency:             account.Currency,
		BalanceBefore:        balanceBefore,
		BalanceAfter:         account.Balance,
		Status:               status,
		InitiatedBy:          p.initiatedBy,
		Category:             p.category,
		Description:          p.description,
		BulkUploadBatchID:    p.bulkUploadBatchID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := uc.TransactionRepo.Create(ctx, txn)
	if err != nil {
		return nil, common.ValidateInternalError(err, transactionTypeName)
	}

	return created, nil
}

// Debit loads account FOR UPDATE inside the caller's unit of work and posts a
// DEBIT journal row (spec.md §4.1). When holdOnly is true only
// availableBalance is reduced and the row is left PROCESSING — this is how
// NEFT/RTGS take a hold before the external leg runs.
func (uc *UseCase) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, category, description, initiatedBy string, holdOnly bool) (*mmodel.Transaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.ledger_debit")
	defer span.End()

	logger.Infof("Trying to debit account %s amount %s", accountID, amount)

	txn, err := uc.postEntry(ctx, entryParams{
		accountID:   accountID,
		amount:      amount,
		txnType:     mmodel.TransactionDebit,
		category:    category,
		description: description,
		initiatedBy: initiatedBy,
		holdOnly:    holdOnly,
		isDebit:     true,
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to debit account", err)
		return nil, err
	}

	return txn, nil
}

// Credit is the symmetrical counterpart of Debit. It fails only on
// ACCOUNT_NOT_ACTIVE (spec.md §4.1).
func (uc *UseCase) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, category, description, initiatedBy string) (*mmodel.Transaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.ledger_credit")
	defer span.End()

	logger.Infof("Trying to credit account %s amount %s", accountID, amount)

	txn, err := uc.postEntry(ctx, entryParams{
		accountID:   accountID,
		amount:      amount,
		txnType:     mmodel.TransactionCredit,
		category:    category,
		description: description,
		initiatedBy: initiatedBy,
		isDebit:     false,
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to credit account", err)
		return nil, err
	}

	return txn, nil
}

// postBatchEntry posts a DEBIT or CREDIT stamped with bulkUploadBatchId, the
// row-level primitive bulk upload builds its per-row Ledger calls on
// (spec.md §4.8).
func (uc *UseCase) postBatchEntry(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, txnType mmodel.TransactionType, category, description, initiatedBy, batchID string) (*mmodel.Transaction, error) {
	return uc.postEntry(ctx, entryParams{
		accountID:         accountID,
		amount:            amount,
		txnType:           txnType,
		category:          category,
		description:       description,
		initiatedBy:       initiatedBy,
		isDebit:           txnType == mmodel.TransactionDebit,
		bulkUploadBatchID: &batchID,
	})
}

// InternalTransfer pairs a debit and a credit under one externalReference
// (I2), taking account-row locks in ascending id order to avoid deadlocks
// (spec.md §4.1, §5).
func (uc *UseCase) InternalTransfer(ctx context.Context, sourceID, destID uuid.UUID, amount decimal.Decimal, description, initiatedBy string) (debitTxn, creditTxn *mmodel.Transaction, err error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.ledger_internal_transfer")
	defer span.End()

	if sourceID == destID {
		mopentelemetry.HandleSpanError(&span, "Same account transfer", common.ErrSameAccountTransfer)
		return nil, nil, common.ValidateBusinessError(common.ErrSameAccountTransfer, accountTypeName)
	}

	logger.Infof("Trying to transfer %s from %s to %s", amount, sourceID, destID)

	externalRef := uuid.New().String()
	destIDStr := destID.String()
	sourceIDStr := sourceID.String()

	// Lock account rows in ascending id order regardless of transfer
	// direction (spec.md §5): whichever id sorts first is locked first.
	sourceSortsFirst := sourceIDStr < destIDStr

	if sourceSortsFirst {
		debitTxn, err = uc.postEntry(ctx, entryParams{
			accountID:            sourceID,
			amount:               amount,
			txnType:              mmodel.TransactionTransfer,
			category:             "TRANSFER",
			description:          description,
			initiatedBy:          initiatedBy,
			externalReference:    &externalRef,
			destinationAccountID: &destIDStr,
			isDebit:              true,
		})
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed debit leg of internal transfer", err)
			return nil, nil, err
		}

		creditTxn, err = uc.postEntry(ctx, entryParams{
			accountID:          destID,
			amount:             amount,
			txnType:            mmodel.TransactionTransfer,
			category:           "TRANSFER",
			description:        description,
			initiatedBy:        initiatedBy,
			externalReference:  &externalRef,
			isDebit:            false,
		})
		if err != nil {
			mopentelemetry.HandleSpanError(&span, "Failed credit leg of internal transfer", err)
			return nil, nil, err
		}

		return debitTxn, creditTxn, nil
	}

	// dest sorts first: lock it (via FindForUpdate inside the credit leg)
	// before the source leg, preserving ascending-id lock order.
	creditTxn, err = uc.postEntry(ctx, entryParams{
		accountID:          destID,
		amount:             amount,
		txnType:            mmodel.TransactionTransfer,
		category:           "TRANSFER",
		description:        description,
		initiatedBy:        initiatedBy,
		externalReference:  &externalRef,
		isDebit:            false,
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed credit leg of internal transfer", err)
		return nil, nil, err
	}

	debitTxn, err = uc.postEntry(ctx, entryParams{
		accountID:            sourceID,
		amount:               amount,
		txnType:              mmodel.TransactionTransfer,
		category:             "TRANSFER",
		description:          description,
		initiatedBy:          initiatedBy,
		externalReference:    &externalRef,
		destinationAccountID: &destIDStr,
		isDebit:              true,
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed debit leg of internal transfer", err)
		return nil, nil, err
	}

	return debitTxn, creditTxn, nil
}

// PostRefund credits the source of originalDebit for its amount, category
// REFUND, citing the original reference (spec.md §4.1). Called after a
// failed SettleHold to restore the pre-hold balance and satisfy I6's
// "REFUND Transaction of equal totalAmount" requirement.
func (uc *UseCase) PostRefund(ctx context.Context, originalDebit *mmodel.Transaction) (*mmodel.Transaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.ledger_post_refund")
	defer span.End()

	logger.Infof("Trying to refund transaction %s", originalDebit.TransactionReference)

	accountID, err := uuid.Parse(originalDebit.AccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid account id on original debit", err)
		return nil, common.ValidateInternalError(err, accountTypeName)
	}

	description := "Refund of " + originalDebit.TransactionReference
	ref := originalDebit.TransactionReference

	txn, err := uc.postEntry(ctx, entryParams{
		accountID:         accountID,
		amount:            originalDebit.Amount,
		txnType:           mmodel.TransactionRefund,
		category:          "REFUND",
		description:       description,
		initiatedBy:       "SYSTEM",
		externalReference: &ref,
		isDebit:           false,
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to post refund", err)
		return nil, err
	}

	return txn, nil
}

// HoldOutcome is the disposition passed to SettleHold.
type HoldOutcome struct {
	Commit        bool
	FailureReason string
}

// SettleHold resolves a PROCESSING Transaction created by a holdOnly Debit
// (spec.md §4.1, §4.3 step 6, §4.4, I6): on commit it posts the hold's
// balance reduction and flips the row to COMPLETED. On failure it also
// commits the hold into balance (availableBalance already reflects it) and
// flips the row to FAILED with a reason — the caller always follows a
// failed SettleHold with PostRefund(processingTxn) to post the compensating
// REFUND that I6/P4 require and restore both balances to their pre-hold
// value. This folds "settleHold(fail) then postRefund" from §4.3/§4.4 into
// two real, non-zero-delta journal rows instead of a single silent
// availableBalance reversal, so the FAILED leg always carries an auditable
// REFUND Transaction of equal totalAmount.
func (uc *UseCase) SettleHold(ctx context.Context, processingTxn *mmodel.Transaction, outcome HoldOutcome) (*mmodel.Transaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.ledger_settle_hold")
	defer span.End()

	if processingTxn.Status != mmodel.TransactionProcessing {
		mopentelemetry.HandleSpanError(&span, "Transaction not in PROCESSING", common.ErrInvalidEFTState)
		return nil, common.ValidateBusinessError(common.ErrInvalidEFTState, transactionTypeName)
	}

	accountID, err := uuid.Parse(processingTxn.AccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid account id on processing transaction", err)
		return nil, common.ValidateInternalError(err, accountTypeName)
	}

	account, err := uc.AccountRepo.FindForUpdate(ctx, accountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find account for update", err)
		return nil, err
	}

	now := uc.Clock.Now()

	var (
		newStatus     mmodel.TransactionStatus
		failureReason *string
	)

	if outcome.Commit {
		logger.Infof("Committing hold for transaction %s", processingTxn.TransactionReference)

		account.Balance = account.Balance.Sub(processingTxn.Amount)
		newStatus = mmodel.TransactionCompleted
	} else {
		logger.Infof("Failing hold for transaction %s: %s", processingTxn.TransactionReference, outcome.FailureReason)

		account.Balance = account.Balance.Sub(processingTxn.Amount)
		newStatus = mmodel.TransactionFailed
		reason := outcome.FailureReason
		failureReason = &reason
	}

	account.LastTransactionDate = &now

	if err := uc.AccountRepo.UpdateBalances(ctx, account); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update account balances settling hold", err)
		return nil, common.ValidateInternalError(err, accountTypeName)
	}

	updated, err := uc.TransactionRepo.UpdateStatus(ctx, uuid.MustParse(processingTxn.ID), newStatus, failureReason)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update transaction status settling hold", err)
		return nil, common.ValidateInternalError(err, transactionTypeName)
	}

	return updated, nil
}

// withinHourWindow reports whether t falls within [firstHour, lastHour]
// local, inclusive, for NEFT (spec.md §4.3).
func withinHourWindow(t time.Time, firstHour, lastHour int) bool {
	h := t.Hour()
	return h >= firstHour && h <= lastHour
}

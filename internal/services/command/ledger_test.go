package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
)

func newLedgerUseCase(accounts ...*mmodel.Account) (*UseCase, *fakeAccountRepo, *fakeTransactionRepo) {
	accountRepo := newFakeAccountRepo(accounts...)
	txnRepo := newFakeTransactionRepo()

	uc := &UseCase{
		AccountRepo:     accountRepo,
		TransactionRepo: txnRepo,
		UnitOfWork:      fakeUnitOfWork{},
		Clock:           fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
		RefGen:          fakeRefGen{},
	}

	return uc, accountRepo, txnRepo
}

func activeAccount(balance decimal.Decimal) *mmodel.Account {
	return &mmodel.Account{
		ID:               uuid.NewString(),
		CustomerID:       uuid.NewString(),
		AccountNumber:    "1000100010",
		AccountType:      "SAVINGS",
		Balance:          balance,
		AvailableBalance: balance,
		MinimumBalance:   decimal.Zero,
		Currency:         "INR",
		Status:           mmodel.AccountActive,
	}
}

// TestDebitSuccess is responsible to test Debit with success
func TestDebitSuccess(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, accountRepo, _ := newLedgerUseCase(a)

	txn, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(400), "TRANSFER", "test debit", "user-1", false)

	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionDebit, txn.Type)
	assert.Equal(t, mmodel.TransactionCompleted, txn.Status)
	assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(600)))

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(a.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(600)))
}

// TestDebitInsufficientFunds is responsible to test Debit with error when the
// available balance is below the requested amount (I3)
func TestDebitInsufficientFunds(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(100))
	uc, _, _ := newLedgerUseCase(a)

	_, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(400), "TRANSFER", "test debit", "user-1", false)

	assert.Error(t, err)

	var unproc common.UnprocessableOperationError
	assert.ErrorAs(t, err, &unproc)
	assert.Equal(t, common.ErrInsufficientFunds.Error(), unproc.Code)
}

// TestDebitBreachesMinimumBalance is responsible to test Debit with error
// when it would drive the balance below minimumBalance (I4)
func TestDebitBreachesMinimumBalance(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	a.MinimumBalance = decimal.NewFromInt(800)
	uc, _, _ := newLedgerUseCase(a)

	_, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(400), "TRANSFER", "test debit", "user-1", false)

	assert.Error(t, err)

	var unproc common.UnprocessableOperationError
	assert.ErrorAs(t, err, &unproc)
	assert.Equal(t, common.ErrMinBalanceBreach.Error(), unproc.Code)
}

// TestDebitAccountNotActive is responsible to test Debit with error when the
// account is not ACTIVE
func TestDebitAccountNotActive(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	a.Status = mmodel.AccountBlocked
	uc, _, _ := newLedgerUseCase(a)

	_, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(100), "TRANSFER", "test debit", "user-1", false)

	assert.Error(t, err)

	var unproc common.UnprocessableOperationError
	assert.ErrorAs(t, err, &unproc)
	assert.Equal(t, common.ErrAccountNotActive.Error(), unproc.Code)
}

// TestDebitHoldOnlyReducesAvailableBalanceOnly is responsible to test that a
// holdOnly Debit leaves Balance untouched and the Transaction PROCESSING
// (the NEFT/RTGS hold step, spec.md §4.3/§4.4)
func TestDebitHoldOnlyReducesAvailableBalanceOnly(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, accountRepo, _ := newLedgerUseCase(a)

	txn, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(300), "EFT_NEFT", "hold", "user-1", true)

	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionProcessing, txn.Status)

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(a.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(700)))
}

// TestCreditSuccess is responsible to test Credit with success
func TestCreditSuccess(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, _, _ := newLedgerUseCase(a)

	txn, err := uc.Credit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(250), "TRANSFER", "test credit", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionCredit, txn.Type)
	assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(1250)))
}

// TestInternalTransferSameAccount is responsible to test InternalTransfer
// refusing a transfer to the same account
func TestInternalTransferSameAccount(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, _, _ := newLedgerUseCase(a)

	_, _, err := uc.InternalTransfer(context.Background(), uuid.MustParse(a.ID), uuid.MustParse(a.ID), decimal.NewFromInt(100), "desc", "user-1")

	assert.Error(t, err)

	var valErr common.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, common.ErrSameAccountTransfer.Error(), valErr.Code)
}

// TestInternalTransferSuccess is responsible to test InternalTransfer moving
// funds between two accounts, regardless of which id sorts first (spec.md §5
// lock ordering)
func TestInternalTransferSuccess(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(1000))
	dst := activeAccount(decimal.NewFromInt(500))
	uc, accountRepo, _ := newLedgerUseCase(src, dst)

	debitTxn, creditTxn, err := uc.InternalTransfer(context.Background(), uuid.MustParse(src.ID), uuid.MustParse(dst.ID), decimal.NewFromInt(200), "transfer", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionTransfer, debitTxn.Type)
	assert.Equal(t, mmodel.TransactionTransfer, creditTxn.Type)
	assert.Equal(t, debitTxn.ExternalReference, creditTxn.ExternalReference)

	updatedSrc, _ := accountRepo.Find(context.Background(), uuid.MustParse(src.ID))
	updatedDst, _ := accountRepo.Find(context.Background(), uuid.MustParse(dst.ID))
	assert.True(t, updatedSrc.Balance.Equal(decimal.NewFromInt(800)))
	assert.True(t, updatedDst.Balance.Equal(decimal.NewFromInt(700)))
}

// TestSettleHoldCommit is responsible to test SettleHold committing a
// PROCESSING hold into Balance and flipping the row COMPLETED
func TestSettleHoldCommit(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, accountRepo, _ := newLedgerUseCase(a)

	processingTxn, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(300), "EFT_NEFT", "hold", "user-1", true)
	assert.NoError(t, err)

	settled, err := uc.SettleHold(context.Background(), processingTxn, HoldOutcome{Commit: true})

	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionCompleted, settled.Status)

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(a.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(700)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(700)))
}

// TestSettleHoldFailThenRefundRestoresBalance is responsible to test that a
// failed SettleHold followed by PostRefund fully restores both balances to
// their pre-hold value, leaving an auditable REFUND row (I6)
func TestSettleHoldFailThenRefundRestoresBalance(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, accountRepo, _ := newLedgerUseCase(a)

	processingTxn, err := uc.Debit(context.Background(), uuid.MustParse(a.ID), decimal.NewFromInt(300), "EFT_NEFT", "hold", "user-1", true)
	assert.NoError(t, err)

	failed, err := uc.SettleHold(context.Background(), processingTxn, HoldOutcome{Commit: false, FailureReason: "gateway timeout"})
	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionFailed, failed.Status)
	assert.Equal(t, "gateway timeout", *failed.FailureReason)

	refund, err := uc.PostRefund(context.Background(), failed)
	assert.NoError(t, err)
	assert.Equal(t, mmodel.TransactionRefund, refund.Type)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(300)))

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(a.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(1000)))
}

// TestSettleHoldRejectsNonProcessingTransaction is responsible to test
// SettleHold refusing a Transaction that isn't PROCESSING
func TestSettleHoldRejectsNonProcessingTransaction(t *testing.T) {
	a := activeAccount(decimal.NewFromInt(1000))
	uc, _, _ := newLedgerUseCase(a)

	completed := &mmodel.Transaction{ID: uuid.NewString(), AccountID: a.ID, Status: mmodel.TransactionCompleted}

	_, err := uc.SettleHold(context.Background(), completed, HoldOutcome{Commit: true})

	assert.Error(t, err)
}

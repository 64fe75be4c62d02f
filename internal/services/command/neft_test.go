package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

func newNEFTUseCase(now time.Time, gatewayErr error, accounts ...*mmodel.Account) (*UseCase, *fakeAccountRepo, *fakeEFTRepo) {
	accountRepo := newFakeAccountRepo(accounts...)
	eftRepo := newFakeEFTRepo()

	uc := &UseCase{
		AccountRepo:     accountRepo,
		TransactionRepo: newFakeTransactionRepo(),
		BeneficiaryRepo: newFakeBeneficiaryRepo(),
		EFTRepo:         eftRepo,
		UnitOfWork:      fakeUnitOfWork{},
		LockRepo:        newFakeLockRepo(),
		EFTGateway:      fakeEFTGateway{err: gatewayErr},
		Clock:           fakeClock{now: now},
		RefGen:          fakeRefGen{},
		NEFTTariff:      testNEFTTariff(),
		NEFT:            NEFTConfig{FirstBatchHour: 8, LastBatchHour: 19},
	}

	return uc, accountRepo, eftRepo
}

func verifiedBeneficiary(customerID string) *mmodel.Beneficiary {
	return &mmodel.Beneficiary{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		PayeeName:     "Jane Payee",
		AccountNumber: "200200200",
		IFSCCode:      "FBNK0001234",
		BankName:      "Fernbank",
		IsVerified:    true,
		Status:        mmodel.BeneficiaryActive,
	}
}

// TestSubmitNEFTSuccess is responsible to test SubmitNEFT holding funds,
// charging the NEFT tariff, and queuing the row for the next batch window
func TestSubmitNEFTSuccess(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, accountRepo, _ := newNEFTUseCase(now, nil, src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{
		SourceAccountID: src.ID,
		BeneficiaryID:   beneficiary.ID,
		Amount:          decimal.NewFromInt(5000),
	}

	eft, err := uc.SubmitNEFT(context.Background(), authz, input)

	require.NoError(t, err)
	assert.Equal(t, mmodel.EFTTypeNEFT, eft.EFTType)
	assert.Equal(t, mmodel.EFTPending, eft.Status)
	assert.True(t, eft.Charges.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, eft.TotalAmount.Equal(decimal.NewFromFloat(5002.50)))
	assert.NotNil(t, eft.BatchTime)

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(src.ID))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromFloat(94997.50)))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100000)))
}

// TestSubmitNEFTRejectsIneligibleBeneficiary is responsible to test
// SubmitNEFT refusing a beneficiary that isn't ACTIVE (I8)
func TestSubmitNEFTRejectsIneligibleBeneficiary(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, _, _ := newNEFTUseCase(now, nil, src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	beneficiary.Status = mmodel.BeneficiaryPendingVerification
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(5000)}

	_, err := uc.SubmitNEFT(context.Background(), authz, input)

	assert.Error(t, err)
}

// TestSubmitNEFTRejectsNonOwner is responsible to test SubmitNEFT refusing a
// caller who neither owns the source account's customer nor has
// TRANSACTION_WRITE staff permission
func TestSubmitNEFTRejectsNonOwner(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, _, _ := newNEFTUseCase(now, nil, src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	other := uuid.NewString()
	authz := mmodel.AuthzContext{UserID: "user-2", CustomerID: &other}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(5000)}

	_, err := uc.SubmitNEFT(context.Background(), authz, input)

	assert.Error(t, err)
}

// TestProcessNEFTBatchCompletesOnGatewaySuccess is responsible to test a
// full batch tick settling a queued leg into COMPLETED when the gateway
// succeeds
func TestProcessNEFTBatchCompletesOnGatewaySuccess(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, accountRepo, eftRepo := newNEFTUseCase(now, nil, src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(5000)}

	submitted, err := uc.SubmitNEFT(context.Background(), authz, input)
	require.NoError(t, err)

	result, err := uc.ProcessNEFTBatch(context.Background(), now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, mmodel.BatchCompleted, result.Status)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 0, result.Failed)

	settled, _ := eftRepo.Find(context.Background(), uuid.MustParse(submitted.ID))
	assert.Equal(t, mmodel.EFTCompleted, settled.Status)

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(src.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromFloat(94997.50)))
}

// TestProcessNEFTBatchRefundsOnGatewayFailure is responsible to test a batch
// tick refunding the hold when the gateway leg fails (I6)
func TestProcessNEFTBatchRefundsOnGatewayFailure(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, accountRepo, eftRepo := newNEFTUseCase(now, assert.AnError, src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(5000)}

	submitted, err := uc.SubmitNEFT(context.Background(), authz, input)
	require.NoError(t, err)

	result, err := uc.ProcessNEFTBatch(context.Background(), now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, mmodel.BatchPartiallyCompleted, result.Status)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, result.Failed)

	settled, _ := eftRepo.Find(context.Background(), uuid.MustParse(submitted.ID))
	assert.Equal(t, mmodel.EFTFailed, settled.Status)

	updated, _ := accountRepo.Find(context.Background(), uuid.MustParse(src.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100000)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(100000)))
}

// TestProcessNEFTBatchSkipsWhenAlreadyInFlight is responsible to test that a
// second overlapping tick for the same hour no-ops under the batch lock
// (spec.md §5)
func TestProcessNEFTBatchSkipsWhenAlreadyInFlight(t *testing.T) {
	src := activeAccount(decimal.NewFromInt(100000))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	uc, _, _ := newNEFTUseCase(now, nil, src)

	lock := newFakeLockRepo()
	uc.LockRepo = lock

	_, err := lock.AcquireLock(context.Background(), "neft-batch:"+"NEFT"+now.Format("2006010215"), time.Minute)
	require.NoError(t, err)

	result, err := uc.ProcessNEFTBatch(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, mmodel.BatchCompleted, result.Status)
	assert.Equal(t, 0, result.Total)
}

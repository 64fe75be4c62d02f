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

func newRTGSUseCase(now time.Time, gatewayErr error, cfg RTGSConfig, accounts ...*mmodel.Account) *UseCase {
	return &UseCase{
		AccountRepo:     newFakeAccountRepo(accounts...),
		TransactionRepo: newFakeTransactionRepo(),
		BeneficiaryRepo: newFakeBeneficiaryRepo(),
		EFTRepo:         newFakeEFTRepo(),
		UnitOfWork:      fakeUnitOfWork{},
		EFTGateway:      fakeEFTGateway{err: gatewayErr},
		Clock:           fakeClock{now: now},
		RefGen:          fakeRefGen{},
		RTGSTariff:      testRTGSTariff(),
		RTGS:            cfg,
	}
}

func businessHoursRTGS() RTGSConfig {
	return RTGSConfig{
		WeekdayOnly:   true,
		OpenHour:      9,
		OpenMinute:    0,
		CloseHour:     16,
		CloseMinute:   30,
		MinimumAmount: decimal.NewFromInt(200000),
	}
}

// TestSubmitRTGSSuccess is responsible to test SubmitRTGS settling inline
// when the gateway succeeds, inside the operating window and above the floor
func TestSubmitRTGSSuccess(t *testing.T) {
	// Thursday, within window, above the 200000 floor
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	src := activeAccount(decimal.NewFromInt(1000000))
	uc := newRTGSUseCase(now, nil, businessHoursRTGS(), src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(300000)}

	eft, err := uc.SubmitRTGS(context.Background(), authz, input)

	require.NoError(t, err)
	assert.Equal(t, mmodel.EFTCompleted, eft.Status)
	assert.NotNil(t, eft.ActualCompletion)
}

// TestSubmitRTGSRefundsOnGatewayFailure is responsible to test SubmitRTGS
// refunding the hold and surfacing an external-failure business error when
// the gateway call fails inline
func TestSubmitRTGSRefundsOnGatewayFailure(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	src := activeAccount(decimal.NewFromInt(1000000))
	uc := newRTGSUseCase(now, assert.AnError, businessHoursRTGS(), src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(300000)}

	_, err := uc.SubmitRTGS(context.Background(), authz, input)

	assert.Error(t, err)

	updated, _ := uc.AccountRepo.Find(context.Background(), uuid.MustParse(src.ID))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, updated.AvailableBalance.Equal(decimal.NewFromInt(1000000)))
}

// TestSubmitRTGSRejectsBelowMinimumAmount is responsible to test SubmitRTGS
// refusing amounts below the fixed floor (spec.md §4.4)
func TestSubmitRTGSRejectsBelowMinimumAmount(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	src := activeAccount(decimal.NewFromInt(1000000))
	uc := newRTGSUseCase(now, nil, businessHoursRTGS(), src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(1000)}

	_, err := uc.SubmitRTGS(context.Background(), authz, input)

	assert.Error(t, err)
}

// TestSubmitRTGSRejectsOutsideOperatingWindow is responsible to test
// SubmitRTGS refusing a submission outside weekday/hours window
func TestSubmitRTGSRejectsOutsideOperatingWindow(t *testing.T) {
	// Saturday
	now := time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC)
	src := activeAccount(decimal.NewFromInt(1000000))
	uc := newRTGSUseCase(now, nil, businessHoursRTGS(), src)

	beneficiary := verifiedBeneficiary(src.CustomerID)
	uc.BeneficiaryRepo = newFakeBeneficiaryRepo(beneficiary)

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &src.CustomerID}
	input := mmodel.InitiateEFTInput{SourceAccountID: src.ID, BeneficiaryID: beneficiary.ID, Amount: decimal.NewFromInt(300000)}

	_, err := uc.SubmitRTGS(context.Background(), authz, input)

	assert.Error(t, err)
}

// TestWithinRTGSWindowBoundaries is responsible to test the weekday/hours
// window check at its inclusive edges
func TestWithinRTGSWindowBoundaries(t *testing.T) {
	cfg := businessHoursRTGS()

	open := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	close := time.Date(2026, 1, 15, 16, 30, 0, 0, time.UTC)
	beforeOpen := time.Date(2026, 1, 15, 8, 59, 0, 0, time.UTC)
	afterClose := time.Date(2026, 1, 15, 16, 31, 0, 0, time.UTC)

	assert.True(t, withinRTGSWindow(open, cfg))
	assert.True(t, withinRTGSWindow(close, cfg))
	assert.False(t, withinRTGSWindow(beforeOpen, cfg))
	assert.False(t, withinRTGSWindow(afterClose, cfg))
}

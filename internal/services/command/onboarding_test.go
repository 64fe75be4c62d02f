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

func newOnboardingUseCase(users ...*mmodel.User) (*UseCase, *fakeUserRepo, *fakeCustomerRepo, *fakeAccountRepo) {
	userRepo := newFakeUserRepo(users...)
	customerRepo := newFakeCustomerRepo()
	accountRepo := newFakeAccountRepo()

	uc := &UseCase{
		UserRepo:              userRepo,
		CustomerRepo:          customerRepo,
		AccountRepo:           accountRepo,
		UnitOfWork:            fakeUnitOfWork{},
		Clock:                 fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
		RefGen:                fakeRefGen{},
		DefaultAccountType:    "SAVINGS",
		DefaultCurrency:       "INR",
		DefaultMinimumBalance: decimal.NewFromInt(500),
	}

	return uc, userRepo, customerRepo, accountRepo
}

// TestSubmitCustomerDetailsCreatesCustomer is responsible to test
// SubmitCustomerDetails creating a Customer and linking it on first
// submission (spec.md §4.7)
func TestSubmitCustomerDetailsCreatesCustomer(t *testing.T) {
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserPendingDetails}
	uc, userRepo, _, _ := newOnboardingUseCase(user)

	authz := mmodel.AuthzContext{UserID: user.ID}
	input := mmodel.SubmitCustomerDetailsInput{
		FirstName: "Jane", LastName: "Doe", NationalID: "ABCDE1234F", DateOfBirth: "1990-05-14",
		AddressLine1: "221B Baker Street", City: "Mumbai", State: "Maharashtra", PostalCode: "400001", Country: "IN",
	}

	customer, err := uc.SubmitCustomerDetails(context.Background(), authz, input)

	require.NoError(t, err)
	assert.Equal(t, mmodel.CustomerPendingReview, customer.Status)

	updatedUser, _ := userRepo.Find(context.Background(), uuid.MustParse(user.ID))
	assert.Equal(t, mmodel.UserPendingReview, updatedUser.Status)
	require.NotNil(t, updatedUser.CustomerID)
	assert.Equal(t, customer.ID, *updatedUser.CustomerID)
}

// TestSubmitCustomerDetailsRejectsInvalidState is responsible to test
// SubmitCustomerDetails refusing a user not in PENDING_DETAILS/REJECTED
func TestSubmitCustomerDetailsRejectsInvalidState(t *testing.T) {
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserActive}
	uc, _, _, _ := newOnboardingUseCase(user)

	authz := mmodel.AuthzContext{UserID: user.ID}

	_, err := uc.SubmitCustomerDetails(context.Background(), authz, mmodel.SubmitCustomerDetailsInput{})

	assert.Error(t, err)
}

// TestSubmitCustomerDetailsResubmissionClearsRejectionReason is responsible
// to test a REJECTED user's resubmission wiping the prior rejectionReason
func TestSubmitCustomerDetailsResubmissionClearsRejectionReason(t *testing.T) {
	customerID := uuid.NewString()
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserRejected, CustomerID: &customerID}
	uc, _, customerRepo, _ := newOnboardingUseCase(user)

	existing := &mmodel.Customer{
		ID:        customerID,
		UserID:    user.ID,
		Status:    mmodel.CustomerRejected,
		OtherInfo: mmodel.CustomerOtherInfo{RejectionReason: "national id mismatch"},
	}
	_, err := customerRepo.Create(context.Background(), existing)
	require.NoError(t, err)

	authz := mmodel.AuthzContext{UserID: user.ID}
	input := mmodel.SubmitCustomerDetailsInput{
		FirstName: "Jane", LastName: "Doe", NationalID: "ABCDE1234F", DateOfBirth: "1990-05-14",
		AddressLine1: "221B Baker Street", City: "Mumbai", State: "Maharashtra", PostalCode: "400001", Country: "IN",
	}

	customer, err := uc.SubmitCustomerDetails(context.Background(), authz, input)

	require.NoError(t, err)
	assert.Equal(t, mmodel.CustomerPendingReview, customer.Status)
	assert.Empty(t, customer.OtherInfo.RejectionReason)
}

// TestApproveUserOpensAccount is responsible to test ApproveUser
// activating the user/customer and opening the one account this core
// creates from the approval path (spec.md §4.7)
func TestApproveUserOpensAccount(t *testing.T) {
	customerID := uuid.NewString()
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserPendingReview, CustomerID: &customerID}
	uc, _, customerRepo, accountRepo := newOnboardingUseCase(user)

	_, err := customerRepo.Create(context.Background(), &mmodel.Customer{ID: customerID, UserID: user.ID, Status: mmodel.CustomerPendingReview})
	require.NoError(t, err)

	updatedUser, err := uc.ApproveUser(context.Background(), uuid.MustParse(user.ID))

	require.NoError(t, err)
	assert.Equal(t, mmodel.UserActive, updatedUser.Status)

	updatedCustomer, _ := customerRepo.Find(context.Background(), uuid.MustParse(customerID))
	assert.Equal(t, mmodel.CustomerActive, updatedCustomer.Status)

	accounts, err := accountRepo.FindByCustomerID(context.Background(), uuid.MustParse(customerID))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, mmodel.AccountActive, accounts[0].Status)
}

// TestApproveUserRejectsInvalidState is responsible to test ApproveUser
// refusing a user not in PENDING_REVIEW
func TestApproveUserRejectsInvalidState(t *testing.T) {
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserPendingDetails}
	uc, _, _, _ := newOnboardingUseCase(user)

	_, err := uc.ApproveUser(context.Background(), uuid.MustParse(user.ID))

	assert.Error(t, err)
}

// TestRejectUserStoresReason is responsible to test RejectUser storing the
// rejection reason on Customer.otherInfo and flipping both statuses
func TestRejectUserStoresReason(t *testing.T) {
	customerID := uuid.NewString()
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserPendingReview, CustomerID: &customerID}
	uc, _, customerRepo, _ := newOnboardingUseCase(user)

	_, err := customerRepo.Create(context.Background(), &mmodel.Customer{ID: customerID, UserID: user.ID, Status: mmodel.CustomerPendingReview})
	require.NoError(t, err)

	updatedUser, err := uc.RejectUser(context.Background(), uuid.MustParse(user.ID), "national id mismatch")

	require.NoError(t, err)
	assert.Equal(t, mmodel.UserRejected, updatedUser.Status)

	updatedCustomer, _ := customerRepo.Find(context.Background(), uuid.MustParse(customerID))
	assert.Equal(t, mmodel.CustomerRejected, updatedCustomer.Status)
	assert.Equal(t, "national id mismatch", updatedCustomer.OtherInfo.RejectionReason)
}

package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

func testAccount(customerID string) *mmodel.Account {
	return &mmodel.Account{
		ID:               uuid.NewString(),
		CustomerID:       customerID,
		AccountNumber:    "1000100010",
		Balance:          decimal.NewFromInt(1000),
		AvailableBalance: decimal.NewFromInt(1000),
		Status:           mmodel.AccountActive,
	}
}

// TestGetAccountByIDSuccess is responsible to test GetAccountByID with
// success when the caller owns the account's customer
func TestGetAccountByIDSuccess(t *testing.T) {
	customerID := uuid.NewString()
	a := testAccount(customerID)
	uc := &UseCase{AccountRepo: newFakeAccountRepo(a)}

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &customerID}

	got, err := uc.GetAccountByID(context.Background(), authz, uuid.MustParse(a.ID))

	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

// TestGetAccountByIDRejectsNonOwner is responsible to test GetAccountByID
// refusing a caller who neither owns the account's customer nor holds
// ACCOUNT_READ (spec.md §4.2)
func TestGetAccountByIDRejectsNonOwner(t *testing.T) {
	a := testAccount(uuid.NewString())
	uc := &UseCase{AccountRepo: newFakeAccountRepo(a)}

	other := uuid.NewString()
	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &other}

	_, err := uc.GetAccountByID(context.Background(), authz, uuid.MustParse(a.ID))

	assert.Error(t, err)
}

// TestGetAccountByIDAllowsStaffPermission is responsible to test
// GetAccountByID allowing a staff caller holding ACCOUNT_READ regardless of
// ownership
func TestGetAccountByIDAllowsStaffPermission(t *testing.T) {
	a := testAccount(uuid.NewString())
	uc := &UseCase{AccountRepo: newFakeAccountRepo(a)}

	authz := mmodel.AuthzContext{UserID: "staff-1", Permissions: []string{mmodel.PermissionAccountRead}}

	got, err := uc.GetAccountByID(context.Background(), authz, uuid.MustParse(a.ID))

	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

// TestGetAccountsByCustomerSuccess is responsible to test
// GetAccountsByCustomer listing every account belonging to a customer
func TestGetAccountsByCustomerSuccess(t *testing.T) {
	customerID := uuid.NewString()
	a := testAccount(customerID)
	b := testAccount(customerID)
	uc := &UseCase{AccountRepo: newFakeAccountRepo(a, b)}

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &customerID}

	accounts, err := uc.GetAccountsByCustomer(context.Background(), authz, uuid.MustParse(customerID))

	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

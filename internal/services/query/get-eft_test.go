package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

// TestGetEFTByIDSuccess is responsible to test GetEFTByID with success when
// the caller owns the source account's customer (spec.md §4.3, §4.4)
func TestGetEFTByIDSuccess(t *testing.T) {
	customerID := uuid.NewString()
	account := testAccount(customerID)
	eft := &mmodel.EFTTransaction{ID: uuid.NewString(), EFTReference: "NEFT0001", SourceAccountID: account.ID, Status: mmodel.EFTPending}
	uc := &UseCase{EFTRepo: newFakeEFTRepo(eft), AccountRepo: newFakeAccountRepo(account)}

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &customerID}

	got, err := uc.GetEFTByID(context.Background(), authz, uuid.MustParse(eft.ID))

	require.NoError(t, err)
	assert.Equal(t, eft.ID, got.ID)
}

// TestGetEFTByIDRejectsNonOwner is responsible to test GetEFTByID refusing a
// caller who doesn't own the source account's customer and has no staff
// TRANSACTION_READ permission
func TestGetEFTByIDRejectsNonOwner(t *testing.T) {
	account := testAccount(uuid.NewString())
	eft := &mmodel.EFTTransaction{ID: uuid.NewString(), EFTReference: "NEFT0001", SourceAccountID: account.ID, Status: mmodel.EFTPending}
	uc := &UseCase{EFTRepo: newFakeEFTRepo(eft), AccountRepo: newFakeAccountRepo(account)}

	other := uuid.NewString()
	authz := mmodel.AuthzContext{UserID: "user-2", CustomerID: &other}

	_, err := uc.GetEFTByID(context.Background(), authz, uuid.MustParse(eft.ID))

	assert.Error(t, err)
}

// TestGetEFTByReferenceSuccess is responsible to test GetEFTByReference
// fetching by eftReference
func TestGetEFTByReferenceSuccess(t *testing.T) {
	eft := &mmodel.EFTTransaction{ID: uuid.NewString(), EFTReference: "NEFT0001", Status: mmodel.EFTPending}
	uc := &UseCase{EFTRepo: newFakeEFTRepo(eft)}

	got, err := uc.GetEFTByReference(context.Background(), "NEFT0001")

	require.NoError(t, err)
	assert.Equal(t, eft.ID, got.ID)
}

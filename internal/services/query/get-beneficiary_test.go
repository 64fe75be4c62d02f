package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

// TestGetBeneficiaryByIDSuccess is responsible to test GetBeneficiaryByID
// with success when the caller owns the beneficiary's customer
func TestGetBeneficiaryByIDSuccess(t *testing.T) {
	customerID := uuid.NewString()
	b := &mmodel.Beneficiary{ID: uuid.NewString(), CustomerID: customerID, Status: mmodel.BeneficiaryActive}
	uc := &UseCase{BeneficiaryRepo: newFakeBeneficiaryRepo(b)}

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &customerID}

	got, err := uc.GetBeneficiaryByID(context.Background(), authz, uuid.MustParse(b.ID))

	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

// TestGetBeneficiaryByIDRejectsNonOwner is responsible to test
// GetBeneficiaryByID refusing a caller who doesn't own the beneficiary's
// customer
func TestGetBeneficiaryByIDRejectsNonOwner(t *testing.T) {
	b := &mmodel.Beneficiary{ID: uuid.NewString(), CustomerID: uuid.NewString(), Status: mmodel.BeneficiaryActive}
	uc := &UseCase{BeneficiaryRepo: newFakeBeneficiaryRepo(b)}

	other := uuid.NewString()
	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &other}

	_, err := uc.GetBeneficiaryByID(context.Background(), authz, uuid.MustParse(b.ID))

	assert.Error(t, err)
}

// TestGetBeneficiariesByCustomerSuccess is responsible to test
// GetBeneficiariesByCustomer listing every beneficiary registered by a
// customer (spec.md §4.5)
func TestGetBeneficiariesByCustomerSuccess(t *testing.T) {
	customerID := uuid.NewString()
	b1 := &mmodel.Beneficiary{ID: uuid.NewString(), CustomerID: customerID}
	b2 := &mmodel.Beneficiary{ID: uuid.NewString(), CustomerID: customerID}
	uc := &UseCase{BeneficiaryRepo: newFakeBeneficiaryRepo(b1, b2)}

	authz := mmodel.AuthzContext{UserID: "user-1", CustomerID: &customerID}

	list, err := uc.GetBeneficiariesByCustomer(context.Background(), authz, uuid.MustParse(customerID))

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// TestGetBeneficiariesByStatusSuccess is responsible to test
// GetBeneficiariesByStatus listing the admin review queue for a given
// status (spec.md §4.5)
func TestGetBeneficiariesByStatusSuccess(t *testing.T) {
	pending := &mmodel.Beneficiary{ID: uuid.NewString(), Status: mmodel.BeneficiaryPendingVerification}
	active := &mmodel.Beneficiary{ID: uuid.NewString(), Status: mmodel.BeneficiaryActive}
	uc := &UseCase{BeneficiaryRepo: newFakeBeneficiaryRepo(pending, active)}

	list, err := uc.GetBeneficiariesByStatus(context.Background(), mmodel.BeneficiaryPendingVerification, 1, 10)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}

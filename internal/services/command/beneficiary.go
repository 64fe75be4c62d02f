package command

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

var beneficiaryTypeName = reflect.TypeOf(mmodel.Beneficiary{}).Name()

// CreateBeneficiary registers a new payee PENDING_VERIFICATION under the
// caller's customer, validating IFSC and the
// (customerId, accountNumber, ifscCode) uniqueness rule (spec.md §4.5).
func (uc *UseCase) CreateBeneficiary(ctx context.Context, authz mmodel.AuthzContext, input mmodel.CreateBeneficiaryInput) (*mmodel.Beneficiary, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.beneficiary_create")
	defer span.End()

	logger.Infof("Trying to create beneficiary %s for customer %v", input.PayeeName, authz.CustomerID)

	if authz.CustomerID == nil {
		mopentelemetry.HandleSpanError(&span, "Caller has no linked customer", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, beneficiaryTypeName)
	}

	customerID, err := uuid.Parse(*authz.CustomerID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid customer id", err)
		return nil, common.ValidateInternalError(err, beneficiaryTypeName)
	}

	bankInfo, err := uc.IFSCValidator.Validate(ctx, input.IFSCCode)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid IFSC code", err)
		return nil, common.ValidateBusinessError(common.ErrInvalidIFSCFormat, beneficiaryTypeName)
	}

	duplicate, _ := uc.BeneficiaryRepo.FindDuplicate(ctx, customerID, input.AccountNumber, input.IFSCCode)
	if duplicate != nil {
		mopentelemetry.HandleSpanError(&span, "Duplicate beneficiary", common.ErrDuplicateBeneficiary)
		return nil, common.ValidateBusinessError(common.ErrDuplicateBeneficiary, beneficiaryTypeName)
	}

	now := uc.Clock.Now()

	beneficiary := &mmodel.Beneficiary{
		ID:            uuid.New().String(),
		CustomerID:    customerID.String(),
		PayeeName:     input.PayeeName,
		AccountNumber: input.AccountNumber,
		IFSCCode:      input.IFSCCode,
		BankName:      bankInfo.BankName,
		BranchName:    bankInfo.BranchName,
		ContactNumber: input.ContactNumber,
		IsVerified:    false,
		Status:        mmodel.BeneficiaryPendingVerification,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := uc.BeneficiaryRepo.Create(ctx, beneficiary)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create beneficiary", err)
		return nil, common.ValidateInternalError(err, beneficiaryTypeName)
	}

	return created, nil
}

// UpdateBeneficiary applies an owner edit; any edit resets the beneficiary
// to PENDING_VERIFICATION and clears isVerified (spec.md §4.5).
func (uc *UseCase) UpdateBeneficiary(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID, input mmodel.UpdateBeneficiaryInput) (*mmodel.Beneficiary, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.beneficiary_update")
	defer span.End()

	logger.Infof("Trying to update beneficiary %s", id)

	beneficiary, err := uc.BeneficiaryRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Beneficiary not found", err)
		return nil, err
	}

	if !authz.OwnsCustomer(beneficiary.CustomerID) {
		mopentelemetry.HandleSpanError(&span, "Not owner of beneficiary", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, beneficiaryTypeName)
	}

	if input.PayeeName != nil {
		beneficiary.PayeeName = *input.PayeeName
	}

	if input.ContactNumber != nil {
		beneficiary.ContactNumber = *input.ContactNumber
	}

	beneficiary.Status = mmodel.BeneficiaryPendingVerification
	beneficiary.IsVerified = false
	beneficiary.UpdatedAt = uc.Clock.Now()

	updated, err := uc.BeneficiaryRepo.Update(ctx, beneficiary)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to update beneficiary", err)
		return nil, common.ValidateInternalError(err, beneficiaryTypeName)
	}

	return updated, nil
}

// DeleteBeneficiary soft-deletes (INACTIVE) a beneficiary owned by the
// caller (spec.md §4.5).
func (uc *UseCase) DeleteBeneficiary(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID) error {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.beneficiary_delete")
	defer span.End()

	logger.Infof("Trying to delete beneficiary %s", id)

	beneficiary, err := uc.BeneficiaryRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Beneficiary not found", err)
		return err
	}

	if !authz.OwnsCustomer(beneficiary.CustomerID) {
		mopentelemetry.HandleSpanError(&span, "Not owner of beneficiary", common.ErrNotOwner)
		return common.ValidateBusinessError(common.ErrNotOwner, beneficiaryTypeName)
	}

	beneficiary.Status = mmodel.BeneficiaryInactive
	beneficiary.UpdatedAt = uc.Clock.Now()

	if _, err := uc.BeneficiaryRepo.Update(ctx, beneficiary); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to delete beneficiary", err)
		return common.ValidateInternalError(err, beneficiaryTypeName)
	}

	return nil
}

// beneficiaryAdminTransition applies an admin-driven state transition
// (approve/reject/block), grounding §4.5's admin half of the state machine.
func (uc *UseCase) beneficiaryAdminTransition(ctx context.Context, id uuid.UUID, newStatus mmodel.BeneficiaryStatus, isVerified bool) (*mmodel.Beneficiary, error) {
	beneficiary, err := uc.BeneficiaryRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	beneficiary.Status = newStatus
	beneficiary.IsVerified = isVerified
	beneficiary.UpdatedAt = uc.Clock.Now()

	updated, err := uc.BeneficiaryRepo.Update(ctx, beneficiary)
	if err != nil {
		return nil, common.ValidateInternalError(err, beneficiaryTypeName)
	}

	return updated, nil
}

// ApproveBeneficiary admin-approves a beneficiary: PENDING_VERIFICATION -> ACTIVE.
func (uc *UseCase) ApproveBeneficiary(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "command.beneficiary_approve")
	defer span.End()

	b, err := uc.beneficiaryAdminTransition(ctx, id, mmodel.BeneficiaryActive, true)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to approve beneficiary", err)
	}

	return b, err
}

// RejectBeneficiary admin-rejects a beneficiary: -> BLOCKED.
func (uc *UseCase) RejectBeneficiary(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "command.beneficiary_reject")
	defer span.End()

	b, err := uc.beneficiaryAdminTransition(ctx, id, mmodel.BeneficiaryBlocked, false)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to reject beneficiary", err)
	}

	return b, err
}

// BlockBeneficiary admin-blocks a previously ACTIVE beneficiary.
func (uc *UseCase) BlockBeneficiary(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "command.beneficiary_block")
	defer span.End()

	b, err := uc.beneficiaryAdminTransition(ctx, id, mmodel.BeneficiaryBlocked, false)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to block beneficiary", err)
	}

	return b, err
}

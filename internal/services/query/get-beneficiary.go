package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetBeneficiaryByID fetches a Beneficiary by id, enforcing ownership.
func (uc *UseCase) GetBeneficiaryByID(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID) (*mmodel.Beneficiary, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_beneficiary_by_id")
	defer span.End()

	beneficiary, err := uc.BeneficiaryRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get beneficiary on repo", err)
		return nil, err
	}

	if !authz.OwnsCustomer(beneficiary.CustomerID) {
		mopentelemetry.HandleSpanError(&span, "Not owner of beneficiary", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, beneficiaryTypeName)
	}

	return beneficiary, nil
}

// GetBeneficiariesByCustomer lists every Beneficiary registered by a
// customer (spec.md §4.5).
func (uc *UseCase) GetBeneficiariesByCustomer(ctx context.Context, authz mmodel.AuthzContext, customerID uuid.UUID) ([]*mmodel.Beneficiary, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_beneficiaries_by_customer")
	defer span.End()

	logger.Infof("Retrieving beneficiaries for customer: %s", customerID)

	if !authz.OwnsCustomer(customerID.String()) {
		mopentelemetry.HandleSpanError(&span, "Not owner of customer", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, beneficiaryTypeName)
	}

	beneficiaries, err := uc.BeneficiaryRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get beneficiaries on repo", err)
		return nil, err
	}

	return beneficiaries, nil
}

// GetBeneficiariesByStatus lists beneficiaries in a given status, paginated
// — the admin review queue behind the approve/reject/block workflow
// (spec.md §4.5).
func (uc *UseCase) GetBeneficiariesByStatus(ctx context.Context, status mmodel.BeneficiaryStatus, page, limit int) ([]*mmodel.Beneficiary, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_beneficiaries_by_status")
	defer span.End()

	beneficiaries, err := uc.BeneficiaryRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get beneficiaries on repo", err)
		return nil, err
	}

	return beneficiaries, nil
}

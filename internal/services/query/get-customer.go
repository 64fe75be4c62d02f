package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetCustomerByID fetches a Customer by id, enforcing ownership.
func (uc *UseCase) GetCustomerByID(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID) (*mmodel.Customer, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_customer_by_id")
	defer span.End()

	customer, err := uc.CustomerRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get customer on repo", err)
		return nil, err
	}

	if !authz.OwnsCustomer(customer.ID) {
		mopentelemetry.HandleSpanError(&span, "Not owner of customer", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, customerTypeName)
	}

	return customer, nil
}

// GetCustomerByUserID resolves the Customer linked to a given User.
func (uc *UseCase) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*mmodel.Customer, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_customer_by_user_id")
	defer span.End()

	customer, err := uc.CustomerRepo.FindByUserID(ctx, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get customer on repo", err)
		return nil, err
	}

	return customer, nil
}

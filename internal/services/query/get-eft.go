package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetEFTByID fetches a NEFT/RTGS EFTTransaction by id, for status polling
// (spec.md §4.3, §4.4).
func (uc *UseCase) GetEFTByID(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID) (*mmodel.EFTTransaction, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_eft_by_id")
	defer span.End()

	eft, err := uc.EFTRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get EFT on repo", err)
		return nil, err
	}

	account, err := uc.AccountRepo.Find(ctx, uuid.MustParse(eft.SourceAccountID))
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Source account not found", err)
		return nil, err
	}

	if !authz.CanAccessAccount(account.CustomerID, mmodel.PermissionTransactionRead) {
		mopentelemetry.HandleSpanError(&span, "Not owner of EFT", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, eftTypeName)
	}

	return eft, nil
}

// GetEFTByReference fetches a NEFT/RTGS EFTTransaction by its eftReference.
func (uc *UseCase) GetEFTByReference(ctx context.Context, reference string) (*mmodel.EFTTransaction, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_eft_by_reference")
	defer span.End()

	eft, err := uc.EFTRepo.FindByReference(ctx, reference)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get EFT on repo", err)
		return nil, err
	}

	return eft, nil
}

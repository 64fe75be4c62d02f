package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetQRRequestByID fetches a QR payment request by id (spec.md §4.6).
func (uc *UseCase) GetQRRequestByID(ctx context.Context, id uuid.UUID) (*mmodel.QRRequest, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_qr_request_by_id")
	defer span.End()

	request, err := uc.QRRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get QR request on repo", err)
		return nil, err
	}

	return request, nil
}

// GetUPIByID resolves a UPI alias to its (user, account) binding
// (spec.md §4.6).
func (uc *UseCase) GetUPIByID(ctx context.Context, upiID string) (*mmodel.UPIIdentifier, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_upi_by_id")
	defer span.End()

	upi, err := uc.UPIRepo.FindByUPIID(ctx, upiID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get UPI ID on repo", err)
		return nil, err
	}

	return upi, nil
}

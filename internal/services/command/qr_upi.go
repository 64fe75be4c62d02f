package command

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

var (
	qrRequestTypeName = reflect.TypeOf(mmodel.QRRequest{}).Name()
	upiTypeName       = reflect.TypeOf(mmodel.UPIIdentifier{}).Name()
)

// CreateQRRequest creates a one-shot QR payment intent against
// receiverAccountId, expiring after the requested duration (spec.md §4.6).
func (uc *UseCase) CreateQRRequest(ctx context.Context, input mmodel.CreateQRRequestInput) (*mmodel.QRRequest, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.qr_create_request")
	defer span.End()

	logger.Infof("Trying to create QR request for account %s", input.ReceiverAccountID)

	now := uc.Clock.Now()

	request := &mmodel.QRRequest{
		ID:                uuid.New().String(),
		ReceiverAccountID: input.ReceiverAccountID,
		Amount:            input.Amount,
		Status:            mmodel.QRRequestPending,
		ExpiresAt:         now.Add(time.Duration(input.ExpiresInSeconds) * time.Second),
		CreatedAt:         now,
	}

	created, err := uc.QRRepo.Create(ctx, request)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create QR request", err)
		return nil, common.ValidateInternalError(err, qrRequestTypeName)
	}

	return created, nil
}

// PayQRRequest satisfies a pending QR request via Ledger.InternalTransfer
// (spec.md §4.6): verifies not expired and not already paid, transfers, and
// marks the request PAID.
func (uc *UseCase) PayQRRequest(ctx context.Context, authz mmodel.AuthzContext, id uuid.UUID, input mmodel.PayQRRequestInput) (*mmodel.QRRequest, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.qr_pay_request")
	defer span.End()

	logger.Infof("Trying to pay QR request %s", id)

	request, err := uc.QRRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "QR request not found", err)
		return nil, err
	}

	now := uc.Clock.Now()

	if request.Status == mmodel.QRRequestPaid {
		mopentelemetry.HandleSpanError(&span, "QR request already paid", common.ErrQRAlreadyPaid)
		return nil, common.ValidateBusinessError(common.ErrQRAlreadyPaid, qrRequestTypeName)
	}

	if !request.IsPayable(now) {
		mopentelemetry.HandleSpanError(&span, "QR request expired", common.ErrQRExpired)
		return nil, common.ValidateBusinessError(common.ErrQRExpired, qrRequestTypeName)
	}

	payerID, err := uuid.Parse(input.PayerAccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid payer account id", err)
		return nil, common.ValidateBusinessError(common.ErrInvalidPathParameter, qrRequestTypeName)
	}

	receiverID, err := uuid.Parse(request.ReceiverAccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid receiver account id", err)
		return nil, common.ValidateInternalError(err, qrRequestTypeName)
	}

	var settled *mmodel.QRRequest

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		debitTxn, creditTxn, err := uc.InternalTransfer(ctx, payerID, receiverID, request.Amount, "QR payment", authz.UserID)
		if err != nil {
			return err
		}

		updated, err := uc.QRRepo.MarkPaid(ctx, id, authz.UserID, now, debitTxn.ID, creditTxn.ID)
		if err != nil {
			return common.ValidateInternalError(err, qrRequestTypeName)
		}

		settled = updated

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to pay QR request", err)
		return nil, err
	}

	return settled, nil
}

// RegisterUPI binds an injective UPI-style alias to (user, account) (spec.md §4.6).
func (uc *UseCase) RegisterUPI(ctx context.Context, authz mmodel.AuthzContext, input mmodel.RegisterUPIInput) (*mmodel.UPIIdentifier, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.upi_register")
	defer span.End()

	logger.Infof("Trying to register UPI ID %s", input.UPIID)

	existing, _ := uc.UPIRepo.FindByUPIID(ctx, input.UPIID)
	if existing != nil && existing.Status == mmodel.UPIActive {
		mopentelemetry.HandleSpanError(&span, "Duplicate UPI ID", common.ErrDuplicateUPIID)
		return nil, common.ValidateBusinessError(common.ErrDuplicateUPIID, upiTypeName, input.UPIID)
	}

	upi := &mmodel.UPIIdentifier{
		ID:        uuid.New().String(),
		UPIID:     input.UPIID,
		UserID:    authz.UserID,
		AccountID: input.AccountID,
		Status:    mmodel.UPIActive,
		CreatedAt: uc.Clock.Now(),
	}

	created, err := uc.UPIRepo.Create(ctx, upi)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to register UPI ID", err)
		return nil, common.ValidateInternalError(err, upiTypeName)
	}

	return created, nil
}

// DeregisterUPI sets a UPI alias INACTIVE (spec.md §4.6).
func (uc *UseCase) DeregisterUPI(ctx context.Context, upiID string) error {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "command.upi_deregister")
	defer span.End()

	if err := uc.UPIRepo.Deactivate(ctx, upiID); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to deregister UPI ID", err)
		return common.ValidateInternalError(err, upiTypeName)
	}

	return nil
}

// SendViaUPI resolves a receiver UPI alias to an account and performs an
// in-network transfer (spec.md §4.6): a thin Ledger.InternalTransfer wrapper.
func (uc *UseCase) SendViaUPI(ctx context.Context, authz mmodel.AuthzContext, input mmodel.SendViaUPIInput) (debitTxn, creditTxn *mmodel.Transaction, err error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.upi_send")
	defer span.End()

	logger.Infof("Trying to send %s via UPI to %s", input.Amount, input.ReceiverUPIID)

	receiver, err := uc.UPIRepo.FindByUPIID(ctx, input.ReceiverUPIID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Receiver UPI ID not found", err)
		return nil, nil, err
	}

	if receiver.Status != mmodel.UPIActive {
		mopentelemetry.HandleSpanError(&span, "Receiver UPI ID inactive", common.ErrUPIIDNotFound)
		return nil, nil, common.ValidateBusinessError(common.ErrUPIIDNotFound, upiTypeName)
	}

	payerID, err := uuid.Parse(input.PayerAccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid payer account id", err)
		return nil, nil, common.ValidateBusinessError(common.ErrInvalidPathParameter, upiTypeName)
	}

	receiverAccountID, err := uuid.Parse(receiver.AccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid receiver account id", err)
		return nil, nil, common.ValidateInternalError(err, upiTypeName)
	}

	debitTxn, creditTxn, err = uc.InternalTransfer(ctx, payerID, receiverAccountID, input.Amount, "UPI payment to "+input.ReceiverUPIID, authz.UserID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to send via UPI", err)
		return nil, nil, err
	}

	return debitTxn, creditTxn, nil
}

package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// withinRTGSWindow reports whether now falls inside the RTGS operating
// window (spec.md §4.4): Monday-Friday, open..close local, inclusive.
func withinRTGSWindow(now time.Time, cfg RTGSConfig) bool {
	if cfg.WeekdayOnly {
		wd := now.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}

	openMinutes := cfg.OpenHour*60 + cfg.OpenMinute
	closeMinutes := cfg.CloseHour*60 + cfg.CloseMinute
	nowMinutes := now.Hour()*60 + now.Minute()

	return nowMinutes >= openMinutes && nowMinutes <= closeMinutes
}

// SubmitRTGS performs the full synchronous RTGS path (spec.md §4.4): window
// and floor validation, hold, inline external call, commit-or-refund.
func (uc *UseCase) SubmitRTGS(ctx context.Context, authz mmodel.AuthzContext, input mmodel.InitiateEFTInput) (*mmodel.EFTTransaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.rtgs_submit")
	defer span.End()

	logger.Infof("Trying to submit RTGS transfer for %s", input.SourceAccountID)

	now := uc.Clock.Now()

	if !withinRTGSWindow(now, uc.RTGS) {
		mopentelemetry.HandleSpanError(&span, "RTGS closed", common.ErrRTGSClosed)
		return nil, common.ValidateBusinessError(common.ErrRTGSClosed, eftTypeName)
	}

	if input.Amount.LessThan(uc.RTGS.MinimumAmount) {
		mopentelemetry.HandleSpanError(&span, "RTGS below minimum", common.ErrRTGSBelowMinimum)
		return nil, common.ValidateBusinessError(common.ErrRTGSBelowMinimum, eftTypeName)
	}

	sourceID, err := uuid.Parse(input.SourceAccountID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid source account id", err)
		return nil, common.ValidateBusinessError(common.ErrInvalidPathParameter, eftTypeName)
	}

	source, err := uc.AccountRepo.Find(ctx, sourceID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Source account not found", err)
		return nil, err
	}

	if !authz.CanAccessAccount(source.CustomerID, mmodel.PermissionTransactionWrite) {
		mopentelemetry.HandleSpanError(&span, "Not authorized on source account", common.ErrNotOwner)
		return nil, common.ValidateBusinessError(common.ErrNotOwner, eftTypeName)
	}

	beneficiaryID, err := uuid.Parse(input.BeneficiaryID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid beneficiary id", err)
		return nil, common.ValidateBusinessError(common.ErrInvalidPathParameter, eftTypeName)
	}

	beneficiary, err := uc.BeneficiaryRepo.Find(ctx, beneficiaryID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Beneficiary not found", err)
		return nil, err
	}

	if !beneficiary.IsEligibleForEFT() {
		mopentelemetry.HandleSpanError(&span, "Beneficiary not eligible for EFT", common.ErrInvalidBeneficiaryState)
		return nil, common.ValidateBusinessError(common.ErrInvalidBeneficiaryState, eftTypeName)
	}

	charge := mmodel.ChargeFor(uc.RTGSTariff, input.Amount)
	totalAmount := input.Amount.Add(charge)

	var (
		eft          *mmodel.EFTTransaction
		gatewayErr   error
		processingID string
	)

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		holdTxn, err := uc.Debit(ctx, sourceID, totalAmount, "EFT_RTGS", "RTGS transfer to "+beneficiary.PayeeName, authz.UserID, true)
		if err != nil {
			return err
		}

		processingID = holdTxn.ID

		record := &mmodel.EFTTransaction{
			ID:                 uuid.New().String(),
			EFTReference:       uc.RefGen.EFTReference(),
			EFTType:            mmodel.EFTTypeRTGS,
			SourceAccountID:    source.ID,
			BeneficiaryID:      beneficiary.ID,
			BeneficiaryName:    beneficiary.PayeeName,
			BeneficiaryAccount: beneficiary.AccountNumber,
			BeneficiaryIFSC:    beneficiary.IFSCCode,
			BeneficiaryBank:    beneficiary.BankName,
			Amount:             input.Amount,
			Charges:            charge,
			TotalAmount:        totalAmount,
			Status:             mmodel.EFTProcessing,
			TransactionID:      holdTxn.ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		created, err := uc.EFTRepo.Create(ctx, record)
		if err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		if err := uc.BeneficiaryRepo.MarkUsed(ctx, beneficiaryID, now); err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		eft = created

		gatewayErr = uc.EFTGateway.Submit(ctx, *eft)

		processingTxn, err := uc.TransactionRepo.Find(ctx, uuid.MustParse(processingID))
		if err != nil {
			return err
		}

		if gatewayErr == nil {
			settled, err := uc.SettleHold(ctx, processingTxn, HoldOutcome{Commit: true})
			if err != nil {
				return err
			}

			completion := uc.Clock.Now()
			eft.Status = mmodel.EFTCompleted
			eft.ActualCompletion = &completion
			eft.TransactionID = settled.ID

			_, err = uc.EFTRepo.Update(ctx, eft)

			return err
		}

		failedTxn, err := uc.SettleHold(ctx, processingTxn, HoldOutcome{Commit: false, FailureReason: gatewayErr.Error()})
		if err != nil {
			return err
		}

		if _, err := uc.PostRefund(ctx, failedTxn); err != nil {
			return err
		}

		reason := gatewayErr.Error()
		eft.Status = mmodel.EFTFailed
		eft.FailureReason = &reason

		_, err = uc.EFTRepo.Update(ctx, eft)

		return err
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed during RTGS submit transaction", err)
		return nil, err
	}

	if gatewayErr != nil {
		return nil, common.ValidateBusinessError(common.ErrExternalFailure, eftTypeName)
	}

	return eft, nil
}

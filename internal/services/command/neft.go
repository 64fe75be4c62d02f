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

var eftTypeName = reflect.TypeOf(mmodel.EFTTransaction{}).Name()

// nextTopOfHourInWindow returns the next top-of-hour slot within the NEFT
// operating window (spec.md §4.3): if now is inside the window, the next
// hour boundary (rolling into the next window if needed); if now is outside
// the window, the next window's first batch hour.
func (uc *UseCase) nextTopOfHourInWindow(now time.Time) time.Time {
	loc := now.Location()

	if withinHourWindow(now, uc.NEFT.FirstBatchHour, uc.NEFT.LastBatchHour) {
		next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, loc)
		if next.Hour() <= uc.NEFT.LastBatchHour || next.Hour() == 0 {
			if next.Hour() >= uc.NEFT.FirstBatchHour && next.Hour() <= uc.NEFT.LastBatchHour {
				return next
			}
		}
	}

	day := now
	if now.Hour() >= uc.NEFT.LastBatchHour {
		day = now.AddDate(0, 0, 1)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), uc.NEFT.FirstBatchHour, 0, 0, 0, loc)
}

// SubmitNEFT performs the synchronous half of an NEFT submission (spec.md
// §4.3 steps 1-6): authorize, validate, charge, hold, and queue for the
// next batch window.
func (uc *UseCase) SubmitNEFT(ctx context.Context, authz mmodel.AuthzContext, input mmodel.InitiateEFTInput) (*mmodel.EFTTransaction, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.neft_submit")
	defer span.End()

	logger.Infof("Trying to submit NEFT transfer for %s", input.SourceAccountID)

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

	charge := mmodel.ChargeFor(uc.NEFTTariff, input.Amount)
	totalAmount := input.Amount.Add(charge)

	now := uc.Clock.Now()

	var eft *mmodel.EFTTransaction

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		holdTxn, err := uc.Debit(ctx, sourceID, totalAmount, "EFT_NEFT", "NEFT transfer to "+beneficiary.PayeeName, authz.UserID, true)
		if err != nil {
			return err
		}

		batchTime := uc.nextTopOfHourInWindow(now)
		estimatedCompletion := batchTime.Add(30 * time.Minute)

		record := &mmodel.EFTTransaction{
			ID:                  uuid.New().String(),
			EFTReference:        uc.RefGen.EFTReference(),
			EFTType:             mmodel.EFTTypeNEFT,
			SourceAccountID:     source.ID,
			BeneficiaryID:       beneficiary.ID,
			BeneficiaryName:     beneficiary.PayeeName,
			BeneficiaryAccount:  beneficiary.AccountNumber,
			BeneficiaryIFSC:     beneficiary.IFSCCode,
			BeneficiaryBank:     beneficiary.BankName,
			Amount:              input.Amount,
			Charges:             charge,
			TotalAmount:         totalAmount,
			Status:              mmodel.EFTPending,
			BatchTime:           &batchTime,
			EstimatedCompletion: &estimatedCompletion,
			TransactionID:       holdTxn.ID,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		created, err := uc.EFTRepo.Create(ctx, record)
		if err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		if err := uc.BeneficiaryRepo.MarkUsed(ctx, beneficiaryID, now); err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		eft = created

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to submit NEFT transfer", err)
		return nil, err
	}

	return eft, nil
}

// ProcessNEFTBatch drains all PENDING/QUEUED EFTTransactions due by now and
// transitions each to COMPLETED or FAILED-with-refund (spec.md §4.3 batch
// tick). It is guarded by LockRepo so overlapping ticks for the same hour
// no-op, and by the operating window (I5): a tick outside
// [FirstBatchHour, LastBatchHour], or a leg whose BatchTime hasn't arrived
// yet, is skipped rather than settled early.
func (uc *UseCase) ProcessNEFTBatch(ctx context.Context, now time.Time) (*mmodel.BatchResult, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.neft_batch_tick")
	defer span.End()

	batchID := "NEFT" + now.Format("2006010215")

	if !withinHourWindow(now, uc.NEFT.FirstBatchHour, uc.NEFT.LastBatchHour) {
		logger.Infof("NEFT tick at %s outside operating window, skipping", now.Format(time.Kitchen))
		return &mmodel.BatchResult{BatchID: batchID, Status: mmodel.BatchCompleted}, nil
	}

	acquired, err := uc.LockRepo.AcquireLock(ctx, "neft-batch:"+batchID, 5*time.Minute)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to acquire batch lock", err)
		return nil, common.ValidateInternalError(err, eftTypeName)
	}

	if !acquired {
		logger.Infof("NEFT batch %s already in flight, skipping", batchID)
		return &mmodel.BatchResult{BatchID: batchID, Status: mmodel.BatchCompleted}, nil
	}

	defer func() {
		_ = uc.LockRepo.ReleaseLock(ctx, "neft-batch:"+batchID)
	}()

	queued, err := uc.EFTRepo.FindQueuedForBatch(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to load queued EFT transactions", err)
		return nil, common.ValidateInternalError(err, eftTypeName)
	}

	due := make([]*mmodel.EFTTransaction, 0, len(queued))

	for _, eft := range queued {
		if eft.BatchTime != nil && eft.BatchTime.After(now) {
			continue
		}

		due = append(due, eft)
	}

	result := &mmodel.BatchResult{BatchID: batchID, Total: len(due)}

	for _, eft := range due {
		if err := uc.processOneNEFTLeg(ctx, eft, batchID, now); err != nil {
			logger.Errorf("NEFT leg %s failed: %v", eft.EFTReference, err)
			result.Failed++

			continue
		}

		if eft.Status == mmodel.EFTFailed {
			result.Failed++

			continue
		}

		result.Completed++
	}

	if result.Failed == 0 {
		result.Status = mmodel.BatchCompleted
	} else {
		result.Status = mmodel.BatchPartiallyCompleted
	}

	return result, nil
}

// processOneNEFTLeg transitions one queued EFTTransaction through
// QUEUED -> PROCESSING -> COMPLETED|FAILED, calling the external gateway and
// settling (or refunding) the underlying hold (spec.md §4.3 steps 3-6).
func (uc *UseCase) processOneNEFTLeg(ctx context.Context, eft *mmodel.EFTTransaction, batchID string, now time.Time) error {
	return uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		eft.Status = mmodel.EFTProcessing
		eft.BatchID = &batchID

		if _, err := uc.EFTRepo.Update(ctx, eft); err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		processingTxnID, err := uuid.Parse(eft.TransactionID)
		if err != nil {
			return common.ValidateInternalError(err, eftTypeName)
		}

		processingTxn, err := uc.TransactionRepo.Find(ctx, processingTxnID)
		if err != nil {
			return err
		}

		gatewayErr := uc.EFTGateway.Submit(ctx, *eft)

		if gatewayErr == nil {
			settled, err := uc.SettleHold(ctx, processingTxn, HoldOutcome{Commit: true})
			if err != nil {
				return err
			}

			completion := now
			processedBy := "NEFT_BATCH_PROCESSOR"

			eft.Status = mmodel.EFTCompleted
			eft.ActualCompletion = &completion
			eft.ProcessedBy = &processedBy
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
}

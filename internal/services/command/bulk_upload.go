package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// ProcessBulkUpload posts one Ledger DEBIT or CREDIT per row, stamping every
// produced Transaction with a shared bulkUploadBatchId (spec.md §4.8). A
// failing row is recorded in the result and does not abort the batch; each
// row is its own independent postEntry write, not one all-or-nothing
// transaction.
func (uc *UseCase) ProcessBulkUpload(ctx context.Context, initiatedBy string, rows []mmodel.BulkUploadRow) (*mmodel.BulkUploadResult, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.bulk_upload_process")
	defer span.End()

	batchID := uc.RefGen.BatchID(uc.Clock.Now())

	logger.Infof("Trying to process bulk upload batch %s with %d rows", batchID, len(rows))

	result := &mmodel.BulkUploadResult{
		BulkUploadBatchID: batchID,
		Total:             len(rows),
		Rows:              make([]mmodel.BulkUploadRowResult, 0, len(rows)),
	}

	for _, row := range rows {
		rowResult := mmodel.BulkUploadRowResult{LineNumber: row.LineNumber}

		if err := uc.processBulkRow(ctx, initiatedBy, batchID, row); err != nil {
			mopentelemetry.HandleSpanError(&span, fmt.Sprintf("Row %d failed", row.LineNumber), err)

			msg := err.Error()
			rowResult.Success = false
			rowResult.Error = &msg
			result.Failed++

			if metaErr := uc.MetadataRepo.Create(ctx, "bulk_upload_row_errors", fmt.Sprintf("%s:%d", batchID, row.LineNumber), map[string]any{
				"accountId": row.AccountID,
				"type":      row.Type,
				"amount":    row.Amount.String(),
				"error":     msg,
			}); metaErr != nil {
				logger.Errorf("Failed to persist bulk upload row error: %v", metaErr)
			}
		} else {
			rowResult.Success = true
			result.Successful++
		}

		result.Rows = append(result.Rows, rowResult)
	}

	return result, nil
}

// processBulkRow validates and posts a single bulk-upload row as its own
// Ledger operation (DEBIT or CREDIT only; spec.md §4.8 excludes TRANSFER
// rows from bulk upload).
func (uc *UseCase) processBulkRow(ctx context.Context, initiatedBy, batchID string, row mmodel.BulkUploadRow) error {
	if row.Type != mmodel.TransactionDebit && row.Type != mmodel.TransactionCredit {
		return common.ValidateBusinessError(common.ErrUnsupportedBulkRowType, transactionTypeName)
	}

	accountID, err := uuid.Parse(row.AccountID)
	if err != nil {
		return common.ValidateBusinessError(common.ErrInvalidPathParameter, transactionTypeName)
	}

	return uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		_, err := uc.postBatchEntry(ctx, accountID, row.Amount, row.Type, row.Category, row.Description, initiatedBy, batchID)
		return err
	})
}

package in

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/command"
	"github.com/fernbank/core/internal/services/query"
)

var transactionTypeName = reflect.TypeOf(mmodel.Transaction{}).Name()

// TransactionHandler answers the Ledger journal endpoints of spec.md §6: the
// DEBIT/CREDIT/TRANSFER entrypoint, journal history, and bulk upload.
type TransactionHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateTransaction posts a single Ledger operation (spec.md §4.1).
// TRANSFER requires destinationAccountId; DEBIT/CREDIT act on accountId alone.
//
//	@Summary		Post a Ledger transaction
//	@Description	DEBIT, CREDIT or TRANSFER against one or two accounts
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string							true	"Bearer session token"
//	@Param			transaction		body		mmodel.CreateTransactionInput	true	"Transaction"
//	@Success		201				{object}	mmodel.Transaction
//	@Router			/transactions [post]
func (handler *TransactionHandler) CreateTransaction(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_transaction")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.CreateTransactionInput)

	accountID, err := uuid.Parse(payload.AccountID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	switch payload.Type {
	case mmodel.TransactionDebit:
		txn, err := handler.Command.Debit(ctx, accountID, payload.Amount, payload.Category, payload.Description, authz.UserID, false)
		if err != nil {
			return http.WithError(c, err)
		}

		return http.Created(c, txn)
	case mmodel.TransactionCredit:
		txn, err := handler.Command.Credit(ctx, accountID, payload.Amount, payload.Category, payload.Description, authz.UserID)
		if err != nil {
			return http.WithError(c, err)
		}

		return http.Created(c, txn)
	case mmodel.TransactionTransfer:
		if payload.DestinationAccountID == nil {
			return http.BadRequest(c, common.ValidateBusinessError(common.ErrBadRequest, transactionTypeName))
		}

		destID, err := uuid.Parse(*payload.DestinationAccountID)
		if err != nil {
			return http.BadRequest(c, err)
		}

		debitTxn, _, err := handler.Command.InternalTransfer(ctx, accountID, destID, payload.Amount, payload.Description, authz.UserID)
		if err != nil {
			return http.WithError(c, err)
		}

		return http.Created(c, debitTxn)
	default:
		return http.BadRequest(c, common.ValidateBusinessError(common.ErrBadRequest, transactionTypeName))
	}
}

// GetTransactionHistory lists an account's journal by account number
// (spec.md §6: owner or TRANSACTION_READ).
//
//	@Summary		Get an account's transaction history
//	@Tags			Transactions
//	@Produce		json
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Param			accountNumber	path	string	true	"Account number"
//	@Success		200				{object}	mmodel.Transactions
//	@Router			/transactions/history/{accountNumber} [get]
func (handler *TransactionHandler) GetTransactionHistory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_transaction_history")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	accountNumber := c.Params("accountNumber")

	account, err := handler.Query.AccountRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return http.WithError(c, err)
	}

	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	headerParams := http.ValidateParameters(c.Queries())

	txns, err := handler.Query.GetTransactionsByAccount(ctx, authz, accountID, headerParams.Page, headerParams.Limit)
	if err != nil {
		return http.WithError(c, err)
	}

	items := make([]mmodel.Transaction, 0, len(txns))
	for _, t := range txns {
		items = append(items, *t)
	}

	return http.OK(c, mmodel.Transactions{Items: items, Page: headerParams.Page, Limit: headerParams.Limit})
}

// BulkUpload processes a CSV file of DEBIT/CREDIT rows as one batch
// (spec.md §4.8): lineNumber,accountId,type,amount,category,description.
//
//	@Summary		Bulk upload transactions
//	@Description	Process a CSV file of DEBIT/CREDIT rows, each as its own Ledger operation
//	@Tags			Transactions
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Param			file			formData	file	true	"CSV file"
//	@Success		200				{object}	mmodel.BulkUploadResult
//	@Router			/transactions/bulk-upload [post]
func (handler *TransactionHandler) BulkUpload(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.bulk_upload")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return http.BadRequest(c, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return http.BadRequest(c, err)
	}
	defer file.Close()

	rows, err := parseBulkUploadCSV(file)
	if err != nil {
		return http.BadRequest(c, err)
	}

	result, err := handler.Command.ProcessBulkUpload(ctx, authz.UserID, rows)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, result)
}

func parseBulkUploadCSV(r io.Reader) ([]mmodel.BulkUploadRow, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]mmodel.BulkUploadRow, 0, len(records))

	for i, record := range records {
		if i == 0 && isBulkUploadHeader(record) {
			continue
		}

		if len(record) < 5 {
			return nil, fmt.Errorf("line %d: expected 5 columns, got %d", i+1, len(record))
		}

		amount, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", i+1, record[3], err)
		}

		rows = append(rows, mmodel.BulkUploadRow{
			LineNumber:  i + 1,
			AccountID:   record[1],
			Type:        mmodel.TransactionType(record[2]),
			Amount:      amount,
			Category:    record[4],
			Description: descriptionColumn(record),
		})
	}

	return rows, nil
}

func isBulkUploadHeader(record []string) bool {
	return len(record) > 0 && record[0] == "lineNumber"
}

func descriptionColumn(record []string) string {
	if len(record) > 5 {
		return record[5]
	}

	return ""
}

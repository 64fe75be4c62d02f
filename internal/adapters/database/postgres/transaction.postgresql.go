package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/dbtx"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mpostgres"
)

var transactionTypeName = reflect.TypeOf(mmodel.Transaction{}).Name()

type transactionRow struct {
	ID                   string
	TransactionReference string
	ExternalReference    *string
	AccountID            string
	DestinationAccountID *string
	Type                 string
	Amount               string
	Currency             string
	BalanceBefore        string
	BalanceAfter         string
	Status               string
	InitiatedBy          string
	ApprovedBy           *string
	Category             string
	Description          string
	BulkUploadBatchID    *string
	FailureReason        *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (r *transactionRow) fromEntity(t *mmodel.Transaction) {
	r.ID = t.ID
	r.TransactionReference = t.TransactionReference
	r.ExternalReference = t.ExternalReference
	r.AccountID = t.AccountID
	r.DestinationAccountID = t.DestinationAccountID
	r.Type = string(t.Type)
	r.Amount = t.Amount.String()
	r.Currency = t.Currency
	r.BalanceBefore = t.BalanceBefore.String()
	r.BalanceAfter = t.BalanceAfter.String()
	r.Status = string(t.Status)
	r.InitiatedBy = t.InitiatedBy
	r.ApprovedBy = t.ApprovedBy
	r.Category = t.Category
	r.Description = t.Description
	r.BulkUploadBatchID = t.BulkUploadBatchID
	r.FailureReason = t.FailureReason
	r.CreatedAt = t.CreatedAt
	r.UpdatedAt = t.UpdatedAt
}

func (r *transactionRow) toEntity() *mmodel.Transaction {
	return &mmodel.Transaction{
		ID:                   r.ID,
		TransactionReference: r.TransactionReference,
		ExternalReference:    r.ExternalReference,
		AccountID:            r.AccountID,
		DestinationAccountID: r.DestinationAccountID,
		Type:                 mmodel.TransactionType(r.Type),
		Amount:               common.MustParseDecimal(r.Amount),
		Currency:             r.Currency,
		BalanceBefore:        common.MustParseDecimal(r.BalanceBefore),
		BalanceAfter:         common.MustParseDecimal(r.BalanceAfter),
		Status:               mmodel.TransactionStatus(r.Status),
		InitiatedBy:          r.InitiatedBy,
		ApprovedBy:           r.ApprovedBy,
		Category:             r.Category,
		Description:          r.Description,
		BulkUploadBatchID:    r.BulkUploadBatchID,
		FailureReason:        r.FailureReason,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

const transactionColumns = `id, transaction_reference, external_reference, account_id, destination_account_id,
	type, amount, currency, balance_before, balance_after, status, initiated_by, approved_by, category,
	description, bulk_upload_batch_id, failure_reason, created_at, updated_at`

// TransactionPostgreSQLRepository is a Postgres-backed
// ports.TransactionRepository persisting the append-only journal.
type TransactionPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewTransactionPostgreSQLRepository returns a new TransactionPostgreSQLRepository.
func NewTransactionPostgreSQLRepository(pc *mpostgres.PostgresConnection) *TransactionPostgreSQLRepository {
	return &TransactionPostgreSQLRepository{connection: pc, tableName: "transactions"}
}

// Create appends a Transaction row (spec.md §3: append-only once COMPLETED/FAILED).
func (r *TransactionPostgreSQLRepository) Create(ctx context.Context, txn *mmodel.Transaction) (*mmodel.Transaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &transactionRow{}
	row.fromEntity(txn)

	_, err = executor.ExecContext(ctx, `INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		row.ID, row.TransactionReference, row.ExternalReference, row.AccountID, row.DestinationAccountID,
		row.Type, row.Amount, row.Currency, row.BalanceBefore, row.BalanceAfter, row.Status, row.InitiatedBy,
		row.ApprovedBy, row.Category, row.Description, row.BulkUploadBatchID, row.FailureReason, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, transactionTypeName)
		}

		return nil, err
	}

	return row.toEntity(), nil
}

func (r *TransactionPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.Transaction, error) {
	t := &transactionRow{}

	if err := row.Scan(&t.ID, &t.TransactionReference, &t.ExternalReference, &t.AccountID, &t.DestinationAccountID,
		&t.Type, &t.Amount, &t.Currency, &t.BalanceBefore, &t.BalanceAfter, &t.Status, &t.InitiatedBy, &t.ApprovedBy,
		&t.Category, &t.Description, &t.BulkUploadBatchID, &t.FailureReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrTransactionNotFound, transactionTypeName)
		}

		return nil, err
	}

	return t.toEntity(), nil
}

// Find retrieves a Transaction by id.
func (r *TransactionPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindByReference retrieves a Transaction by its transactionReference (I7).
func (r *TransactionPostgreSQLRepository) FindByReference(ctx context.Context, reference string) (*mmodel.Transaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_reference = $1`, reference)

	return r.scanRow(row)
}

// UpdateStatus flips a PROCESSING row to COMPLETED or FAILED exactly once
// (spec.md §3, §4.1 SettleHold).
func (r *TransactionPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.TransactionStatus, failureReason *string) (*mmodel.Transaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE transactions SET status = $1, failure_reason = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		string(status), failureReason, time.Now(), id, string(mmodel.TransactionProcessing))
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrInvalidEFTState, transactionTypeName)
	}

	return r.Find(ctx, id)
}

// FindByAccountID lists an account's journal, newest first, paginated.
func (r *TransactionPostgreSQLRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*mmodel.Transaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	query, args, err := sqrl.Select("id", "transaction_reference", "external_reference", "account_id",
		"destination_account_id", "type", "amount", "currency", "balance_before", "balance_after", "status",
		"initiated_by", "approved_by", "category", "description", "bulk_upload_batch_id", "failure_reason",
		"created_at", "updated_at").
		From(r.tableName).
		Where(sqrl.Eq{"account_id": accountID}).
		OrderBy("created_at DESC").
		Limit(common.SafeIntToUint64(limit)).
		Offset(common.SafeIntToUint64((page - 1) * limit)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*mmodel.Transaction

	for rows.Next() {
		t := &transactionRow{}
		if err := rows.Scan(&t.ID, &t.TransactionReference, &t.ExternalReference, &t.AccountID, &t.DestinationAccountID,
			&t.Type, &t.Amount, &t.Currency, &t.BalanceBefore, &t.BalanceAfter, &t.Status, &t.InitiatedBy, &t.ApprovedBy,
			&t.Category, &t.Description, &t.BulkUploadBatchID, &t.FailureReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}

		txns = append(txns, t.toEntity())
	}

	return txns, rows.Err()
}

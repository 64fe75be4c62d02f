package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/dbtx"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mpostgres"
)

var eftTypeName = reflect.TypeOf(mmodel.EFTTransaction{}).Name()

type eftRow struct {
	ID                  string
	EFTReference        string
	EFTType             string
	SourceAccountID     string
	BeneficiaryID       string
	BeneficiaryName     string
	BeneficiaryAccount  string
	BeneficiaryIFSC     string
	BeneficiaryBank     *string
	Amount              string
	Charges             string
	TotalAmount         string
	Status              string
	BatchID             *string
	BatchTime           *time.Time
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
	TransactionID       string
	ProcessedBy         *string
	FailureReason       *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (r *eftRow) fromEntity(e *mmodel.EFTTransaction) {
	r.ID = e.ID
	r.EFTReference = e.EFTReference
	r.EFTType = string(e.EFTType)
	r.SourceAccountID = e.SourceAccountID
	r.BeneficiaryID = e.BeneficiaryID
	r.BeneficiaryName = e.BeneficiaryName
	r.BeneficiaryAccount = e.BeneficiaryAccount
	r.BeneficiaryIFSC = e.BeneficiaryIFSC

	if e.BeneficiaryBank != "" {
		r.BeneficiaryBank = &e.BeneficiaryBank
	}

	r.Amount = e.Amount.String()
	r.Charges = e.Charges.String()
	r.TotalAmount = e.TotalAmount.String()
	r.Status = string(e.Status)
	r.BatchID = e.BatchID
	r.BatchTime = e.BatchTime
	r.EstimatedCompletion = e.EstimatedCompletion
	r.ActualCompletion = e.ActualCompletion
	r.TransactionID = e.TransactionID
	r.ProcessedBy = e.ProcessedBy
	r.FailureReason = e.FailureReason
	r.CreatedAt = e.CreatedAt
	r.UpdatedAt = e.UpdatedAt
}

func (r *eftRow) toEntity() *mmodel.EFTTransaction {
	var bank string
	if r.BeneficiaryBank != nil {
		bank = *r.BeneficiaryBank
	}

	return &mmodel.EFTTransaction{
		ID:                  r.ID,
		EFTReference:        r.EFTReference,
		EFTType:             mmodel.EFTType(r.EFTType),
		SourceAccountID:     r.SourceAccountID,
		BeneficiaryID:       r.BeneficiaryID,
		BeneficiaryName:     r.BeneficiaryName,
		BeneficiaryAccount:  r.BeneficiaryAccount,
		BeneficiaryIFSC:     r.BeneficiaryIFSC,
		BeneficiaryBank:     bank,
		Amount:              common.MustParseDecimal(r.Amount),
		Charges:             common.MustParseDecimal(r.Charges),
		TotalAmount:         common.MustParseDecimal(r.TotalAmount),
		Status:              mmodel.EFTStatus(r.Status),
		BatchID:             r.BatchID,
		BatchTime:           r.BatchTime,
		EstimatedCompletion: r.EstimatedCompletion,
		ActualCompletion:    r.ActualCompletion,
		TransactionID:       r.TransactionID,
		ProcessedBy:         r.ProcessedBy,
		FailureReason:       r.FailureReason,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

const eftColumns = `id, eft_reference, eft_type, source_account_id, beneficiary_id, beneficiary_name,
	beneficiary_account, beneficiary_ifsc, beneficiary_bank, amount, charges, total_amount, status, batch_id,
	batch_time, estimated_completion, actual_completion, transaction_id, processed_by, failure_reason, created_at, updated_at`

// EFTPostgreSQLRepository is a Postgres-backed ports.EFTRepository for the
// NEFT/RTGS external-settlement rails (spec.md §4.3, §4.4).
type EFTPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewEFTPostgreSQLRepository returns a new EFTPostgreSQLRepository.
func NewEFTPostgreSQLRepository(pc *mpostgres.PostgresConnection) *EFTPostgreSQLRepository {
	return &EFTPostgreSQLRepository{connection: pc, tableName: "eft_transactions"}
}

// Create inserts a new EFT transaction row.
func (r *EFTPostgreSQLRepository) Create(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &eftRow{}
	row.fromEntity(eft)

	_, err = executor.ExecContext(ctx, `INSERT INTO eft_transactions (`+eftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		row.ID, row.EFTReference, row.EFTType, row.SourceAccountID, row.BeneficiaryID, row.BeneficiaryName,
		row.BeneficiaryAccount, row.BeneficiaryIFSC, row.BeneficiaryBank, row.Amount, row.Charges, row.TotalAmount,
		row.Status, row.BatchID, row.BatchTime, row.EstimatedCompletion, row.ActualCompletion, row.TransactionID,
		row.ProcessedBy, row.FailureReason, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, eftTypeName)
		}

		return nil, err
	}

	return row.toEntity(), nil
}

func (r *EFTPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.EFTTransaction, error) {
	e := &eftRow{}

	if err := row.Scan(&e.ID, &e.EFTReference, &e.EFTType, &e.SourceAccountID, &e.BeneficiaryID, &e.BeneficiaryName,
		&e.BeneficiaryAccount, &e.BeneficiaryIFSC, &e.BeneficiaryBank, &e.Amount, &e.Charges, &e.TotalAmount,
		&e.Status, &e.BatchID, &e.BatchTime, &e.EstimatedCompletion, &e.ActualCompletion, &e.TransactionID,
		&e.ProcessedBy, &e.FailureReason, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrEFTNotFound, eftTypeName)
		}

		return nil, err
	}

	return e.toEntity(), nil
}

// Find retrieves an EFT transaction by id.
func (r *EFTPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.EFTTransaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+eftColumns+` FROM eft_transactions WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindByReference retrieves an EFT transaction by its eftReference.
func (r *EFTPostgreSQLRepository) FindByReference(ctx context.Context, reference string) (*mmodel.EFTTransaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+eftColumns+` FROM eft_transactions WHERE eft_reference = $1`, reference)

	return r.scanRow(row)
}

// FindQueuedForBatch lists the rows the hourly batch tick must pick up
// (spec.md §4.3 step 6): status PENDING or QUEUED, oldest first. SubmitNEFT
// (I5) leaves a new hold in PENDING and nothing transitions it to QUEUED
// before the tick runs, so both statuses must be selected here or every
// NEFT would stay PENDING forever.
func (r *EFTPostgreSQLRepository) FindQueuedForBatch(ctx context.Context) ([]*mmodel.EFTTransaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	rows, err := executor.QueryContext(ctx, `SELECT `+eftColumns+` FROM eft_transactions WHERE status IN ($1, $2) ORDER BY created_at ASC`,
		string(mmodel.EFTPending), string(mmodel.EFTQueued))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var efts []*mmodel.EFTTransaction

	for rows.Next() {
		e := &eftRow{}
		if err := rows.Scan(&e.ID, &e.EFTReference, &e.EFTType, &e.SourceAccountID, &e.BeneficiaryID, &e.BeneficiaryName,
			&e.BeneficiaryAccount, &e.BeneficiaryIFSC, &e.BeneficiaryBank, &e.Amount, &e.Charges, &e.TotalAmount,
			&e.Status, &e.BatchID, &e.BatchTime, &e.EstimatedCompletion, &e.ActualCompletion, &e.TransactionID,
			&e.ProcessedBy, &e.FailureReason, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}

		efts = append(efts, e.toEntity())
	}

	return efts, rows.Err()
}

// Update persists the full row — the NEFT/RTGS state machine (PENDING ->
// QUEUED -> PROCESSING -> COMPLETED/FAILED, spec.md §4.3/§4.4) touches
// enough columns at once (status, batchId, processedBy, completion times,
// failureReason) that a whole-row rewrite is simpler than per-transition
// partial updates.
func (r *EFTPostgreSQLRepository) Update(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &eftRow{}
	row.fromEntity(eft)
	row.UpdatedAt = time.Now()

	result, err := executor.ExecContext(ctx, `UPDATE eft_transactions SET status = $1, batch_id = $2, batch_time = $3,
		estimated_completion = $4, actual_completion = $5, processed_by = $6, failure_reason = $7, updated_at = $8
		WHERE id = $9`,
		row.Status, row.BatchID, row.BatchTime, row.EstimatedCompletion, row.ActualCompletion, row.ProcessedBy,
		row.FailureReason, row.UpdatedAt, row.ID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrEFTNotFound, eftTypeName)
	}

	return r.Find(ctx, uuid.MustParse(row.ID))
}

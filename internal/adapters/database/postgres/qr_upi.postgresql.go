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

var (
	qrRequestTypeName = reflect.TypeOf(mmodel.QRRequest{}).Name()
	upiTypeName       = reflect.TypeOf(mmodel.UPIIdentifier{}).Name()
)

type qrRequestRow struct {
	ID                  string
	ReceiverAccountID   string
	Amount              string
	Status              string
	ExpiresAt           time.Time
	PaidBy              *string
	PaidAt              *time.Time
	DebitTransactionID  *string
	CreditTransactionID *string
	CreatedAt           time.Time
}

func (r *qrRequestRow) toEntity() *mmodel.QRRequest {
	return &mmodel.QRRequest{
		ID:                  r.ID,
		ReceiverAccountID:   r.ReceiverAccountID,
		Amount:              common.MustParseDecimal(r.Amount),
		Status:              mmodel.QRRequestStatus(r.Status),
		ExpiresAt:           r.ExpiresAt,
		PaidBy:              r.PaidBy,
		PaidAt:              r.PaidAt,
		DebitTransactionID:  r.DebitTransactionID,
		CreditTransactionID: r.CreditTransactionID,
		CreatedAt:           r.CreatedAt,
	}
}

const qrRequestColumns = `id, receiver_account_id, amount, status, expires_at, paid_by, paid_at,
	debit_transaction_id, credit_transaction_id, created_at`

// QRPostgreSQLRepository is a Postgres-backed ports.QRRepository for
// one-shot QR payment intents (spec.md §4.6).
type QRPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
}

// NewQRPostgreSQLRepository returns a new QRPostgreSQLRepository.
func NewQRPostgreSQLRepository(pc *mpostgres.PostgresConnection) *QRPostgreSQLRepository {
	return &QRPostgreSQLRepository{connection: pc}
}

// Create inserts a new QR payment intent, PENDING until paid or expired.
func (r *QRPostgreSQLRepository) Create(ctx context.Context, req *mmodel.QRRequest) (*mmodel.QRRequest, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	_, err = executor.ExecContext(ctx, `INSERT INTO qr_requests (`+qrRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.ReceiverAccountID, req.Amount.String(), string(req.Status), req.ExpiresAt, req.PaidBy,
		req.PaidAt, req.DebitTransactionID, req.CreditTransactionID, req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, qrRequestTypeName)
		}

		return nil, err
	}

	return req, nil
}

func (r *QRPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.QRRequest, error) {
	q := &qrRequestRow{}

	if err := row.Scan(&q.ID, &q.ReceiverAccountID, &q.Amount, &q.Status, &q.ExpiresAt, &q.PaidBy, &q.PaidAt,
		&q.DebitTransactionID, &q.CreditTransactionID, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrQRRequestNotFound, qrRequestTypeName)
		}

		return nil, err
	}

	return q.toEntity(), nil
}

// Find retrieves a QR payment intent by id.
func (r *QRPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.QRRequest, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+qrRequestColumns+` FROM qr_requests WHERE id = $1`, id)

	return r.scanRow(row)
}

// MarkPaid transitions a QR request PENDING -> PAID exactly once, stamping
// the payer and the two Ledger legs it produced (spec.md §4.6).
func (r *QRPostgreSQLRepository) MarkPaid(ctx context.Context, id uuid.UUID, payerUserID string, paidAt time.Time, debitTxnID, creditTxnID string) (*mmodel.QRRequest, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE qr_requests SET status = $1, paid_by = $2, paid_at = $3,
		debit_transaction_id = $4, credit_transaction_id = $5
		WHERE id = $6 AND status = $7`,
		string(mmodel.QRRequestPaid), payerUserID, paidAt, debitTxnID, creditTxnID, id, string(mmodel.QRRequestPending))
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrQRAlreadyPaid, qrRequestTypeName)
	}

	return r.Find(ctx, id)
}

type upiRow struct {
	ID        string
	UPIID     string
	UserID    string
	AccountID string
	Status    string
	CreatedAt time.Time
}

func (r *upiRow) toEntity() *mmodel.UPIIdentifier {
	return &mmodel.UPIIdentifier{
		ID:        r.ID,
		UPIID:     r.UPIID,
		UserID:    r.UserID,
		AccountID: r.AccountID,
		Status:    mmodel.UPIStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

const upiColumns = `id, upi_id, user_id, account_id, status, created_at`

// UPIPostgreSQLRepository is a Postgres-backed ports.UPIRepository for
// injective UPI-id -> (user, account) aliases (spec.md §4.6).
type UPIPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
}

// NewUPIPostgreSQLRepository returns a new UPIPostgreSQLRepository.
func NewUPIPostgreSQLRepository(pc *mpostgres.PostgresConnection) *UPIPostgreSQLRepository {
	return &UPIPostgreSQLRepository{connection: pc}
}

// Create inserts a new UPI alias.
func (r *UPIPostgreSQLRepository) Create(ctx context.Context, upi *mmodel.UPIIdentifier) (*mmodel.UPIIdentifier, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	_, err = executor.ExecContext(ctx, `INSERT INTO upi_identifiers (`+upiColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		upi.ID, upi.UPIID, upi.UserID, upi.AccountID, string(upi.Status), upi.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, upiTypeName)
		}

		return nil, err
	}

	return upi, nil
}

// FindByUPIID resolves a UPI alias to its (user, account) binding — the
// lookup SendViaUPI runs before delegating to the internal transfer
// (spec.md §4.6).
func (r *UPIPostgreSQLRepository) FindByUPIID(ctx context.Context, upiID string) (*mmodel.UPIIdentifier, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+upiColumns+` FROM upi_identifiers WHERE upi_id = $1`, upiID)

	u := &upiRow{}

	if err := row.Scan(&u.ID, &u.UPIID, &u.UserID, &u.AccountID, &u.Status, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrUPIIDNotFound, upiTypeName)
		}

		return nil, err
	}

	return u.toEntity(), nil
}

// Deactivate flips a UPI alias to INACTIVE (deregistration never deletes the
// row, preserving the audit trail of past resolutions).
func (r *UPIPostgreSQLRepository) Deactivate(ctx context.Context, upiID string) error {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE upi_identifiers SET status = $1 WHERE upi_id = $2`,
		string(mmodel.UPIInactive), upiID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return common.ValidateBusinessError(common.ErrUPIIDNotFound, upiTypeName)
	}

	return nil
}

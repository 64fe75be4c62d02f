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

var beneficiaryTypeName = reflect.TypeOf(mmodel.Beneficiary{}).Name()

type beneficiaryRow struct {
	ID            string
	CustomerID    string
	PayeeName     string
	AccountNumber string
	IFSCCode      string
	BankName      *string
	BranchName    *string
	ContactNumber *string
	IsVerified    bool
	Status        string
	LastUsedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *beneficiaryRow) fromEntity(b *mmodel.Beneficiary) {
	r.ID = b.ID
	r.CustomerID = b.CustomerID
	r.PayeeName = b.PayeeName
	r.AccountNumber = b.AccountNumber
	r.IFSCCode = b.IFSCCode

	if b.BankName != "" {
		r.BankName = &b.BankName
	}

	if b.BranchName != "" {
		r.BranchName = &b.BranchName
	}

	if b.ContactNumber != "" {
		r.ContactNumber = &b.ContactNumber
	}

	r.IsVerified = b.IsVerified
	r.Status = string(b.Status)
	r.LastUsedAt = b.LastUsedAt
	r.CreatedAt = b.CreatedAt
	r.UpdatedAt = b.UpdatedAt
}

func (r *beneficiaryRow) toEntity() *mmodel.Beneficiary {
	b := &mmodel.Beneficiary{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		PayeeName:     r.PayeeName,
		AccountNumber: r.AccountNumber,
		IFSCCode:      r.IFSCCode,
		IsVerified:    r.IsVerified,
		Status:        mmodel.BeneficiaryStatus(r.Status),
		LastUsedAt:    r.LastUsedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	if r.BankName != nil {
		b.BankName = *r.BankName
	}

	if r.BranchName != nil {
		b.BranchName = *r.BranchName
	}

	if r.ContactNumber != nil {
		b.ContactNumber = *r.ContactNumber
	}

	return b
}

const beneficiaryColumns = `id, customer_id, payee_name, account_number, ifsc_code, bank_name, branch_name,
	contact_number, is_verified, status, last_used_at, created_at, updated_at`

// BeneficiaryPostgreSQLRepository is a Postgres-backed ports.BeneficiaryRepository
// for the external-payee registry (spec.md §4.5).
type BeneficiaryPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewBeneficiaryPostgreSQLRepository returns a new BeneficiaryPostgreSQLRepository.
func NewBeneficiaryPostgreSQLRepository(pc *mpostgres.PostgresConnection) *BeneficiaryPostgreSQLRepository {
	return &BeneficiaryPostgreSQLRepository{connection: pc, tableName: "beneficiaries"}
}

// Create inserts a new beneficiary, PENDING_VERIFICATION until an admin acts.
func (r *BeneficiaryPostgreSQLRepository) Create(ctx context.Context, beneficiary *mmodel.Beneficiary) (*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &beneficiaryRow{}
	row.fromEntity(beneficiary)

	_, err = executor.ExecContext(ctx, `INSERT INTO beneficiaries (`+beneficiaryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		row.ID, row.CustomerID, row.PayeeName, row.AccountNumber, row.IFSCCode, row.BankName, row.BranchName,
		row.ContactNumber, row.IsVerified, row.Status, row.LastUsedAt, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, beneficiaryTypeName)
		}

		return nil, err
	}

	return row.toEntity(), nil
}

func (r *BeneficiaryPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.Beneficiary, error) {
	b := &beneficiaryRow{}

	if err := row.Scan(&b.ID, &b.CustomerID, &b.PayeeName, &b.AccountNumber, &b.IFSCCode, &b.BankName, &b.BranchName,
		&b.ContactNumber, &b.IsVerified, &b.Status, &b.LastUsedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrBeneficiaryNotFound, beneficiaryTypeName)
		}

		return nil, err
	}

	return b.toEntity(), nil
}

// Find retrieves a beneficiary by id.
func (r *BeneficiaryPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindByCustomerID lists a customer's beneficiary registry.
func (r *BeneficiaryPostgreSQLRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	rows, err := r.queryList(ctx, executor, sqrl.Eq{"customer_id": customerID}, "created_at ASC", 0, 0)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// FindDuplicate looks up an existing (customer, accountNumber, ifscCode)
// triple to enforce uniqueness ahead of insert (spec.md §4.5 edge case).
func (r *BeneficiaryPostgreSQLRepository) FindDuplicate(ctx context.Context, customerID uuid.UUID, accountNumber, ifscCode string) (*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+beneficiaryColumns+` FROM beneficiaries
		WHERE customer_id = $1 AND account_number = $2 AND ifsc_code = $3`,
		customerID, accountNumber, ifscCode)

	return r.scanRow(row)
}

// FindByStatus lists beneficiaries pending the admin verification queue
// (spec.md §4.5), paginated.
func (r *BeneficiaryPostgreSQLRepository) FindByStatus(ctx context.Context, status mmodel.BeneficiaryStatus, page, limit int) ([]*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	return r.queryList(ctx, executor, sqrl.Eq{"status": string(status)}, "created_at ASC", page, limit)
}

func (r *BeneficiaryPostgreSQLRepository) queryList(ctx context.Context, executor dbtx.Executor, where sqrl.Eq, orderBy string, page, limit int) ([]*mmodel.Beneficiary, error) {
	builder := sqrl.Select("id", "customer_id", "payee_name", "account_number", "ifsc_code", "bank_name",
		"branch_name", "contact_number", "is_verified", "status", "last_used_at", "created_at", "updated_at").
		From(r.tableName).
		Where(where).
		OrderBy(orderBy).
		PlaceholderFormat(sqrl.Dollar)

	if limit > 0 {
		builder = builder.Limit(common.SafeIntToUint64(limit)).Offset(common.SafeIntToUint64((page - 1) * limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beneficiaries []*mmodel.Beneficiary

	for rows.Next() {
		b := &beneficiaryRow{}
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.PayeeName, &b.AccountNumber, &b.IFSCCode, &b.BankName,
			&b.BranchName, &b.ContactNumber, &b.IsVerified, &b.Status, &b.LastUsedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}

		beneficiaries = append(beneficiaries, b.toEntity())
	}

	return beneficiaries, rows.Err()
}

// Update persists payee/contact edits and status transitions alike — every
// field but the (customerId, accountNumber, ifscCode) identity triple is
// mutable over a beneficiary's life (spec.md §4.5).
func (r *BeneficiaryPostgreSQLRepository) Update(ctx context.Context, beneficiary *mmodel.Beneficiary) (*mmodel.Beneficiary, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &beneficiaryRow{}
	row.fromEntity(beneficiary)
	row.UpdatedAt = time.Now()

	result, err := executor.ExecContext(ctx, `UPDATE beneficiaries SET payee_name = $1, contact_number = $2,
		is_verified = $3, status = $4, updated_at = $5 WHERE id = $6`,
		row.PayeeName, row.ContactNumber, row.IsVerified, row.Status, row.UpdatedAt, row.ID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrBeneficiaryNotFound, beneficiaryTypeName)
	}

	return r.Find(ctx, uuid.MustParse(row.ID))
}

// MarkUsed stamps lastUsedAt on successful EFT use (I8).
func (r *BeneficiaryPostgreSQLRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return err
	}

	executor := dbtx.GetExecutor(ctx, db)

	_, err = executor.ExecContext(ctx, `UPDATE beneficiaries SET last_used_at = $1, updated_at = $1 WHERE id = $2`, usedAt, id)

	return err
}

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

var accountTypeName = reflect.TypeOf(mmodel.Account{}).Name()

// accountRow is the Postgres row shape for mmodel.Account, grounded on the
// teacher's AccountPostgreSQLModel/FromEntity/ToEntity triad
// (account.postgresql.go).
type accountRow struct {
	ID                   string
	CustomerID           string
	AccountNumber        string
	AccountType          string
	Balance              string
	AvailableBalance     string
	MinimumBalance       string
	Currency             string
	Status               string
	LastTransactionDate  *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (r *accountRow) fromEntity(a *mmodel.Account) {
	r.ID = a.ID
	r.CustomerID = a.CustomerID
	r.AccountNumber = a.AccountNumber
	r.AccountType = a.AccountType
	r.Balance = a.Balance.String()
	r.AvailableBalance = a.AvailableBalance.String()
	r.MinimumBalance = a.MinimumBalance.String()
	r.Currency = a.Currency
	r.Status = string(a.Status)
	r.LastTransactionDate = a.LastTransactionDate
	r.CreatedAt = a.CreatedAt
	r.UpdatedAt = a.UpdatedAt
}

func (r *accountRow) toEntity() *mmodel.Account {
	return &mmodel.Account{
		ID:                  r.ID,
		CustomerID:          r.CustomerID,
		AccountNumber:       r.AccountNumber,
		AccountType:         r.AccountType,
		Balance:             common.MustParseDecimal(r.Balance),
		AvailableBalance:    common.MustParseDecimal(r.AvailableBalance),
		MinimumBalance:      common.MustParseDecimal(r.MinimumBalance),
		Currency:            r.Currency,
		Status:              mmodel.AccountStatus(r.Status),
		LastTransactionDate: r.LastTransactionDate,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// AccountPostgreSQLRepository is a Postgres-backed ports.AccountRepository.
type AccountPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewAccountPostgreSQLRepository returns a new AccountPostgreSQLRepository.
func NewAccountPostgreSQLRepository(pc *mpostgres.PostgresConnection) *AccountPostgreSQLRepository {
	return &AccountPostgreSQLRepository{connection: pc, tableName: "accounts"}
}

// Create inserts a new account row.
func (r *AccountPostgreSQLRepository) Create(ctx context.Context, account *mmodel.Account) (*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &accountRow{}
	row.fromEntity(account)

	_, err = executor.ExecContext(ctx, `INSERT INTO accounts
		(id, customer_id, account_number, account_type, balance, available_balance, minimum_balance, currency, status, last_transaction_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		row.ID, row.CustomerID, row.AccountNumber, row.AccountType, row.Balance, row.AvailableBalance,
		row.MinimumBalance, row.Currency, row.Status, row.LastTransactionDate, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, accountTypeName)
		}

		return nil, err
	}

	return row.toEntity(), nil
}

func (r *AccountPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.Account, error) {
	acc := &accountRow{}

	if err := row.Scan(&acc.ID, &acc.CustomerID, &acc.AccountNumber, &acc.AccountType, &acc.Balance,
		&acc.AvailableBalance, &acc.MinimumBalance, &acc.Currency, &acc.Status, &acc.LastTransactionDate,
		&acc.CreatedAt, &acc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrAccountNotFound, accountTypeName)
		}

		return nil, err
	}

	return acc.toEntity(), nil
}

// Find retrieves an account by id, read-only (no row lock).
func (r *AccountPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT id, customer_id, account_number, account_type, balance,
		available_balance, minimum_balance, currency, status, last_transaction_date, created_at, updated_at
		FROM accounts WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindForUpdate retrieves an account with a row-level lock, serializing
// Ledger operations at the account-row grain (spec.md §4.1, §5).
func (r *AccountPostgreSQLRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT id, customer_id, account_number, account_type, balance,
		available_balance, minimum_balance, currency, status, last_transaction_date, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE`, id)

	return r.scanRow(row)
}

// FindByAccountNumber retrieves an account by its externally visible number.
func (r *AccountPostgreSQLRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT id, customer_id, account_number, account_type, balance,
		available_balance, minimum_balance, currency, status, last_transaction_date, created_at, updated_at
		FROM accounts WHERE account_number = $1`, accountNumber)

	return r.scanRow(row)
}

// FindByCustomerID lists every account belonging to a customer.
func (r *AccountPostgreSQLRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	query, args, err := sqrl.Select("id", "customer_id", "account_number", "account_type", "balance",
		"available_balance", "minimum_balance", "currency", "status", "last_transaction_date", "created_at", "updated_at").
		From(r.tableName).
		Where(sqrl.Eq{"customer_id": customerID}).
		OrderBy("created_at ASC").
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

	var accounts []*mmodel.Account

	for rows.Next() {
		acc := &accountRow{}
		if err := rows.Scan(&acc.ID, &acc.CustomerID, &acc.AccountNumber, &acc.AccountType, &acc.Balance,
			&acc.AvailableBalance, &acc.MinimumBalance, &acc.Currency, &acc.Status, &acc.LastTransactionDate,
			&acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, err
		}

		accounts = append(accounts, acc.toEntity())
	}

	return accounts, rows.Err()
}

// UpdateBalances persists balance/availableBalance/lastTransactionDate —
// the only fields the Ledger is ever allowed to mutate (spec.md §4.1).
func (r *AccountPostgreSQLRepository) UpdateBalances(ctx context.Context, account *mmodel.Account) error {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE accounts SET balance = $1, available_balance = $2,
		last_transaction_date = $3, updated_at = $4 WHERE id = $5`,
		account.Balance.String(), account.AvailableBalance.String(), account.LastTransactionDate, time.Now(), account.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return validatePGError(pgErr, accountTypeName)
		}

		return err
	}

	return r.checkRowsAffected(result)
}

// UpdateStatus transitions an account's status (e.g. opening or closing it).
func (r *AccountPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.AccountStatus) (*mmodel.Account, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE accounts SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id)
	if err != nil {
		return nil, err
	}

	if err := r.checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.Find(ctx, id)
}

func (r *AccountPostgreSQLRepository) checkRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return common.ValidateBusinessError(common.ErrAccountNotFound, accountTypeName)
	}

	return nil
}

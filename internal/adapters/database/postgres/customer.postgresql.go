package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
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

var customerTypeName = reflect.TypeOf(mmodel.Customer{}).Name()

type customerRow struct {
	ID             string
	UserID         string
	CustomerNumber string
	FirstName      string
	LastName       string
	NationalID     string
	DateOfBirth    string
	Status         string
	OtherInfo      []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *customerRow) fromEntity(c *mmodel.Customer) error {
	r.ID = c.ID
	r.UserID = c.UserID
	r.CustomerNumber = c.CustomerNumber
	r.FirstName = c.FirstName
	r.LastName = c.LastName
	r.NationalID = c.NationalID
	r.DateOfBirth = c.DateOfBirth
	r.Status = string(c.Status)
	r.CreatedAt = c.CreatedAt
	r.UpdatedAt = c.UpdatedAt

	otherInfo, err := json.Marshal(c.OtherInfo)
	if err != nil {
		return err
	}

	r.OtherInfo = otherInfo

	return nil
}

func (r *customerRow) toEntity() (*mmodel.Customer, error) {
	c := &mmodel.Customer{
		ID:             r.ID,
		UserID:         r.UserID,
		CustomerNumber: r.CustomerNumber,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		NationalID:     r.NationalID,
		DateOfBirth:    r.DateOfBirth,
		Status:         mmodel.CustomerStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}

	if len(r.OtherInfo) > 0 {
		if err := json.Unmarshal(r.OtherInfo, &c.OtherInfo); err != nil {
			return nil, err
		}
	}

	return c, nil
}

const customerColumns = `id, user_id, customer_number, first_name, last_name, national_id, date_of_birth,
	status, other_info, created_at, updated_at`

// CustomerPostgreSQLRepository is a Postgres-backed ports.CustomerRepository.
type CustomerPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewCustomerPostgreSQLRepository returns a new CustomerPostgreSQLRepository.
func NewCustomerPostgreSQLRepository(pc *mpostgres.PostgresConnection) *CustomerPostgreSQLRepository {
	return &CustomerPostgreSQLRepository{connection: pc, tableName: "customers"}
}

// Create inserts a new customer, PENDING_REVIEW until an admin acts
// (spec.md §4.7 step 2).
func (r *CustomerPostgreSQLRepository) Create(ctx context.Context, customer *mmodel.Customer) (*mmodel.Customer, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &customerRow{}
	if err := row.fromEntity(customer); err != nil {
		return nil, err
	}

	_, err = executor.ExecContext(ctx, `INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.ID, row.UserID, row.CustomerNumber, row.FirstName, row.LastName, row.NationalID, row.DateOfBirth,
		row.Status, row.OtherInfo, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, customerTypeName)
		}

		return nil, err
	}

	return row.toEntity()
}

func (r *CustomerPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.Customer, error) {
	c := &customerRow{}

	if err := row.Scan(&c.ID, &c.UserID, &c.CustomerNumber, &c.FirstName, &c.LastName, &c.NationalID,
		&c.DateOfBirth, &c.Status, &c.OtherInfo, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrCustomerNotFound, customerTypeName)
		}

		return nil, err
	}

	return c.toEntity()
}

// Find retrieves a customer by id.
func (r *CustomerPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.Customer, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindByUserID retrieves the customer profile linked to a user, if any.
func (r *CustomerPostgreSQLRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*mmodel.Customer, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1`, userID)

	return r.scanRow(row)
}

// Update persists profile edits, including otherInfo (e.g. a rejection
// reason appended on RejectUser, spec.md §4.7).
func (r *CustomerPostgreSQLRepository) Update(ctx context.Context, customer *mmodel.Customer) (*mmodel.Customer, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &customerRow{}
	if err := row.fromEntity(customer); err != nil {
		return nil, err
	}

	row.UpdatedAt = time.Now()

	result, err := executor.ExecContext(ctx, `UPDATE customers SET first_name = $1, last_name = $2, national_id = $3,
		date_of_birth = $4, other_info = $5, updated_at = $6 WHERE id = $7`,
		row.FirstName, row.LastName, row.NationalID, row.DateOfBirth, row.OtherInfo, row.UpdatedAt, row.ID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrCustomerNotFound, customerTypeName)
	}

	return r.Find(ctx, uuid.MustParse(row.ID))
}

// UpdateStatus transitions PENDING_REVIEW -> ACTIVE/REJECTED (spec.md §4.7).
func (r *CustomerPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.CustomerStatus) (*mmodel.Customer, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE customers SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrCustomerNotFound, customerTypeName)
	}

	return r.Find(ctx, id)
}

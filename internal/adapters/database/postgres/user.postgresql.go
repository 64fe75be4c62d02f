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

var userTypeName = reflect.TypeOf(mmodel.User{}).Name()

type userRow struct {
	ID           string
	Username     string
	Email        string
	Mobile       *string
	PasswordHash string
	Status       string
	CustomerID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *userRow) fromEntity(u *mmodel.User) {
	r.ID = u.ID
	r.Username = u.Username
	r.Email = u.Email

	if u.Mobile != "" {
		r.Mobile = &u.Mobile
	}

	r.PasswordHash = u.PasswordHash
	r.Status = string(u.Status)
	r.CustomerID = u.CustomerID
	r.CreatedAt = u.CreatedAt
	r.UpdatedAt = u.UpdatedAt
}

func (r *userRow) toEntity() *mmodel.User {
	u := &mmodel.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Status:       mmodel.UserStatus(r.Status),
		CustomerID:   r.CustomerID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.Mobile != nil {
		u.Mobile = *r.Mobile
	}

	return u
}

const userColumns = `id, username, email, mobile, password_hash, status, customer_id, created_at, updated_at`

// UserPostgreSQLRepository is a Postgres-backed ports.UserRepository for the
// identity plane (spec.md §4.7).
type UserPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewUserPostgreSQLRepository returns a new UserPostgreSQLRepository.
func NewUserPostgreSQLRepository(pc *mpostgres.PostgresConnection) *UserPostgreSQLRepository {
	return &UserPostgreSQLRepository{connection: pc, tableName: "users"}
}

// Create inserts a new user in PENDING_DETAILS status (spec.md §4.7 step 1).
func (r *UserPostgreSQLRepository) Create(ctx context.Context, user *mmodel.User) (*mmodel.User, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := &userRow{}
	row.fromEntity(user)

	_, err = executor.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.Username, row.Email, row.Mobile, row.PasswordHash, row.Status, row.CustomerID, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, validatePGError(pgErr, userTypeName)
		}

		return nil, err
	}

	return row.toEntity(), nil
}

func (r *UserPostgreSQLRepository) scanRow(row *sql.Row) (*mmodel.User, error) {
	u := &userRow{}

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Mobile, &u.PasswordHash, &u.Status, &u.CustomerID,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrUserNotFound, userTypeName)
		}

		return nil, err
	}

	return u.toEntity(), nil
}

// Find retrieves a user by id.
func (r *UserPostgreSQLRepository) Find(ctx context.Context, id uuid.UUID) (*mmodel.User, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	return r.scanRow(row)
}

// FindByLogin resolves username, email, or mobile to a User row — the three
// interchangeable login handles of spec.md §4.2.
func (r *UserPostgreSQLRepository) FindByLogin(ctx context.Context, usernameOrEmailOrMobile string) (*mmodel.User, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	row := executor.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users
		WHERE username = $1 OR email = $1 OR mobile = $1`, usernameOrEmailOrMobile)

	return r.scanRow(row)
}

// FindByStatus lists users awaiting admin review (spec.md §4.7), paginated.
func (r *UserPostgreSQLRepository) FindByStatus(ctx context.Context, status mmodel.UserStatus, page, limit int) ([]*mmodel.User, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	rows, err := executor.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		string(status), limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*mmodel.User

	for rows.Next() {
		u := &userRow{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Mobile, &u.PasswordHash, &u.Status, &u.CustomerID,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}

		users = append(users, u.toEntity())
	}

	return users, rows.Err()
}

// UpdateStatus transitions a user through the onboarding workflow
// (spec.md §4.7: PENDING_DETAILS -> PENDING_REVIEW -> ACTIVE/REJECTED).
func (r *UserPostgreSQLRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.UserStatus) (*mmodel.User, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	result, err := executor.ExecContext(ctx, `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, common.ValidateBusinessError(common.ErrUserNotFound, userTypeName)
	}

	return r.Find(ctx, id)
}

// LinkCustomer stamps the 1:1 User -> Customer link, set when the Customer
// record is first created on customer-detail submission (spec.md §4.7 step 4).
func (r *UserPostgreSQLRepository) LinkCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return err
	}

	executor := dbtx.GetExecutor(ctx, db)

	customerIDStr := customerID.String()

	result, err := executor.ExecContext(ctx, `UPDATE users SET customer_id = $1, updated_at = $2 WHERE id = $3`,
		customerIDStr, time.Now(), userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return common.ValidateBusinessError(common.ErrUserNotFound, userTypeName)
	}

	return nil
}

// ExistsByUsernameEmailMobile checks uniqueness ahead of registration so the
// error reads as a clean CONFLICT (409) response rather than a raw constraint
// violation (spec.md §4.7 step 1).
func (r *UserPostgreSQLRepository) ExistsByUsernameEmailMobile(ctx context.Context, username, email, mobile string) (bool, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return false, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	var exists bool

	err = executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2 OR ($3 <> '' AND mobile = $3))`,
		username, email, mobile).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

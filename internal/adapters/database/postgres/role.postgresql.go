package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/dbtx"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mpostgres"
)

var roleTypeName = reflect.TypeOf(mmodel.Role{}).Name()

// RolePostgreSQLRepository is a Postgres-backed ports.RoleRepository over the
// seeded Role/Permission bipartite mapping (I9): roles, permissions,
// role_permissions, and user_roles join tables.
type RolePostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
}

// NewRolePostgreSQLRepository returns a new RolePostgreSQLRepository.
func NewRolePostgreSQLRepository(pc *mpostgres.PostgresConnection) *RolePostgreSQLRepository {
	return &RolePostgreSQLRepository{connection: pc}
}

func (r *RolePostgreSQLRepository) loadPermissions(ctx context.Context, executor dbtx.Executor, roleID string) ([]mmodel.Permission, error) {
	rows, err := executor.QueryContext(ctx, `SELECT p.id, p.name, p.description FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id WHERE rp.role_id = $1 ORDER BY p.name ASC`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []mmodel.Permission

	for rows.Next() {
		p := mmodel.Permission{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}

		permissions = append(permissions, p)
	}

	return permissions, rows.Err()
}

// FindByName retrieves a seeded role and its current permission set.
func (r *RolePostgreSQLRepository) FindByName(ctx context.Context, name string) (*mmodel.Role, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	role := &mmodel.Role{}

	err = executor.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = $1`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrRoleNotFound, roleTypeName)
		}

		return nil, err
	}

	role.Permissions, err = r.loadPermissions(ctx, executor, role.ID)
	if err != nil {
		return nil, err
	}

	return role, nil
}

// FindByUserID lists every role assigned to a user, each with its
// permissions loaded — the set User.Permissions() flattens (I9).
func (r *RolePostgreSQLRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]mmodel.Role, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	rows, err := executor.QueryContext(ctx, `SELECT r.id, r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = $1 ORDER BY r.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []mmodel.Role

	for rows.Next() {
		role := mmodel.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}

		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range roles {
		perms, err := r.loadPermissions(ctx, executor, roles[i].ID)
		if err != nil {
			return nil, err
		}

		roles[i].Permissions = perms
	}

	return roles, nil
}

// UpdatePermissions replaces a role's permission set wholesale — SUPERADMIN
// edits the mapping by name, never by permission id (spec.md §4.7, I9).
func (r *RolePostgreSQLRepository) UpdatePermissions(ctx context.Context, roleID uuid.UUID, permissionNames []string) (*mmodel.Role, error) {
	db, err := r.connection.GetDB(ctx)
	if err != nil {
		return nil, err
	}

	executor := dbtx.GetExecutor(ctx, db)

	_, err = executor.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}

	for _, name := range permissionNames {
		_, err = executor.ExecContext(ctx, `INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, id FROM permissions WHERE name = $2`, roleID, name)
		if err != nil {
			return nil, err
		}
	}

	role := &mmodel.Role{}

	err = executor.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE id = $1`, roleID).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ValidateBusinessError(common.ErrRoleNotFound, roleTypeName)
		}

		return nil, err
	}

	role.Permissions, err = r.loadPermissions(ctx, executor, role.ID)
	if err != nil {
		return nil, err
	}

	return role, nil
}

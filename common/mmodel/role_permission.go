package mmodel

// Permission is a struct designed to encapsulate response payload data.
//
// Seeded once; immutable (spec.md §3).
//
// swagger:model Permission
// @Description Permission is a struct designed to encapsulate response payload data.
type Permission struct {
	ID          string `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	Name        string `json:"name" example:"ACCOUNT_WRITE"`
	Description string `json:"description,omitempty" example:"Create/update accounts on behalf of any customer"`
}

// Typed capability constants (spec.md §9: "String-matched permission checks →
// typed capabilities"), seeded at startup in bootstrap.
const (
	PermissionAccountRead     = "ACCOUNT_READ"
	PermissionAccountWrite    = "ACCOUNT_WRITE"
	PermissionTransactionRead = "TRANSACTION_READ"
	PermissionTransactionWrite = "TRANSACTION_WRITE"
	PermissionUserRead        = "USER_READ"
	PermissionUserWrite       = "USER_WRITE"
)

// Role is a struct designed to encapsulate response payload data.
//
// Seeded; permissions mutable by SUPERADMIN (spec.md §3).
//
// swagger:model Role
// @Description Role is a struct designed to encapsulate response payload data.
type Role struct {
	ID          string       `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	Name        string       `json:"name" example:"CUSTOMER"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Seeded role names.
const (
	RoleCustomer   = "CUSTOMER"
	RoleAccountant = "ACCOUNTANT"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

// UpdateRolePermissionsInput is a struct design to encapsulate request update
// payload data for mutating a role's permission set.
//
// swagger:model UpdateRolePermissionsInput
// @Description UpdateRolePermissionsInput is a struct design to encapsulate request update payload data.
type UpdateRolePermissionsInput struct {
	PermissionNames []string `json:"permissionNames" validate:"required,dive,required"`
}

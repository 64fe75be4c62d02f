package mmodel

import "time"

// RegisterUserInput is a struct design to encapsulate request create payload data.
//
// swagger:model RegisterUserInput
// @Description RegisterUserInput is a struct design to encapsulate request create payload data.
type RegisterUserInput struct {
	Username string `json:"username" validate:"required,max=100" example:"jdoe"`
	Email    string `json:"email" validate:"required,email" example:"jdoe@example.com"`
	Mobile   string `json:"mobile" validate:"omitempty,max=20" example:"+919800000000"`
	Password string `json:"password" validate:"required,min=8" example:"Str0ngPass!"`
}

// LoginInput is a struct design to encapsulate request payload data for §4.2
// login resolution.
//
// swagger:model LoginInput
// @Description LoginInput is a struct design to encapsulate request payload data.
type LoginInput struct {
	UsernameOrEmailOrMobile string `json:"usernameOrEmailOrMobile" validate:"required" example:"jdoe"`
	Password                string `json:"password" validate:"required" example:"Str0ngPass!"`
}

// LoginOutput carries the minted session token (opaque to the core per
// spec.md §1).
//
// swagger:model LoginOutput
// @Description LoginOutput carries the minted session token.
type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RejectUserInput carries the admin-supplied rejection reason (spec.md §6,
// `/admin/reject-user/{id}`).
//
// swagger:model RejectUserInput
// @Description RejectUserInput carries the admin-supplied rejection reason.
type RejectUserInput struct {
	Reason string `json:"reason" validate:"required,max=512" example:"national id mismatch"`
}

// User is a struct designed to encapsulate response payload data.
//
// swagger:model User
// @Description User is a struct designed to encapsulate response payload data.
type User struct {
	ID           string     `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	Username     string     `json:"username" example:"jdoe"`
	Email        string     `json:"email" example:"jdoe@example.com"`
	Mobile       string     `json:"mobile,omitempty" example:"+919800000000"`
	PasswordHash string     `json:"-"`
	Status       UserStatus `json:"status" example:"PENDING_DETAILS"`
	CustomerID   *string    `json:"customerId,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	Roles        []Role     `json:"roles,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt    time.Time  `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// Permissions flattens the user's role set into its derived permission set,
// `User.permissions := ⋃ roles.permissions` (I9).
func (u User) Permissions() []string {
	seen := make(map[string]struct{})

	perms := make([]string, 0)

	for _, role := range u.Roles {
		for _, p := range role.Permissions {
			if _, ok := seen[p.Name]; ok {
				continue
			}

			seen[p.Name] = struct{}{}

			perms = append(perms, p.Name)
		}
	}

	return perms
}

// HasPermission reports whether the derived permission set contains name.
func (u User) HasPermission(name string) bool {
	for _, p := range u.Permissions() {
		if p == name {
			return true
		}
	}

	return false
}

// Users struct to return get all.
//
// swagger:model Users
// @Description Users struct to return get all.
type Users struct {
	Items []User `json:"items"`
	Page  int    `json:"page" example:"1"`
	Limit int    `json:"limit" example:"10"`
}

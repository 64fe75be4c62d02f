package mmodel

// AuthzContext is the materialized authorization context (spec.md §4.2, §9:
// "Singleton SecurityContext → explicit AuthzContext parameter"). It is built
// once per request — User with roles/permissions eagerly loaded — and passed
// explicitly into every service method; no further lazy navigation or
// ambient thread-local lookup is permitted after construction.
type AuthzContext struct {
	UserID      string
	Username    string
	CustomerID  *string
	Permissions []string
}

// HasPermission reports whether the context's derived permission set
// contains name.
func (a AuthzContext) HasPermission(name string) bool {
	for _, p := range a.Permissions {
		if p == name {
			return true
		}
	}

	return false
}

// OwnsCustomer reports whether this context's linked customer matches
// customerID — the non-staff half of the ownership gate rule (spec.md §4.2).
func (a AuthzContext) OwnsCustomer(customerID string) bool {
	return a.CustomerID != nil && *a.CustomerID == customerID
}

// CanAccessAccount implements the uniform ownership gate of spec.md §4.2: a
// staff permission or matching customer ownership.
func (a AuthzContext) CanAccessAccount(accountCustomerID, staffPermission string) bool {
	return a.HasPermission(staffPermission) || a.OwnsCustomer(accountCustomerID)
}

package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a struct designed to encapsulate response payload data.
//
// A customer never mutates balance/availableBalance directly: both fields are
// the sole responsibility of the Ledger (§4.1 of spec.md).
//
// swagger:model Account
// @Description Account is a struct designed to encapsulate response payload data.
type Account struct {
	ID                  string          `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	CustomerID          string          `json:"customerId" example:"00000000-0000-0000-0000-000000000000"`
	AccountNumber       string          `json:"accountNumber" example:"10023400091"`
	AccountType         string          `json:"accountType" example:"SAVINGS"`
	Balance             decimal.Decimal `json:"balance" example:"15000.00"`
	AvailableBalance    decimal.Decimal `json:"availableBalance" example:"15000.00"`
	MinimumBalance      decimal.Decimal `json:"minimumBalance" example:"1000.00"`
	Currency            string          `json:"currency" example:"INR"`
	Status              AccountStatus   `json:"status" example:"ACTIVE"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty" example:"2021-01-01T00:00:00Z"`
	CreatedAt           time.Time       `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt           time.Time       `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// HasSufficientFunds reports whether amount can be taken from availableBalance.
func (a Account) HasSufficientFunds(amount decimal.Decimal) bool {
	return a.AvailableBalance.GreaterThanOrEqual(amount)
}

// BreachesMinimumBalance reports whether debiting amount from balance would
// drive it below minimumBalance (I4).
func (a Account) BreachesMinimumBalance(amount decimal.Decimal) bool {
	return a.Balance.Sub(amount).LessThan(a.MinimumBalance)
}

// Accounts struct to return get all.
//
// swagger:model Accounts
// @Description Accounts struct to return get all.
type Accounts struct {
	Items []Account `json:"items"`
	Page  int       `json:"page" example:"1"`
	Limit int       `json:"limit" example:"10"`
}

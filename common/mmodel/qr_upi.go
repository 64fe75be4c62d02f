package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQRRequestInput is a struct design to encapsulate request create
// payload data for a one-shot QR payment intent (spec.md §4.6).
//
// swagger:model CreateQRRequestInput
// @Description CreateQRRequestInput is a struct design to encapsulate request create payload data.
type CreateQRRequestInput struct {
	ReceiverAccountID string          `json:"receiverAccountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
	Amount            decimal.Decimal `json:"amount" validate:"required" example:"250.00"`
	ExpiresInSeconds  int             `json:"expiresInSeconds" validate:"required,min=30" example:"300"`
}

// PayQRRequestInput carries the payer account satisfying the intent.
//
// swagger:model PayQRRequestInput
// @Description PayQRRequestInput carries the payer account satisfying the intent.
type PayQRRequestInput struct {
	PayerAccountID string `json:"payerAccountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
}

// QRRequest is a struct designed to encapsulate response payload data. It can
// be satisfied at most once (spec.md §4.6).
//
// swagger:model QRRequest
// @Description QRRequest is a struct designed to encapsulate response payload data.
type QRRequest struct {
	ID                string          `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	ReceiverAccountID string          `json:"receiverAccountId" example:"00000000-0000-0000-0000-000000000000"`
	Amount            decimal.Decimal `json:"amount" example:"250.00"`
	Status            QRRequestStatus `json:"status" example:"PENDING"`
	ExpiresAt         time.Time       `json:"expiresAt" example:"2021-01-01T00:05:00Z"`
	PaidBy            *string         `json:"paidBy,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	PaidAt            *time.Time      `json:"paidAt,omitempty" example:"2021-01-01T00:01:00Z"`
	DebitTransactionID  *string       `json:"debitTransactionId,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	CreditTransactionID *string       `json:"creditTransactionId,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	CreatedAt         time.Time       `json:"createdAt" example:"2021-01-01T00:00:00Z"`
}

// IsPayable reports whether the request can still be satisfied: not expired,
// not already paid.
func (q QRRequest) IsPayable(now time.Time) bool {
	return q.Status == QRRequestPending && now.Before(q.ExpiresAt)
}

// RegisterUPIInput is a struct design to encapsulate request create payload
// data binding a UPI-style alias to (user, account) (spec.md §4.6).
//
// swagger:model RegisterUPIInput
// @Description RegisterUPIInput is a struct design to encapsulate request create payload data.
type RegisterUPIInput struct {
	UPIID     string `json:"upiId" validate:"required,max=100" example:"jdoe@fernbank"`
	AccountID string `json:"accountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
}

// UPIIdentifier is a struct designed to encapsulate response payload data: an
// injective alias for (user, account). Deregistering sets Status INACTIVE.
//
// swagger:model UPIIdentifier
// @Description UPIIdentifier is a struct designed to encapsulate response payload data.
type UPIIdentifier struct {
	ID        string    `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	UPIID     string    `json:"upiId" example:"jdoe@fernbank"`
	UserID    string    `json:"userId" example:"00000000-0000-0000-0000-000000000000"`
	AccountID string    `json:"accountId" example:"00000000-0000-0000-0000-000000000000"`
	Status    UPIStatus `json:"status" example:"ACTIVE"`
	CreatedAt time.Time `json:"createdAt" example:"2021-01-01T00:00:00Z"`
}

// SendViaUPIInput initiates an in-network transfer addressed by UPI alias.
//
// swagger:model SendViaUPIInput
// @Description SendViaUPIInput initiates an in-network transfer addressed by UPI alias.
type SendViaUPIInput struct {
	PayerAccountID string          `json:"payerAccountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
	ReceiverUPIID  string          `json:"receiverUpiId" validate:"required" example:"jdoe@fernbank"`
	Amount         decimal.Decimal `json:"amount" validate:"required" example:"250.00"`
}

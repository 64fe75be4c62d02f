package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionInput is a struct design to encapsulate request create payload data.
//
// swagger:model CreateTransactionInput
// @Description CreateTransactionInput is a struct design to encapsulate request create payload data.
type CreateTransactionInput struct {
	AccountID            string          `json:"accountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
	DestinationAccountID *string         `json:"destinationAccountId" validate:"omitempty,uuid" example:"00000000-0000-0000-0000-000000000000"`
	Type                 TransactionType `json:"type" validate:"required" example:"TRANSFER"`
	Amount               decimal.Decimal `json:"amount" validate:"required" example:"1000.00"`
	Category             string          `json:"category" validate:"max=100" example:"UTILITY"`
	Description          string          `json:"description" validate:"max=256" example:"Electricity bill"`
}

// Transaction is a struct designed to encapsulate response payload data.
//
// Append-only once COMPLETED or FAILED (spec.md §3): a PROCESSING row may
// transition exactly once.
//
// swagger:model Transaction
// @Description Transaction is a struct designed to encapsulate response payload data.
type Transaction struct {
	ID                    string            `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	TransactionReference  string            `json:"transactionReference" example:"TXN17000000000001a2b3c4"`
	ExternalReference     *string           `json:"externalReference,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	AccountID             string            `json:"accountId" example:"00000000-0000-0000-0000-000000000000"`
	DestinationAccountID  *string           `json:"destinationAccountId,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	Type                  TransactionType   `json:"type" example:"TRANSFER"`
	Amount                decimal.Decimal   `json:"amount" example:"1000.00"`
	Currency              string            `json:"currency" example:"INR"`
	BalanceBefore         decimal.Decimal   `json:"balanceBefore" example:"15000.00"`
	BalanceAfter          decimal.Decimal   `json:"balanceAfter" example:"14000.00"`
	Status                TransactionStatus `json:"status" example:"COMPLETED"`
	InitiatedBy           string            `json:"initiatedBy" example:"00000000-0000-0000-0000-000000000000"`
	ApprovedBy            *string           `json:"approvedBy,omitempty" example:"00000000-0000-0000-0000-000000000000"`
	Category              string            `json:"category" example:"TRANSFER"`
	Description           string            `json:"description,omitempty" example:"Electricity bill"`
	BulkUploadBatchID      *string           `json:"bulkUploadBatchId,omitempty" example:"BULK20260731-01"`
	FailureReason         *string           `json:"failureReason,omitempty" example:"insufficient funds"`
	CreatedAt             time.Time         `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt             time.Time         `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// Transactions struct to return get all.
//
// swagger:model Transactions
// @Description Transactions struct to return get all.
type Transactions struct {
	Items []Transaction `json:"items"`
	Page  int           `json:"page" example:"1"`
	Limit int           `json:"limit" example:"10"`
}

// BulkUploadRow is a single row of a bulk-upload file (spec.md §4.8): one
// DEBIT or CREDIT against an account, processed as its own Ledger operation.
type BulkUploadRow struct {
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountId" validate:"required,uuid"`
	Type        TransactionType `json:"type" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// BulkUploadRowResult reports the per-row outcome of a bulk-upload batch.
type BulkUploadRowResult struct {
	LineNumber int     `json:"lineNumber"`
	Success    bool    `json:"success"`
	Error      *string `json:"error,omitempty"`
}

// BulkUploadResult is the response of a bulk-upload submission.
//
// swagger:model BulkUploadResult
// @Description BulkUploadResult is the response of a bulk-upload submission.
type BulkUploadResult struct {
	BulkUploadBatchID string                `json:"bulkUploadBatchId"`
	Total             int                   `json:"total"`
	Successful        int                   `json:"successful"`
	Failed            int                   `json:"failed"`
	Rows              []BulkUploadRowResult `json:"rows"`
}

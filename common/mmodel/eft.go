package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitiateEFTInput is a struct design to encapsulate request create payload data
// for both NEFT and RTGS submissions (spec.md §4.3, §4.4).
//
// swagger:model InitiateEFTInput
// @Description InitiateEFTInput is a struct design to encapsulate request create payload data.
type InitiateEFTInput struct {
	SourceAccountID string          `json:"sourceAccountId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
	BeneficiaryID   string          `json:"beneficiaryId" validate:"required,uuid" example:"00000000-0000-0000-0000-000000000000"`
	Amount          decimal.Decimal `json:"amount" validate:"required" example:"5000.00"`
}

// EFTTransaction is a struct designed to encapsulate response payload data.
//
// swagger:model EFTTransaction
// @Description EFTTransaction is a struct designed to encapsulate response payload data.
type EFTTransaction struct {
	ID                   string          `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	EFTReference         string          `json:"eftReference" example:"00000000-0000-0000-0000-000000000000"`
	EFTType              EFTType         `json:"eftType" example:"NEFT"`
	SourceAccountID      string          `json:"sourceAccountId" example:"00000000-0000-0000-0000-000000000000"`
	BeneficiaryID        string          `json:"beneficiaryId" example:"00000000-0000-0000-0000-000000000000"`
	BeneficiaryName      string          `json:"beneficiaryName" example:"John Doe"`
	BeneficiaryAccount   string          `json:"beneficiaryAccount" example:"10023400091"`
	BeneficiaryIFSC      string          `json:"beneficiaryIfsc" example:"HDFC0001234"`
	BeneficiaryBank      string          `json:"beneficiaryBank,omitempty" example:"HDFC Bank"`
	Amount               decimal.Decimal `json:"amount" example:"5000.00"`
	Charges              decimal.Decimal `json:"charges" example:"2.50"`
	TotalAmount          decimal.Decimal `json:"totalAmount" example:"5002.50"`
	Status               EFTStatus       `json:"status" example:"PENDING"`
	BatchID              *string         `json:"batchId,omitempty" example:"NEFT2026073111"`
	BatchTime            *time.Time      `json:"batchTime,omitempty" example:"2026-07-31T11:00:00Z"`
	EstimatedCompletion  *time.Time      `json:"estimatedCompletion,omitempty" example:"2026-07-31T11:30:00Z"`
	ActualCompletion     *time.Time      `json:"actualCompletion,omitempty" example:"2026-07-31T11:02:00Z"`
	TransactionID        string          `json:"transactionId" example:"00000000-0000-0000-0000-000000000000"`
	ProcessedBy          *string         `json:"processedBy,omitempty" example:"NEFT_BATCH_PROCESSOR"`
	FailureReason        *string         `json:"failureReason,omitempty" example:"external gateway timeout"`
	CreatedAt            time.Time       `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt            time.Time       `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// IsInFlight reports whether this EFTTransaction already has a matching
// PROCESSING Transaction that has reduced availableBalance (I5).
func (e EFTTransaction) IsInFlight() bool {
	switch e.Status {
	case EFTPending, EFTQueued, EFTProcessing:
		return true
	}

	return false
}

// EFTTransactions struct to return get all.
//
// swagger:model EFTTransactions
// @Description EFTTransactions struct to return get all.
type EFTTransactions struct {
	Items []EFTTransaction `json:"items"`
	Page  int              `json:"page" example:"1"`
	Limit int              `json:"limit" example:"10"`
}

// BatchResult summarizes a NEFT batch tick (spec.md §4.3 step 7).
//
// swagger:model BatchResult
// @Description BatchResult summarizes the outcome of a NEFT batch tick.
type BatchResult struct {
	BatchID    string      `json:"batchId"`
	Status     BatchStatus `json:"status"`
	Total      int         `json:"total"`
	Completed  int         `json:"completed"`
	Failed     int         `json:"failed"`
}

// TariffBand is one row of a fixed amount-banded charge table (NEFT §4.3,
// RTGS §4.4).
type TariffBand struct {
	UpperBound *decimal.Decimal
	Charge     decimal.Decimal
}

// ChargeFor returns the charge for amount under the first band whose
// UpperBound is nil or >= amount, in slice order.
func ChargeFor(bands []TariffBand, amount decimal.Decimal) decimal.Decimal {
	for _, band := range bands {
		if band.UpperBound == nil || amount.LessThanOrEqual(*band.UpperBound) {
			return band.Charge
		}
	}

	return decimal.Zero
}

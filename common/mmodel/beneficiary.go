package mmodel

import "time"

// CreateBeneficiaryInput is a struct design to encapsulate request create payload data.
//
// swagger:model CreateBeneficiaryInput
// @Description CreateBeneficiaryInput is a struct design to encapsulate request create payload data.
type CreateBeneficiaryInput struct {
	PayeeName     string `json:"payeeName" validate:"required,max=256" example:"John Doe"`
	AccountNumber string `json:"accountNumber" validate:"required,max=34" example:"10023400091"`
	IFSCCode      string `json:"ifscCode" validate:"required,len=11" example:"HDFC0001234"`
	ContactNumber string `json:"contactNumber" validate:"omitempty,max=20" example:"+919800000000"`
}

// UpdateBeneficiaryInput is a struct design to encapsulate request update payload data.
//
// Any edit by the owner resets the beneficiary to PENDING_VERIFICATION
// (spec.md §4.5).
//
// swagger:model UpdateBeneficiaryInput
// @Description UpdateBeneficiaryInput is a struct design to encapsulate request update payload data.
type UpdateBeneficiaryInput struct {
	PayeeName     *string `json:"payeeName" validate:"omitempty,max=256"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,max=20"`
}

// Beneficiary is a struct designed to encapsulate response payload data.
//
// swagger:model Beneficiary
// @Description Beneficiary is a struct designed to encapsulate response payload data.
type Beneficiary struct {
	ID            string            `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	CustomerID    string            `json:"customerId" example:"00000000-0000-0000-0000-000000000000"`
	PayeeName     string            `json:"payeeName" example:"John Doe"`
	AccountNumber string            `json:"accountNumber" example:"10023400091"`
	IFSCCode      string            `json:"ifscCode" example:"HDFC0001234"`
	BankName      string            `json:"bankName,omitempty" example:"HDFC Bank"`
	BranchName    string            `json:"branchName,omitempty" example:"MG Road"`
	ContactNumber string            `json:"contactNumber,omitempty" example:"+919800000000"`
	IsVerified    bool              `json:"isVerified" example:"false"`
	Status        BeneficiaryStatus `json:"status" example:"PENDING_VERIFICATION"`
	LastUsedAt    *time.Time        `json:"lastUsedAt,omitempty" example:"2021-01-01T00:00:00Z"`
	CreatedAt     time.Time         `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt     time.Time         `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// IsEligibleForEFT reports whether the beneficiary may be an EFT target (I8).
func (b Beneficiary) IsEligibleForEFT() bool {
	return b.Status == BeneficiaryActive
}

// Beneficiaries struct to return get all.
//
// swagger:model Beneficiaries
// @Description Beneficiaries struct to return get all.
type Beneficiaries struct {
	Items []Beneficiary `json:"items"`
	Page  int           `json:"page" example:"1"`
	Limit int           `json:"limit" example:"10"`
}

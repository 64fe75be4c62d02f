package mmodel

import "time"

// CustomerOtherInfo is the typed schema behind Customer.otherInfo (spec.md §9:
// "Ambient `ObjectMapper` usage → injected serializer" — this JSON blob is
// domain-carrying, not free-form).
//
// swagger:model CustomerOtherInfo
// @Description CustomerOtherInfo is the typed schema behind Customer.otherInfo.
type CustomerOtherInfo struct {
	AddressLine1   string `json:"addressLine1,omitempty"`
	AddressLine2   string `json:"addressLine2,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	Country        string `json:"country,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// SubmitCustomerDetailsInput is a struct design to encapsulate request create
// payload data for `/users/customer-details` (spec.md §6).
//
// swagger:model SubmitCustomerDetailsInput
// @Description SubmitCustomerDetailsInput is a struct design to encapsulate request create payload data.
type SubmitCustomerDetailsInput struct {
	FirstName    string `json:"firstName" validate:"required,max=100" example:"Jane"`
	LastName     string `json:"lastName" validate:"required,max=100" example:"Doe"`
	NationalID   string `json:"nationalId" validate:"required,max=64" example:"ABCDE1234F"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required" example:"1990-05-14"`
	AddressLine1 string `json:"addressLine1" validate:"required,max=256" example:"221B Baker Street"`
	AddressLine2 string `json:"addressLine2" validate:"omitempty,max=256"`
	City         string `json:"city" validate:"required,max=100" example:"Mumbai"`
	State        string `json:"state" validate:"required,max=100" example:"Maharashtra"`
	PostalCode   string `json:"postalCode" validate:"required,max=20" example:"400001"`
	Country      string `json:"country" validate:"required,len=2" example:"IN"`
}

// Customer is a struct designed to encapsulate response payload data.
//
// swagger:model Customer
// @Description Customer is a struct designed to encapsulate response payload data.
type Customer struct {
	ID             string            `json:"id" example:"00000000-0000-0000-0000-000000000000"`
	UserID         string            `json:"userId" example:"00000000-0000-0000-0000-000000000000"`
	CustomerNumber string            `json:"customerNumber" example:"CUST0000123"`
	FirstName      string            `json:"firstName" example:"Jane"`
	LastName       string            `json:"lastName" example:"Doe"`
	NationalID     string            `json:"nationalId" example:"ABCDE1234F"`
	DateOfBirth    string            `json:"dateOfBirth" example:"1990-05-14"`
	Status         CustomerStatus    `json:"status" example:"PENDING_REVIEW"`
	OtherInfo      CustomerOtherInfo `json:"otherInfo,omitempty"`
	CreatedAt      time.Time         `json:"createdAt" example:"2021-01-01T00:00:00Z"`
	UpdatedAt      time.Time         `json:"updatedAt" example:"2021-01-01T00:00:00Z"`
}

// Customers struct to return get all.
//
// swagger:model Customers
// @Description Customers struct to return get all.
type Customers struct {
	Items []Customer `json:"items"`
	Page  int        `json:"page" example:"1"`
	Limit int        `json:"limit" example:"10"`
}

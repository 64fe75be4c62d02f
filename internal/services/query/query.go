// Package query implements every read-side operation of the funds-movement
// engine (spec.md §2): account/transaction lookups, EFT status polling, and
// user/customer/beneficiary listings, kept separate from internal/services/
// command so reads never open a unit of work.
package query

import (
	"github.com/fernbank/core/internal/ports"
)

// UseCase aggregates the repository ports needed by the read-side services,
// mirroring the teacher's query.UseCase aggregation (services/query/query.go)
// pared down to this domain's repositories.
type UseCase struct {
	AccountRepo     ports.AccountRepository
	TransactionRepo ports.TransactionRepository
	BeneficiaryRepo ports.BeneficiaryRepository
	EFTRepo         ports.EFTRepository
	UserRepo        ports.UserRepository
	CustomerRepo    ports.CustomerRepository
	RoleRepo        ports.RoleRepository
	QRRepo          ports.QRRepository
	UPIRepo         ports.UPIRepository
	MetadataRepo    ports.MetadataRepository
}

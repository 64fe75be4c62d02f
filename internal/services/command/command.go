// Package command implements every write-side operation of the funds-movement
// engine and its surrounding workflow/identity plane (spec.md §2): the
// Ledger, the NEFT/RTGS engines, the Beneficiary registry, the
// Authorization/Onboarding workflow, QR/UPI, and Bulk upload.
package command

import (
	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/internal/ports"
)

// NEFTConfig holds the NEFT engine's operating parameters (spec.md §4.3):
// batches run on the hour, every hour, between FirstBatchHour and
// LastBatchHour inclusive (local clock time).
type NEFTConfig struct {
	FirstBatchHour int
	LastBatchHour  int
}

// RTGSConfig holds the RTGS engine's operating parameters (spec.md §4.4):
// a weekday/hours window and an amount floor below which RTGS is refused.
type RTGSConfig struct {
	WeekdayOnly   bool
	OpenHour      int
	OpenMinute    int
	CloseHour     int
	CloseMinute   int
	MinimumAmount decimal.Decimal
}

// UseCase aggregates every repository/external-collaborator port needed by
// the write-side services, mirroring the teacher's UseCase aggregation
// pattern (command/command.go) generalized from a chart-of-accounts
// aggregate graph to this domain's repositories.
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
	LockRepo        ports.LockRepository
	EventPublisher  ports.EventPublisher

	UnitOfWork ports.UnitOfWork

	EFTGateway     ports.EFTGateway
	PasswordHasher ports.PasswordHasher
	IFSCValidator  ports.IFSCValidatorPort
	Clock          ports.Clock
	RefGen         ports.ReferenceGenerator

	NEFTTariff []mmodel.TariffBand
	RTGSTariff []mmodel.TariffBand
	NEFT       NEFTConfig
	RTGS       RTGSConfig

	// DefaultAccountType/Currency/MinimumBalance seed the one account opened
	// automatically on customer approval (spec.md §4.7).
	DefaultAccountType    string
	DefaultCurrency       string
	DefaultMinimumBalance decimal.Decimal
}

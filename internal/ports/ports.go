// Package ports declares the repository and external-collaborator
// interfaces consumed by internal/services/command and internal/services/query.
// Concrete adapters live under internal/adapters/*; the services packages
// depend only on these interfaces (spec.md §9: explicit unit-of-work and
// injected collaborators instead of ambient/container-managed wiring).
package ports

import (
	"context"
	"time"

	"github.com/fernbank/core/common/mmodel"
	"github.com/google/uuid"
)

// UnitOfWork runs fn inside one database transaction (default isolation). Every
// Ledger operation (spec.md §4.1) and every composite operation that must
// commit atomically with it (NEFT/RTGS submit, bulk-upload row) opens its
// work through this port so the whole operation rolls back together on any
// error returned by fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountRepository persists Account rows. FindForUpdate must take a
// row-level lock (SELECT ... FOR UPDATE) so Ledger operations serialize at
// the account-row grain (spec.md §4.1, §5).
type AccountRepository interface {
	Create(ctx context.Context, account *mmodel.Account) (*mmodel.Account, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Account, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*mmodel.Account, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*mmodel.Account, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Account, error)
	UpdateBalances(ctx context.Context, account *mmodel.Account) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.AccountStatus) (*mmodel.Account, error)
}

// TransactionRepository persists the append-only Transaction journal.
type TransactionRepository interface {
	Create(ctx context.Context, txn *mmodel.Transaction) (*mmodel.Transaction, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Transaction, error)
	FindByReference(ctx context.Context, reference string) (*mmodel.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.TransactionStatus, failureReason *string) (*mmodel.Transaction, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID, page, limit int) ([]*mmodel.Transaction, error)
}

// BeneficiaryRepository persists the per-customer beneficiary registry
// (spec.md §4.5).
type BeneficiaryRepository interface {
	Create(ctx context.Context, beneficiary *mmodel.Beneficiary) (*mmodel.Beneficiary, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*mmodel.Beneficiary, error)
	FindDuplicate(ctx context.Context, customerID uuid.UUID, accountNumber, ifscCode string) (*mmodel.Beneficiary, error)
	FindByStatus(ctx context.Context, status mmodel.BeneficiaryStatus, page, limit int) ([]*mmodel.Beneficiary, error)
	Update(ctx context.Context, beneficiary *mmodel.Beneficiary) (*mmodel.Beneficiary, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

// EFTRepository persists NEFT/RTGS EFTTransaction rows.
type EFTRepository interface {
	Create(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.EFTTransaction, error)
	FindByReference(ctx context.Context, reference string) (*mmodel.EFTTransaction, error)
	FindQueuedForBatch(ctx context.Context) ([]*mmodel.EFTTransaction, error)
	Update(ctx context.Context, eft *mmodel.EFTTransaction) (*mmodel.EFTTransaction, error)
}

// UserRepository persists User rows.
type UserRepository interface {
	Create(ctx context.Context, user *mmodel.User) (*mmodel.User, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.User, error)
	FindByLogin(ctx context.Context, usernameOrEmailOrMobile string) (*mmodel.User, error)
	FindByStatus(ctx context.Context, status mmodel.UserStatus, page, limit int) ([]*mmodel.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.UserStatus) (*mmodel.User, error)
	LinkCustomer(ctx context.Context, userID, customerID uuid.UUID) error
	ExistsByUsernameEmailMobile(ctx context.Context, username, email, mobile string) (bool, error)
}

// CustomerRepository persists Customer rows.
type CustomerRepository interface {
	Create(ctx context.Context, customer *mmodel.Customer) (*mmodel.Customer, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*mmodel.Customer, error)
	Update(ctx context.Context, customer *mmodel.Customer) (*mmodel.Customer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status mmodel.CustomerStatus) (*mmodel.Customer, error)
}

// RoleRepository persists the seeded Role/Permission bipartite mapping (I9).
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*mmodel.Role, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]mmodel.Role, error)
	UpdatePermissions(ctx context.Context, roleID uuid.UUID, permissionNames []string) (*mmodel.Role, error)
}

// QRRepository persists one-shot QR payment intents.
type QRRepository interface {
	Create(ctx context.Context, req *mmodel.QRRequest) (*mmodel.QRRequest, error)
	Find(ctx context.Context, id uuid.UUID) (*mmodel.QRRequest, error)
	MarkPaid(ctx context.Context, id uuid.UUID, payerUserID string, paidAt time.Time, debitTxnID, creditTxnID string) (*mmodel.QRRequest, error)
}

// UPIRepository persists injective UPI-id -> (user, account) aliases.
type UPIRepository interface {
	Create(ctx context.Context, upi *mmodel.UPIIdentifier) (*mmodel.UPIIdentifier, error)
	FindByUPIID(ctx context.Context, upiID string) (*mmodel.UPIIdentifier, error)
	Deactivate(ctx context.Context, upiID string) error
}

// MetadataRepository is the free-form companion document store (spec.md §9,
// SPEC_FULL.md §11): Customer.otherInfo audit blobs and bulk-upload
// row-error documents, decoupled from the relational row.
type MetadataRepository interface {
	Create(ctx context.Context, collection, entityID string, metadata map[string]any) error
	Find(ctx context.Context, collection, entityID string) (map[string]any, error)
}

// LockRepository provides the process-wide mutex over "NEFT batch in
// flight" (spec.md §5, §9), backed by Redis.
type LockRepository interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// EventPublisher publishes domain events for downstream consumers
// (SPEC_FULL.md §11) — out of core scope, but the publish boundary is real.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// EFTGateway is the injected external-bank-leg collaborator (spec.md §1,
// Non-goals: "a simulated stub with a configurable failure rate"). Never
// hardcoded in engine logic (§13 Open Question decision 3).
type EFTGateway interface {
	Submit(ctx context.Context, eft mmodel.EFTTransaction) error
}

// PasswordHasher is the opaque verify(plaintext, hash) primitive of
// spec.md §1.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// IFSCValidator is the injected bank-branch metadata lookup of spec.md §1/§4.5.
type IFSCValidator struct {
	BankName   string
	BranchName string
}

// IFSCValidatorPort looks up IFSC codes, returning bank metadata or a
// validation error.
type IFSCValidatorPort interface {
	Validate(ctx context.Context, ifscCode string) (IFSCValidator, error)
}

// Clock is the monotonic "now" + reference-minting collaborator (spec.md
// §2 "Clock & ID service").
type Clock interface {
	Now() time.Time
}

// ReferenceGenerator mints globally unique references (I7): transaction
// references, EFT references, batch ids, customer/account numbers.
type ReferenceGenerator interface {
	TransactionReference() string
	EFTReference() string
	BatchID(t time.Time) string
	CustomerNumber() string
	AccountNumber() string
}

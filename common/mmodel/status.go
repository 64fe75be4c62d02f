package mmodel

// This file replaces the teacher's free-form `Status{Code, Description}` string pair
// (see common/mmodel/status.go of the teacher) with closed enum types per entity, per the
// DESIGN NOTES of spec.md §9 ("Inheritance of status constants -> tagged variants").

// UserStatus is the closed set of states for User.status (spec.md §4.7).
type UserStatus string

const (
	UserPendingDetails UserStatus = "PENDING_DETAILS"
	UserPendingReview  UserStatus = "PENDING_REVIEW"
	UserActive         UserStatus = "ACTIVE"
	UserRejected       UserStatus = "REJECTED"
)

// IsValid reports whether s is a known UserStatus.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserPendingDetails, UserPendingReview, UserActive, UserRejected:
		return true
	}

	return false
}

// CanSubmitCustomerDetails reports whether a user in state s may submit/resubmit
// customer details (spec.md §4.7: PENDING_DETAILS or REJECTED).
func (s UserStatus) CanSubmitCustomerDetails() bool {
	return s == UserPendingDetails || s == UserRejected
}

// CustomerStatus is the closed set of states for Customer.status (spec.md §4.7).
type CustomerStatus string

const (
	CustomerPendingReview CustomerStatus = "PENDING_REVIEW"
	CustomerActive        CustomerStatus = "ACTIVE"
	CustomerRejected      CustomerStatus = "REJECTED"
)

func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerPendingReview, CustomerActive, CustomerRejected:
		return true
	}

	return false
}

// AccountStatus is the closed set of states for Account.status (spec.md §3, §4.1).
type AccountStatus string

const (
	AccountActive  AccountStatus = "ACTIVE"
	AccountBlocked AccountStatus = "BLOCKED"
	AccountClosed  AccountStatus = "CLOSED"
	AccountDormant AccountStatus = "DORMANT"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountBlocked, AccountClosed, AccountDormant:
		return true
	}

	return false
}

// TransactionType is the closed set of Transaction.type values (spec.md §3).
type TransactionType string

const (
	TransactionDebit      TransactionType = "DEBIT"
	TransactionCredit     TransactionType = "CREDIT"
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionFee        TransactionType = "FEE"
	TransactionRefund     TransactionType = "REFUND"
)

// TransactionStatus is the closed set of Transaction.status values (spec.md §3).
type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "PENDING"
	TransactionProcessing TransactionStatus = "PROCESSING"
	TransactionCompleted  TransactionStatus = "COMPLETED"
	TransactionFailed     TransactionStatus = "FAILED"
)

// BeneficiaryStatus is the closed set of Beneficiary.status values (spec.md §4.5).
type BeneficiaryStatus string

const (
	BeneficiaryPendingVerification BeneficiaryStatus = "PENDING_VERIFICATION"
	BeneficiaryActive              BeneficiaryStatus = "ACTIVE"
	BeneficiaryBlocked             BeneficiaryStatus = "BLOCKED"
	BeneficiaryInactive            BeneficiaryStatus = "INACTIVE"
)

func (s BeneficiaryStatus) IsValid() bool {
	switch s {
	case BeneficiaryPendingVerification, BeneficiaryActive, BeneficiaryBlocked, BeneficiaryInactive:
		return true
	}

	return false
}

// EFTType distinguishes the two external-settlement rails of spec.md §1.
type EFTType string

const (
	EFTTypeNEFT EFTType = "NEFT"
	EFTTypeRTGS EFTType = "RTGS"
)

// EFTStatus is the closed set of EFTTransaction.status values (spec.md §3, §4.3/§4.4).
type EFTStatus string

const (
	EFTPending    EFTStatus = "PENDING"
	EFTQueued     EFTStatus = "QUEUED"
	EFTProcessing EFTStatus = "PROCESSING"
	EFTCompleted  EFTStatus = "COMPLETED"
	EFTFailed     EFTStatus = "FAILED"
)

// BatchStatus is the closed set of NEFT batch outcomes (spec.md §4.3 step 7).
type BatchStatus string

const (
	BatchCompleted          BatchStatus = "COMPLETED"
	BatchPartiallyCompleted BatchStatus = "PARTIALLY_COMPLETED"
)

// QRRequestStatus is the closed set of QR payment intent states (spec.md §4.6).
type QRRequestStatus string

const (
	QRRequestPending QRRequestStatus = "PENDING"
	QRRequestPaid    QRRequestStatus = "PAID"
	QRRequestExpired QRRequestStatus = "EXPIRED"
)

// UPIStatus is the closed set of UPI ID registration states (spec.md §4.6).
type UPIStatus string

const (
	UPIActive   UPIStatus = "ACTIVE"
	UPIInactive UPIStatus = "INACTIVE"
)

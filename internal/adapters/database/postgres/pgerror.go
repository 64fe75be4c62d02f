package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fernbank/core/common"
)

// validatePGError maps a Postgres constraint violation to the matching
// business sentinel error, grounded on the teacher's internal/app.
// ValidatePGError (a ConstraintName switch), generalized from the
// chart-of-accounts foreign-key set to this domain's unique/fk constraints.
func validatePGError(pgErr *pgconn.PgError, entityType string) error {
	switch pgErr.ConstraintName {
	case "users_username_key":
		return common.ValidateBusinessError(common.ErrDuplicateUsername, entityType)
	case "users_email_key":
		return common.ValidateBusinessError(common.ErrDuplicateEmail, entityType)
	case "users_mobile_key":
		return common.ValidateBusinessError(common.ErrDuplicateMobile, entityType)
	case "beneficiaries_customer_account_ifsc_key":
		return common.ValidateBusinessError(common.ErrDuplicateBeneficiary, entityType)
	case "upi_identifiers_upi_id_key":
		return common.ValidateBusinessError(common.ErrDuplicateUPIID, entityType)
	case "transactions_transaction_reference_key", "eft_transactions_eft_reference_key":
		return common.ValidateBusinessError(common.ErrDuplicateReference, entityType)
	case "accounts_customer_id_fkey":
		return common.ValidateBusinessError(common.ErrCustomerNotFound, entityType)
	case "customers_user_id_fkey":
		return common.ValidateBusinessError(common.ErrUserNotFound, entityType)
	default:
		return pgErr
	}
}

package external

import (
	"context"
	"strings"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/internal/ports"
)

// StaticIFSCValidator is a fixed-table ports.IFSCValidatorPort standing in
// for the real external bank-branch lookup service named in spec.md §1 —
// seed data for a handful of bank branches, enough to exercise NEFT/RTGS/
// beneficiary registration end to end.
type StaticIFSCValidator struct {
	branches map[string]ports.IFSCValidator
}

// NewStaticIFSCValidator returns a StaticIFSCValidator seeded with a small
// fixed table of bank branches.
func NewStaticIFSCValidator() *StaticIFSCValidator {
	return &StaticIFSCValidator{
		branches: map[string]ports.IFSCValidator{
			"HDFC0000001": {BankName: "HDFC Bank", BranchName: "Fort, Mumbai"},
			"ICIC0000001": {BankName: "ICICI Bank", BranchName: "Nariman Point, Mumbai"},
			"SBIN0000001": {BankName: "State Bank of India", BranchName: "Connaught Place, Delhi"},
			"AXIS0000001": {BankName: "Axis Bank", BranchName: "MG Road, Bengaluru"},
			"KKBK0000001": {BankName: "Kotak Mahindra Bank", BranchName: "Bandra Kurla Complex, Mumbai"},
			"PUNB0000001": {BankName: "Punjab National Bank", BranchName: "Civil Lines, Jaipur"},
		},
	}
}

// Validate looks up ifscCode (case-insensitive) in the seed table, returning
// common.ErrInvalidIFSCFormat when it is absent.
func (v *StaticIFSCValidator) Validate(_ context.Context, ifscCode string) (ports.IFSCValidator, error) {
	branch, ok := v.branches[strings.ToUpper(ifscCode)]
	if !ok {
		return ports.IFSCValidator{}, common.ValidateBusinessError(common.ErrInvalidIFSCFormat, "Beneficiary")
	}

	return branch, nil
}

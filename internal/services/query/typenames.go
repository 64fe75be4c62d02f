package query

import (
	"reflect"

	"github.com/fernbank/core/common/mmodel"
)

// Entity type-name constants for ValidateBusinessError's entityType argument,
// matching the teacher's reflect.TypeOf(...).Name() idiom used throughout
// internal/services/command.
var (
	accountTypeName     = reflect.TypeOf(mmodel.Account{}).Name()
	transactionTypeName = reflect.TypeOf(mmodel.Transaction{}).Name()
	beneficiaryTypeName = reflect.TypeOf(mmodel.Beneficiary{}).Name()
	eftTypeName         = reflect.TypeOf(mmodel.EFTTransaction{}).Name()
	userTypeName        = reflect.TypeOf(mmodel.User{}).Name()
	customerTypeName    = reflect.TypeOf(mmodel.Customer{}).Name()
)

package command

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

var customerTypeName = reflect.TypeOf(mmodel.Customer{}).Name()

// SubmitCustomerDetails transitions a User in PENDING_DETAILS or REJECTED
// into PENDING_REVIEW, creating or updating its Customer record (spec.md
// §4.7). A resubmission wipes any prior rejectionReason.
func (uc *UseCase) SubmitCustomerDetails(ctx context.Context, authz mmodel.AuthzContext, input mmodel.SubmitCustomerDetailsInput) (*mmodel.Customer, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.onboarding_submit_customer_details")
	defer span.End()

	logger.Infof("Trying to submit customer details for user %s", authz.UserID)

	userID, err := uuid.Parse(authz.UserID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid user id", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	user, err := uc.UserRepo.Find(ctx, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "User not found", err)
		return nil, err
	}

	if !user.Status.CanSubmitCustomerDetails() {
		mopentelemetry.HandleSpanError(&span, "Invalid user state", common.ErrInvalidUserState)
		return nil, common.ValidateBusinessError(common.ErrInvalidUserState, userTypeName)
	}

	now := uc.Clock.Now()
	otherInfo := mmodel.CustomerOtherInfo{
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
	}

	var customer *mmodel.Customer

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		existing, findErr := uc.CustomerRepo.FindByUserID(ctx, userID)

		if findErr == nil && existing != nil {
			existing.FirstName = input.FirstName
			existing.LastName = input.LastName
			existing.NationalID = input.NationalID
			existing.DateOfBirth = input.DateOfBirth
			existing.Status = mmodel.CustomerPendingReview
			existing.OtherInfo = otherInfo
			existing.UpdatedAt = now

			updated, err := uc.CustomerRepo.Update(ctx, existing)
			if err != nil {
				return common.ValidateInternalError(err, customerTypeName)
			}

			customer = updated
		} else {
			created, err := uc.CustomerRepo.Create(ctx, &mmodel.Customer{
				ID:             uuid.New().String(),
				UserID:         user.ID,
				CustomerNumber: uc.RefGen.CustomerNumber(),
				FirstName:      input.FirstName,
				LastName:       input.LastName,
				NationalID:     input.NationalID,
				DateOfBirth:    input.DateOfBirth,
				Status:         mmodel.CustomerPendingReview,
				OtherInfo:      otherInfo,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
			if err != nil {
				return common.ValidateInternalError(err, customerTypeName)
			}

			customer = created

			if err := uc.UserRepo.LinkCustomer(ctx, userID, uuid.MustParse(customer.ID)); err != nil {
				return common.ValidateInternalError(err, userTypeName)
			}
		}

		updatedUser, err := uc.UserRepo.UpdateStatus(ctx, userID, mmodel.UserPendingReview)
		if err != nil {
			return common.ValidateInternalError(err, userTypeName)
		}

		user = updatedUser

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to submit customer details", err)
		return nil, err
	}

	return customer, nil
}

// ApproveUser transitions User/Customer PENDING_REVIEW -> ACTIVE and opens
// the customer's first account (spec.md §4.7: "the only path that may
// trigger opening of customer accounts").
func (uc *UseCase) ApproveUser(ctx context.Context, userID uuid.UUID) (*mmodel.User, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.onboarding_approve_user")
	defer span.End()

	logger.Infof("Trying to approve user %s", userID)

	user, err := uc.UserRepo.Find(ctx, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "User not found", err)
		return nil, err
	}

	if user.Status != mmodel.UserPendingReview {
		mopentelemetry.HandleSpanError(&span, "Invalid user state", common.ErrInvalidUserState)
		return nil, common.ValidateBusinessError(common.ErrInvalidUserState, userTypeName)
	}

	if user.CustomerID == nil {
		mopentelemetry.HandleSpanError(&span, "User has no linked customer", common.ErrCustomerNotFound)
		return nil, common.ValidateBusinessError(common.ErrCustomerNotFound, userTypeName)
	}

	customerID, err := uuid.Parse(*user.CustomerID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid customer id", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	now := uc.Clock.Now()

	var updatedUser *mmodel.User

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		if _, err := uc.CustomerRepo.UpdateStatus(ctx, customerID, mmodel.CustomerActive); err != nil {
			return common.ValidateInternalError(err, customerTypeName)
		}

		_, err := uc.AccountRepo.Create(ctx, &mmodel.Account{
			ID:                  uuid.New().String(),
			CustomerID:          customerID.String(),
			AccountNumber:       uc.RefGen.AccountNumber(),
			AccountType:         uc.DefaultAccountType,
			Balance:             decimal.Zero,
			AvailableBalance:    decimal.Zero,
			MinimumBalance:      uc.DefaultMinimumBalance,
			Currency:            uc.DefaultCurrency,
			Status:              mmodel.AccountActive,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
		if err != nil {
			return common.ValidateInternalError(err, accountTypeName)
		}

		result, err := uc.UserRepo.UpdateStatus(ctx, userID, mmodel.UserActive)
		if err != nil {
			return common.ValidateInternalError(err, userTypeName)
		}

		updatedUser = result

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to approve user", err)
		return nil, err
	}

	return updatedUser, nil
}

// RejectUser transitions User/Customer PENDING_REVIEW -> REJECTED, storing
// the rejection reason inside Customer.otherInfo (spec.md §4.7).
func (uc *UseCase) RejectUser(ctx context.Context, userID uuid.UUID, reason string) (*mmodel.User, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.onboarding_reject_user")
	defer span.End()

	logger.Infof("Trying to reject user %s: %s", userID, reason)

	user, err := uc.UserRepo.Find(ctx, userID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "User not found", err)
		return nil, err
	}

	if user.Status != mmodel.UserPendingReview {
		mopentelemetry.HandleSpanError(&span, "Invalid user state", common.ErrInvalidUserState)
		return nil, common.ValidateBusinessError(common.ErrInvalidUserState, userTypeName)
	}

	if user.CustomerID == nil {
		mopentelemetry.HandleSpanError(&span, "User has no linked customer", common.ErrCustomerNotFound)
		return nil, common.ValidateBusinessError(common.ErrCustomerNotFound, userTypeName)
	}

	customerID, err := uuid.Parse(*user.CustomerID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid customer id", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	var updatedUser *mmodel.User

	err = uc.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		customer, err := uc.CustomerRepo.Find(ctx, customerID)
		if err != nil {
			return err
		}

		customer.Status = mmodel.CustomerRejected
		customer.OtherInfo.RejectionReason = reason
		customer.UpdatedAt = uc.Clock.Now()

		if _, err := uc.CustomerRepo.Update(ctx, customer); err != nil {
			return common.ValidateInternalError(err, customerTypeName)
		}

		result, err := uc.UserRepo.UpdateStatus(ctx, userID, mmodel.UserRejected)
		if err != nil {
			return common.ValidateInternalError(err, userTypeName)
		}

		updatedUser = result

		return nil
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to reject user", err)
		return nil, err
	}

	return updatedUser, nil
}

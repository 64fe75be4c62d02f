package in

import (
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/command"
	"github.com/fernbank/core/internal/services/query"
)

// OnboardingHandler answers the customer onboarding workflow of spec.md §4.7:
// self-service detail submission plus the admin review queue.
type OnboardingHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// SubmitCustomerDetails lets an authenticated PENDING_DETAILS/REJECTED user
// submit or resubmit KYC details, moving them to PENDING_REVIEW.
//
//	@Summary		Submit customer details
//	@Description	Submit or resubmit customer details, moving the user to PENDING_REVIEW
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string								true	"Bearer session token"
//	@Param			details			body		mmodel.SubmitCustomerDetailsInput	true	"Customer details"
//	@Success		200				{object}	mmodel.Customer
//	@Router			/users/customer-details [post]
func (handler *OnboardingHandler) SubmitCustomerDetails(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.submit_customer_details")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.SubmitCustomerDetailsInput)

	customer, err := handler.Command.SubmitCustomerDetails(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, customer)
}

// ListPendingDetails lists users still in PENDING_DETAILS.
//
//	@Summary		List users pending detail submission
//	@Tags			Onboarding
//	@Produce		json
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Success		200				{object}	mmodel.Users
//	@Router			/admin/pending-details [get]
func (handler *OnboardingHandler) ListPendingDetails(c *fiber.Ctx) error {
	return handler.listByStatus(c, mmodel.UserPendingDetails)
}

// ListPendingReview lists users awaiting admin review.
//
//	@Summary		List users pending review
//	@Tags			Onboarding
//	@Produce		json
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Success		200				{object}	mmodel.Users
//	@Router			/admin/pending-review [get]
func (handler *OnboardingHandler) ListPendingReview(c *fiber.Ctx) error {
	return handler.listByStatus(c, mmodel.UserPendingReview)
}

func (handler *OnboardingHandler) listByStatus(c *fiber.Ctx, status mmodel.UserStatus) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.list_users_by_status")
	defer span.End()

	headerParams := http.ValidateParameters(c.Queries())

	users, err := handler.Query.GetUsersByStatus(ctx, status, headerParams.Page, headerParams.Limit)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, mmodel.Users{
		Items: derefUsers(users),
		Page:  headerParams.Page,
		Limit: headerParams.Limit,
	})
}

func derefUsers(users []*mmodel.User) []mmodel.User {
	out := make([]mmodel.User, 0, len(users))
	for _, u := range users {
		out = append(out, *u)
	}

	return out
}

// ApproveUser approves a PENDING_REVIEW user, activating their Customer and
// opening their first Account (spec.md §4.7).
//
//	@Summary		Approve onboarding
//	@Tags			Onboarding
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"User ID"
//	@Success		200				{object}	mmodel.User
//	@Router			/admin/approve-user/{id} [post]
func (handler *OnboardingHandler) ApproveUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.approve_user")
	defer span.End()

	userID := c.Locals("id").(uuid.UUID)

	user, err := handler.Command.ApproveUser(ctx, userID)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, user)
}

// RejectUser rejects a PENDING_REVIEW user with a reason, returning them to
// REJECTED (spec.md §4.7).
//
//	@Summary		Reject onboarding
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string					true	"Bearer session token"
//	@Param			id				path		string					true	"User ID"
//	@Param			reason			body		mmodel.RejectUserInput	true	"Rejection reason"
//	@Success		200				{object}	mmodel.User
//	@Router			/admin/reject-user/{id} [post]
func (handler *OnboardingHandler) RejectUser(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.reject_user")
	defer span.End()

	userID := c.Locals("id").(uuid.UUID)
	payload := i.(*mmodel.RejectUserInput)

	user, err := handler.Command.RejectUser(ctx, userID, payload.Reason)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, user)
}

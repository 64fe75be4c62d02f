package in

import (
	"context"

	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/command"
	"github.com/fernbank/core/internal/services/query"
)

// BeneficiaryHandler answers the external-payee registry of spec.md §4.5:
// owner CRUD plus the admin verification transitions.
type BeneficiaryHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateBeneficiary registers a new payee under the caller's customer.
//
//	@Summary		Register a beneficiary
//	@Tags			Beneficiaries
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string							true	"Bearer session token"
//	@Param			beneficiary		body		mmodel.CreateBeneficiaryInput	true	"Beneficiary"
//	@Success		201				{object}	mmodel.Beneficiary
//	@Router			/eft/beneficiaries [post]
func (handler *BeneficiaryHandler) CreateBeneficiary(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.create_beneficiary")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.CreateBeneficiaryInput)

	beneficiary, err := handler.Command.CreateBeneficiary(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, beneficiary)
}

// ListBeneficiaries lists the caller's own beneficiaries.
//
//	@Summary		List own beneficiaries
//	@Tags			Beneficiaries
//	@Produce		json
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Success		200				{object}	mmodel.Beneficiaries
//	@Router			/eft/beneficiaries [get]
func (handler *BeneficiaryHandler) ListBeneficiaries(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.list_beneficiaries")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	if authz.CustomerID == nil {
		return http.Forbidden(c, "NOT_OWNER", "Not Owner", "caller has no linked customer")
	}

	customerID, err := uuid.Parse(*authz.CustomerID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	beneficiaries, err := handler.Query.GetBeneficiariesByCustomer(ctx, authz, customerID)
	if err != nil {
		return http.WithError(c, err)
	}

	items := make([]mmodel.Beneficiary, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		items = append(items, *b)
	}

	return http.OK(c, mmodel.Beneficiaries{Items: items, Page: 1, Limit: len(items)})
}

// GetBeneficiary fetches a single beneficiary the caller owns.
//
//	@Summary		Get a beneficiary
//	@Tags			Beneficiaries
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"Beneficiary ID"
//	@Success		200				{object}	mmodel.Beneficiary
//	@Router			/eft/beneficiaries/{id} [get]
func (handler *BeneficiaryHandler) GetBeneficiary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_beneficiary")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	id := c.Locals("id").(uuid.UUID)

	beneficiary, err := handler.Query.GetBeneficiaryByID(ctx, authz, id)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, beneficiary)
}

// UpdateBeneficiary applies an owner edit, resetting verification.
//
//	@Summary		Update a beneficiary
//	@Tags			Beneficiaries
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string							true	"Bearer session token"
//	@Param			id				path		string							true	"Beneficiary ID"
//	@Param			beneficiary		body		mmodel.UpdateBeneficiaryInput	true	"Beneficiary edit"
//	@Success		200				{object}	mmodel.Beneficiary
//	@Router			/eft/beneficiaries/{id} [patch]
func (handler *BeneficiaryHandler) UpdateBeneficiary(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.update_beneficiary")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	id := c.Locals("id").(uuid.UUID)
	payload := i.(*mmodel.UpdateBeneficiaryInput)

	beneficiary, err := handler.Command.UpdateBeneficiary(ctx, authz, id, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, beneficiary)
}

// DeleteBeneficiary soft-deletes a beneficiary owned by the caller.
//
//	@Summary		Delete a beneficiary
//	@Tags			Beneficiaries
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Param			id				path	string	true	"Beneficiary ID"
//	@Success		204
//	@Router			/eft/beneficiaries/{id} [delete]
func (handler *BeneficiaryHandler) DeleteBeneficiary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.delete_beneficiary")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	id := c.Locals("id").(uuid.UUID)

	if err := handler.Command.DeleteBeneficiary(ctx, authz, id); err != nil {
		return http.WithError(c, err)
	}

	return http.NoContent(c)
}

// ApproveBeneficiary admin-approves a PENDING_VERIFICATION beneficiary.
//
//	@Summary		Approve a beneficiary
//	@Tags			Beneficiaries
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"Beneficiary ID"
//	@Success		200				{object}	mmodel.Beneficiary
//	@Router			/admin/eft/beneficiaries/{id}/approve [post]
func (handler *BeneficiaryHandler) ApproveBeneficiary(c *fiber.Ctx) error {
	return handler.adminTransition(c, handler.Command.ApproveBeneficiary)
}

// RejectBeneficiary admin-rejects a beneficiary.
//
//	@Summary		Reject a beneficiary
//	@Tags			Beneficiaries
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"Beneficiary ID"
//	@Success		200				{object}	mmodel.Beneficiary
//	@Router			/admin/eft/beneficiaries/{id}/reject [post]
func (handler *BeneficiaryHandler) RejectBeneficiary(c *fiber.Ctx) error {
	return handler.adminTransition(c, handler.Command.RejectBeneficiary)
}

// BlockBeneficiary admin-blocks a previously ACTIVE beneficiary.
//
//	@Summary		Block a beneficiary
//	@Tags			Beneficiaries
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"Beneficiary ID"
//	@Success		200				{object}	mmodel.Beneficiary
//	@Router			/admin/eft/beneficiaries/{id}/block [post]
func (handler *BeneficiaryHandler) BlockBeneficiary(c *fiber.Ctx) error {
	return handler.adminTransition(c, handler.Command.BlockBeneficiary)
}

func (handler *BeneficiaryHandler) adminTransition(c *fiber.Ctx, transition func(ctx context.Context, id uuid.UUID) (*mmodel.Beneficiary, error)) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.beneficiary_admin_transition")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)

	beneficiary, err := transition(ctx, id)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, beneficiary)
}

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

// QRUPIHandler answers the in-network QR and UPI payment rails of spec.md
// §4.6.
type QRUPIHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// CreateQRRequest creates a one-shot QR payment intent.
//
//	@Summary		Create a QR payment request
//	@Tags			QR
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string							true	"Bearer session token"
//	@Param			request			body		mmodel.CreateQRRequestInput	true	"QR request"
//	@Success		201				{object}	mmodel.QRRequest
//	@Router			/qr/requests [post]
func (handler *QRUPIHandler) CreateQRRequest(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.qr_create_request")
	defer span.End()

	payload := i.(*mmodel.CreateQRRequestInput)

	request, err := handler.Command.CreateQRRequest(ctx, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, request)
}

// GetQRRequest fetches a QR payment intent by id.
//
//	@Summary		Get a QR payment request
//	@Tags			QR
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			id				path		string	true	"QR request ID"
//	@Success		200				{object}	mmodel.QRRequest
//	@Router			/qr/requests/{id} [get]
func (handler *QRUPIHandler) GetQRRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.qr_get_request")
	defer span.End()

	id := c.Locals("id").(uuid.UUID)

	request, err := handler.Query.GetQRRequestByID(ctx, id)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, request)
}

// PayQRRequest satisfies a pending QR request from the caller's account.
//
//	@Summary		Pay a QR payment request
//	@Tags			QR
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string						true	"Bearer session token"
//	@Param			id				path		string						true	"QR request ID"
//	@Param			payment			body		mmodel.PayQRRequestInput	true	"Payer account"
//	@Success		200				{object}	mmodel.QRRequest
//	@Router			/qr/requests/{id}/pay [post]
func (handler *QRUPIHandler) PayQRRequest(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.qr_pay_request")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	id := c.Locals("id").(uuid.UUID)
	payload := i.(*mmodel.PayQRRequestInput)

	payerID, err := uuid.Parse(payload.PayerAccountID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	payer, err := handler.Query.AccountRepo.Find(ctx, payerID)
	if err != nil {
		return http.WithError(c, err)
	}

	if !authz.OwnsCustomer(payer.CustomerID) {
		return http.Forbidden(c, "NOT_OWNER", "Not Owner", "you do not own the resource you are trying to access")
	}

	request, err := handler.Command.PayQRRequest(ctx, authz, id, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, request)
}

// RegisterUPI binds a UPI alias to the caller's account.
//
//	@Summary		Register a UPI ID
//	@Tags			UPI
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string					true	"Bearer session token"
//	@Param			upi				body		mmodel.RegisterUPIInput	true	"UPI registration"
//	@Success		201				{object}	mmodel.UPIIdentifier
//	@Router			/upi/register [post]
func (handler *QRUPIHandler) RegisterUPI(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.upi_register")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.RegisterUPIInput)

	upi, err := handler.Command.RegisterUPI(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, upi)
}

// DeregisterUPI deactivates a UPI alias.
//
//	@Summary		Deregister a UPI ID
//	@Tags			UPI
//	@Param			Authorization	header	string	true	"Bearer session token"
//	@Param			upiId			path	string	true	"UPI ID"
//	@Success		204
//	@Router			/upi/{upiId} [delete]
func (handler *QRUPIHandler) DeregisterUPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.upi_deregister")
	defer span.End()

	upiID := c.Params("upiId")

	if err := handler.Command.DeregisterUPI(ctx, upiID); err != nil {
		return http.WithError(c, err)
	}

	return http.NoContent(c)
}

// SendViaUPI performs an in-network transfer addressed by UPI alias.
//
//	@Summary		Send a payment via UPI
//	@Tags			UPI
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string						true	"Bearer session token"
//	@Param			payment			body		mmodel.SendViaUPIInput	true	"UPI payment"
//	@Success		201				{object}	mmodel.Transaction
//	@Router			/upi/send [post]
func (handler *QRUPIHandler) SendViaUPI(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.upi_send")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.SendViaUPIInput)

	payerID, err := uuid.Parse(payload.PayerAccountID)
	if err != nil {
		return http.BadRequest(c, err)
	}

	payer, err := handler.Query.AccountRepo.Find(ctx, payerID)
	if err != nil {
		return http.WithError(c, err)
	}

	if !authz.OwnsCustomer(payer.CustomerID) {
		return http.Forbidden(c, "NOT_OWNER", "Not Owner", "you do not own the resource you are trying to access")
	}

	debitTxn, _, err := handler.Command.SendViaUPI(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, debitTxn)
}

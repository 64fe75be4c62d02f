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

// EFTHandler answers the NEFT and RTGS external-settlement rails of spec.md
// §4.3/§4.4: submission, status polling, and the manual batch tick.
type EFTHandler struct {
	Command *command.UseCase
	Query   *query.UseCase
}

// InitiateNEFT submits a deferred, hourly-batched transfer (spec.md §4.3).
//
//	@Summary		Submit an NEFT transfer
//	@Tags			EFT
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string						true	"Bearer session token"
//	@Param			transfer		body		mmodel.InitiateEFTInput	true	"NEFT transfer"
//	@Success		202				{object}	mmodel.EFTTransaction
//	@Router			/eft/transfer/initiate [post]
func (handler *EFTHandler) InitiateNEFT(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.initiate_neft")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.InitiateEFTInput)

	eft, err := handler.Command.SubmitNEFT(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Accepted(c, eft)
}

// InitiateRTGS submits a real-time settlement, gated by operating hours and
// the amount floor (spec.md §4.4).
//
//	@Summary		Submit an RTGS transfer
//	@Tags			EFT
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string						true	"Bearer session token"
//	@Param			transfer		body		mmodel.InitiateEFTInput	true	"RTGS transfer"
//	@Success		201				{object}	mmodel.EFTTransaction
//	@Router			/eft/rtgs/transfer [post]
func (handler *EFTHandler) InitiateRTGS(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.initiate_rtgs")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	payload := i.(*mmodel.InitiateEFTInput)

	eft, err := handler.Command.SubmitRTGS(ctx, authz, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, eft)
}

// GetEFTStatus polls an NEFT or RTGS transfer by reference (spec.md §6: owner
// or TRANSACTION_READ).
//
//	@Summary		Get EFT status by reference
//	@Tags			EFT
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Param			reference		path		string	true	"EFT reference"
//	@Success		200				{object}	mmodel.EFTTransaction
//	@Router			/eft/neft/status/{reference} [get]
func (handler *EFTHandler) GetEFTStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.get_eft_status")
	defer span.End()

	authz, ok := http.AuthzContextFromFiberCtx(c)
	if !ok {
		return http.Unauthorized(c, "UNAUTHENTICATED", "Unauthenticated", "must provide a bearer token")
	}

	reference := c.Params("reference")

	eft, err := handler.Query.GetEFTByReference(ctx, reference)
	if err != nil {
		return http.WithError(c, err)
	}

	if !authz.HasPermission(mmodel.PermissionTransactionRead) {
		sourceID, err := uuid.Parse(eft.SourceAccountID)
		if err != nil {
			return http.BadRequest(c, err)
		}

		account, err := handler.Query.AccountRepo.Find(ctx, sourceID)
		if err != nil {
			return http.WithError(c, err)
		}

		if !authz.OwnsCustomer(account.CustomerID) {
			return http.Forbidden(c, "NOT_OWNER", "Not Owner", "you do not own the resource you are trying to access")
		}
	}

	return http.OK(c, eft)
}

// ProcessBatch runs an NEFT batch tick immediately (spec.md §4.3 step 7),
// normally fired by the hourly scheduler — exposed here for operational use.
//
//	@Summary		Manually run the NEFT batch tick
//	@Tags			EFT
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer session token"
//	@Success		200				{object}	mmodel.BatchResult
//	@Router			/admin/eft/process-batch [post]
func (handler *EFTHandler) ProcessBatch(c *fiber.Ctx) error {
	ctx := c.UserContext()
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.process_neft_batch")
	defer span.End()

	now := handler.Command.Clock.Now()

	result, err := handler.Command.ProcessNEFTBatch(ctx, now)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, result)
}

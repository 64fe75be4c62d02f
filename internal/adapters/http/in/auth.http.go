// Package in holds the inbound HTTP adapter: fiber handlers that decode
// requests, call into the command/query use cases, and render the result
// through the common/net/http response helpers.
package in

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/net/http"
	"github.com/fernbank/core/internal/services/command"
)

// AuthHandler answers /auth/login and /auth/register.
type AuthHandler struct {
	Command *command.UseCase
	Issuer  *http.TokenIssuer
}

// Register creates a PENDING_DETAILS user (spec.md §4.2).
//
//	@Summary		Register a new user
//	@Description	Create a user in PENDING_DETAILS status with the default CUSTOMER role
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		mmodel.RegisterUserInput	true	"Registration details"
//	@Success		201		{object}	mmodel.User
//	@Router			/auth/register [post]
func (handler *AuthHandler) Register(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.auth_register")
	defer span.End()

	payload := i.(*mmodel.RegisterUserInput)

	logger.Infof("Request to register user %s", payload.Username)

	user, err := handler.Command.Register(ctx, *payload)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.Created(c, user)
}

// Login resolves credentials to a session token (spec.md §4.2).
//
//	@Summary		Authenticate
//	@Description	Authenticate with username/email/mobile and password, returning a session token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		mmodel.LoginInput	true	"Credentials"
//	@Success		200			{object}	mmodel.LoginOutput
//	@Router			/auth/login [post]
func (handler *AuthHandler) Login(i any, c *fiber.Ctx) error {
	ctx := c.UserContext()

	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "handler.auth_login")
	defer span.End()

	payload := i.(*mmodel.LoginInput)

	logger.Infof("Request to log in %s", payload.UsernameOrEmailOrMobile)

	out, err := handler.Command.Login(ctx, *payload, handler.Issuer)
	if err != nil {
		return http.WithError(c, err)
	}

	return http.OK(c, out)
}

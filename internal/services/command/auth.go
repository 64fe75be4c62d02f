package command

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

var userTypeName = reflect.TypeOf(mmodel.User{}).Name()

// TokenIssuer mints and verifies the session tokens handed back by Login
// (spec.md §4.2: "mint a session token, opaque to the core").
type TokenIssuer interface {
	Issue(authz mmodel.AuthzContext) (string, time.Time, error)
}

// Register creates a User in PENDING_DETAILS with the default CUSTOMER role
// (spec.md §4.2). Enforces uniqueness on username/email/mobile.
func (uc *UseCase) Register(ctx context.Context, input mmodel.RegisterUserInput) (*mmodel.User, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.auth_register")
	defer span.End()

	logger.Infof("Trying to register user %s", input.Username)

	exists, err := uc.UserRepo.ExistsByUsernameEmailMobile(ctx, input.Username, input.Email, input.Mobile)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to check uniqueness", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	if exists {
		mopentelemetry.HandleSpanError(&span, "Duplicate username/email/mobile", common.ErrDuplicateUsername)
		return nil, common.ValidateBusinessError(common.ErrDuplicateUsername, userTypeName, input.Username)
	}

	hash, err := uc.PasswordHasher.Hash(input.Password)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to hash password", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	customerRole, err := uc.RoleRepo.FindByName(ctx, mmodel.RoleCustomer)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to load default role", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	now := uc.Clock.Now()

	user := &mmodel.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		Mobile:       input.Mobile,
		PasswordHash: hash,
		Status:       mmodel.UserPendingDetails,
		Roles:        []mmodel.Role{*customerRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := uc.UserRepo.Create(ctx, user)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to create user", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	return created, nil
}

// Login resolves {usernameOrEmailOrMobile, password} to a User, verifies the
// password, and mints a session token (spec.md §4.2).
func (uc *UseCase) Login(ctx context.Context, input mmodel.LoginInput, issuer TokenIssuer) (*mmodel.LoginOutput, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.auth_login")
	defer span.End()

	logger.Infof("Trying to log in %s", input.UsernameOrEmailOrMobile)

	user, err := uc.UserRepo.FindByLogin(ctx, input.UsernameOrEmailOrMobile)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "User not found", err)
		return nil, common.ValidateBusinessError(common.ErrInvalidToken, userTypeName)
	}

	if !uc.PasswordHasher.Verify(input.Password, user.PasswordHash) {
		mopentelemetry.HandleSpanError(&span, "Password mismatch", common.ErrInvalidToken)
		return nil, common.ValidateBusinessError(common.ErrInvalidToken, userTypeName)
	}

	authz := mmodel.AuthzContext{
		UserID:      user.ID,
		Username:    user.Username,
		CustomerID:  user.CustomerID,
		Permissions: user.Permissions(),
	}

	token, expiresAt, err := issuer.Issue(authz)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to issue session token", err)
		return nil, common.ValidateInternalError(err, userTypeName)
	}

	return &mmodel.LoginOutput{Token: token, ExpiresAt: expiresAt}, nil
}

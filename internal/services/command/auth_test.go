package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

func newAuthUseCase(users ...*mmodel.User) (*UseCase, *fakeUserRepo) {
	userRepo := newFakeUserRepo(users...)
	customerRole := &mmodel.Role{
		ID:   uuid.NewString(),
		Name: mmodel.RoleCustomer,
		Permissions: []mmodel.Permission{
			{ID: uuid.NewString(), Name: mmodel.PermissionAccountRead},
		},
	}

	uc := &UseCase{
		UserRepo:       userRepo,
		RoleRepo:       newFakeRoleRepo(customerRole),
		PasswordHasher: fakePasswordHasher{},
		Clock:          fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
	}

	return uc, userRepo
}

// TestRegisterSuccess is responsible to test Register with success, landing
// PENDING_DETAILS with the default CUSTOMER role (spec.md §4.2)
func TestRegisterSuccess(t *testing.T) {
	uc, _ := newAuthUseCase()

	input := mmodel.RegisterUserInput{Username: "jdoe", Email: "jdoe@example.com", Mobile: "+919800000000", Password: "Str0ngPass!"}

	user, err := uc.Register(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, mmodel.UserPendingDetails, user.Status)
	assert.Equal(t, "hashed:Str0ngPass!", user.PasswordHash)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, mmodel.RoleCustomer, user.Roles[0].Name)
}

// TestRegisterRejectsDuplicate is responsible to test Register refusing a
// username already taken
func TestRegisterRejectsDuplicate(t *testing.T) {
	existing := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Email: "jdoe@example.com"}
	uc, _ := newAuthUseCase(existing)

	input := mmodel.RegisterUserInput{Username: "jdoe", Email: "other@example.com", Password: "Str0ngPass!"}

	_, err := uc.Register(context.Background(), input)

	assert.Error(t, err)
}

// TestLoginSuccess is responsible to test Login with success, minting a
// session token via the TokenIssuer (spec.md §4.2)
func TestLoginSuccess(t *testing.T) {
	customerID := uuid.NewString()
	user := &mmodel.User{
		ID:           uuid.NewString(),
		Username:     "jdoe",
		PasswordHash: "hashed:Str0ngPass!",
		CustomerID:   &customerID,
		Status:       mmodel.UserActive,
	}
	uc, _ := newAuthUseCase(user)

	issuer := fakeTokenIssuer{token: "session-token-abc"}
	input := mmodel.LoginInput{UsernameOrEmailOrMobile: "jdoe", Password: "Str0ngPass!"}

	out, err := uc.Login(context.Background(), input, issuer)

	require.NoError(t, err)
	assert.Equal(t, "session-token-abc", out.Token)
	assert.True(t, out.ExpiresAt.After(time.Now()))
}

// TestLoginRejectsWrongPassword is responsible to test Login refusing a
// password mismatch
func TestLoginRejectsWrongPassword(t *testing.T) {
	user := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", PasswordHash: "hashed:Str0ngPass!", Status: mmodel.UserActive}
	uc, _ := newAuthUseCase(user)

	issuer := fakeTokenIssuer{token: "session-token-abc"}
	input := mmodel.LoginInput{UsernameOrEmailOrMobile: "jdoe", Password: "WrongPass!"}

	_, err := uc.Login(context.Background(), input, issuer)

	assert.Error(t, err)
}

// TestLoginRejectsUnknownLogin is responsible to test Login refusing a login
// identifier that resolves to no user
func TestLoginRejectsUnknownLogin(t *testing.T) {
	uc, _ := newAuthUseCase()

	issuer := fakeTokenIssuer{token: "session-token-abc"}
	input := mmodel.LoginInput{UsernameOrEmailOrMobile: "ghost", Password: "Str0ngPass!"}

	_, err := uc.Login(context.Background(), input, issuer)

	assert.Error(t, err)
}

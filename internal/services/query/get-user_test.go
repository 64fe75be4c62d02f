package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbank/core/common/mmodel"
)

// TestGetUserByIDSuccess is responsible to test GetUserByID with success
func TestGetUserByIDSuccess(t *testing.T) {
	u := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserActive}
	uc := &UseCase{UserRepo: newFakeUserRepo(u)}

	got, err := uc.GetUserByID(context.Background(), uuid.MustParse(u.ID))

	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

// TestGetUsersByStatusListsReviewQueue is responsible to test
// GetUsersByStatus listing the admin review queue for a given onboarding
// status (spec.md §4.7)
func TestGetUsersByStatusListsReviewQueue(t *testing.T) {
	pending := &mmodel.User{ID: uuid.NewString(), Username: "jdoe", Status: mmodel.UserPendingReview}
	active := &mmodel.User{ID: uuid.NewString(), Username: "asmith", Status: mmodel.UserActive}
	uc := &UseCase{UserRepo: newFakeUserRepo(pending, active)}

	list, err := uc.GetUsersByStatus(context.Background(), mmodel.UserPendingReview, 1, 10)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pending.ID, list[0].ID)
}

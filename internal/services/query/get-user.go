package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mmodel"
	"github.com/fernbank/core/common/mopentelemetry"
)

// GetUserByID fetches a User by id.
func (uc *UseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*mmodel.User, error) {
	tracer := common.NewTracerFromContext(ctx)
	ctx, span := tracer.Start(ctx, "query.get_user_by_id")
	defer span.End()

	user, err := uc.UserRepo.Find(ctx, id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get user on repo", err)
		return nil, err
	}

	return user, nil
}

// GetUsersByStatus lists Users in a given onboarding status, paginated — the
// admin review queue (spec.md §4.7: PENDING_REVIEW awaiting ApproveUser/
// RejectUser).
func (uc *UseCase) GetUsersByStatus(ctx context.Context, status mmodel.UserStatus, page, limit int) ([]*mmodel.User, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_users_by_status")
	defer span.End()

	logger.Infof("Retrieving users with status: %s", status)

	users, err := uc.UserRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get users on repo", err)
		return nil, err
	}

	return users, nil
}

package usecase

import (
	"context"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type onboardingUsecase struct {
	repo domain.OnboardingRepository
}

func NewOnboardingUsecase(repo domain.OnboardingRepository) domain.OnboardingUsecase {
	return &onboardingUsecase{repo: repo}
}

func (u *onboardingUsecase) GetStatus(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		role, _ := ctx.Value(domain.KeyUserRole).(string)
		if role != string(domain.RoleAdmin) {
			return nil, apperror.Forbidden("You can only view your own onboarding status")
		}
	}

	status, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, apperror.NotFound("Onboarding status not found")
	}
	return status, nil
}

// ResolveRoute applies the route table for a path. Anonymous callers pass a
// nil identity; signed-in callers get their persisted onboarding status
// folded in so stage-gated pages redirect to the current step.
func (u *onboardingUsecase) ResolveRoute(ctx context.Context, path string, identity *domain.Identity) (*domain.RouteResolution, error) {
	var status *domain.OnboardingStatus
	if identity != nil {
		var err error
		status, err = u.repo.GetByUserID(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
	}
	resolution := domain.ResolveRoute(path, identity, status)
	return &resolution, nil
}

package usecase

import (
	"context"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type screeningUsecase struct {
	repo           domain.ScreeningRepository
	onboardingRepo domain.OnboardingRepository
}

func NewScreeningUsecase(repo domain.ScreeningRepository, onboardingRepo domain.OnboardingRepository) domain.ScreeningUsecase {
	return &screeningUsecase{repo: repo, onboardingRepo: onboardingRepo}
}

func (u *screeningUsecase) GetQuestions(ctx context.Context) []domain.ScreeningQuestion {
	return domain.ScreeningQuestions()
}

func (u *screeningUsecase) GetMine(ctx context.Context, userID string) ([]domain.ScreeningAnswer, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	return u.repo.GetByUserID(ctx, userID)
}

// Submit validates every answer against the question catalog in one pass and
// returns the full violation set on failure. On success the answers are
// saved, the screening step completes and the next route is returned.
func (u *screeningUsecase) Submit(ctx context.Context, userID string, sub *domain.ScreeningSubmission) (string, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return "", err
	}

	// Screening belongs to the worker track only, after the profile step.
	status, err := u.onboardingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if status == nil || status.Role != domain.RoleWorker {
		return "", apperror.Forbidden("Screening is only part of worker onboarding")
	}
	if !status.ProfileCompleted {
		return "", apperror.Conflict("Complete your profile before the screening questions")
	}

	if violations := domain.ValidateScreeningAnswers(sub.Answers); len(violations) > 0 {
		return "", apperror.Validation("Please correct the highlighted answers", violations)
	}

	if err := u.repo.Save(ctx, userID, sub.Answers); err != nil {
		return "", err
	}

	status, err = u.onboardingRepo.GetByUserID(ctx, userID)
	if err != nil || status == nil {
		return domain.StagePaymentPending.Route(domain.RoleWorker), nil
	}
	return status.Stage().Route(status.Role), nil
}

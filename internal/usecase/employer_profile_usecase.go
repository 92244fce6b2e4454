package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/validation"
)

type employerProfileUsecase struct {
	repo     domain.EmployerProfileRepository
	validate *validator.Validate
}

func NewEmployerProfileUsecase(repo domain.EmployerProfileRepository, validate *validator.Validate) domain.EmployerProfileUsecase {
	return &employerProfileUsecase{repo: repo, validate: validate}
}

func (u *employerProfileUsecase) GetMine(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Employer profile not found")
	}
	return profile, nil
}

// Submit validates and persists the company profile. Completing it is the
// employer's only onboarding step, so the next route is always home.
func (u *employerProfileUsecase) Submit(ctx context.Context, userID string, req *domain.EmployerProfileRequest) (string, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return "", err
	}
	if err := u.validate.Struct(req); err != nil {
		return "", apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	profile := &domain.EmployerProfile{
		UserID:        userID,
		CompanyName:   req.CompanyName,
		Industry:      req.Industry,
		Description:   req.Description,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		ContactEmail:  req.ContactEmail,
	}
	if req.Website != "" {
		website := req.Website
		profile.Website = &website
	}
	if err := u.repo.Upsert(ctx, profile); err != nil {
		return "", err
	}
	return "/", nil
}

package usecase

import (
	"context"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type catalogUsecase struct {
	feeCents int
}

func NewCatalogUsecase(feeCents int) domain.CatalogUsecase {
	return &catalogUsecase{feeCents: feeCents}
}

func (u *catalogUsecase) Services(ctx context.Context) []domain.Service {
	return domain.Services()
}

func (u *catalogUsecase) ServiceByID(ctx context.Context, id string) (*domain.Service, error) {
	service, ok := domain.ServiceByID(id)
	if !ok {
		return nil, apperror.NotFound("Service not found")
	}
	return &service, nil
}

func (u *catalogUsecase) FeeSchedule(ctx context.Context) domain.FeeSchedule {
	return domain.FeeSchedule{
		Currency:                   "ZAR",
		WorkerRegistrationFeeCents: u.feeCents,
		BillingPeriod:              "once-off",
		Description:                "Workers pay a once-off registration fee after screening; employers register free of charge.",
	}
}

func (u *catalogUsecase) Testimonials(ctx context.Context) []domain.Testimonial {
	return domain.ApprovedTestimonials()
}

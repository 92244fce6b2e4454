package usecase

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/email"
	"go-workwise-backend/pkg/validation"
)

type contactUsecase struct {
	mailer   *email.Service
	validate *validator.Validate
}

func NewContactUsecase(mailer *email.Service, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{mailer: mailer, validate: validate}
}

// SendContactMessage validates the help & support form and forwards it to
// the support inbox.
func (u *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if err := u.validate.Struct(req); err != nil {
		return apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}
	if u.mailer == nil || !u.mailer.IsConfigured() {
		return apperror.New(503, "The contact form is temporarily unavailable", nil)
	}

	if err := u.mailer.SendContact(email.ContactData{
		SenderName:  strings.TrimSpace(req.Name),
		SenderEmail: strings.TrimSpace(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
	}); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

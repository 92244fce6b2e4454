package domain

import (
	"context"
	"time"
)

// EmployerAddress is the structured business address block.
type EmployerAddress struct {
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	Province   string `json:"province" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=60"`
}

// EmployerProfile completes an employer account; once it exists the
// employer is active, with no screening or payment steps.
type EmployerProfile struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	CompanyName   string          `json:"company_name"`
	Industry      string          `json:"industry"`
	Description   string          `json:"description"`
	Website       *string         `json:"website,omitempty"`
	Address       EmployerAddress `json:"address"`
	ContactNumber string          `json:"contact_number"`
	ContactEmail  string          `json:"contact_email"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type EmployerProfileRequest struct {
	CompanyName   string          `json:"company_name" validate:"required,max=120,no_emoji"`
	Industry      string          `json:"industry" validate:"required,max=80"`
	Description   string          `json:"description" validate:"required,max=2000"`
	Website       string          `json:"website" validate:"omitempty,url"`
	Address       EmployerAddress `json:"address" validate:"required"`
	ContactNumber string          `json:"contact_number" validate:"required,valid_phone"`
	ContactEmail  string          `json:"contact_email" validate:"required,email"`
}

type EmployerProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*EmployerProfile, error)
	// Upsert writes the profile and completes the employer's onboarding in
	// the same transaction.
	Upsert(ctx context.Context, profile *EmployerProfile) error
}

type EmployerProfileUsecase interface {
	GetMine(ctx context.Context, userID string) (*EmployerProfile, error)
	Submit(ctx context.Context, userID string, req *EmployerProfileRequest) (string, error)
}

package domain

import "context"

// ContactRequest is the help & support form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required" validate:"required,max=100,valid_name"`
	Email   string `json:"email" binding:"required,email" validate:"required,email"`
	Subject string `json:"subject" binding:"required" validate:"required,max=150"`
	Message string `json:"message" binding:"required" validate:"required,max=5000"`
}

type ContactUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

package domain

import (
	"context"
	"regexp"
	"time"
)

// PaymentMethod is how the worker pays the registration fee.
type PaymentMethod string

const (
	PaymentCard    PaymentMethod = "card"
	PaymentEFT     PaymentMethod = "eft"
	PaymentDeposit PaymentMethod = "deposit"
	PaymentPayPal  PaymentMethod = "paypal"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentEFT, PaymentDeposit, PaymentPayPal:
		return true
	}
	return false
}

// Asynchronous reports whether the method settles out-of-band and needs a
// proof-of-payment artifact and/or reference before it can verify.
func (m PaymentMethod) Asynchronous() bool {
	return m == PaymentEFT || m == PaymentDeposit
}

// PaymentStatus is the verification sub-flow state:
// PENDING -> VERIFYING -> {VERIFIED, REJECTED}. VERIFIED is terminal and
// activates the account; REJECTED returns the worker to method selection.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusVerifying PaymentStatus = "VERIFYING"
	PaymentStatusVerified  PaymentStatus = "VERIFIED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// RejectionReason is the closed set of verification-failure categories.
type RejectionReason string

const (
	RejectAmountMismatch    RejectionReason = "amount_mismatch"
	RejectIllegibleProof    RejectionReason = "illegible_proof"
	RejectReferenceNotFound RejectionReason = "reference_not_found"
)

func (r RejectionReason) IsValid() bool {
	switch r {
	case RejectAmountMismatch, RejectIllegibleProof, RejectReferenceNotFound:
		return true
	}
	return false
}

// ActivationCodePattern matches the opaque token issued once verification
// succeeds.
var ActivationCodePattern = regexp.MustCompile(`^WORK[A-Z0-9]{6}$`)

// PaymentVerification tracks one worker's registration-fee verification.
// The activation code itself is only ever returned once; at rest only its
// bcrypt hash is stored.
type PaymentVerification struct {
	ID              int64            `json:"id"`
	UserID          string           `json:"user_id"`
	Method          PaymentMethod    `json:"method"`
	AmountCents     int              `json:"amount_cents"`
	Reference       *string          `json:"reference,omitempty"`
	ProofKey        *string          `json:"proof_key,omitempty"`
	Status          PaymentStatus    `json:"status"`
	RejectionReason *RejectionReason `json:"rejection_reason,omitempty"`
	ActivationHash  *string          `json:"-"`
	VerifiedAt      *time.Time       `json:"verified_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type PaymentSubmitRequest struct {
	Method    PaymentMethod `json:"method" validate:"required,oneof=card eft deposit paypal"`
	Reference string        `json:"reference" validate:"omitempty,max=60"`
	ProofKey  string        `json:"proof_key" validate:"omitempty,max=255"`
}

// PaymentResult is what the worker sees after a submission or status check.
// ActivationCode is populated exactly once, when verification succeeds.
type PaymentResult struct {
	Verification   *PaymentVerification `json:"verification"`
	ActivationCode string               `json:"activation_code,omitempty"`
	NextRoute      string               `json:"next_route"`
}

// PaymentReviewRequest is the admin action on a VERIFYING record.
type PaymentReviewRequest struct {
	Action string          `json:"action" validate:"required,oneof=approve reject"`
	Reason RejectionReason `json:"reason" validate:"omitempty,oneof=amount_mismatch illegible_proof reference_not_found"`
}

type PaymentFilter struct {
	Status PaymentStatus `json:"status,omitempty"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

type PaymentRepository interface {
	GetByUserID(ctx context.Context, userID string) (*PaymentVerification, error)
	GetByID(ctx context.Context, id int64) (*PaymentVerification, error)
	Create(ctx context.Context, v *PaymentVerification) (int64, error)
	// Upsert replaces a rejected or pending submission on re-try.
	Upsert(ctx context.Context, v *PaymentVerification) error
	// MarkVerified stores the activation hash and flips the persisted
	// onboarding payment flag in the same transaction.
	MarkVerified(ctx context.Context, id int64, activationHash string) error
	MarkRejected(ctx context.Context, id int64, reason RejectionReason) error
	List(ctx context.Context, filter PaymentFilter) ([]PaymentVerification, int64, error)
}

type PaymentUsecase interface {
	GetMine(ctx context.Context, userID string) (*PaymentVerification, error)
	// Submit runs the verification sub-flow. Re-submitting after VERIFIED is
	// idempotent: the pipeline stays ACTIVE and no second code is issued.
	Submit(ctx context.Context, userID string, req *PaymentSubmitRequest) (*PaymentResult, error)
	UploadProof(ctx context.Context, userID, filename string, data []byte) (string, error)
	// Review is the admin transition VERIFYING -> {VERIFIED, REJECTED}.
	Review(ctx context.Context, reviewerID string, verificationID int64, req *PaymentReviewRequest) (*PaymentVerification, error)
	ListQueue(ctx context.Context, filter PaymentFilter) ([]PaymentVerification, int64, error)
	// ExportQueue renders the review queue as an XLSX workbook.
	ExportQueue(ctx context.Context, filter PaymentFilter) ([]byte, error)
}

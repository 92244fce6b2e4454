package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/audit"
	"go-workwise-backend/pkg/email"
	"go-workwise-backend/pkg/logger"
	"go-workwise-backend/pkg/storage"
	"go-workwise-backend/pkg/validation"
)

// autoVerifyReference matches bank references the settlement file has already
// cleared; submissions carrying one verify without manual review.
var autoVerifyReference = regexp.MustCompile(`^WORKER-[0-9]{4}$`)

const activationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type paymentUsecase struct {
	repo           domain.PaymentRepository
	onboardingRepo domain.OnboardingRepository
	userRepo       domain.UserRepository
	store          *storage.Store
	mailer         *email.Service
	validate       *validator.Validate
	feeCents       int
	frontendURL    string
}

func NewPaymentUsecase(
	repo domain.PaymentRepository,
	onboardingRepo domain.OnboardingRepository,
	userRepo domain.UserRepository,
	store *storage.Store,
	mailer *email.Service,
	validate *validator.Validate,
	feeCents int,
	frontendURL string,
) domain.PaymentUsecase {
	return &paymentUsecase{
		repo:           repo,
		onboardingRepo: onboardingRepo,
		userRepo:       userRepo,
		store:          store,
		mailer:         mailer,
		validate:       validate,
		feeCents:       feeCents,
		frontendURL:    frontendURL,
	}
}

func (u *paymentUsecase) GetMine(ctx context.Context, userID string) (*domain.PaymentVerification, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	v, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperror.NotFound("No payment submission found")
	}
	return v, nil
}

// Submit runs the registration-fee verification sub-flow.
//
// Card and PayPal settle synchronously and verify immediately. EFT and
// deposit need a reference and/or proof artifact; references the settlement
// feed recognizes verify immediately, everything else parks in VERIFYING for
// admin review. Re-submitting after VERIFIED is idempotent: the account stays
// active and no second activation code is issued.
func (u *paymentUsecase) Submit(ctx context.Context, userID string, req *domain.PaymentSubmitRequest) (*domain.PaymentResult, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	status, err := u.onboardingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil || status.Role != domain.RoleWorker {
		return nil, apperror.Forbidden("Payment verification is only part of worker onboarding")
	}
	if !status.ProfileCompleted || !status.ScreeningComplete {
		return nil, apperror.Conflict("Complete the previous onboarding steps first")
	}

	existing, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.PaymentStatusVerified {
		return &domain.PaymentResult{Verification: existing, NextRoute: "/"}, nil
	}
	if existing != nil && existing.Status == domain.PaymentStatusVerifying {
		return nil, apperror.Conflict("Your payment is already being reviewed")
	}

	if req.Method.Asynchronous() && req.Reference == "" && req.ProofKey == "" {
		return nil, apperror.Validation("Please correct the highlighted fields", map[string]string{
			"Reference": "Provide the bank reference or upload proof of payment",
		})
	}

	v := &domain.PaymentVerification{
		UserID:      userID,
		Method:      req.Method,
		AmountCents: u.feeCents,
		Status:      domain.PaymentStatusPending,
	}
	if req.Reference != "" {
		ref := strings.TrimSpace(req.Reference)
		v.Reference = &ref
	}
	if req.ProofKey != "" {
		proof := req.ProofKey
		v.ProofKey = &proof
	}

	if u.settlesImmediately(v) {
		if err := u.repo.Upsert(ctx, v); err != nil {
			return nil, err
		}
		return u.verify(ctx, v)
	}

	v.Status = domain.PaymentStatusVerifying
	if err := u.repo.Upsert(ctx, v); err != nil {
		return nil, err
	}
	audit.Default().LogPaymentEvent(ctx, audit.EventPaymentSubmitted, userID, map[string]interface{}{
		"method": string(v.Method),
		"status": string(v.Status),
	})
	return &domain.PaymentResult{
		Verification: v,
		NextRoute:    domain.StagePaymentPending.Route(domain.RoleWorker),
	}, nil
}

func (u *paymentUsecase) settlesImmediately(v *domain.PaymentVerification) bool {
	if !v.Method.Asynchronous() {
		return true
	}
	return v.Reference != nil && autoVerifyReference.MatchString(*v.Reference)
}

// verify issues the activation code and flips the verification to VERIFIED.
// The plaintext code exists only in the returned result and the activation
// email; at rest there is only its bcrypt hash.
func (u *paymentUsecase) verify(ctx context.Context, v *domain.PaymentVerification) (*domain.PaymentResult, error) {
	code, err := generateActivationCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.repo.MarkVerified(ctx, v.ID, string(hash)); err != nil {
		return nil, err
	}
	verified, err := u.repo.GetByID(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	audit.Default().LogPaymentEvent(ctx, audit.EventPaymentVerified, v.UserID, map[string]interface{}{
		"method": string(v.Method),
	})
	u.sendActivationEmail(ctx, v.UserID, code)

	return &domain.PaymentResult{
		Verification:   verified,
		ActivationCode: code,
		NextRoute:      "/",
	}, nil
}

func (u *paymentUsecase) sendActivationEmail(ctx context.Context, userID, code string) {
	if u.mailer == nil || !u.mailer.IsConfigured() {
		return
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Warn("activation email skipped, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := u.mailer.SendActivation(user.Email, email.ActivationData{
		FirstName:      "there",
		ActivationCode: code,
		LoginURL:       u.frontendURL + "/login",
	}); err != nil {
		logger.Log.Warn("activation email delivery failed", "user_id", userID, "error", err)
	}
}

// UploadProof stores a proof-of-payment artifact and returns its key for the
// subsequent Submit call.
func (u *paymentUsecase) UploadProof(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return "", err
	}
	if u.store == nil {
		return "", apperror.New(503, "Uploads are temporarily unavailable", nil)
	}

	contentType, err := storage.ValidateProof(filename, data)
	if err != nil {
		return "", apperror.BadRequest(err.Error())
	}

	key := fmt.Sprintf("payment-proofs/%s/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	if err := u.store.Put(ctx, key, contentType, data); err != nil {
		return "", apperror.Internal(err)
	}
	return key, nil
}

// Review is the admin transition VERIFYING -> {VERIFIED, REJECTED}.
func (u *paymentUsecase) Review(ctx context.Context, reviewerID string, verificationID int64, req *domain.PaymentReviewRequest) (*domain.PaymentVerification, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	v, err := u.repo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperror.NotFound("Payment verification not found")
	}
	if v.Status != domain.PaymentStatusVerifying {
		return nil, apperror.Conflict("Only submissions under review can be decided")
	}

	switch req.Action {
	case "approve":
		result, err := u.verify(ctx, v)
		if err != nil {
			return nil, err
		}
		return result.Verification, nil
	case "reject":
		if !req.Reason.IsValid() {
			return nil, apperror.Validation("Please correct the highlighted fields", map[string]string{
				"Reason": "A rejection reason is required",
			})
		}
		if err := u.repo.MarkRejected(ctx, v.ID, req.Reason); err != nil {
			return nil, err
		}
		audit.Default().LogPaymentEvent(ctx, audit.EventPaymentRejected, v.UserID, map[string]interface{}{
			"reviewer": reviewerID,
			"reason":   string(req.Reason),
		})
		return u.repo.GetByID(ctx, v.ID)
	default:
		return nil, apperror.BadRequest("Unknown review action")
	}
}

func (u *paymentUsecase) ListQueue(ctx context.Context, filter domain.PaymentFilter) ([]domain.PaymentVerification, int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return u.repo.List(ctx, filter)
}

// ExportQueue renders the review queue as an XLSX workbook for offline
// reconciliation against the bank statement.
func (u *paymentUsecase) ExportQueue(ctx context.Context, filter domain.PaymentFilter) ([]byte, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	filter.Limit = 100
	if filter.Page <= 0 {
		filter.Page = 1
	}
	rows, _, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Payments"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "User ID", "Method", "Amount (cents)", "Reference", "Status", "Rejection Reason", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, v := range rows {
		values := []any{
			v.ID,
			v.UserID,
			string(v.Method),
			v.AmountCents,
			deref(v.Reference),
			string(v.Status),
			derefReason(v.RejectionReason),
			v.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return buf.Bytes(), nil
}

func requireAdmin(ctx context.Context) error {
	role, _ := ctx.Value(domain.KeyUserRole).(string)
	if role != string(domain.RoleAdmin) {
		return apperror.Forbidden("Administrator access required")
	}
	return nil
}

func generateActivationCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(activationAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate activation code: %w", err)
		}
		code[i] = activationAlphabet[n.Int64()]
	}
	return "WORK" + string(code), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefReason(r *domain.RejectionReason) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

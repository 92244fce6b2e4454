package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/audit"
	"go-workwise-backend/pkg/logger"
	"go-workwise-backend/pkg/validation"
)

type authUsecase struct {
	gateway        domain.IdentityGateway
	userRepo       domain.UserRepository
	onboardingRepo domain.OnboardingRepository
	validate       *validator.Validate
}

func NewAuthUsecase(
	gateway domain.IdentityGateway,
	userRepo domain.UserRepository,
	onboardingRepo domain.OnboardingRepository,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		gateway:        gateway,
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		validate:       validate,
	}
}

// SignUp validates the registration form, registers with the identity
// gateway and provisions the local user plus onboarding rows. Validation
// failures never reach the gateway. The user is not signed in implicitly.
func (u *authUsecase) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.User, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	role, ok := domain.RoleFromAccountType(req.AccountType)
	if !ok {
		return nil, apperror.Validation("Please correct the highlighted fields", map[string]string{
			"AccountType": "Account type must be worker or employer",
		})
	}

	identity, err := u.gateway.SignUp(ctx, req.Email, req.Password, domain.SignUpMetadata{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AccountType: req.AccountType,
	})
	if err != nil {
		return nil, mapAuthError(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        identity.ID,
		Email:     identity.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		// The gateway owns the canonical identity; a local conflict means a
		// previous registration already provisioned this user.
		if !errors.As(err, &appErr) || appErr.Code != 409 {
			return nil, err
		}
	}
	if err := u.onboardingRepo.Init(ctx, user.ID, role); err != nil {
		return nil, err
	}

	audit.Default().Log(ctx, audit.Event{
		Event:        audit.EventSignUp,
		SubjectType:  "email",
		SubjectValue: audit.MaskEmail(user.Email),
		Details:      map[string]interface{}{"role": string(role)},
	})
	return user, nil
}

// SignIn exchanges credentials for a gateway session. Rejections surface as a
// single sanitized message regardless of cause, so the response cannot be
// used to discover which emails are registered.
func (u *authUsecase) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.GatewaySession, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	session, err := u.gateway.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		audit.Default().LogSignInFailed(ctx, req.Email, "", "", "", authErrorCode(err))
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := u.EnsureUserExists(ctx, &domain.User{
		ID:    session.Identity.ID,
		Email: session.Identity.Email,
		Phone: session.Identity.Phone,
		Role:  session.Identity.Role,
	}); err != nil {
		logger.Log.Error("failed to sync user after sign-in", "error", err, "user_id", session.Identity.ID)
	}

	audit.Default().LogSignInSuccess(ctx, session.Identity.ID, "", "")
	return session, nil
}

// SendOTP asks the gateway to dispatch a one-time code. The result is always
// reported as accepted so the endpoint cannot be used to enumerate accounts;
// delivery failures are only logged.
func (u *authUsecase) SendOTP(ctx context.Context, req *domain.SendOTPRequest) bool {
	if err := u.validate.Struct(req); err != nil {
		return false
	}
	if req.Email == "" && req.Phone == "" {
		return false
	}

	if err := u.gateway.SendOTP(ctx, req.Email, req.Phone); err != nil {
		logger.Log.Warn("otp dispatch failed", "error", err)
	}
	audit.Default().Log(ctx, audit.Event{
		Event:        audit.EventOTPRequested,
		SubjectType:  "email",
		SubjectValue: audit.MaskEmail(req.Email),
	})
	return true
}

// VerifyOTP exchanges a one-time code for a session. The code must be
// presented against exactly the destination it was sent to, email or phone.
func (u *authUsecase) VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.GatewaySession, bool) {
	if err := u.validate.Struct(req); err != nil {
		return nil, false
	}
	if (req.Email == "") == (req.Phone == "") {
		return nil, false
	}
	session, err := u.gateway.VerifyOTP(ctx, req.Email, req.Phone, req.Token)
	if err != nil {
		return nil, false
	}

	if err := u.EnsureUserExists(ctx, &domain.User{
		ID:    session.Identity.ID,
		Email: session.Identity.Email,
		Phone: session.Identity.Phone,
		Role:  session.Identity.Role,
	}); err != nil {
		logger.Log.Error("failed to sync user after otp verify", "error", err, "user_id", session.Identity.ID)
	}
	return session, true
}

func (u *authUsecase) SignOut(ctx context.Context) error {
	token, _ := ctx.Value(domain.KeyAuthToken).(string)
	if token == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if err := u.gateway.SignOut(ctx, token); err != nil {
		// The client discards its session either way; a gateway hiccup must
		// not trap the user in a signed-in state.
		logger.Log.Warn("gateway sign-out failed", "error", err)
	}

	userID, _ := ctx.Value(domain.KeyUserID).(string)
	audit.Default().Log(ctx, audit.Event{
		Event:        audit.EventSignOut,
		SubjectType:  "user_id",
		SubjectValue: userID,
	})
	return nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	if err := u.validate.Struct(req); err != nil {
		return apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}
	token, _ := ctx.Value(domain.KeyAuthToken).(string)
	if token == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if err := u.gateway.UpdatePassword(ctx, token, req.Password); err != nil {
		return mapAuthError(err)
	}
	return nil
}

// EnsureUserExists syncs a gateway-authenticated identity into the local
// users table. Idempotent; called from the auth middleware on every request
// carrying a token for an unknown user.
func (u *authUsecase) EnsureUserExists(ctx context.Context, user *domain.User) error {
	existing, err := u.userRepo.GetByID(ctx, user.ID)
	if existing != nil && err == nil {
		if user.Role != "" && existing.Role != user.Role {
			existing.Role = user.Role
			existing.UpdatedAt = time.Now()
			return u.userRepo.Update(ctx, existing)
		}
		return nil
	}

	if user.Role == "" {
		user.Role = domain.RoleWorker
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := u.userRepo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 409 {
			return nil
		}
		return err
	}
	return u.onboardingRepo.Init(ctx, user.ID, user.Role)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

// mapAuthError translates gateway rejections into client-facing errors
// without leaking raw provider messages.
func mapAuthError(err error) error {
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		return apperror.Internal(err)
	}
	switch authErr.Code {
	case domain.AuthErrDuplicateEmail:
		return apperror.Conflict(authErr.Message)
	case domain.AuthErrWeakPassword:
		return apperror.Validation("Please correct the highlighted fields", map[string]string{
			"Password": authErr.Message,
		})
	case domain.AuthErrInvalidCredentials:
		return apperror.Unauthorized("Invalid email or password")
	case domain.AuthErrInvalidCode, domain.AuthErrExpiredCode:
		return apperror.BadRequest(authErr.Message)
	default:
		return apperror.Internal(authErr)
	}
}

func authErrorCode(err error) string {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return string(authErr.Code)
	}
	return "gateway_error"
}

package domain

import (
	"context"
	"time"
)

// Role is the closed account-type union. It is resolved exactly once at
// registration from the gateway's free-form metadata and stored as a
// first-class column; nothing downstream reads raw metadata bags.
type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleWorker || r == RoleEmployer || r == RoleAdmin
}

// RoleFromAccountType maps the registration form's account_type value onto
// the closed union. Unknown or empty values are rejected; admin cannot be
// self-assigned through registration.
func RoleFromAccountType(accountType string) (Role, bool) {
	switch Role(accountType) {
	case RoleWorker:
		return RoleWorker, true
	case RoleEmployer:
		return RoleEmployer, true
	default:
		return "", false
	}
}

// User mirrors the gateway identity plus the locally-owned role column.
type User struct {
	ID        string    `json:"id"` // Gateway UUID
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the read-only session-cached copy of a gateway user. It is
// what the session store holds for the duration of a session.
type Identity struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Role  Role    `json:"role"`
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// ============================================================================
// Identity Gateway (external collaborator, consumed not implemented)
// ============================================================================

// AuthErrorCode classifies gateway rejections without leaking more than the
// gateway itself reveals.
type AuthErrorCode string

const (
	AuthErrDuplicateEmail     AuthErrorCode = "duplicate_email"
	AuthErrWeakPassword       AuthErrorCode = "weak_password"
	AuthErrInvalidCredentials AuthErrorCode = "invalid_credentials"
	AuthErrInvalidCode        AuthErrorCode = "invalid_code"
	AuthErrExpiredCode        AuthErrorCode = "expired_code"
	AuthErrUnknown            AuthErrorCode = "unknown"
)

// AuthError is a structured gateway rejection.
type AuthError struct {
	Code    AuthErrorCode
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// GatewaySession is the token bundle the gateway issues on a successful
// credential or OTP exchange.
type GatewaySession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	Identity     Identity `json:"identity"`
}

// SignUpMetadata is the free-form metadata bag sent alongside registration.
// The gateway stores it verbatim; locally only AccountType is consulted,
// once, to resolve the Role union.
type SignUpMetadata struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AccountType string `json:"account_type"`
}

// IdentityGateway is the contract the application expects from the hosted
// auth provider. Credential storage, OTP dispatch and token issuance all
// live behind it.
type IdentityGateway interface {
	SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*GatewaySession, error)
	// SendOTP dispatches a one-time code to email (magic link) or phone (SMS).
	// It never blocks on the user completing the flow.
	SendOTP(ctx context.Context, email, phone string) error
	// VerifyOTP exchanges the code against the destination it was sent to:
	// email for emailed codes, phone for SMS codes.
	VerifyOTP(ctx context.Context, email, phone, token string) (*GatewaySession, error)
	SignOut(ctx context.Context, accessToken string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	// CurrentIdentity resolves the identity behind an access token, used by
	// the session bootstrap check.
	CurrentIdentity(ctx context.Context, accessToken string) (*Identity, error)
}

// ============================================================================
// Auth usecase
// ============================================================================

type SignUpRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=60,valid_name,no_emoji"`
	LastName        string `json:"last_name" validate:"required,max=60,valid_name,no_emoji"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	AccountType     string `json:"account_type" validate:"required,oneof=worker employer"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,valid_phone"`
}

// VerifyOTPRequest completes an OTP flow against the destination the code
// was sent to: exactly one of email or phone.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,valid_phone"`
	Token string `json:"token" validate:"required,len=6"`
}

type ChangePasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type AuthUsecase interface {
	// SignUp registers with the gateway and provisions the local user and
	// onboarding rows. It never signs the user in implicitly; the gateway
	// may require email confirmation first.
	SignUp(ctx context.Context, req *SignUpRequest) (*User, error)
	SignIn(ctx context.Context, req *SignInRequest) (*GatewaySession, error)
	SendOTP(ctx context.Context, req *SendOTPRequest) bool
	VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*GatewaySession, bool)
	SignOut(ctx context.Context) error
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) error
	// EnsureUserExists syncs a gateway-authenticated identity into the local
	// users table; idempotent, called from the auth middleware.
	EnsureUserExists(ctx context.Context, user *User) error
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

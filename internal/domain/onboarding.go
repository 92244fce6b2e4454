package domain

import (
	"context"
	"time"
)

// Stage is the onboarding pipeline position for an account.
//
// Worker track:   REGISTERED -> PROFILE_PENDING -> SCREENING_PENDING -> PAYMENT_PENDING -> ACTIVE
// Employer track: REGISTERED -> PROFILE_PENDING -> ACTIVE
type Stage string

const (
	StageRegistered       Stage = "REGISTERED"
	StageProfilePending   Stage = "PROFILE_PENDING"
	StageScreeningPending Stage = "SCREENING_PENDING"
	StagePaymentPending   Stage = "PAYMENT_PENDING"
	StageActive           Stage = "ACTIVE"
)

// Route returns the frontend route where a user at this stage belongs.
func (s Stage) Route(role Role) string {
	switch s {
	case StageRegistered, StageProfilePending:
		if role == RoleEmployer {
			return "/employer-profile"
		}
		return "/worker-profile"
	case StageScreeningPending:
		return "/worker-screening"
	case StagePaymentPending:
		return "/worker-payment"
	default:
		return "/"
	}
}

// OnboardingStatus is the persisted completion record per identity. Stage is
// always derived from these facts, never from navigation order, so a user
// cannot bypass a step by bookmarking a later route.
type OnboardingStatus struct {
	UserID            string     `json:"user_id"`
	Role              Role       `json:"role"`
	ProfileCompleted  bool       `json:"profile_completed"`
	ScreeningComplete bool       `json:"screening_completed"`
	PaymentVerified   bool       `json:"payment_verified"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Stage derives the furthest-allowed pipeline position from persisted
// completion facts. Registration itself creates the status row, so an
// existing row is always at least PROFILE_PENDING.
func (s *OnboardingStatus) Stage() Stage {
	if !s.ProfileCompleted {
		return StageProfilePending
	}
	if s.Role == RoleEmployer {
		return StageActive
	}
	if !s.ScreeningComplete {
		return StageScreeningPending
	}
	if !s.PaymentVerified {
		return StagePaymentPending
	}
	return StageActive
}

// Active reports whether the account has completed its full track.
func (s *OnboardingStatus) Active() bool {
	return s.Stage() == StageActive
}

type OnboardingRepository interface {
	// Init creates the status row at registration time; idempotent.
	Init(ctx context.Context, userID string, role Role) error
	GetByUserID(ctx context.Context, userID string) (*OnboardingStatus, error)
}

type OnboardingUsecase interface {
	GetStatus(ctx context.Context, userID string) (*OnboardingStatus, error)
	// ResolveRoute applies the role-gated routing rules for a path given the
	// caller's session (nil identity for anonymous visitors).
	ResolveRoute(ctx context.Context, path string, identity *Identity) (*RouteResolution, error)
}

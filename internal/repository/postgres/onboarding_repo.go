package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workwise-backend/internal/domain"
)

type onboardingRepo struct {
	db *pgxpool.Pool
}

func NewOnboardingRepository(db *pgxpool.Pool) domain.OnboardingRepository {
	return &onboardingRepo{db: db}
}

// Init creates the status row for a freshly registered account. Re-running it
// for an existing user is a no-op, so registration retries stay safe.
func (r *onboardingRepo) Init(ctx context.Context, userID string, role domain.Role) error {
	query := `
		INSERT INTO onboarding_status (user_id, role, profile_completed, screening_completed, payment_verified, updated_at)
		VALUES ($1, $2, FALSE, FALSE, FALSE, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to init onboarding status: %w", err)
	}
	return nil
}

func (r *onboardingRepo) GetByUserID(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	query := `
		SELECT user_id, role, profile_completed, screening_completed, payment_verified, completed_at, updated_at
		FROM onboarding_status
		WHERE user_id = $1
	`
	var status domain.OnboardingStatus
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&status.UserID, &status.Role, &status.ProfileCompleted, &status.ScreeningComplete,
		&status.PaymentVerified, &status.CompletedAt, &status.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get onboarding status: %w", err)
	}
	return &status, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workwise-backend/internal/domain"
)

type workerProfileRepo struct {
	db *pgxpool.Pool
}

func NewWorkerProfileRepository(db *pgxpool.Pool) domain.WorkerProfileRepository {
	return &workerProfileRepo{db: db}
}

func (r *workerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.WorkerProfile, error) {
	query := `
		SELECT id, user_id, bio, work_experience, nationality, address, avatar_key, created_at, updated_at
		FROM worker_profiles
		WHERE user_id = $1
	`
	var p domain.WorkerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Bio, &p.WorkExperience, &p.Nationality, &p.Address,
		&p.AvatarKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker profile: %w", err)
	}
	return &p, nil
}

// Upsert writes the profile and flips the onboarding profile flag in one
// transaction, so a crash between the two can never strand the pipeline.
func (r *workerProfileRepo) Upsert(ctx context.Context, profile *domain.WorkerProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO worker_profiles (user_id, bio, work_experience, nationality, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			work_experience = EXCLUDED.work_experience,
			nationality = EXCLUDED.nationality,
			address = EXCLUDED.address,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		profile.UserID, profile.Bio, profile.WorkExperience, profile.Nationality, profile.Address,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert worker profile: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE onboarding_status SET profile_completed = TRUE, updated_at = NOW() WHERE user_id = $1
	`, profile.UserID)
	if err != nil {
		return fmt.Errorf("failed to mark profile step complete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *workerProfileRepo) SetAvatarKey(ctx context.Context, userID, avatarKey string) error {
	query := `UPDATE worker_profiles SET avatar_key = $2, updated_at = NOW() WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, avatarKey)
	if err != nil {
		return fmt.Errorf("failed to set avatar key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListActive lists only workers whose full pipeline is complete; profiles of
// workers still onboarding never appear in the directory.
func (r *workerProfileRepo) ListActive(ctx context.Context, page, limit int) ([]domain.WorkerProfileSummary, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM worker_profiles wp
		JOIN onboarding_status os ON os.user_id = wp.user_id
		WHERE os.profile_completed AND os.screening_completed AND os.payment_verified
	`
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count worker profiles: %w", err)
	}

	query := `
		SELECT wp.user_id, wp.bio, wp.nationality, wp.avatar_key
		FROM worker_profiles wp
		JOIN onboarding_status os ON os.user_id = wp.user_id
		WHERE os.profile_completed AND os.screening_completed AND os.payment_verified
		ORDER BY wp.updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list worker profiles: %w", err)
	}
	defer rows.Close()

	var results []domain.WorkerProfileSummary
	for rows.Next() {
		var s domain.WorkerProfileSummary
		if err := rows.Scan(&s.UserID, &s.Bio, &s.Nationality, &s.AvatarKey); err != nil {
			return nil, 0, fmt.Errorf("failed to scan worker profile row: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating worker profile rows: %w", err)
	}
	return results, total, nil
}

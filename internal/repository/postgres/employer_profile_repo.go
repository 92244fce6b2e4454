package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workwise-backend/internal/domain"
)

type employerProfileRepo struct {
	db *pgxpool.Pool
}

func NewEmployerProfileRepository(db *pgxpool.Pool) domain.EmployerProfileRepository {
	return &employerProfileRepo{db: db}
}

func (r *employerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	query := `
		SELECT id, user_id, company_name, industry, description, website,
		       street, city, province, postal_code, country,
		       contact_number, contact_email, created_at, updated_at
		FROM employer_profiles
		WHERE user_id = $1
	`
	var p domain.EmployerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.CompanyName, &p.Industry, &p.Description, &p.Website,
		&p.Address.Street, &p.Address.City, &p.Address.Province, &p.Address.PostalCode, &p.Address.Country,
		&p.ContactNumber, &p.ContactEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employer profile: %w", err)
	}
	return &p, nil
}

// Upsert writes the profile and completes the employer's onboarding in one
// transaction. Employers have no screening or payment steps, so the profile
// flag and the completion timestamp land together.
func (r *employerProfileRepo) Upsert(ctx context.Context, profile *domain.EmployerProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO employer_profiles (
			user_id, company_name, industry, description, website,
			street, city, province, postal_code, country,
			contact_number, contact_email, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			province = EXCLUDED.province,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			contact_number = EXCLUDED.contact_number,
			contact_email = EXCLUDED.contact_email,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		profile.UserID, profile.CompanyName, profile.Industry, profile.Description, profile.Website,
		profile.Address.Street, profile.Address.City, profile.Address.Province,
		profile.Address.PostalCode, profile.Address.Country,
		profile.ContactNumber, profile.ContactEmail,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert employer profile: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE onboarding_status
		SET profile_completed = TRUE, completed_at = COALESCE(completed_at, NOW()), updated_at = NOW()
		WHERE user_id = $1
	`, profile.UserID)
	if err != nil {
		return fmt.Errorf("failed to complete employer onboarding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

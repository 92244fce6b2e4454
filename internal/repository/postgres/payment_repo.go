package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-workwise-backend/internal/domain"
)

type paymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `
	id, user_id, method, amount_cents, reference, proof_key, status,
	rejection_reason, activation_hash, verified_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.PaymentVerification, error) {
	var v domain.PaymentVerification
	err := row.Scan(
		&v.ID, &v.UserID, &v.Method, &v.AmountCents, &v.Reference, &v.ProofKey,
		&v.Status, &v.RejectionReason, &v.ActivationHash, &v.VerifiedAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *paymentRepo) GetByUserID(ctx context.Context, userID string) (*domain.PaymentVerification, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_verifications WHERE user_id = $1`
	v, err := scanPayment(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment verification: %w", err)
	}
	return v, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentVerification, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_verifications WHERE id = $1`
	v, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment verification: %w", err)
	}
	return v, nil
}

func (r *paymentRepo) Create(ctx context.Context, v *domain.PaymentVerification) (int64, error) {
	query := `
		INSERT INTO payment_verifications (user_id, method, amount_cents, reference, proof_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		v.UserID, v.Method, v.AmountCents, v.Reference, v.ProofKey, v.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create payment verification: %w", err)
	}
	return id, nil
}

// Upsert replaces a pending or rejected submission on retry; the rejection
// reason from the previous attempt is cleared.
func (r *paymentRepo) Upsert(ctx context.Context, v *domain.PaymentVerification) error {
	query := `
		INSERT INTO payment_verifications (user_id, method, amount_cents, reference, proof_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			method = EXCLUDED.method,
			amount_cents = EXCLUDED.amount_cents,
			reference = EXCLUDED.reference,
			proof_key = EXCLUDED.proof_key,
			status = EXCLUDED.status,
			rejection_reason = NULL,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		v.UserID, v.Method, v.AmountCents, v.Reference, v.ProofKey, v.Status,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert payment verification: %w", err)
	}
	return nil
}

// MarkVerified stores the activation hash and flips the onboarding payment
// flag in the same transaction; the pipeline completion timestamp lands with
// it since payment is the worker's final step.
func (r *paymentRepo) MarkVerified(ctx context.Context, id int64, activationHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
		UPDATE payment_verifications
		SET status = $2, rejection_reason = NULL, activation_hash = $3, verified_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING user_id
	`, id, domain.PaymentStatusVerified, activationHash).Scan(&userID)
	if err != nil {
		return fmt.Errorf("failed to mark payment verified: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE onboarding_status
		SET payment_verified = TRUE, completed_at = COALESCE(completed_at, NOW()), updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to complete worker onboarding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *paymentRepo) MarkRejected(ctx context.Context, id int64, reason domain.RejectionReason) error {
	query := `
		UPDATE payment_verifications
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, domain.PaymentStatusRejected, reason)
	if err != nil {
		return fmt.Errorf("failed to mark payment rejected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.PaymentVerification, int64, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	where := ""
	args := []any{limit, offset}
	if filter.Status != "" {
		where = "WHERE status = $3"
		args = append(args, filter.Status)
	}

	var total int64
	countArgs := args[2:]
	countWhere := ""
	if filter.Status != "" {
		countWhere = "WHERE status = $1"
	}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payment_verifications `+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payment verifications: %w", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payment_verifications ` + where + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payment verifications: %w", err)
	}
	defer rows.Close()

	var results []domain.PaymentVerification
	for rows.Next() {
		v, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment row: %w", err)
		}
		results = append(results, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return results, total, nil
}

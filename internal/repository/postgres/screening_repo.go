package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-workwise-backend/internal/domain"
)

type screeningRepo struct {
	db *pgxpool.Pool
}

func NewScreeningRepository(db *pgxpool.Pool) domain.ScreeningRepository {
	return &screeningRepo{db: db}
}

func (r *screeningRepo) GetByUserID(ctx context.Context, userID string) ([]domain.ScreeningAnswer, error) {
	query := `
		SELECT question_id, answer_text, selections
		FROM screening_answers
		WHERE user_id = $1
		ORDER BY question_id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get screening answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.ScreeningAnswer
	for rows.Next() {
		var a domain.ScreeningAnswer
		var selections []string
		if err := rows.Scan(&a.QuestionID, &a.Text, pq.Array(&selections)); err != nil {
			return nil, fmt.Errorf("failed to scan screening answer: %w", err)
		}
		a.Selections = selections
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating screening answers: %w", err)
	}
	return answers, nil
}

// Save replaces the user's answers and marks the screening step complete in
// the same transaction. Resubmission overwrites the previous answer set.
func (r *screeningRepo) Save(ctx context.Context, userID string, answers []domain.ScreeningAnswer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM screening_answers WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear previous answers: %w", err)
	}

	for _, a := range answers {
		_, err = tx.Exec(ctx, `
			INSERT INTO screening_answers (user_id, question_id, answer_text, selections, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, userID, a.QuestionID, a.Text, pq.Array(a.Selections))
		if err != nil {
			return fmt.Errorf("failed to insert answer %s: %w", a.QuestionID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE onboarding_status SET screening_completed = TRUE, updated_at = NOW() WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark screening step complete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

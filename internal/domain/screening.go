package domain

import "context"

// QuestionType distinguishes how a screening answer is captured.
type QuestionType string

const (
	QuestionText         QuestionType = "text"
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionMultiChoice  QuestionType = "multi_choice"
)

// ScreeningQuestion is one entry of the static screening catalog.
type ScreeningQuestion struct {
	ID       string       `json:"id"`
	Prompt   string       `json:"prompt"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// screeningCatalog is static content; it is not stored in the database.
var screeningCatalog = []ScreeningQuestion{
	{
		ID:       "experience",
		Prompt:   "How many years of experience do you have in this field?",
		Type:     QuestionSingleChoice,
		Options:  []string{"Less than 1 year", "1-3 years", "3-5 years", "5+ years"},
		Required: true,
	},
	{
		ID:       "criminal",
		Prompt:   "Do you have any criminal records?",
		Type:     QuestionSingleChoice,
		Options:  []string{"Yes", "No"},
		Required: true,
	},
	{
		ID:       "references",
		Prompt:   "Can you provide references from previous employers?",
		Type:     QuestionSingleChoice,
		Options:  []string{"Yes", "No"},
		Required: true,
	},
	{
		ID:       "availability",
		Prompt:   "What is your availability?",
		Type:     QuestionMultiChoice,
		Options:  []string{"Weekdays", "Weekends", "Mornings", "Afternoons", "Evenings"},
		Required: true,
	},
	{
		ID:       "skills",
		Prompt:   "Please list your relevant skills and qualifications:",
		Type:     QuestionText,
		Required: true,
	},
	{
		ID:       "reason",
		Prompt:   "Why do you want to work through our platform?",
		Type:     QuestionText,
		Required: false,
	},
}

// ScreeningQuestions returns the static question catalog.
func ScreeningQuestions() []ScreeningQuestion {
	return screeningCatalog
}

// ScreeningAnswer is one submitted answer; Text for free-text and
// single-choice questions, Selections for multi-choice.
type ScreeningAnswer struct {
	QuestionID string   `json:"question_id"`
	Text       string   `json:"text,omitempty"`
	Selections []string `json:"selections,omitempty"`
}

type ScreeningSubmission struct {
	Answers []ScreeningAnswer `json:"answers" validate:"required"`
}

// ValidateScreeningAnswers checks a submission against the catalog and
// returns every violation keyed by question id. Validation is deliberately
// not fail-fast: the whole violation set is rendered beside the offending
// fields in one pass.
func ValidateScreeningAnswers(answers []ScreeningAnswer) map[string]string {
	byID := make(map[string]ScreeningAnswer, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a
	}

	violations := make(map[string]string)
	for _, q := range screeningCatalog {
		answer, answered := byID[q.ID]
		switch q.Type {
		case QuestionText:
			if q.Required && (!answered || answer.Text == "") {
				violations[q.ID] = "This field is required"
			}
		case QuestionSingleChoice:
			if q.Required && (!answered || answer.Text == "") {
				violations[q.ID] = "This field is required"
				continue
			}
			if answered && answer.Text != "" && !containsOption(q.Options, answer.Text) {
				violations[q.ID] = "Please select one of the listed options"
			}
		case QuestionMultiChoice:
			if q.Required && (!answered || len(answer.Selections) == 0) {
				violations[q.ID] = "Please select at least one option"
				continue
			}
			for _, sel := range answer.Selections {
				if !containsOption(q.Options, sel) {
					violations[q.ID] = "Please select only listed options"
					break
				}
			}
		}
	}
	return violations
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

type ScreeningRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]ScreeningAnswer, error)
	// Save replaces the user's answers and marks the screening step complete
	// in the same transaction.
	Save(ctx context.Context, userID string, answers []ScreeningAnswer) error
}

type ScreeningUsecase interface {
	GetQuestions(ctx context.Context) []ScreeningQuestion
	GetMine(ctx context.Context, userID string) ([]ScreeningAnswer, error)
	// Submit validates all answers at once, persists them and advances the
	// pipeline; returns the route of the next step.
	Submit(ctx context.Context, userID string, sub *ScreeningSubmission) (string, error)
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-workwise-backend/internal/domain"
)

func completeAnswers() []domain.ScreeningAnswer {
	return []domain.ScreeningAnswer{
		{QuestionID: "experience", Text: "1-3 years"},
		{QuestionID: "criminal", Text: "No"},
		{QuestionID: "references", Text: "Yes"},
		{QuestionID: "availability", Selections: []string{"Weekdays", "Mornings"}},
		{QuestionID: "skills", Text: "Cleaning, cooking, childcare"},
	}
}

func TestValidateScreeningAnswers(t *testing.T) {
	t.Run("complete submission has no violations", func(t *testing.T) {
		assert.Empty(t, domain.ValidateScreeningAnswers(completeAnswers()))
	})

	t.Run("all violations surface in one pass", func(t *testing.T) {
		violations := domain.ValidateScreeningAnswers(nil)
		// Every required question is flagged at once, not just the first.
		assert.Len(t, violations, 5)
		assert.Contains(t, violations, "experience")
		assert.Contains(t, violations, "availability")
		assert.Contains(t, violations, "skills")
		assert.NotContains(t, violations, "reason")
	})

	t.Run("single choice must come from the listed options", func(t *testing.T) {
		answers := completeAnswers()
		answers[0].Text = "Forever"
		violations := domain.ValidateScreeningAnswers(answers)
		assert.Contains(t, violations, "experience")
		assert.Len(t, violations, 1)
	})

	t.Run("multi choice rejects unlisted selections", func(t *testing.T) {
		answers := completeAnswers()
		answers[3].Selections = []string{"Weekdays", "Midnight"}
		violations := domain.ValidateScreeningAnswers(answers)
		assert.Contains(t, violations, "availability")
	})

	t.Run("optional free text may be omitted", func(t *testing.T) {
		answers := append(completeAnswers(), domain.ScreeningAnswer{QuestionID: "reason", Text: ""})
		assert.Empty(t, domain.ValidateScreeningAnswers(answers))
	})
}

func TestPaymentMethodRules(t *testing.T) {
	assert.True(t, domain.PaymentCard.IsValid())
	assert.True(t, domain.PaymentPayPal.IsValid())
	assert.False(t, domain.PaymentMethod("bitcoin").IsValid())

	// Card and PayPal settle in-band; EFT and deposit need proof or reference.
	assert.False(t, domain.PaymentCard.Asynchronous())
	assert.False(t, domain.PaymentPayPal.Asynchronous())
	assert.True(t, domain.PaymentEFT.Asynchronous())
	assert.True(t, domain.PaymentDeposit.Asynchronous())
}

func TestRejectionReasonUnion(t *testing.T) {
	assert.True(t, domain.RejectAmountMismatch.IsValid())
	assert.True(t, domain.RejectIllegibleProof.IsValid())
	assert.True(t, domain.RejectReferenceNotFound.IsValid())
	assert.False(t, domain.RejectionReason("felt_like_it").IsValid())
	assert.False(t, domain.RejectionReason("").IsValid())
}

func TestActivationCodePattern(t *testing.T) {
	assert.True(t, domain.ActivationCodePattern.MatchString("WORKA1B2C3"))
	assert.False(t, domain.ActivationCodePattern.MatchString("WORKa1b2c3"))
	assert.False(t, domain.ActivationCodePattern.MatchString("WORK12345"))
	assert.False(t, domain.ActivationCodePattern.MatchString("CODEA1B2C3"))
}

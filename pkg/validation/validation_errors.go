package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown next to form inputs.
var FieldLabels = map[string]string{
	// Registration
	"FirstName":       "First name",
	"LastName":        "Last name",
	"Email":           "Email",
	"Password":        "Password",
	"ConfirmPassword": "Confirm password",
	"AccountType":     "Account type",
	"Phone":           "Phone number",

	// Worker profile
	"Bio":            "Bio",
	"WorkExperience": "Work experience",
	"Nationality":    "Nationality",
	"Address":        "Address",

	// Employer profile
	"CompanyName":   "Company name",
	"Industry":      "Industry",
	"Description":   "Company description",
	"Website":       "Website",
	"Street":        "Street address",
	"City":          "City",
	"Province":      "Province",
	"PostalCode":    "Postal code",
	"Country":       "Country",
	"ContactNumber": "Contact number",
	"ContactEmail":  "Contact email",

	// Payment
	"Method":    "Payment method",
	"Reference": "Payment reference",

	// Contact form
	"Name":    "Name",
	"Subject": "Subject",
	"Message": "Message",
}

// FieldViolations converts validator errors into a field -> message map so
// every violation can be rendered beside its input at once.
func FieldViolations(err error) map[string]string {
	violations := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		violations["_"] = err.Error()
		return violations
	}

	for _, e := range validationErrors {
		violations[e.Field()] = formatSingleError(e)
	}
	return violations
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, getFieldLabel(param))
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, with or without +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s may not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

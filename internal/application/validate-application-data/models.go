// internal/application/validate-application-data/models.go
package validateapplicationdata

import (
	"builder-network/internal/common/validation"
	"builder-network/internal/models"
)

type Input struct {
	Body []byte
}

type Output struct {
	Application *models.Application
}

// MissingFieldError names the first required field that was empty.
type MissingFieldError struct {
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	return ErrMissingRequiredField.Error() + ": " + e.Field
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingRequiredField
}

// PayloadError carries the schema violations of a rejected body.
type PayloadError struct {
	Errors []validation.ValidationError
}

func (e *PayloadError) Error() string {
	msg := ErrInvalidPayload.Error()
	for i, v := range e.Errors {
		if i == 3 {
			msg += "; ..."
			break
		}
		msg += "; " + v.Field + ": " + v.Message
	}
	return msg
}

func (e *PayloadError) Unwrap() error {
	return ErrInvalidPayload
}

type requiredField struct {
	name    string
	message string
	value   func(*models.Application) string
}

// Checked in order; the first missing one is reported.
var requiredFields = []requiredField{
	{"legalBusinessName", "Legal business name is required", func(a *models.Application) string { return a.LegalBusinessName }},
	{"contactName", "Contact name is required", func(a *models.Application) string { return a.ContactName }},
	{"contactEmail", "Contact email is required", func(a *models.Application) string { return a.ContactEmail }},
}

// internal/application/validate-application-data/handler_test.go
package validateapplicationdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"builder-network/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T) *Handler {
	h, err := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

const validBody = `{
	"legalBusinessName": "Acme Steel LLC",
	"dba": "",
	"contactName": "Jane Doe",
	"contactEmail": "jane@acme.com",
	"expertise": {"designBuild": true, "customHomeBuilding": false},
	"buildingStandards": {"ibc": true},
	"projects": [
		{"location": "Austin, TX", "squareFootage": 2400, "completionDate": "2023-05", "projectValue": "$400k", "referenceContact": "Bob"},
		{"location": "", "squareFootage": "", "completionDate": "", "projectValue": "", "referenceContact": ""},
		{"location": "", "squareFootage": "", "completionDate": "", "projectValue": "", "referenceContact": ""}
	],
	"certifications": ["AISC", "", ""],
	"additionalInfo": ""
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Body: []byte(validBody)})

	require.NoError(t, err)
	require.NotNil(t, output.Application)
	assert.Equal(t, "Acme Steel LLC", output.Application.LegalBusinessName)
	assert.Equal(t, "2400", string(output.Application.Projects[0].SquareFootage))
	assert.True(t, output.Application.Expertise["designBuild"])
}

func TestHandler_Execute_SnakeCaseAliases(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Body: []byte(`{
		"legal_business_name": "Acme Steel LLC",
		"contact_name": "Jane Doe",
		"contact_email": "jane@acme.com"
	}`)})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", output.Application.ContactName)
	assert.Equal(t, "jane@acme.com", output.Application.ContactEmail)
}

func TestHandler_Execute_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{
			name:    "missing business name",
			body:    `{"contactName": "Jane", "contactEmail": "jane@acme.com"}`,
			field:   "legalBusinessName",
			message: "Legal business name is required",
		},
		{
			name:    "whitespace business name",
			body:    `{"legalBusinessName": "   ", "contactName": "Jane", "contactEmail": "jane@acme.com"}`,
			field:   "legalBusinessName",
			message: "Legal business name is required",
		},
		{
			name:    "missing contact name",
			body:    `{"legalBusinessName": "Acme", "contactEmail": "jane@acme.com"}`,
			field:   "contactName",
			message: "Contact name is required",
		},
		{
			name:    "missing contact email",
			body:    `{"legalBusinessName": "Acme", "contactName": "Jane"}`,
			field:   "contactEmail",
			message: "Contact email is required",
		},
		{
			name:    "null business name",
			body:    `{"legalBusinessName": null, "contactName": "Jane", "contactEmail": "jane@acme.com"}`,
			field:   "legalBusinessName",
			message: "Legal business name is required",
		},
		{
			name:    "null contact email",
			body:    `{"legalBusinessName": "Acme", "contactName": "Jane", "contactEmail": null}`,
			field:   "contactEmail",
			message: "Contact email is required",
		},
		{
			name:    "null snake case contact name",
			body:    `{"legal_business_name": "Acme", "contact_name": null, "contact_email": "jane@acme.com"}`,
			field:   "contactName",
			message: "Contact name is required",
		},
		{
			name:    "everything missing reports business name first",
			body:    `{}`,
			field:   "legalBusinessName",
			message: "Legal business name is required",
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{Body: []byte(tt.body)})

			assert.Nil(t, output)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingRequiredField))

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, tt.message, missing.Message)
		})
	}
}

func TestHandler_Execute_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array body", `[]`},
		{"null body", `null`},
		{"numeric business name", `{"legalBusinessName": 42, "contactName": "Jane", "contactEmail": "j@a.co"}`},
		{"string flag", `{"legalBusinessName": "Acme", "expertise": {"designBuild": "yes"}}`},
		{"too many projects", `{"projects": [{}, {}, {}, {}]}`},
		{"object square footage", `{"projects": [{"squareFootage": {"value": 1}}]}`},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{Body: []byte(tt.body)})

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrInvalidPayload), "got %v", err)
		})
	}
}

func TestHandler_Execute_MalformedJSON(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{``, `{`, `{"legalBusinessName": "Acme",}`} {
		output, err := h.Execute(context.Background(), &Input{Body: []byte(body)})

		assert.Nil(t, output)
		assert.True(t, errors.Is(err, ErrInvalidRequestBody), "body %q: %v", body, err)
	}
}

func TestPayloadError_Message(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Body: []byte(`{"legalBusinessName": 1, "contactName": 2}`)})

	var payloadErr *PayloadError
	require.True(t, errors.As(err, &payloadErr))
	assert.Len(t, payloadErr.Errors, 2)
	assert.Contains(t, err.Error(), "INVALID_PAYLOAD")
}

func TestNewHandler_BadSchema(t *testing.T) {
	_, err := NewHandler(&Config{Schema: []byte(`{"type": 7}`)}, logger.NewTestLogger(t))
	assert.Error(t, err)
}

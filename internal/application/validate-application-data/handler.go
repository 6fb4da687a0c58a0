// internal/application/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"builder-network/internal/common/logger"
	"builder-network/internal/common/validation"
	"builder-network/internal/models"
)

const (
	TaskType = "validate-application-data"
)

var (
	ErrInvalidRequestBody   = errors.New("INVALID_REQUEST_BODY")
	ErrInvalidPayload       = errors.New("INVALID_PAYLOAD")
	ErrMissingRequiredField = errors.New("MISSING_REQUIRED_FIELD")
)

type Handler struct {
	schema *validation.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	schemaJSON := config.Schema
	if len(schemaJSON) == 0 {
		schemaJSON = defaultSchema
	}

	schema, err := validation.CompileSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("load application schema: %w", err)
	}

	return &Handler{
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if !json.Valid(input.Body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidRequestBody)
	}

	result, err := h.schema.ValidateJSON(input.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)
	}
	if !result.Valid {
		h.logger.Info("schema validation failed", map[string]interface{}{
			"errorCount": len(result.Errors),
			"errors":     result.GetErrorMessages(),
		})
		return nil, &PayloadError{Errors: result.Errors}
	}

	var app models.Application
	if err := json.Unmarshal(input.Body, &app); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidPayload, err)
	}

	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(&app)) == "" {
			h.logger.Info("required field missing", map[string]interface{}{
				"field": f.name,
			})
			return nil, &MissingFieldError{Field: f.name, Message: f.message}
		}
	}

	h.logger.Debug("validation completed", map[string]interface{}{
		"legalBusinessName": app.LegalBusinessName,
	})

	return &Output{Application: &app}, nil
}

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"tags": {"type": "array", "items": {"type": "string"}, "maxItems": 2},
		"flags": {"type": "object", "additionalProperties": {"type": "boolean"}}
	},
	"required": ["name"]
}`

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema([]byte(`{"type": 12}`))
	assert.Error(t, err)
}

func TestValidateJSON(t *testing.T) {
	schema, err := CompileSchema([]byte(testSchema))
	require.NoError(t, err)

	tests := []struct {
		name      string
		doc       string
		valid     bool
		errorPath string
	}{
		{"valid", `{"name": "Acme", "tags": ["a"], "flags": {"x": true}}`, true, ""},
		{"missing required", `{"tags": []}`, false, "(root)"},
		{"wrong type", `{"name": 5}`, false, "name"},
		{"too many items", `{"name": "a", "tags": ["a", "b", "c"]}`, false, "tags"},
		{"non boolean flag", `{"name": "a", "flags": {"x": "yes"}}`, false, "flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ValidateJSON([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.GetErrorMessages())
				assert.True(t, hasFieldError(result, tt.errorPath), "errors: %v", result.Errors)
			}
		})
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	schema, err := CompileSchema([]byte(testSchema))
	require.NoError(t, err)

	_, err = schema.ValidateJSON([]byte(`{"name":`))
	assert.Error(t, err)
}

func hasFieldError(result *ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field || strings.HasPrefix(e.Field, field+".") {
			return true
		}
	}
	return false
}

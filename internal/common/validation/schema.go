package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is the subset of draft-07 the API request schemas use.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins all messages; handy for INVALID_REQUEST details.
func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidateJSON validates a raw request body against schema.
func ValidateJSON(body []byte, schema JSONSchema) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_JSON",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

// AskRequestSchema covers POST /api/ask.
var AskRequestSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"question": {
			Type:        "string",
			Description: "Natural-language question about the clients table",
			MaxLength:   intPtr(4000),
		},
		"temperature": {
			Type:    "number",
			Minimum: floatPtr(0),
			Maximum: floatPtr(1),
		},
	},
	Required:             []string{"question"},
	AdditionalProperties: boolPtr(false),
}

// FeedbackRequestSchema covers POST /api/feedback. An empty label means Yes.
var FeedbackRequestSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"feedback": {
			Type: "string",
			Enum: []string{"Yes", "No", ""},
		},
	},
	AdditionalProperties: boolPtr(false),
}

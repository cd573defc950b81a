package analysis

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed result.schema.json
var resultSchemaJSON string

// FieldError describes one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation of a result.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "result does not match schema: " + strings.Join(parts, "; ")
}

// ValidateResult checks r against the published result schema.
func ValidateResult(r Result) error {
	schemaLoader := gojsonschema.NewStringLoader(resultSchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(r)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate result: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

// Package validation checks ATS response envelopes against JSON schemas
// before any typed decoding happens. The ATS speaks JSON:API; a malformed
// envelope fails here with a readable message instead of producing
// half-populated structs downstream.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var resourceSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "type"},
	"properties": map[string]interface{}{
		"id":            map[string]interface{}{"type": "string"},
		"type":          map[string]interface{}{"type": "string"},
		"attributes":    map[string]interface{}{"type": "object"},
		"relationships": map[string]interface{}{"type": "object"},
	},
}

// SingleResourceSchema matches a JSON:API response carrying one resource
// object under "data".
var SingleResourceSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"data"},
	"properties": map[string]interface{}{
		"data": resourceSchema,
	},
}

// ListResourceSchema matches a JSON:API response carrying an array of
// resource objects under "data".
var ListResourceSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"data"},
	"properties": map[string]interface{}{
		"data": map[string]interface{}{
			"type":  "array",
			"items": resourceSchema,
		},
	},
}

// ValidateEnvelope validates a raw response body against the given schema.
func ValidateEnvelope(body []byte, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response validation failed: %v", errs)
	}

	return nil
}

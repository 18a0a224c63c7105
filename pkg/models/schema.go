package models

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// orderRequestSchema validates the raw intake payload before it is bound to
// OrderRequest, so malformed bodies are rejected with field-level detail.
const orderRequestSchema = `{
	"type": "object",
	"required": ["orderId", "customerId", "items", "totalAmount"],
	"properties": {
		"orderId": {"type": "string", "minLength": 1},
		"customerId": {"type": "string", "minLength": 1},
		"items": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["productId", "quantity", "unitPrice"],
				"properties": {
					"productId": {"type": "string", "minLength": 1},
					"quantity": {"type": "integer", "minimum": 1},
					"unitPrice": {"type": "number", "minimum": 0}
				}
			}
		},
		"totalAmount": {"type": "number", "minimum": 0}
	}
}`

// ValidateOrderPayload validates a raw JSON order payload against the intake
// schema. It returns the list of violations, empty when the payload is valid.
func ValidateOrderPayload(payload []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewStringLoader(orderRequestSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate order payload: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return violations, nil
}

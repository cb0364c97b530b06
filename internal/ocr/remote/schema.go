package remote

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema accepts the shapes OCR services answer with: the text under
// "text", "ocr" or "result", or nested as data.text.
const responseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "text":   {"type": "string"},
    "ocr":    {"type": "string"},
    "result": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0},
    "data": {
      "type": "object",
      "properties": {"text": {"type": "string"}}
    }
  },
  "anyOf": [
    {"required": ["text"]},
    {"required": ["ocr"]},
    {"required": ["result"]},
    {"required": ["data"], "properties": {"data": {"required": ["text"]}}}
  ]
}`

func compileResponseSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("ocr_response.json", strings.NewReader(responseSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("ocr_response.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

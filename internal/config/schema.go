package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON schema the parsed YAML document is validated
// against before decoding into Definition. Validation catches structural
// mistakes (wrong types, unknown backend fields) with positional messages
// instead of silent zero values.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer"},
    "backend": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "type": {"type": "string", "enum": ["aws-secretsmanager", "aws-ssm"]},
        "region": {"type": "string"},
        "endpoint": {"type": "string"},
        "timeout_ms": {"type": "integer", "minimum": 1},
        "access_key_id": {"type": "string"},
        "secret_access_key": {"type": "string"}
      }
    },
    "bundle": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string"}
      },
      "required": ["name"]
    },
    "sources": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "devcontainer": {"type": "string"},
        "envTemplate": {"type": "string"}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "mode": {"type": "string", "enum": ["env", "file", "both"]},
        "path": {"type": "string"}
      }
    }
  },
  "required": ["bundle"]
}`

// validateSchema checks the decoded YAML document against configSchema. The
// document is round-tripped through JSON because the schema validator only
// speaks JSON.
func validateSchema(doc interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("%s", strings.Join(messages, "; "))
	}

	return nil
}

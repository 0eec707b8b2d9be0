package defaults

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/conneroisu/fpgagen/internal/errors"
)

const linesSchema = `{
  "type": "object",
  "additionalProperties": {"type": "array", "items": {"type": "string"}}
}`

var boardSchema = gojsonschema.NewStringLoader(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project", "settings", "hardware"],
  "properties": {
    "project": {
      "type": "object",
      "required": ["quartus_version"],
      "properties": {
        "quartus_version": {"type": ["string", "number"]},
        "meta": {"type": "object"}
      }
    },
    "settings": {
      "type": "object",
      "required": ["family", "device"],
      "properties": {
        "family": {"type": "string"},
        "device": {"type": "string"},
        "original_quartus_version": {"type": ["string", "number", "null"]},
        "last_quartus_version": {"type": ["string", "number", "null"]},
        "project_output_directory": {"type": ["string", "null"]},
        "global_assignments": {"type": ["object", "null"]},
        "user_assignments": ` + linesSchema + `
      }
    },
    "constraints": {
      "type": ["object", "null"],
      "properties": {
        "blocks": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["statements"],
            "properties": {
              "comment": {"type": "string"},
              "statements": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    },
    "hardware": {
      "type": "object",
      "properties": {
        "assignments": ` + linesSchema + `,
        "functions": {
          "type": ["object", "null"],
          "additionalProperties": {"type": ["integer", "null"]}
        }
      }
    },
    "misc": {
      "type": ["object", "null"],
      "properties": {"message": {"type": ["string", "null"]}}
    }
  }
}`)

var coreSchema = gojsonschema.NewStringLoader(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["settings", "hardware", "payload"],
  "properties": {
    "settings": {
      "type": "object",
      "properties": {"global_assignments": {"type": ["object", "null"]}}
    },
    "hardware": {
      "type": "object",
      "properties": {"assignments": ` + linesSchema + `}
    },
    "exclude": {"type": "array", "items": {"type": "string"}},
    "payload": {"type": "string", "minLength": 1}
  }
}`)

// validate checks doc against schema and reports every violation in a
// single MalformedBoardDefaults error.
func validate(source string, schema gojsonschema.JSONLoader, doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.MalformedBoardDefaults(source, fmt.Sprintf("schema validation: %v", err))
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return errors.MalformedBoardDefaults(source, strings.Join(details, "; "))
}

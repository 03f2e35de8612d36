package settings

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemas constrain what each well-known key may store. Writes are validated
// before they reach the backend so a bad admin payload cannot poison readers.
var schemas = map[string]map[string]any{
	KeyContactInfo: {
		"type": "object",
		"properties": map[string]any{
			"email":    map[string]any{"type": "string", "minLength": 3},
			"phone":    map[string]any{"type": "string"},
			"address":  map[string]any{"type": "string"},
			"map_url":  map[string]any{"type": "string"},
			"twitter":  map[string]any{"type": "string"},
			"linkedin": map[string]any{"type": "string"},
		},
		"required":             []any{"email"},
		"additionalProperties": false,
	},
	KeySEODefaults: {
		"type": "object",
		"properties": map[string]any{
			"title_suffix":  map[string]any{"type": "string"},
			"description":   map[string]any{"type": "string"},
			"og_image_url":  map[string]any{"type": "string"},
			"canonical_url": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	},
	KeyPaymentSettings: {
		"type": "object",
		"properties": map[string]any{
			"provider":          map[string]any{"type": "string", "enum": []any{"hosted", "bank_transfer"}},
			"currency":          map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
			"bank_name":         map[string]any{"type": "string"},
			"bank_account_iban": map[string]any{"type": "string"},
			"instructions_url":  map[string]any{"type": "string"},
		},
		"required":             []any{"provider"},
		"additionalProperties": false,
	},
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func validateValue(key string, value json.RawMessage) error {
	schema, ok := schemas[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var payload any
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("settings: value for %q is not valid JSON: %w", key, err)
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("settings: schema for %q failed to compile: %w", key, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("settings: value for %q rejected: %w", key, err)
	}
	return nil
}

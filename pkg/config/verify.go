package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema []byte

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	return VerifySchema(cfg, embeddedSchema)
}

// VerifySchema validates the config against the given JSON schema. Types, required properties,
// enums and numeric ranges are checked.
func VerifySchema(cfg *Config, schemaData []byte) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaData, &schema); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(configData))
	dec.UseNumber()
	var configMap map[string]any
	if err := dec.Decode(&configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return checkValue(configMap, &schema, schema.Definitions, "config")
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

func checkValue(v any, s *jsonschema.Schema, defs jsonschema.Definitions, path string) error {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		name := strings.TrimPrefix(s.Ref, "#/$defs/")
		def, ok := defs[name]
		if !ok {
			return fmt.Errorf("%s: unresolved schema reference %q", path, s.Ref)
		}
		return checkValue(v, def, defs, path)
	}
	if v == nil {
		return nil // nil slices and maps
	}

	if len(s.Enum) > 0 && !slices.ContainsFunc(s.Enum, func(e any) bool { return fmt.Sprint(e) == fmt.Sprint(v) }) {
		return fmt.Errorf("%s: value %v is not one of %v", path, v, s.Enum)
	}

	switch s.Type {
	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, v)
		}
		for _, req := range s.Required {
			if _, ok := m[req]; !ok {
				return fmt.Errorf("%s.%s is required", path, req)
			}
		}
		for k, val := range m {
			propSchema := s.AdditionalProperties
			if s.Properties != nil {
				ps, found := s.Properties.Get(k)
				if !found {
					continue
				}
				propSchema = ps
			}
			if err := checkValue(val, propSchema, defs, path+"."+k); err != nil {
				return err
			}
		}
	case "array":
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, v)
		}
		for i, item := range arr {
			if err := checkValue(item, s.Items, defs, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, v)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, v)
		}
	case "integer", "number":
		return checkNumber(v, s, path)
	}
	return nil
}

func checkNumber(v any, s *jsonschema.Schema, path string) error {
	n, ok := v.(json.Number)
	if !ok {
		return fmt.Errorf("%s: expected %s, got %T", path, s.Type, v)
	}
	if s.Type == "integer" {
		if _, err := n.Int64(); err != nil {
			return fmt.Errorf("%s: expected integer, got %s", path, n)
		}
	}
	val, err := n.Float64()
	if err != nil {
		return fmt.Errorf("%s: invalid number %s", path, n)
	}
	if s.Minimum != "" {
		if minVal, err := s.Minimum.Float64(); err == nil && val < minVal {
			return fmt.Errorf("%s: %s is less than minimum %s", path, n, s.Minimum)
		}
	}
	if s.Maximum != "" {
		if maxVal, err := s.Maximum.Float64(); err == nil && val > maxVal {
			return fmt.Errorf("%s: %s is greater than maximum %s", path, n, s.Maximum)
		}
	}
	return nil
}

package schema

import (
	"fmt"
	"math"
)

// Property describes a single named parameter of a tool.
// The Type field uses JSON Schema primitive names: "string", "integer",
// "number" or "boolean".
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	// Default is filled into the argument map when the caller omits the
	// parameter. Validation runs before tool handlers, so handlers can rely
	// on defaults being present.
	Default any `json:"default,omitempty"`
}

// Object declares the full parameter surface of a tool as a JSON Schema
// object. It is both the wire-level schema advertised to clients and the
// validator applied to incoming argument maps.
type Object struct {
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// JSON renders the schema as a plain map ready for serialization into a
// tool listing ("type": "object" envelope included).
func (o Object) JSON() map[string]any {
	props := make(map[string]any, len(o.Properties))
	for name, p := range o.Properties {
		entry := map[string]any{"type": p.Type}
		if p.Description != "" {
			entry["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			entry["enum"] = p.Enum
		}
		if p.Minimum != nil {
			entry["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			entry["maximum"] = *p.Maximum
		}
		if p.Default != nil {
			entry["default"] = p.Default
		}
		props[name] = entry
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(o.Required) > 0 {
		out["required"] = o.Required
	}
	return out
}

// Validate checks the argument map against the schema and returns a
// normalized copy: unknown keys are rejected, required keys enforced,
// defaults filled, enum membership and numeric bounds checked, and
// integer-typed values converted to Go int.
//
// The input map is never modified.
func (o Object) Validate(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(o.Properties))

	for name, value := range args {
		prop, ok := o.Properties[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		normalized, err := normalize(name, prop, value)
		if err != nil {
			return nil, err
		}
		out[name] = normalized
	}

	for _, name := range o.Required {
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("missing required parameter %q", name)
		}
	}

	for name, prop := range o.Properties {
		if _, ok := out[name]; !ok && prop.Default != nil {
			normalized, err := normalize(name, prop, prop.Default)
			if err != nil {
				return nil, fmt.Errorf("bad default for %q: %w", name, err)
			}
			out[name] = normalized
		}
	}

	return out, nil
}

// normalize coerces a decoded JSON value into the declared type and applies
// the property's constraints.
func normalize(name string, prop Property, value any) (any, error) {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a string", name)
		}
		if len(prop.Enum) > 0 {
			for _, allowed := range prop.Enum {
				if s == allowed {
					return s, nil
				}
			}
			return nil, fmt.Errorf("parameter %q must be one of %v", name, prop.Enum)
		}
		return s, nil

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a boolean", name)
		}
		return b, nil

	case "integer":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("parameter %q must be an integer", name)
		}
		if err := checkBounds(name, prop, f); err != nil {
			return nil, err
		}
		return int(f), nil

	case "number":
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be a number", name)
		}
		if err := checkBounds(name, prop, f); err != nil {
			return nil, err
		}
		return f, nil

	default:
		return nil, fmt.Errorf("parameter %q has unsupported schema type %q", name, prop.Type)
	}
}

func checkBounds(name string, prop Property, f float64) error {
	if prop.Minimum != nil && f < *prop.Minimum {
		return fmt.Errorf("parameter %q must be >= %v", name, *prop.Minimum)
	}
	if prop.Maximum != nil && f > *prop.Maximum {
		return fmt.Errorf("parameter %q must be <= %v", name, *prop.Maximum)
	}
	return nil
}

// toFloat accepts the numeric representations produced by JSON decoding
// as well as literal Go ints used in schema defaults.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

package tools

import (
	"errors"
	"fmt"
)

// ErrInvalidArguments marks tool arguments that fail the input schema. The
// router maps it to the invalid-params JSON-RPC code.
var ErrInvalidArguments = errors.New("invalid arguments")

// ErrUnknownTool marks a tools/call naming a tool outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// ValidateArguments checks the argument object against the tool's input
// schema: required fields must be present and non-null, and present fields
// must match their declared type. Unknown arguments are ignored.
func ValidateArguments(def ToolDefinition, args map[string]any) error {
	for _, field := range def.InputSchema.Required {
		v, ok := args[field]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s: missing required field %q", ErrInvalidArguments, def.Name, field)
		}
	}

	for field, prop := range def.InputSchema.Properties {
		v, ok := args[field]
		if !ok || v == nil {
			continue
		}
		if err := checkType(field, prop, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidArguments, def.Name, err)
		}
	}

	return nil
}

// checkType verifies a decoded JSON value against a schema property type.
// Numbers arrive as float64 from encoding/json; integers must be whole.
func checkType(field string, prop Property, v any) error {
	switch prop.Type {
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %q must be a string", field)
		}
	case "integer":
		switch n := v.(type) {
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("field %q must be an integer", field)
			}
		case int, int64:
		default:
			return fmt.Errorf("field %q must be an integer", field)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("field %q must be a boolean", field)
		}
	case "array":
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("field %q must be an array", field)
		}
		if prop.Items != nil {
			for i, item := range items {
				if err := checkType(fmt.Sprintf("%s[%d]", field, i), *prop.Items, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

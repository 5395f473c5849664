package cel

// This file converts between the audience schema type system and CEL's.
// The schema is turned into CEL variable declarations, used to check
// expressions when they are compiled.

import (
	"fmt"

	"github.com/ezachrisen/audience"
	celgo "github.com/google/cel-go/cel"
)

// convertSchemaToDeclarations converts a schema to a list of CEL variable
// declarations, one per data element.
func convertSchemaToDeclarations(s audience.Schema) ([]celgo.EnvOption, error) {
	opts := make([]celgo.EnvOption, 0, len(s.Elements))
	for _, d := range s.Elements {
		if d.Name == "" {
			return nil, fmt.Errorf("schema element with type %v has no name", d.Type)
		}
		typ, err := celType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", d.Name, err)
		}
		opts = append(opts, celgo.Variable(d.Name, typ))
	}
	return opts, nil
}

// celType converts a schema type to a CEL type.
func celType(t audience.Type) (*celgo.Type, error) {
	switch v := t.(type) {
	case audience.String:
		return celgo.StringType, nil
	case audience.Int:
		return celgo.IntType, nil
	case audience.Float:
		return celgo.DoubleType, nil
	case audience.Bool:
		return celgo.BoolType, nil
	case audience.Duration:
		return celgo.DurationType, nil
	case audience.Timestamp:
		return celgo.TimestampType, nil
	case audience.Any, nil:
		return celgo.DynType, nil
	case audience.Map:
		key, err := celType(v.KeyType)
		if err != nil {
			return nil, fmt.Errorf("setting key of %v map: %w", v.KeyType, err)
		}
		val, err := celType(v.ValueType)
		if err != nil {
			return nil, fmt.Errorf("setting value of %v map: %w", v.ValueType, err)
		}
		return celgo.MapType(key, val), nil
	case audience.List:
		val, err := celType(v.ValueType)
		if err != nil {
			return nil, fmt.Errorf("setting value of %v list: %w", v.ValueType, err)
		}
		return celgo.ListType(val), nil
	default:
		return nil, fmt.Errorf("unknown schema type %T", t)
	}
}

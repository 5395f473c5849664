package audience

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Schema defines the attribute names and their data types an Evaluator may
// see in audience expressions. Evaluators that type-check expressions, such as
// the CEL evaluator, need it to compile the expressions.
type Schema struct {
	// Identifier for the schema. Not used by the Resolver.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// List of data elements supported by this schema
	Elements []DataElement `json:"elements,omitempty" yaml:"elements,omitempty"`
}

func (s *Schema) String() string {
	x := strings.Builder{}
	x.WriteString(s.ID)
	x.WriteString("\n")
	for _, e := range s.Elements {
		x.WriteString(e.String())
		x.WriteString("\n")
	}
	return x.String()
}

// DataElement defines a named attribute in a schema.
type DataElement struct {
	// The name expressions use to refer to the attribute.
	Name string `json:"name" yaml:"name"`

	// One of the types defined in this package.
	Type Type `json:"type" yaml:"type"`

	// Optional description of the attribute.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (e *DataElement) String() string {
	return fmt.Sprintf("  %s (%s)", e.Name, e.Type)
}

// Type is a type in the schema type system.
// Not all evaluators support all types.
type Type interface {
	String() string
}

// String is a string type.
type String struct{}

// Int is an integer type. The exact size depends on the evaluator.
type Int struct{}

// Float is a floating point type.
type Float struct{}

// Any means the type is not known until evaluation.
type Any struct{}

// Bool is a boolean type.
type Bool struct{}

// Duration is a time.Duration type.
type Duration struct{}

// Timestamp is a time.Time type.
type Timestamp struct{}

// List is a list of values of ValueType.
type List struct {
	ValueType Type
}

// Map is a map from KeyType to ValueType.
type Map struct {
	KeyType   Type
	ValueType Type
}

func (Int) String() string       { return "int" }
func (Bool) String() string      { return "bool" }
func (String) String() string    { return "string" }
func (Any) String() string       { return "any" }
func (Duration) String() string  { return "duration" }
func (Timestamp) String() string { return "timestamp" }
func (Float) String() string     { return "float" }
func (t List) String() string    { return fmt.Sprintf("[]%v", t.ValueType) }
func (t Map) String() string     { return fmt.Sprintf("map[%s]%s", t.KeyType, t.ValueType) }

// ParseType parses the name of a type and returns the type.
// The primitive types are their lower-case names (string, int, duration, etc.)
// Maps and lists look like Go maps and slices: map[string]float and []string.
func ParseType(t string) (Type, error) {
	t = strings.TrimSpace(t)

	if strings.HasPrefix(t, "map") {
		return parseMap(t)
	}

	if strings.HasPrefix(t, "[]") {
		return parseList(t)
	}

	switch t {
	case "string":
		return String{}, nil
	case "int":
		return Int{}, nil
	case "float":
		return Float{}, nil
	case "bool":
		return Bool{}, nil
	case "duration":
		return Duration{}, nil
	case "timestamp":
		return Timestamp{}, nil
	case "any":
		return Any{}, nil
	default:
		return Any{}, fmt.Errorf("unrecognized type: %s", t)
	}
}

// parseMap parses a string in the format map[<keytype>]<valuetype>.
// Example: map[string]int
func parseMap(t string) (Type, error) {
	var keyTypeName string
	var valueTypeName string

	t = strings.ReplaceAll(t, "[", " ")
	t = strings.ReplaceAll(t, "]", " ")

	n, err := fmt.Sscanf(t, "map %s %s", &keyTypeName, &valueTypeName)
	if err != nil {
		return Any{}, err
	}

	if n < 2 {
		return Any{}, fmt.Errorf("wanted 2 items parsed, got %d", n)
	}

	keyType, err := ParseType(keyTypeName)
	if err != nil {
		return Any{}, err
	}

	valueType, err := ParseType(valueTypeName)
	if err != nil {
		return Any{}, err
	}

	return Map{
		KeyType:   keyType,
		ValueType: valueType,
	}, nil
}

// parseList parses a string in the format []<valuetype>.
// Example: []string
func parseList(t string) (Type, error) {
	valueType, err := ParseType(strings.TrimPrefix(t, "[]"))
	if err != nil {
		return Any{}, err
	}

	return List{
		ValueType: valueType,
	}, nil
}

// ParseSchema builds a schema from a map of attribute names to type names,
// as found in the schema section of a configuration file.
// The elements are sorted by name.
func ParseSchema(types map[string]string) (Schema, error) {
	s := Schema{}
	for _, name := range sortedKeys(types) {
		t, err := ParseType(types[name])
		if err != nil {
			return Schema{}, fmt.Errorf("attribute %s: %w", name, err)
		}
		s.Elements = append(s.Elements, DataElement{Name: name, Type: t})
	}
	return s, nil
}

// InferSchema builds a schema declaring every key in data, with the type
// derived from the value. Values whose type cannot be determined, including
// nil, are declared as Any.
func InferSchema(data map[string]any) Schema {
	s := Schema{}
	for _, name := range sortedKeys(data) {
		s.Elements = append(s.Elements, DataElement{Name: name, Type: typeOf(data[name])})
	}
	return s
}

func typeOf(v any) Type {
	switch v.(type) {
	case string:
		return String{}
	case bool:
		return Bool{}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int{}
	case float32, float64:
		return Float{}
	case time.Duration:
		return Duration{}
	case time.Time:
		return Timestamp{}
	case []any, []string, []int, []float64, []bool:
		return List{ValueType: Any{}}
	case map[string]any, map[string]string:
		return Map{KeyType: String{}, ValueType: Any{}}
	default:
		return Any{}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package termcore

import "fmt"

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindString
	KindArray
	KindMap
)

// Value is a recursive snapshot node. Every stateful component in this
// package (parser, buffers, format tracker, cursor, modes) serializes to
// and loads from a tree of Values so a terminal's full state can be
// captured and restored byte-for-byte.
//
// Binary blobs (raw byte slices) encode as Array of Int, one element per
// byte.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
	arr  []Value
	m    map[string]Value
}

func Int(v int64) Value            { return Value{kind: KindInt, i: v} }
func Bool(v bool) Value            { return Value{kind: KindBool, b: v} }
func String(v string) Value        { return Value{kind: KindString, s: v} }
func Array(v []Value) Value        { return Value{kind: KindArray, arr: v} }
func Map(v map[string]Value) Value { return Value{kind: KindMap, m: v} }

// Bytes encodes a byte slice as an Array of Int, one element per byte.
func Bytes(b []byte) Value {
	arr := make([]Value, len(b))
	for i, c := range b {
		arr[i] = Int(int64(c))
	}
	return Array(arr)
}

func (v Value) Kind() Kind { return v.kind }

// FieldError is returned when a Value fails to load into the shape a
// component expects. It carries the offending field name so callers never
// have to guess which part of a snapshot was malformed.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("snapshot field %q: %s", e.Field, e.Reason)
}

func missingField(name string) error {
	return &FieldError{Field: name, Reason: "missing"}
}

func wrongType(name string, want Kind) error {
	return &FieldError{Field: name, Reason: fmt.Sprintf("expected %s", kindName(want))}
}

func kindName(k Kind) string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// AsInt returns the Int payload, or an error naming field if the kind
// doesn't match.
func (v Value) AsInt(field string) (int64, error) {
	if v.kind != KindInt {
		return 0, wrongType(field, KindInt)
	}
	return v.i, nil
}

// AsUsize loads an Int payload as a non-negative size. -1 decodes to the
// MaxInt sentinel used by BufPosMax; any other negative is an error.
func (v Value) AsUsize(field string) (int, error) {
	n, err := v.AsInt(field)
	if err != nil {
		return 0, err
	}
	if n == -1 {
		return maxInt, nil
	}
	if n < 0 {
		return 0, &FieldError{Field: field, Reason: "negative"}
	}
	return int(n), nil
}

func (v Value) AsBool(field string) (bool, error) {
	if v.kind != KindBool {
		return false, wrongType(field, KindBool)
	}
	return v.b, nil
}

func (v Value) AsString(field string) (string, error) {
	if v.kind != KindString {
		return "", wrongType(field, KindString)
	}
	return v.s, nil
}

func (v Value) AsArray(field string) ([]Value, error) {
	if v.kind != KindArray {
		return nil, wrongType(field, KindArray)
	}
	return v.arr, nil
}

// AsBytes decodes an Array-of-Int Value back into a byte slice.
func (v Value) AsBytes(field string) ([]byte, error) {
	arr, err := v.AsArray(field)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(arr))
	for i, e := range arr {
		n, err := e.AsInt(field)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, &FieldError{Field: field, Reason: "byte out of range"}
		}
		out[i] = byte(n)
	}
	return out, nil
}

func (v Value) AsMap(field string) (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, wrongType(field, KindMap)
	}
	return v.m, nil
}

// field pulls a required key out of a map Value, returning a FieldError
// naming the key when it's absent.
func field(m map[string]Value, key string) (Value, error) {
	v, ok := m[key]
	if !ok {
		return Value{}, missingField(key)
	}
	return v, nil
}

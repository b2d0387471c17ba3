// Package value defines the generic structured value exchanged between
// callers and the dynamic wire codec. A Value is a closed tagged union:
// null, bool, number, string, list, or an ordered mapping of field name
// to Value. Values are created per call and never persisted.
package value

import (
	"encoding/json"
	"strconv"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Field is one entry of an object value. Objects preserve insertion order.
type Field struct {
	Name  string
	Value Value
}

// Value is the tagged union. The zero value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	list []Value
	obj  []Field
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value from a JSON number literal.
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// Int returns a numeric value for an integer.
func Int(n int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(n, 10))}
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Object returns an object value holding fields in order.
func Object(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload if the value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the numeric payload if the value is a number.
func (v Value) AsNumber() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsString returns the string payload if the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// Items returns the elements of a list value, nil otherwise.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Fields returns the fields of an object value, nil otherwise.
func (v Value) Fields() []Field {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Get looks up a field by name on an object value.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, f := range v.obj {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Equal reports field-value equality. Object field order is not
// significant; list order is. Numbers compare by numeric value, so
// "1.0" equals "1".
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return numbersEqual(v.num, o.num)
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for _, f := range v.obj {
			other, ok := o.Get(f.Name)
			if !ok || !f.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	return aerr == nil && berr == nil && af == bf
}

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Parse decodes a single JSON document into a Value, preserving object
// field order. Trailing data after the document is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, errors.New("unexpected data after JSON document")
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements json.Marshaler, writing object fields in their
// stored order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return Value{}, errors.New("empty JSON input")
	}
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeList(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	fields := []Field{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, Field{Name: key, Value: val})
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(fields...), nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return List(items...), nil
}

func (v Value) write(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.num == "" {
			buf.WriteByte('0')
			break
		}
		buf.WriteString(string(v.num))
	case KindString:
		return writeString(buf, v.str)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

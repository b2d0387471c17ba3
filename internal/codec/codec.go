// Package codec bridges generic values and protobuf wire bytes for one
// method's request/response pair, with no compile-time schema. A Codec
// is bound to two message descriptors at construction and is otherwise
// stateless; build one per invocation.
//
// The JSON mapping follows canonical proto3 JSON: camelCase field names,
// enums by symbolic name, nested messages as objects, repeated fields as
// lists, 64-bit integers as strings.
package codec

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/searchads/searchads/internal/value"
)

// Name identifies the codec in per-call grpc.ForceCodec options.
const Name = "searchads-dynamic"

// Codec encodes values against the bound input descriptor and decodes
// wire bytes against the bound output descriptor.
type Codec struct {
	input  *desc.MessageDescriptor
	output *desc.MessageDescriptor
}

// New binds a codec to an input and output message type.
func New(input, output *desc.MessageDescriptor) *Codec {
	return &Codec{input: input, output: output}
}

// FromMethod binds a codec to a method's request and response types.
func FromMethod(md *desc.MethodDescriptor) *Codec {
	return New(md.GetInputType(), md.GetOutputType())
}

// Encode serializes v into the wire bytes of the bound input type. A
// field absent from the descriptor, or a value incompatible with its
// declared kind, is an encode error.
func (c *Codec) Encode(v value.Value) ([]byte, error) {
	jsonBytes, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.input.GetFullyQualifiedName(), err)
	}
	msg := dynamic.NewMessage(c.input)
	if err := msg.UnmarshalJSON(jsonBytes); err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.input.GetFullyQualifiedName(), err)
	}
	data, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.input.GetFullyQualifiedName(), err)
	}
	return data, nil
}

// Decode consumes the entire buffer as one message of the bound output
// type. An empty buffer reports no message (ok false), signalling end of
// stream with nothing further. Per-message framing is the transport's
// concern, not the codec's.
func (c *Codec) Decode(data []byte) (value.Value, bool, error) {
	if len(data) == 0 {
		return value.Value{}, false, nil
	}
	msg := dynamic.NewMessage(c.output)
	if err := msg.Unmarshal(data); err != nil {
		return value.Value{}, false, fmt.Errorf("decode %s: %w", c.output.GetFullyQualifiedName(), err)
	}
	jsonBytes, err := msg.MarshalJSON()
	if err != nil {
		return value.Value{}, false, fmt.Errorf("decode %s: %w", c.output.GetFullyQualifiedName(), err)
	}
	v, err := value.Parse(jsonBytes)
	if err != nil {
		return value.Value{}, false, fmt.Errorf("decode %s: %w", c.output.GetFullyQualifiedName(), err)
	}
	return v, true, nil
}

// Marshal implements grpc encoding.Codec. Messages cross the call
// boundary as *value.Value.
func (c *Codec) Marshal(v any) ([]byte, error) {
	val, ok := v.(*value.Value)
	if !ok {
		return nil, fmt.Errorf("codec %s: unsupported message type %T", Name, v)
	}
	return c.Encode(*val)
}

// Unmarshal implements grpc encoding.Codec. A zero-length frame is a
// valid message with every field defaulted.
func (c *Codec) Unmarshal(data []byte, v any) error {
	val, ok := v.(*value.Value)
	if !ok {
		return fmt.Errorf("codec %s: unsupported message type %T", Name, v)
	}
	decoded, present, err := c.Decode(data)
	if err != nil {
		return err
	}
	if !present {
		*val = value.Object()
		return nil
	}
	*val = decoded
	return nil
}

// Name implements grpc encoding.Codec.
func (c *Codec) Name() string { return Name }

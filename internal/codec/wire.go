// Package codec holds the protobuf wire helpers used by the IBC types. The
// encodings follow the field numbers of the ibc.core and ibc.lightclients
// protobuf definitions so stored bytes match what counterparties prove.
package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrWireType is returned when a field is decoded with the wrong wire type.
var ErrWireType = errors.New("unexpected wire type")

// Unmarshaler is implemented by every type with a protobuf decoding.
type Unmarshaler interface {
	Unmarshal(bz []byte) error
}

// Encoder accumulates protobuf fields in field-number order chosen by the caller.
// Scalar fields holding their zero value are skipped, matching proto3.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Uint64 appends a varint field.
func (e *Encoder) Uint64(num protowire.Number, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Int64 appends a signed varint field using two's complement like proto int64.
func (e *Encoder) Int64(num protowire.Number, v int64) *Encoder {
	return e.Uint64(num, uint64(v))
}

// Bool appends a bool field.
func (e *Encoder) Bool(num protowire.Number, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Uint64(num, 1)
}

// String appends a string field.
func (e *Encoder) String(num protowire.Number, s string) *Encoder {
	if s == "" {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, s)
	return e
}

// Strings appends a repeated string field.
func (e *Encoder) Strings(num protowire.Number, values []string) *Encoder {
	for _, s := range values {
		e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
		e.buf = protowire.AppendString(e.buf, s)
	}
	return e
}

// Bytes appends a bytes field.
func (e *Encoder) Bytes(num protowire.Number, bz []byte) *Encoder {
	if len(bz) == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, bz)
	return e
}

// Message appends an embedded message. Non-nullable messages are always
// written, even when empty.
func (e *Encoder) Message(num protowire.Number, bz []byte) *Encoder {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, bz)
	return e
}

// Messages appends a repeated embedded message field.
func (e *Encoder) Messages(num protowire.Number, values [][]byte) *Encoder {
	for _, bz := range values {
		e.Message(num, bz)
	}
	return e
}

// Encoded returns the accumulated bytes, never nil.
func (e *Encoder) Encoded() []byte {
	if e.buf == nil {
		return []byte{}
	}
	return e.buf
}

// Field is a single decoded protobuf field.
type Field struct {
	Num  protowire.Number
	Type protowire.Type

	varint uint64
	bytes  []byte
}

// Decode walks every field of bz calling fn. Unknown fields must simply be
// ignored by fn.
func Decode(bz []byte, fn func(f Field) error) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return protowire.ParseError(n)
		}
		bz = bz[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(bz)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.varint = v
			bz = bz[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(bz)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.bytes = v
			bz = bz[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return protowire.ParseError(n)
			}
			bz = bz[n:]
			continue
		}

		if err := fn(f); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}

// Uint64 decodes a varint field into dst.
func (f Field) Uint64(dst *uint64) error {
	if f.Type != protowire.VarintType {
		return ErrWireType
	}
	*dst = f.varint
	return nil
}

// Int64 decodes a signed varint field into dst.
func (f Field) Int64(dst *int64) error {
	if f.Type != protowire.VarintType {
		return ErrWireType
	}
	*dst = int64(f.varint)
	return nil
}

// Int32 decodes an enum or int32 field into dst.
func (f Field) Int32(dst *int32) error {
	if f.Type != protowire.VarintType {
		return ErrWireType
	}
	*dst = int32(f.varint)
	return nil
}

// Bool decodes a bool field into dst.
func (f Field) Bool(dst *bool) error {
	if f.Type != protowire.VarintType {
		return ErrWireType
	}
	*dst = f.varint != 0
	return nil
}

// Text decodes a string field into dst.
func (f Field) Text(dst *string) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	*dst = string(f.bytes)
	return nil
}

// AppendText decodes one element of a repeated string field.
func (f Field) AppendText(dst *[]string) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	*dst = append(*dst, string(f.bytes))
	return nil
}

// Bytes copies a bytes field into dst.
func (f Field) Bytes(dst *[]byte) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	*dst = append([]byte(nil), f.bytes...)
	return nil
}

// AppendBytes decodes one element of a repeated bytes field.
func (f Field) AppendBytes(dst *[][]byte) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	*dst = append(*dst, append([]byte(nil), f.bytes...))
	return nil
}

// Message decodes an embedded message into m.
func (f Field) Message(m Unmarshaler) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	return m.Unmarshal(f.bytes)
}

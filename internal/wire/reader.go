package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Reader is a readable byte source with a known remaining count. It is the
// decode-side half of the field codec's two abstractions.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential field decoding. buf is not copied.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, errInsufficient(r.Remaining(), n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// count reads a prefix-width count.
func (r *Reader) count(p Prefix) (int, error) {
	switch p {
	case Prefix8:
		v, err := r.Uint8()
		return int(v), err
	case Prefix32:
		v, err := r.Uint32()
		return int(v), err
	default:
		v, err := r.Uint16()
		return int(v), err
	}
}

// Raw reads exactly n unprefixed bytes — for manual-adapter variants whose
// length is implicit rather than declared by a preceding count field.
func (r *Reader) Raw(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Bytes reads a prefix-width-counted byte sequence.
func (r *Reader) Bytes(p Prefix) ([]byte, error) {
	n, err := r.count(p)
	if err != nil {
		return nil, err
	}
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String reads a prefix-width-counted UTF-8 string. Per design, the prefix
// always counts bytes, never runes.
func (r *Reader) String(p Prefix) (string, error) {
	b, err := r.Bytes(p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errInvalid("string is not valid utf-8")
	}
	return string(b), nil
}

// ReadSeq decodes a prefix-width-counted sequence of T using decode for each
// element.
func ReadSeq[T any](r *Reader, p Prefix, decode func(*Reader) (T, error)) ([]T, error) {
	n, err := r.count(p)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Option is the decoded form of an optional trailing field: present only if
// the wire form had bytes remaining when this field was reached.
type Option[T any] struct {
	Valid bool
	Value T
}

// ReadOption decodes an optional trailing field: absent if the reader is
// exhausted, otherwise the inner type. Only meaningful as a variant's last
// field.
func ReadOption[T any](r *Reader, decode func(*Reader) (T, error)) (Option[T], error) {
	if r.Remaining() == 0 {
		return Option[T]{}, nil
	}
	v, err := decode(r)
	if err != nil {
		return Option[T]{}, err
	}
	return Option[T]{Valid: true, Value: v}, nil
}

package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer is a writable byte sink, the encode-side half of the field codec's
// two abstractions.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoded output.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) Uint8(v uint8) error {
	w.buf.WriteByte(v)
	return nil
}

func (w *Writer) Int8(v int8) error { return w.Uint8(uint8(v)) }

func (w *Writer) Uint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return nil
}

func (w *Writer) Int16(v int16) error { return w.Uint16(uint16(v)) }

func (w *Writer) Uint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return nil
}

func (w *Writer) Int32(v int32) error { return w.Uint32(uint32(v)) }

func (w *Writer) Uint64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return nil
}

func (w *Writer) Int64(v int64) error { return w.Uint64(uint64(v)) }

func (w *Writer) Float32(v float32) error { return w.Uint32(math.Float32bits(v)) }

func (w *Writer) Float64(v float64) error { return w.Uint64(math.Float64bits(v)) }

func (w *Writer) Bool(v bool) error {
	if v {
		return w.Uint8(1)
	}
	return w.Uint8(0)
}

func (w *Writer) writeCount(p Prefix, n int) error {
	if uint64(n) > p.max() {
		return errInvalid("sequence length exceeds prefix range")
	}
	switch p {
	case Prefix8:
		return w.Uint8(uint8(n))
	case Prefix32:
		return w.Uint32(uint32(n))
	default:
		return w.Uint16(uint16(n))
	}
}

// WriteRaw writes b with no length prefix — for manual-adapter variants
// whose length is implicit rather than declared by a preceding count field.
func (w *Writer) WriteRaw(b []byte) {
	w.buf.Write(b)
}

// WriteBytes writes a prefix-width-counted byte sequence.
func (w *Writer) WriteBytes(p Prefix, b []byte) error {
	if err := w.writeCount(p, len(b)); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// String writes a prefix-width-counted UTF-8 string; the prefix counts bytes.
func (w *Writer) String(p Prefix, s string) error {
	return w.WriteBytes(p, []byte(s))
}

// WriteSeq encodes a prefix-width-counted sequence of T using encode for each
// element. Nothing is written, not even the count, if the count does not
// fit the prefix width.
func WriteSeq[T any](w *Writer, p Prefix, items []T, encode func(*Writer, T) error) error {
	if err := w.writeCount(p, len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := encode(w, item); err != nil {
			return err
		}
	}
	return nil
}

// WriteOption encodes an optional trailing field: nothing if absent,
// otherwise the inner value.
func WriteOption[T any](w *Writer, opt Option[T], encode func(*Writer, T) error) error {
	if !opt.Valid {
		return nil
	}
	return encode(w, opt.Value)
}

package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Writer builds the little-endian wire format read back by Reader. It grows
// an internal buffer and never fails on well-formed input; values too large
// for their length field are programmer errors and panic, matching the
// encode-side contract of the length-prefixed formats.
//
// A Writer is not safe for concurrent use. One Writer per outgoing buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded buffer. The slice aliases the Writer's internal
// storage and is invalidated by further writes or Reset.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// Reset empties the Writer, keeping its capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// WriteRaw appends b verbatim, with no length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a little-endian u16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a little-endian u32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends a little-endian u64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteInt8 appends one byte.
func (w *Writer) WriteInt8(v int8) { w.WriteUint8(uint8(v)) }

// WriteInt16 appends a little-endian i16.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteInt32 appends a little-endian i32.
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteInt64 appends a little-endian i64.
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

// WriteFloat32 appends a little-endian IEEE 754 single.
func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }

// WriteFloat64 appends a little-endian IEEE 754 double.
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// WriteBool appends one byte, 1 for true.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteChar appends a 2-byte code unit.
func (w *Writer) WriteChar(v uint16) { w.WriteUint16(v) }

// WriteUUID appends a 16-byte identifier.
func (w *Writer) WriteUUID(id uuid.UUID) {
	w.buf = append(w.buf, id[:]...)
}

// WriteDecimal128 appends a 16-byte blittable extended-precision value.
func (w *Writer) WriteDecimal128(d Decimal128) {
	w.buf = append(w.buf, d[:]...)
}

// WriteNullable appends a presence byte and, for a non-nil value, the value
// itself via write.
func WriteNullable[T any](w *Writer, v *T, write func(*Writer, T)) {
	if v == nil {
		w.WriteUint8(0)
		return
	}
	w.WriteUint8(1)
	write(w, *v)
}

// WriteString appends a length-prefixed UTF-8 string. The u16 count holds
// the byte length plus one, reserving 0 for null; strings longer than
// 65534 bytes cannot be framed and panic.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16-1 {
		panic(fmt.Sprintf("wire: string of %d bytes exceeds the u16 count field", len(s)))
	}
	w.WriteUint16(uint16(len(s) + 1))
	w.buf = append(w.buf, s...)
}

// WriteNullableString appends a length-prefixed string, encoding nil as the
// null marker (count 0).
func (w *Writer) WriteNullableString(s *string) {
	if s == nil {
		w.WriteUint16(0)
		return
	}
	w.WriteString(*s)
}

// WriteBytes appends a length-prefixed byte blob. The u32 count holds the
// byte length plus one, reserving 0 for null; a nil slice encodes as null,
// an empty non-nil slice as a present zero-length blob.
func (w *Writer) WriteBytes(b []byte) {
	if b == nil {
		w.WriteUint32(0)
		return
	}
	if len(b) > math.MaxInt32-1 {
		panic(fmt.Sprintf("wire: blob of %d bytes exceeds the u32 count field", len(b)))
	}
	w.WriteUint32(uint32(len(b) + 1))
	w.buf = append(w.buf, b...)
}

// WriteList appends a length-prefixed sequence, encoding each element via
// elem. A nil slice encodes as the null marker (length -1).
func WriteList[E any](w *Writer, list []E, elem func(*Writer, E)) {
	if list == nil {
		w.WriteInt32(-1)
		return
	}
	if len(list) > math.MaxInt32 {
		panic(fmt.Sprintf("wire: list of %d elements exceeds the i32 length field", len(list)))
	}
	w.WriteInt32(int32(len(list)))
	for _, e := range list {
		elem(w, e)
	}
}

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxStringLength is the default cap on decoded string byte length.
// It equals the largest real length expressible in the u16 count field
// (65535 minus the null marker). Lower it with SetMaxStringLength when
// decoding input from untrusted peers.
const DefaultMaxStringLength = math.MaxUint16 - 1

// Decimal128 is an opaque 16-byte extended-precision value, carried on the
// wire exactly as the encoder's in-memory representation. Layout
// compatibility across differing native decimal representations is not
// guaranteed; callers that need portable decimals should encode them
// explicitly instead.
type Decimal128 [16]byte

// Reader is a bounds-checked cursor over an immutable byte buffer, typically
// one received batch. The position only moves forward; any read that would
// pass the end of the buffer fails with ErrEndOfBuffer.
//
// After any failed read the position is unspecified. Callers must treat the
// failure as fatal for the whole buffer and must not resume decoding.
//
// A Reader is not safe for concurrent use. One Reader per inbound buffer.
type Reader struct {
	buf             []byte
	pos             int
	maxStringLength int
}

// NewReader creates a cursor positioned at the start of buf.
// The Reader does not copy buf; the caller must not mutate it while decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, maxStringLength: DefaultMaxStringLength}
}

// Reset repositions the cursor at the start of buf, reusing the Reader.
// The configured max string length is kept.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// SetMaxStringLength lowers (or raises, up to the wire-format maximum) the
// cap enforced by ReadString and ReadNullableString.
func (r *Reader) SetMaxStringLength(n int) {
	r.maxStringLength = n
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int { return r.pos }

// Remaining returns the number of bytes left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// read returns the next n bytes and advances the cursor. The returned slice
// aliases the underlying buffer.
func (r *Reader) read(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, fmt.Errorf("%w: need %d bytes, %d remaining", ErrEndOfBuffer, n, len(r.buf)-r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRaw returns the next n bytes verbatim. The returned slice aliases the
// underlying buffer; copy it if it must outlive the buffer.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	return r.read(n)
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian u32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian u64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt8 reads one byte as a signed integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadInt16 reads a little-endian i16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a little-endian i32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian i64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads a little-endian IEEE 754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a little-endian IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads one byte; any nonzero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadChar reads a 2-byte code unit.
func (r *Reader) ReadChar() (uint16, error) {
	return r.ReadUint16()
}

// ReadUUID reads a 16-byte identifier.
func (r *Reader) ReadUUID() (uuid.UUID, error) {
	b, err := r.read(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return id, nil
}

// ReadDecimal128 reads a 16-byte blittable extended-precision value.
func (r *Reader) ReadDecimal128() (Decimal128, error) {
	b, err := r.read(16)
	if err != nil {
		return Decimal128{}, err
	}
	var d Decimal128
	copy(d[:], b)
	return d, nil
}

// ReadNullable reads a presence byte and, if present, one value via read.
// A presence byte of 0 yields nil; 1 yields the decoded value; anything else
// is a decode error.
func ReadNullable[T any](r *Reader, read func(*Reader) (T, error)) (*T, error) {
	p, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch p {
	case 0:
		return nil, nil
	case 1:
		v, err := read(r)
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: invalid presence byte %d", ErrDecode, p)
	}
}

// readStringBody reads the u16 count plus payload shared by ReadString and
// ReadNullableString. A count of 0 denotes null (returned as ok == false);
// the real byte length is count - 1.
func (r *Reader) readStringBody() (s string, ok bool, err error) {
	count, err := r.ReadUint16()
	if err != nil {
		return "", false, err
	}
	if count == 0 {
		return "", false, nil
	}
	size := int(count) - 1
	if size > r.maxStringLength {
		return "", false, fmt.Errorf("%w: string of %d bytes exceeds cap %d", ErrLengthLimit, size, r.maxStringLength)
	}
	b, err := r.read(size)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(b) {
		return "", false, fmt.Errorf("%w: invalid UTF-8 string", ErrDecode)
	}
	return string(b), true, nil
}

// ReadString reads a length-prefixed UTF-8 string that must be present.
// A null marker on the wire is a decode error; use ReadNullableString where
// null is legitimate.
func (r *Reader) ReadString() (string, error) {
	s, ok, err := r.readStringBody()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: unexpected null string", ErrDecode)
	}
	return s, nil
}

// ReadNullableString reads a length-prefixed UTF-8 string, returning nil for
// the null marker. A present empty string decodes to a non-nil pointer.
func (r *Reader) ReadNullableString() (*string, error) {
	s, ok, err := r.readStringBody()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// ReadBytes reads a length-prefixed byte blob. A count of 0 denotes null and
// decodes to a nil slice; a count of 1 decodes to an empty non-nil slice.
// The returned slice aliases the underlying buffer.
func (r *Reader) ReadBytes() ([]byte, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if count > math.MaxInt32 {
		return nil, fmt.Errorf("%w: byte count %d", ErrOverflow, count)
	}
	// count >= 1 here, so the real length never underflows.
	return r.read(int(count) - 1)
}

// ReadList reads a length-prefixed sequence, decoding each element via elem.
// A negative length denotes null and consumes no further bytes.
//
// Before allocating, the claimed element count is checked against the bytes
// remaining in the buffer: no element decodes from zero bytes, so a count
// above Remaining can only come from a corrupt or hostile peer and fails
// with ErrUntrustedSize. Elements themselves are trusted to consume exactly
// the bytes they wrote; a miscounting element decoder corrupts the rest of
// the buffer.
func ReadList[E any](r *Reader, elem func(*Reader) (E, error)) ([]E, error) {
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, nil
	}
	if int(length) > r.Remaining() {
		return nil, fmt.Errorf("%w: %d elements claimed with %d bytes remaining", ErrUntrustedSize, length, r.Remaining())
	}
	out := make([]E, 0, length)
	for i := int32(0); i < length; i++ {
		e, err := elem(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

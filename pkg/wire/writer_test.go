package wire

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestWriterLittleEndianLayout(t *testing.T) {
	w := NewWriter()
	w.WriteUint16(0x0102)
	w.WriteUint32(0x03040506)
	w.WriteFloat64(1.5)

	want := []byte{
		0x02, 0x01,
		0x06, 0x05, 0x04, 0x03,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F, // 1.5 as IEEE 754 double
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", w.Bytes(), want)
	}
}

func TestWriterReset(t *testing.T) {
	w := NewWriter()
	w.WriteUint64(1)
	if w.Len() != 8 {
		t.Fatalf("Len = %d, want 8", w.Len())
	}
	w.Reset()
	if w.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", w.Len())
	}
	w.WriteUint8(7)
	if !bytes.Equal(w.Bytes(), []byte{7}) {
		t.Fatalf("Bytes after Reset = %v", w.Bytes())
	}
}

func TestWriteRawAppendsVerbatim(t *testing.T) {
	w := NewWriter()
	w.WriteRaw([]byte{1, 2})
	w.WriteRaw(nil)
	w.WriteRaw([]byte{3})
	if !bytes.Equal(w.Bytes(), []byte{1, 2, 3}) {
		t.Fatalf("got %v", w.Bytes())
	}
}

func TestWriteStringTooLongPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for string above u16 count range")
		}
	}()
	NewWriter().WriteString(strings.Repeat("x", math.MaxUint16))
}

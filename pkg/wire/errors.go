package wire

import "errors"

// Wire errors represent decode failure conditions. Every failure is terminal
// for the buffer being decoded: the cursor position after a failed read is
// unspecified and the caller must discard the whole batch or message.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrEndOfBuffer is returned when a read needs more bytes than remain.
	ErrEndOfBuffer = errors.New("wire: end of buffer")

	// ErrLengthLimit is returned when a string field claims a length above
	// the configured maximum.
	ErrLengthLimit = errors.New("wire: length limit exceeded")

	// ErrUntrustedSize is returned when a sequence field claims more elements
	// than the remaining buffer could possibly back.
	ErrUntrustedSize = errors.New("wire: untrusted size")

	// ErrDecode is returned for invalid UTF-8 text and invalid discriminants
	// such as a presence byte that is neither 0 nor 1.
	ErrDecode = errors.New("wire: decode error")

	// ErrOverflow is returned when arithmetic on a length field would
	// overflow or underflow.
	ErrOverflow = errors.New("wire: length overflow")

	// ErrPrecondition is returned on API misuse, such as handing GetBatch a
	// non-empty destination writer.
	ErrPrecondition = errors.New("wire: precondition violation")
)

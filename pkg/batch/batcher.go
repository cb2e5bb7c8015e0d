package batch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wikieden/Mirror/pkg/wire"
)

// TimestampSize is the size of the f64 timestamp header that starts every
// batch.
const TimestampSize = 8

// Batcher accumulates serialized message payloads into timestamped batches.
// A batch is sealed once its size (header included) reaches the threshold,
// or when GetBatch flushes a partially filled one at send time.
//
// The threshold is a floor, not a ceiling: a single message larger than the
// threshold is appended, immediately exceeds it and seals into its own
// batch. Messages are never fragmented or dropped for being too large;
// enforcing a transport maximum on individual messages is the caller's job.
//
// Messages carry no per-message length prefix inside a batch. Receivers rely
// on each message type consuming exactly the bytes it wrote, so a miscount
// in one message decoder corrupts every later message in the same batch.
// This is a deliberate bandwidth trade-off, not something to harden here.
//
// A Batcher is not safe for concurrent use. One Batcher per connection.
type Batcher struct {
	threshold int
	pool      *Pool

	// pending is the single batch currently being filled, nil until the
	// first message arrives after the previous batch closed.
	pending *bytes.Buffer

	// ready holds sealed batches awaiting retrieval, oldest first.
	ready []*bytes.Buffer
}

// NewBatcher creates a Batcher sealing batches at threshold bytes, drawing
// backing buffers from pool. A nil pool gets a private one.
func NewBatcher(threshold int, pool *Pool) *Batcher {
	if pool == nil {
		pool = NewPool()
	}
	return &Batcher{threshold: threshold, pool: pool}
}

// AddMessage appends one serialized message to the pending batch, starting a
// new batch with timestamp as its header if none is open. The payload is
// copied; the caller keeps ownership of it.
func (b *Batcher) AddMessage(payload []byte, timestamp float64) {
	if b.pending == nil {
		b.pending = b.pool.Get()
		var hdr [TimestampSize]byte
		binary.LittleEndian.PutUint64(hdr[:], math.Float64bits(timestamp))
		b.pending.Write(hdr[:])
	}
	b.pending.Write(payload)

	if b.pending.Len() >= b.threshold {
		b.ready = append(b.ready, b.pending)
		b.pending = nil
	}
}

// GetBatch copies the oldest sealed batch into dst, or flushes the pending
// batch if no sealed one is waiting. It reports false when there is nothing
// to send. The batch's backing buffer returns to the pool after the copy.
//
// dst must be empty: a batch appended to a non-empty writer would silently
// corrupt whatever is already in it, so that is rejected loudly with
// wire.ErrPrecondition.
func (b *Batcher) GetBatch(dst *wire.Writer) (bool, error) {
	if dst.Len() != 0 {
		return false, fmt.Errorf("%w: destination writer holds %d bytes, want empty", wire.ErrPrecondition, dst.Len())
	}

	var src *bytes.Buffer
	switch {
	case len(b.ready) > 0:
		src = b.ready[0]
		copy(b.ready, b.ready[1:])
		b.ready[len(b.ready)-1] = nil
		b.ready = b.ready[:len(b.ready)-1]
	case b.pending != nil:
		src = b.pending
		b.pending = nil
	default:
		return false, nil
	}

	dst.WriteRaw(src.Bytes())
	b.pool.Put(src)
	return true, nil
}

// HasPending reports whether any batch, sealed or still filling, is waiting.
func (b *Batcher) HasPending() bool {
	return len(b.ready) > 0 || b.pending != nil
}

// Clear drops the pending batch and the ready queue, returning every buffer
// to the pool. Used on connection teardown.
func (b *Batcher) Clear() {
	if b.pending != nil {
		b.pool.Put(b.pending)
		b.pending = nil
	}
	for i, buf := range b.ready {
		b.pool.Put(buf)
		b.ready[i] = nil
	}
	b.ready = b.ready[:0]
}

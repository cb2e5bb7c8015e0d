package batch

import (
	"bytes"
	"fmt"

	"github.com/wikieden/Mirror/pkg/wire"
)

// Unbatcher is the receive-side counterpart of Batcher. It queues received
// batches and hands out one cursor per message, together with the remote
// timestamp from the batch the message arrived in.
//
// An Unbatcher is not safe for concurrent use. One Unbatcher per connection.
type Unbatcher struct {
	pool *Pool

	// batches holds queued batch buffers, oldest first. The front buffer is
	// the one reader currently walks.
	batches []*bytes.Buffer

	// reader is allocated once and reused across batches. open reports
	// whether it currently points at the front batch.
	reader    *wire.Reader
	open      bool
	timestamp float64
}

// NewUnbatcher creates an Unbatcher drawing buffers from pool. A nil pool
// gets a private one.
func NewUnbatcher(pool *Pool) *Unbatcher {
	if pool == nil {
		pool = NewPool()
	}
	return &Unbatcher{pool: pool}
}

// AddBatch queues one received batch. The data is copied into a pooled
// buffer; the caller keeps ownership of data. Batches shorter than the
// timestamp header are rejected.
func (u *Unbatcher) AddBatch(data []byte) error {
	if len(data) < TimestampSize {
		return fmt.Errorf("%w: batch of %d bytes is shorter than the %d-byte timestamp header", wire.ErrEndOfBuffer, len(data), TimestampSize)
	}
	buf := u.pool.Get()
	buf.Write(data)
	u.batches = append(u.batches, buf)
	return nil
}

// GetNextMessage returns a cursor positioned at the next message and the
// remote timestamp of its batch, or false when no message is queued.
//
// The caller must decode exactly one message from the cursor before calling
// again; the Unbatcher retires a batch buffer to the pool once its cursor is
// exhausted, so the cursor and anything aliasing it are invalidated by the
// next call.
func (u *Unbatcher) GetNextMessage() (*wire.Reader, float64, bool) {
	if len(u.batches) == 0 {
		return nil, 0, false
	}

	if !u.open {
		u.openFront()
	}

	if u.reader.Remaining() == 0 {
		u.retireFront()
		if len(u.batches) == 0 {
			return nil, 0, false
		}
		u.openFront()
	}

	return u.reader, u.timestamp, true
}

// BatchCount returns the number of batches queued, including the one being
// walked.
func (u *Unbatcher) BatchCount() int {
	return len(u.batches)
}

// Clear drops all queued batches, returning their buffers to the pool.
func (u *Unbatcher) Clear() {
	for i, buf := range u.batches {
		u.pool.Put(buf)
		u.batches[i] = nil
	}
	u.batches = u.batches[:0]
	u.open = false
	u.timestamp = 0
}

// openFront positions the shared reader past the front batch's timestamp
// header.
func (u *Unbatcher) openFront() {
	if u.reader == nil {
		u.reader = wire.NewReader(u.batches[0].Bytes())
	} else {
		u.reader.Reset(u.batches[0].Bytes())
	}
	u.open = true
	// AddBatch guarantees the header bytes are present.
	u.timestamp, _ = u.reader.ReadFloat64()
}

// retireFront returns the exhausted front buffer to the pool.
func (u *Unbatcher) retireFront() {
	u.pool.Put(u.batches[0])
	copy(u.batches, u.batches[1:])
	u.batches[len(u.batches)-1] = nil
	u.batches = u.batches[:len(u.batches)-1]
	u.open = false
}

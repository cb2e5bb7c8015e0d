package batch

import (
	"bytes"
	"sync"
)

// defaultBufferSize is the initial capacity of pooled buffers. Sized to a
// typical transport MTU so most batches never reallocate.
const defaultBufferSize = 1200

// Pool recycles batch backing buffers to avoid a fresh allocation per batch.
//
// Ownership of a buffer is single-writer and transfers on every handoff:
// the Batcher owns it while filling, the consumer owns it after GetBatch
// copies it out, and the Pool owns it once returned. Using a buffer after
// returning it is a use-after-release bug; the Batcher and Unbatcher never
// hand out a buffer they keep a reference to.
type Pool struct {
	p sync.Pool
}

// NewPool creates a buffer pool.
func NewPool() *Pool {
	return &Pool{
		p: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}
}

// Get borrows an empty buffer from the pool.
func (p *Pool) Get() *bytes.Buffer {
	b := p.p.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// Put returns a buffer to the pool. The caller must not touch it afterwards.
func (p *Pool) Put(b *bytes.Buffer) {
	if b == nil {
		return
	}
	p.p.Put(b)
}

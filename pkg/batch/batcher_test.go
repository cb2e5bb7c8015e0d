package batch

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wikieden/Mirror/pkg/wire"
)

// drainOne flushes the next batch from b, failing the test on a precondition
// error.
func drainOne(t *testing.T, b *Batcher) ([]byte, bool) {
	t.Helper()
	w := wire.NewWriter()
	ok, err := b.GetBatch(w)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	return w.Bytes(), ok
}

func TestThresholdSealsBatch(t *testing.T) {
	b := NewBatcher(64, nil)
	msg := bytes.Repeat([]byte{0xAA}, 10)

	// 8-byte header + 5 * 10 = 58 < 64: still pending, nothing sealed yet.
	for i := 0; i < 5; i++ {
		b.AddMessage(msg, 1.5)
	}
	// 6th message brings it to 68 >= 64 and seals.
	b.AddMessage(msg, 1.5)
	// 7th message starts a fresh batch.
	b.AddMessage(msg, 2.5)

	sealed, ok := drainOne(t, b)
	if !ok {
		t.Fatalf("expected a sealed batch")
	}
	if len(sealed) != 68 {
		t.Fatalf("sealed batch is %d bytes, want 68", len(sealed))
	}

	r := wire.NewReader(sealed)
	ts, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("timestamp header: %v", err)
	}
	if ts != 1.5 {
		t.Fatalf("timestamp = %v, want 1.5", ts)
	}

	fresh, ok := drainOne(t, b)
	if !ok {
		t.Fatalf("expected the fresh batch to flush")
	}
	if len(fresh) != TimestampSize+10 {
		t.Fatalf("fresh batch is %d bytes, want %d", len(fresh), TimestampSize+10)
	}
	r.Reset(fresh)
	if ts, _ := r.ReadFloat64(); ts != 2.5 {
		t.Fatalf("fresh batch timestamp = %v, want 2.5", ts)
	}
}

func TestTimestampAlwaysPresent(t *testing.T) {
	b := NewBatcher(1024, nil)
	b.AddMessage([]byte{1}, 42.25)

	flushed, ok := drainOne(t, b)
	if !ok {
		t.Fatalf("expected the partial batch to flush")
	}
	ts, err := wire.NewReader(flushed).ReadFloat64()
	if err != nil {
		t.Fatalf("timestamp header: %v", err)
	}
	if ts != 42.25 {
		t.Fatalf("timestamp = %v, want 42.25", ts)
	}
}

func TestOversizedMessageSealsAlone(t *testing.T) {
	b := NewBatcher(64, nil)
	big := bytes.Repeat([]byte{0xBB}, 100)

	b.AddMessage(big, 1.0)
	b.AddMessage([]byte{1, 2, 3}, 2.0)

	first, ok := drainOne(t, b)
	if !ok {
		t.Fatalf("expected the oversized batch")
	}
	if len(first) != TimestampSize+100 {
		t.Fatalf("oversized batch is %d bytes, want %d", len(first), TimestampSize+100)
	}
	if !bytes.Equal(first[TimestampSize:], big) {
		t.Fatalf("oversized batch payload was merged or mangled")
	}

	second, ok := drainOne(t, b)
	if !ok {
		t.Fatalf("expected the small batch separately")
	}
	if len(second) != TimestampSize+3 {
		t.Fatalf("small batch is %d bytes, want %d", len(second), TimestampSize+3)
	}
}

func TestGetBatchOnEmptyBatcher(t *testing.T) {
	b := NewBatcher(64, nil)

	if _, ok := drainOne(t, b); ok {
		t.Fatalf("empty batcher returned a batch")
	}

	// A header-only batch must never materialize: the header is written
	// lazily on the first AddMessage.
	b.AddMessage([]byte{1}, 1.0)
	if _, ok := drainOne(t, b); !ok {
		t.Fatalf("expected one batch")
	}
	if _, ok := drainOne(t, b); ok {
		t.Fatalf("second GetBatch with no intervening AddMessage returned a batch")
	}
}

func TestGetBatchRejectsNonEmptyDestination(t *testing.T) {
	b := NewBatcher(64, nil)
	b.AddMessage([]byte{1}, 1.0)

	w := wire.NewWriter()
	w.WriteUint8(99)
	_, err := b.GetBatch(w)
	if !errors.Is(err, wire.ErrPrecondition) {
		t.Fatalf("expected wire.ErrPrecondition, got %v", err)
	}
	// The destination must be untouched and the batch still retrievable.
	if w.Len() != 1 {
		t.Fatalf("destination mutated to %d bytes", w.Len())
	}
	if !b.HasPending() {
		t.Fatalf("rejected GetBatch dropped the batch")
	}
}

func TestReadyQueueDrainsOldestFirst(t *testing.T) {
	b := NewBatcher(10, nil)
	b.AddMessage(bytes.Repeat([]byte{1}, 16), 1.0) // seals immediately
	b.AddMessage(bytes.Repeat([]byte{2}, 16), 2.0) // seals immediately

	for i, want := range []float64{1.0, 2.0} {
		data, ok := drainOne(t, b)
		if !ok {
			t.Fatalf("batch %d missing", i)
		}
		if ts, _ := wire.NewReader(data).ReadFloat64(); ts != want {
			t.Fatalf("batch %d timestamp = %v, want %v", i, ts, want)
		}
	}
}

func TestClear(t *testing.T) {
	b := NewBatcher(10, nil)
	b.AddMessage(bytes.Repeat([]byte{1}, 16), 1.0)
	b.AddMessage([]byte{2}, 2.0)

	if !b.HasPending() {
		t.Fatalf("expected pending data before Clear")
	}
	b.Clear()
	if b.HasPending() {
		t.Fatalf("Clear left pending data")
	}
	if _, ok := drainOne(t, b); ok {
		t.Fatalf("GetBatch returned a batch after Clear")
	}
}

func TestSharedPoolAcrossBatchers(t *testing.T) {
	pool := NewPool()
	a := NewBatcher(16, pool)
	b := NewBatcher(16, pool)

	a.AddMessage(bytes.Repeat([]byte{1}, 20), 1.0)
	b.AddMessage(bytes.Repeat([]byte{2}, 20), 2.0)

	dataA, okA := drainOne(t, a)
	dataB, okB := drainOne(t, b)
	if !okA || !okB {
		t.Fatalf("expected batches from both batchers")
	}
	if bytes.Equal(dataA, dataB) {
		t.Fatalf("batches from independent batchers collided")
	}
}

// Package mirror is the wire-framing and binary decoding layer of a
// networked-object replication library: it packs independently serialized
// messages into size-thresholded, timestamped batches, and decodes received
// byte buffers with strict bounds checking against malformed or hostile
// input.
//
// Example usage:
//
//	pool := mirror.NewPool()
//	batcher := mirror.NewBatcher(1200, pool)
//
//	batcher.AddMessage(payload, timestamp)
//
//	w := mirror.NewWriter()
//	for {
//	    ok, err := batcher.GetBatch(w)
//	    if err != nil || !ok {
//	        break
//	    }
//	    send(w.Bytes())
//	    w.Reset()
//	}
//
// The sub-packages pkg/wire and pkg/batch can also be imported directly for
// selective use.
package mirror

import (
	"fmt"

	"github.com/wikieden/Mirror/pkg/batch"
	"github.com/wikieden/Mirror/pkg/log"
	"github.com/wikieden/Mirror/pkg/wire"
)

// Re-export the core types for convenient access.
type (
	// Reader is the bounds-checked decode cursor from pkg/wire.
	Reader = wire.Reader

	// Writer is the wire-format encoder from pkg/wire.
	Writer = wire.Writer

	// Resolver maps network ids to live object handles during decoding.
	Resolver = wire.Resolver

	// Batcher accumulates messages into timestamped batches.
	Batcher = batch.Batcher

	// Unbatcher splits received batches back into message cursors.
	Unbatcher = batch.Unbatcher

	// Pool recycles batch backing buffers.
	Pool = batch.Pool

	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger
)

// NewReader creates a decode cursor over buf.
func NewReader(buf []byte) *Reader {
	return wire.NewReader(buf)
}

// NewWriter creates an empty wire-format encoder.
func NewWriter() *Writer {
	return wire.NewWriter()
}

// NewPool creates a batch buffer pool.
func NewPool() *Pool {
	return batch.NewPool()
}

// NewBatcher creates a Batcher sealing batches at threshold bytes.
func NewBatcher(threshold int, pool *Pool) *Batcher {
	return batch.NewBatcher(threshold, pool)
}

// NewUnbatcher creates the receive-side counterpart of a Batcher.
func NewUnbatcher(pool *Pool) *Unbatcher {
	return batch.NewUnbatcher(pool)
}

// ValidateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func ValidateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"wire":  {wire.Version, wire.MinCompatibleVersion},
		"batch": {batch.Version, batch.MinCompatibleVersion},
		"log":   {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}

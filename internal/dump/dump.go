// Package dump decodes batch capture files: one on-wire batch per file,
// as written by transport-level capture hooks. It exists for operators
// debugging replication traffic; the library itself never touches the
// filesystem.
package dump

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wikieden/Mirror/pkg/batch"
	"github.com/wikieden/Mirror/pkg/log"
	"github.com/wikieden/Mirror/pkg/wire"
)

// CaptureExt is the filename extension of batch capture files.
const CaptureExt = ".batch"

// Report summarizes one decoded batch capture.
type Report struct {
	Path string

	// Timestamp is the f64 send timestamp from the batch header.
	Timestamp float64

	// TotalBytes is the full batch size, header included.
	TotalBytes int

	// PayloadBytes is the message area size, header excluded.
	PayloadBytes int

	// Preview holds a hex dump of the leading payload bytes.
	Preview string
}

// Dumper decodes capture files and reports on them through a Logger.
type Dumper struct {
	log     log.Logger
	preview int
}

// New creates a Dumper that previews up to previewBytes of each batch's
// message area.
func New(logger log.Logger, previewBytes int) *Dumper {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if previewBytes < 0 {
		previewBytes = 0
	}
	return &Dumper{log: logger, preview: previewBytes}
}

// File decodes a single capture file.
func (d *Dumper) File(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read capture: %w", err)
	}

	r := wire.NewReader(data)
	ts, err := r.ReadFloat64()
	if err != nil {
		return Report{}, fmt.Errorf("decode %s: timestamp header: %w", path, err)
	}

	rep := Report{
		Path:         path,
		Timestamp:    ts,
		TotalBytes:   len(data),
		PayloadBytes: len(data) - batch.TimestampSize,
	}

	n := d.preview
	if n > r.Remaining() {
		n = r.Remaining()
	}
	if n > 0 {
		// Cannot fail: n is clamped to the remaining bytes.
		head, _ := r.ReadRaw(n)
		rep.Preview = hex.EncodeToString(head)
	}

	d.log.Info("decoded batch capture",
		log.String("file", filepath.Base(path)),
		log.Float64("timestamp", rep.Timestamp),
		log.Int("total_bytes", rep.TotalBytes),
		log.Int("payload_bytes", rep.PayloadBytes))

	return rep, nil
}

// Dir decodes every capture file in dir, running up to workers decodes
// concurrently. The first failure cancels the rest.
func (d *Dumper) Dir(ctx context.Context, dir string, workers int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read capture dir: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), CaptureExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := d.File(path)
			return err
		})
	}

	return g.Wait()
}

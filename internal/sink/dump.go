// internal/sink/dump.go
package sink

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"golang.org/x/xerrors"

	"wavegen/internal/model"
)

// A DumpEncoder writes debug samples as "i,q" lines, one pair per line.
type DumpEncoder struct {
	w *csv.Writer
}

// NewDumpEncoder returns a new encoder that writes to w.
func NewDumpEncoder(w io.Writer) *DumpEncoder {
	return &DumpEncoder{w: csv.NewWriter(w)}
}

// Encode writes the first NumSamples pairs of samples. A nil or empty
// capture writes nothing.
func (enc *DumpEncoder) Encode(samples *model.DebugSamples) error {
	if samples == nil {
		return nil
	}

	i, q := samples.Valid()
	record := make([]string, 2)
	for k := range i {
		record[0] = strconv.FormatInt(int64(i[k]), 10)
		record[1] = strconv.FormatInt(int64(q[k]), 10)
		if err := enc.w.Write(record); err != nil {
			return xerrors.Errorf("write sample %d: %w", k, err)
		}
	}

	enc.w.Flush()
	if err := enc.w.Error(); err != nil {
		return xerrors.Errorf("flush samples: %w", err)
	}
	return nil
}

// DumpToFile replaces the file at path with the dump of samples
func DumpToFile(path string, samples *model.DebugSamples) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("create dump file: %w", err)
	}

	if err := NewDumpEncoder(f).Encode(samples); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return xerrors.Errorf("close dump file: %w", err)
	}
	return nil
}

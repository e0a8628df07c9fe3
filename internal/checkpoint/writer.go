package checkpoint

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/born-ml/axgraph/internal/axes"
)

// Entry is one named variable value.
type Entry struct {
	Name string
	Axes axes.Axes
	Data []float32
}

// Encode writes entries in checkpoint format.
func Encode(w io.Writer, entries []Entry, metadata map[string]string) error {
	header := Header{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Variables:     make([]VariableMeta, 0, len(entries)),
		Metadata:      metadata,
	}

	seen := make(map[string]bool, len(entries))
	var offset int64
	for _, e := range entries {
		if seen[e.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		seen[e.Name] = true
		if len(e.Data) != e.Axes.Size() {
			return fmt.Errorf("variable %q: %d values for axes %s", e.Name, len(e.Data), e.Axes)
		}
		size := int64(len(e.Data)) * 4
		header.Variables = append(header.Variables, VariableMeta{
			Name:   e.Name,
			Axes:   axesMeta(e.Axes),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	data := make([]byte, offset)
	for i, e := range entries {
		block := data[header.Variables[i].Offset:]
		for j, v := range e.Data {
			binary.LittleEndian.PutUint32(block[j*4:], math.Float32bits(v))
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	var flags uint32
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed, MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data))) //nolint:gosec // G115: length is non-negative
	sum := sha256.Sum256(data)
	copy(fixed[checksumOffset:], sum[:])

	var buf bytes.Buffer
	buf.Write(fixed)
	buf.Write(headerJSON)
	buf.Write(make([]byte, padding(int64(FixedHeaderSize+len(headerJSON)))))
	buf.Write(data)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

package checkpoint

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
)

// Checkpoint is a decoded checkpoint.
type Checkpoint struct {
	Header Header
	data   []byte
}

// Decode reads and verifies a checkpoint.
func Decode(r io.Reader) (*Checkpoint, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("%w: fixed header: %w", ErrTruncated, err)
	}
	if !bytes.Equal(fixed[:4], []byte(MagicBytes)) {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, v, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	if _, err := io.CopyN(io.Discard, r, padding(int64(FixedHeaderSize)+int64(headerSize))); err != nil {
		return nil, fmt.Errorf("%w: padding: %w", ErrTruncated, err)
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize))) //nolint:gosec // G115: checked against actual length below
	if err != nil {
		return nil, fmt.Errorf("failed to read data section: %w", err)
	}
	if uint64(len(data)) != dataSize {
		return nil, fmt.Errorf("%w: data section has %d of %d bytes", ErrTruncated, len(data), dataSize)
	}

	var stored [ChecksumSize]byte
	copy(stored[:], fixed[checksumOffset:checksumOffset+ChecksumSize])
	if sha256.Sum256(data) != stored {
		return nil, ErrChecksumMismatch
	}
	if err := validate(header.Variables, int64(len(data))); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &Checkpoint{Header: header, data: data}, nil
}

// Names returns the variable names in file order.
func (c *Checkpoint) Names() []string {
	names := make([]string, len(c.Header.Variables))
	for i, m := range c.Header.Variables {
		names[i] = m.Name
	}
	return names
}

// Entry returns the named variable.
func (c *Checkpoint) Entry(name string) (Entry, error) {
	for _, m := range c.Header.Variables {
		if m.Name != name {
			continue
		}
		axs, err := m.AxesOf()
		if err != nil {
			return Entry{}, fmt.Errorf("variable %q: %w", name, err)
		}
		block := c.data[m.Offset : m.Offset+m.Size]
		values := make([]float32, len(block)/4)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(block[i*4:]))
		}
		return Entry{Name: name, Axes: axs, Data: values}, nil
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrMissingVariable, name)
}

// validate checks the variable table against the data section.
func validate(vars []VariableMeta, dataSize int64) error {
	if len(vars) > MaxVariables {
		return &ValidationError{Type: "too_many_variables", Details: fmt.Sprintf("got %d, max %d", len(vars), MaxVariables)}
	}

	names := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Name == "" {
			return &ValidationError{Type: "invalid_name", Details: "empty variable name"}
		}
		if names[v.Name] {
			return &ValidationError{Type: "duplicate_name", Variable: v.Name, Details: "name appears twice"}
		}
		names[v.Name] = true

		elems := int64(1)
		for _, a := range v.Axes {
			if a.Length < 0 {
				return &ValidationError{Type: "invalid_axis", Variable: v.Name, Details: fmt.Sprintf("axis %q has length %d", a.Name, a.Length)}
			}
			elems *= int64(a.Length)
		}
		if elems*4 != v.Size {
			return &ValidationError{Type: "size_mismatch", Variable: v.Name, Details: fmt.Sprintf("axes hold %d values, size is %d bytes", elems, v.Size)}
		}
	}

	sorted := make([]VariableMeta, len(vars))
	copy(sorted, vars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i, v := range sorted {
		if v.Offset < 0 || v.Size < 0 {
			return &ValidationError{Type: "negative_offset", Variable: v.Name, Details: fmt.Sprintf("offset=%d, size=%d", v.Offset, v.Size)}
		}
		if v.Offset+v.Size > dataSize {
			return &ValidationError{Type: "out_of_bounds", Variable: v.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", v.Offset, v.Size, dataSize)}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if v.Offset+v.Size > next.Offset {
				return &ValidationError{Type: "offset_overlap", Variable: v.Name, Other: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap", v.Offset, v.Offset+v.Size, next.Offset, next.Offset+next.Size)}
			}
		}
	}
	return nil
}

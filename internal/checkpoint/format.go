package checkpoint

import (
	"time"

	"github.com/born-ml/axgraph/internal/axes"
)

// Format constants.
const (
	MagicBytes      = "AXGR"
	FormatVersion   = 1
	Alignment       = 64
	FixedHeaderSize = 64
	ChecksumSize    = 32
	checksumOffset  = 0x20
	MaxHeaderSize   = 100 * 1024 * 1024
	MaxVariables    = 100_000
)

// FlagHasMetadata is set when the header carries user metadata.
const FlagHasMetadata uint32 = 1 << 0

// Header is the JSON header of a checkpoint.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Variables     []VariableMeta    `json:"variables"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// AxisMeta records one axis of a variable.
type AxisMeta struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Dual   int    `json:"dual,omitempty"`
}

// VariableMeta locates a variable in the data section.
type VariableMeta struct {
	Name   string     `json:"name"`
	Axes   []AxisMeta `json:"axes"`
	Offset int64      `json:"offset"` // bytes from the start of the data section
	Size   int64      `json:"size"`   // bytes
}

func axesMeta(axs axes.Axes) []AxisMeta {
	out := make([]AxisMeta, axs.Len())
	for i, ax := range axs.Slice() {
		out[i] = AxisMeta{Name: ax.Name(), Length: ax.Length(), Dual: ax.Dual()}
	}
	return out
}

// AxesOf rebuilds the axes recorded for a variable.
func (m VariableMeta) AxesOf() (axes.Axes, error) {
	list := make([]axes.Axis, len(m.Axes))
	for i, a := range m.Axes {
		list[i] = axes.NewAxis(a.Length, a.Name).Add(a.Dual)
	}
	return axes.NewAxes(list...)
}

func padding(pos int64) int64 {
	return (Alignment - pos%Alignment) % Alignment
}

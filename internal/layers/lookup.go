package layers

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// LookupTable maps integer indices to learned embedding vectors.
//
// The input holds indices as float values, typically over (REC, N). The
// output prepends the embedding axis: (E, REC, N). Indices outside
// [0, VocabSize) embed to zeros.
type LookupTable struct {
	VocabSize int
	EmbedDim  int
	Init      graph.Initializer
	// Pad fixes the embedding of PadIdx at zero.
	Pad    bool
	PadIdx int
	// Update controls whether optimizers train the table.
	Update bool
	Name   string

	vocab  axes.Axis
	embed  axes.Axis
	weight graph.Op
}

// NewLookupTable creates a trainable table without a padding index.
func NewLookupTable(vocabSize, embedDim int, init graph.Initializer) *LookupTable {
	return &LookupTable{
		VocabSize: vocabSize,
		EmbedDim:  embedDim,
		Init:      init,
		Update:    true,
	}
}

// EmbedAxis returns the output embedding axis once the table is built.
func (l *LookupTable) EmbedAxis() axes.Axis { return l.embed }

// Forward implements Layer.
func (l *LookupTable) Forward(x graph.Op) (graph.Op, error) {
	if l.weight == nil {
		if l.VocabSize <= 0 || l.EmbedDim <= 0 || l.Pad && (l.PadIdx < 0 || l.PadIdx >= l.VocabSize) {
			return nil, fmt.Errorf("lookup table: %w: vocab %d, embed %d, pad %d",
				ErrConfig, l.VocabSize, l.EmbedDim, l.PadIdx)
		}
		l.Name = layerName(l.Name, "lookup")
		l.vocab = axes.NewAxis(l.VocabSize, l.Name+"_vocab")
		l.embed = axes.NewAxis(l.EmbedDim, l.Name+"_embed").WithRole(axes.FeaturesInput)
		opts := []graph.Option{graph.WithName(l.Name + "/W")}
		if !l.Update {
			opts = append(opts, graph.NonTrainable())
		}
		l.weight = graph.Variable(axes.MustAxes(l.embed, l.vocab.Sub(1)), l.Init, opts...)
	}

	return build("lookup table", func() graph.Op {
		w := l.weight
		if l.Pad {
			mask := make([]float32, l.VocabSize)
			for i := range mask {
				mask[i] = 1
			}
			mask[l.PadIdx] = 0
			w = graph.Multiply(w, graph.ConstantTensor(mask, axes.MustAxes(l.vocab.Sub(1))))
		}
		return graph.Dot(w, graph.OneHot(x, l.vocab))
	})
}

// Parameters implements Layer.
func (l *LookupTable) Parameters() []graph.Op {
	if l.weight == nil {
		return nil
	}
	return []graph.Op{l.weight}
}

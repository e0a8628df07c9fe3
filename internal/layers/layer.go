// Package layers implements a layer frontend over the op graph.
//
// Layers create their variables lazily, on the first Forward, because the
// feature axes of the input are only known then. Later calls reuse the same
// variables and require the same feature axes.
//
//   - Affine: Dot with a weight over (out, in-1) plus optional bias
//   - LookupTable: embedding of integer indices
//   - Recurrent: Elman RNN unrolled over the recurrent axis
//   - BiRNN: forward and reverse Recurrent cells
//   - Sequential and Preprocess: composition
//
// Example:
//
//	model := layers.NewSequential(
//	    layers.NewLookupTable(50, 100, layers.UniformInit{Low: -0.1, High: 0.1}),
//	    layers.NewRecurrent(128, layers.XavierInit{}, layers.Tanh),
//	    &layers.Affine{Axes: axes.MustAxes(y), Init: layers.XavierInit{}, Activation: layers.Softmax},
//	)
//	out, err := model.Forward(inputs)
package layers

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// Errors returned by Forward.
var (
	ErrNoFeatureAxes   = errors.New("layers: input has no feature axes")
	ErrNoRecurrentAxis = errors.New("layers: input has no recurrent axis")
	ErrInputAxes       = errors.New("layers: input feature axes changed between calls")
	ErrConfig          = errors.New("layers: invalid configuration")
)

// Layer is the base interface for all layers.
type Layer interface {
	// Forward builds the output op for x.
	Forward(x graph.Op) (graph.Op, error)

	// Parameters returns the variables created so far, nil before the first Forward.
	Parameters() []graph.Op
}

var layerCounter atomic.Int64

// layerName returns name, or a unique name derived from kind.
func layerName(name, kind string) string {
	if name != "" {
		return name
	}
	return kind + "_" + strconv.FormatInt(layerCounter.Add(1), 10)
}

// featureAxes returns the sample axes of axs other than the recurrent axis.
func featureAxes(axs axes.Axes) axes.Axes {
	feat := axs.SampleAxes()
	if rec, ok := axs.RecurrentAxis(); ok {
		feat = feat.Difference(axes.MustAxes(rec))
	}
	return feat
}

// build runs fn and converts a graph construction panic into an error.
func build(kind string, fn func() graph.Op) (graph.Op, error) {
	op, err := graph.Try(fn)
	if err != nil {
		return nil, fmt.Errorf("layers: %s: %w", kind, err)
	}
	return op, nil
}

// Sequential is a container that chains layers together.
//
// Each layer's output becomes the next layer's input.
type Sequential struct {
	Layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{Layers: layers}
}

// Forward applies all layers in sequence.
func (s *Sequential) Forward(x graph.Op) (graph.Op, error) {
	out := x
	for i, l := range s.Layers {
		var err error
		out, err = l.Forward(out)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return out, nil
}

// Parameters returns the variables of every layer, in layer order.
func (s *Sequential) Parameters() []graph.Op {
	var params []graph.Op
	for _, l := range s.Layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// Preprocess wraps a graph function without variables as a layer.
type Preprocess func(x graph.Op) graph.Op

// Forward applies the function.
func (p Preprocess) Forward(x graph.Op) (graph.Op, error) {
	return build("preprocess", func() graph.Op { return p(x) })
}

// Parameters returns nil.
func (Preprocess) Parameters() []graph.Op { return nil }

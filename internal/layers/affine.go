package layers

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// Affine computes Activation(W · x + b).
//
// W has axes (Axes, in-1) where in are the feature axes of x, so Dot
// contracts every feature axis and keeps batch and time. The bias is only
// created when BiasInit is set.
type Affine struct {
	Init       graph.Initializer
	Activation Activation
	BiasInit   graph.Initializer
	// Axes are the output feature axes. When empty, one axis of length Size is created.
	Axes axes.Axes
	Size int
	Name string

	in     axes.Axes
	weight graph.Op
	bias   graph.Op
}

// NewAffine creates an Affine layer producing the given axes.
func NewAffine(out axes.Axes, init graph.Initializer, act Activation) *Affine {
	return &Affine{Axes: out, Init: init, Activation: act}
}

// Forward implements Layer.
func (a *Affine) Forward(x graph.Op) (graph.Op, error) {
	in := featureAxes(x.Axes())
	if in.IsScalar() {
		return nil, fmt.Errorf("affine: %w: %s", ErrNoFeatureAxes, x.Axes())
	}
	if a.weight == nil {
		if err := a.setup(in); err != nil {
			return nil, err
		}
	} else if !in.SetEqual(a.in) {
		return nil, fmt.Errorf("affine %s: %w: built for %s, got %s", a.Name, ErrInputAxes, a.in, in)
	}

	return build("affine", func() graph.Op {
		y := graph.Dot(a.weight, x)
		if a.bias != nil {
			y = graph.Add(y, a.bias)
		}
		return apply(a.Activation, y)
	})
}

func (a *Affine) setup(in axes.Axes) error {
	a.Name = layerName(a.Name, "affine")
	if a.Axes.IsScalar() {
		if a.Size <= 0 {
			return fmt.Errorf("affine %s: %w: neither Axes nor Size set", a.Name, ErrConfig)
		}
		a.Axes = axes.MustAxes(axes.NewAxis(a.Size, a.Name+"_out"))
	}
	wAxes, err := a.Axes.Concat(in.Dual(-1))
	if err != nil {
		return fmt.Errorf("affine %s: %w", a.Name, err)
	}
	a.in = in
	a.weight = graph.Variable(wAxes, a.Init, graph.WithName(a.Name+"/W"))
	if a.BiasInit != nil {
		a.bias = graph.Variable(a.Axes, a.BiasInit, graph.WithName(a.Name+"/b"))
	}
	return nil
}

// Parameters implements Layer.
func (a *Affine) Parameters() []graph.Op {
	var params []graph.Op
	if a.weight != nil {
		params = append(params, a.weight)
	}
	if a.bias != nil {
		params = append(params, a.bias)
	}
	return params
}

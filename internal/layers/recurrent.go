package layers

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// Recurrent is an Elman RNN unrolled over the recurrent axis of its input.
//
// Step rule, with h₋₁ = 0:
//
//	h_t = Activation(W · x_t + U · h_{t-1} + b)
//
// W has axes (H, in-1) and U has axes (H, H-1), so both products are plain
// Dots. With ReturnSequence the hidden states are stacked back along the
// recurrent axis, otherwise only the final state is returned.
type Recurrent struct {
	Size       int
	Init       graph.Initializer
	InitInner  graph.Initializer // recurrent weights; Init when nil
	Activation Activation
	// ReturnSequence keeps every time step.
	ReturnSequence bool
	// Reverse runs from the last time step to the first.
	Reverse bool
	// Hidden is the output axis. When unset an axis of length Size is created.
	Hidden axes.Axis
	Name   string

	in axes.Axes
	w  graph.Op
	u  graph.Op
	b  graph.Op
}

// NewRecurrent creates a layer returning the whole sequence.
func NewRecurrent(size int, init graph.Initializer, act Activation) *Recurrent {
	return &Recurrent{Size: size, Init: init, Activation: act, ReturnSequence: true}
}

// HiddenAxis returns the output axis once the layer is built.
func (r *Recurrent) HiddenAxis() axes.Axis { return r.Hidden }

func (r *Recurrent) setup(in axes.Axes) error {
	r.Name = layerName(r.Name, "rnn")
	if r.Hidden.Name() == "" {
		if r.Size <= 0 {
			return fmt.Errorf("recurrent %s: %w: size %d", r.Name, ErrConfig, r.Size)
		}
		r.Hidden = axes.NewAxis(r.Size, r.Name+"_hidden")
	}
	wAxes, err := axes.MustAxes(r.Hidden).Concat(in.Dual(-1))
	if err != nil {
		return fmt.Errorf("recurrent %s: %w", r.Name, err)
	}
	inner := r.InitInner
	if inner == nil {
		inner = r.Init
	}
	r.in = in
	r.w = graph.Variable(wAxes, r.Init, graph.WithName(r.Name+"/W_input"))
	r.u = graph.Variable(axes.MustAxes(r.Hidden, r.Hidden.Sub(1)), inner, graph.WithName(r.Name+"/W_recur"))
	r.b = graph.Variable(axes.MustAxes(r.Hidden), nil, graph.WithName(r.Name+"/b"))
	return nil
}

// Forward implements Layer.
func (r *Recurrent) Forward(x graph.Op) (graph.Op, error) {
	rec, ok := x.Axes().RecurrentAxis()
	if !ok {
		return nil, fmt.Errorf("recurrent: %w: %s", ErrNoRecurrentAxis, x.Axes())
	}
	in := featureAxes(x.Axes())
	if in.IsScalar() {
		return nil, fmt.Errorf("recurrent: %w: %s", ErrNoFeatureAxes, x.Axes())
	}
	if r.w == nil {
		if err := r.setup(in); err != nil {
			return nil, err
		}
	} else if !in.SetEqual(r.in) {
		return nil, fmt.Errorf("recurrent %s: %w: built for %s, got %s", r.Name, ErrInputAxes, r.in, in)
	}

	return build("recurrent", func() graph.Op { return r.unroll(x, rec) })
}

func (r *Recurrent) unroll(x graph.Op, rec axes.Axis) graph.Op {
	wx := graph.Add(graph.Dot(r.w, x), r.b)
	steps := rec.Length()
	hs := make([]graph.Op, steps)
	var h graph.Op
	for i := 0; i < steps; i++ {
		t := i
		if r.Reverse {
			t = steps - 1 - i
		}
		pre := graph.Slice(wx, rec, t)
		if h != nil {
			pre = graph.Add(pre, graph.Dot(r.u, h))
		}
		h = apply(r.Activation, pre)
		hs[t] = h
	}
	if !r.ReturnSequence {
		return h
	}
	return graph.Stack(hs, rec, wx.Axes().Index(rec))
}

// Parameters implements Layer.
func (r *Recurrent) Parameters() []graph.Op {
	if r.w == nil {
		return nil
	}
	return []graph.Op{r.w, r.u, r.b}
}

// BiRNN runs one Recurrent cell forwards and another backwards over the
// same input and combines their outputs.
//
// With SumOut the two outputs are added. Otherwise they are stacked along a
// new direction axis of length 2, forward first.
type BiRNN struct {
	Size           int
	Init           graph.Initializer
	InitInner      graph.Initializer
	Activation     Activation
	SumOut         bool
	ReturnSequence bool
	Name           string

	dir      axes.Axis
	fwd, bwd *Recurrent
}

// NewBiRNN creates a bidirectional layer.
func NewBiRNN(size int, init graph.Initializer, act Activation, returnSequence, sumOut bool) *BiRNN {
	return &BiRNN{Size: size, Init: init, Activation: act, ReturnSequence: returnSequence, SumOut: sumOut}
}

// DirectionAxis returns the stacking axis used when SumOut is false.
func (b *BiRNN) DirectionAxis() axes.Axis { return b.dir }

// Forward implements Layer.
func (b *BiRNN) Forward(x graph.Op) (graph.Op, error) {
	if b.fwd == nil {
		if b.Size <= 0 {
			return nil, fmt.Errorf("birnn: %w: size %d", ErrConfig, b.Size)
		}
		b.Name = layerName(b.Name, "birnn")
		hidden := axes.NewAxis(b.Size, b.Name+"_hidden")
		cell := func(suffix string, reverse bool) *Recurrent {
			return &Recurrent{
				Size:           b.Size,
				Init:           b.Init,
				InitInner:      b.InitInner,
				Activation:     b.Activation,
				ReturnSequence: b.ReturnSequence,
				Reverse:        reverse,
				Hidden:         hidden,
				Name:           b.Name + "/" + suffix,
			}
		}
		b.fwd, b.bwd = cell("fwd", false), cell("bwd", true)
		b.dir = axes.NewAxis(2, b.Name+"_dir")
	}

	f, err := b.fwd.Forward(x)
	if err != nil {
		return nil, err
	}
	r, err := b.bwd.Forward(x)
	if err != nil {
		return nil, err
	}
	return build("birnn", func() graph.Op {
		if b.SumOut {
			return graph.Add(f, r)
		}
		return graph.Stack([]graph.Op{f, r}, b.dir, 0)
	})
}

// Parameters implements Layer.
func (b *BiRNN) Parameters() []graph.Op {
	if b.fwd == nil {
		return nil
	}
	return append(b.fwd.Parameters(), b.bwd.Parameters()...)
}

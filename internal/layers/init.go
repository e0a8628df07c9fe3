package layers

import (
	"math"
	"math/rand"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// source returns a generator for seed, or nil for the global source.
func source(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	//nolint:gosec // Weight initialization is not security-critical
	return rand.New(rand.NewSource(seed))
}

func uniform(r *rand.Rand) float64 {
	if r == nil {
		//nolint:gosec // Weight initialization is not security-critical
		return rand.Float64()
	}
	return r.Float64()
}

func normal(r *rand.Rand) float64 {
	if r == nil {
		//nolint:gosec // Weight initialization is not security-critical
		return rand.NormFloat64()
	}
	return r.NormFloat64()
}

// UniformInit draws from U(Low, High). A non-zero Seed makes it repeatable.
type UniformInit struct {
	Low, High float32
	Seed      int64
}

// Fill implements graph.Initializer.
func (u UniformInit) Fill(data []float32, _ axes.Axes) {
	r := source(u.Seed)
	span := float64(u.High - u.Low)
	for i := range data {
		data[i] = u.Low + float32(uniform(r)*span)
	}
}

// GaussianInit draws from N(Mean, Std²).
type GaussianInit struct {
	Mean, Std float32
	Seed      int64
}

// Fill implements graph.Initializer.
func (g GaussianInit) Fill(data []float32, _ axes.Axes) {
	r := source(g.Seed)
	for i := range data {
		data[i] = g.Mean + g.Std*float32(normal(r))
	}
}

// ConstantInit fills every element with Value.
type ConstantInit struct {
	Value float32
}

// Fill implements graph.Initializer.
func (c ConstantInit) Fill(data []float32, _ axes.Axes) {
	for i := range data {
		data[i] = c.Value
	}
}

// XavierInit (Glorot) draws from U(-b, b) with b = sqrt(6 / (fan_in + fan_out)).
//
// Fan-in is the size of the dual (input) axes of the weight; fan-out is the
// size of the remaining axes.
type XavierInit struct {
	Seed int64
}

// Fill implements graph.Initializer.
func (x XavierInit) Fill(data []float32, axs axes.Axes) {
	fanIn, fanOut := 1, 1
	for _, ax := range axs.Slice() {
		if ax.Dual() < 0 {
			fanIn *= ax.Length()
		} else {
			fanOut *= ax.Length()
		}
	}
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	UniformInit{Low: -bound, High: bound, Seed: x.Seed}.Fill(data, axs)
}

var (
	_ graph.Initializer = UniformInit{}
	_ graph.Initializer = GaussianInit{}
	_ graph.Initializer = ConstantInit{}
	_ graph.Initializer = XavierInit{}
)

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff derives gradient graphs.
//
// Differentiation is symbolic: the result is another graph.Op that a
// transformer compiles like any other.
//
// Example:
//
//	w := graph.Variable(axes.MustAxes(h, c.Sub(1)), layers.XavierInit{})
//	cost := graph.Mean(graph.Square(graph.Dot(w, x)), graph.OutAxes(axes.Axes{}))
//	dw, err := autodiff.Deriv(cost, w)
package autodiff

import (
	"github.com/born-ml/axgraph/internal/autodiff"
	"github.com/born-ml/axgraph/internal/graph"
)

// Option configures differentiation.
type Option = autodiff.Option

// ErrNonScalarCost is returned when a cost with axes is differentiated
// without an error seed.
var ErrNonScalarCost = autodiff.ErrNonScalarCost

// WithErrorSeed starts back-propagation from delta instead of 1.
func WithErrorSeed(delta graph.Op) Option {
	return autodiff.WithErrorSeed(delta)
}

// Deriv returns d cost / d wrt, with wrt's axes.
func Deriv(cost, wrt graph.Op, opts ...Option) (graph.Op, error) {
	return autodiff.Deriv(cost, wrt, opts...)
}

// Gradients returns the gradients of cost for every op in wrt, keyed by op ID.
func Gradients(cost graph.Op, wrt []graph.Op, opts ...Option) (map[int64]graph.Op, error) {
	return autodiff.Gradients(cost, wrt, opts...)
}

// Package autodiff synthesises gradient graphs by reverse-mode differentiation.
//
// The forward graph is never evaluated here. Deriv walks it from the cost
// back to the requested op and returns new graph ops computing the
// gradient, which a transformer compiles like any other op.
//
// Architecture:
//   - Each graph.Op knows its local rule (Op.Adjoints)
//   - Adjoints are accumulated with graph.Add when an op has several users
//   - graph.ReduceTo sums broadcast axes away and restores the arg's order
//
// Usage:
//
//	cost := graph.Sum(graph.Square(graph.Subtract(y, t)), graph.OutAxes(axes.Axes{}))
//	dw, err := autodiff.Deriv(cost, w)
package autodiff

import (
	"errors"
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// ErrNonScalarCost is returned when differentiating a cost with axes and no error seed.
var ErrNonScalarCost = errors.New("autodiff: cost must be a scalar")

// Option configures a derivative.
type Option func(*options)

type options struct {
	seed graph.Op
}

// WithErrorSeed starts back-propagation from delta instead of 1.
// delta must have the cost's axes.
func WithErrorSeed(delta graph.Op) Option {
	return func(o *options) { o.seed = delta }
}

// Deriv returns the derivative of cost with respect to wrt, laid out in
// wrt's axes.
func Deriv(cost, wrt graph.Op, opts ...Option) (graph.Op, error) {
	grads, err := Gradients(cost, []graph.Op{wrt}, opts...)
	if err != nil {
		return nil, err
	}
	return grads[wrt.ID()], nil
}

// Gradients returns the derivative of cost with respect to each op in wrt,
// keyed by op id. Ops that cost does not depend on get zeros.
//
// Algorithm:
//  1. Seed the adjoint of cost (ones, or the error seed)
//  2. Visit the ops between cost and wrt in reverse topological order
//  3. Ask each op for its args' contributions and reduce them to the arg's axes
//  4. Sum contributions when an op feeds several users
func Gradients(cost graph.Op, wrt []graph.Op, opts ...Option) (grads map[int64]graph.Op, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	seed := o.seed
	switch {
	case seed == nil && !cost.Axes().IsScalar():
		return nil, fmt.Errorf("%w: got axes %s", ErrNonScalarCost, cost.Axes())
	case seed == nil:
		seed = graph.Constant(1)
	case !seed.Axes().SetEqual(cost.Axes()):
		return nil, fmt.Errorf("autodiff: error seed axes %s do not match cost axes %s", seed.Axes(), cost.Axes())
	}

	// Gradient rules build ops; a malformed graph surfaces as a panic.
	defer func() {
		if r := recover(); r != nil {
			opErr, ok := r.(*graph.OpError)
			if !ok {
				panic(r)
			}
			grads, err = nil, fmt.Errorf("autodiff: %w", opErr)
		}
	}()

	order := graph.Topological(cost)
	relevant := dependsOn(order, wrt)

	adjoints := map[int64]graph.Op{cost.ID(): graph.ReduceTo(seed, cost.Axes())}
	for i := len(order) - 1; i >= 0; i-- {
		op := order[i]
		delta, ok := adjoints[op.ID()]
		if !ok || !relevant[op.ID()] {
			continue
		}
		args := op.Args()
		contribs := op.Adjoints(delta)
		for j, arg := range args {
			if contribs[j] == nil || !relevant[arg.ID()] {
				continue
			}
			c := graph.ReduceTo(contribs[j], arg.Axes())
			if prev, ok := adjoints[arg.ID()]; ok {
				c = graph.Add(prev, c)
			}
			adjoints[arg.ID()] = c
		}
	}

	grads = make(map[int64]graph.Op, len(wrt))
	for _, w := range wrt {
		if g, ok := adjoints[w.ID()]; ok {
			grads[w.ID()] = g
			continue
		}
		grads[w.ID()] = zeros(w.Axes())
	}
	return grads, nil
}

// dependsOn marks the ops in order (topologically sorted) that have a path to any op in wrt.
func dependsOn(order []graph.Op, wrt []graph.Op) map[int64]bool {
	marked := make(map[int64]bool, len(order))
	for _, w := range wrt {
		marked[w.ID()] = true
	}
	for _, op := range order {
		for _, arg := range op.Args() {
			if marked[arg.ID()] {
				marked[op.ID()] = true
				break
			}
		}
	}
	return marked
}

func zeros(axs axes.Axes) graph.Op {
	return graph.Full(0, axs)
}

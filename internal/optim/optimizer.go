// Package optim builds parameter-update graphs.
//
// An optimizer differentiates a cost with respect to every trainable
// variable it reaches and returns one op that, when executed by a
// transformer, assigns the updated values:
//
//   - GradientDescentMomentum: SGD with momentum and weight decay
//   - RMSProp: running average of squared gradients
//   - Adam: bias-corrected first and second moments
//
// Example usage:
//
//	opt := optim.NewRMSProp(optim.RMSPropConfig{})
//	updates, err := opt.Minimize(loss)
//	train, err := t.Computation([]graph.Op{meanCost, updates}, inputs...)
package optim

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/born-ml/axgraph/internal/autodiff"
	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Minimize returns a DoAll op updating every trainable variable that
	// cost depends on. A cost with axes is summed and divided by its batch
	// size first.
	Minimize(cost graph.Op) (graph.Op, error)
}

// Config holds the settings every optimizer shares.
type Config struct {
	LR float32 // Learning rate; ignored when Schedule is set
	// Schedule derives the learning rate from the iteration count.
	Schedule Schedule
	// GradientClipValue clamps every gradient element to [-v, v]. Zero disables it.
	GradientClipValue float32
	// GradientClipNorm rescales all gradients together so their global L2
	// norm is at most this value. Zero disables it.
	GradientClipNorm float32
}

// update builds the new value of one variable and any state assignments.
type update func(v *graph.VariableOp, grad, lr, iter graph.Op) []graph.Op

// base carries the iteration counter and the shared gradient pipeline.
type base struct {
	cfg  Config
	name string
	iter graph.Op
}

var optimizerCount atomic.Int64

func newBase(cfg Config, defaultLR float32) base {
	if cfg.LR == 0 {
		cfg.LR = defaultLR
	}
	return base{cfg: cfg, name: "optim_" + strconv.FormatInt(optimizerCount.Add(1), 10)}
}

// Iteration returns the variable counting executed updates. Its name,
// such as "optim_2/iteration", is unique to the optimizer.
func (b *base) Iteration() graph.Op {
	if b.iter == nil {
		b.iter = graph.Variable(axes.Axes{}, nil, graph.NonTrainable(), graph.WithName(b.name+"/iteration"))
	}
	return b.iter
}

// LearningRate returns the learning-rate op for the current iteration.
func (b *base) LearningRate() graph.Op {
	if b.cfg.Schedule != nil {
		return b.cfg.Schedule.Rate(b.Iteration())
	}
	return graph.Constant(b.cfg.LR)
}

func (b *base) minimize(cost graph.Op, rule update) (op graph.Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			opErr, ok := r.(*graph.OpError)
			if !ok {
				panic(r)
			}
			op, err = nil, fmt.Errorf("optim: %w", opErr)
		}
	}()

	var vars []graph.Op
	for _, v := range graph.Variables(cost) {
		if v.Trainable() {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return nil, ErrNoTrainable
	}

	batchCost := cost
	if !cost.Axes().IsScalar() {
		batchCost = graph.Sum(cost, graph.OutAxes(axes.Axes{}))
		if n := cost.Axes().BatchAxes().Size(); n > 1 {
			batchCost = graph.DivScalar(batchCost, float32(n))
		}
	}

	grads, err := autodiff.Gradients(batchCost, vars)
	if err != nil {
		return nil, fmt.Errorf("optim: %w", err)
	}
	gs := make([]graph.Op, len(vars))
	for i, v := range vars {
		gs[i] = grads[v.ID()]
	}
	gs = b.clip(gs)

	iter := b.Iteration()
	lr := b.LearningRate()
	var assigns []graph.Op
	for i, v := range vars {
		assigns = append(assigns, rule(v.(*graph.VariableOp), gs[i], lr, iter)...)
	}
	assigns = append(assigns, graph.Assign(iter, graph.AddScalar(iter, 1)))
	return graph.DoAll(assigns...), nil
}

// clip applies value clipping and then global-norm clipping.
func (b *base) clip(grads []graph.Op) []graph.Op {
	out := make([]graph.Op, len(grads))
	copy(out, grads)
	if c := b.cfg.GradientClipValue; c > 0 {
		for i, g := range out {
			out[i] = graph.Minimum(graph.Maximum(g, graph.Constant(-c)), graph.Constant(c))
		}
	}
	if c := b.cfg.GradientClipNorm; c > 0 {
		var sq graph.Op
		for _, g := range out {
			s := graph.SquaredL2(g, graph.OutAxes(axes.Axes{}))
			if sq == nil {
				sq = s
			} else {
				sq = graph.Add(sq, s)
			}
		}
		norm := graph.Sqrt(sq)
		scale := graph.Divide(graph.Constant(c), graph.Maximum(norm, graph.Constant(c)))
		for i, g := range out {
			out[i] = graph.Multiply(g, scale)
		}
	}
	return out
}

// state creates a zero-initialised companion variable for v.
func state(v *graph.VariableOp, suffix string) graph.Op {
	return graph.Variable(v.Axes(), nil, graph.NonTrainable(), graph.WithName(v.Name()+"/"+suffix))
}

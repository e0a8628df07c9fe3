package optim

import (
	"github.com/born-ml/axgraph/internal/graph"
)

// GradientDescentMomentum implements stochastic gradient descent with momentum.
//
// Update rule:
//
//	velocity = momentum * velocity - lr * (gradient + weight_decay * param)
//	param = param + velocity
//
// With Nesterov the parameter moves by momentum * velocity - lr * gradient instead.
type GradientDescentMomentum struct {
	base
	momentum    float32
	weightDecay float32
	nesterov    bool
}

// MomentumConfig holds configuration for GradientDescentMomentum.
type MomentumConfig struct {
	Config
	Momentum    float32 // Momentum factor (default: 0.0, range: [0, 1))
	WeightDecay float32 // L2 penalty added to the gradient
	Nesterov    bool
}

// NewGradientDescentMomentum creates the optimizer. LR defaults to 0.01.
func NewGradientDescentMomentum(cfg MomentumConfig) *GradientDescentMomentum {
	return &GradientDescentMomentum{
		base:        newBase(cfg.Config, 0.01),
		momentum:    cfg.Momentum,
		weightDecay: cfg.WeightDecay,
		nesterov:    cfg.Nesterov,
	}
}

// Minimize implements Optimizer.
func (o *GradientDescentMomentum) Minimize(cost graph.Op) (graph.Op, error) {
	return o.minimize(cost, func(v *graph.VariableOp, grad, lr, _ graph.Op) []graph.Op {
		if o.weightDecay != 0 {
			grad = graph.Add(grad, graph.MulScalar(v, o.weightDecay))
		}
		step := graph.Negative(graph.Multiply(lr, grad))
		if o.momentum == 0 {
			return []graph.Op{graph.Assign(v, graph.Add(v, step))}
		}

		vel := state(v, "velocity")
		newVel := graph.Add(graph.MulScalar(vel, o.momentum), step)
		delta := newVel
		if o.nesterov {
			delta = graph.Add(graph.MulScalar(newVel, o.momentum), step)
		}
		return []graph.Op{
			graph.Assign(vel, newVel),
			graph.Assign(v, graph.Add(v, delta)),
		}
	})
}

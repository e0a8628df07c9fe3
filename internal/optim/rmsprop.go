package optim

import (
	"github.com/born-ml/axgraph/internal/graph"
)

// RMSProp scales each step by a running average of squared gradients.
//
// Update rule:
//
//	state = decay * state + (1 - decay) * gradient²
//	param = param - lr * gradient / (sqrt(state + eps) + eps)
type RMSProp struct {
	base
	decay   float32
	epsilon float32
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	Config
	Decay   float32 // Running-average decay (default: 0.95)
	Epsilon float32 // Term for numerical stability (default: 1e-6)
}

// NewRMSProp creates the optimizer. LR defaults to 2e-3.
func NewRMSProp(cfg RMSPropConfig) *RMSProp {
	if cfg.Decay == 0 {
		cfg.Decay = 0.95
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-6
	}
	return &RMSProp{
		base:    newBase(cfg.Config, 2e-3),
		decay:   cfg.Decay,
		epsilon: cfg.Epsilon,
	}
}

// Minimize implements Optimizer.
func (o *RMSProp) Minimize(cost graph.Op) (graph.Op, error) {
	return o.minimize(cost, func(v *graph.VariableOp, grad, lr, _ graph.Op) []graph.Op {
		s := state(v, "rms")
		newS := graph.Add(graph.MulScalar(s, o.decay), graph.MulScalar(graph.Square(grad), 1-o.decay))
		denom := graph.AddScalar(graph.Sqrt(graph.AddScalar(newS, o.epsilon)), o.epsilon)
		step := graph.Divide(graph.Multiply(lr, grad), denom)
		return []graph.Op{
			graph.Assign(s, newS),
			graph.Assign(v, graph.Subtract(v, step)),
		}
	})
}

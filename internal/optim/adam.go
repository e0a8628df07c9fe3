package optim

import (
	"github.com/born-ml/axgraph/internal/graph"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule, with t counting from 1:
//
//	m = beta1 * m + (1-beta1) * gradient
//	v = beta2 * v + (1-beta2) * gradient²
//	param = param - lr * sqrt(1-beta2^t) / (1-beta1^t) * m / (sqrt(v) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	base
	beta1, beta2 float32
	eps          float32
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	Config
	Beta1   float32 // default: 0.9
	Beta2   float32 // default: 0.999
	Epsilon float32 // default: 1e-8
}

// NewAdam creates the optimizer. LR defaults to 1e-3.
func NewAdam(cfg AdamConfig) *Adam {
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}
	return &Adam{
		base:  newBase(cfg.Config, 1e-3),
		beta1: cfg.Beta1,
		beta2: cfg.Beta2,
		eps:   cfg.Epsilon,
	}
}

// Minimize implements Optimizer.
func (o *Adam) Minimize(cost graph.Op) (graph.Op, error) {
	return o.minimize(cost, func(v *graph.VariableOp, grad, lr, iter graph.Op) []graph.Op {
		t := graph.AddScalar(iter, 1)
		correction := graph.Divide(
			graph.Sqrt(graph.Subtract(graph.Constant(1), graph.Power(graph.Constant(o.beta2), t))),
			graph.Subtract(graph.Constant(1), graph.Power(graph.Constant(o.beta1), t)),
		)

		m, s := state(v, "m"), state(v, "v")
		newM := graph.Add(graph.MulScalar(m, o.beta1), graph.MulScalar(grad, 1-o.beta1))
		newS := graph.Add(graph.MulScalar(s, o.beta2), graph.MulScalar(graph.Square(grad), 1-o.beta2))
		step := graph.Multiply(graph.Multiply(lr, correction),
			graph.Divide(newM, graph.AddScalar(graph.Sqrt(newS), o.eps)))
		return []graph.Op{
			graph.Assign(m, newM),
			graph.Assign(s, newS),
			graph.Assign(v, graph.Subtract(v, step)),
		}
	})
}

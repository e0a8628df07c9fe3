package layers

import (
	"github.com/born-ml/axgraph/internal/graph"
)

// Activation is applied elementwise, or over the feature axes for Softmax.
type Activation func(x graph.Op) graph.Op

// Identity returns x.
func Identity(x graph.Op) graph.Op { return x }

// Tanh is the hyperbolic tangent.
func Tanh(x graph.Op) graph.Op { return graph.Tanh(x) }

// Rectlin is max(x, 0).
func Rectlin(x graph.Op) graph.Op { return graph.Relu(x) }

// Logistic is 1 / (1 + exp(-x)).
func Logistic(x graph.Op) graph.Op { return graph.Sigmoid(x) }

// Softmax normalises over the feature axes, leaving batch and time alone.
func Softmax(x graph.Op) graph.Op {
	return graph.Softmax(x, graph.ReductionAxes(featureAxes(x.Axes())))
}

func apply(act Activation, x graph.Op) graph.Op {
	if act == nil {
		return x
	}
	return act(x)
}

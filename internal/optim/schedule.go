package optim

import (
	"github.com/born-ml/axgraph/internal/graph"
)

// Schedule derives the learning rate from the iteration counter.
type Schedule interface {
	Rate(iteration graph.Op) graph.Op
}

// Fixed is a constant learning rate.
type Fixed float32

// Rate implements Schedule.
func (f Fixed) Rate(graph.Op) graph.Op { return graph.Constant(float32(f)) }

// StepSchedule multiplies Base by Change once the iteration reaches each of Steps.
type StepSchedule struct {
	Base   float32
	Steps  []int
	Change float32
}

// Rate implements Schedule.
func (s StepSchedule) Rate(iteration graph.Op) graph.Op {
	rate := graph.Constant(s.Base)
	for _, step := range s.Steps {
		// 1 before the step, Change from it on.
		reached := graph.Greater(iteration, graph.Constant(float32(step)-0.5))
		factor := graph.AddScalar(graph.MulScalar(reached, s.Change-1), 1)
		rate = graph.Multiply(rate, factor)
	}
	return rate
}

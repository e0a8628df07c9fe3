package transformer

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/tensor"
)

// Computation is a bound subset of a graph: result ops plus the
// placeholders whose values each call supplies. It owns no data.
type Computation struct {
	t       *Transformer
	results []graph.Op
	params  []graph.Op
	plan    *plan
}

// Results returns the result ops.
func (c *Computation) Results() []graph.Op { return append([]graph.Op(nil), c.results...) }

// Params returns the parameter placeholders.
func (c *Computation) Params() []graph.Op { return append([]graph.Op(nil), c.params...) }

// Compiled reports whether the computation has been compiled.
func (c *Computation) Compiled() bool {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	return c.plan != nil
}

// Call runs the computation with one input per parameter and returns one
// value per result. Side-effect results come back empty. Variable reads
// observe the values held when the call started; assignments become
// visible to later calls.
func (c *Computation) Call(ctx context.Context, inputs ...Value) ([]Value, error) {
	if len(inputs) != len(c.params) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputCount, len(inputs), len(c.params))
	}
	bound := make([]*tensor.RawTensor, len(inputs))
	for i, in := range inputs {
		raw, err := c.t.bind(i, c.params[i], in)
		if err != nil {
			return nil, err
		}
		bound[i] = raw
	}

	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	if c.t.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := kernels{b: c.t.backend}
	if c.plan == nil {
		startedAt := time.Now()
		p, err := compile(ctx, k, c.results, c.params, c.t.cfg.Passes)
		if err != nil {
			return nil, err
		}
		c.plan = p
		klog.FromContext(ctx).V(1).Info("compiled computation", "steps", len(p.steps), "variables", len(p.vars), "duration", time.Since(startedAt))
	}

	snapshot := make(map[int64]*tensor.RawTensor, len(c.plan.vars))
	for _, v := range c.plan.vars {
		snapshot[v.ID()] = c.t.ensureVariable(v)
	}

	env, assigned, err := c.execute(ctx, k, bound, snapshot)
	if err != nil {
		return nil, err
	}
	for id, raw := range assigned {
		c.t.vars[id] = raw
	}

	out := make([]Value, len(c.results))
	for i, r := range c.plan.results {
		raw := env[r]
		if raw == nil {
			continue
		}
		out[i] = Value{axes: c.plan.steps[r].op.Axes(), data: append([]float32(nil), raw.Data()...)}
	}
	return out, nil
}

// execute walks the plan and returns the step values and the variable
// assignments to commit. Callers hold t.mu.
func (c *Computation) execute(ctx context.Context, k kernels, inputs []*tensor.RawTensor,
	snapshot map[int64]*tensor.RawTensor,
) (env []*tensor.RawTensor, assigned map[int64]*tensor.RawTensor, err error) {
	p := c.plan
	var current graph.Op
	defer func() {
		if r := recover(); r != nil {
			env, assigned, err = nil, nil, &KernelError{Op: current.String(), Err: fmt.Errorf("%v", r)}
		}
	}()

	paramOf := make(map[int]int, len(p.params))
	for i, s := range p.params {
		if s >= 0 {
			paramOf[s] = i
		}
	}

	env = make([]*tensor.RawTensor, len(p.steps))
	assigned = make(map[int64]*tensor.RawTensor)
	argAxes := make([]axes.Axes, 0, 4)
	args := make([]*tensor.RawTensor, 0, 4)
	for i, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		current = s.op

		switch op := s.op.(type) {
		case *graph.PlaceholderOp:
			env[i] = inputs[paramOf[i]]
		case *graph.VariableOp:
			env[i] = snapshot[op.ID()]
		case *graph.AssignOp:
			assigned[op.Variable().ID()] = env[s.args[1]]
		case *graph.DoAllOp:
		default:
			if s.value != nil {
				env[i] = s.value
				break
			}
			argAxes, args = argAxes[:0], args[:0]
			for _, a := range s.args {
				argAxes = append(argAxes, p.steps[a].op.Axes())
				args = append(args, env[a])
			}
			env[i] = k.run(s.op, argAxes, args)
		}

		for _, a := range s.free {
			env[a] = nil
		}
	}
	return env, assigned, nil
}

// NamedComputation is a computation whose results are addressed by name.
type NamedComputation struct {
	c     *Computation
	names []string
}

// Computation returns the underlying computation.
func (n *NamedComputation) Computation() *Computation { return n.c }

// Call runs the computation and returns the results keyed by name.
func (n *NamedComputation) Call(ctx context.Context, inputs ...Value) (map[string]Value, error) {
	vals, err := n.c.Call(ctx, inputs...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(vals))
	for i, name := range n.names {
		out[name] = vals[i]
	}
	return out, nil
}

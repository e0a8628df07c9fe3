package transformer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/tensor"
)

// step is one op of a plan. args index earlier steps.
type step struct {
	op    graph.Op
	args  []int
	value *tensor.RawTensor // constants and folded ops
	free  []int             // steps whose tensors die after this one
}

// plan is a computation lowered to an ordered list of steps.
type plan struct {
	steps   []*step
	results []int
	params  []int // step per parameter; -1 when the parameter is unused
	vars    []*graph.VariableOp
}

// compile orders the graph under results, checks its inputs and runs the
// configured passes.
func compile(ctx context.Context, k kernels, results, params []graph.Op, passes []string) (*plan, error) {
	log := klog.FromContext(ctx)

	p, err := build(results, params)
	if err != nil {
		return nil, err
	}
	log.V(2).Info("built plan", "steps", len(p.steps), "results", len(results), "params", len(params))

	for _, pass := range passes {
		before := len(p.steps)
		switch pass {
		case PassCSE:
			p.cse()
		case PassConstFold:
			if err := p.constFold(k); err != nil {
				return nil, err
			}
		case PassLiveness:
			p.liveness()
		}
		log.V(2).Info("ran pass", "pass", pass, "stepsBefore", before, "stepsAfter", len(p.steps))
	}

	for _, s := range p.steps {
		if v, ok := s.op.(*graph.VariableOp); ok {
			p.vars = append(p.vars, v)
		}
	}
	return p, nil
}

func build(results, params []graph.Op) (*plan, error) {
	order := graph.Topological(results...)
	index := make(map[int64]int, len(order))
	p := &plan{steps: make([]*step, len(order))}
	for i, op := range order {
		index[op.ID()] = i
		s := &step{op: op}
		for _, arg := range op.Args() {
			s.args = append(s.args, index[arg.ID()])
		}
		if c, ok := op.(*graph.ConstantOp); ok {
			s.value = leafTensor(c)
		}
		p.steps[i] = s
	}

	for _, r := range results {
		p.results = append(p.results, index[r.ID()])
	}

	bound := make(map[int64]bool, len(params))
	for i, param := range params {
		if _, ok := param.(*graph.PlaceholderOp); !ok {
			return nil, fmt.Errorf("%w: parameter %d is %s", ErrNotParameter, i, param)
		}
		bound[param.ID()] = true
		if j, ok := index[param.ID()]; ok {
			p.params = append(p.params, j)
		} else {
			p.params = append(p.params, -1)
		}
	}
	for _, op := range order {
		if _, ok := op.(*graph.PlaceholderOp); ok && !bound[op.ID()] {
			return nil, fmt.Errorf("%w: %s", ErrUnboundPlaceholder, op)
		}
	}
	return p, nil
}

// mergeable reports whether two ops with equal keys may share one step.
func mergeable(op graph.Op) bool {
	switch op.(type) {
	case *graph.PlaceholderOp, *graph.VariableOp:
		return false
	}
	return !graph.IsSideEffect(op)
}

func (p *plan) key(s *step) string {
	var b strings.Builder
	b.WriteString(string(s.op.Kind()))
	b.WriteByte('|')
	b.WriteString(s.op.Axes().Names())
	b.WriteByte('|')
	b.WriteString(s.op.Attrs())
	for _, a := range s.args {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// cse merges steps that compute the same value from the same args.
func (p *plan) cse() {
	canon := make(map[string]int)
	remap := make([]int, len(p.steps))
	for i, s := range p.steps {
		remap[i] = i
		for j, a := range s.args {
			s.args[j] = remap[a]
		}
		folded := s.value != nil && s.op.Kind() != graph.KindConstant
		if !mergeable(s.op) || folded {
			continue
		}
		key := p.key(s)
		if first, ok := canon[key]; ok {
			remap[i] = first
			continue
		}
		canon[key] = i
	}
	for i, r := range p.results {
		p.results[i] = remap[r]
	}
	p.prune()
}

// constFold evaluates at compile time every op whose args are all constant.
func (p *plan) constFold(k kernels) (err error) {
	var current graph.Op
	defer func() {
		if r := recover(); r != nil {
			err = &KernelError{Op: current.String(), Err: fmt.Errorf("%v", r)}
		}
	}()
	for _, s := range p.steps {
		if s.value != nil || len(s.args) == 0 || !mergeable(s.op) {
			continue
		}
		argAxes := make([]axes.Axes, len(s.args))
		args := make([]*tensor.RawTensor, len(s.args))
		constant := true
		for j, a := range s.args {
			if p.steps[a].value == nil {
				constant = false
				break
			}
			argAxes[j] = p.steps[a].op.Axes()
			args[j] = p.steps[a].value
		}
		if !constant {
			continue
		}
		current = s.op
		s.value = k.run(s.op, argAxes, args)
		s.args = nil
	}
	p.prune()
	return nil
}

// prune drops steps no result depends on and renumbers the rest.
func (p *plan) prune() {
	live := make([]bool, len(p.steps))
	for _, r := range p.results {
		live[r] = true
	}
	for _, j := range p.params {
		if j >= 0 {
			live[j] = true
		}
	}
	for i := len(p.steps) - 1; i >= 0; i-- {
		if !live[i] {
			continue
		}
		for _, a := range p.steps[i].args {
			live[a] = true
		}
	}

	renum := make([]int, len(p.steps))
	kept := p.steps[:0]
	for i, s := range p.steps {
		if !live[i] {
			renum[i] = -1
			continue
		}
		renum[i] = len(kept)
		for j, a := range s.args {
			s.args[j] = renum[a]
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(p.steps); i++ {
		p.steps[i] = nil
	}
	p.steps = kept
	for i, r := range p.results {
		p.results[i] = renum[r]
	}
	for i, j := range p.params {
		if j >= 0 {
			p.params[i] = renum[j]
		}
	}
}

// liveness records after which step each intermediate can be released.
func (p *plan) liveness() {
	last := make([]int, len(p.steps))
	for i := range last {
		last[i] = -1
	}
	for i, s := range p.steps {
		s.free = nil
		for _, a := range s.args {
			last[a] = i
		}
	}
	for _, r := range p.results {
		last[r] = -1
	}
	for a, i := range last {
		if i >= 0 {
			p.steps[i].free = append(p.steps[i].free, a)
		}
	}
}

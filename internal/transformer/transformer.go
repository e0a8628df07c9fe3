// Package transformer compiles graphs into executable computations.
//
// A Transformer owns a backend, the values of every variable its
// computations touch, and a cache of computations. A Computation is
// compiled on its first Call and reused for every later call.
//
// Example:
//
//	t, _ := transformer.Make(transformer.Config{})
//	defer t.Close()
//	x := graph.Placeholder(axes.Axes{})
//	comp, _ := t.Computation([]graph.Op{graph.AddScalar(x, 1.5)}, x)
//	out, _ := comp.Call(ctx, transformer.Scalar(2)) // 3.5
package transformer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/tensor"
)

// Transformer compiles and runs computations on one backend.
type Transformer struct {
	cfg     Config
	backend tensor.Backend

	// mu serialises calls: they share variable storage.
	mu     sync.Mutex
	comps  map[string]*Computation
	vars   map[int64]*tensor.RawTensor
	varOps map[int64]*graph.VariableOp
	closed bool
}

// Make creates a transformer for cfg.
func Make(cfg Config) (*Transformer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	factory, err := lookup(cfg.Backend)
	if err != nil {
		return nil, err
	}
	backend, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("transformer: creating %s backend: %w", cfg.Backend, err)
	}
	klog.V(1).Infof("transformer: using backend %s", backend.Name())
	return &Transformer{
		cfg:     cfg,
		backend: backend,
		comps:   make(map[string]*Computation),
		vars:    make(map[int64]*tensor.RawTensor),
		varOps:  make(map[int64]*graph.VariableOp),
	}, nil
}

// Backend returns the backend kernels run on.
func (t *Transformer) Backend() tensor.Backend { return t.backend }

// Config returns the effective configuration.
func (t *Transformer) Config() Config { return t.cfg }

func computationKey(results, params []graph.Op) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(strconv.FormatInt(r.ID(), 10))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, p := range params {
		b.WriteString(strconv.FormatInt(p.ID(), 10))
		b.WriteByte(',')
	}
	return b.String()
}

// Computation binds results to the placeholders params. Asking twice for
// the same results and params returns the same Computation.
func (t *Transformer) Computation(results []graph.Op, params ...graph.Op) (*Computation, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("transformer: computation without results")
	}
	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("transformer: result %d is nil", i)
		}
	}
	for i, p := range params {
		if _, ok := p.(*graph.PlaceholderOp); !ok {
			return nil, fmt.Errorf("%w: parameter %d is %v", ErrNotParameter, i, p)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}
	key := computationKey(results, params)
	if c, ok := t.comps[key]; ok {
		return c, nil
	}
	c := &Computation{
		t:       t,
		results: append([]graph.Op(nil), results...),
		params:  append([]graph.Op(nil), params...),
	}
	t.comps[key] = c
	return c, nil
}

// NamedComputation binds results by name.
func (t *Transformer) NamedComputation(results map[string]graph.Op, params ...graph.Op) (*NamedComputation, error) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	ops := make([]graph.Op, len(names))
	for i, name := range names {
		ops[i] = results[name]
	}
	c, err := t.Computation(ops, params...)
	if err != nil {
		return nil, err
	}
	return &NamedComputation{c: c, names: names}, nil
}

// VariableValue returns the current value of v, initialising it if needed.
func (t *Transformer) VariableValue(v graph.Op) (Value, error) {
	vop, ok := v.(*graph.VariableOp)
	if !ok {
		return Value{}, fmt.Errorf("%w: %v", graph.ErrNotVariable, v)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Value{}, ErrClosed
	}
	raw := t.ensureVariable(vop)
	return Value{axes: vop.Axes(), data: append([]float32(nil), raw.Data()...)}, nil
}

// SetVariable replaces the value of v. val must fit v's axes the way a
// Call input fits its placeholder.
func (t *Transformer) SetVariable(v graph.Op, val Value) error {
	vop, ok := v.(*graph.VariableOp)
	if !ok {
		return fmt.Errorf("%w: %v", graph.ErrNotVariable, v)
	}
	raw, err := t.bind(0, vop, val)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.varOps[vop.ID()] = vop
	t.vars[vop.ID()] = raw
	return nil
}

// Variables returns every variable the transformer holds a value for.
func (t *Transformer) Variables() []*graph.VariableOp {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*graph.VariableOp, 0, len(t.varOps))
	for _, v := range t.varOps {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Initialize resets every known variable to its initial value.
func (t *Transformer) Initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	for id, v := range t.varOps {
		t.vars[id] = initialTensor(v)
	}
	return nil
}

// releaser is implemented by backends holding device resources.
type releaser interface{ Release() }

// Close drops the variables and compiled computations and releases the
// backend. Calling Close again is a no-op.
func (t *Transformer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.comps = nil
	t.vars = nil
	t.varOps = nil
	if r, ok := t.backend.(releaser); ok {
		klog.V(1).Infof("transformer: releasing backend %s", t.backend.Name())
		r.Release()
	}
	return nil
}

// ensureVariable returns the stored value of v. Callers hold t.mu.
func (t *Transformer) ensureVariable(v *graph.VariableOp) *tensor.RawTensor {
	if raw, ok := t.vars[v.ID()]; ok {
		return raw
	}
	raw := initialTensor(v)
	t.vars[v.ID()] = raw
	t.varOps[v.ID()] = v
	return raw
}

func initialTensor(v *graph.VariableOp) *tensor.RawTensor {
	raw, err := tensor.FromSlice(v.InitialValue(), shapeOf(v.Axes()))
	if err != nil {
		panic(err)
	}
	return raw
}

// bind converts val into a tensor laid out in op's axes.
func (t *Transformer) bind(index int, op graph.Op, val Value) (*tensor.RawTensor, error) {
	want := op.Axes()
	inErr := &InputError{Index: index, Param: op.Name(), Want: want, Got: val.axes, Size: val.Len()}

	if val.axes.IsScalar() {
		if val.Len() != want.Size() {
			return nil, inErr
		}
		return tensor.FromSlice(val.data, shapeOf(want))
	}

	perm, err := val.axes.Permutation(want)
	if err != nil {
		return nil, inErr
	}
	for i, p := range perm {
		if val.axes.At(p).Length() != want.At(i).Length() {
			return nil, inErr
		}
	}
	raw, err := tensor.FromSlice(val.data, shapeOf(val.axes))
	if err != nil {
		return nil, err
	}
	return t.backend.Transpose(raw, perm...), nil
}

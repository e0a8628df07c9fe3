package graph

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/internal/axes"
)

var (
	axC = axes.NewAxis(3, "C")
	axH = axes.NewAxis(4, "H")
	axN = axes.NewAxis(2, "N").AsBatch()
)

func TestBinary_BroadcastAxes(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC, axN))
	y := Placeholder(axes.MustAxes(axH, axC))

	z := Add(x, y)
	assert.True(t, z.Axes().Equal(axes.MustAxes(axC, axN, axH)))
	assert.Equal(t, KindAdd, z.Kind())

	s := AddScalar(x, 1.5)
	assert.True(t, s.Axes().Equal(x.Axes()))
}

func TestBinary_IncompatibleLengths(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC))
	y := Placeholder(axes.MustAxes(axC.WithLength(5)))

	_, err := Try(func() Op { return Add(x, y) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, axes.ErrIncompatibleAxes))

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindAdd, opErr.Kind)
}

func TestTry_PropagatesForeignPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = Try(func() Op { panic("boom") })
	})
}

func TestLeaf_UnsetLength(t *testing.T) {
	_, err := Try(func() Op { return Placeholder(axes.MustAxes(axes.NewAxis(0, "T"))) })
	assert.ErrorIs(t, err, ErrUnsetLength)
}

func TestConstantTensor_Size(t *testing.T) {
	c := ConstantTensor([]float32{1, 2, 3}, axes.MustAxes(axC)).(*ConstantOp)
	assert.False(t, c.IsFill())
	assert.Equal(t, []float32{1, 2, 3}, c.Values())

	_, err := Try(func() Op { return ConstantTensor([]float32{1}, axes.MustAxes(axC)) })
	assert.ErrorIs(t, err, ErrArgument)

	f := Full(2, axes.MustAxes(axH)).(*ConstantOp)
	assert.True(t, f.IsFill())
	assert.Equal(t, []float32{2, 2, 2, 2}, f.Values())
}

func TestVariable_Options(t *testing.T) {
	v := Variable(axes.MustAxes(axC), InitFunc(func(data []float32, _ axes.Axes) {
		for i := range data {
			data[i] = float32(i)
		}
	}), WithName("w"), NonTrainable()).(*VariableOp)

	assert.Equal(t, "w", v.Name())
	assert.False(t, v.Trainable())
	assert.Equal(t, []float32{0, 1, 2}, v.InitialValue())
}

func TestAnnotations(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC))
	assert.Equal(t, "Placeholder_"+itoa(x.ID()), x.Name())

	same := x.Named("x").Tag("role", "input")
	assert.Same(t, x, same)
	assert.Equal(t, "x", x.Name())
	assert.Equal(t, "input", x.Tags()["role"])

	tags := x.Tags()
	tags["role"] = "changed"
	assert.Equal(t, "input", x.Tags()["role"])
}

func TestDot_DualAxes(t *testing.T) {
	w := Variable(axes.MustAxes(axH, axC.Sub(1)), nil)
	x := Placeholder(axes.MustAxes(axC, axN))

	y := Dot(w, x)
	assert.True(t, y.Axes().Equal(axes.MustAxes(axH, axN)))

	xr, yr := y.(*DotOp).Reduced()
	assert.True(t, xr.Equal(axes.MustAxes(axC.Sub(1))))
	assert.True(t, yr.Equal(axes.MustAxes(axC)))
}

func TestDot_SharedAxes(t *testing.T) {
	x := Placeholder(axes.MustAxes(axN, axC))
	y := Placeholder(axes.MustAxes(axC, axH))

	z := Dot(x, y)
	assert.True(t, z.Axes().Equal(axes.MustAxes(axN, axH)))
}

func TestDot_LengthMismatch(t *testing.T) {
	w := Placeholder(axes.MustAxes(axC.Sub(1).WithLength(7)))
	x := Placeholder(axes.MustAxes(axC))

	_, err := Try(func() Op { return Dot(w, x) })
	assert.ErrorIs(t, err, ErrLengthAxis)
}

func TestDot_AdjointAxes(t *testing.T) {
	w := Variable(axes.MustAxes(axH, axC.Sub(1)), nil)
	x := Placeholder(axes.MustAxes(axN, axC))
	y := Dot(w, x)

	adj := y.Adjoints(Full(1, y.Axes()))
	require.Len(t, adj, 2)
	assert.True(t, adj[0].Axes().SetEqual(w.Axes()), adj[0].Axes().String())
	assert.True(t, adj[1].Axes().SetEqual(x.Axes()), adj[1].Axes().String())
}

func TestReduce_Defaults(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC, axN, axH))

	s := Sum(x)
	assert.True(t, s.Axes().Equal(axes.MustAxes(axN)), "sample axes are reduced")

	m := Mean(x, ReductionAxes(axes.MustAxes(axH)))
	assert.True(t, m.Axes().Equal(axes.MustAxes(axC, axN)))

	o := Max(x, OutAxes(axes.MustAxes(axH, axC)))
	assert.True(t, o.Axes().Equal(axes.MustAxes(axH, axC)))

	all := Sum(x, OutAxes(axes.Axes{}))
	assert.True(t, all.Axes().IsScalar())
}

func TestReduce_UnknownAxis(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC))
	_, err := Try(func() Op { return Sum(x, ReductionAxes(axes.MustAxes(axH))) })
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestReduceTo(t *testing.T) {
	d := Placeholder(axes.MustAxes(axC, axN, axH))

	r := ReduceTo(d, axes.MustAxes(axH, axC))
	assert.True(t, r.Axes().Equal(axes.MustAxes(axH, axC)))

	b := ReduceTo(Placeholder(axes.MustAxes(axC)), axes.MustAxes(axN, axC))
	assert.True(t, b.Axes().Equal(axes.MustAxes(axN, axC)))
	assert.Equal(t, KindBroadcast, b.Kind())

	assert.Same(t, d, ReduceTo(d, d.Axes()))
}

func TestAxisManipulation(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC, axH))

	assert.True(t, Transpose(x).Axes().Equal(axes.MustAxes(axH, axC)))
	assert.Same(t, x, ReorderAxes(x, x.Axes()))

	_, err := Try(func() Op { return ReorderAxes(x, axes.MustAxes(axC)) })
	assert.ErrorIs(t, err, axes.ErrNotPermutation)

	e := ExpandDims(x, axN, 1)
	assert.True(t, e.Axes().Equal(axes.MustAxes(axC, axN, axH)))

	k := axes.NewAxis(3, "K")
	c := CastAxes(x, axes.MustAxes(k, axH))
	assert.True(t, c.Axes().Equal(axes.MustAxes(k, axH)))
	_, err = Try(func() Op { return CastAxes(x, axes.MustAxes(axH, axC)) })
	assert.ErrorIs(t, err, ErrLengthAxis)
}

func TestSliceStack(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC, axH))

	s := Slice(x, axH, -1).(*SliceOp)
	assert.Equal(t, 3, s.Index())
	assert.True(t, s.Axes().Equal(axes.MustAxes(axC)))

	_, err := Try(func() Op { return Slice(x, axH, 4) })
	assert.ErrorIs(t, err, ErrIndexOutside)

	a := Placeholder(axes.MustAxes(axC, axN))
	b := Placeholder(axes.MustAxes(axN, axC))
	time := axes.NewAxis(0, "T")
	st := Stack([]Op{a, b}, time, 1)
	assert.True(t, st.Axes().Equal(axes.MustAxes(axC, time.WithLength(2), axN)))
	assert.Equal(t, KindReorder, st.Args()[1].Kind())

	adj := st.Adjoints(Full(1, st.Axes()))
	require.Len(t, adj, 2)
	assert.True(t, adj[0].Axes().Equal(a.Axes()))
}

func TestOneHot(t *testing.T) {
	idx := Placeholder(axes.MustAxes(axN))
	vocab := axes.NewAxis(5, "V")

	oh := OneHot(idx, vocab)
	assert.True(t, oh.Axes().Equal(axes.MustAxes(vocab, axN)))
	assert.Equal(t, []Op{nil}, oh.Adjoints(Full(1, oh.Axes())))
}

func TestAssign(t *testing.T) {
	v := Variable(axes.MustAxes(axC, axH), nil)
	val := Placeholder(axes.MustAxes(axH, axC))

	a := Assign(v, val).(*AssignOp)
	assert.True(t, a.Axes().IsScalar())
	assert.True(t, a.Value().Axes().Equal(v.Axes()))
	assert.Same(t, v, Op(a.Variable()))

	_, err := Try(func() Op { return Assign(val, v) })
	assert.ErrorIs(t, err, ErrNotVariable)

	all := DoAll(a, nil, Assign(v, Constant(0)))
	assert.Len(t, all.Args(), 2)
	assert.True(t, IsSideEffect(all))
}

func TestSoftmaxAxes(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC, axN))
	sm := Softmax(x)
	assert.True(t, sm.Axes().Equal(x.Axes()))

	ce := CrossEntropyMulti(sm, Placeholder(axes.MustAxes(axC, axN)), true)
	assert.True(t, ce.Axes().Equal(axes.MustAxes(axN)))

	assert.True(t, Variance(x).Axes().Equal(axes.MustAxes(axN)))
	assert.True(t, SquaredL2(x, OutAxes(axes.Axes{})).Axes().IsScalar())
}

func TestTopological(t *testing.T) {
	x := Placeholder(axes.MustAxes(axC))
	v := Variable(axes.MustAxes(axC), nil)
	y := Multiply(Add(x, v), Add(x, v))

	order := Topological(y)
	pos := make(map[int64]int)
	for i, op := range order {
		pos[op.ID()] = i
	}
	for _, op := range order {
		for _, arg := range op.Args() {
			assert.Less(t, pos[arg.ID()], pos[op.ID()])
		}
	}
	assert.Equal(t, order, Topological(y), "order is deterministic")
	assert.Equal(t, []*VariableOp{v.(*VariableOp)}, Variables(y))
	assert.Equal(t, []*PlaceholderOp{x.(*PlaceholderOp)}, Placeholders(y))
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

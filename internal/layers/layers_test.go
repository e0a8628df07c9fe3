package layers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/internal/autodiff"
	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/optim"
	"github.com/born-ml/axgraph/internal/transformer"
)

var (
	axF   = axes.NewAxis(3, "F")
	axN   = axes.NewAxis(2, "N").AsBatch()
	axRec = axes.NewAxis(3, "REC").AsRecurrent()
)

// eval runs results with inputs bound to params, in order.
func eval(t *testing.T, results []graph.Op, params []graph.Op, inputs ...[]float32) []transformer.Value {
	t.Helper()
	tr, err := transformer.Make(transformer.Config{})
	require.NoError(t, err)
	defer tr.Close()

	comp, err := tr.Computation(results, params...)
	require.NoError(t, err)
	vals := make([]transformer.Value, len(inputs))
	for i, in := range inputs {
		vals[i] = transformer.Unlabelled(in)
	}
	out, err := comp.Call(context.Background(), vals...)
	require.NoError(t, err)
	return out
}

func TestAffine(t *testing.T) {
	h := axes.NewAxis(2, "H")
	layer := &Affine{Axes: axes.MustAxes(h), Init: ConstantInit{Value: 1}, BiasInit: ConstantInit{Value: 0.5}}
	x := graph.Placeholder(axes.MustAxes(axF, axN))

	y, err := layer.Forward(x)
	require.NoError(t, err)
	assert.True(t, y.Axes().Equal(axes.MustAxes(h, axN)))
	require.Len(t, layer.Parameters(), 2)

	out := eval(t, []graph.Op{y}, []graph.Op{x}, []float32{1, 2, 3, 4, 5, 6})
	// column sums are 9 and 12
	assert.Equal(t, []float32{9.5, 12.5, 9.5, 12.5}, out[0].Data())
}

func TestAffine_ReusesWeights(t *testing.T) {
	layer := &Affine{Size: 4, Init: XavierInit{Seed: 1}}
	a, err := layer.Forward(graph.Placeholder(axes.MustAxes(axF, axN)))
	require.NoError(t, err)
	params := layer.Parameters()
	require.Len(t, params, 1)

	b, err := layer.Forward(graph.Placeholder(axes.MustAxes(axN, axF)))
	require.NoError(t, err)
	assert.Equal(t, params, layer.Parameters())
	assert.True(t, a.Axes().SetEqual(b.Axes()))

	_, err = layer.Forward(graph.Placeholder(axes.MustAxes(axes.NewAxis(5, "G"), axN)))
	assert.ErrorIs(t, err, ErrInputAxes)
}

func TestAffine_Errors(t *testing.T) {
	_, err := (&Affine{Size: 2}).Forward(graph.Placeholder(axes.MustAxes(axN)))
	assert.ErrorIs(t, err, ErrNoFeatureAxes)

	_, err = (&Affine{}).Forward(graph.Placeholder(axes.MustAxes(axF, axN)))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSoftmaxKeepsTime(t *testing.T) {
	y := axes.NewAxis(4, "Y")
	layer := NewAffine(axes.MustAxes(y), UniformInit{Low: -1, High: 1, Seed: 3}, Softmax)
	x := graph.Placeholder(axes.MustAxes(axF, axRec, axN))

	p, err := layer.Forward(x)
	require.NoError(t, err)
	assert.True(t, p.Axes().Equal(axes.MustAxes(y, axRec, axN)))

	total := graph.Sum(p, graph.ReductionAxes(axes.MustAxes(y)))
	in := make([]float32, axF.Length()*axRec.Length()*axN.Length())
	for i := range in {
		in[i] = float32(i) / 10
	}
	out := eval(t, []graph.Op{total}, []graph.Op{x}, in)
	for _, v := range out[0].Data() {
		assert.InDelta(t, 1, v, 1e-5)
	}
}

func TestLookupTable(t *testing.T) {
	table := NewLookupTable(4, 2, graph.InitFunc(func(data []float32, axs axes.Axes) {
		// (E, V-1): W[e, v] = 10v + e
		vocab := axs.At(1).Length()
		for i := range data {
			data[i] = float32(10*(i%vocab) + i/vocab)
		}
	}))
	table.Pad, table.PadIdx = true, 0
	idx := graph.Placeholder(axes.MustAxes(axN))

	emb, err := table.Forward(idx)
	require.NoError(t, err)
	assert.True(t, emb.Axes().Equal(axes.MustAxes(table.EmbedAxis(), axN)))

	out := eval(t, []graph.Op{emb}, []graph.Op{idx}, []float32{3, 0})
	assert.Equal(t, []float32{30, 0, 31, 0}, out[0].Data())

	cost := graph.Sum(emb, graph.OutAxes(axes.Axes{}))
	upd, err := optim.NewGradientDescentMomentum(optim.MomentumConfig{Config: optim.Config{LR: 1}}).Minimize(cost)
	require.NoError(t, err)
	assert.NotNil(t, upd)
}

func TestLookupTable_Frozen(t *testing.T) {
	table := NewLookupTable(4, 2, nil)
	table.Update = false
	_, err := table.Forward(graph.Placeholder(axes.MustAxes(axN)))
	require.NoError(t, err)

	v, ok := table.Parameters()[0].(*graph.VariableOp)
	require.True(t, ok)
	assert.False(t, v.Trainable())

	_, err = NewLookupTable(0, 2, nil).Forward(graph.Placeholder(axes.MustAxes(axN)))
	assert.ErrorIs(t, err, ErrConfig)

	_, err = (&LookupTable{VocabSize: 4, EmbedDim: 2, Pad: true, PadIdx: 4}).Forward(graph.Placeholder(axes.MustAxes(axN)))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLookupTable_ZeroValueHasNoPadding(t *testing.T) {
	table := &LookupTable{VocabSize: 3, EmbedDim: 1, Init: ConstantInit{Value: 2}, Update: true}
	idx := graph.Placeholder(axes.MustAxes(axN))
	emb, err := table.Forward(idx)
	require.NoError(t, err)

	out := eval(t, []graph.Op{emb}, []graph.Op{idx}, []float32{0, 2})
	assert.Equal(t, []float32{2, 2}, out[0].Data())
}

// sequenceInput is x over (F=1, REC=3, N=1) holding 1, 2, 3.
func sequenceInput() (graph.Op, []float32) {
	f := axes.NewAxis(1, "F1")
	n := axes.NewAxis(1, "N").AsBatch()
	return graph.Placeholder(axes.MustAxes(f, axRec, n)), []float32{1, 2, 3}
}

func TestRecurrent_CumulativeSum(t *testing.T) {
	for _, tc := range []struct {
		name    string
		reverse bool
		seq     bool
		want    []float32
	}{
		{"forward", false, true, []float32{1, 3, 6}},
		{"reverse", true, true, []float32{6, 5, 3}},
		{"last", false, false, []float32{6}},
		{"reverse last", true, false, []float32{6}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x, data := sequenceInput()
			rnn := NewRecurrent(1, ConstantInit{Value: 1}, Identity)
			rnn.Reverse = tc.reverse
			rnn.ReturnSequence = tc.seq

			h, err := rnn.Forward(x)
			require.NoError(t, err)
			assert.Equal(t, tc.seq, h.Axes().Contains(axRec))
			assert.Len(t, rnn.Parameters(), 3)

			out := eval(t, []graph.Op{h}, []graph.Op{x}, data)
			assert.Equal(t, tc.want, out[0].Data())
		})
	}
}

func TestRecurrent_Errors(t *testing.T) {
	_, err := NewRecurrent(2, nil, Tanh).Forward(graph.Placeholder(axes.MustAxes(axF, axN)))
	assert.ErrorIs(t, err, ErrNoRecurrentAxis)

	_, err = NewRecurrent(0, nil, Tanh).Forward(graph.Placeholder(axes.MustAxes(axF, axRec, axN)))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRecurrent_GradientMatchesFiniteDifference(t *testing.T) {
	x := graph.Placeholder(axes.MustAxes(axF, axRec, axN))
	rnn := &Recurrent{Size: 2, Init: GaussianInit{Std: 0.5, Seed: 4}, InitInner: GaussianInit{Std: 0.5, Seed: 5}, Activation: Tanh, ReturnSequence: true}
	h, err := rnn.Forward(x)
	require.NoError(t, err)
	cost := graph.Sum(graph.Square(h), graph.OutAxes(axes.Axes{}))

	params := rnn.Parameters()
	grads, err := autodiff.Gradients(cost, params)
	require.NoError(t, err)

	tr, err := transformer.Make(transformer.Config{})
	require.NoError(t, err)
	defer tr.Close()
	results := []graph.Op{cost}
	for _, p := range params {
		results = append(results, grads[p.ID()])
	}
	comp, err := tr.Computation(results, x)
	require.NoError(t, err)

	input := transformer.Unlabelled([]float32{
		0.5, -1, 0.2, 0.7, -0.3, 0.1,
		1, 0.4, -0.6, 0.3, 0.9, -0.2,
		-0.5, 0.8, 0.1, -0.4, 0.6, 0.2,
	})
	run := func() []transformer.Value {
		out, err := comp.Call(context.Background(), input)
		require.NoError(t, err)
		return out
	}

	base := run()
	const eps = 1e-3
	for pi, p := range params {
		val, err := tr.VariableValue(p)
		require.NoError(t, err)
		point := val.Data()
		symbolic := base[pi+1].Data()
		require.Len(t, symbolic, len(point))

		for j := range point {
			shifted := append([]float32(nil), point...)
			shifted[j] = point[j] + eps
			require.NoError(t, tr.SetVariable(p, transformer.Unlabelled(shifted)))
			up := run()[0].Float()
			shifted[j] = point[j] - eps
			require.NoError(t, tr.SetVariable(p, transformer.Unlabelled(shifted)))
			down := run()[0].Float()
			assert.InDelta(t, (up-down)/(2*eps), symbolic[j], 2e-2, "%s element %d", p.Name(), j)
		}
		require.NoError(t, tr.SetVariable(p, transformer.Unlabelled(point)))
	}
}

func TestBiRNN_Minimize(t *testing.T) {
	x, _ := sequenceInput()
	birnn := NewBiRNN(2, GaussianInit{Std: 0.5, Seed: 6}, Tanh, true, false)
	h, err := birnn.Forward(x)
	require.NoError(t, err)

	update, err := optim.NewRMSProp(optim.RMSPropConfig{}).Minimize(graph.Sum(graph.Square(h), graph.OutAxes(axes.Axes{})))
	require.NoError(t, err)
	assert.NotNil(t, update)
}

func TestBiRNN(t *testing.T) {
	x, data := sequenceInput()

	sum := NewBiRNN(1, ConstantInit{Value: 1}, Identity, true, true)
	s, err := sum.Forward(x)
	require.NoError(t, err)
	assert.Len(t, sum.Parameters(), 6)

	stacked := NewBiRNN(1, ConstantInit{Value: 1}, Identity, true, false)
	st, err := stacked.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, stacked.DirectionAxis(), st.Axes().At(0))

	out := eval(t, []graph.Op{s, st}, []graph.Op{x}, data)
	assert.Equal(t, []float32{7, 8, 9}, out[0].Data())
	assert.Equal(t, []float32{1, 3, 6, 6, 5, 3}, out[1].Data())
}

func TestInitializers(t *testing.T) {
	data := make([]float32, 4000)
	w := axes.MustAxes(axes.NewAxis(40, "O"), axes.NewAxis(100, "I").Sub(1))

	UniformInit{Low: -0.5, High: 0.25, Seed: 1}.Fill(data, w)
	for _, v := range data {
		assert.True(t, v >= -0.5 && v < 0.25, "value %v", v)
	}

	GaussianInit{Mean: 2, Std: 0.5, Seed: 1}.Fill(data, w)
	var mean float64
	for _, v := range data {
		mean += float64(v)
	}
	assert.InDelta(t, 2, mean/float64(len(data)), 0.05)

	XavierInit{Seed: 1}.Fill(data, w)
	bound := float32(math.Sqrt(6.0 / 140))
	for _, v := range data {
		assert.True(t, v >= -bound && v <= bound, "value %v", v)
	}

	ConstantInit{Value: 7}.Fill(data, w)
	assert.Equal(t, float32(7), data[123])

	a, b := make([]float32, 8), make([]float32, 8)
	UniformInit{Low: 0, High: 1, Seed: 9}.Fill(a, w)
	UniformInit{Low: 0, High: 1, Seed: 9}.Fill(b, w)
	assert.Equal(t, a, b)
}

func TestSequentialCharModelTrains(t *testing.T) {
	const vocab = 5
	y := axes.NewAxis(vocab, "Y")
	rec := axes.NewAxis(4, "REC").AsRecurrent()
	n := axes.NewAxis(2, "N").AsBatch()

	model := NewSequential(
		Preprocess(func(x graph.Op) graph.Op { return graph.OneHot(x, axes.NewAxis(vocab, "V")) }),
		&Recurrent{Size: 8, Init: GaussianInit{Std: 0.3, Seed: 1}, InitInner: GaussianInit{Std: 0.3, Seed: 2}, Activation: Tanh, ReturnSequence: true},
		&Affine{Axes: axes.MustAxes(y), Init: GaussianInit{Std: 0.3, Seed: 3}, Activation: Softmax, BiasInit: ConstantInit{}},
	)
	inp := graph.Placeholder(axes.MustAxes(rec, n))
	tgt := graph.Placeholder(axes.MustAxes(rec, n))

	out, err := model.Forward(inp)
	require.NoError(t, err)
	assert.Len(t, model.Parameters(), 5)

	loss := graph.CrossEntropyMulti(out, graph.OneHot(tgt, y), true)
	mean := graph.Mean(loss, graph.OutAxes(axes.Axes{}))
	update, err := optim.NewRMSProp(optim.RMSPropConfig{Config: optim.Config{LR: 0.02}}).Minimize(loss)
	require.NoError(t, err)

	tr, err := transformer.Make(transformer.Config{})
	require.NoError(t, err)
	defer tr.Close()
	train, err := tr.Computation([]graph.Op{mean, update}, inp, tgt)
	require.NoError(t, err)

	// each sequence predicts its successor mod vocab
	in := transformer.Unlabelled([]float32{0, 2, 1, 3, 2, 4, 3, 0})
	want := transformer.Unlabelled([]float32{1, 3, 2, 4, 3, 0, 4, 1})
	var first, last float32
	for i := 0; i < 150; i++ {
		res, err := train.Call(context.Background(), in, want)
		require.NoError(t, err)
		if i == 0 {
			first = res[0].Float()
		}
		last = res[0].Float()
	}
	assert.Less(t, last, first/2)
}

package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/internal/axes"
)

func TestCharVocab(t *testing.T) {
	v := NewCharVocab("hello world")
	assert.Equal(t, 8, v.VocabSize())

	ids, err := v.Encode("hold")
	require.NoError(t, err)
	text, err := v.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "hold", text)

	// sorted: ' ' d e h l o r w
	assert.Equal(t, []int32{3, 5, 4, 1}, ids)

	_, err = v.Encode("help")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	_, err = v.Decode([]int32{8})
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestEncodeText(t *testing.T) {
	v := NewCharVocab("abc")
	got, err := EncodeText(v, "cab")
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 0, 1}, got)
}

func TestShiftedText(t *testing.T) {
	arrays := ShiftedText([]int32{5, 6, 7, 8})
	assert.Equal(t, []float32{5, 6, 7}, arrays[InputText])
	assert.Equal(t, []float32{6, 7, 8}, arrays[TargetText])
}

func stream(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i)
	}
	return out
}

func TestSequentialArrayIterator(t *testing.T) {
	scope := axes.NewScope()
	// 25 tokens give 24 pairs: 2 rows of 12, three batches of 4 steps.
	it, err := NewSequentialArrayIterator(ShiftedText(stream(25)), IteratorConfig{BatchSize: 2, TimeSteps: 4}, scope)
	require.NoError(t, err)
	assert.Equal(t, 3, it.BatchesPerPass())
	assert.Equal(t, 2, scope.N().Length())
	assert.Equal(t, 4, scope.REC().Length())
	assert.Equal(t, []string{InputText, TargetText}, it.Names())

	want := [][]float32{
		{0, 1, 2, 3, 12, 13, 14, 15},
		{4, 5, 6, 7, 16, 17, 18, 19},
		{8, 9, 10, 11, 20, 21, 22, 23},
	}
	for i := 0; i < 3; i++ {
		batch, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, want[i], batch[InputText].Data(), "batch %d", i)
		tgt := batch[TargetText].Data()
		for j, v := range want[i] {
			assert.Equal(t, v+1, tgt[j])
		}
		assert.True(t, batch[InputText].Axes().Equal(it.Axes()))
	}
	_, ok := it.Next()
	assert.False(t, ok)

	it.Reset()
	batch, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, want[0], batch[InputText].Data())
}

func TestSequentialArrayIterator_Wraps(t *testing.T) {
	it, err := NewSequentialArrayIterator(ShiftedText(stream(9)), IteratorConfig{
		BatchSize: 1, TimeSteps: 4, TotalIterations: 5,
	}, nil)
	require.NoError(t, err)

	var firsts []float32
	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
		firsts = append(firsts, batch[InputText].Data()[0])
	}
	assert.Equal(t, []float32{0, 4, 0, 4, 0}, firsts)
}

func TestSequentialArrayIterator_Placeholders(t *testing.T) {
	it, err := NewSequentialArrayIterator(ShiftedText(stream(9)), IteratorConfig{BatchSize: 2, TimeSteps: 2}, nil)
	require.NoError(t, err)
	ph := it.MakePlaceholders()
	require.Len(t, ph, 2)
	assert.Equal(t, InputText, ph[InputText].Name())
	assert.True(t, ph[TargetText].Axes().Equal(it.Axes()))
}

func TestSequentialArrayIterator_Errors(t *testing.T) {
	_, err := NewSequentialArrayIterator(ShiftedText(stream(5)), IteratorConfig{BatchSize: 2, TimeSteps: 4}, nil)
	assert.ErrorIs(t, err, ErrShortData)

	_, err = NewSequentialArrayIterator(ShiftedText(stream(5)), IteratorConfig{}, nil)
	assert.Error(t, err)

	_, err = NewSequentialArrayIterator(map[string][]float32{"a": {1, 2}, "b": {1}}, IteratorConfig{BatchSize: 1, TimeSteps: 1}, nil)
	assert.Error(t, err)
}

func TestTikToken(t *testing.T) {
	tok, err := NewTikToken("cl100k_base")
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}
	assert.Equal(t, 100256, tok.VocabSize())
	assert.Equal(t, "cl100k_base", tok.Name())

	ids, err := tok.Encode("hello world")
	require.NoError(t, err)
	assert.NotEmpty(t, ids)
	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
}

package data

import (
	"errors"
	"fmt"
	"sort"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/transformer"
)

// Names of the arrays ShiftedText produces.
const (
	InputText  = "inp_txt"
	TargetText = "tgt_txt"
)

// ErrShortData is returned when the arrays cannot fill a single batch.
var ErrShortData = errors.New("data: not enough data for one batch")

// IteratorConfig sizes the batches of a SequentialArrayIterator.
type IteratorConfig struct {
	BatchSize int
	TimeSteps int
	// TotalIterations is the number of batches Next yields before stopping.
	// Zero means one pass over the data. Larger values wrap around.
	TotalIterations int
}

// Batch maps array names to values over (N, REC).
type Batch map[string]transformer.Value

// ShiftedText returns the input stream and the target stream, which is the
// input advanced by one token.
func ShiftedText(tokens []int32) map[string][]float32 {
	if len(tokens) < 2 {
		return map[string][]float32{InputText: nil, TargetText: nil}
	}
	inp := make([]float32, len(tokens)-1)
	tgt := make([]float32, len(tokens)-1)
	for i := range inp {
		inp[i] = float32(tokens[i])
		tgt[i] = float32(tokens[i+1])
	}
	return map[string][]float32{InputText: inp, TargetText: tgt}
}

// SequentialArrayIterator yields consecutive windows of equally long
// streams. Each stream is cut into BatchSize contiguous rows, so row b of
// batch i+1 continues where row b of batch i ended.
type SequentialArrayIterator struct {
	cfg      IteratorConfig
	names    []string
	rows     map[string][]float32 // truncated to nbatches*BatchSize*TimeSteps
	nbatches int
	n, rec   axes.Axis
	index    int
}

// NewSequentialArrayIterator creates an iterator over arrays. The batch and
// recurrent axis lengths of scope are set to BatchSize and TimeSteps; a nil
// scope gets a fresh one.
func NewSequentialArrayIterator(arrays map[string][]float32, cfg IteratorConfig, scope *axes.Scope) (*SequentialArrayIterator, error) {
	if cfg.BatchSize <= 0 || cfg.TimeSteps <= 0 || cfg.TotalIterations < 0 {
		return nil, fmt.Errorf("data: invalid iterator config %+v", cfg)
	}
	if len(arrays) == 0 {
		return nil, fmt.Errorf("%w: no arrays", ErrShortData)
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	ndata := len(arrays[names[0]])
	for _, name := range names[1:] {
		if len(arrays[name]) != ndata {
			return nil, fmt.Errorf("data: array %q has %d elements, %q has %d",
				name, len(arrays[name]), names[0], ndata)
		}
	}
	window := cfg.BatchSize * cfg.TimeSteps
	nbatches := ndata / window
	if nbatches == 0 {
		return nil, fmt.Errorf("%w: %d elements, batch needs %d", ErrShortData, ndata, window)
	}
	if cfg.TotalIterations == 0 {
		cfg.TotalIterations = nbatches
	}

	rows := make(map[string][]float32, len(names))
	for _, name := range names {
		rows[name] = arrays[name][:nbatches*window]
	}

	if scope == nil {
		scope = axes.NewScope()
	}
	if err := scope.SetLength(axes.BatchName, cfg.BatchSize); err != nil {
		return nil, err
	}
	if err := scope.SetLength(axes.RecurrentName, cfg.TimeSteps); err != nil {
		return nil, err
	}

	return &SequentialArrayIterator{
		cfg:      cfg,
		names:    names,
		rows:     rows,
		nbatches: nbatches,
		n:        scope.N(),
		rec:      scope.REC(),
	}, nil
}

// Axes returns the (N, REC) axes of every batch.
func (it *SequentialArrayIterator) Axes() axes.Axes { return axes.MustAxes(it.n, it.rec) }

// BatchesPerPass returns the number of distinct batches.
func (it *SequentialArrayIterator) BatchesPerPass() int { return it.nbatches }

// Names returns the array names in sorted order.
func (it *SequentialArrayIterator) Names() []string { return append([]string(nil), it.names...) }

// MakePlaceholders returns one placeholder per array, named after it.
func (it *SequentialArrayIterator) MakePlaceholders() map[string]graph.Op {
	out := make(map[string]graph.Op, len(it.names))
	for _, name := range it.names {
		out[name] = graph.Placeholder(it.Axes(), graph.WithName(name))
	}
	return out
}

// Next returns the next batch, or false once TotalIterations batches were yielded.
func (it *SequentialArrayIterator) Next() (Batch, bool) {
	if it.index >= it.cfg.TotalIterations {
		return nil, false
	}
	i := it.index % it.nbatches
	it.index++

	bs, ts := it.cfg.BatchSize, it.cfg.TimeSteps
	rowLen := it.nbatches * ts
	batch := make(Batch, len(it.names))
	for _, name := range it.names {
		src := it.rows[name]
		out := make([]float32, bs*ts)
		for b := 0; b < bs; b++ {
			copy(out[b*ts:(b+1)*ts], src[b*rowLen+i*ts:])
		}
		batch[name] = transformer.MustValue(it.Axes(), out)
	}
	return batch, true
}

// Reset rewinds to the first batch.
func (it *SequentialArrayIterator) Reset() { it.index = 0 }

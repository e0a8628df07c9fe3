package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSymbol is returned when text contains a symbol outside the vocabulary.
var ErrUnknownSymbol = errors.New("data: symbol not in vocabulary")

// Vocab converts between text and token ids.
type Vocab interface {
	// Encode converts text to token ids.
	Encode(text string) ([]int32, error)

	// Decode converts token ids back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the number of distinct ids.
	VocabSize() int
}

// CharVocab assigns one id per distinct character, in sorted order.
type CharVocab struct {
	chars []rune
	index map[rune]int32
}

// NewCharVocab builds the vocabulary of text.
func NewCharVocab(text string) *CharVocab {
	seen := make(map[rune]bool)
	for _, r := range text {
		seen[r] = true
	}
	chars := make([]rune, 0, len(seen))
	for r := range seen {
		chars = append(chars, r)
	}
	slices.Sort(chars)

	index := make(map[rune]int32, len(chars))
	for i, r := range chars {
		index[r] = int32(i) //nolint:gosec // G115: vocabulary is bounded by the rune range.
	}
	return &CharVocab{chars: chars, index: index}
}

// Encode implements Vocab.
func (v *CharVocab) Encode(text string) ([]int32, error) {
	out := make([]int32, 0, len(text))
	for _, r := range text {
		id, ok := v.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, r)
		}
		out = append(out, id)
	}
	return out, nil
}

// Decode implements Vocab.
func (v *CharVocab) Decode(tokens []int32) (string, error) {
	var sb strings.Builder
	for _, id := range tokens {
		if id < 0 || int(id) >= len(v.chars) {
			return "", fmt.Errorf("%w: id %d", ErrUnknownSymbol, id)
		}
		sb.WriteRune(v.chars[id])
	}
	return sb.String(), nil
}

// VocabSize implements Vocab.
func (v *CharVocab) VocabSize() int { return len(v.chars) }

// EncodeText encodes text with v and returns the ids as float values, the
// representation placeholders are fed with.
func EncodeText(v Vocab, text string) ([]float32, error) {
	ids, err := v.Encode(text)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(ids))
	for i, id := range ids {
		out[i] = float32(id)
	}
	return out, nil
}

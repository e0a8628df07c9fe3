package data

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	encodingCL100kBase = "cl100k_base"
	encodingP50kBase   = "p50k_base"
	encodingR50kBase   = "r50k_base"
)

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI BPE encodings.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002
//
// Loading an encoding fetches its ranks file unless it is already cached
// (see TIKTOKEN_CACHE_DIR).
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken loads the named encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return &TikToken{encoding: encoding, name: encodingName}, nil
}

// NewTikTokenForModel loads the encoding a model uses, e.g. "gpt-4".
func NewTikTokenForModel(modelName string) (*TikToken, error) {
	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}
	return &TikToken{encoding: encoding, name: modelName}, nil
}

// Encode implements Vocab. Special tokens are encoded as plain text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)
	out := make([]int32, len(tokens))
	for i, tok := range tokens {
		out[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return out, nil
}

// Decode implements Vocab.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize implements Vocab. tiktoken-go does not expose it, so the known
// sizes of the supported encodings are returned.
func (t *TikToken) VocabSize() int {
	switch t.name {
	case encodingCL100kBase:
		return 100256
	case encodingP50kBase, encodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// Name returns the encoding or model name.
func (t *TikToken) Name() string { return t.name }

var (
	_ Vocab = (*CharVocab)(nil)
	_ Vocab = (*TikToken)(nil)
)

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data turns text into batches for sequence models.
//
// Example:
//
//	vocab := data.NewCharVocab(text)
//	tokens, err := vocab.Encode(text)
//	it, err := data.NewSequentialArrayIterator(data.ShiftedText(tokens),
//	    data.IteratorConfig{BatchSize: 32, TimeSteps: 50}, nil)
//	inputs := it.MakePlaceholders()
package data

import (
	"github.com/born-ml/axgraph/axes"
	"github.com/born-ml/axgraph/internal/data"
)

// Types.
type (
	Vocab                   = data.Vocab
	CharVocab               = data.CharVocab
	TikToken                = data.TikToken
	SequentialArrayIterator = data.SequentialArrayIterator
	IteratorConfig          = data.IteratorConfig
	Batch                   = data.Batch
)

// Array names produced by ShiftedText.
const (
	InputText  = data.InputText
	TargetText = data.TargetText
)

// Errors.
var (
	ErrUnknownSymbol = data.ErrUnknownSymbol
	ErrShortData     = data.ErrShortData
)

// NewCharVocab builds a character vocabulary from text.
func NewCharVocab(text string) *CharVocab {
	return data.NewCharVocab(text)
}

// NewTikToken loads an OpenAI BPE encoding such as "cl100k_base".
func NewTikToken(encodingName string) (*TikToken, error) {
	return data.NewTikToken(encodingName)
}

// EncodeText encodes text as float token ids.
func EncodeText(v Vocab, text string) ([]float32, error) {
	return data.EncodeText(v, text)
}

// ShiftedText returns input and target streams, the target advanced by one token.
func ShiftedText(tokens []int32) map[string][]float32 {
	return data.ShiftedText(tokens)
}

// NewSequentialArrayIterator creates an iterator and sets the N and REC lengths of scope.
func NewSequentialArrayIterator(arrays map[string][]float32, cfg IteratorConfig, scope *axes.Scope) (*SequentialArrayIterator, error) {
	return data.NewSequentialArrayIterator(arrays, cfg, scope)
}

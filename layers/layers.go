// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides model building blocks over the op graph.
//
// Layers create their variables on the first Forward, once the input axes
// are known, and reuse them on later calls.
//
// Example:
//
//	model := layers.NewSequential(
//	    layers.NewLookupTable(vocab, 100, layers.UniformInit{Low: -0.1, High: 0.1}),
//	    layers.NewBiRNN(128, layers.XavierInit{}, layers.Tanh, true, true),
//	    layers.NewAffine(axes.MustAxes(y), layers.XavierInit{}, layers.Softmax),
//	)
//	out, err := model.Forward(inputs["inp_txt"])
package layers

import (
	"github.com/born-ml/axgraph/axes"
	"github.com/born-ml/axgraph/graph"
	"github.com/born-ml/axgraph/internal/layers"
)

// Layer is the base interface for all layers.
type Layer = layers.Layer

// Layers.
type (
	Sequential  = layers.Sequential
	Preprocess  = layers.Preprocess
	Affine      = layers.Affine
	LookupTable = layers.LookupTable
	Recurrent   = layers.Recurrent
	BiRNN       = layers.BiRNN
)

// Activation is applied to a layer's output.
type Activation = layers.Activation

// Initializers.
type (
	UniformInit  = layers.UniformInit
	GaussianInit = layers.GaussianInit
	ConstantInit = layers.ConstantInit
	XavierInit   = layers.XavierInit
)

// Errors.
var (
	ErrNoFeatureAxes   = layers.ErrNoFeatureAxes
	ErrNoRecurrentAxis = layers.ErrNoRecurrentAxis
	ErrInputAxes       = layers.ErrInputAxes
	ErrConfig          = layers.ErrConfig
)

// Activations.
func Identity(x graph.Op) graph.Op { return layers.Identity(x) }
func Tanh(x graph.Op) graph.Op     { return layers.Tanh(x) }
func Rectlin(x graph.Op) graph.Op  { return layers.Rectlin(x) }
func Logistic(x graph.Op) graph.Op { return layers.Logistic(x) }
func Softmax(x graph.Op) graph.Op  { return layers.Softmax(x) }

// NewSequential chains layers.
func NewSequential(ls ...Layer) *Sequential {
	return layers.NewSequential(ls...)
}

// NewAffine creates an Affine layer producing the given axes.
func NewAffine(out axes.Axes, init graph.Initializer, act Activation) *Affine {
	return layers.NewAffine(out, init, act)
}

// NewLookupTable creates a trainable embedding table without a padding index.
func NewLookupTable(vocabSize, embedDim int, init graph.Initializer) *LookupTable {
	return layers.NewLookupTable(vocabSize, embedDim, init)
}

// NewRecurrent creates an Elman RNN returning the whole sequence.
func NewRecurrent(size int, init graph.Initializer, act Activation) *Recurrent {
	return layers.NewRecurrent(size, init, act)
}

// NewBiRNN creates a bidirectional RNN.
func NewBiRNN(size int, init graph.Initializer, act Activation, returnSequence, sumOut bool) *BiRNN {
	return layers.NewBiRNN(size, init, act, returnSequence, sumOut)
}

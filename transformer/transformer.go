// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transformer compiles graphs and executes them on a backend.
//
// A Transformer owns variable storage and caches computations. A
// Computation binds result ops to placeholder parameters; it is compiled on
// its first Call and reused afterwards.
//
// Example:
//
//	t, err := transformer.Make(transformer.Config{Backend: "cpu"})
//	x := graph.Placeholder(axes.Axes{})
//	comp, err := t.Computation([]graph.Op{graph.AddScalar(x, 1.5)}, x)
//	out, err := comp.Call(ctx, transformer.Scalar(2)) // 3.5
package transformer

import (
	"github.com/born-ml/axgraph/internal/transformer"
)

// Core types.
type (
	Transformer      = transformer.Transformer
	Computation      = transformer.Computation
	NamedComputation = transformer.NamedComputation
	Config           = transformer.Config
	Value            = transformer.Value
	InputError       = transformer.InputError
	KernelError      = transformer.KernelError
)

// Factory creates a backend for a configuration.
type Factory = transformer.Factory

// Optimisation passes.
const (
	PassCSE       = transformer.PassCSE
	PassConstFold = transformer.PassConstFold
	PassLiveness  = transformer.PassLiveness
)

// Errors.
var (
	ErrUnknownBackend     = transformer.ErrUnknownBackend
	ErrUnknownPass        = transformer.ErrUnknownPass
	ErrUnboundPlaceholder = transformer.ErrUnboundPlaceholder
	ErrNotParameter       = transformer.ErrNotParameter
	ErrInputCount         = transformer.ErrInputCount
	ErrInputShape         = transformer.ErrInputShape
	ErrClosed             = transformer.ErrClosed
)

// Make creates a transformer for cfg.Backend ("cpu" when empty).
func Make(cfg Config) (*Transformer, error) {
	return transformer.Make(cfg)
}

// Register makes a backend available by name. It panics on a duplicate name.
func Register(name string, f Factory) {
	transformer.Register(name, f)
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	return transformer.Backends()
}

// NewValue wraps data laid out in axs.
var NewValue = transformer.NewValue

// MustValue is like NewValue but panics on a size mismatch.
var MustValue = transformer.MustValue

// Scalar returns a single-element value.
func Scalar(v float32) Value {
	return transformer.Scalar(v)
}

// Unlabelled returns a value bound to a parameter by size, in the parameter's axes order.
func Unlabelled(data []float32) Value {
	return transformer.Unlabelled(data)
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package axes provides named axes, the shape vocabulary of axgraph.
//
// An Axis has a name, a length and a dual level. Two axes are the same axis
// when name and dual level agree. Axes is an ordered set of axes.
//
// Example:
//
//	c := axes.NewAxis(3, "C")
//	n := axes.NewAxis(32, axes.BatchName)
//	xAxes := axes.MustAxes(c, n)
//	wAxes := axes.MustAxes(axes.NewAxis(10, "H"), c.Sub(1)) // contracts with c in Dot
package axes

import (
	"github.com/born-ml/axgraph/internal/axes"
)

// Axis is a named dimension.
type Axis = axes.Axis

// Axes is an ordered set of distinct axes.
type Axes = axes.Axes

// Role is a semantic tag carried by an axis.
type Role = axes.Role

// Scope is a registry of axes shared by the parts of a model.
type Scope = axes.Scope

// Error types.
type (
	IncompatibleAxesError = axes.IncompatibleAxesError
	DuplicateAxisError    = axes.DuplicateAxisError
)

// Names of the predefined batch and recurrent axes.
const (
	BatchName     = axes.BatchName
	RecurrentName = axes.RecurrentName
)

// Predefined roles.
const (
	Time           = axes.Time
	Batch          = axes.Batch
	Recurrent      = axes.Recurrent
	FeaturesInput  = axes.FeaturesInput
	FeaturesOutput = axes.FeaturesOutput
	Channel        = axes.Channel
	Height         = axes.Height
	Width          = axes.Width
	Depth          = axes.Depth
)

// Errors.
var (
	ErrIncompatibleAxes = axes.ErrIncompatibleAxes
	ErrDuplicateAxis    = axes.ErrDuplicateAxis
	ErrAxisNotFound     = axes.ErrAxisNotFound
	ErrNotPermutation   = axes.ErrNotPermutation
)

// NewAxis creates an axis. An empty name generates a unique one.
func NewAxis(length int, name string) Axis {
	return axes.NewAxis(length, name)
}

// NewAxes builds an Axes, rejecting duplicates.
func NewAxes(axs ...Axis) (Axes, error) {
	return axes.NewAxes(axs...)
}

// MustAxes is like NewAxes but panics on duplicates.
func MustAxes(axs ...Axis) Axes {
	return axes.MustAxes(axs...)
}

// NewRole creates a user-defined role.
func NewRole(name string) Role {
	return axes.NewRole(name)
}

// NewScope creates a scope holding the batch axis N and the recurrent axis REC.
func NewScope() *Scope {
	return axes.NewScope()
}

// Broadcast returns the union of a and b, a's axes first.
func Broadcast(a, b Axes) (Axes, error) {
	return axes.Broadcast(a, b)
}

// CheckCompatible verifies that every axis shared by a and b has one length.
func CheckCompatible(a, b Axes) error {
	return axes.CheckCompatible(a, b)
}

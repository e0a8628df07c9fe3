// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim turns a cost into a parameter-update op.
//
// Minimize differentiates the cost with respect to every trainable variable
// it reaches and returns a graph.DoAll of assignments. Run it in the same
// computation as the loss:
//
//	opt := optim.NewRMSProp(optim.RMSPropConfig{Config: optim.Config{GradientClipValue: 5}})
//	updates, err := opt.Minimize(loss)
//	train, err := t.Computation([]graph.Op{meanLoss, updates}, inputs...)
package optim

import (
	"github.com/born-ml/axgraph/internal/optim"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer = optim.Optimizer

// Config holds the settings every optimizer shares.
type Config = optim.Config

// Optimizers and their configurations.
type (
	GradientDescentMomentum = optim.GradientDescentMomentum
	MomentumConfig          = optim.MomentumConfig
	RMSProp                 = optim.RMSProp
	RMSPropConfig           = optim.RMSPropConfig
	Adam                    = optim.Adam
	AdamConfig              = optim.AdamConfig
)

// Learning-rate schedules.
type (
	Schedule     = optim.Schedule
	Fixed        = optim.Fixed
	StepSchedule = optim.StepSchedule
)

// ErrNoTrainable is returned when a cost depends on no trainable variable.
var ErrNoTrainable = optim.ErrNoTrainable

// NewGradientDescentMomentum creates SGD with optional momentum and weight decay.
func NewGradientDescentMomentum(cfg MomentumConfig) *GradientDescentMomentum {
	return optim.NewGradientDescentMomentum(cfg)
}

// NewRMSProp creates an RMSProp optimizer.
func NewRMSProp(cfg RMSPropConfig) *RMSProp {
	return optim.NewRMSProp(cfg)
}

// NewAdam creates an Adam optimizer with bias correction.
func NewAdam(cfg AdamConfig) *Adam {
	return optim.NewAdam(cfg)
}

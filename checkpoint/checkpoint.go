// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint saves and restores transformer variables.
//
// Example:
//
//	store := &checkpoint.GCSStore{Bucket: "my-models", Prefix: "ptb/"}
//	err := checkpoint.Save(ctx, t, store, "step-1000", map[string]string{"step": "1000"})
//	...
//	_, err = checkpoint.Load(ctx, t, store, "step-1000", checkpoint.LoadOptions{}, loss)
package checkpoint

import (
	"context"
	"io"

	"github.com/born-ml/axgraph/graph"
	"github.com/born-ml/axgraph/internal/checkpoint"
	"github.com/born-ml/axgraph/transformer"
)

// Types.
type (
	Store           = checkpoint.Store
	DirStore        = checkpoint.DirStore
	GCSStore        = checkpoint.GCSStore
	Checkpoint      = checkpoint.Checkpoint
	Entry           = checkpoint.Entry
	Header          = checkpoint.Header
	LoadOptions     = checkpoint.LoadOptions
	ValidationError = checkpoint.ValidationError
)

// Errors.
var (
	ErrChecksumMismatch   = checkpoint.ErrChecksumMismatch
	ErrInvalidMagic       = checkpoint.ErrInvalidMagic
	ErrUnsupportedVersion = checkpoint.ErrUnsupportedVersion
	ErrTruncated          = checkpoint.ErrTruncated
	ErrDuplicateName      = checkpoint.ErrDuplicateName
	ErrMissingVariable    = checkpoint.ErrMissingVariable
	ErrNotFound           = checkpoint.ErrNotFound
)

// Save stores the variables reachable from roots, or all of t's variables.
func Save(ctx context.Context, t *transformer.Transformer, store Store, key string, metadata map[string]string, roots ...graph.Op) error {
	return checkpoint.Save(ctx, t, store, key, metadata, roots...)
}

// Load restores the variables reachable from roots, or all of t's variables.
func Load(ctx context.Context, t *transformer.Transformer, store Store, key string, opts LoadOptions, roots ...graph.Op) (*Checkpoint, error) {
	return checkpoint.Load(ctx, t, store, key, opts, roots...)
}

// Encode writes entries in checkpoint format.
func Encode(w io.Writer, entries []Entry, metadata map[string]string) error {
	return checkpoint.Encode(w, entries, metadata)
}

// Decode reads and verifies a checkpoint.
func Decode(r io.Reader) (*Checkpoint, error) {
	return checkpoint.Decode(r)
}

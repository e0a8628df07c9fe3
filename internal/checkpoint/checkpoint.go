package checkpoint

import (
	"bytes"
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/transformer"
)

// variables returns the variables of roots, or every variable t holds when
// roots is empty.
func variables(t *transformer.Transformer, roots []graph.Op) []*graph.VariableOp {
	if len(roots) == 0 {
		return t.Variables()
	}
	return graph.Variables(roots...)
}

// Save writes the current value of every variable reachable from roots to
// store under key. Variables are identified by name, which must be unique.
func Save(ctx context.Context, t *transformer.Transformer, store Store, key string, metadata map[string]string, roots ...graph.Op) error {
	vars := variables(t, roots)
	entries := make([]Entry, 0, len(vars))
	for _, v := range vars {
		val, err := t.VariableValue(v)
		if err != nil {
			return fmt.Errorf("checkpoint: reading %s: %w", v.Name(), err)
		}
		entries = append(entries, Entry{Name: v.Name(), Axes: val.Axes(), Data: val.Data()})
	}

	var buf bytes.Buffer
	if err := Encode(&buf, entries, metadata); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := store.Put(ctx, key, &buf); err != nil {
		return fmt.Errorf("checkpoint: storing %q: %w", key, err)
	}
	klog.FromContext(ctx).V(1).Info("saved checkpoint", "key", key, "variables", len(entries))
	return nil
}

// LoadOptions controls Load.
type LoadOptions struct {
	// AllowMissing keeps the current value of variables absent from the checkpoint.
	AllowMissing bool
}

// Load restores every variable reachable from roots from the checkpoint
// stored under key. Values are matched by variable name and aligned to the
// variable's axes by axis name.
func Load(ctx context.Context, t *transformer.Transformer, store Store, key string, opts LoadOptions, roots ...graph.Op) (*Checkpoint, error) {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: %w", err)
	}
	defer rc.Close()

	ckpt, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %q: %w", key, err)
	}

	restored := 0
	for _, v := range variables(t, roots) {
		e, err := ckpt.Entry(v.Name())
		if err != nil {
			if opts.AllowMissing {
				continue
			}
			return nil, fmt.Errorf("checkpoint %q: %w", key, err)
		}
		val, err := transformer.NewValue(e.Axes, e.Data)
		if err != nil {
			return nil, fmt.Errorf("checkpoint %q: variable %s: %w", key, e.Name, err)
		}
		if err := t.SetVariable(v, val); err != nil {
			return nil, fmt.Errorf("checkpoint %q: variable %s: %w", key, e.Name, err)
		}
		restored++
	}
	klog.FromContext(ctx).V(1).Info("loaded checkpoint", "key", key, "variables", restored)
	return ckpt, nil
}

package axes

import (
	"fmt"
	"sync"
)

// Names of the axes every Scope predefines.
const (
	RecurrentName = "REC"
)

// Scope is a registry of named axes shared by the parts of a model, so a
// layer built early can refer to an axis whose length is only known once
// the dataset is loaded.
type Scope struct {
	mu   sync.RWMutex
	axes map[string]Axis
}

// NewScope creates a scope holding the batch axis N and the recurrent axis REC.
func NewScope() *Scope {
	s := &Scope{axes: make(map[string]Axis)}
	s.axes[BatchName] = NewAxis(0, BatchName).AsBatch().WithRole(Batch)
	s.axes[RecurrentName] = NewAxis(0, RecurrentName).
		AsRecurrent().
		WithRole(Time).
		WithShortName("time")
	return s
}

// Define registers a new axis, replacing any previous definition.
func (s *Scope) Define(name string, length int) Axis {
	s.mu.Lock()
	defer s.mu.Unlock()
	ax := NewAxis(length, name)
	s.axes[name] = ax
	return ax
}

// Put registers an axis built elsewhere.
func (s *Scope) Put(ax Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.axes[ax.Name()] = ax
}

// Get returns the axis registered under name.
func (s *Scope) Get(name string) (Axis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ax, ok := s.axes[name]
	if !ok {
		return Axis{}, fmt.Errorf("%w: %q", ErrAxisNotFound, name)
	}
	return ax, nil
}

// MustGet is like Get but panics on an unknown name.
func (s *Scope) MustGet(name string) Axis {
	ax, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return ax
}

// SetLength updates the length of a registered axis.
func (s *Scope) SetLength(name string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ax, ok := s.axes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAxisNotFound, name)
	}
	s.axes[name] = ax.WithLength(n)
	return nil
}

// N returns the batch axis.
func (s *Scope) N() Axis { return s.MustGet(BatchName) }

// REC returns the recurrent axis.
func (s *Scope) REC() Axis { return s.MustGet(RecurrentName) }

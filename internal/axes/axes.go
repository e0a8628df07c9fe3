package axes

import (
	"fmt"
	"strings"
)

// Axes is an immutable ordered tuple of distinct axes. The zero value is the
// empty tuple, i.e. the axes of a scalar.
type Axes struct {
	list []Axis
}

// NewAxes builds an Axes, rejecting duplicates.
func NewAxes(axs ...Axis) (Axes, error) {
	for i := range axs {
		for j := 0; j < i; j++ {
			if axs[i].Equal(axs[j]) {
				return Axes{}, &DuplicateAxisError{Axis: axs[i]}
			}
		}
	}
	list := make([]Axis, len(axs))
	copy(list, axs)
	return Axes{list: list}, nil
}

// MustAxes is like NewAxes but panics on duplicates.
func MustAxes(axs ...Axis) Axes {
	a, err := NewAxes(axs...)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the number of axes.
func (a Axes) Len() int { return len(a.list) }

// IsScalar reports whether there are no axes.
func (a Axes) IsScalar() bool { return len(a.list) == 0 }

// At returns the i-th axis.
func (a Axes) At(i int) Axis { return a.list[i] }

// Slice returns a copy of the axes as a slice.
func (a Axes) Slice() []Axis {
	out := make([]Axis, len(a.list))
	copy(out, a.list)
	return out
}

// Lengths returns the axis lengths in order.
func (a Axes) Lengths() []int {
	out := make([]int, len(a.list))
	for i, ax := range a.list {
		out[i] = ax.length
	}
	return out
}

// Size returns the number of elements a tensor with these axes holds.
func (a Axes) Size() int {
	n := 1
	for _, ax := range a.list {
		n *= ax.length
	}
	return n
}

// Index returns the position of ax, or -1.
func (a Axes) Index(ax Axis) int {
	for i, b := range a.list {
		if b.Equal(ax) {
			return i
		}
	}
	return -1
}

// Contains reports whether ax is present.
func (a Axes) Contains(ax Axis) bool { return a.Index(ax) >= 0 }

// Find returns the primal axis with the given name.
func (a Axes) Find(name string) (Axis, bool) {
	for _, ax := range a.list {
		if ax.name == name && ax.dual == 0 {
			return ax, true
		}
	}
	return Axis{}, false
}

// FindByShortName returns every axis whose short name matches.
func (a Axes) FindByShortName(name string) Axes {
	return a.filter(func(ax Axis) bool { return ax.ShortName() == name })
}

// FindByRole returns every axis carrying role r.
func (a Axes) FindByRole(r Role) Axes {
	return a.filter(func(ax Axis) bool { return ax.HasRole(r) })
}

// BatchAxes returns the batch axes.
func (a Axes) BatchAxes() Axes {
	return a.filter(Axis.IsBatch)
}

// SampleAxes returns every non-batch axis.
func (a Axes) SampleAxes() Axes {
	return a.filter(func(ax Axis) bool { return !ax.IsBatch() })
}

// RecurrentAxis returns the first recurrent axis, falling back to the first
// axis with the Time role.
func (a Axes) RecurrentAxis() (Axis, bool) {
	for _, ax := range a.list {
		if ax.recurrent {
			return ax, true
		}
	}
	for _, ax := range a.list {
		if ax.HasRole(Time) {
			return ax, true
		}
	}
	return Axis{}, false
}

func (a Axes) filter(keep func(Axis) bool) Axes {
	var out []Axis
	for _, ax := range a.list {
		if keep(ax) {
			out = append(out, ax)
		}
	}
	return Axes{list: out}
}

// Concat appends b to a. Shared axes are an error.
func (a Axes) Concat(b Axes) (Axes, error) {
	return NewAxes(append(a.Slice(), b.list...)...)
}

// Union returns a followed by the axes of b not already in a.
func (a Axes) Union(b Axes) Axes {
	out := a.Slice()
	for _, ax := range b.list {
		if !a.Contains(ax) {
			out = append(out, ax)
		}
	}
	return Axes{list: out}
}

// Intersect returns the axes of a that are also in b, in a's order.
func (a Axes) Intersect(b Axes) Axes {
	return a.filter(b.Contains)
}

// Difference returns the axes of a that are not in b, in a's order.
func (a Axes) Difference(b Axes) Axes {
	return a.filter(func(ax Axis) bool { return !b.Contains(ax) })
}

// Equal reports whether a and b hold the same axes in the same order.
func (a Axes) Equal(b Axes) bool {
	if len(a.list) != len(b.list) {
		return false
	}
	for i := range a.list {
		if !a.list[i].Equal(b.list[i]) {
			return false
		}
	}
	return true
}

// SetEqual reports whether a and b hold the same axes in any order.
func (a Axes) SetEqual(b Axes) bool {
	return len(a.list) == len(b.list) && a.Difference(b).IsScalar()
}

// Dual shifts every axis by offset dual levels.
func (a Axes) Dual(offset int) Axes {
	out := make([]Axis, len(a.list))
	for i, ax := range a.list {
		out[i] = ax.Add(offset)
	}
	return Axes{list: out}
}

// CheckCompatible verifies that every axis shared by a and b has one length.
func CheckCompatible(a, b Axes) error {
	for _, x := range a.list {
		if i := b.Index(x); i >= 0 && b.list[i].length != x.length {
			return &IncompatibleAxesError{A: x, B: b.list[i]}
		}
	}
	return nil
}

// Broadcast returns the axes of an element-wise result over a and b:
// a followed by b's remaining axes.
func Broadcast(a, b Axes) (Axes, error) {
	if err := CheckCompatible(a, b); err != nil {
		return Axes{}, err
	}
	return a.Union(b), nil
}

// Permutation returns, for each axis of target, its position in a.
// target must be a reordering of a.
func (a Axes) Permutation(target Axes) ([]int, error) {
	if !a.SetEqual(target) {
		return nil, fmt.Errorf("%w: %s vs %s", ErrNotPermutation, a, target)
	}
	perm := make([]int, target.Len())
	for i, ax := range target.list {
		perm[i] = a.Index(ax)
	}
	return perm, nil
}

// String formats the axes as (A:2, B:3).
func (a Axes) String() string {
	parts := make([]string, len(a.list))
	for i, ax := range a.list {
		parts[i] = ax.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Names returns a compact identity string, used as a cache key.
func (a Axes) Names() string {
	parts := make([]string, len(a.list))
	for i, ax := range a.list {
		parts[i] = ax.String()
	}
	return strings.Join(parts, ",")
}

// Package axes implements named tensor dimensions and the algebra used to
// match, broadcast and contract them by name instead of by position.
package axes

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

// BatchName is the conventional name of the batch axis.
const BatchName = "N"

var axisCounter atomic.Int64

// Axis is a named dimension with a length.
//
// Two axes are the same axis when their names and dual levels agree; length
// is a property that must then be consistent. The dual level is what lets a
// weight carry "the input axis, seen from the other side" so that Dot knows
// which pair of axes to contract.
//
// Axis is an immutable value: the With* methods return modified copies.
type Axis struct {
	name      string
	length    int
	dual      int
	shortName string
	roles     []Role
	recurrent bool
	batch     bool
}

// NewAxis creates an axis. An empty name generates a unique one.
func NewAxis(length int, name string) Axis {
	if name == "" {
		name = "A_" + strconv.FormatInt(axisCounter.Add(1), 10)
	}
	return Axis{name: name, length: length}
}

// Name returns the axis name.
func (a Axis) Name() string { return a.name }

// Length returns the axis length. Zero means not yet known.
func (a Axis) Length() int { return a.length }

// Dual returns the dual level (0 for an ordinary axis).
func (a Axis) Dual() int { return a.dual }

// ShortName returns the short name, defaulting to the name.
func (a Axis) ShortName() string {
	if a.shortName == "" {
		return a.name
	}
	return a.shortName
}

// Roles returns a copy of the axis roles.
func (a Axis) Roles() []Role { return slices.Clone(a.roles) }

// HasRole reports whether r is one of the axis roles.
func (a Axis) HasRole(r Role) bool { return slices.Contains(a.roles, r) }

// IsRecurrent reports whether the axis is iterated over by recurrent layers.
func (a Axis) IsRecurrent() bool { return a.recurrent }

// IsBatch reports whether the axis indexes independent samples.
func (a Axis) IsBatch() bool { return a.batch || a.name == BatchName || a.HasRole(Batch) }

// WithLength returns a copy with a new length.
func (a Axis) WithLength(n int) Axis {
	a.length = n
	return a
}

// WithRole returns a copy with r added to the roles.
func (a Axis) WithRole(r Role) Axis {
	if a.HasRole(r) {
		return a
	}
	a.roles = append(slices.Clone(a.roles), r)
	return a
}

// WithShortName returns a copy with a short name.
func (a Axis) WithShortName(s string) Axis {
	a.shortName = s
	return a
}

// AsRecurrent returns a copy flagged as recurrent.
func (a Axis) AsRecurrent() Axis {
	a.recurrent = true
	return a
}

// AsBatch returns a copy flagged as a batch axis.
func (a Axis) AsBatch() Axis {
	a.batch = true
	return a
}

// Add shifts the dual level up by k.
func (a Axis) Add(k int) Axis {
	a.dual += k
	return a
}

// Sub shifts the dual level down by k. W.Sub(1) is the axis a weight uses to
// consume an input along a.
func (a Axis) Sub(k int) Axis {
	a.dual -= k
	return a
}

// Primal returns the axis at dual level 0.
func (a Axis) Primal() Axis {
	a.dual = 0
	return a
}

// Equal reports whether a and b denote the same axis.
func (a Axis) Equal(b Axis) bool {
	return a.name == b.name && a.dual == b.dual
}

// Compatible reports whether a and b may co-occur in one operation:
// either they are different axes or they agree on length.
func (a Axis) Compatible(b Axis) bool {
	return !a.Equal(b) || a.length == b.length
}

func (a Axis) ident() string {
	if a.dual == 0 {
		return a.name
	}
	if a.dual < 0 {
		return a.name + strings.Repeat("'", -a.dual)
	}
	return a.name + strings.Repeat("`", a.dual)
}

// String formats the axis as name:length, marking dual levels with primes.
func (a Axis) String() string {
	return fmt.Sprintf("%s:%d", a.ident(), a.length)
}

package axes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxis_Identity(t *testing.T) {
	c := NewAxis(3, "C")
	assert.True(t, c.Equal(NewAxis(5, "C")), "identity ignores length")
	assert.False(t, c.Compatible(NewAxis(5, "C")))
	assert.True(t, c.Compatible(NewAxis(5, "H")))

	dual := c.Sub(1)
	assert.Equal(t, -1, dual.Dual())
	assert.False(t, c.Equal(dual))
	assert.True(t, dual.Add(1).Equal(c))
	assert.True(t, dual.Primal().Equal(c))
	assert.Equal(t, "C':3", dual.String())
}

func TestAxis_GeneratedNames(t *testing.T) {
	a := NewAxis(2, "")
	b := NewAxis(2, "")
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestAxis_Annotations(t *testing.T) {
	rec := NewAxis(10, "REC").WithRole(Time).AsRecurrent().WithShortName("time")
	assert.True(t, rec.HasRole(Time))
	assert.True(t, rec.IsRecurrent())
	assert.Equal(t, "time", rec.ShortName())
	assert.Equal(t, []Role{Time}, rec.WithRole(Time).Roles(), "roles are not duplicated")

	assert.True(t, NewAxis(4, BatchName).IsBatch())
	assert.True(t, NewAxis(4, "B").AsBatch().IsBatch())
	assert.Equal(t, "H", NewAxis(4, "H").ShortName())
}

func TestNewAxes_Duplicates(t *testing.T) {
	c := NewAxis(3, "C")
	_, err := NewAxes(c, NewAxis(2, "H"), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateAxis))

	_, err = NewAxes(c, c.Sub(1))
	assert.NoError(t, err, "an axis and its dual are distinct")

	assert.Panics(t, func() { MustAxes(c, c) })
}

func TestAxes_SetAlgebra(t *testing.T) {
	c, h, w, n := NewAxis(3, "C"), NewAxis(4, "H"), NewAxis(5, "W"), NewAxis(2, "N")
	a := MustAxes(c, h, n)
	b := MustAxes(w, n, c)

	assert.True(t, a.Union(b).Equal(MustAxes(c, h, n, w)))
	assert.True(t, a.Intersect(b).Equal(MustAxes(c, n)))
	assert.True(t, a.Difference(b).Equal(MustAxes(h)))
	assert.True(t, MustAxes(h, c).SetEqual(MustAxes(c, h)))
	assert.False(t, MustAxes(h, c).Equal(MustAxes(c, h)))

	_, err := a.Concat(b)
	assert.Error(t, err)
	ab, err := MustAxes(c).Concat(MustAxes(h))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ab.Lengths())
	assert.Equal(t, 12, ab.Size())
	assert.Equal(t, 1, Axes{}.Size())
}

func TestAxes_Lookup(t *testing.T) {
	rec := NewAxis(7, "REC").WithShortName("time").WithRole(Time)
	a := MustAxes(NewAxis(3, "C"), rec, NewAxis(2, "N"))

	found, ok := a.Find("REC")
	require.True(t, ok)
	assert.Equal(t, 7, found.Length())

	assert.Equal(t, 1, a.FindByShortName("time").Len())
	assert.Equal(t, 1, a.FindByRole(Time).Len())
	assert.Equal(t, 1, a.BatchAxes().Len())
	assert.Equal(t, 2, a.SampleAxes().Len())

	r, ok := a.RecurrentAxis()
	require.True(t, ok, "time role is a fallback for the recurrent flag")
	assert.Equal(t, "REC", r.Name())

	_, ok = a.Find("missing")
	assert.False(t, ok)
}

func TestBroadcast(t *testing.T) {
	c, h := NewAxis(3, "C"), NewAxis(4, "H")

	out, err := Broadcast(MustAxes(c), MustAxes(h, c))
	require.NoError(t, err)
	assert.True(t, out.Equal(MustAxes(c, h)))

	_, err = Broadcast(MustAxes(c), MustAxes(NewAxis(5, "C")))
	require.Error(t, err)
	var incompatible *IncompatibleAxesError
	require.ErrorAs(t, err, &incompatible)
	assert.True(t, errors.Is(err, ErrIncompatibleAxes))
}

func TestAxes_Permutation(t *testing.T) {
	c, h, w := NewAxis(3, "C"), NewAxis(4, "H"), NewAxis(5, "W")
	perm, err := MustAxes(c, h, w).Permutation(MustAxes(w, c, h))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, perm)

	_, err = MustAxes(c, h).Permutation(MustAxes(c, w))
	assert.ErrorIs(t, err, ErrNotPermutation)
}

func TestAxes_Dual(t *testing.T) {
	a := MustAxes(NewAxis(3, "C"), NewAxis(4, "H"))
	d := a.Dual(-1)
	assert.Equal(t, -1, d.At(0).Dual())
	assert.True(t, d.Dual(1).Equal(a))
}

func TestScope(t *testing.T) {
	s := NewScope()
	assert.True(t, s.N().IsBatch())
	assert.True(t, s.REC().IsRecurrent())
	assert.Equal(t, "time", s.REC().ShortName())

	y := s.Define("Y", 0)
	assert.Equal(t, 0, y.Length())
	require.NoError(t, s.SetLength("Y", 50))
	assert.Equal(t, 50, s.MustGet("Y").Length())
	assert.True(t, s.MustGet("Y").Equal(y))

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrAxisNotFound)
	assert.ErrorIs(t, s.SetLength("nope", 1), ErrAxisNotFound)
}

package orderlist

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func rangeList(t *testing.T, n int, opts ...Option) *List[int] {
	t.Helper()
	l := newIntList(t, opts...)
	for v := range n {
		require.NoError(t, l.InsertLast(v))
	}
	return l
}

func TestView_MatchesParentRange(t *testing.T) {
	r := rand.New(rand.NewSource(29))
	l := rangeList(t, 200, WithTagBits(16))
	want := items(t, l)

	for range 200 {
		s := r.Intn(len(want) + 1)
		c := r.Intn(len(want) - s + 1)
		v, err := l.View(s, c)
		require.NoError(t, err)
		require.Equal(t, want[s:s+c], items(t, v))
		require.NoError(t, v.CheckInvariants())

		offset, err := v.Offset()
		require.NoError(t, err)
		require.Equal(t, s, offset)
		count, err := v.Count()
		require.NoError(t, err)
		require.Equal(t, c, count)
	}

	_, err := l.View(150, 51)
	require.ErrorIs(t, err, ErrViewRangeInvalid)
	_, err = l.View(-1, 2)
	require.ErrorIs(t, err, ErrViewRangeInvalid)
	_, err = l.View(1, -2)
	require.ErrorIs(t, err, ErrViewRangeInvalid)
}

func TestView_WritesThrough(t *testing.T) {
	l := rangeList(t, 6)
	v, err := l.View(2, 2)
	require.NoError(t, err)

	require.NoError(t, v.InsertLast(10))
	require.NoError(t, v.InsertFirst(11))
	require.NoError(t, v.Insert(1, 12))
	require.Equal(t, []int{11, 12, 2, 3, 10}, items(t, v))
	require.Equal(t, []int{0, 1, 11, 12, 2, 3, 10, 4, 5}, items(t, l))

	removed, err := v.RemoveLast()
	require.NoError(t, err)
	require.Equal(t, 10, removed)
	ok, err := v.Remove(4)
	require.NoError(t, err)
	require.False(t, ok, "4 lies outside the view")

	old, err := v.Set(0, 21)
	require.NoError(t, err)
	require.Equal(t, 11, old)

	require.Equal(t, []int{21, 12, 2, 3}, items(t, v))
	require.Equal(t, []int{0, 1, 21, 12, 2, 3, 4, 5}, items(t, l))
	require.True(t, v.IsValid())
	require.NoError(t, v.CheckInvariants())
	requireOrdered(t, l)

	require.NoError(t, v.Clear())
	require.Equal(t, []int{0, 1, 4, 5}, items(t, l))
	count, err := v.Count()
	require.NoError(t, err)
	require.Zero(t, count)

	// An empty view still marks a position.
	require.NoError(t, v.InsertLast(7))
	require.Equal(t, []int{0, 1, 7, 4, 5}, items(t, l))
	require.NoError(t, v.CheckInvariants())
}

func TestView_Staleness(t *testing.T) {
	l := rangeList(t, 10)
	a, err := l.View(0, 5)
	require.NoError(t, err)
	b, err := l.View(5, 5)
	require.NoError(t, err)
	inner, err := a.View(1, 2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, items(t, inner))

	// Reads never invalidate.
	_, err = l.Items()
	require.NoError(t, err)
	require.True(t, a.IsValid())

	require.NoError(t, b.InsertLast(10))
	require.True(t, b.IsValid())
	require.False(t, a.IsValid())
	require.False(t, inner.IsValid())
	require.True(t, l.IsValid())

	_, err = a.Count()
	require.ErrorIs(t, err, ErrStaleView)
	_, err = a.Items()
	require.ErrorIs(t, err, ErrStaleView)
	require.ErrorIs(t, a.InsertLast(1), ErrStaleView)
	_, err = a.View(0, 1)
	require.ErrorIs(t, err, ErrStaleView)
	_, err = a.Offset()
	require.ErrorIs(t, err, ErrStaleView)
	require.ErrorIs(t, a.Slide(1), ErrStaleView)
	require.ErrorIs(t, a.Sort(func(x, y int) int { return x - y }), ErrStaleView)

	// A view made from a view hangs off the root, and writing through it
	// leaves the view it came from stale.
	c, err := b.View(0, 3)
	require.NoError(t, err)
	require.Same(t, l, c.Underlying())
	offset, err := c.Offset()
	require.NoError(t, err)
	require.Equal(t, 5, offset)
	_, err = c.RemoveFirst()
	require.NoError(t, err)
	require.False(t, b.IsValid())
	require.True(t, c.IsValid())
	require.Equal(t, []int{6, 7}, items(t, c))
	require.Equal(t, []int{0, 1, 2, 3, 4, 6, 7, 8, 9, 10}, items(t, l))
}

func TestView_Slide(t *testing.T) {
	l := rangeList(t, 10)
	v, err := l.View(1, 2)
	require.NoError(t, err)

	require.NoError(t, v.Slide(3))
	require.Equal(t, []int{4, 5}, items(t, v))
	offset, err := v.Offset()
	require.NoError(t, err)
	require.Equal(t, 4, offset)

	require.NoError(t, v.SlideResize(-4, 3))
	require.Equal(t, []int{0, 1, 2}, items(t, v))
	require.NoError(t, v.SlideResize(7, 3))
	require.Equal(t, []int{7, 8, 9}, items(t, v))
	require.NoError(t, v.CheckInvariants())

	require.ErrorIs(t, v.Slide(1), ErrViewRangeInvalid)
	require.False(t, v.TrySlide(-8, 1))
	require.True(t, v.TrySlide(-7, 0))
	count, err := v.Count()
	require.NoError(t, err)
	require.Zero(t, count)
	require.True(t, v.TrySlide(10, 0))
	require.NoError(t, v.CheckInvariants())

	require.ErrorIs(t, l.Slide(1), ErrNotAView)
	_, err = l.Offset()
	require.ErrorIs(t, err, ErrNotAView)
	require.False(t, l.IsView())
	require.True(t, v.IsView())
	require.Nil(t, l.Underlying())
}

func TestView_Span(t *testing.T) {
	l := rangeList(t, 10)
	a, err := l.View(1, 2)
	require.NoError(t, err)
	b, err := l.View(5, 2)
	require.NoError(t, err)

	s, err := a.Span(b)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, items(t, s))
	offset, err := s.Offset()
	require.NoError(t, err)
	require.Equal(t, 1, offset)
	require.NoError(t, s.CheckInvariants())

	s, err = a.Span(a)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, items(t, s))

	_, err = b.Span(a)
	require.ErrorIs(t, err, ErrViewRangeInvalid)
	_, err = l.Span(a)
	require.ErrorIs(t, err, ErrNotAView)
	_, err = a.Span(l)
	require.ErrorIs(t, err, ErrNotAView)

	other, err := rangeList(t, 3).View(0, 1)
	require.NoError(t, err)
	_, err = a.Span(other)
	require.ErrorIs(t, err, ErrForeignNode)

	require.NoError(t, l.InsertLast(10))
	_, err = a.Span(b)
	require.ErrorIs(t, err, ErrStaleView)
}

func TestView_ViewOf(t *testing.T) {
	l := newIntList(t)
	fill(t, l, 4, 7, 4, 9)

	v, err := l.ViewOf(4)
	require.NoError(t, err)
	offset, err := v.Offset()
	require.NoError(t, err)
	require.Equal(t, 0, offset)
	require.Equal(t, []int{4}, items(t, v))

	v, err = l.LastViewOf(4)
	require.NoError(t, err)
	offset, err = v.Offset()
	require.NoError(t, err)
	require.Equal(t, 2, offset)
	require.NoError(t, v.InsertAfter(4, 5))
	require.Equal(t, []int{4, 7, 4, 5, 9}, items(t, l))

	_, err = l.ViewOf(1)
	require.ErrorIs(t, err, ErrValueNotFound)
	_, err = l.LastViewOf(1)
	require.ErrorIs(t, err, ErrValueNotFound)
}

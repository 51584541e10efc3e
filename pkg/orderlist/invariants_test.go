package orderlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireInvariantError(t *testing.T, err error, contains string) {
	t.Helper()
	var invErr *InvariantError
	require.True(t, errors.As(err, &invErr), "got %v", err)
	require.Equal(t, "check invariants", invErr.Op)
	require.ErrorContains(t, err, contains)
}

func TestCheckInvariants_DetectsCorruption(t *testing.T) {
	l := rangeList(t, 5)
	a, b := nodeAt(t, l, 1), nodeAt(t, l, 2)
	a.tag, b.tag = b.tag, a.tag
	requireInvariantError(t, l.CheckInvariants(), "labels not increasing")
	a.tag, b.tag = b.tag, a.tag
	require.NoError(t, l.CheckInvariants())

	l.size++
	requireInvariantError(t, l.CheckInvariants(), "size is")
	l.size--

	a.group.count++
	requireInvariantError(t, l.CheckInvariants(), "bookkeeping")
	a.group.count--

	l.tags.stats.Groups++
	requireInvariantError(t, l.CheckInvariants(), "live tag groups")
	l.tags.stats.Groups--
	require.NoError(t, l.CheckInvariants())
}

func TestCheckInvariants_DetectsStaleIndex(t *testing.T) {
	h := hashedRange(t, 5)
	n := nodeAt(t, h.List, 3)
	n.value = 10
	requireInvariantError(t, h.CheckInvariants(), "not indexed")
}

func TestCheckInvariants_StaleView(t *testing.T) {
	l := rangeList(t, 5)
	v, err := l.View(1, 2)
	require.NoError(t, err)
	require.NoError(t, v.CheckInvariants())
	require.NoError(t, l.InsertFirst(-1))
	require.ErrorIs(t, v.CheckInvariants(), ErrStaleView)
}

package utils

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankTree_Delete(t *testing.T) {
	rt := NewRankTree()
	rt.Insert(10)
	rt.Insert(20)
	rt.Insert(5)
	rt.Insert(10) // duplicate
	require.Equal(t, 4, rt.Len())

	require.True(t, rt.Delete(10))
	require.Equal(t, 3, rt.Len())
	require.Equal(t, []int64{5, 10, 20}, selectAll(rt))

	require.True(t, rt.Delete(10))
	require.False(t, rt.Delete(10))
	require.Equal(t, 2, rt.Len())

	key, ok := rt.Select(0)
	require.True(t, ok)
	require.Equal(t, int64(5), key)
	key, ok = rt.Select(1)
	require.True(t, ok)
	require.Equal(t, int64(20), key)
}

func TestRankTree_Select(t *testing.T) {
	rt := NewRankTree()
	for _, k := range []int64{10, 20, 5, 15, 10} {
		rt.Insert(k)
	}

	expected := []int64{5, 10, 10, 15, 20}
	for i, k := range expected {
		got, ok := rt.Select(i)
		require.True(t, ok)
		require.Equal(t, k, got)
	}
	_, ok := rt.Select(len(expected))
	require.False(t, ok)
	_, ok = rt.Select(-1)
	require.False(t, ok)
}

func TestRankTree_Randomized(t *testing.T) {
	r := rand.New(rand.NewSource(37))
	rt := NewRankTree()
	goSlice := make([]int64, 0)

	for range 2000 {
		v := r.Int63n(200)
		rt.Insert(v)
		goSlice = append(goSlice, v)
	}
	for range 800 {
		idx := r.Intn(len(goSlice))
		require.True(t, rt.Delete(goSlice[idx]))
		goSlice = append(goSlice[:idx], goSlice[idx+1:]...)
	}

	require.Equal(t, len(goSlice), rt.Len())
	sort.Slice(goSlice, func(i, j int) bool { return goSlice[i] < goSlice[j] })
	require.Equal(t, goSlice, selectAll(rt))
	for i, v := range goSlice {
		got, ok := rt.Select(i)
		require.True(t, ok)
		require.Equal(t, v, got, fmt.Sprintf("mismatch at rank %d", i))
	}
	checkRedBlack(t, rt)
}

func selectAll(rt *RankTree) []int64 {
	keys := make([]int64, 0, rt.Len())
	for i := range rt.Len() {
		k, _ := rt.Select(i)
		keys = append(keys, k)
	}
	return keys
}

// checkRedBlack verifies colours, black heights and subtree sizes.
func checkRedBlack(t *testing.T, rt *RankTree) {
	t.Helper()
	require.False(t, rt.root.red)
	var walk func(n *rankNode) int
	walk = func(n *rankNode) int {
		if n == rt.leaf {
			return 1
		}
		if n.red {
			require.False(t, n.left.red)
			require.False(t, n.right.red)
		}
		require.Equal(t, n.left.size+n.right.size+n.count, n.size)
		lh, rh := walk(n.left), walk(n.right)
		require.Equal(t, lh, rh)
		if n.red {
			return lh
		}
		return lh + 1
	}
	walk(rt.root)
	require.Equal(t, rt.len, rt.root.size)
}

package orderlist

import (
	"math"

	"github.com/phuslu/log"
)

// This file maintains the labels that make Precedes O(1). Every node carries a
// fine tag that is unique inside its tag group, and every group carries a
// coarse tag that is unique along the list. Labels are handled as unsigned
// ordinals in [0, top] internally so that gaps never overflow; the stored
// int64 values are those ordinals shifted down by 2^(bits-1), which keeps
// int64 comparisons consistent with ordinal comparisons.

// densityExponent is c in the relabelling rule: a window of 2^k coarse slots
// may hold at most (2^k)^(1-1/c) groups before it is widened.
const densityExponent = 4

// Stats counts the work done by the order oracle. Relabels and GroupRelabels
// together are the total tag assignment work beyond the one tag each
// insertion needs.
type Stats struct {
	Inserts         int64
	Removals        int64
	Relabels        int64
	GroupRelabels   int64
	Splits          int64
	Merges          int64
	Redistributions int64
	Groups          int
}

// Work returns the total number of labels rewritten so far.
func (s Stats) Work() int64 {
	return s.Relabels + s.GroupRelabels
}

type oracle[T any] struct {
	bits           int
	offset         uint64 // ordinal 0 maps to int64(offset)
	top            uint64 // largest ordinal
	groupSize      int
	mergeThreshold int
	limits         []float64 // per window level, the largest tolerated group count

	headGroup, tailGroup *tagGroup[T]
	stats                Stats
}

func newOracle[T any](o options, head, tail *Node[T]) *oracle[T] {
	or := &oracle[T]{
		bits:           o.tagBits,
		groupSize:      o.groupSize,
		mergeThreshold: o.mergeThreshold,
	}
	if o.tagBits == 64 {
		or.top = math.MaxUint64
	} else {
		or.top = uint64(1)<<o.tagBits - 1
	}
	or.offset = uint64(1) << (o.tagBits - 1)
	or.offset = -or.offset // ordinal 0 is the most negative representable label

	or.limits = make([]float64, o.tagBits+1)
	for level := range or.limits {
		or.limits[level] = math.Pow(2, float64(level)*(1-1/float64(densityExponent)))
	}

	or.headGroup = &tagGroup[T]{tag: or.label(0), first: head, last: head, bound: true}
	or.tailGroup = &tagGroup[T]{tag: or.label(or.top), first: tail, last: tail, bound: true}
	head.group, head.tag = or.headGroup, or.label(0)
	tail.group, tail.tag = or.tailGroup, or.label(or.top)
	return or
}

func (o *oracle[T]) ord(tag int64) uint64 {
	return uint64(tag) - o.offset
}

func (o *oracle[T]) label(ord uint64) int64 {
	return int64(ord + o.offset)
}

// settag labels n, which is already linked between its neighbours but not yet
// in any group.
func (o *oracle[T]) settag(n *Node[T]) error {
	pred, succ := n.prev, n.next
	pg, sg := pred.group, succ.group

	switch {
	case pg == sg:
		// Bound groups hold a single sentinel each, so pg is a real group.
		o.join(n, pg)
		po, so := o.ord(pred.tag), o.ord(succ.tag)
		if so-po > 1 {
			n.tag = o.label(po + (so-po)/2)
			return nil
		}
		return o.split(pg)
	case !pg.bound && o.ord(pred.tag) < o.top:
		o.join(n, pg)
		po := o.ord(pred.tag)
		n.tag = o.label(po + (o.top-po)/2 + 1)
		return nil
	case !sg.bound && o.ord(succ.tag) > 0:
		o.join(n, sg)
		so := o.ord(succ.tag)
		n.tag = o.label(so - so/2 - 1)
		return nil
	case !pg.bound:
		o.join(n, pg)
		return o.split(pg)
	case !sg.bound:
		o.join(n, sg)
		return o.split(sg)
	default:
		g := &tagGroup[T]{tag: o.label(o.top / 2), count: 1, first: n, last: n}
		n.group, n.tag = g, o.label(o.top/2)
		o.stats.Groups++
		return nil
	}
}

func (o *oracle[T]) join(n *Node[T], g *tagGroup[T]) {
	n.group = g
	g.count++
	if g.first == n.next {
		g.first = n
	}
	if g.last == n.prev {
		g.last = n
	}
}

// leave takes n out of its group after n has been unlinked from between prev
// and next.
func (o *oracle[T]) leave(n, prev, next *Node[T], merge bool) {
	g := n.group
	n.group = nil
	g.count--
	if g.count == 0 {
		g.first, g.last = nil, nil
		o.stats.Groups--
		return
	}
	if g.first == n {
		g.first = next
	}
	if g.last == n {
		g.last = prev
	}
	if merge && g.count < o.mergeThreshold {
		o.merge(g)
	}
}

// merge folds a small neighbouring group into g and spreads the combined
// members over the fine label space again. g keeps its coarse tag, which is
// still ordered correctly against the groups around the merged span.
func (o *oracle[T]) merge(g *tagGroup[T]) {
	var absorbed *tagGroup[T]
	if p := g.first.prev.group; !p.bound && p.count < o.mergeThreshold {
		g.first = p.first
		absorbed = p
	} else if s := g.last.next.group; !s.bound && s.count < o.mergeThreshold {
		g.last = s.last
		absorbed = s
	} else {
		return
	}
	g.count += absorbed.count
	absorbed.count = 0
	absorbed.first, absorbed.last = nil, nil
	o.stats.Groups--
	o.stats.Merges++
	o.spread(g, g.first, g.count)
}

// window is a run of consecutive groups whose coarse tags are about to be
// respaced evenly over slots ordinals starting at lo.
type window[T any] struct {
	left  *tagGroup[T]
	count int
	lo    uint64
	slots uint64
}

// split breaks g into enough groups of roughly groupSize nodes and gives every
// node a fresh, evenly spaced fine tag. Nothing is modified if no coarse room
// can be found for the new groups.
func (o *oracle[T]) split(g *tagGroup[T]) error {
	k := (g.count + o.groupSize - 1) / o.groupSize
	w, ok := o.findWindow(g, k)
	if !ok {
		log.Error().Int("groups", o.stats.Groups).Int("bits", o.bits).Msg("no room left for tag groups")
		return &InvariantError{Op: "split tag group", Err: ErrTagSpaceExhausted}
	}
	o.stats.Splits++
	o.carve(g, k)
	o.respace(w)
	return nil
}

// findWindow locates the groups whose coarse tags must move so that g can be
// replaced by k groups. The gap between g's neighbours is tried first; after
// that, windows aligned on g's tag double in width and absorb the groups
// whose tags fall inside them, until the window is sparse enough.
func (o *oracle[T]) findWindow(g *tagGroup[T], k int) (window[T], bool) {
	pred, succ := g.first.prev.group, g.last.next.group
	lo, hi := o.ord(pred.tag)+1, o.ord(succ.tag)-1
	if hi-lo+1 >= uint64(k) {
		return window[T]{left: g, count: k, lo: lo, slots: hi - lo + 1}, true
	}

	left, right := g, g
	count := k
	center := o.ord(g.tag)
	for level := 2; level <= o.bits; level++ {
		base, top := o.align(center, level)
		for p := left.first.prev.group; !p.bound && o.ord(p.tag) >= base; p = left.first.prev.group {
			left = p
			count++
		}
		for s := right.last.next.group; !s.bound && o.ord(s.tag) <= top; s = right.last.next.group {
			right = s
			count++
		}
		lo, hi := max(base, 1), min(top, o.top-1)
		slots := hi - lo + 1
		if uint64(count) > slots {
			continue
		}
		if level < o.bits && float64(count) > o.limits[level] {
			continue
		}
		o.stats.Redistributions++
		log.Debug().Int("level", level).Int("groups", count).Msg("redistributing tag groups")
		return window[T]{left: left, count: count, lo: lo, slots: slots}, true
	}
	return window[T]{}, false
}

func (o *oracle[T]) align(ord uint64, level int) (uint64, uint64) {
	if level >= 64 {
		return 0, math.MaxUint64
	}
	mask := uint64(1)<<level - 1
	base := ord &^ mask
	return base, min(base|mask, o.top)
}

// carve cuts g's members into k consecutive groups. g becomes the first of
// them; the others temporarily share g's coarse tag until respace runs.
func (o *oracle[T]) carve(g *tagGroup[T], k int) {
	n := g.first
	size, extra := g.count/k, g.count%k
	cur := g
	for i := 0; i < k; i++ {
		m := size
		if i < extra {
			m++
		}
		if i > 0 {
			cur = &tagGroup[T]{tag: g.tag}
			o.stats.Groups++
		}
		cur.first, cur.count = n, m
		n = o.spread(cur, n, m)
		cur.last = n.prev
	}
}

// spread assigns m nodes starting at first to g with evenly spaced fine tags
// and returns the node after the last one.
func (o *oracle[T]) spread(g *tagGroup[T], first *Node[T], m int) *Node[T] {
	step := o.top / uint64(m)
	n := first
	for i := 0; i < m; i++ {
		n.group = g
		n.tag = o.label(uint64(i)*step + step/2)
		o.stats.Relabels++
		n = n.next
	}
	return n
}

func (o *oracle[T]) respace(w window[T]) {
	step := w.slots / uint64(w.count)
	g := w.left
	for i := 0; i < w.count; i++ {
		g.tag = o.label(w.lo + uint64(i)*step + step/2)
		o.stats.GroupRelabels++
		g = g.last.next.group
	}
}

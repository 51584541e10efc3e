package utils

// RankTree is a multiset of int64 keys kept in a red-black tree where every
// node also knows how many keys its subtree holds. That makes selecting the
// key of a given rank, and ranking a key, O(log n).
type RankTree struct {
	root *rankNode
	leaf *rankNode // shared black sentinel
	len  int
}

type rankNode struct {
	key                 int64
	count               int // multiplicity of key
	size                int // keys stored in this subtree, with multiplicity
	red                 bool
	left, right, parent *rankNode
}

func NewRankTree() *RankTree {
	leaf := &rankNode{}
	leaf.left, leaf.right, leaf.parent = leaf, leaf, leaf
	return &RankTree{root: leaf, leaf: leaf}
}

func (t *RankTree) Len() int {
	return t.len
}

// Insert adds one occurrence of key.
func (t *RankTree) Insert(key int64) {
	parent, cur := t.leaf, t.root
	for cur != t.leaf {
		cur.size++
		if key == cur.key {
			cur.count++
			t.len++
			return
		}
		parent = cur
		if key < cur.key {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}

	z := &rankNode{key: key, count: 1, size: 1, red: true, left: t.leaf, right: t.leaf, parent: parent}
	switch {
	case parent == t.leaf:
		t.root = z
	case key < parent.key:
		parent.left = z
	default:
		parent.right = z
	}
	t.len++
	t.insertFixup(z)
}

// Delete removes one occurrence of key and reports whether there was one.
func (t *RankTree) Delete(key int64) bool {
	z := t.find(key)
	if z == nil {
		return false
	}
	t.len--
	if z.count > 1 {
		z.count--
		for p := z; p != t.leaf; p = p.parent {
			p.size--
		}
		return true
	}

	y, yRed := z, z.red
	var x *rankNode
	switch {
	case z.left == t.leaf:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.leaf:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.minimum(z.right)
		yRed = y.red
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.red = z.red
	}
	for p := x.parent; p != t.leaf; p = p.parent {
		p.size = p.left.size + p.right.size + p.count
	}
	if !yRed {
		t.deleteFixup(x)
	}
	t.leaf.parent = t.leaf
	return true
}

// Select returns the key at 0-based rank r in ascending order.
func (t *RankTree) Select(r int) (int64, bool) {
	if r < 0 || r >= t.len {
		return 0, false
	}
	cur := t.root
	for cur != t.leaf {
		ls := cur.left.size
		switch {
		case r < ls:
			cur = cur.left
		case r < ls+cur.count:
			return cur.key, true
		default:
			r -= ls + cur.count
			cur = cur.right
		}
	}
	return 0, false
}

func (t *RankTree) find(key int64) *rankNode {
	cur := t.root
	for cur != t.leaf {
		switch {
		case key == cur.key:
			return cur
		case key < cur.key:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

func (t *RankTree) minimum(n *rankNode) *rankNode {
	for n.left != t.leaf {
		n = n.left
	}
	return n
}

// transplant puts v where u hangs. v's parent is set even when v is the
// sentinel, which deleteFixup relies on.
func (t *RankTree) transplant(u, v *rankNode) {
	switch {
	case u.parent == t.leaf:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *RankTree) rotateLeft(x *rankNode) {
	y := x.right
	x.right = y.left
	if y.left != t.leaf {
		y.left.parent = x
	}
	t.transplant(x, y)
	y.left = x
	x.parent = y
	y.size = x.size
	x.size = x.left.size + x.right.size + x.count
}

func (t *RankTree) rotateRight(x *rankNode) {
	y := x.left
	x.left = y.right
	if y.right != t.leaf {
		y.right.parent = x
	}
	t.transplant(x, y)
	y.right = x
	x.parent = y
	y.size = x.size
	x.size = x.left.size + x.right.size + x.count
}

func (t *RankTree) insertFixup(z *rankNode) {
	for z.parent.red {
		gp := z.parent.parent
		if z.parent == gp.left {
			if uncle := gp.right; uncle.red {
				z.parent.red, uncle.red, gp.red = false, false, true
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.red, gp.red = false, true
			t.rotateRight(gp)
		} else {
			if uncle := gp.left; uncle.red {
				z.parent.red, uncle.red, gp.red = false, false, true
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.red, gp.red = false, true
			t.rotateLeft(gp)
		}
	}
	t.root.red = false
}

func (t *RankTree) deleteFixup(x *rankNode) {
	for x != t.root && !x.red {
		if x == x.parent.left {
			w := x.parent.right
			if w.red {
				w.red, x.parent.red = false, true
				t.rotateLeft(x.parent)
				w = x.parent.right
			}
			if !w.left.red && !w.right.red {
				w.red = true
				x = x.parent
				continue
			}
			if !w.right.red {
				w.left.red, w.red = false, true
				t.rotateRight(w)
				w = x.parent.right
			}
			w.red, x.parent.red, w.right.red = x.parent.red, false, false
			t.rotateLeft(x.parent)
			x = t.root
		} else {
			w := x.parent.left
			if w.red {
				w.red, x.parent.red = false, true
				t.rotateRight(x.parent)
				w = x.parent.left
			}
			if !w.right.red && !w.left.red {
				w.red = true
				x = x.parent
				continue
			}
			if !w.left.red {
				w.right.red, w.red = false, true
				t.rotateLeft(w)
				w = x.parent.left
			}
			w.red, x.parent.red, w.left.red = x.parent.red, false, false
			t.rotateRight(x.parent)
			x = t.root
		}
	}
	x.red = false
}

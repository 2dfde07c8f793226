package skillstore

// Treap-based ordered index over skill ratings.
//
// Ordering: rating ASC, then catalog position ASC (deterministic). In-order
// traversal yields the weakest skills first; reverse in-order yields the
// strongest. Rating updates are delete + reinsert, O(log n) expected.

type node struct {
	id     string
	rating float64
	pos    int // catalog position, tie-breaker
	prio   uint64
	left   *node
	right  *node
}

// less reports whether (aRating, aPos) ranks before (bRating, bPos) in the
// weakest-first order.
func less(aRating float64, aPos int, bRating float64, bPos int) bool {
	if aRating != bRating {
		return aRating < bRating
	}
	return aPos < bPos
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert(n *node, id string, ratingVal float64, pos int, prio uint64) *node {
	if n == nil {
		return &node{id: id, rating: ratingVal, pos: pos, prio: prio}
	}
	if less(ratingVal, pos, n.rating, n.pos) {
		n.left = insert(n.left, id, ratingVal, pos, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, ratingVal, pos, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func deleteNode(n *node, ratingVal float64, pos int) *node {
	if n == nil {
		return nil
	}
	if n.rating == ratingVal && n.pos == pos {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, ratingVal, pos)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, ratingVal, pos)
		}
	} else if less(ratingVal, pos, n.rating, n.pos) {
		n.left = deleteNode(n.left, ratingVal, pos)
	} else {
		n.right = deleteNode(n.right, ratingVal, pos)
	}
	return n
}

// collectWeakest appends up to limit skill ids in weakest-first order.
func collectWeakest(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectWeakest(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.id)
	}
	collectWeakest(n.right, limit, out)
}

// collectAscending appends every entry in weakest-first order. Strongest-first
// order is derived from this walk because ties must keep catalog position
// ascending in both directions; a plain reverse in-order walk would flip them.
func collectAscending(n *node, out *[]rankedID) {
	if n == nil {
		return
	}
	collectAscending(n.left, out)
	*out = append(*out, rankedID{id: n.id, rating: n.rating})
	collectAscending(n.right, out)
}

type rankedID struct {
	id     string
	rating float64
}

package wire

// NDIndex walks the lexicographic sequence of positions in a rectangular
// integer space, axis 0 fastest-varying. It drives planar-mode framing:
// one tuple per plane of a planar image, axes sizes[2:].
type NDIndex struct {
	sizes []int
	pos   []int
	total int
	step  int
	done  bool
}

// NewNDIndex builds an iterator over the given axis sizes. An empty sizes
// slice yields exactly one (zero-length) tuple, matching the array-mode
// convention of "one chunk" for dim < 3.
func NewNDIndex(sizes []int) *NDIndex {
	total := 1
	for _, s := range sizes {
		total *= s
	}
	pos := make([]int, len(sizes))
	return &NDIndex{
		sizes: append([]int(nil), sizes...),
		pos:   pos,
		total: total,
	}
}

// Total returns the number of tuples this iterator will produce.
func (n *NDIndex) Total() int {
	return n.total
}

// RemainingSteps returns the number of tuples yet to be produced after the
// current one. Before the first Advance it equals Total()-1.
func (n *NDIndex) RemainingSteps() int {
	return n.total - n.step - 1
}

// Pos returns a copy of the current tuple.
func (n *NDIndex) Pos() []int {
	return append([]int(nil), n.pos...)
}

// Done reports whether the iterator has produced every tuple.
func (n *NDIndex) Done() bool {
	return n.done || n.step >= n.total
}

// Advance moves to the next tuple. It returns false once every tuple has
// been produced (the iterator is then exhausted; Pos keeps returning the
// last tuple).
func (n *NDIndex) Advance() bool {
	if n.done {
		return false
	}
	n.step++
	if n.step >= n.total {
		n.done = true
		return false
	}
	for axis := 0; axis < len(n.pos); axis++ {
		n.pos[axis]++
		if n.pos[axis] < n.sizes[axis] {
			return true
		}
		n.pos[axis] = 0
	}
	return true
}

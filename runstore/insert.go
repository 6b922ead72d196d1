package runstore

import (
	"fmt"
	"slices"
)

// Insert places c at pos, shifting S[pos:] up by one. pos may equal Len.
func (s *Store) Insert(pos uint64, c byte) error {
	n := s.Len()
	if pos > n {
		return fmt.Errorf("%w: insert at %d, length %d", ErrPositionRange, pos, n)
	}

	if pos == 0 {
		s.insertFront(c)
		return nil
	}

	leaf, rem := s.seek(pos - 1)
	lens := s.decode(leaf)
	i, off := locate(lens, rem)
	sym := s.nodes[leaf].syms[i]

	// Grow the run on the left. A full run of c is treated as if pos were
	// its right boundary.
	if sym == c && lens[i] < s.maxRun {
		s.grow(leaf, i, lens[i], c)
		return nil
	}

	// Strictly inside a run, split it around the new character.
	if sym != c && off+1 < lens[i] {
		tail := lens[i] - (off + 1)
		lens[i] = off + 1
		s.spliceRuns(leaf, i+1, lens, []byte{c, sym}, []uint64{1, tail})
		s.runs += 2
		s.bump(leaf, c)
		s.maybeSplitLeaf(leaf)
		return nil
	}

	// On a boundary, try the run starting at pos.
	nl, j := leaf, i+1
	if j == len(lens) {
		nl, j = s.nodes[leaf].next, 0
	}
	if nl != NoNode && s.nodes[nl].syms[j] == c {
		l := s.nodes[nl].lens.Get(j)
		if l < s.maxRun {
			s.grow(nl, j, l, c)
			return nil
		}
	}

	// The leaf holding pos-1 still has lens decoded in scratch.
	s.spliceRuns(leaf, i+1, lens, []byte{c}, []uint64{1})
	s.runs++
	s.bump(leaf, c)
	s.maybeSplitLeaf(leaf)
	return nil
}

func (s *Store) insertFront(c byte) {
	leaf := s.first
	nd := &s.nodes[leaf]
	if len(nd.syms) > 0 && nd.syms[0] == c {
		l := nd.lens.Get(0)
		if l < s.maxRun {
			s.grow(leaf, 0, l, c)
			return
		}
	}
	lens := s.decode(leaf)
	s.spliceRuns(leaf, 0, lens, []byte{c}, []uint64{1})
	s.runs++
	s.bump(leaf, c)
	s.maybeSplitLeaf(leaf)
}

// grow adds one to run i of leaf, whose current length is l.
func (s *Store) grow(leaf NodeRef, i int, l uint64, c byte) {
	if l+1 == s.maxRun {
		s.saturated = true
	}
	s.nodes[leaf].lens.Set(i, l+1)
	s.bump(leaf, c)
}

// spliceRuns inserts the given runs at index at of leaf. lens must hold the
// decoded lengths of the leaf, possibly already modified by the caller.
func (s *Store) spliceRuns(leaf NodeRef, at int, lens []uint64, syms []byte, runLens []uint64) {
	nd := &s.nodes[leaf]
	nd.syms = slices.Insert(nd.syms, at, syms...)
	lens = slices.Insert(lens, at, runLens...)
	nd.lens.Encode(lens)
	s.scratch = lens[:0]
}

// bump accounts for one more c in ref and all of its ancestors.
func (s *Store) bump(ref NodeRef, c byte) {
	for ref != NoNode {
		nd := &s.nodes[ref]
		nd.total++
		nd.weights.add(c, 1)
		ref = nd.parent
	}
}

func (s *Store) maybeSplitLeaf(leaf NodeRef) {
	if len(s.nodes[leaf].syms) <= LeafRuns {
		return
	}
	lens := s.decode(leaf)
	nd := &s.nodes[leaf]
	half := len(nd.syms) / 2

	right := node{
		parent: nd.parent,
		next:   nd.next,
		leaf:   true,
		syms:   append([]byte(nil), nd.syms[half:]...),
	}
	right.lens.Encode(lens[half:])
	recountLeaf(&right)

	nd.syms = nd.syms[:half:half]
	nd.lens.Encode(lens[:half])
	recountLeaf(nd)

	r := s.alloc(right)
	s.nodes[leaf].next = r
	s.insertChild(s.nodes[leaf].parent, leaf, r)
}

func (s *Store) insertChild(parent, left, right NodeRef) {
	if parent == NoNode {
		root := node{
			parent:   NoNode,
			next:     NoNode,
			children: []NodeRef{left, right},
		}
		s.recountInner(&root)
		r := s.alloc(root)
		s.nodes[left].parent = r
		s.nodes[right].parent = r
		s.root = r
		s.height++
		return
	}

	p := &s.nodes[parent]
	at := slices.Index(p.children, left)
	p.children = slices.Insert(p.children, at+1, right)
	s.nodes[right].parent = parent
	if len(p.children) > Fanout {
		s.splitInner(parent)
	}
}

func (s *Store) splitInner(ref NodeRef) {
	nd := &s.nodes[ref]
	half := len(nd.children) / 2

	right := node{
		parent:   nd.parent,
		next:     NoNode,
		children: append([]NodeRef(nil), nd.children[half:]...),
	}
	nd.children = nd.children[:half:half]
	s.recountInner(nd)
	s.recountInner(&right)

	r := s.alloc(right)
	for _, ch := range s.nodes[r].children {
		s.nodes[ch].parent = r
	}
	s.insertChild(s.nodes[ref].parent, ref, r)
}

func recountLeaf(nd *node) {
	nd.total = 0
	nd.weights.reset()
	var lens [LeafRuns + 2]uint64
	for i, l := range nd.lens.Decode(lens[:0]) {
		nd.total += l
		nd.weights.add(nd.syms[i], l)
	}
}

// recountInner recomputes nd's aggregates from its children. nd may point
// outside the arena.
func (s *Store) recountInner(nd *node) {
	nd.total = 0
	nd.weights.reset()
	for _, ch := range nd.children {
		nd.total += s.nodes[ch].total
		nd.weights.addAll(&s.nodes[ch].weights)
	}
}

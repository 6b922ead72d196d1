package runstore

import (
	"fmt"
	"unsafe"
)

// Stats describes the shape and footprint of a store.
type Stats struct {
	Length      uint64
	Runs        uint64
	Height      int
	Leaves      int
	InnerNodes  int
	PayloadBits uint64 // step coded run length payload
	SizeBytes   uint64 // approximate heap footprint of the arena
}

// Stats walks the arena and reports its shape.
func (s *Store) Stats() Stats {
	st := Stats{
		Length: s.Len(),
		Runs:   s.runs,
		Height: s.height,
	}
	st.SizeBytes = uint64(cap(s.nodes)) * uint64(unsafe.Sizeof(node{}))
	for i := range s.nodes {
		nd := &s.nodes[i]
		st.SizeBytes += nd.weights.sizeBytes()
		if nd.leaf {
			st.Leaves++
			st.PayloadBits += nd.lens.PayloadBits()
			st.SizeBytes += uint64(cap(nd.syms)) + nd.lens.SizeBytes()
			continue
		}
		st.InnerNodes++
		st.SizeBytes += 4 * uint64(cap(nd.children))
	}
	return st
}

// CheckInvariants verifies the cached aggregates, links and run maximality
// of the whole tree. It is O(size) and intended for tests and debugging.
func (s *Store) CheckInvariants() error {
	if s.nodes[s.root].parent != NoNode {
		return fmt.Errorf("%w: root %d has a parent", ErrInvariant, s.root)
	}
	var runs uint64
	var prev *Run
	var lens []uint64
	for ref := s.first; ref != NoNode; ref = s.nodes[ref].next {
		nd := &s.nodes[ref]
		if !nd.leaf {
			return fmt.Errorf("%w: node %d in leaf chain is not a leaf", ErrInvariant, ref)
		}
		if len(nd.syms) > LeafRuns {
			return fmt.Errorf("%w: leaf %d holds %d runs", ErrInvariant, ref, len(nd.syms))
		}
		if len(nd.syms) == 0 && s.Len() != 0 {
			return fmt.Errorf("%w: leaf %d is empty", ErrInvariant, ref)
		}
		lens = nd.lens.Decode(lens[:0])
		if len(lens) != len(nd.syms) {
			return fmt.Errorf("%w: leaf %d has %d symbols and %d lengths", ErrInvariant, ref, len(nd.syms), len(lens))
		}
		var w symWeights
		var total uint64
		for i, l := range lens {
			r := Run{Symbol: nd.syms[i], Length: l}
			if l == 0 || l > s.maxRun {
				return fmt.Errorf("%w: leaf %d run %d has length %d", ErrInvariant, ref, i, l)
			}
			if prev != nil && prev.Symbol == r.Symbol && !s.saturated {
				return fmt.Errorf("%w: leaf %d run %d is not maximal", ErrInvariant, ref, i)
			}
			prev = &r
			total += l
			w.add(r.Symbol, l)
			runs++
		}
		if err := s.checkAggregate(ref, total, &w); err != nil {
			return err
		}
	}
	if runs != s.runs {
		return fmt.Errorf("%w: counted %d runs, recorded %d", ErrInvariant, runs, s.runs)
	}
	return s.checkInner(s.root)
}

func (s *Store) checkInner(ref NodeRef) error {
	nd := &s.nodes[ref]
	if nd.leaf {
		return nil
	}
	if len(nd.children) == 0 || len(nd.children) > Fanout {
		return fmt.Errorf("%w: inner node %d has %d children", ErrInvariant, ref, len(nd.children))
	}
	var w symWeights
	var total uint64
	for _, ch := range nd.children {
		if s.nodes[ch].parent != ref {
			return fmt.Errorf("%w: child %d of %d links to parent %d", ErrInvariant, ch, ref, s.nodes[ch].parent)
		}
		total += s.nodes[ch].total
		w.addAll(&s.nodes[ch].weights)
		if err := s.checkInner(ch); err != nil {
			return err
		}
	}
	return s.checkAggregate(ref, total, &w)
}

func (s *Store) checkAggregate(ref NodeRef, total uint64, w *symWeights) error {
	nd := &s.nodes[ref]
	if nd.total != total {
		return fmt.Errorf("%w: node %d caches total %d, children sum to %d", ErrInvariant, ref, nd.total, total)
	}
	for i, c := range w.syms {
		if got := nd.weights.get(c); got != w.counts[i] {
			return fmt.Errorf("%w: node %d caches %d of symbol %d, children sum to %d", ErrInvariant, ref, got, c, w.counts[i])
		}
	}
	for i, c := range nd.weights.syms {
		if nd.weights.counts[i] != w.get(c) {
			return fmt.Errorf("%w: node %d caches a stale count for symbol %d", ErrInvariant, ref, c)
		}
	}
	return nil
}

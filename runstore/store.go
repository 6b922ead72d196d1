package runstore

import (
	"fmt"
	"math"

	"github.com/forestrie/go-onptbwt/stepcode"
)

type node struct {
	parent NodeRef
	// next is the right neighbour of a leaf, NoNode for inner nodes and for
	// the right most leaf.
	next NodeRef
	leaf bool

	total   uint64
	weights symWeights

	children []NodeRef

	syms []byte
	lens stepcode.Vec
}

// Store is a dynamic run-length encoded string. It is not safe for
// concurrent use.
type Store struct {
	nodes  []node
	root   NodeRef
	first  NodeRef
	runs   uint64
	height int
	maxRun uint64
	// saturated is set once any run has reached maxRun, after which
	// adjacent runs may share a symbol.
	saturated bool

	// scratch holds the decoded lengths of the leaf being worked on.
	scratch []uint64
}

type Options struct {
	MaxRunLength uint64
}

type Option func(*Options)

// WithMaxRunLength caps the length of a single run. Zero selects
// DefaultMaxRunLength.
func WithMaxRunLength(n uint64) Option {
	return func(o *Options) {
		o.MaxRunLength = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := Options{MaxRunLength: DefaultMaxRunLength}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxRunLength == 0 {
		o.MaxRunLength = DefaultMaxRunLength
	}

	s := &Store{
		maxRun:    o.MaxRunLength,
		saturated: o.MaxRunLength == 1,
		height:    1,
		scratch:   make([]uint64, 0, LeafRuns+2),
	}
	s.root = s.alloc(node{parent: NoNode, next: NoNode, leaf: true})
	s.first = s.root
	return s
}

func (s *Store) alloc(n node) NodeRef {
	if len(s.nodes) >= math.MaxInt32 {
		panic(ErrArenaFull)
	}
	s.nodes = append(s.nodes, n)
	return NodeRef(len(s.nodes) - 1)
}

// Len returns the length of the expanded string.
func (s *Store) Len() uint64 { return s.nodes[s.root].total }

// Runs returns the number of runs.
func (s *Store) Runs() uint64 { return s.runs }

// MaxRunLength returns the configured run length limit.
func (s *Store) MaxRunLength() uint64 { return s.maxRun }

// Count returns the number of occurrences of c in the whole string.
func (s *Store) Count(c byte) uint64 { return s.nodes[s.root].weights.get(c) }

// seek descends to the leaf holding pos, which must be < Len. It returns the
// leaf and the position relative to the start of that leaf.
func (s *Store) seek(pos uint64) (NodeRef, uint64) {
	ref := s.root
	for !s.nodes[ref].leaf {
		ref, pos = s.child(ref, pos)
	}
	return ref, pos
}

func (s *Store) child(ref NodeRef, pos uint64) (NodeRef, uint64) {
	children := s.nodes[ref].children
	for _, ch := range children[:len(children)-1] {
		t := s.nodes[ch].total
		if pos < t {
			return ch, pos
		}
		pos -= t
	}
	return children[len(children)-1], pos
}

// seekRank is seek that also counts the occurrences of c in every leaf
// left of the one returned.
func (s *Store) seekRank(pos uint64, c byte) (NodeRef, uint64, uint64) {
	var rank uint64
	ref := s.root
	for !s.nodes[ref].leaf {
		children := s.nodes[ref].children
		next := children[len(children)-1]
		for _, ch := range children[:len(children)-1] {
			t := s.nodes[ch].total
			if pos < t {
				next = ch
				break
			}
			pos -= t
			rank += s.nodes[ch].weights.get(c)
		}
		ref = next
	}
	return ref, pos, rank
}

// rankBefore counts the occurrences of c in all leaves left of ref by
// walking the parent chain.
func (s *Store) rankBefore(ref NodeRef, c byte) uint64 {
	var rank uint64
	for p := s.nodes[ref].parent; p != NoNode; ref, p = p, s.nodes[p].parent {
		for _, ch := range s.nodes[p].children {
			if ch == ref {
				break
			}
			rank += s.nodes[ch].weights.get(c)
		}
	}
	return rank
}

func (s *Store) decode(ref NodeRef) []uint64 {
	s.scratch = s.nodes[ref].lens.Decode(s.scratch[:0])
	return s.scratch
}

// locate returns the run index holding leaf relative position rem and the
// offset within that run.
func locate(lens []uint64, rem uint64) (int, uint64) {
	for i, l := range lens {
		if rem < l {
			return i, rem
		}
		rem -= l
	}
	return len(lens), rem
}

// leafRank counts c in the first rem positions of a leaf.
func leafRank(syms []byte, lens []uint64, c byte, rem uint64) uint64 {
	var rank uint64
	for i, l := range lens {
		if rem == 0 {
			break
		}
		take := min(l, rem)
		if syms[i] == c {
			rank += take
		}
		rem -= take
	}
	return rank
}

// Rank returns the number of occurrences of c in S[0, pos).
func (s *Store) Rank(c byte, pos uint64) (uint64, error) {
	n := s.Len()
	if pos > n {
		return 0, fmt.Errorf("%w: rank at %d, length %d", ErrPositionRange, pos, n)
	}
	if pos == n {
		return s.Count(c), nil
	}
	leaf, rem, rank := s.seekRank(pos, c)
	return rank + leafRank(s.nodes[leaf].syms, s.decode(leaf), c, rem), nil
}

// CharAt returns S[pos].
func (s *Store) CharAt(pos uint64) (byte, error) {
	n := s.Len()
	if pos >= n {
		return 0, fmt.Errorf("%w: access at %d, length %d", ErrPositionRange, pos, n)
	}
	leaf, rem := s.seek(pos)
	i, _ := locate(s.decode(leaf), rem)
	return s.nodes[leaf].syms[i], nil
}

// Access returns S[pos] together with the number of occurrences of that
// symbol in S[0, pos), using a single descent.
func (s *Store) Access(pos uint64) (byte, uint64, error) {
	n := s.Len()
	if pos >= n {
		return 0, 0, fmt.Errorf("%w: access at %d, length %d", ErrPositionRange, pos, n)
	}
	leaf, rem := s.seek(pos)
	syms := s.nodes[leaf].syms
	lens := s.decode(leaf)
	i, _ := locate(lens, rem)
	c := syms[i]
	return c, s.rankBefore(leaf, c) + leafRank(syms, lens, c, rem), nil
}

// ForEachRun calls fn for every run in order. Iteration stops at the first
// error, which is returned.
func (s *Store) ForEachRun(fn func(Run) error) error {
	var lens []uint64
	for ref := s.first; ref != NoNode; ref = s.nodes[ref].next {
		lens = s.nodes[ref].lens.Decode(lens[:0])
		for i, l := range lens {
			if err := fn(Run{Symbol: s.nodes[ref].syms[i], Length: l}); err != nil {
				return err
			}
		}
	}
	return nil
}

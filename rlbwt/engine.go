package rlbwt

import (
	"errors"
	"fmt"

	"github.com/forestrie/go-onptbwt/ranktable"
	"github.com/forestrie/go-onptbwt/runstore"
)

var (
	ErrPositionRange      = errors.New("rlbwt: row out of range")
	ErrEndMarkerRow       = errors.New("rlbwt: the end marker row has no LF image")
	ErrInversionDiverged  = errors.New("rlbwt: inverse walk did not return to the end marker row")
	ErrStructureCorrupted = errors.New("rlbwt: run store rejected an engine generated position")
)

// Engine is an online RLBWT builder. It is not safe for concurrent use and
// Extend calls must be issued in input order.
type Engine struct {
	store *runstore.Store
	ranks ranktable.Table

	// last is the row of the end marker, the insertion point of the next
	// character.
	last uint64
	n    uint64
}

// State is the externally visible construction state.
type State struct {
	N    uint64
	Runs uint64
	Last uint64
}

type Options struct {
	StoreOptions []runstore.Option
}

type Option func(*Options)

// WithStoreOptions forwards options to the underlying run store.
func WithStoreOptions(opts ...runstore.Option) Option {
	return func(o *Options) {
		o.StoreOptions = append(o.StoreOptions, opts...)
	}
}

// New returns an engine holding the transform of the empty string.
func New(opts ...Option) *Engine {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{store: runstore.New(o.StoreOptions...)}
}

// Extend feeds one character.
//
// Extend only fails if the engine's own state is inconsistent, which can not
// be caused by the input, so it panics rather than returning an error.
func (e *Engine) Extend(c byte) {
	rank, err := e.store.Rank(c, e.last)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrStructureCorrupted, err))
	}
	p := 1 + e.ranks.Less(c) + rank

	if err := e.store.Insert(e.last, c); err != nil {
		panic(fmt.Errorf("%w: %v", ErrStructureCorrupted, err))
	}
	e.ranks.Add(c)
	e.last = p
	e.n++
}

// Write feeds every byte of p in order. It never fails; it exists so an
// Engine can sit at the end of an io.Copy.
func (e *Engine) Write(p []byte) (int, error) {
	for _, c := range p {
		e.Extend(c)
	}
	return len(p), nil
}

// Len returns the number of characters fed.
func (e *Engine) Len() uint64 { return e.n }

// Runs returns the number of runs in the transform.
func (e *Engine) Runs() uint64 { return e.store.Runs() }

// Last returns the row of the end marker.
func (e *Engine) Last() uint64 { return e.last }

// Count returns how many times c has been fed.
func (e *Engine) Count(c byte) uint64 { return e.ranks.Count(c) }

func (e *Engine) State() State {
	return State{N: e.n, Runs: e.store.Runs(), Last: e.last}
}

// ForEachRun calls fn for every run of the transform in order.
func (e *Engine) ForEachRun(fn func(runstore.Run) error) error {
	return e.store.ForEachRun(fn)
}

// CheckInvariants verifies the run store structure and that it agrees with
// the rank table.
func (e *Engine) CheckInvariants() error {
	if err := e.store.CheckInvariants(); err != nil {
		return err
	}
	if e.store.Len() != e.n || e.ranks.Total() != e.n {
		return fmt.Errorf("%w: store holds %d symbols, rank table %d, fed %d",
			ErrStructureCorrupted, e.store.Len(), e.ranks.Total(), e.n)
	}
	if e.last > e.n {
		return fmt.Errorf("%w: end marker row %d beyond %d", ErrStructureCorrupted, e.last, e.n)
	}
	var err error
	e.ranks.Each(func(c byte, count uint64) {
		if got := e.store.Count(c); got != count && err == nil {
			err = fmt.Errorf("%w: symbol %d stored %d times, counted %d", ErrStructureCorrupted, c, got, count)
		}
	})
	return err
}

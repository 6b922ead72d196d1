package verify

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/forestrie/go-onptbwt/fasta"
	"github.com/forestrie/go-onptbwt/rlbwt"
)

// window is the number of bytes shown either side of a difference.
const window = 16

var (
	ErrMismatch       = errors.New("verify: decoded text differs from the input")
	ErrRecordMismatch = errors.New("verify: decoded records differ from the input records")
)

// Report describes the outcome of comparing an input with its decoding.
type Report struct {
	RunID string `cbor:"1,keyasint,omitempty"`

	N    uint64 `cbor:"2,keyasint"`
	Runs uint64 `cbor:"3,keyasint"`
	Last uint64 `cbor:"4,keyasint"`

	Match      bool   `cbor:"5,keyasint"`
	DecodedLen uint64 `cbor:"6,keyasint"`

	// FirstDiff is -1 when the texts match.
	FirstDiff int64 `cbor:"7,keyasint"`
	// Record is the index of the record holding FirstDiff.
	Record int `cbor:"8,keyasint"`

	Original string `cbor:"9,keyasint,omitempty"`
	Decoded  string `cbor:"10,keyasint,omitempty"`
}

// Err returns ErrMismatch wrapped with the offending offset, or nil.
func (r Report) Err() error {
	if r.Match {
		return nil
	}
	return fmt.Errorf("%w: first difference at offset %d (record %d), decoded %d of %d bytes",
		ErrMismatch, r.FirstDiff, r.Record, r.DecodedLen, r.N)
}

// Compare checks decoded against original. state is the engine state the
// decoding came from.
func Compare(original, decoded []byte, state rlbwt.State) Report {
	r := Report{
		N:          state.N,
		Runs:       state.Runs,
		Last:       state.Last,
		DecodedLen: uint64(len(decoded)),
		FirstDiff:  -1,
		Record:     -1,
	}
	if bytes.Equal(original, decoded) && uint64(len(original)) == state.N {
		r.Match = true
		return r
	}

	i := firstDiff(original, decoded)
	r.FirstDiff = int64(i)
	r.Record = bytes.Count(original[:min(i, len(original))], []byte{fasta.Separator})
	r.Original = hexWindow(original, i)
	r.Decoded = hexWindow(decoded, i)
	return r
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func hexWindow(b []byte, at int) string {
	lo := max(0, at-window)
	hi := min(len(b), at+window)
	if lo >= hi {
		return ""
	}
	return hex.EncodeToString(b[lo:hi])
}

// Records checks that decoded splits into the same records, in the same
// order, as original, and that both texts agree on whether the last record
// is terminated by a separator.
func Records(original, decoded []byte) error {
	if terminated(original) != terminated(decoded) {
		return fmt.Errorf("%w: final separator present %t, decoded %t",
			ErrRecordMismatch, terminated(original), terminated(decoded))
	}
	want := fasta.SplitRecords(original)
	got := fasta.SplitRecords(decoded)
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d records, decoded %d", ErrRecordMismatch, len(want), len(got))
	}
	for i := range want {
		if !bytes.Equal(want[i], got[i]) {
			return fmt.Errorf("%w: record %d", ErrRecordMismatch, i)
		}
	}
	return nil
}

func terminated(text []byte) bool {
	return len(text) > 0 && text[len(text)-1] == fasta.Separator
}

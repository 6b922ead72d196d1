package rlbwt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/forestrie/go-onptbwt/rlbwttesting"
	"github.com/forestrie/go-onptbwt/runstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, fed []byte, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	for _, c := range fed {
		e.Extend(c)
	}
	return e
}

func TestEngineEmpty(t *testing.T) {
	e := New()
	assert.Equal(t, State{N: 0, Runs: 0, Last: 0}, e.State())

	out, err := e.Decompress()
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, e.BWT())

	_, _, err = e.LF(0)
	require.ErrorIs(t, err, ErrEndMarkerRow)
}

func TestEngineSingleSeparator(t *testing.T) {
	e := build(t, []byte{0})
	assert.Equal(t, State{N: 1, Runs: 1, Last: 1}, e.State())

	out, err := e.Decompress()
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, out)
	assert.Equal(t, []byte{0}, e.BWT())
}

// TestEnginePrefixCorrectness checks the transform and the end marker row
// against a rotation sort after every single Extend.
func TestEnginePrefixCorrectness(t *testing.T) {
	tests := []struct {
		name string
		fed  []byte
	}{
		{"two records forward", []byte("GATTACA\x00ACGT\x00")},
		{"two records reversed", rlbwttesting.Concat([][]byte{[]byte("GATTACA"), []byte("ACGT")}, true)},
		{"banana", []byte("banana")},
		{"single symbol", bytes.Repeat([]byte{'A'}, 40)},
		{"separators only", []byte{0, 0, 0}},
		{"high bytes", []byte{0xff, 0x00, 0x7f, 0xff, 0x80, 0x01}},
		{"synthetic genomes", rlbwttesting.Concat(rlbwttesting.Generate(rlbwttesting.GenConfig{
			Seed: 11, Records: 6, MinLen: 10, MaxLen: 30, Repeat: 0.5,
		}), true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			for k, c := range tt.fed {
				e.Extend(c)
				want, wantLast := rlbwttesting.NaiveBWT(tt.fed[:k+1])
				require.Equal(t, want, e.BWT(), "after %d characters", k+1)
				require.Equal(t, wantLast, e.Last(), "after %d characters", k+1)
				require.LessOrEqual(t, e.Runs(), e.Len())
			}
			require.NoError(t, e.CheckInvariants())
		})
	}
}

// TestEngineOrderMatters builds on T and on reverse(T); each is checked
// against its own reference.
func TestEngineOrderMatters(t *testing.T) {
	fwd := []byte("GATTACA\x00ACGT\x00")
	rev := rlbwttesting.Reversed(fwd)

	ef := build(t, fwd)
	er := build(t, rev)

	wantF, lastF := rlbwttesting.NaiveBWT(fwd)
	wantR, lastR := rlbwttesting.NaiveBWT(rev)
	assert.Equal(t, wantF, ef.BWT())
	assert.Equal(t, lastF, ef.Last())
	assert.Equal(t, wantR, er.BWT())
	assert.Equal(t, lastR, er.Last())
	assert.NotEqual(t, ef.BWT(), er.BWT())
}

func TestEngineExampleRoundTrip(t *testing.T) {
	fed := []byte("GATTACA\x00ACGT\x00")
	e := build(t, fed)
	require.Equal(t, uint64(12), e.Len())

	out, err := e.Decompress()
	require.NoError(t, err)
	assert.Equal(t, fed, out)

	var buf bytes.Buffer
	n, err := e.WriteBWT(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	for _, c := range []byte("\x00ACGT") {
		assert.Equal(t, bytes.Count(fed, []byte{c}), bytes.Count(buf.Bytes(), []byte{c}))
	}
}

func TestEngineRoundTripLarge(t *testing.T) {
	records := rlbwttesting.Generate(rlbwttesting.GenConfig{
		Seed: 5, Records: 200, MinLen: 50, MaxLen: 300, Repeat: 0.8,
	})
	for _, reverse := range []bool{true, false} {
		fed := rlbwttesting.Concat(records, reverse)
		e := build(t, fed)
		require.NoError(t, e.CheckInvariants())

		out, err := e.Decompress()
		require.NoError(t, err)
		require.Equal(t, fed, out)

		// separator fidelity
		assert.Equal(t, bytes.Split(fed, []byte{0}), bytes.Split(out, []byte{0}))

		st := e.Statistics()
		assert.Equal(t, uint64(len(fed)), st.N)
		assert.Greater(t, st.Store.Height, 1)
		// repetitive collections compress
		assert.Less(t, st.Runs, st.N/2)
	}
}

func TestEngineRepetitiveInputHasConstantRuns(t *testing.T) {
	e := build(t, bytes.Repeat([]byte{'A'}, 10000))
	assert.Equal(t, uint64(10000), e.Len())
	assert.Equal(t, uint64(1), e.Runs())
	assert.Equal(t, uint64(10000), e.Last())

	out, err := e.Decompress()
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{'A'}, 10000), out)
}

func TestEngineRunLengthLimitIsInvisible(t *testing.T) {
	fed := append(bytes.Repeat([]byte{'A'}, 300), []byte("CCAC\x00")...)
	e := build(t, fed, WithStoreOptions(runstore.WithMaxRunLength(7)))
	require.NoError(t, e.CheckInvariants())

	want, wantLast := rlbwttesting.NaiveBWT(fed)
	assert.Equal(t, want, e.BWT())
	assert.Equal(t, wantLast, e.Last())
	assert.Greater(t, e.Runs(), uint64(300/7))

	out, err := e.Decompress()
	require.NoError(t, err)
	assert.Equal(t, fed, out)
}

func TestEngineLF(t *testing.T) {
	fed := []byte("ACGT\x00")
	e := build(t, fed)

	_, _, err := e.LF(e.Len() + 1)
	require.ErrorIs(t, err, ErrPositionRange)
	_, _, err = e.LF(e.Last())
	require.ErrorIs(t, err, ErrEndMarkerRow)

	// Row 0 carries the first character fed and LF walks forward through
	// the input.
	row := uint64(0)
	for _, want := range fed {
		next, c, err := e.LF(row)
		require.NoError(t, err)
		require.Equal(t, want, c)
		row = next
	}
	assert.Equal(t, e.Last(), row)
}

func TestEngineWriteFeedsBytes(t *testing.T) {
	fed := []byte("ACGTTGCA\x00")
	e := New()
	n, err := e.Write(fed)
	require.NoError(t, err)
	assert.Equal(t, len(fed), n)
	assert.Equal(t, build(t, fed).BWT(), e.BWT())
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		return w.after, errors.New("disk full")
	}
	w.after -= len(p)
	return len(p), nil
}

func TestEngineWriteBWTLongRunsAndErrors(t *testing.T) {
	e := build(t, bytes.Repeat([]byte{'G'}, 3*writeChunk+5))
	var buf bytes.Buffer
	n, err := e.WriteBWT(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3*writeChunk+5), n)
	assert.Equal(t, bytes.Repeat([]byte{'G'}, 3*writeChunk+5), buf.Bytes())

	tests := []struct {
		name  string
		after int
	}{
		{"rejects everything", 0},
		{"accepts a prefix", 10},
		{"fails after the first chunk", writeChunk + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := e.WriteBWT(&failingWriter{after: tt.after})
			require.Error(t, err)
			assert.Equal(t, int64(tt.after), n)
		})
	}
}

func TestEngineWriteStatistics(t *testing.T) {
	e := build(t, []byte("GATTACA\x00ACGT\x00"))

	var brief, verbose strings.Builder
	require.NoError(t, e.WriteStatistics(&brief, false))
	require.NoError(t, e.WriteStatistics(&verbose, true))

	assert.Contains(t, brief.String(), "length (n)")
	assert.Contains(t, brief.String(), "12")
	assert.NotContains(t, brief.String(), "tree height")
	assert.Contains(t, verbose.String(), "tree height")
	assert.Contains(t, verbose.String(), "0x00")
	assert.Contains(t, verbose.String(), "'T'")
}

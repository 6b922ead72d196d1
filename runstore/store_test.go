package runstore

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expand materialises the store as a byte slice.
func expand(t *testing.T, s *Store) []byte {
	t.Helper()
	var out []byte
	require.NoError(t, s.ForEachRun(func(r Run) error {
		out = append(out, bytes.Repeat([]byte{r.Symbol}, int(r.Length))...)
		return nil
	}))
	return out
}

func naiveRank(model []byte, c byte, pos int) uint64 {
	return uint64(bytes.Count(model[:pos], []byte{c}))
}

func naiveRuns(model []byte) uint64 {
	var r uint64
	for i := range model {
		if i == 0 || model[i] != model[i-1] {
			r++
		}
	}
	return r
}

func TestStoreEmpty(t *testing.T) {
	s := New()
	assert.Equal(t, uint64(0), s.Len())
	assert.Equal(t, uint64(0), s.Runs())

	r, err := s.Rank('A', 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), r)

	_, err = s.CharAt(0)
	require.ErrorIs(t, err, ErrPositionRange)
	_, err = s.Rank('A', 1)
	require.ErrorIs(t, err, ErrPositionRange)
	_, _, err = s.Access(0)
	require.ErrorIs(t, err, ErrPositionRange)
	require.NoError(t, s.CheckInvariants())
}

func TestStoreInsertCases(t *testing.T) {
	type step struct {
		pos uint64
		c   byte
	}
	tests := []struct {
		name     string
		steps    []step
		want     string
		wantRuns uint64
	}{
		{"single", []step{{0, 'A'}}, "A", 1},
		{"grow left run", []step{{0, 'A'}, {1, 'A'}}, "AA", 1},
		{"grow at front", []step{{0, 'A'}, {0, 'A'}}, "AA", 1},
		{"new run at end", []step{{0, 'A'}, {1, 'C'}}, "AC", 2},
		{"new run at front", []step{{0, 'A'}, {0, 'C'}}, "CA", 2},
		{"split inside", []step{{0, 'A'}, {1, 'A'}, {2, 'A'}, {1, 'G'}}, "AGAA", 3},
		{"grow right run on boundary", []step{{0, 'A'}, {1, 'C'}, {1, 'C'}}, "ACC", 2},
		{"new run on boundary", []step{{0, 'A'}, {1, 'C'}, {1, 'T'}}, "ATC", 3},
		{"separator is ordinary", []step{{0, 'A'}, {1, 0}, {1, 0}}, "A\x00\x00", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, st := range tt.steps {
				require.NoError(t, s.Insert(st.pos, st.c))
			}
			assert.Equal(t, tt.want, string(expand(t, s)))
			assert.Equal(t, tt.wantRuns, s.Runs())
			require.NoError(t, s.CheckInvariants())
		})
	}
}

func TestStoreInsertOutOfRange(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(0, 'A'))
	err := s.Insert(2, 'A')
	require.ErrorIs(t, err, ErrPositionRange)
	assert.Equal(t, uint64(1), s.Len())
}

func TestStoreRepetitiveInputKeepsOneRun(t *testing.T) {
	s := New()
	for i := 0; i < 10000; i++ {
		require.NoError(t, s.Insert(uint64(i/2), 'A'))
	}
	assert.Equal(t, uint64(10000), s.Len())
	assert.Equal(t, uint64(1), s.Runs())
	assert.Equal(t, 1, s.Stats().Leaves)
	require.NoError(t, s.CheckInvariants())
}

func TestStoreMaxRunLengthSplitsRuns(t *testing.T) {
	s := New(WithMaxRunLength(4))
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Insert(uint64(i/3), 'A'))
	}
	assert.Equal(t, uint64(10), s.Len())
	assert.Equal(t, uint64(3), s.Runs())
	assert.Equal(t, "AAAAAAAAAA", string(expand(t, s)))

	var lens []uint64
	require.NoError(t, s.ForEachRun(func(r Run) error {
		lens = append(lens, r.Length)
		return nil
	}))
	for _, l := range lens {
		assert.LessOrEqual(t, l, uint64(4))
	}
	require.NoError(t, s.CheckInvariants())

	// a different symbol inside a full run still splits it
	require.NoError(t, s.Insert(2, 'C'))
	assert.Equal(t, "AACAAAAAAAA", string(expand(t, s)))
	require.NoError(t, s.CheckInvariants())
}

func TestStoreMatchesNaiveModel(t *testing.T) {
	tests := []struct {
		name     string
		alphabet []byte
		inserts  int
		maxRun   uint64
		seed     int64
	}{
		{"dna", []byte("ACGT\x00"), 6000, 0, 1},
		{"binary skewed", []byte("AAAAAAAB"), 6000, 0, 2},
		{"full byte range", nil, 3000, 0, 3},
		{"tiny run cap", []byte("AC"), 3000, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(tt.seed))
			s := New(WithMaxRunLength(tt.maxRun))
			var model []byte

			sym := func() byte {
				if tt.alphabet == nil {
					return byte(rng.Intn(256))
				}
				return tt.alphabet[rng.Intn(len(tt.alphabet))]
			}

			for i := 0; i < tt.inserts; i++ {
				pos := rng.Intn(len(model) + 1)
				c := sym()
				require.NoError(t, s.Insert(uint64(pos), c))
				model = append(model, 0)
				copy(model[pos+1:], model[pos:])
				model[pos] = c

				if i%97 == 0 {
					q := rng.Intn(len(model) + 1)
					qc := sym()
					got, err := s.Rank(qc, uint64(q))
					require.NoError(t, err)
					require.Equal(t, naiveRank(model, qc, q), got, "rank(%d, %d)", qc, q)
				}
				if i%89 == 0 && len(model) > 0 {
					q := rng.Intn(len(model))
					c, r, err := s.Access(uint64(q))
					require.NoError(t, err)
					require.Equal(t, model[q], c)
					require.Equal(t, naiveRank(model, c, q), r)
				}
			}

			require.NoError(t, s.CheckInvariants())
			require.Equal(t, model, expand(t, s))
			require.Equal(t, uint64(len(model)), s.Len())
			if tt.maxRun == 0 {
				require.Equal(t, naiveRuns(model), s.Runs())
			}
			require.LessOrEqual(t, s.Runs(), s.Len())

			for q := range model {
				c, err := s.CharAt(uint64(q))
				require.NoError(t, err)
				require.Equal(t, model[q], c)
			}
			st := s.Stats()
			assert.Greater(t, st.Height, 1)
			assert.Equal(t, s.Runs(), st.Runs)
			assert.NotZero(t, st.SizeBytes)
		})
	}
}

func TestStoreForEachRunStopsOnError(t *testing.T) {
	s := New()
	for i, c := range []byte("ACGT") {
		require.NoError(t, s.Insert(uint64(i), c))
	}
	stop := assert.AnError
	seen := 0
	err := s.ForEachRun(func(Run) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, seen)
}

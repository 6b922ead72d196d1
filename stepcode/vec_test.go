package stepcode

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps(t *testing.T) {
	type args struct {
		v uint64
	}
	tests := []struct {
		name string
		args args
		want uint8
	}{
		{"0 -> 1", args{0}, 1},
		{"1 -> 1", args{1}, 1},
		{"15 -> 1", args{15}, 1},
		{"16 -> 2", args{16}, 2},
		{"255 -> 2", args{255}, 2},
		{"256 -> 3", args{256}, 3},
		{"2^32-1 -> 8", args{math.MaxUint32}, 8},
		{"max -> 16", args{math.MaxUint64}, MaxSteps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Steps(tt.args.v); got != tt.want {
				t.Errorf("Steps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVecAppendGet(t *testing.T) {
	var v Vec
	values := []uint64{1, 15, 16, 3, math.MaxUint64, 0, 1 << 40, 7, 255, 256}
	for _, x := range values {
		v.Append(x)
	}
	require.Equal(t, len(values), v.Len())
	for i, x := range values {
		assert.Equal(t, x, v.Get(i), "index %d", i)
	}
	assert.Equal(t, values, v.Decode(nil))

	// 4+4+8+4+64+4+44+4+8+12
	assert.Equal(t, uint64(156), v.PayloadBits())
}

func TestVecSetKeepsNeighbours(t *testing.T) {
	var v Vec
	v.Encode([]uint64{3, 9, 14})

	// same width, in place
	v.Set(1, 10)
	assert.Equal(t, []uint64{3, 10, 14}, v.Decode(nil))

	// width grows
	v.Set(1, 1000)
	assert.Equal(t, []uint64{3, 1000, 14}, v.Decode(nil))

	// width shrinks
	v.Set(1, 2)
	assert.Equal(t, []uint64{3, 2, 14}, v.Decode(nil))
	assert.Equal(t, uint64(12), v.PayloadBits())
}

func TestVecInsert(t *testing.T) {
	var v Vec
	v.Insert(0, 5)
	v.Insert(0, 4)
	v.Insert(2, 6)
	v.Insert(1, 1<<20)
	assert.Equal(t, []uint64{4, 1 << 20, 5, 6}, v.Decode(nil))

	require.PanicsWithValue(t, ErrIndexRange, func() { v.Insert(6, 1) })
	require.PanicsWithValue(t, ErrIndexRange, func() { v.Get(4) })
	require.PanicsWithValue(t, ErrIndexRange, func() { v.Set(-1, 1) })
}

func TestVecMatchesSliceModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var v Vec
	var model []uint64

	for step := 0; step < 2000; step++ {
		x := rng.Uint64() >> uint(rng.Intn(64))
		switch op := rng.Intn(3); {
		case op == 0 || len(model) == 0:
			i := rng.Intn(len(model) + 1)
			v.Insert(i, x)
			model = append(model, 0)
			copy(model[i+1:], model[i:])
			model[i] = x
		case op == 1:
			i := rng.Intn(len(model))
			v.Set(i, x)
			model[i] = x
		default:
			i := rng.Intn(len(model))
			require.Equal(t, model[i], v.Get(i))
		}
		if len(model) > 40 {
			v.Encode(model[20:])
			model = append([]uint64(nil), model[20:]...)
		}
	}
	require.Equal(t, model, v.Decode(nil))
}

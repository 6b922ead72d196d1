package stepcode

import "errors"

const (
	// StepBits is the granularity of value widths.
	StepBits = 4

	// MaxSteps is the largest step count, 64 bit values.
	MaxSteps = 64 / StepBits
)

var ErrIndexRange = errors.New("stepcode: index out of range")

// Vec is a packed vector of step coded unsigned integers.
// The zero value is an empty vector ready for use.
type Vec struct {
	codes   []byte
	payload []uint64
	n       int
	nbits   uint64
}

// Len returns the number of values in the vector.
func (v *Vec) Len() int { return v.n }

// PayloadBits returns the number of payload bits in use.
func (v *Vec) PayloadBits() uint64 { return v.nbits }

// SizeBytes returns the number of bytes allocated for codes and payload.
func (v *Vec) SizeBytes() uint64 {
	return uint64(cap(v.codes)) + 8*uint64(cap(v.payload))
}

func (v *Vec) code(i int) uint8 {
	return (v.codes[i>>1] >> (4 * uint(i&1))) & 0xF
}

func (v *Vec) setCode(i int, steps uint8) {
	b := &v.codes[i>>1]
	sh := 4 * uint(i&1)
	*b = (*b &^ (0xF << sh)) | ((steps - 1) << sh)
}

// offset returns the payload bit offset of value i.
func (v *Vec) offset(i int) uint64 {
	var off uint64
	for j := 0; j < i; j++ {
		off += uint64(Width(v.code(j) + 1))
	}
	return off
}

// Get returns value i.
func (v *Vec) Get(i int) uint64 {
	if i < 0 || i >= v.n {
		panic(ErrIndexRange)
	}
	return readBits(v.payload, v.offset(i), Width(v.code(i)+1))
}

// Append adds x at the end of the vector.
func (v *Vec) Append(x uint64) {
	steps := Steps(x)
	w := Width(steps)

	if v.n>>1 >= len(v.codes) {
		v.codes = append(v.codes, 0)
	}
	v.setCode(v.n, steps)

	need := wordsFor(v.nbits + uint64(w))
	for len(v.payload) < need {
		v.payload = append(v.payload, 0)
	}
	writeBits(v.payload, v.nbits, w, x)
	v.nbits += uint64(w)
	v.n++
}

// Decode appends every value, in order, to dst and returns the result.
func (v *Vec) Decode(dst []uint64) []uint64 {
	var off uint64
	for i := 0; i < v.n; i++ {
		w := Width(v.code(i) + 1)
		dst = append(dst, readBits(v.payload, off, w))
		off += uint64(w)
	}
	return dst
}

// Encode replaces the contents of the vector with values.
// The existing allocations are reused where possible.
func (v *Vec) Encode(values []uint64) {
	v.Reset()
	for _, x := range values {
		v.Append(x)
	}
}

// Reset empties the vector, keeping its allocations.
func (v *Vec) Reset() {
	clear(v.codes)
	clear(v.payload)
	v.codes = v.codes[:0]
	v.payload = v.payload[:0]
	v.n = 0
	v.nbits = 0
}

// Set replaces value i with x.
func (v *Vec) Set(i int, x uint64) {
	if i < 0 || i >= v.n {
		panic(ErrIndexRange)
	}
	// Same width updates happen in place, which is the common case for
	// incrementing a run length.
	steps := Steps(x)
	if steps == v.code(i)+1 {
		off := v.offset(i)
		w := Width(steps)
		clearBits(v.payload, off, w)
		writeBits(v.payload, off, w, x)
		return
	}
	values := v.Decode(make([]uint64, 0, v.n))
	values[i] = x
	v.Encode(values)
}

// Insert places x at index i, shifting later values up by one.
// i may equal Len.
func (v *Vec) Insert(i int, x uint64) {
	if i < 0 || i > v.n {
		panic(ErrIndexRange)
	}
	if i == v.n {
		v.Append(x)
		return
	}
	values := v.Decode(make([]uint64, 0, v.n+1))
	values = append(values, 0)
	copy(values[i+1:], values[i:])
	values[i] = x
	v.Encode(values)
}

func clearBits(words []uint64, off uint64, w uint) {
	i, sh := off/64, off%64
	var mask uint64 = ^uint64(0)
	if w < 64 {
		mask = (1 << w) - 1
	}
	words[i] &^= mask << sh
	if sh+uint64(w) > 64 {
		words[i+1] &^= mask >> (64 - sh)
	}
}

package stepcode

import "math/bits"

// Steps returns the number of StepBits sized steps needed to represent v.
// Zero needs one step.
func Steps(v uint64) uint8 {
	n := bits.Len64(v)
	if n == 0 {
		return 1
	}
	return uint8((n + StepBits - 1) / StepBits)
}

// Width returns the payload width in bits of a value needing steps steps.
func Width(steps uint8) uint {
	return uint(steps) * StepBits
}

// readBits reads w bits starting at bit offset off, LSB0.
func readBits(words []uint64, off uint64, w uint) uint64 {
	i, sh := off/64, off%64
	v := words[i] >> sh
	if sh+uint64(w) > 64 {
		v |= words[i+1] << (64 - sh)
	}
	if w < 64 {
		v &= (1 << w) - 1
	}
	return v
}

// writeBits ors the low w bits of v into words at bit offset off. The
// destination bits must be zero.
func writeBits(words []uint64, off uint64, w uint, v uint64) {
	i, sh := off/64, off%64
	words[i] |= v << sh
	if sh+uint64(w) > 64 {
		words[i+1] |= v >> (64 - sh)
	}
}

func wordsFor(nbits uint64) int {
	return int((nbits + 63) / 64)
}

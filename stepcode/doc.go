package stepcode

/*

# Step coded integer vectors

This package provides a small packed vector of unsigned integers used by the
run store leaves to hold run lengths.

Get, Set and Insert panic with ErrIndexRange for an index outside the vector.
Callers on hot paths are expected to know their indices are valid.

## Layout

Every value is stored with a width that is a whole number of steps, where a
step is StepBits (4) bits. A value needs

	steps(v) = max(1, ceil(bitlen(v) / StepBits))

steps, so a run of length 1..15 costs 4 payload bits, 16..255 costs 8 bits and
so on up to 64 bits for the largest values.

The step count of each value, minus one, is a 4 bit code. Codes are packed two
per byte, the code for value i lives in byte i/2 at nibble i%2 (nibble 0 is
the least significant nibble).

Payload bits are packed LSB0 into a []uint64: bit 0 is the least significant
bit of word 0, and a value may straddle two words.

	codes:   | c1 c0 | c3 c2 | ...
	payload: | v0 | v1 | v2 | v3 | ...   (variable width, contiguous)

Reading value i requires the sum of the widths of the values before it, so
Get is linear in i. Vectors are intended to be small (a leaf holds a few dozen
runs) and the sequential Decode is the preferred way to scan them.

*/

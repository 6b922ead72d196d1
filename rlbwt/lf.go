package rlbwt

import "fmt"

// LF maps row to the row of the rotation one character further left in the
// indexed text, and returns the last column symbol of row. Rows range over
// [0, Len()]; the end marker row has no image.
func (e *Engine) LF(row uint64) (uint64, byte, error) {
	if row > e.n {
		return 0, 0, fmt.Errorf("%w: row %d, rows 0..%d", ErrPositionRange, row, e.n)
	}
	if row == e.last {
		return 0, 0, ErrEndMarkerRow
	}
	return e.lf(row)
}

// lf is LF for a row known to be in range and not the end marker row.
func (e *Engine) lf(row uint64) (uint64, byte, error) {
	// The store does not hold the marker, rows after it shift down by one.
	pos := row
	if row > e.last {
		pos--
	}
	c, rank, err := e.store.Access(pos)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrStructureCorrupted, err)
	}
	return 1 + e.ranks.Less(c) + rank, c, nil
}

// Decompress inverts the transform, returning exactly the bytes fed, in the
// order they were fed.
func (e *Engine) Decompress() ([]byte, error) {
	out := make([]byte, e.n)
	var row uint64
	for i := range out {
		if row == e.last {
			return out[:i], fmt.Errorf("%w: reached row %d after %d of %d steps", ErrInversionDiverged, row, i, e.n)
		}
		next, c, err := e.lf(row)
		if err != nil {
			return out[:i], err
		}
		out[i] = c
		row = next
	}
	if row != e.last {
		return out, fmt.Errorf("%w: ended on row %d, end marker row is %d", ErrInversionDiverged, row, e.last)
	}
	return out, nil
}

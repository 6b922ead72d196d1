package rlbwt

import (
	"bufio"
	"bytes"
	"io"

	"github.com/forestrie/go-onptbwt/runstore"
)

const writeChunk = 32 * 1024

// countingWriter records how many bytes the underlying writer accepted.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteBWT writes the expanded transform, exactly Len() bytes without the end
// marker. It returns the number of bytes w accepted, which on error is the
// length of the prefix that reached w.
func (e *Engine) WriteBWT(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, writeChunk)
	var chunk []byte
	err := e.store.ForEachRun(func(r runstore.Run) error {
		for left := r.Length; left > 0; {
			k := min(left, writeChunk)
			if len(chunk) < int(k) || chunk[0] != r.Symbol {
				chunk = bytes.Repeat([]byte{r.Symbol}, int(min(r.Length, writeChunk)))
			}
			if _, err := bw.Write(chunk[:k]); err != nil {
				return err
			}
			left -= k
		}
		return nil
	})
	if err == nil {
		err = bw.Flush()
	}
	return cw.n, err
}

// BWT returns the expanded transform as a byte slice.
func (e *Engine) BWT() []byte {
	var buf bytes.Buffer
	buf.Grow(int(e.n))
	// bytes.Buffer writes do not fail
	_, _ = e.WriteBWT(&buf)
	return buf.Bytes()
}

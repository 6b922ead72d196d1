package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// multiReadCloser closes every closer, reporting the first failure.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path. "-" is stdin. Gzip input is recognised by
// its magic number, or for files a .gz suffix, and decompressed
// transparently.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		// stdin is never closed
		return wrap(os.Stdin, false, io.NopCloser(os.Stdin))
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrap(fh, strings.HasSuffix(path, ".gz"), fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return rc, nil
}

// wrap buffers r and, when it starts with the gzip magic number or gz is set,
// decompresses it. closer is closed with the returned reader.
func wrap(r io.Reader, gz bool, closer io.Closer) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	sig, _ := br.Peek(2)
	if !gz && !(len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b) {
		return &multiReadCloser{Reader: br, closers: []io.Closer{closer}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, closer}}, nil
}

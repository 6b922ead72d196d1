package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Separator terminates every record in the text handed to the builder.
const Separator byte = 0x00

var (
	ErrSeparatorInData = errors.New("fasta: sequence data contains the 0x00 record separator")
	ErrUnknownOrder    = errors.New("fasta: unknown record order")
)

// Order selects whether records are emitted as read or reversed. The builder
// indexes its input back to front, so Reverse makes the transform that of the
// records as written.
type Order int

const (
	Reverse Order = iota
	Forward
)

func (o Order) String() string {
	switch o {
	case Reverse:
		return "reverse"
	case Forward:
		return "forward"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder accepts the names produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "reverse":
		return Reverse, nil
	case "forward":
		return Forward, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Text is the builder input produced from a FASTA file.
type Text struct {
	Data    []byte
	Records int
}

// Load reads the FASTA file at path. See Read.
func Load(path string, order Order) (Text, error) {
	rc, err := Open(path)
	if err != nil {
		return Text{}, err
	}
	defer rc.Close()
	return Read(rc, order)
}

// Read concatenates the records of a FASTA stream, each followed by
// Separator. Header lines are dropped, blank lines skipped and sequence lines
// trimmed of surrounding whitespace. Sequence text appearing before any
// header forms a record of its own. Records left empty by consecutive headers
// are dropped, but the last record is always written, so an empty stream
// yields a single Separator.
func Read(r io.Reader, order Order) (Text, error) {
	if order != Reverse && order != Forward {
		return Text{}, fmt.Errorf("%w: %d", ErrUnknownOrder, int(order))
	}
	br := bufio.NewReaderSize(r, 64*1024)

	var out Text
	var rec []byte
	emit := func() {
		if order == Reverse {
			slices.Reverse(rec)
		}
		out.Data = append(out.Data, rec...)
		out.Data = append(out.Data, Separator)
		out.Records++
		rec = rec[:0]
	}

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSpace(line)
			switch {
			case len(line) == 0:
			case line[0] == '>':
				// a header only closes a record that has sequence
				if len(rec) > 0 {
					emit()
				}
			default:
				if bytes.IndexByte(line, Separator) >= 0 {
					return Text{}, fmt.Errorf("%w: line %d", ErrSeparatorInData, lineNo)
				}
				rec = append(rec, line...)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Text{}, err
		}
	}
	// the final record is always emitted, even when empty
	emit()
	return out, nil
}

// SplitRecords splits text on Separator. The empty field after the final
// separator is dropped.
func SplitRecords(text []byte) [][]byte {
	if len(text) == 0 {
		return nil
	}
	fields := bytes.Split(text, []byte{Separator})
	if len(fields[len(fields)-1]) == 0 {
		fields = fields[:len(fields)-1]
	}
	return fields
}

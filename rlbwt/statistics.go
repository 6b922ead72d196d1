package rlbwt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/forestrie/go-onptbwt/runstore"
)

// Statistics summarises an engine's size.
type Statistics struct {
	N       uint64
	Runs    uint64
	Last    uint64
	Symbols int
	Store   runstore.Stats
}

// AvgRunLength returns n/r, or 0 for an empty engine.
func (s Statistics) AvgRunLength() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.N) / float64(s.Runs)
}

// BitsPerSymbol returns the approximate heap footprint in bits per fed byte.
func (s Statistics) BitsPerSymbol() float64 {
	if s.N == 0 {
		return 0
	}
	return float64(8*s.Store.SizeBytes) / float64(s.N)
}

func (e *Engine) Statistics() Statistics {
	return Statistics{
		N:       e.n,
		Runs:    e.store.Runs(),
		Last:    e.last,
		Symbols: e.ranks.Distinct(),
		Store:   e.store.Stats(),
	}
}

// WriteStatistics writes a human readable report. verbose adds the tree
// shape and a per symbol table.
func (e *Engine) WriteStatistics(w io.Writer, verbose bool) error {
	st := e.Statistics()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	lines := []string{
		"statistics\t",
		fmt.Sprintf("length (n)\t%d", st.N),
		fmt.Sprintf("runs (r)\t%d", st.Runs),
		fmt.Sprintf("n/r\t%.3f", st.AvgRunLength()),
		fmt.Sprintf("end marker row\t%d", st.Last),
		fmt.Sprintf("distinct symbols\t%d", st.Symbols),
		fmt.Sprintf("size bytes\t%d", st.Store.SizeBytes),
		fmt.Sprintf("bits per symbol\t%.3f", st.BitsPerSymbol()),
	}
	if verbose {
		lines = append(lines,
			fmt.Sprintf("tree height\t%d", st.Store.Height),
			fmt.Sprintf("leaves\t%d", st.Store.Leaves),
			fmt.Sprintf("inner nodes\t%d", st.Store.InnerNodes),
			fmt.Sprintf("run length payload bits\t%d", st.Store.PayloadBits),
			"symbol\tcount",
		)
		e.ranks.Each(func(c byte, count uint64) {
			lines = append(lines, fmt.Sprintf("%s\t%d", symbolName(c), count))
		})
	}
	if _, err := io.WriteString(tw, strings.Join(lines, "\n")+"\n"); err != nil {
		return err
	}
	return tw.Flush()
}

func symbolName(c byte) string {
	if c > ' ' && c < 0x7f {
		return fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("0x%02x", c)
}

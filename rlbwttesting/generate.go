package rlbwttesting

import (
	"bytes"
	"math/rand"
	"strconv"
)

const Nucleotides = "ACGT"

// GenConfig controls the synthetic genomes produced by Generate.
type GenConfig struct {
	// Seed the RNG. It is normal to force this to a fixed value so that the
	// generated data is the same from run to run.
	Seed    int64
	Records int
	MinLen  int
	MaxLen  int
	// Repeat is the probability that a record is a mutated copy of an earlier
	// one, which is what makes real collections of genomes compress well.
	Repeat float64
}

// Generate returns Records DNA sequences.
func Generate(cfg GenConfig) [][]byte {
	rng := rand.New(rand.NewSource(cfg.Seed))
	records := make([][]byte, 0, cfg.Records)
	for i := 0; i < cfg.Records; i++ {
		if i > 0 && rng.Float64() < cfg.Repeat {
			src := records[rng.Intn(len(records))]
			seq := bytes.Clone(src)
			if len(seq) > 0 {
				seq[rng.Intn(len(seq))] = Nucleotides[rng.Intn(4)]
			}
			records = append(records, seq)
			continue
		}
		n := cfg.MinLen
		if cfg.MaxLen > cfg.MinLen {
			n += rng.Intn(cfg.MaxLen - cfg.MinLen + 1)
		}
		seq := make([]byte, n)
		for j := range seq {
			seq[j] = Nucleotides[rng.Intn(4)]
		}
		records = append(records, seq)
	}
	return records
}

// Concat joins records, writing a 0x00 separator after each one. When
// reverse is set every record is reversed first.
func Concat(records [][]byte, reverse bool) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		if reverse {
			buf.Write(Reversed(r))
		} else {
			buf.Write(r)
		}
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// FASTA renders records as FASTA text wrapped at width columns.
func FASTA(records [][]byte, width int) []byte {
	var buf bytes.Buffer
	for i, r := range records {
		buf.WriteString(">seq")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(" synthetic\n")
		for off := 0; off < len(r); off += width {
			end := min(off+width, len(r))
			buf.Write(r[off:end])
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

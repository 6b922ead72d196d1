// Package ranktable keeps per-symbol totals for a byte alphabet and answers
// "how many symbols sort strictly below c" with a Fenwick tree.
package ranktable

// Sigma is the alphabet size.
const Sigma = 256

// Table is the running per-symbol count table of a growing string. The zero
// value is an empty table.
type Table struct {
	// tree is a 1 based Fenwick tree over counts
	tree   [Sigma + 1]uint64
	counts [Sigma]uint64
	total  uint64
}

// Add records one more occurrence of c.
func (t *Table) Add(c byte) {
	t.AddN(c, 1)
}

// AddN records n more occurrences of c.
func (t *Table) AddN(c byte, n uint64) {
	t.counts[c] += n
	t.total += n
	for i := int(c) + 1; i <= Sigma; i += i & -i {
		t.tree[i] += n
	}
}

// Less returns the number of recorded symbols strictly less than c.
func (t *Table) Less(c byte) uint64 {
	var sum uint64
	for i := int(c); i > 0; i -= i & -i {
		sum += t.tree[i]
	}
	return sum
}

// Count returns the number of occurrences of c.
func (t *Table) Count(c byte) uint64 { return t.counts[c] }

// Total returns the number of recorded symbols.
func (t *Table) Total() uint64 { return t.total }

// Distinct returns the number of symbols with a non zero count.
func (t *Table) Distinct() int {
	n := 0
	for _, c := range t.counts {
		if c != 0 {
			n++
		}
	}
	return n
}

// Each calls fn for every symbol with a non zero count, in symbol order.
func (t *Table) Each(fn func(c byte, count uint64)) {
	for c, n := range t.counts {
		if n != 0 {
			fn(byte(c), n)
		}
	}
}

package runstore

// symWeights is a sparse per symbol count, one entry per symbol present in
// the subtree.
type symWeights struct {
	syms   []byte
	counts []uint64
}

func (w *symWeights) get(c byte) uint64 {
	for i, s := range w.syms {
		if s == c {
			return w.counts[i]
		}
	}
	return 0
}

func (w *symWeights) add(c byte, n uint64) {
	for i, s := range w.syms {
		if s == c {
			w.counts[i] += n
			return
		}
	}
	w.syms = append(w.syms, c)
	w.counts = append(w.counts, n)
}

func (w *symWeights) addAll(o *symWeights) {
	for i, s := range o.syms {
		w.add(s, o.counts[i])
	}
}

func (w *symWeights) reset() {
	w.syms = w.syms[:0]
	w.counts = w.counts[:0]
}

func (w *symWeights) sizeBytes() uint64 {
	return uint64(cap(w.syms)) + 8*uint64(cap(w.counts))
}

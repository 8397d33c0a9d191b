package naive

import (
	"github.com/bioseed/seedalign/fmindex"
)

// Index is a fmindex.Index backed by explicit suffix arrays of the
// reference and of its reversal, rather than a BWT with succinct rank
// structures. Every MapLF/Fchr/Ftab call recomputes both bounds from
// scratch via binary search instead of O(1) LF-mapping; this package
// exists for correctness and testability, not for genome-scale speed.
type Index struct {
	ref       []byte // forward reference, ASCII A/C/G/T
	revRef    []byte // ref reversed
	saF       []int32
	saB       []int32
	ftabWidth int
}

// Build constructs a naive Index over ref (uppercase A/C/G/T only; see
// package refgenome for translating a loaded genome into this form).
// ftabWidth is the k-mer length Ftab can resolve in one lookup.
func Build(ref []byte, ftabWidth int) *Index {
	rev := make([]byte, len(ref))
	for i, b := range ref {
		rev[len(ref)-1-i] = b
	}
	return &Index{
		ref:       ref,
		revRef:    rev,
		saF:       buildSuffixArray(ref),
		saB:       buildSuffixArray(rev),
		ftabWidth: ftabWidth,
	}
}

func (ix *Index) FtabWidth() int { return ix.ftabWidth }

func (ix *Index) Length() int { return len(ix.ref) }

func (ix *Index) search(w []byte) (fmindex.Interval, bool) {
	topf, botf := searchPrefix(ix.saF, ix.ref, w)
	rw := make([]byte, len(w))
	for i, b := range w {
		rw[len(w)-1-i] = b
	}
	topb, botb := searchPrefix(ix.saB, ix.revRef, rw)
	iv := fmindex.Interval{TopF: topf, BotF: botf, TopB: topb, BotB: botb}
	return iv, iv.Valid()
}

func (ix *Index) Fchr(c byte) fmindex.Interval {
	iv, _ := ix.search([]byte{c})
	return iv
}

func (ix *Index) Ftab(kmer []byte) (fmindex.Interval, bool) {
	return ix.search(kmer)
}

func (ix *Index) NewSideLocus() *fmindex.SideLocus {
	return &fmindex.SideLocus{}
}

// PrepLocus is a no-op for the naive backend: every MapLF call already
// recomputes both bounds from scratch, so there is no side-block state
// worth caching. A succinct FM-index would populate loc here.
func (ix *Index) PrepLocus(loc *fmindex.SideLocus, top, bot int) {
	loc.SetImpl(nil)
}

func (ix *Index) MapLF(iv fmindex.Interval, refLen int, c byte, mirror bool, loc *fmindex.SideLocus) (fmindex.Interval, bool) {
	pos := int(ix.saF[iv.TopF])
	matched := ix.ref[pos : pos+refLen]

	var w []byte
	if mirror {
		// Extending right: append c after the matched substring.
		w = make([]byte, refLen+1)
		copy(w, matched)
		w[refLen] = c
	} else {
		// Extending left: prepend c before the matched substring.
		w = make([]byte, refLen+1)
		w[0] = c
		copy(w[1:], matched)
	}
	return ix.search(w)
}

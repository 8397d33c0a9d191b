// Package naive implements fmindex.Index over an explicit suffix array
// of the reference and of its reversal, built with a parallel stable
// merge sort. It trades the succinct BWT/LF-mapping machinery a real
// FM-index uses for a plain substring search at every step; correct by
// construction, and fast enough for the reference sizes exercised by
// tests and the example genomes under refgenome.
package naive

import (
	"sort"

	psort "github.com/exascience/pargo/sort"
)

// suffixArray sorts a slice of int32 suffix-start positions into a
// suffix array over text, following the pattern of elprep's
// stableIntervalSorter/AlignmentSorter (intervals.go, sam-types.go):
// SequentialSort handles small runs directly, NewTemp/Assign let the
// parallel merge stage allocate and copy without knowing our element
// type.
type suffixArray struct {
	idx  []int32
	text []byte
}

func (s *suffixArray) Len() int { return len(s.idx) }

func (s *suffixArray) Less(i, j int) bool {
	return compareSuffixes(s.text, s.idx[i], s.idx[j]) < 0
}

func (s *suffixArray) SequentialSort(i, j int) {
	sub := s.idx[i:j]
	sort.SliceStable(sub, func(a, b int) bool {
		return compareSuffixes(s.text, sub[a], sub[b]) < 0
	})
}

func (s *suffixArray) NewTemp() psort.StableSorter {
	return &suffixArray{idx: make([]int32, len(s.idx)), text: s.text}
}

func (s *suffixArray) Assign(source psort.StableSorter) func(i, j, len int) {
	src := source.(*suffixArray)
	return func(i, j, n int) {
		copy(s.idx[i:i+n], src.idx[j:j+n])
	}
}

// compareSuffixes orders the full suffixes of text starting at i and j,
// treating running off the end of text as smaller than any byte (the
// usual sentinel-terminator convention for suffix arrays).
func compareSuffixes(text []byte, i, j int32) int {
	n := int32(len(text))
	for {
		ie, je := i >= n, j >= n
		if ie && je {
			return 0
		}
		if ie {
			return -1
		}
		if je {
			return 1
		}
		if a, b := text[i], text[j]; a != b {
			if a < b {
				return -1
			}
			return 1
		}
		i++
		j++
	}
}

// buildSuffixArray returns the suffix array of text, sorted in
// parallel via psort.StableSort.
func buildSuffixArray(text []byte) []int32 {
	idx := make([]int32, len(text))
	for i := range idx {
		idx[i] = int32(i)
	}
	psort.StableSort(&suffixArray{idx: idx, text: text})
	return idx
}

// prefixCmp compares the suffix of text at pos against w, considering
// only the first len(w) bytes: -1/0/1 as that suffix sorts before,
// within (has w as a true prefix), or after w.
func prefixCmp(text []byte, pos int, w []byte) int {
	n := len(text)
	for k, b := range w {
		if pos+k >= n {
			return -1
		}
		if a := text[pos+k]; a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// searchPrefix returns the [lo,hi) range of sa whose suffix in text has
// w as a prefix.
func searchPrefix(sa []int32, text []byte, w []byte) (lo, hi int) {
	lo = sort.Search(len(sa), func(i int) bool {
		return prefixCmp(text, int(sa[i]), w) >= 0
	})
	hi = lo + sort.Search(len(sa)-lo, func(i int) bool {
		return prefixCmp(text, int(sa[lo+i]), w) > 0
	})
	return lo, hi
}

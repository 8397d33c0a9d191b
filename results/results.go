// Package results implements SeedResults, the per-read hit buckets
// spec.md §4.5 describes: one bucket per (seed offset index,
// orientation), ranked by size once sort is called.
package results

import (
	"sort"

	"github.com/bioseed/seedalign/cache"
)

// bucket is one (offset, orientation) slot's contents.
type bucket struct {
	set     bool
	qv      cache.QVal
	offIdx  int
	off     int
	fw      bool
	seedLen int
}

// SeedResults holds every seed-search outcome for one read: a bucket
// per (seedOffIdx, orientation), plus the ranking sort produces.
//
// Per spec.md §5, one SeedResults belongs to exactly one read and is
// owned by exactly one goroutine for the read's lifetime; nothing here
// is synchronized.
type SeedResults struct {
	hitsFw []bucket
	hitsRc []bucket

	numOffs int

	totalElts int
	totalSet  int

	sorted   bool
	rankOffs []int
	rankFws  []bool
}

// Reset clears r for numOffs offsets, discarding any previous read's
// buckets — the "clear sr" step of spec.md §4.4.1.
func (r *SeedResults) Reset(numOffs int) {
	r.numOffs = numOffs
	r.hitsFw = make([]bucket, numOffs)
	r.hitsRc = make([]bucket, numOffs)
	r.totalElts = 0
	r.totalSet = 0
	r.sorted = false
	r.rankOffs = nil
	r.rankFws = nil
}

func (r *SeedResults) bucketsFor(fw bool) []bucket {
	if fw {
		return r.hitsFw
	}
	return r.hitsRc
}

// Add stores qv at the bucket for (seedOffIdx, fw). Precondition: the
// bucket must not already be set, and qv must be valid w.r.t. the
// cache it came from. off and seedLen are recorded for later
// HitsByRank lookups.
func (r *SeedResults) Add(qv cache.QVal, seedOffIdx int, off int, fw bool, seedLen int) {
	if !qv.RepOk() {
		panic("results: Add with an invalid QVal")
	}
	bs := r.hitsFw
	if !fw {
		bs = r.hitsRc
	}
	if bs[seedOffIdx].set {
		panic("results: Add: bucket already set")
	}
	bs[seedOffIdx] = bucket{set: true, qv: qv, offIdx: seedOffIdx, off: off, fw: fw, seedLen: seedLen}

	r.totalElts += qv.NumElts()
	r.totalSet++
	r.sorted = false
}

// Sort produces a non-decreasing ranking of the non-empty buckets by
// NumElts, stable with respect to insertion order for ties: entries
// are appended forward buckets first (in offidx order), then
// reverse-complement buckets (in offidx order), so a stable sort over
// that slice keeps ties in fw-before-rc, lower-offidx-first order per
// spec.md §4.5 and §8 invariant 5.
func (r *SeedResults) Sort() {
	type entry struct {
		offIdx int
		fw     bool
	}
	var entries []entry
	for i := range r.hitsFw {
		if r.hitsFw[i].set && !r.hitsFw[i].qv.Empty() {
			entries = append(entries, entry{i, true})
		}
	}
	for i := range r.hitsRc {
		if r.hitsRc[i].set && !r.hitsRc[i].qv.Empty() {
			entries = append(entries, entry{i, false})
		}
	}

	numElts := func(e entry) int {
		return r.bucketsFor(e.fw)[e.offIdx].qv.NumElts()
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return numElts(entries[a]) < numElts(entries[b])
	})

	r.rankOffs = make([]int, len(entries))
	r.rankFws = make([]bool, len(entries))
	for i, e := range entries {
		r.rankOffs[i] = e.offIdx
		r.rankFws[i] = e.fw
	}
	r.sorted = true
}

// HitsByRank returns the rank-r bucket's QVal and its
// (offIdx, off, fw, seedLen). Requires Sort to have been called since
// the last Add.
func (r *SeedResults) HitsByRank(rank int) (cache.QVal, int, int, bool, int) {
	if !r.sorted {
		panic("results: HitsByRank called before Sort")
	}
	offIdx := r.rankOffs[rank]
	fw := r.rankFws[rank]
	b := r.bucketsFor(fw)[offIdx]
	return b.qv, b.offIdx, b.off, b.fw, b.seedLen
}

// NumRanks returns the number of non-empty buckets, i.e. the valid
// range of HitsByRank's argument.
func (r *SeedResults) NumRanks() int {
	return len(r.rankOffs)
}

// TotalElts returns the aggregate NumElts across every set bucket.
func (r *SeedResults) TotalElts() int {
	return r.totalElts
}

// RepOk verifies that the aggregate counters agree with the per-bucket
// contents, per spec.md §4.5.
func (r *SeedResults) RepOk() bool {
	elts, set := 0, 0
	for _, b := range r.hitsFw {
		if b.set {
			elts += b.qv.NumElts()
			set++
		}
	}
	for _, b := range r.hitsRc {
		if b.set {
			elts += b.qv.NumElts()
			set++
		}
	}
	return elts == r.totalElts && set == r.totalSet
}

// Package cache implements the two-tier alignment cache spec.md §4.6
// describes as consumed by the aligner: a per-thread Local tier backed
// by a plain map, and a process-wide Global tier backed by
// github.com/exascience/pargo/sync's sharded concurrent map, the same
// structure elprep uses for its duplicate-fragment tables
// (filters/mark-duplicates.go's classifyFragment/classifyPair).
package cache

import (
	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/internal"
	"github.com/bioseed/seedalign/seed"
)

// QVal is the cached outcome of searching one seed sequence: the
// intervals found and, for each, the edit trail that produced it.
// Lifecycle per spec.md §3: written once by whichever goroutine's
// search misses both cache tiers, read many times afterward.
type QVal struct {
	Intervals []fmindex.Interval
	Edits     [][]seed.Edit
}

// Empty reports whether the search that produced this QVal found no
// hits at all (a legitimate, cacheable outcome distinct from "not yet
// searched").
func (q QVal) Empty() bool {
	return len(q.Intervals) == 0
}

// Valid reports whether q's shape is internally consistent.
func (q QVal) Valid() bool {
	return len(q.Intervals) == len(q.Edits)
}

// NumRanges returns the number of distinct hit intervals.
func (q QVal) NumRanges() int {
	return len(q.Intervals)
}

// NumElts returns the total number of reference occurrences across
// every interval — the quantity results.SeedResults.Sort ranks by.
func (q QVal) NumElts() int {
	n := 0
	for _, iv := range q.Intervals {
		n += iv.Size()
	}
	return n
}

// RepOk verifies q's internal invariants: parallel slices of equal
// length, every interval valid.
func (q QVal) RepOk() bool {
	if !q.Valid() {
		return false
	}
	for _, iv := range q.Intervals {
		if !iv.Valid() {
			return false
		}
	}
	return true
}

// AlignmentCache is the minimal contract package align relies on
// (spec.md §4.6): at-most-one-concurrent-producer-per-key is the
// cache's own problem, not the aligner's.
type AlignmentCache interface {
	Lookup(seedSeq string) (QVal, bool)
	Add(seedSeq string, qv QVal)
}

// Local is the per-read, per-thread cache tier: a plain Go map, never
// shared across goroutines. Checked before Global on every lookup, per
// spec.md §4.4.1a.
type Local struct {
	entries map[string]QVal
}

// NewLocal returns an empty Local cache.
func NewLocal() *Local {
	return &Local{entries: make(map[string]QVal)}
}

func (c *Local) Lookup(seedSeq string) (QVal, bool) {
	qv, ok := c.entries[seedSeq]
	return qv, ok
}

func (c *Local) Add(seedSeq string, qv QVal) {
	c.entries[seedSeq] = qv
}

// Clear empties the cache; used by tests to exercise the idempotence
// property of spec.md §8 invariant 4 ("rerunning ... with a cleared
// local cache produces the same SeedResults").
func (c *Local) Clear() {
	c.entries = make(map[string]QVal)
}

// seqKey makes a plain string hashable, as github.com/exascience/pargo/sync's
// sharded Map requires of its keys (see utils/symbol.go's symbolName).
type seqKey string

func (k seqKey) Hash() uint64 {
	return internal.StringHash(string(k))
}

// Package metrics implements the counters the seed-alignment core
// accumulates while searching, and the optional observational sinks
// spec.md §9 requires to be mutex-protected callbacks that never
// influence the search path.
package metrics

import "sync"

// SACounters is one seed search's worth of suffix-array/BW-operation
// counters, as emitted to a SeedActionSink. Kept separate from the
// aggregate SeedSearchMetrics so a sink can see per-seed detail
// without locking the shared aggregate.
type SACounters struct {
	Bwops   int
	Bwedits int
}

// SeedSearchMetrics is the process-wide aggregate of every search
// performed. Merge folds fields in under an internal mutex; read the
// fields only after all producers have finished.
type SeedSearchMetrics struct {
	mu sync.Mutex

	Seedsearch  int64
	Possearch   int64
	Bwops       int64
	Bwedits     int64
	Ooms        int64
	Filteredseed int64

	Match   int64
	Edit    int64
	MatchD  [4]int64
	EditD   [4]int64

	Intrahit int64
	Interhit int64

	// Ftabs/Fchrs are kept distinct per SPEC_FULL.md §4 item 7 (the
	// original counts ftab jumps separately from single-character
	// fchr jumps; spec.md's generic "bwops" folds both together).
	Ftabs int64
	Fchrs int64

	MaxDepth int
}

// Merge folds delta into m under m's lock, the way
// SeedSearchMetrics.merge is specified in spec.md §5 ("merged via
// SeedSearchMetrics.merge under its lock").
func (m *SeedSearchMetrics) Merge(delta *SeedSearchMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Seedsearch += delta.Seedsearch
	m.Possearch += delta.Possearch
	m.Bwops += delta.Bwops
	m.Bwedits += delta.Bwedits
	m.Ooms += delta.Ooms
	m.Filteredseed += delta.Filteredseed
	m.Match += delta.Match
	m.Edit += delta.Edit
	for i := range m.MatchD {
		m.MatchD[i] += delta.MatchD[i]
	}
	for i := range m.EditD {
		m.EditD[i] += delta.EditD[i]
	}
	m.Intrahit += delta.Intrahit
	m.Interhit += delta.Interhit
	m.Ftabs += delta.Ftabs
	m.Fchrs += delta.Fchrs
	if delta.MaxDepth > m.MaxDepth {
		m.MaxDepth = delta.MaxDepth
	}
}

// depthBucket clamps depth into the matchd/editd histogram's 4 buckets
// (the last bucket absorbs every depth >= 3), per spec.md §4.4.2.
func depthBucket(depth int) int {
	if depth > 3 {
		return 3
	}
	return depth
}

// RecordMatch increments the match counters for one recursion depth.
func (m *SeedSearchMetrics) RecordMatch(depth int) {
	m.Match++
	m.MatchD[depthBucket(depth)]++
}

// RecordEdit increments the edit counters for one recursion depth.
func (m *SeedSearchMetrics) RecordEdit(depth int) {
	m.Edit++
	m.EditD[depthBucket(depth)]++
}

// SeedHitSink observes the outcome of one (offset, orientation) seed
// bucket: numElts is its number of reference occurrences, possibly 0.
// Implementations must not block the search path beyond their own
// mutex/queue.
type SeedHitSink interface {
	SeedHit(readName string, seedOffIdx int, fw bool, seedLen int, numElts int)
}

// SeedCounterSink observes one read's final per-read counter set.
type SeedCounterSink interface {
	SeedCounters(readName string, m *SeedSearchMetrics)
}

// SeedActionSink observes one seed search's raw action counters,
// before they are folded into the aggregate.
type SeedActionSink interface {
	SeedAction(readName string, seedOffIdx int, fw bool, counters SACounters)
}

// TextHitSink is a trivial SeedHitSink that renders one
// tab-delimited line per SeedHit call to an io.Writer-like Printf sink, mirroring
// the fixed-column text emitters spec.md §6 describes. It is purely
// observational: its Write failures are swallowed, never propagated
// into the search path.
type TextHitSink struct {
	mu     sync.Mutex
	Printf func(format string, args ...interface{})
}

func (s *TextHitSink) SeedHit(readName string, seedOffIdx int, fw bool, seedLen int, numElts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Printf("%s\t%d\t%t\t%d\t%d\n", readName, seedOffIdx, fw, seedLen, numElts)
}

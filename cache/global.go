package cache

import (
	psync "github.com/exascience/pargo/sync"
)

// DefaultSplits is the shard count handed to pargo/sync.NewMap when no
// concurrency hint is available, matching elprep's own fallback in
// filters/mark-duplicates.go.
const DefaultSplits = 16

// Global is the process-wide cache tier: a sharded concurrent map
// shared by every read-processing goroutine. Per spec.md §4.6, the
// cache (not the aligner) owns at-most-one-concurrent-producer-per-key;
// LoadOrStore gives that for free.
type Global struct {
	entries *psync.Map
}

// NewGlobal returns an empty Global cache sharded splits ways.
func NewGlobal(splits int) *Global {
	if splits <= 0 {
		splits = DefaultSplits
	}
	return &Global{entries: psync.NewMap(splits)}
}

func (c *Global) Lookup(seedSeq string) (QVal, bool) {
	v, ok := c.entries.Load(seqKey(seedSeq))
	if !ok {
		return QVal{}, false
	}
	return v.(QVal), true
}

func (c *Global) Add(seedSeq string, qv QVal) {
	c.entries.LoadOrStore(seqKey(seedSeq), qv)
}

// Package fmindex defines the interface a bidirectional FM-index must
// satisfy to serve package align's recursive seed search. The index
// itself — the BWT/BWT' pair, its succinct rank structures, ftab/fchr
// tables — is an external collaborator; this package only pins down
// the contract align depends on, plus a naive in-memory implementation
// (package fmindex/naive) usable for tests and small references.
package fmindex

// Interval is a bidirectional FM-index range: the half-open [top,bot)
// bounds of the matched substring in the forward index and in the
// mirror index (built over the reversed reference). Both halves always
// describe the same substring count; an Interval is valid exactly when
// BotF > TopF (equivalently BotB > TopB).
type Interval struct {
	TopF, BotF int
	TopB, BotB int
}

// Valid reports whether the interval still denotes at least one match.
func (iv Interval) Valid() bool {
	return iv.BotF > iv.TopF
}

// Size returns the number of reference occurrences the interval covers.
func (iv Interval) Size() int {
	return iv.BotF - iv.TopF
}

// SideLocus caches whatever a concrete Index needs to resolve repeated
// LF-mapping steps against one bound of an Interval without rescanning
// from scratch. It is opaque outside this package and its
// implementations; align only asks whether one has been computed yet.
type SideLocus struct {
	valid bool
	impl  interface{}
}

// Valid reports whether PrepLocus has populated this locus for the
// interval it currently describes.
func (l *SideLocus) Valid() bool {
	return l != nil && l.valid
}

// Invalidate clears a locus, e.g. when the recursive search backtracks
// past the step that last prepared it.
func (l *SideLocus) Invalidate() {
	l.valid = false
	l.impl = nil
}

// SetImpl lets an Index implementation stash its own cached state in a
// SideLocus and mark it valid in one call; Impl retrieves it.
func (l *SideLocus) SetImpl(v interface{}) {
	l.impl = v
	l.valid = true
}

// Impl returns whatever the Index implementation last stored via
// SetImpl, or nil if the locus has never been prepared.
func (l *SideLocus) Impl() interface{} {
	return l.impl
}

// Index is the read-only FM-index handle the seed search consumes. All
// methods must be safe for concurrent use by multiple per-read search
// threads; nothing here mutates shared state.
type Index interface {
	// FtabWidth is the k-mer length a single Ftab lookup can resolve.
	FtabWidth() int

	// Fchr seeds a singleton bidirectional interval from one base: the
	// forward-index range of suffixes starting with c, and the
	// equal-size mirror-index range of suffixes of the reversed
	// reference starting with c.
	Fchr(c byte) Interval

	// Ftab resolves len(kmer) == FtabWidth() leading characters of a
	// seed in one shortcut lookup. ok is false if the k-mer does not
	// occur in the reference at all.
	Ftab(kmer []byte) (Interval, bool)

	// NewSideLocus allocates a locus sized for this index's side-block
	// layout; callers reuse one instance across a search's recursion.
	NewSideLocus() *SideLocus

	// PrepLocus recomputes loc for the bound [top,bot). Called only
	// when bot-top>1; a singleton interval resolves by direct
	// character lookup and needs no locus (see extend in package align).
	PrepLocus(loc *SideLocus, top, bot int)

	// MapLF advances iv by one character. refLen is the length, in
	// reference bases, of the substring iv currently matches — needed
	// because the mirror side cannot recover it from iv alone once
	// insertions/deletions have decoupled read length from reference
	// length. mirror selects which physical index performs the
	// LF-mapping rank lookup this step (true: extend right via the
	// mirror/backward index; false: extend left via the forward
	// index); loc is that side's locus, or nil for a singleton bound.
	// ok is false when the resulting interval would be empty.
	MapLF(iv Interval, refLen int, c byte, mirror bool, loc *SideLocus) (Interval, bool)

	// Length returns the number of bases in the indexed reference.
	Length() int
}

package seed

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/bioseed/seedalign/constraint"
	"github.com/bioseed/seedalign/penalty"
)

// EditKind distinguishes the three edit operations a hit's trail can
// record.
type EditKind byte

const (
	Mismatch EditKind = 'M'
	Insertion EditKind = 'I'
	Deletion EditKind = 'D'
)

// Edit is one edit operation in a hit's reconstruction trail. Chr is
// the reference-side base (the base a Deletion removed, or the base a
// Mismatch replaced); Qchr is the read-side base (the base an
// Insertion added, or the base a Mismatch observed) — kept as a pair
// per aligner_seed.h so either sequence can be reconstructed from the
// trail alone, not just one.
type Edit struct {
	Pos  int
	Chr  byte
	Qchr byte
	Kind EditKind
}

// InstantiatedSeed binds a Seed policy to a concrete read offset and
// orientation: the step schedule, zone map, and per-zone/overall
// Constraints (the latter pre-charged for any Ns the seed covers).
type InstantiatedSeed struct {
	Policy *Seed

	Positions []int
	Right     []bool
	Zone      []int
	Closes    []bool

	Cons    [3]constraint.Constraint
	Overall constraint.Constraint
	MaxJump int

	SeedOff    int
	SeedOffIdx int
	SeedTypeIdx int
	Fw         bool

	// Seq and Qual are the bound read subsequence and qualities this
	// seed searches, kept here so callers (the cache key, the search
	// driver) never need to re-slice the read.
	Seq  []byte
	Qual []byte

	// NFiltered counts the Ns pre-charged into Cons during
	// instantiation (see SPEC_FULL.md §4 item 4).
	NFiltered int
}

// Instantiate binds policy to seq/qual at the given read offset and
// orientation. It returns ok=false (the seed is filtered) iff seq
// contains more Ns than the per-zone Constraints, or the overall
// Constraint, can absorb (spec.md §4.2). Ns are charged into the owning
// zone's Constraint and the overall Constraint as Ns of quality
// nQuality before the caller ever searches it.
func Instantiate(policy *Seed, seq, qual []byte, nQuality byte, penalties *penalty.Penalties, seedOff, seedOffIdx, seedTypeIdx int, fw bool) (*InstantiatedSeed, bool) {
	length := policy.Len
	sched := buildSchedule(length, policy.Type)

	out := &InstantiatedSeed{
		Policy:      policy,
		Positions:   sched.positions,
		Right:       sched.right,
		Zone:        sched.zone,
		Closes:      sched.closes,
		SeedOff:     seedOff,
		SeedOffIdx:  seedOffIdx,
		SeedTypeIdx: seedTypeIdx,
		Fw:          fw,
		Seq:         seq,
		Qual:        qual,
	}
	for z := 0; z < 3; z++ {
		out.Cons[z] = policy.Zone[z]
		out.Cons[z].Instantiate(len(seq))
	}
	out.Overall = policy.Overall
	out.Overall.Instantiate(len(seq))

	hardExact := [3]bool{}
	for z := 0; z < 3; z++ {
		hardExact[z] = policy.Zone[z].Edits == 0 && policy.Zone[z].Mms == 0
	}
	if policy.Type == EXACT && hardExact[0] {
		out.MaxJump = length
	} else {
		out.MaxJump = leadingExactRun(sched, hardExact)
	}

	for i, pos := range sched.positions {
		if pos >= len(seq) {
			continue
		}
		if seq[pos] != 'N' {
			continue
		}
		z := sched.zone[i]
		zc := &out.Cons[z]
		if !zc.CanN(int(nQuality), penalties) {
			return nil, false
		}
		zc.ChargeN(int(nQuality), penalties)
		if !chargeOverall(&out.Overall, int(nQuality), penalties) {
			return nil, false
		}
		out.NFiltered++
	}

	return out, true
}

func chargeOverall(overall *constraint.Constraint, q int, p *penalty.Penalties) bool {
	if !overall.CanN(q, p) {
		return false
	}
	overall.ChargeN(q, p)
	return true
}

// RepOk verifies the invariants spec.md §4.3 requires of an
// InstantiatedSeed: every position is visited exactly once, zone
// indices are in range, and exactly one step per zone used closes it.
func (s *InstantiatedSeed) RepOk() bool {
	n := len(s.Positions)
	if n != s.Policy.Len || len(s.Right) != n || len(s.Zone) != n || len(s.Closes) != n {
		return false
	}

	visited := bitset.New(uint(n))
	zoneUsed := [3]bool{}
	zoneClosed := [3]bool{}
	for i := 0; i < n; i++ {
		pos := s.Positions[i]
		if pos < 0 || pos >= n {
			return false
		}
		if visited.Test(uint(pos)) {
			return false
		}
		visited.Set(uint(pos))

		z := s.Zone[i]
		if z < 0 || z > 2 {
			return false
		}
		zoneUsed[z] = true
		if s.Closes[i] {
			if zoneClosed[z] {
				return false
			}
			zoneClosed[z] = true
		}
	}
	if uint(visited.Count()) != uint(n) {
		return false
	}
	for z := 0; z < 3; z++ {
		if zoneUsed[z] != zoneClosed[z] {
			return false
		}
	}
	return true
}

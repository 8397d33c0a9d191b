package align

import (
	"fmt"

	"github.com/bioseed/seedalign/cache"
	"github.com/bioseed/seedalign/constraint"
	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/metrics"
	"github.com/bioseed/seedalign/penalty"
	"github.com/bioseed/seedalign/seed"
)

// searchSeedBi runs the full recursive bidirectional search of
// spec.md §4.4.2 for one instantiated seed and returns the resulting
// QVal. met accumulates this search's own counters; the caller merges
// them into the read-wide aggregate.
func (a *SeedAligner) searchSeedBi(inst *seed.InstantiatedSeed, met *metrics.SeedSearchMetrics) cache.QVal {
	a.dedup = make(map[string]bool)
	var qv cache.QVal

	if len(inst.Positions) == 0 {
		return qv
	}

	iv, step, matched, ok := a.seedInitialInterval(inst, met)
	if !ok {
		return qv
	}

	loc := a.Index.NewSideLocus()
	a.step(inst, step, 0, matched, iv, inst.Cons, inst.Overall, nil, loc, &qv, met)
	return qv
}

// seedInitialInterval derives the starting interval from the pivot
// character (and, when maxjump clears the ftab width, a single ftab
// lookup that collapses the leading exact run), per spec.md §4.4.2.
func (a *SeedAligner) seedInitialInterval(inst *seed.InstantiatedSeed, met *metrics.SeedSearchMetrics) (fmindex.Interval, int, int, bool) {
	width := a.Index.FtabWidth()
	if inst.MaxJump >= width && width > 0 && width <= len(inst.Positions) {
		lo, hi := inst.Positions[0], inst.Positions[0]
		for _, p := range inst.Positions[:width] {
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		if hi-lo+1 == width {
			kmer := inst.Seq[lo : hi+1]
			if iv, ok := a.Index.Ftab(kmer); ok {
				met.Ftabs++
				return iv, width, width, true
			}
			return fmindex.Interval{}, 0, 0, false
		}
	}

	pivotPos := inst.Positions[0]
	pivotBase := inst.Seq[pivotPos]
	if dna.Encode(pivotBase) < 0 {
		return fmindex.Interval{}, 0, 0, false
	}
	met.Fchrs++
	iv := a.Index.Fchr(pivotBase)
	if !iv.Valid() {
		return fmindex.Interval{}, 0, 0, false
	}
	return iv, 1, 1, true
}

// step is the recursive core of searchSeedBi. cons and overall are
// carried by value: every branch mutates its own copy, so nothing
// needs to be undone on return (spec.md §9, "recursive state threaded
// by value").
func (a *SeedAligner) step(inst *seed.InstantiatedSeed, stepIdx, depth, matched int, iv fmindex.Interval, cons [3]constraint.Constraint, overall constraint.Constraint, trail []seed.Edit, loc *fmindex.SideLocus, qv *cache.QVal, met *metrics.SeedSearchMetrics) {
	if met.MaxDepth < depth {
		met.MaxDepth = depth
	}

	if stepIdx == len(inst.Positions) {
		a.reportHit(inst, iv, matched, trail, overall, cons, qv, met)
		return
	}

	pos := inst.Positions[stepIdx]
	right := inst.Right[stepIdx]
	zone := inst.Zone[stepIdx]
	closes := inst.Closes[stepIdx]

	trueBase := inst.Seq[pos]
	q := int(inst.Qual[pos])
	isN := dna.Encode(trueBase) < 0

	lastKind, lastExt := lastGap(trail)

	// 1. Match: advance with the read's actual base.
	if !isN {
		if nextIv, ok := a.extend(iv, matched, trueBase, right, loc); ok {
			met.Bwops++
			met.RecordMatch(depth)
			if closes && !cons[zone].Acceptable() {
				// The zone closes here regardless of branch outcome;
				// a match doesn't charge anything, so if it was
				// already unacceptable going in, no branch through
				// this step can rescue it.
			} else {
				a.step(inst, stepIdx+1, depth+1, matched+1, nextIv, cons, overall, trail, loc, qv, met)
			}
		} else {
			met.Bwops++
		}
	}

	// 2. Mismatch / N: enumerate every alternative base.
	if cons[zone].MustMatch() {
		return
	}
	for code := byte(0); code < 4; code++ {
		alt := dna.Decode(code)
		if !isN && alt == trueBase {
			continue
		}
		met.Bwedits++

		cons2 := cons
		overall2 := overall
		var kind seed.EditKind
		var ok bool
		if isN {
			ok = chargeNBoth(&cons2[zone], &overall2, q, a.Penalties)
			kind = seed.Mismatch
		} else {
			ok = chargeMismatchBoth(&cons2[zone], &overall2, q, a.Penalties)
			kind = seed.Mismatch
		}
		if !ok {
			continue
		}
		if closes && !cons2[zone].Acceptable() {
			continue
		}

		nextIv, extOk := a.extend(iv, matched, alt, right, loc)
		met.Bwops++
		if !extOk {
			continue
		}
		met.RecordEdit(depth)

		edit := seed.Edit{Pos: pos, Chr: alt, Qchr: trueBase, Kind: kind}
		a.step(inst, stepIdx+1, depth+1, matched+1, nextIv, cons2, overall2, append(trail, edit), loc, qv, met)
	}

	// 3. Deletion: consume a reference base, no read advance, same step.
	if lastKind != seed.Insertion && cons[zone].CanDeleteAny() {
		ex := 0
		if lastKind == seed.Deletion {
			ex = lastExt
		}
		if cons[zone].CanDelete(ex, a.Penalties) {
			for code := byte(0); code < 4; code++ {
				refBase := dna.Decode(code)
				cons2 := cons
				overall2 := overall
				if !chargeDeleteBoth(&cons2[zone], &overall2, ex, a.Penalties) {
					continue
				}
				nextIv, extOk := a.extend(iv, matched, refBase, right, loc)
				met.Bwops++
				if !extOk {
					continue
				}
				edit := seed.Edit{Pos: pos, Chr: refBase, Qchr: 0, Kind: seed.Deletion}
				a.step(inst, stepIdx, depth, matched+1, nextIv, cons2, overall2, append(trail, edit), loc, qv, met)
			}
		}
	}

	// 4. Insertion: consume a read base, no reference advance, next step.
	if lastKind != seed.Deletion && cons[zone].CanInsertAny() {
		ex := 0
		if lastKind == seed.Insertion {
			ex = lastExt
		}
		if cons[zone].CanInsert(ex, a.Penalties) {
			cons2 := cons
			overall2 := overall
			if chargeInsertBoth(&cons2[zone], &overall2, ex, a.Penalties) {
				if !(closes && !cons2[zone].Acceptable()) {
					edit := seed.Edit{Pos: pos, Chr: 0, Qchr: trueBase, Kind: seed.Insertion}
					a.step(inst, stepIdx+1, depth+1, matched, iv, cons2, overall2, append(trail, edit), loc, qv, met)
				}
			}
		}
	}
}

// lastGap returns the kind and run length of the gap immediately
// preceding the end of trail, or (0, 0) if trail is empty or its last
// edit isn't a gap.
func lastGap(trail []seed.Edit) (seed.EditKind, int) {
	if len(trail) == 0 {
		return 0, 0
	}
	last := trail[len(trail)-1]
	if last.Kind != seed.Insertion && last.Kind != seed.Deletion {
		return 0, 0
	}
	ext := 0
	for i := len(trail) - 1; i >= 0 && trail[i].Kind == last.Kind; i-- {
		ext++
	}
	return last.Kind, ext
}

// extend performs one BW-index transition, preparing a SideLocus
// first when the interval isn't already a singleton (spec.md §4.4.3).
func (a *SeedAligner) extend(iv fmindex.Interval, matched int, base byte, right bool, loc *fmindex.SideLocus) (fmindex.Interval, bool) {
	if iv.Size() > 1 {
		if right {
			a.Index.PrepLocus(loc, iv.TopB, iv.BotB)
		} else {
			a.Index.PrepLocus(loc, iv.TopF, iv.BotF)
		}
	}
	return a.Index.MapLF(iv, matched, base, right, loc)
}

// reportHit implements spec.md §4.4.4: it enforces the overall and
// every zone's closing acceptability, dedups against this seed
// search's hit set, and pushes the accepted hit into qv.
//
// Dedup is keyed on the final forward interval alone rather than on a
// reconstructed reference string. Without gaps in the trail the hit
// length is the full seed length, so a given (topf,botf) range names
// exactly one reference substring regardless of which edit trail
// reached it. Gaps change the hit length; two trails of different
// lengths that end on the same (topf,botf) range count as one hit.
func (a *SeedAligner) reportHit(inst *seed.InstantiatedSeed, iv fmindex.Interval, length int, trail []seed.Edit, overall constraint.Constraint, cons [3]constraint.Constraint, qv *cache.QVal, met *metrics.SeedSearchMetrics) bool {
	if !iv.Valid() || !overall.Acceptable() {
		return false
	}
	for z := 0; z < 3; z++ {
		if !cons[z].Acceptable() {
			return false
		}
	}

	key := fmt.Sprintf("%d:%d", iv.TopF, iv.BotF)
	if a.dedup[key] {
		return false
	}
	a.dedup[key] = true

	qv.Intervals = append(qv.Intervals, iv)
	qv.Edits = append(qv.Edits, append([]seed.Edit(nil), trail...))
	met.Seedsearch++
	return true
}

// chargeBoth helpers implement SPEC_FULL.md §4 item 5: every charge
// touches a zone's Constraint and the overall Constraint together, so
// the two can never drift out of sync.

func chargeMismatchBoth(zone, overall *constraint.Constraint, q int, p *penalty.Penalties) bool {
	if !zone.CanMismatch(q, p) || !overall.CanMismatch(q, p) {
		return false
	}
	zone.ChargeMismatch(q, p)
	overall.ChargeMismatch(q, p)
	return true
}

func chargeNBoth(zone, overall *constraint.Constraint, q int, p *penalty.Penalties) bool {
	if !zone.CanN(q, p) || !overall.CanN(q, p) {
		return false
	}
	zone.ChargeN(q, p)
	overall.ChargeN(q, p)
	return true
}

func chargeInsertBoth(zone, overall *constraint.Constraint, ex int, p *penalty.Penalties) bool {
	if !zone.CanInsert(ex, p) || !overall.CanInsert(ex, p) {
		return false
	}
	zone.ChargeInsert(ex, p)
	overall.ChargeInsert(ex, p)
	return true
}

func chargeDeleteBoth(zone, overall *constraint.Constraint, ex int, p *penalty.Penalties) bool {
	if !zone.CanDelete(ex, p) || !overall.CanDelete(ex, p) {
		return false
	}
	zone.ChargeDelete(ex, p)
	overall.ChargeDelete(ex, p)
	return true
}

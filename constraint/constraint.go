// Package constraint implements the per-zone and overall edit budgets
// consumed by the recursive bidirectional seed search in package align.
//
// A Constraint is a plain value copied on every recursive call; charging
// an edit mutates the callee's copy only, so undoing a charge on
// backtrack is automatic once the recursive call returns. Never take the
// address of a Constraint and share it across sibling branches of the
// search.
package constraint

import (
	"math"

	"github.com/bioseed/seedalign/penalty"
)

// Unbounded marks a counter or penalty ceiling as having no limit.
const Unbounded = math.MaxInt32

// Constraint is a budget of edits (mismatches, insertions, deletions)
// and total penalty available to a zone of a seed, or to a seed overall.
type Constraint struct {
	// Remaining budgets. Decremented as edits are charged; must never
	// go negative.
	Edits, Mms, Ins, Dels int
	Penalty               int

	// Ceilings: the minimum that must remain consumed by the time the
	// zone closes, i.e. Acceptable requires remaining <= ceil. Used to
	// de-overlap concurrent search roots (see aligner_seed.h).
	EditsCeil, MmsCeil, InsCeil, DelsCeil int
	PenaltyCeil                          int

	// PenConst/PenLinear compute Penalty at Instantiate time as
	// round(PenConst + PenLinear*readLen). PenConst == +Inf means the
	// penalty budget is left unbounded.
	PenConst, PenLinear float64

	Instantiated bool
}

// Exact returns a constraint that admits no edits at all.
func Exact() Constraint {
	return Constraint{
		Edits: 0, Mms: 0, Ins: 0, Dels: 0, Penalty: Unbounded,
		EditsCeil: Unbounded, MmsCeil: Unbounded, InsCeil: Unbounded, DelsCeil: Unbounded, PenaltyCeil: Unbounded,
		PenConst: math.Inf(1), PenLinear: 0,
	}
}

// MmBased returns a constraint that admits up to n mismatches and no gaps.
func MmBased(n int) Constraint {
	return Constraint{
		Edits: 0, Mms: n, Ins: 0, Dels: 0, Penalty: Unbounded,
		EditsCeil: Unbounded, MmsCeil: Unbounded, InsCeil: Unbounded, DelsCeil: Unbounded, PenaltyCeil: Unbounded,
		PenConst: math.Inf(1), PenLinear: 0,
	}
}

// EditBased returns a constraint that admits up to n edits of any kind.
func EditBased(n int) Constraint {
	return Constraint{
		Edits: n, Mms: 0, Ins: Unbounded, Dels: Unbounded, Penalty: Unbounded,
		EditsCeil: Unbounded, MmsCeil: Unbounded, InsCeil: Unbounded, DelsCeil: Unbounded, PenaltyCeil: Unbounded,
		PenConst: math.Inf(1), PenLinear: 0,
	}
}

// PenaltyBased returns a constraint bounded only by a fixed total penalty p.
func PenaltyBased(p int) Constraint {
	return Constraint{
		Edits: Unbounded, Mms: Unbounded, Ins: Unbounded, Dels: Unbounded, Penalty: p,
		EditsCeil: Unbounded, MmsCeil: Unbounded, InsCeil: Unbounded, DelsCeil: Unbounded, PenaltyCeil: Unbounded,
		PenConst: math.Inf(1), PenLinear: 0,
	}
}

// PenaltyFuncBased returns a constraint whose total penalty budget is
// computed at Instantiate time as round(c + l*readLen).
func PenaltyFuncBased(c, l float64) Constraint {
	return Constraint{
		Edits: Unbounded, Mms: Unbounded, Ins: Unbounded, Dels: Unbounded,
		EditsCeil: Unbounded, MmsCeil: Unbounded, InsCeil: Unbounded, DelsCeil: Unbounded, PenaltyCeil: Unbounded,
		PenConst: c, PenLinear: l,
	}
}

// Instantiate fixes the penalty budget against a concrete read length.
// It is a pure function of (PenConst, PenLinear, readLen).
func (c *Constraint) Instantiate(readLen int) {
	if !math.IsInf(c.PenConst, 1) {
		c.Penalty = int(math.Round(c.PenConst + c.PenLinear*float64(readLen)))
	}
	c.Instantiated = true
}

func mustInstantiated(c *Constraint) {
	if !c.Instantiated {
		panic("constraint: method called before Instantiate")
	}
}

// MustMatch reports whether the zone is already exhausted of every kind
// of edit, so the search driver can skip straight to the match-only
// branch at this step.
func (c *Constraint) MustMatch() bool {
	mustInstantiated(c)
	return (c.Mms == 0 && c.Edits == 0) ||
		c.Penalty == 0 ||
		(c.Mms == 0 && c.Dels == 0 && c.Ins == 0)
}

// CanMismatch reports whether a mismatch of quality q is affordable.
func (c *Constraint) CanMismatch(q int, p *penalty.Penalties) bool {
	mustInstantiated(c)
	return (c.Mms > 0 || c.Edits > 0) && c.Penalty >= p.Mm(q)
}

// CanMismatchAny reports whether a mismatch is affordable at any quality.
func (c *Constraint) CanMismatchAny() bool {
	mustInstantiated(c)
	return (c.Mms > 0 || c.Edits > 0) && c.Penalty > 0
}

// CanN reports whether aligning against an N of quality q is affordable.
func (c *Constraint) CanN(q int, p *penalty.Penalties) bool {
	mustInstantiated(c)
	return (c.Mms > 0 || c.Edits > 0) && c.Penalty >= p.N(q)
}

// CanNAny reports whether aligning against an N is affordable at any quality.
func (c *Constraint) CanNAny() bool {
	mustInstantiated(c)
	return (c.Mms > 0 || c.Edits > 0) && c.Penalty > 0
}

// CanInsert reports whether an insertion of extension ex is affordable.
//
// chargeInsert unconditionally decrements both Ins and Edits, so (per
// spec.md's resolution of the open question in aligner_seed.h) both
// must be strictly positive before charging, mirroring CanDelete.
func (c *Constraint) CanInsert(ex int, p *penalty.Penalties) bool {
	mustInstantiated(c)
	return c.Ins > 0 && c.Edits > 0 && c.Penalty >= p.Ins(ex)
}

// CanInsertAny reports whether an insertion is affordable at any extension.
func (c *Constraint) CanInsertAny() bool {
	mustInstantiated(c)
	return c.Ins > 0 && c.Edits > 0 && c.Penalty > 0
}

// CanDelete reports whether a deletion of extension ex is affordable.
func (c *Constraint) CanDelete(ex int, p *penalty.Penalties) bool {
	mustInstantiated(c)
	return c.Dels > 0 && c.Edits > 0 && c.Penalty >= p.Del(ex)
}

// CanDeleteAny reports whether a deletion is affordable at any extension.
func (c *Constraint) CanDeleteAny() bool {
	mustInstantiated(c)
	return c.Dels > 0 && c.Edits > 0 && c.Penalty > 0
}

// CanGap reports whether any insertion or deletion is affordable.
func (c *Constraint) CanGap() bool {
	mustInstantiated(c)
	return ((c.Ins > 0 || c.Dels > 0) || c.Edits > 0) && c.Penalty > 0
}

// ChargeMismatch charges a mismatch of quality q.
func (c *Constraint) ChargeMismatch(q int, p *penalty.Penalties) {
	mustInstantiated(c)
	if c.Mms == 0 {
		if c.Edits <= 0 {
			panic("constraint: chargeMismatch with no edits remaining")
		}
		c.Edits--
	} else {
		c.Mms--
	}
	c.Penalty -= p.Mm(q)
	if c.Penalty < 0 {
		panic("constraint: chargeMismatch drove penalty negative")
	}
}

// ChargeN charges an N of quality q.
func (c *Constraint) ChargeN(q int, p *penalty.Penalties) {
	mustInstantiated(c)
	if c.Mms == 0 {
		if c.Edits <= 0 {
			panic("constraint: chargeN with no edits remaining")
		}
		c.Edits--
	} else {
		c.Mms--
	}
	c.Penalty -= p.N(q)
	if c.Penalty < 0 {
		panic("constraint: chargeN drove penalty negative")
	}
}

// ChargeInsert charges an insertion of extension ex.
func (c *Constraint) ChargeInsert(ex int, p *penalty.Penalties) {
	mustInstantiated(c)
	if c.Ins <= 0 || c.Edits <= 0 {
		panic("constraint: chargeInsert with no budget remaining")
	}
	c.Ins--
	c.Edits--
	c.Penalty -= p.Ins(ex)
	if c.Penalty < 0 {
		panic("constraint: chargeInsert drove penalty negative")
	}
}

// ChargeDelete charges a deletion of extension ex.
func (c *Constraint) ChargeDelete(ex int, p *penalty.Penalties) {
	mustInstantiated(c)
	if c.Dels <= 0 || c.Edits <= 0 {
		panic("constraint: chargeDelete with no budget remaining")
	}
	c.Dels--
	c.Edits--
	c.Penalty -= p.Del(ex)
	if c.Penalty < 0 {
		panic("constraint: chargeDelete drove penalty negative")
	}
}

// Acceptable is the final check applied when a zone (or the whole seed)
// closes: enough of each budget must have actually been consumed.
func (c *Constraint) Acceptable() bool {
	mustInstantiated(c)
	return c.Edits <= c.EditsCeil && c.Mms <= c.MmsCeil &&
		c.Ins <= c.InsCeil && c.Dels <= c.DelsCeil &&
		c.Penalty <= c.PenaltyCeil
}

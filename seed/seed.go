// Package seed implements seed policies and their instantiation against
// a concrete read: the step schedule and zone map the recursive search
// in package align walks, built once per (read offset, orientation,
// policy) combination.
package seed

import (
	"fmt"

	"github.com/bioseed/seedalign/constraint"
)

// Type selects a seed's step schedule and pivot position.
type Type int

const (
	// EXACT admits no edits at all; schedule is pure left-to-right.
	EXACT Type = iota
	// LEFT_TO_RIGHT pivots at the leftmost position and walks right.
	LEFT_TO_RIGHT
	// RIGHT_TO_LEFT pivots at the rightmost position and walks left.
	RIGHT_TO_LEFT
	// INSIDE_OUT pivots at the first position of the center band, walks
	// the band rightward, then zig-zags outward.
	INSIDE_OUT
)

func (t Type) String() string {
	switch t {
	case EXACT:
		return "EXACT"
	case LEFT_TO_RIGHT:
		return "LEFT_TO_RIGHT"
	case RIGHT_TO_LEFT:
		return "RIGHT_TO_LEFT"
	case INSIDE_OUT:
		return "INSIDE_OUT"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Seed is a static seed policy: length, search type, and the per-zone
// budgets its three zones enforce. Zone 2 is unused by every type
// except INSIDE_OUT.
type Seed struct {
	Len     int
	Type    Type
	Overall constraint.Constraint
	Zone    [3]constraint.Constraint
}

// MmSeeds returns the canned policy set for mms ∈ {0,1,2} mismatches,
// at the given seed length and overall budget. mms outside that range
// is a contract violation, per spec.md §7.
func MmSeeds(mms, length int, overall constraint.Constraint) ([]*Seed, error) {
	switch mms {
	case 0:
		return []*Seed{exactSeed(length, overall)}, nil
	case 1:
		return oneMmSeeds(length, overall), nil
	case 2:
		return twoMmSeeds(length, overall), nil
	default:
		return nil, fmt.Errorf("seed: MmSeeds: unsupported mms=%d (only 0, 1, 2 are defined)", mms)
	}
}

func exactSeed(length int, overall constraint.Constraint) *Seed {
	s := &Seed{Len: length, Type: EXACT, Overall: overall}
	s.Zone[0] = constraint.Exact()
	return s
}

func oneMmSeeds(length int, overall constraint.Constraint) []*Seed {
	ltr := &Seed{Len: length, Type: LEFT_TO_RIGHT, Overall: overall}
	ltr.Zone[0] = constraint.Exact()
	ltr.Zone[1] = constraint.MmBased(1)

	rtl := &Seed{Len: length, Type: RIGHT_TO_LEFT, Overall: overall}
	rtl.Zone[0] = constraint.Exact()
	rtl.Zone[1] = constraint.MmBased(1)

	return []*Seed{ltr, rtl}
}

func twoMmSeeds(length int, overall constraint.Constraint) []*Seed {
	ltr := &Seed{Len: length, Type: LEFT_TO_RIGHT, Overall: overall}
	ltr.Zone[0] = constraint.Exact()
	ltr.Zone[1] = constraint.MmBased(2)

	rtl := &Seed{Len: length, Type: RIGHT_TO_LEFT, Overall: overall}
	rtl.Zone[0] = constraint.Exact()
	rtl.Zone[1] = constraint.MmBased(2)

	io := &Seed{Len: length, Type: INSIDE_OUT, Overall: overall}
	io.Zone[0] = constraint.Exact()
	io.Zone[1] = constraint.MmBased(1)
	io.Zone[2] = constraint.MmBased(1)

	return []*Seed{ltr, rtl, io}
}

// halves returns the physical left and right half lengths LEFT_TO_RIGHT
// and RIGHT_TO_LEFT split a seed into: the left half takes the floor,
// the right half the ceiling of length/2. LEFT_TO_RIGHT makes the left
// half zone 0 and the right half zone 1; RIGHT_TO_LEFT makes the right
// half zone 0 and the left half zone 1.
func halves(length int) (left, right int) {
	left = length / 2
	right = length - left
	return
}

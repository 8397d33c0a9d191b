package seed

// schedule is the static step/zone map for a Seed of a given length: it
// depends only on (Len, Type), never on a concrete read.
type schedule struct {
	positions []int  // physical seed-relative position visited at each step
	right     []bool // true: this step extends the matched interval rightward
	zone      []int  // zone index (0..2) charged at each step
	closes    []bool // true: this step is the last one assigned to its zone
}

// buildSchedule constructs the step/zone map for a seed of the given
// type and length. Zone assignment follows spec.md §4.2's canned
// policies:
//
//   - EXACT: every step is zone 0, left to right.
//   - LEFT_TO_RIGHT: physical left half (floor(len/2) positions) is
//     zone 0 (exact), physical right half (the rest) is zone 1; pivot
//     at position 0, walking right.
//   - RIGHT_TO_LEFT: the mirror of LEFT_TO_RIGHT — same physical
//     halves, but zone assignment swapped (right half is zone 0, left
//     half is zone 1); pivot at the last position, walking left. This
//     is why a mismatch that falls in the physical right half is
//     admissible for LEFT_TO_RIGHT (it lands in the far/mismatch
//     zone) but rejected for RIGHT_TO_LEFT (it lands in the
//     near/exact zone) — see spec.md §8 scenario 4 and DESIGN.md.
//   - INSIDE_OUT: a center band (zone 0, exact) and two symmetric
//     extremes (zones 1 and 2); the center band is walked left to
//     right, then the extremes are visited zig-zag outward, right
//     before left on ties.
func buildSchedule(length int, typ Type) *schedule {
	s := &schedule{
		positions: make([]int, length),
		right:     make([]bool, length),
		zone:      make([]int, length),
		closes:    make([]bool, length),
	}

	switch typ {
	case EXACT:
		for i := 0; i < length; i++ {
			s.positions[i] = i
			s.right[i] = true
			s.zone[i] = 0
		}
		if length > 0 {
			s.closes[length-1] = true
		}

	case LEFT_TO_RIGHT:
		left, _ := halves(length)
		for i := 0; i < length; i++ {
			s.positions[i] = i
			s.right[i] = i > 0
			if i < left {
				s.zone[i] = 0
			} else {
				s.zone[i] = 1
			}
		}
		closeZoneRuns(s, left, length)

	case RIGHT_TO_LEFT:
		left, _ := halves(length)
		for i := 0; i < length; i++ {
			pos := length - 1 - i
			s.positions[i] = pos
			s.right[i] = false
			if pos >= left {
				s.zone[i] = 0
			} else {
				s.zone[i] = 1
			}
		}
		// Traversal order is right-to-left, so zone 0 (the physical
		// right half) is visited first, zone 1 (left half) last.
		firstZone1 := length - left
		closeZoneRuns(s, firstZone1, length)

	case INSIDE_OUT:
		buildInsideOut(s, length)
	}

	return s
}

// closeZoneRuns marks the last step of each of two contiguous zone
// runs (zone 0 occupying steps [0,split), zone 1 occupying
// [split,length)) as closing.
func closeZoneRuns(s *schedule, split, length int) {
	if split > 0 {
		s.closes[split-1] = true
	}
	if length > split {
		s.closes[length-1] = true
	}
}

// buildInsideOut lays out a center exact band flanked by two mismatch
// extremes of equal size (remainder absorbed by the center), visited
// contiguously from the pivot outward so every step extends an
// adjacent boundary of the matched range — a bidirectional FM-index
// can only ever grow its interval by one position at its current left
// or right edge, never by a position in the middle of the unmatched
// range. The center is walked left to right (all right=true, starting
// at the pivot); once it is exhausted, the two extremes are visited
// zig-zag outward, right before left on ties. The original
// aligner_seed.cpp split ratio is not recoverable from the retrieved
// aligner_seed.h (only declarations survive there — see DESIGN.md);
// this division is a reasoned, symmetric choice.
func buildInsideOut(s *schedule, length int) {
	extreme := length / 3
	center := length - 2*extreme
	pivot := extreme // first position of the center band

	type visit struct {
		pos   int
		right bool
	}
	var order []visit
	for p := pivot; p < pivot+center; p++ {
		order = append(order, visit{p, true})
	}
	l, r := pivot-1, pivot+center
	for l >= 0 || r < length {
		if r < length {
			order = append(order, visit{r, true})
			r++
		}
		if l >= 0 {
			order = append(order, visit{l, false})
			l--
		}
	}

	for i, v := range order {
		s.positions[i] = v.pos
		s.right[i] = v.right
		switch {
		case v.pos >= pivot && v.pos < pivot+center:
			s.zone[i] = 0
		case v.pos < pivot:
			s.zone[i] = 1
		default:
			s.zone[i] = 2
		}
	}

	lastOf := [3]int{-1, -1, -1}
	for i, v := range order {
		switch {
		case v.pos >= pivot && v.pos < pivot+center:
			lastOf[0] = i
		case v.pos < pivot:
			lastOf[1] = i
		default:
			lastOf[2] = i
		}
	}
	for _, i := range lastOf {
		if i >= 0 {
			s.closes[i] = true
		}
	}
}

// leadingExactRun returns the number of leading schedule steps whose
// static zone constraint admits no edits at all — the maxjump value
// spec.md §4.2 defines for non-EXACT seeds.
func leadingExactRun(s *schedule, zones [3]bool) int {
	n := 0
	for _, z := range s.zone {
		if !zones[z] {
			break
		}
		n++
	}
	return n
}

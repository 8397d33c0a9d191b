package seed

import (
	"testing"

	"github.com/bioseed/seedalign/constraint"
)

func TestMmSeedsCounts(t *testing.T) {
	overall := constraint.EditBased(2)

	if s, err := MmSeeds(0, 8, overall); err != nil || len(s) != 1 {
		t.Fatalf("MmSeeds(0,...) = %v, %v; want 1 seed, no error", s, err)
	}
	if s, err := MmSeeds(1, 8, overall); err != nil || len(s) != 2 {
		t.Fatalf("MmSeeds(1,...) = %v, %v; want 2 seeds, no error", s, err)
	}
	if s, err := MmSeeds(2, 8, overall); err != nil || len(s) != 3 {
		t.Fatalf("MmSeeds(2,...) = %v, %v; want 3 seeds, no error", s, err)
	}
	if _, err := MmSeeds(3, 8, overall); err == nil {
		t.Fatal("MmSeeds(3,...) should be a contract violation")
	}
}

func TestMmSeedsZoneShape(t *testing.T) {
	overall := constraint.EditBased(1)
	seeds, _ := MmSeeds(1, 5, overall)

	ltr, rtl := seeds[0], seeds[1]
	if ltr.Type != LEFT_TO_RIGHT || rtl.Type != RIGHT_TO_LEFT {
		t.Fatalf("mms=1 seeds = %v, %v types; want LEFT_TO_RIGHT, RIGHT_TO_LEFT", ltr.Type, rtl.Type)
	}
	if ltr.Zone[0].Mms != 0 || ltr.Zone[1].Mms != 1 {
		t.Fatalf("LEFT_TO_RIGHT zones = %+v; want zone0 exact, zone1 mm(1)", ltr.Zone)
	}
}

func TestBuildScheduleExact(t *testing.T) {
	s := buildSchedule(4, EXACT)
	for i, pos := range s.positions {
		if pos != i {
			t.Fatalf("EXACT schedule positions[%d] = %d, want %d", i, pos, i)
		}
		if s.zone[i] != 0 {
			t.Fatalf("EXACT schedule zone[%d] = %d, want 0", i, s.zone[i])
		}
	}
	if !s.closes[3] {
		t.Fatal("EXACT schedule should close zone 0 at the last step")
	}
}

func TestBuildScheduleLeftToRightZones(t *testing.T) {
	// len=5: left half (floor) = positions {0,1} zone 0, right half
	// (ceil) = positions {2,3,4} zone 1.
	s := buildSchedule(5, LEFT_TO_RIGHT)
	want := []int{0, 0, 1, 1, 1}
	for i, z := range want {
		if s.zone[i] != z {
			t.Fatalf("LEFT_TO_RIGHT zone[%d] = %d, want %d", i, s.zone[i], z)
		}
	}
}

func TestBuildScheduleRightToLeftMirrorsZones(t *testing.T) {
	// Same physical halves as LEFT_TO_RIGHT, but zone assignment
	// swapped: physical right half (positions 2,3,4) is now the exact
	// zone 0, physical left half (0,1) is the mismatch zone 1.
	s := buildSchedule(5, RIGHT_TO_LEFT)
	wantZoneByPos := map[int]int{0: 1, 1: 1, 2: 0, 3: 0, 4: 0}
	for i, pos := range s.positions {
		if want := wantZoneByPos[pos]; s.zone[i] != want {
			t.Fatalf("RIGHT_TO_LEFT zone at physical pos %d = %d, want %d", pos, s.zone[i], want)
		}
	}
	// Traversal visits the rightmost position first.
	if s.positions[0] != 4 {
		t.Fatalf("RIGHT_TO_LEFT first visited position = %d, want 4", s.positions[0])
	}
}

func TestBuildScheduleInsideOutContiguous(t *testing.T) {
	// Every step of an INSIDE_OUT schedule, after the pivot's initial
	// seed position, must extend the matched range at its current min-1
	// (right=false) or max+1 (right=true) boundary — never jump to a
	// position in the middle of the unmatched range. This is the defect
	// a buggy center-band traversal produced: a step flagged right=false
	// that actually landed to the right of the matched range.
	for _, length := range []int{6, 7, 8, 9, 10, 11} {
		s := buildSchedule(length, INSIDE_OUT)
		lo, hi := s.positions[0], s.positions[0]
		for i := 1; i < length; i++ {
			pos := s.positions[i]
			if s.right[i] {
				if pos != hi+1 {
					t.Fatalf("length=%d step %d: right extension to %d, want %d (matched=[%d,%d])", length, i, pos, hi+1, lo, hi)
				}
				hi = pos
			} else {
				if pos != lo-1 {
					t.Fatalf("length=%d step %d: left extension to %d, want %d (matched=[%d,%d])", length, i, pos, lo-1, lo, hi)
				}
				lo = pos
			}
		}
		if lo != 0 || hi != length-1 {
			t.Fatalf("length=%d: final matched range [%d,%d], want [0,%d]", length, lo, hi, length-1)
		}
	}
}

func TestInstantiateFiltersWhenZoneCannotAbsorbNs(t *testing.T) {
	overall := constraint.EditBased(5)
	seeds, _ := MmSeeds(0, 4, overall) // EXACT: zone 0 admits no Ns at all
	p := testPenalties()

	_, ok := Instantiate(seeds[0], []byte("ANGT"), make([]byte, 4), 2, p, 0, 0, 0, true)
	if ok {
		t.Fatal("EXACT seed with an N should be filtered")
	}
}

func TestInstantiatePreChargesNs(t *testing.T) {
	overall := constraint.EditBased(5)
	seeds, _ := MmSeeds(1, 6, overall)
	p := testPenalties()

	ltr := seeds[0] // left half zone 0 exact, right half zone 1 mm(1)
	// N at position 4 falls in the mismatch half.
	inst, ok := Instantiate(ltr, []byte("ACGTNT"), make([]byte, 6), 2, p, 0, 0, 0, true)
	if !ok {
		t.Fatal("N in the mismatch half should not filter the seed")
	}
	if inst.NFiltered != 1 {
		t.Fatalf("NFiltered = %d, want 1", inst.NFiltered)
	}
	if inst.Cons[1].Mms != 0 {
		t.Fatalf("zone 1 Mms after pre-charging one N = %d, want 0", inst.Cons[1].Mms)
	}
}

func TestInstantiatedSeedRepOk(t *testing.T) {
	overall := constraint.EditBased(5)
	for _, mms := range []int{0, 1, 2} {
		seeds, _ := MmSeeds(mms, 7, overall)
		for _, s := range seeds {
			inst, ok := Instantiate(s, []byte("ACGTACG"), make([]byte, 7), 2, testPenalties(), 0, 0, 0, true)
			if !ok {
				t.Fatalf("mms=%d type=%v: unexpected filter", mms, s.Type)
			}
			if !inst.RepOk() {
				t.Fatalf("mms=%d type=%v: RepOk failed", mms, s.Type)
			}
		}
	}
}

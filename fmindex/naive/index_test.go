package naive

import (
	"testing"

	"github.com/bioseed/seedalign/fmindex"
)

func TestFchrSingleBase(t *testing.T) {
	ix := Build([]byte("ACGTACGT"), 4)
	iv := ix.Fchr('A')
	if !iv.Valid() {
		t.Fatal("Fchr('A') should be valid")
	}
	if got := iv.Size(); got != 2 {
		t.Fatalf("Fchr('A').Size() = %d, want 2", got)
	}
}

func TestFtabExactSeed(t *testing.T) {
	ix := Build([]byte("ACGTACGT"), 4)
	iv, ok := ix.Ftab([]byte("ACGT"))
	if !ok || !iv.Valid() {
		t.Fatal("Ftab(ACGT) should match")
	}
	if got := iv.Size(); got != 2 {
		t.Fatalf("Ftab(ACGT).Size() = %d, want 2", got)
	}
	if _, ok := ix.Ftab([]byte("ACGA")); ok {
		t.Fatal("Ftab(ACGA) should not match")
	}
}

func TestMapLFExtendsBothDirections(t *testing.T) {
	ix := Build([]byte("ACGTACGT"), 4)
	iv := ix.Fchr('C')
	loc := ix.NewSideLocus()

	right, ok := ix.MapLF(iv, 1, 'G', true, loc)
	if !ok || !right.Valid() {
		t.Fatal("extending C with G to the right should match CG")
	}
	if got := right.Size(); got != 2 {
		t.Fatalf("CG interval size = %d, want 2", got)
	}

	left, ok := ix.MapLF(iv, 1, 'A', false, loc)
	if !ok || !left.Valid() {
		t.Fatal("extending C with A to the left should match AC")
	}
	if got := left.Size(); got != 2 {
		t.Fatalf("AC interval size = %d, want 2", got)
	}

	if _, ok := ix.MapLF(iv, 1, 'T', true, loc); ok {
		t.Fatal("CT does not occur in ACGTACGT")
	}
}

func TestIntervalInvariant(t *testing.T) {
	var iv fmindex.Interval
	if iv.Valid() {
		t.Fatal("zero Interval must be invalid")
	}
}

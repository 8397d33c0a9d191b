package results

import (
	"testing"

	"github.com/bioseed/seedalign/cache"
	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/seed"
)

func mkQV(n int) cache.QVal {
	return cache.QVal{
		Intervals: []fmindex.Interval{{TopF: 0, BotF: n, TopB: 0, BotB: n}},
		Edits:     [][]seed.Edit{nil},
	}
}

func TestSortNonDecreasing(t *testing.T) {
	var r SeedResults
	r.Reset(3)
	r.Add(mkQV(5), 0, 0, true, 10)
	r.Add(mkQV(2), 1, 1, true, 10)
	r.Add(mkQV(8), 2, 2, true, 10)

	r.Sort()
	if r.NumRanks() != 3 {
		t.Fatalf("NumRanks() = %d, want 3", r.NumRanks())
	}
	prev := -1
	for i := 0; i < r.NumRanks(); i++ {
		qv, _, _, _, _ := r.HitsByRank(i)
		if qv.NumElts() < prev {
			t.Fatalf("rank %d NumElts=%d decreased from previous %d", i, qv.NumElts(), prev)
		}
		prev = qv.NumElts()
	}
}

func TestSortStableOnTies(t *testing.T) {
	// Two tied fw buckets (offIdx 0 and 1, both NumElts=5) followed by a
	// smaller bucket (offIdx 2, NumElts=1): the smaller bucket must rank
	// first, and the tied pair must keep its insertion order (lower
	// offIdx first) rather than being reordered by the sort.
	var r SeedResults
	r.Reset(3)
	r.Add(mkQV(5), 0, 0, true, 10)
	r.Add(mkQV(5), 1, 1, true, 10)
	r.Add(mkQV(1), 2, 2, true, 10)

	r.Sort()
	_, offIdx0, _, _, _ := r.HitsByRank(0)
	_, offIdx1, _, _, _ := r.HitsByRank(1)
	_, offIdx2, _, _, _ := r.HitsByRank(2)
	if offIdx0 != 2 {
		t.Fatalf("rank 0 offIdx = %d, want 2 (smallest bucket)", offIdx0)
	}
	if offIdx1 != 0 || offIdx2 != 1 {
		t.Fatalf("tied ranks offIdx = %d, %d, want 0, 1 (insertion order preserved)", offIdx1, offIdx2)
	}
}

func TestAddRejectsDuplicateBucket(t *testing.T) {
	var r SeedResults
	r.Reset(1)
	r.Add(mkQV(1), 0, 0, true, 10)

	defer func() {
		if recover() == nil {
			t.Fatal("second Add to the same bucket should panic")
		}
	}()
	r.Add(mkQV(1), 0, 0, true, 10)
}

func TestRepOkTracksAggregate(t *testing.T) {
	var r SeedResults
	r.Reset(2)
	r.Add(mkQV(3), 0, 0, true, 10)
	r.Add(mkQV(4), 1, 1, false, 10)

	if !r.RepOk() {
		t.Fatal("RepOk should hold after plain Adds")
	}
	if r.TotalElts() != 7 {
		t.Fatalf("TotalElts() = %d, want 7", r.TotalElts())
	}
}

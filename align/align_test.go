package align

import (
	"testing"

	"github.com/bioseed/seedalign/cache"
	"github.com/bioseed/seedalign/constraint"
	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/fmindex/naive"
	"github.com/bioseed/seedalign/metrics"
	"github.com/bioseed/seedalign/penalty"
	"github.com/bioseed/seedalign/results"
	"github.com/bioseed/seedalign/seed"
)

func newAligner(ref string, p *penalty.Penalties) *SeedAligner {
	ix := naive.Build([]byte(ref), 4)
	return NewSeedAligner(ix, p, nil)
}

// Scenario 1: exact match, interval size 2.
func TestScenarioExactMatch(t *testing.T) {
	a := newAligner("ACGTACGT", penalty.Uniform(30, 1, 5, 3))
	policies, _ := seed.MmSeeds(0, 4, constraint.EditBased(0))
	read := dna.NewRead([]byte("ACGT"), nil)

	inst, ok := seed.Instantiate(policies[0], []byte("ACGT"), make([]byte, 4), 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("seed should not be filtered")
	}
	_ = read
	qv := a.searchSeedBi(inst, &metrics.SeedSearchMetrics{})
	if len(qv.Intervals) != 1 {
		t.Fatalf("got %d hits, want 1", len(qv.Intervals))
	}
	if qv.NumElts() != 2 {
		t.Fatalf("NumElts() = %d, want 2", qv.NumElts())
	}
}

// Scenario 2: mismatched read, mms=0, zero hits.
func TestScenarioExactMismatchYieldsNoHits(t *testing.T) {
	a := newAligner("ACGTACGT", penalty.Uniform(30, 1, 5, 3))
	policies, _ := seed.MmSeeds(0, 4, constraint.EditBased(0))

	inst, ok := seed.Instantiate(policies[0], []byte("ACGA"), make([]byte, 4), 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("seed should not be filtered")
	}
	qv := a.searchSeedBi(inst, &metrics.SeedSearchMetrics{})
	if len(qv.Intervals) != 0 {
		t.Fatalf("got %d hits, want 0", len(qv.Intervals))
	}
}

// Scenario 3: one mismatch admitted under a uniform mm(q)=30 penalty
// with penaltyCeil=30.
func TestScenarioOneMismatchAdmitted(t *testing.T) {
	a := newAligner("ACGTACGT", penalty.Uniform(30, 1, 5, 3))
	pol := &seed.Seed{Len: 4, Type: seed.EXACT, Overall: constraint.PenaltyBased(30)}
	pol.Zone[0] = constraint.MmBased(1)

	inst, ok := seed.Instantiate(pol, []byte("ACGA"), make([]byte, 4), 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("seed should not be filtered")
	}
	qv := a.searchSeedBi(inst, &metrics.SeedSearchMetrics{})
	if len(qv.Intervals) != 1 {
		t.Fatalf("got %d hits, want 1", len(qv.Intervals))
	}
	edits := qv.Edits[0]
	if len(edits) != 1 || edits[0].Pos != 3 || edits[0].Chr != 'T' {
		t.Fatalf("edits = %+v, want one edit at pos 3 with alt T", edits)
	}
}

// Scenario 5: INSIDE_OUT finds a hit with a mismatch in its left
// extreme zone. This is the end-to-end regression for the
// buildInsideOut traversal bug: a schedule that fed the bidirectional
// search a non-adjacent extension turned this into zero hits.
func TestScenarioInsideOutAdmitsMismatchInExtreme(t *testing.T) {
	a := newAligner("TTTTACGTTGCAGGGG", penalty.Uniform(30, 1, 5, 3))
	overall := constraint.EditBased(2)
	seeds, _ := seed.MmSeeds(2, 8, overall)
	io := seeds[2]
	if io.Type != seed.INSIDE_OUT {
		t.Fatalf("seeds[2].Type = %v, want INSIDE_OUT", io.Type)
	}

	seq := []byte("TCGTTGCA") // "ACGTTGCA" with pos 0 mismatched
	qual := make([]byte, 8)

	inst, ok := seed.Instantiate(io, seq, qual, 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("INSIDE_OUT seed should not be filtered")
	}
	qv := a.searchSeedBi(inst, &metrics.SeedSearchMetrics{})
	if len(qv.Intervals) != 1 {
		t.Fatalf("got %d hits, want 1", len(qv.Intervals))
	}
	edits := qv.Edits[0]
	if len(edits) != 1 || edits[0].Pos != 0 || edits[0].Chr != 'A' {
		t.Fatalf("edits = %+v, want one edit at pos 0 with alt A", edits)
	}
}

// lastGap's ex must count every gap character already placed
// immediately before the next one, per penalty.Penalties' doc comment
// (0 = open a new gap, 1 = first extension, ...) — not that count
// minus one, which would charge every extension as if it were a fresh
// open.
func TestLastGapCountsFullRun(t *testing.T) {
	trail := []seed.Edit{
		{Pos: 0, Kind: seed.Insertion},
		{Pos: 1, Kind: seed.Insertion},
	}
	kind, ex := lastGap(trail)
	if kind != seed.Insertion || ex != 2 {
		t.Fatalf("lastGap(2 insertions) = %v, %d; want Insertion, 2", kind, ex)
	}

	trail = trail[:1]
	kind, ex = lastGap(trail)
	if kind != seed.Insertion || ex != 1 {
		t.Fatalf("lastGap(1 insertion) = %v, %d; want Insertion, 1", kind, ex)
	}

	kind, ex = lastGap(nil)
	if kind != 0 || ex != 0 {
		t.Fatalf("lastGap(nil) = %v, %d; want 0, 0", kind, ex)
	}
}

// Scenario 4: LEFT_TO_RIGHT admits the hit (mismatch lands in the far
// mismatch zone); RIGHT_TO_LEFT rejects it (the same physical position
// lands in its exact zone).
func TestScenarioMirroredSeedsDisagreeOnSamePosition(t *testing.T) {
	a := newAligner("AAAAAAAA", penalty.Uniform(30, 1, 5, 3))
	overall := constraint.EditBased(1)
	seeds, _ := seed.MmSeeds(1, 5, overall)
	ltr, rtl := seeds[0], seeds[1]

	seq := []byte("AATAA")
	qual := make([]byte, 5)

	instLTR, ok := seed.Instantiate(ltr, seq, qual, 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("LEFT_TO_RIGHT seed should not be filtered")
	}
	qvLTR := a.searchSeedBi(instLTR, &metrics.SeedSearchMetrics{})
	if len(qvLTR.Intervals) != 1 {
		t.Fatalf("LEFT_TO_RIGHT: got %d hits, want 1", len(qvLTR.Intervals))
	}
	if len(qvLTR.Edits[0]) != 1 || qvLTR.Edits[0][0].Pos != 2 {
		t.Fatalf("LEFT_TO_RIGHT edits = %+v, want one edit at pos 2", qvLTR.Edits[0])
	}

	instRTL, ok := seed.Instantiate(rtl, seq, qual, 0, a.Penalties, 0, 0, 0, true)
	if !ok {
		t.Fatal("RIGHT_TO_LEFT seed should not be filtered")
	}
	qvRTL := a.searchSeedBi(instRTL, &metrics.SeedSearchMetrics{})
	if len(qvRTL.Intervals) != 0 {
		t.Fatalf("RIGHT_TO_LEFT: got %d hits, want 0 (pivot violates exact half)", len(qvRTL.Intervals))
	}
}

func TestInstantiateSeedsBoundaryReadShorterThanSeedLen(t *testing.T) {
	read := dna.NewRead([]byte("ACG"), nil)
	policies, _ := seed.MmSeeds(0, 8, constraint.EditBased(0))

	buckets, numInst, numFiltered := InstantiateSeeds(policies, 4, read, 0, penalty.Default(), 10, 0, &metrics.SeedSearchMetrics{})
	if len(buckets.buckets) != 1 {
		t.Fatalf("got %d offset buckets, want 1", len(buckets.buckets))
	}
	if numInst != 2 { // one EXACT seed x 2 orientations
		t.Fatalf("numInst = %d, want 2", numInst)
	}
	if numFiltered != 0 {
		t.Fatalf("numFiltered = %d, want 0", numFiltered)
	}
}

func TestNumOffsetsPerOne(t *testing.T) {
	if got := NumOffsets(10, 4, 1); got != 7 {
		t.Fatalf("NumOffsets(10,4,1) = %d, want 7", got)
	}
}

// Invariant 4: rerunning the same read through the same SeedAligner
// after clearing its local cache (and no global tier at all) must reproduce the
// same ranked result set, since the cache is a pure memoization layer
// that never influences what a search finds.
func TestIdempotentAcrossClearedLocalCache(t *testing.T) {
	ref := "ACGTACGTAAACGTTTGGGCATCAGCATG"
	a := newAligner(ref, penalty.Uniform(6, 1, 5, 3))
	policies, _ := seed.MmSeeds(1, 6, constraint.EditBased(2))
	read := dna.NewRead([]byte("ACGTACGTAAACG"), nil)

	runOnce := func(al *SeedAligner) []int {
		buckets, _, _ := InstantiateSeeds(policies, 4, read, 0, al.Penalties, 2, 0.1, &metrics.SeedSearchMetrics{})
		sr := &results.SeedResults{}
		al.SearchAllSeeds("r", buckets, sr, &metrics.SeedSearchMetrics{})
		sr.Sort()
		elts := make([]int, sr.NumRanks())
		for i := range elts {
			qv, _, _, _, _ := sr.HitsByRank(i)
			elts[i] = qv.NumElts()
		}
		return elts
	}

	first := runOnce(a)

	a.Local.Clear()
	second := runOnce(a)

	if len(first) != len(second) {
		t.Fatalf("rerun with cleared cache changed rank count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rerun with cleared cache changed rank %d: %d vs %d", i, first[i], second[i])
		}
	}
}

// Scenario 6: running a batch of reads through SearchBatch's
// one-goroutine-per-read fan-out, sharing one Global cache, must yield
// the same per-read ranked result sets as running each read
// sequentially through its own aligner with no sharing at all —
// concurrency must not change what is found, only how fast.
func TestConcurrentBatchMatchesSequential(t *testing.T) {
	ref := "ACGTACGTAAACGTTTGGGCATCAGCATGACGGGTTTACAC"
	p := penalty.Uniform(6, 1, 5, 3)
	policies, _ := seed.MmSeeds(1, 6, constraint.EditBased(2))

	seqs := []string{"ACGTACGTAAAC", "GGGCATCAGCAT", "TTTACACGTACG", "CATGACGGGTTT"}

	seqRanks := make([][]int, len(seqs))
	for i, s := range seqs {
		al := newAligner(ref, p)
		buckets, _, _ := InstantiateSeeds(policies, 4, dna.NewRead([]byte(s), nil), 0, al.Penalties, 2, 0.1, &metrics.SeedSearchMetrics{})
		sr := &results.SeedResults{}
		al.SearchAllSeeds("r", buckets, sr, &metrics.SeedSearchMetrics{})
		sr.Sort()
		ranks := make([]int, sr.NumRanks())
		for r := range ranks {
			qv, _, _, _, _ := sr.HitsByRank(r)
			ranks[r] = qv.NumElts()
		}
		seqRanks[i] = ranks
	}

	global := cache.NewGlobal(4)
	ix := newAligner(ref, p).Index
	aligners := make([]*SeedAligner, len(seqs))
	batch := make([]BatchRead, len(seqs))
	for i, s := range seqs {
		aligners[i] = NewSeedAligner(ix, p, global)
		batch[i] = BatchRead{
			Name:    "r",
			Read:    dna.NewRead([]byte(s), nil),
			Results: &results.SeedResults{},
			Metrics: &metrics.SeedSearchMetrics{},
		}
	}
	SearchBatch(aligners, batch, policies, 4, 0, 2, 0.1)

	for i, br := range batch {
		br.Results.Sort()
		if br.Results.NumRanks() != len(seqRanks[i]) {
			t.Fatalf("read %d: concurrent rank count %d, sequential %d", i, br.Results.NumRanks(), len(seqRanks[i]))
		}
		for r := 0; r < br.Results.NumRanks(); r++ {
			qv, _, _, _, _ := br.Results.HitsByRank(r)
			if qv.NumElts() != seqRanks[i][r] {
				t.Fatalf("read %d rank %d: concurrent NumElts=%d, sequential=%d", i, r, qv.NumElts(), seqRanks[i][r])
			}
		}
	}
}

// Package align implements SeedAligner, the recursive bidirectional
// FM-index search spec.md §4.4 describes: instantiating every seed a
// read offers, searching each against the index (through a two-tier
// cache), and collecting accepted hits into a results.SeedResults.
package align

import (
	"github.com/bioseed/seedalign/cache"
	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/metrics"
	"github.com/bioseed/seedalign/penalty"
	"github.com/bioseed/seedalign/results"
	"github.com/bioseed/seedalign/seed"
)

// SeedAligner is the per-thread search driver of spec.md §5: one
// instance is owned by exactly one goroutine for the duration of one
// read. Its only shared, read-only collaborators are Index and
// Penalties; Global, if set, is internally synchronized.
type SeedAligner struct {
	Index     fmindex.Index
	Penalties *penalty.Penalties

	Local  *cache.Local
	Global *cache.Global

	HitSink     metrics.SeedHitSink
	ActionSink  metrics.SeedActionSink
	CounterSink metrics.SeedCounterSink

	dedup map[string]bool
}

// NewSeedAligner returns a SeedAligner ready to search against ix with
// penalties. global may be nil (no process-wide cache tier).
func NewSeedAligner(ix fmindex.Index, penalties *penalty.Penalties, global *cache.Global) *SeedAligner {
	return &SeedAligner{
		Index:     ix,
		Penalties: penalties,
		Local:     cache.NewLocal(),
		Global:    global,
	}
}

// offsetBucket holds every instantiated seed for one (offset,
// orientation) slot — the "sr.instantiatedSeeds(fw, i)" of spec.md
// §4.4.1, kept on the aligner's own per-read working state rather than
// on results.SeedResults, which spec.md §4.5 scopes to accepted hits
// only.
type offsetBucket struct {
	off  int
	fw   map[bool][]*seed.InstantiatedSeed
}

// InstantiatedSeeds is the per-read working set InstantiateSeeds fills
// and SearchAllSeeds consumes.
type InstantiatedSeeds struct {
	buckets []offsetBucket
}

// NumOffsets computes spec.md §4.4.1's offset count, honoring the
// boundary case of a read shorter than seedLen (exactly one offset,
// at 0).
func NumOffsets(readLen, seedLen, per int) int {
	if readLen <= seedLen {
		return 1
	}
	return (readLen-seedLen)/per + 1
}

// extractSeedSeq slices length bases starting at off from read's
// orientation fw, re-inserting 'N' at masked positions (TwoBit has no
// fifth symbol, so dna.Read tracks Ns out of band).
func extractSeedSeq(read *dna.Read, fw bool, off, length int) ([]byte, []byte) {
	seq := read.Seq(fw).Slice(off, off+length).Expand()
	qual := append([]byte(nil), read.Qual(fw)[off:off+length]...)
	mask := read.NMask(fw)
	for i := 0; i < length; i++ {
		if mask.Test(uint(off + i)) {
			seq[i] = 'N'
		}
	}
	return seq, qual
}

// shrink returns a copy of p truncated to newLen — used for the
// "read shorter than seedLen" boundary case of spec.md §8, where the
// seed itself shrinks to fit the read rather than being skipped.
func shrink(p *seed.Seed, newLen int) *seed.Seed {
	s := *p
	s.Len = newLen
	return &s
}

// InstantiateSeeds implements spec.md §4.4.1's top-level
// instantiation pass: for every offset, orientation, and policy, it
// extracts the seed sequence, filters against the N ceiling, and
// instantiates the survivors. Returns the instantiated seeds together
// with (numInstantiated, numFiltered).
func InstantiateSeeds(policies []*seed.Seed, per int, read *dna.Read, nQuality byte, penalties *penalty.Penalties, nCeilConst, nCeilLinear float64, met *metrics.SeedSearchMetrics) (*InstantiatedSeeds, int, int) {
	seedLen := policies[0].Len
	numOffs := NumOffsets(read.Len, seedLen, per)

	out := &InstantiatedSeeds{buckets: make([]offsetBucket, numOffs)}
	numInst, numFiltered := 0, 0

	for i := 0; i < numOffs; i++ {
		off := i * per
		effLen := seedLen
		if read.Len <= seedLen {
			off, effLen = 0, read.Len
		}
		out.buckets[i] = offsetBucket{off: off, fw: map[bool][]*seed.InstantiatedSeed{true: nil, false: nil}}

		for _, fw := range []bool{true, false} {
			for typeIdx, p := range policies {
				policy := p
				if effLen != seedLen {
					policy = shrink(p, effLen)
				}
				seq, qual := extractSeedSeq(read, fw, off, effLen)

				nCeil := int(nCeilConst + nCeilLinear*float64(effLen) + 0.5)
				if countNs(seq) > nCeil {
					numFiltered++
					met.Filteredseed++
					continue
				}

				inst, ok := seed.Instantiate(policy, seq, qual, nQuality, penalties, off, i, typeIdx, fw)
				if !ok {
					numFiltered++
					met.Filteredseed++
					continue
				}
				out.buckets[i].fw[fw] = append(out.buckets[i].fw[fw], inst)
				numInst++
			}
		}
	}

	return out, numInst, numFiltered
}

func countNs(seq []byte) int {
	n := 0
	for _, b := range seq {
		if b == 'N' {
			n++
		}
	}
	return n
}

// SearchAllSeeds implements spec.md §4.4.1's second pass: for every
// instantiated seed, consult the two-tier cache before falling back to
// a fresh searchSeedBi, then folds the outcome into sr and met.
func (a *SeedAligner) SearchAllSeeds(readName string, buckets *InstantiatedSeeds, sr *results.SeedResults, met *metrics.SeedSearchMetrics) {
	sr.Reset(len(buckets.buckets))

	for _, bucket := range buckets.buckets {
		for _, fw := range []bool{true, false} {
			insts := bucket.fw[fw]
			if len(insts) == 0 {
				continue
			}
			// Every policy at one (offset, orientation) carries the same
			// seed sequence, so every policy after the first is answered
			// from the cache entry the first one stored. The bucket gets
			// that one QVal, added once.
			var qv cache.QVal
			for _, inst := range insts {
				qv = a.searchOneSeed(inst, met)
			}
			inst := insts[0]
			sr.Add(qv, inst.SeedOffIdx, bucket.off, inst.Fw, inst.Policy.Len)
			if a.HitSink != nil {
				a.HitSink.SeedHit(readName, inst.SeedOffIdx, inst.Fw, inst.Policy.Len, qv.NumElts())
			}
		}
	}

	if a.CounterSink != nil {
		a.CounterSink.SeedCounters(readName, met)
	}
}

// searchOneSeed is the cache-then-search path of spec.md §4.4.1.1:
// local cache first, then global (promoting a global hit into local),
// then a fresh bidirectional search on a miss.
func (a *SeedAligner) searchOneSeed(inst *seed.InstantiatedSeed, met *metrics.SeedSearchMetrics) cache.QVal {
	key := string(inst.Seq)

	if qv, ok := a.Local.Lookup(key); ok {
		met.Intrahit++
		return qv
	}
	if a.Global != nil {
		if qv, ok := a.Global.Lookup(key); ok {
			met.Interhit++
			a.Local.Add(key, qv)
			return qv
		}
	}

	local := &metrics.SeedSearchMetrics{}
	qv := a.searchSeedBi(inst, local)
	met.Merge(local)

	a.Local.Add(key, qv)
	if a.Global != nil {
		a.Global.Add(key, qv)
	}
	return qv
}

package align

import (
	"github.com/exascience/pargo/parallel"

	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/metrics"
	"github.com/bioseed/seedalign/results"
	"github.com/bioseed/seedalign/seed"
)

// BatchRead is one read to search, paired with the results/metrics
// slots SearchBatch fills for it.
type BatchRead struct {
	Name string
	Read *dna.Read

	Results *results.SeedResults
	Metrics *metrics.SeedSearchMetrics
}

// SearchBatch runs InstantiateSeeds/SearchAllSeeds for every read in
// batch, one goroutine per read, per spec.md §5's "coarse-grained
// parallel threads, one read per thread" model — the same shape
// elprep's filters/realign.go uses to fan a batch of alignments out
// across parallel.Range.
//
// aligners must have one entry per read in batch (len(aligners) ==
// len(batch)): each read is strictly owned by its own *SeedAligner for
// the duration of the search, per spec.md §5. Global, if any of them
// share one, is internally synchronized.
func SearchBatch(aligners []*SeedAligner, batch []BatchRead, policies []*seed.Seed, per int, nQuality byte, nCeilConst, nCeilLinear float64) *metrics.SeedSearchMetrics {
	if len(aligners) != len(batch) {
		panic("align: SearchBatch requires one SeedAligner per read")
	}

	parallel.Range(0, len(batch), 0, func(low, high int) {
		for i := low; i < high; i++ {
			br := batch[i]
			worker := aligners[i]
			buckets, _, _ := InstantiateSeeds(policies, per, br.Read, nQuality, worker.Penalties, nCeilConst, nCeilLinear, br.Metrics)
			worker.SearchAllSeeds(br.Name, buckets, br.Results, br.Metrics)
		}
	})

	total := &metrics.SeedSearchMetrics{}
	for _, br := range batch {
		total.Merge(br.Metrics)
	}
	return total
}

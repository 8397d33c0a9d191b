// elPrep: a high-performance tool for preparing SAM/BAM files.
// Copyright (c) 2017, 2018 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

// Package cmd implements the seedalign command-line tool: load a
// reference, instantiate seeds for a batch of reads, search them
// against the reference's FM-index, and print ranked hits.
package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bioseed/seedalign/align"
	"github.com/bioseed/seedalign/cache"
	"github.com/bioseed/seedalign/constraint"
	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/internal"
	"github.com/bioseed/seedalign/metrics"
	"github.com/bioseed/seedalign/penalty"
	"github.com/bioseed/seedalign/refgenome"
	"github.com/bioseed/seedalign/results"
	"github.com/bioseed/seedalign/seed"
)

// SeedAlignHelp is the usage text printed for the seedalign subcommand,
// in the style of cmd/filter.go's *Help string constants.
const SeedAlignHelp = `seedalign -ref ref.fa -reads reads.fastq [options]

Instantiates seeds for every read in reads.fastq, searches them
against ref.fa's FM-index, and prints one tab-delimited line per
ranked hit bucket: read name, rank, offset index, offset, orientation,
seed length, number of reference positions, number of edits of the
first hit in the bucket.

Options:
 -mms=0|1|2           mismatches admitted per seed (default 1)
 -seedlen=int         seed length in bases (default 20)
 -per=int             offset stride between successive seeds (default seedlen)
 -overall-edits=int   overall edit budget across all three zones (default 2)
 -n-ceil-const=float  N ceiling intercept (default 2)
 -n-ceil-linear=float N ceiling slope per seed base (default 0.1)
 -nquality=int        quality attributed to an N in a read (default 0)
 -ftab=int            ftab k-mer width override (default refgenome.DefaultFtabWidth)
 -cache-splits=int    shard count for the process-wide seed cache (default cache.DefaultSplits)
`

// RunSeedAlign implements the seedalign subcommand: arguments is
// os.Args[2:].
func RunSeedAlign(arguments []string) {
	flags := flag.NewFlagSet("seedalign", flag.ExitOnError)
	refPath := flags.String("ref", "", "reference FASTA file")
	readsPath := flags.String("reads", "", "reads file (FASTA or FASTQ)")
	mms := flags.Int("mms", 1, "mismatches admitted per seed (0, 1, or 2)")
	seedLen := flags.Int("seedlen", 20, "seed length in bases")
	per := flags.Int("per", 0, "offset stride between successive seeds (0 = seedlen)")
	overallEdits := flags.Int("overall-edits", 2, "overall edit budget across all three zones")
	nCeilConst := flags.Float64("n-ceil-const", 2, "N ceiling intercept")
	nCeilLinear := flags.Float64("n-ceil-linear", 0.1, "N ceiling slope per seed base")
	nQuality := flags.Int("nquality", dna.NQuality, "quality attributed to an N in a read")
	ftabWidth := flags.Int("ftab", refgenome.DefaultFtabWidth, "ftab k-mer width override")
	cacheSplits := flags.Int("cache-splits", cache.DefaultSplits, "shard count for the process-wide seed cache")

	if err := flags.Parse(arguments); err != nil {
		log.Fatal(err)
	}
	if *refPath == "" || *readsPath == "" {
		fmt.Fprint(os.Stderr, SeedAlignHelp)
		os.Exit(1)
	}
	if *per == 0 {
		*per = *seedLen
	}

	fullRefPath, err := internal.FullPathname(*refPath)
	if err != nil {
		log.Fatalf("seedalign: resolving -ref: %v", err)
	}
	fullReadsPath, err := internal.FullPathname(*readsPath)
	if err != nil {
		log.Fatalf("seedalign: resolving -reads: %v", err)
	}

	ref, err := refgenome.Load(fullRefPath, *ftabWidth)
	if err != nil {
		log.Fatalf("seedalign: loading reference: %v", err)
	}
	defer func() {
		if cerr := ref.Close(); cerr != nil {
			log.Printf("seedalign: closing reference: %v", cerr)
		}
	}()

	policies, err := seed.MmSeeds(*mms, *seedLen, constraint.EditBased(*overallEdits))
	if err != nil {
		log.Fatalf("seedalign: %v", err)
	}

	reads, err := readFastqOrFasta(fullReadsPath)
	if err != nil {
		log.Fatalf("seedalign: reading reads: %v", err)
	}

	global := cache.NewGlobal(*cacheSplits)
	aligners := make([]*align.SeedAligner, len(reads))
	for i := 0; i < len(reads); i++ {
		aligners[i] = align.NewSeedAligner(ref.Index, penalty.Default(), global)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	sink := &metrics.TextHitSink{Printf: func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}}
	for _, a := range aligners {
		a.HitSink = sink
	}

	batch := make([]align.BatchRead, len(reads))
	for i, r := range reads {
		batch[i] = align.BatchRead{
			Name:    r.name,
			Read:    r.read,
			Results: &results.SeedResults{},
			Metrics: &metrics.SeedSearchMetrics{},
		}
	}

	total := align.SearchBatch(aligners, batch, policies, *per, byte(*nQuality), *nCeilConst, *nCeilLinear)

	for _, br := range batch {
		br.Results.Sort()
		for rank := 0; rank < br.Results.NumRanks(); rank++ {
			qv, offIdx, off, fw, hitSeedLen := br.Results.HitsByRank(rank)
			numEdits := 0
			if len(qv.Edits) > 0 {
				numEdits = len(qv.Edits[0])
			}
			fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%t\t%d\t%d\t%d\n",
				br.Name, rank, offIdx, off, fw, hitSeedLen, qv.NumElts(), numEdits)
		}
	}

	log.Printf("seedalign: %d reads, %d seedsearch, %d bwops, %d bwedits, %d intrahit, %d interhit",
		len(reads), total.Seedsearch, total.Bwops, total.Bwedits, total.Intrahit, total.Interhit)
}

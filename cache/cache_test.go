package cache

import (
	"testing"

	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/seed"
)

func TestLocalLookupMiss(t *testing.T) {
	c := NewLocal()
	if _, ok := c.Lookup("ACGT"); ok {
		t.Fatal("empty Local cache should miss")
	}
}

func TestLocalAddThenLookup(t *testing.T) {
	c := NewLocal()
	qv := QVal{
		Intervals: []fmindex.Interval{{TopF: 0, BotF: 2, TopB: 0, BotB: 2}},
		Edits:     [][]seed.Edit{nil},
	}
	c.Add("ACGT", qv)

	got, ok := c.Lookup("ACGT")
	if !ok {
		t.Fatal("expected hit after Add")
	}
	if got.NumElts() != 2 {
		t.Fatalf("NumElts() = %d, want 2", got.NumElts())
	}
	if !got.RepOk() {
		t.Fatal("cached QVal should satisfy RepOk")
	}
}

func TestLocalClear(t *testing.T) {
	c := NewLocal()
	c.Add("ACGT", QVal{})
	c.Clear()
	if _, ok := c.Lookup("ACGT"); ok {
		t.Fatal("Clear should empty the cache")
	}
}

func TestGlobalAddThenLookup(t *testing.T) {
	g := NewGlobal(4)
	qv := QVal{
		Intervals: []fmindex.Interval{{TopF: 0, BotF: 1, TopB: 0, BotB: 1}},
		Edits:     [][]seed.Edit{nil},
	}
	g.Add("ACGT", qv)

	got, ok := g.Lookup("ACGT")
	if !ok {
		t.Fatal("expected hit after Add")
	}
	if got.NumElts() != 1 {
		t.Fatalf("NumElts() = %d, want 1", got.NumElts())
	}
}

func TestGlobalAddIsAtMostOneProducer(t *testing.T) {
	g := NewGlobal(4)
	first := QVal{Intervals: []fmindex.Interval{{TopF: 0, BotF: 1, TopB: 0, BotB: 1}}, Edits: [][]seed.Edit{nil}}
	second := QVal{Intervals: []fmindex.Interval{{TopF: 0, BotF: 5, TopB: 0, BotB: 5}}, Edits: [][]seed.Edit{nil}}

	g.Add("ACGT", first)
	g.Add("ACGT", second)

	got, _ := g.Lookup("ACGT")
	if got.NumElts() != 1 {
		t.Fatalf("second Add should not overwrite the first producer's entry, got NumElts()=%d", got.NumElts())
	}
}

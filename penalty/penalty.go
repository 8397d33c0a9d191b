// Package penalty defines the per-edit cost tables consumed by the
// seed-alignment core. A Penalties value never changes once built; it is
// shared read-only across every goroutine searching reads concurrently.
package penalty

import "math"

// Penalties gives the cost of each kind of edit. All methods return
// non-negative integers. q is a Phred-scaled base quality; ex is the
// number of gap characters of the same kind already placed immediately
// before this one (0 = open a new gap, 1 = first extension, ...).
type Penalties struct {
	mmConst, mmLinear     float64
	nConst                float64
	insOpen, insExtend    int
	delOpen, delExtend    int
	qualCeil              int
}

// Mm returns the mismatch penalty for a base of quality q.
func (p *Penalties) Mm(q int) int {
	if q > p.qualCeil {
		q = p.qualCeil
	}
	if q < 0 {
		q = 0
	}
	return int(math.Round(p.mmConst + p.mmLinear*float64(q)))
}

// N returns the penalty for aligning against an N, regardless of quality.
func (p *Penalties) N(int) int {
	return int(math.Round(p.nConst))
}

// Ins returns the penalty for an insertion of extension count ex.
func (p *Penalties) Ins(ex int) int {
	if ex <= 0 {
		return p.insOpen
	}
	return p.insOpen + ex*p.insExtend
}

// Del returns the penalty for a deletion of extension count ex.
func (p *Penalties) Del(ex int) int {
	if ex <= 0 {
		return p.delOpen
	}
	return p.delOpen + ex*p.delExtend
}

// Default returns the canonical Bowtie2-style penalty scheme: a
// mismatch costs 6 at quality 0 and rises linearly to 30 near the
// maximum useful Phred quality, an N always costs 1, and gaps cost a
// fixed open plus a fixed per-base extend.
func Default() *Penalties {
	return &Penalties{
		mmConst:  6,
		mmLinear: 24.0 / 40.0,
		nConst:   1,
		insOpen:  5,
		insExtend: 3,
		delOpen:  5,
		delExtend: 3,
		qualCeil: 40,
	}
}

// Uniform returns a scheme in which every mismatch costs mm regardless
// of quality, every N costs n, and gaps cost open/extend flatly. This
// is the scheme used by spec fixtures (e.g. "uniform penalty mm(q)=30").
func Uniform(mm, n, gapOpen, gapExtend int) *Penalties {
	return &Penalties{
		mmConst:   float64(mm),
		mmLinear:  0,
		nConst:    float64(n),
		insOpen:   gapOpen,
		insExtend: gapExtend,
		delOpen:   gapOpen,
		delExtend: gapExtend,
		qualCeil:  255,
	}
}

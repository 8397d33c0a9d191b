package dna

import (
	"github.com/bits-and-blooms/bitset"
)

// NQuality is the quality value attributed to an N base absent an
// explicit quality string (matches the read's own quality bytes when
// those are supplied).
const NQuality = 0

// Read is a sequencing read's forward and reverse-complement
// representation, as consumed by seed instantiation. Bases outside
// A/C/G/T are recorded in NMaskFw/NMaskRc (a 2-bit code cannot encode a
// fifth symbol) and packed as A in Fw, and so as its complement T in Rc.
type Read struct {
	Fw, Rc     TwoBit
	QualFw     []byte // Phred-scaled qualities, same order as Fw
	QualRc     []byte
	NMaskFw    *bitset.BitSet
	NMaskRc    *bitset.BitSet
	Len        int
}

// NewRead builds a Read from an ASCII sequence and matching quality
// string (both length Len). Quality may be nil, in which case every
// base is treated as quality NQuality.
func NewRead(seq []byte, qual []byte) *Read {
	n := len(seq)
	r := &Read{
		Fw:      Make(n),
		Rc:      Make(n),
		QualFw:  make([]byte, n),
		QualRc:  make([]byte, n),
		NMaskFw: bitset.New(uint(n)),
		NMaskRc: bitset.New(uint(n)),
		Len:     n,
	}
	for i, b := range seq {
		code := Encode(b)
		q := byte(NQuality)
		if qual != nil {
			q = qual[i]
		}
		if code < 0 {
			r.NMaskFw.Set(uint(i))
			code = 0
		}
		r.Fw.Set(i, byte(code))
		r.QualFw[i] = q

		j := n - 1 - i
		rcCode := Complement(byte(code))
		if r.NMaskFw.Test(uint(i)) {
			r.NMaskRc.Set(uint(j))
		}
		r.Rc.Set(j, rcCode)
		r.QualRc[j] = q
	}
	return r
}

// Seq returns the TwoBit sequence for the given orientation.
func (r *Read) Seq(fw bool) TwoBit {
	if fw {
		return r.Fw
	}
	return r.Rc
}

// Qual returns the quality slice for the given orientation.
func (r *Read) Qual(fw bool) []byte {
	if fw {
		return r.QualFw
	}
	return r.QualRc
}

// NMask returns the N-position bitset for the given orientation.
func (r *Read) NMask(fw bool) *bitset.BitSet {
	if fw {
		return r.NMaskFw
	}
	return r.NMaskRc
}

// CountNs returns the number of N bases in [lo,hi) of the given
// orientation.
func (r *Read) CountNs(fw bool, lo, hi int) int {
	mask := r.NMask(fw)
	count := 0
	for i := lo; i < hi; i++ {
		if mask.Test(uint(i)) {
			count++
		}
	}
	return count
}

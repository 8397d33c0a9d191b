// Package refgenome loads a FASTA reference genome and builds the
// fmindex.Index the seed aligner searches against. It is the thin
// loader layer spec.md §1 calls out of scope ("read ingestion... file
// formats") while still needing to exist so the rest of the module has
// something concrete to search.
package refgenome

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"unicode"

	"golang.org/x/sys/unix"

	"github.com/bioseed/seedalign/fmindex"
	"github.com/bioseed/seedalign/fmindex/naive"
	"github.com/bioseed/seedalign/utils"
)

// DefaultFtabWidth is the k-mer length fmindex.Index.Ftab resolves in
// one lookup, absent an override.
const DefaultFtabWidth = 8

// Contig is one named sequence within the reference, at a known offset
// into the concatenated byte array the index is built over.
type Contig struct {
	Name   utils.Symbol
	Offset int
	Length int
}

// Reference is a loaded genome: its contigs, the concatenated sequence
// backing them (mmapped from the .fa file), and an fmindex.Index over
// that sequence.
type Reference struct {
	Contigs []Contig
	byName  map[string]int

	seq  []byte // concatenated, upper-cased, IUPAC-normalized to ACGTN
	data []byte // raw mmap, kept alive for Close
	file *os.File

	Index fmindex.Index
}

// Load parses path.fai if present (only to pre-size the sequence
// buffer), mmaps path read-only, scans it into contigs, and builds a
// naive FM-index over the concatenated reference. ftabWidth of 0 selects DefaultFtabWidth.
// path must name an uncompressed FASTA file; compressed references are
// out of scope here (see DESIGN.md).
func Load(path string, ftabWidth int) (*Reference, error) {
	if ftabWidth == 0 {
		ftabWidth = DefaultFtabWidth
	}

	fai, faiErr := parseFai(path + ".fai")

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, serr := file.Stat()
	if serr != nil {
		_ = file.Close()
		return nil, serr
	}
	size := int(stat.Size())
	var data []byte
	if size > 0 {
		data, err = unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	ref, err := parseFasta(data, fai)
	if err != nil {
		if data != nil {
			_ = unix.Munmap(data)
		}
		_ = file.Close()
		return nil, err
	}
	ref.data = data
	ref.file = file

	if faiErr != nil && len(ref.Contigs) == 0 {
		return nil, fmt.Errorf("refgenome: empty reference %s", path)
	}

	ref.Index = naive.Build(ref.seq, ftabWidth)
	return ref, nil
}

// Close releases the mmap backing the reference.
func (r *Reference) Close() error {
	var err error
	if r.data != nil {
		err = unix.Munmap(r.data)
		r.data = nil
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
		r.file = nil
	}
	return err
}

// ContigByName returns the contig registered under name, if any.
func (r *Reference) ContigByName(name string) (Contig, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Contig{}, false
	}
	return r.Contigs[i], true
}

// Seq returns the full concatenated, upper-cased, IUPAC-normalized
// reference sequence the index was built over.
func (r *Reference) Seq() []byte {
	return r.seq
}

type faiEntry struct {
	length    int64
	offset    int64
	lineBases int64
	lineWidth int64
}

// parseFai parses a samtools-style .fai index. Absence is not an
// error; it just means ParseFasta cannot pre-size contig buffers.
func parseFai(path string) (map[string]faiEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fai := make(map[string]faiEntry)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := bytes.Split(scanner.Bytes(), []byte("\t"))
		if len(fields) != 5 {
			return nil, fmt.Errorf("refgenome: malformed .fai line %q", scanner.Text())
		}
		length, err1 := strconv.ParseInt(string(fields[1]), 10, 64)
		offset, err2 := strconv.ParseInt(string(fields[2]), 10, 64)
		lineBases, err3 := strconv.ParseInt(string(fields[3]), 10, 64)
		lineWidth, err4 := strconv.ParseInt(string(fields[4]), 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("refgenome: malformed .fai numeric field in %q", scanner.Text())
		}
		fai[string(fields[0])] = faiEntry{length, offset, lineBases, lineWidth}
	}
	return fai, scanner.Err()
}

// contigFromHeader extracts the first whitespace-delimited token after
// '>' from a FASTA header line, ported from fasta-files.go.
func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	return string(b[i:j])
}

var iupacUpperToN = map[byte]byte{
	'A': 'A', 'a': 'A', 'C': 'C', 'c': 'C', 'G': 'G', 'g': 'G', 'T': 'T', 't': 'T',
	'N': 'N', 'n': 'N', 'R': 'N', 'r': 'N', 'Y': 'N', 'y': 'N', 'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N', 'W': 'N', 'w': 'N', 'S': 'N', 's': 'N', 'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N', 'H': 'N', 'h': 'N', 'V': 'N', 'v': 'N',
}

func normalizeBase(b byte) byte {
	if n, ok := iupacUpperToN[b]; ok {
		return n
	}
	if unicode.IsUpper(rune(b)) {
		return b
	}
	return byte(unicode.ToUpper(rune(b)))
}

// parseFasta scans mmapped FASTA bytes into contigs laid out
// back-to-back in one concatenated, normalized sequence. Ported from
// fasta-files.go's ParseFasta scan loop, adapted to build one
// concatenated index-ready buffer rather than a map[string][]byte.
func parseFasta(data []byte, fai map[string]faiEntry) (*Reference, error) {
	ref := &Reference{byName: make(map[string]int)}
	if len(data) == 0 {
		return ref, nil
	}

	lines := bytes.Split(data, []byte("\n"))
	var seq []byte
	if fai != nil {
		total := 0
		for _, e := range fai {
			total += int(e.length)
		}
		seq = make([]byte, 0, total)
	}

	flush := func(name string, start int) {
		if name == "" {
			return
		}
		ref.byName[name] = len(ref.Contigs)
		ref.Contigs = append(ref.Contigs, Contig{
			Name:   utils.Intern(name),
			Offset: start,
			Length: len(seq) - start,
		})
	}

	var contig string
	contigStart := 0
	for _, line := range lines {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush(contig, contigStart)
			contig = contigFromHeader(line)
			contigStart = len(seq)
			continue
		}
		for _, b := range line {
			seq = append(seq, normalizeBase(b))
		}
	}
	flush(contig, contigStart)

	ref.seq = seq
	return ref, nil
}

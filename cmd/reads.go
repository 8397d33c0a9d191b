package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bioseed/seedalign/dna"
	"github.com/bioseed/seedalign/internal"
)

// namedRead pairs one parsed read with the name its source file gave
// it, the smallest amount of bookkeeping RunSeedAlign needs to label
// its output lines.
type namedRead struct {
	name string
	read *dna.Read
}

// readFastqOrFasta parses path (a single file, or a directory of them,
// per cmd/merge.go's internal.Directory multi-file-input idiom) as
// FASTQ (if a record's first non-blank byte is '@') or FASTA (if '>'),
// matching elprep's own format-sniffing idiom in fasta/fasta-files.go's
// BGZF-magic-byte peek. Read ingestion and file formats are explicitly
// out of scope for the seed-search core this module implements (see
// SPEC_FULL.md §1); this is just enough parsing for RunSeedAlign to
// hand dna.Read values to it.
func readFastqOrFasta(path string) ([]namedRead, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readOneFile(path)
	}

	names, err := internal.Directory(path)
	if err != nil {
		return nil, err
	}
	var all []namedRead
	for _, name := range names {
		reads, err := readOneFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		all = append(all, reads...)
	}
	return all, nil
}

func readOneFile(path string) ([]namedRead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var first string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		first = line
		break
	}
	if first == "" {
		return nil, nil
	}

	switch first[0] {
	case '@':
		return parseFastq(first, scanner)
	case '>':
		return parseFasta(first, scanner)
	default:
		return nil, fmt.Errorf("cmd: %s: not FASTA or FASTQ (first line %q)", path, first)
	}
}

func parseFastq(first string, scanner *bufio.Scanner) ([]namedRead, error) {
	var reads []namedRead
	header := first
	for {
		if header == "" {
			break
		}
		name := strings.TrimPrefix(strings.Fields(header)[0], "@")

		if !scanner.Scan() {
			return nil, fmt.Errorf("cmd: FASTQ record %q: missing sequence line", name)
		}
		seq := []byte(scanner.Text())

		if !scanner.Scan() || !strings.HasPrefix(scanner.Text(), "+") {
			return nil, fmt.Errorf("cmd: FASTQ record %q: missing '+' separator", name)
		}

		if !scanner.Scan() {
			return nil, fmt.Errorf("cmd: FASTQ record %q: missing quality line", name)
		}
		qualLine := scanner.Text()
		qual := make([]byte, len(qualLine))
		for i := 0; i < len(qualLine); i++ {
			qual[i] = qualLine[i] - 33 // Phred+33
		}

		reads = append(reads, namedRead{name: name, read: dna.NewRead(seq, qual)})

		header = ""
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			header = line
			break
		}
	}
	return reads, scanner.Err()
}

func parseFasta(first string, scanner *bufio.Scanner) ([]namedRead, error) {
	var reads []namedRead
	header := first
	for header != "" {
		name := strings.TrimPrefix(strings.Fields(header)[0], ">")

		var seq []byte
		var next string
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, ">") {
				next = line
				break
			}
			seq = append(seq, []byte(strings.TrimSpace(line))...)
		}
		reads = append(reads, namedRead{name: name, read: dna.NewRead(seq, nil)})
		header = next
	}
	return reads, scanner.Err()
}

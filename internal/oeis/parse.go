package oeis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MaxNeighborOffset is the largest |offset| recorded in a numbers file.
const MaxNeighborOffset = 6

// ParseError reports a malformed line in a database file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadSequences parses a sequences file: one sequence per line as
// "<a_num>\t<name>\t<space separated terms>". Blank lines are skipped.
func ReadSequences(r io.Reader, c *Catalog) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		seq, err := parseSequenceLine(text)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		c.AddSequence(seq)
	}
	return sc.Err()
}

func parseSequenceLine(text string) (*Sequence, error) {
	parts := strings.Split(text, "\t")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 tab-separated fields, got %d", len(parts))
	}
	aNum, err := ParseANum(parts[0])
	if err != nil {
		return nil, err
	}
	terms, err := ParseTerms(parts[2])
	if err != nil {
		return nil, err
	}
	return &Sequence{ANum: aNum, Name: parts[1], Terms: terms}, nil
}

// ReadNumbers parses a numbers file. Each line is
// "<num> <total_count> <total_num_sequences>\t<index_counts>\t<neighbors>"
// where index_counts is "idx count" pairs joined by commas and neighbors holds
// 2*MaxNeighborOffset ";"-separated groups for offsets -6..-1 then 1..6, each
// group being "neighbor count" pairs joined by commas.
func ReadNumbers(r io.Reader, c *Catalog) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		num, err := parseNumberLine(text)
		if err != nil {
			return &ParseError{Line: line, Err: err}
		}
		c.AddNumber(num)
	}
	return sc.Err()
}

func parseNumberLine(text string) (*Number, error) {
	parts := strings.Split(text, "\t")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 tab-separated fields, got %d", len(parts))
	}

	basic := strings.Fields(parts[0])
	if len(basic) != 3 {
		return nil, errors.New("expected \"num total_count total_num_sequences\"")
	}
	num, err := strconv.ParseInt(basic[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing num: %w", err)
	}
	total, err := strconv.Atoi(basic[1])
	if err != nil {
		return nil, fmt.Errorf("parsing total_count: %w", err)
	}
	seqs, err := strconv.Atoi(basic[2])
	if err != nil {
		return nil, fmt.Errorf("parsing total_num_sequences: %w", err)
	}

	n := &Number{
		Num:            num,
		TotalCount:     total,
		TotalSequences: seqs,
		IndexCounts:    make(map[int]int),
		Neighbors:      make(map[int]map[int64]int),
	}

	if err := eachPair(parts[1], ",", func(a, b int64) {
		n.IndexCounts[int(a)] = int(b)
	}); err != nil {
		return nil, fmt.Errorf("parsing index_counts: %w", err)
	}

	groups := strings.Split(parts[2], ";")
	if len(groups) > 2*MaxNeighborOffset {
		return nil, fmt.Errorf("expected at most %d neighbor groups, got %d", 2*MaxNeighborOffset, len(groups))
	}
	for i, g := range groups {
		offset := i - MaxNeighborOffset
		if offset >= 0 {
			offset++
		}
		counts := make(map[int64]int)
		if err := eachPair(g, ",", func(a, b int64) {
			counts[a] = int(b)
		}); err != nil {
			return nil, fmt.Errorf("parsing neighbors at offset %d: %w", offset, err)
		}
		n.Neighbors[offset] = counts
	}
	return n, nil
}

// eachPair walks "a b<sep>a b..." calling fn for every pair.
func eachPair(s, sep string, fn func(a, b int64)) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for _, tok := range strings.Split(s, sep) {
		fields := strings.Fields(tok)
		if len(fields) != 2 {
			return fmt.Errorf("malformed pair %q", tok)
		}
		a, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return err
		}
		b, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		fn(a, b)
	}
	return nil
}

// LoadFiles builds a catalog from a sequences file and an optional numbers
// file. An empty path is skipped.
func LoadFiles(sequencesPath, numbersPath string) (*Catalog, error) {
	c := NewCatalog()
	if err := loadFile(sequencesPath, c, ReadSequences); err != nil {
		return nil, err
	}
	if err := loadFile(numbersPath, c, ReadNumbers); err != nil {
		return nil, err
	}
	return c, nil
}

func loadFile(path string, c *Catalog, read func(io.Reader, *Catalog) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f, c); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
			return pe
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

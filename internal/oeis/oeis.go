// Package oeis holds the integer-sequence records selected by users and the
// parsers for the flat-file database they are loaded from.
package oeis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidANum indicates a string that is not an A-number like "A000045".
var ErrInvalidANum = errors.New("invalid A-number")

// Sequence is one OEIS sequence.
type Sequence struct {
	ANum  int     `json:"a_num" yaml:"a_num"`
	Name  string  `json:"name" yaml:"name"`
	Terms []int64 `json:"terms" yaml:"terms"`
}

// ID returns the sequence's A-number in its canonical "A000045" form.
func (s *Sequence) ID() string {
	return FormatANum(s.ANum)
}

// Number is the aggregate info recorded for one integer across all sequences.
type Number struct {
	Num            int64 `json:"num" yaml:"num"`
	TotalCount     int   `json:"total_count" yaml:"total_count"`
	TotalSequences int   `json:"total_num_sequences" yaml:"total_num_sequences"`

	// IndexCounts maps a term index to how many sequences have Num there.
	IndexCounts map[int]int `json:"index_counts" yaml:"index_counts"`

	// Neighbors maps a signed offset (never 0) to the most frequent
	// neighbors at that offset and how often each occurred.
	Neighbors map[int]map[int64]int `json:"neighbors" yaml:"neighbors"`
}

// Record is the raw data behind one selection: either a sequence or a number.
type Record struct {
	Sequence *Sequence
	Number   *Number
}

// SequenceRecord wraps s as a Record.
func SequenceRecord(s *Sequence) Record {
	return Record{Sequence: s}
}

// NumberRecord wraps n as a Record.
func NumberRecord(n *Number) Record {
	return Record{Number: n}
}

// Key returns a stable identity for the record, used for selection slots.
func (r Record) Key() string {
	switch {
	case r.Sequence != nil:
		if r.Sequence.ANum > 0 {
			return r.Sequence.ID()
		}
		return r.Sequence.Name
	case r.Number != nil:
		return strconv.FormatInt(r.Number.Num, 10)
	}
	return ""
}

// FormatANum formats n as "A" followed by at least six digits.
func FormatANum(n int) string {
	return fmt.Sprintf("A%06d", n)
}

// ParseANum parses "A000045", "a45" or "45" into 45.
func ParseANum(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidANum
	}
	if s[0] == 'A' || s[0] == 'a' {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidANum, s)
	}
	return n, nil
}

// LooksLikeANum reports whether s is an A-prefixed sequence identifier.
func LooksLikeANum(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'A' && s[0] != 'a') {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

// ParseTerms parses a literal list of integers separated by commas and/or
// whitespace, e.g. "2,3,5,7" or "2 3 5 7".
func ParseTerms(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) == 0 {
		return nil, errors.New("no terms")
	}
	terms := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing term %q: %w", f, err)
		}
		terms = append(terms, v)
	}
	return terms, nil
}

// Catalog indexes loaded sequences and numbers for lookup.
type Catalog struct {
	sequences map[int]*Sequence
	numbers   map[int64]*Number
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		sequences: make(map[int]*Sequence),
		numbers:   make(map[int64]*Number),
	}
}

// AddSequence registers s, replacing any sequence with the same A-number.
func (c *Catalog) AddSequence(s *Sequence) {
	c.sequences[s.ANum] = s
}

// AddNumber registers n, replacing any previous entry for the same integer.
func (c *Catalog) AddNumber(n *Number) {
	c.numbers[n.Num] = n
}

// Sequence looks up a sequence by A-number.
func (c *Catalog) Sequence(aNum int) (*Sequence, bool) {
	s, ok := c.sequences[aNum]
	return s, ok
}

// Number looks up the info recorded for an integer.
func (c *Catalog) Number(num int64) (*Number, bool) {
	n, ok := c.numbers[num]
	return n, ok
}

// Sequences returns all sequences ordered by A-number.
func (c *Catalog) Sequences() []*Sequence {
	out := make([]*Sequence, 0, len(c.sequences))
	for _, s := range c.sequences {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ANum < out[j].ANum })
	return out
}

// Numbers returns all numbers in ascending order.
func (c *Catalog) Numbers() []*Number {
	out := make([]*Number, 0, len(c.numbers))
	for _, n := range c.numbers {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}

// Len returns the number of sequences and numbers in the catalog.
func (c *Catalog) Len() (sequences, numbers int) {
	return len(c.sequences), len(c.numbers)
}

// SloanesGap returns how many sequences each integer in [lo,hi] appears in.
func (c *Catalog) SloanesGap(lo, hi int64) map[int64]int {
	out := make(map[int64]int)
	for num, n := range c.numbers {
		if num >= lo && num <= hi {
			out[num] = n.TotalSequences
		}
	}
	return out
}

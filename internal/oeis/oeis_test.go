package oeis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseANum(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"A000045", 45, false},
		{"a45", 45, false},
		{"45", 45, false},
		{" A1 ", 1, false},
		{"", 0, true},
		{"A", 0, true},
		{"Axyz", 0, true},
		{"A000000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseANum(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseANum(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidANum) {
				t.Errorf("ParseANum(%q) err = %v, want ErrInvalidANum", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseANum(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatANum(t *testing.T) {
	if got := FormatANum(45); got != "A000045" {
		t.Errorf("FormatANum(45) = %q", got)
	}
	if got := FormatANum(1234567); got != "A1234567" {
		t.Errorf("FormatANum(1234567) = %q", got)
	}
}

func TestParseTerms(t *testing.T) {
	got, err := ParseTerms("2,3, 5\t7;-11")
	if err != nil {
		t.Fatalf("ParseTerms: %v", err)
	}
	want := []int64{2, 3, 5, 7, -11}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := ParseTerms("  "); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseTerms("1,x"); err == nil {
		t.Error("expected error for non-integer term")
	}
}

func TestReadSequences(t *testing.T) {
	input := "45\tFibonacci numbers\t0 1 1 2 3 5 8\n\n40\tThe prime numbers\t2 3 5 7 11\n"
	c := NewCatalog()
	if err := ReadSequences(strings.NewReader(input), c); err != nil {
		t.Fatalf("ReadSequences: %v", err)
	}

	fib, ok := c.Sequence(45)
	if !ok {
		t.Fatal("A000045 missing")
	}
	if fib.Name != "Fibonacci numbers" || len(fib.Terms) != 7 || fib.Terms[6] != 8 {
		t.Errorf("unexpected sequence %+v", fib)
	}
	if fib.ID() != "A000045" {
		t.Errorf("ID() = %q", fib.ID())
	}

	all := c.Sequences()
	if len(all) != 2 || all[0].ANum != 40 || all[1].ANum != 45 {
		t.Errorf("Sequences() not ordered by A-number: %+v", all)
	}
}

func TestReadSequencesMalformed(t *testing.T) {
	c := NewCatalog()
	err := ReadSequences(strings.NewReader("45\tonly two fields\n"), c)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 1 {
		t.Errorf("Line = %d, want 1", pe.Line)
	}
}

func TestReadNumbers(t *testing.T) {
	groups := make([]string, 12)
	groups[5] = "6 40,4 12" // offset -1
	groups[6] = "8 33"      // offset +1
	line := "7 100 60\t0 3,1 9\t" + strings.Join(groups, ";") + "\n"

	c := NewCatalog()
	if err := ReadNumbers(strings.NewReader(line), c); err != nil {
		t.Fatalf("ReadNumbers: %v", err)
	}
	n, ok := c.Number(7)
	if !ok {
		t.Fatal("number 7 missing")
	}
	if n.TotalCount != 100 || n.TotalSequences != 60 {
		t.Errorf("unexpected totals %+v", n)
	}
	if n.IndexCounts[1] != 9 || n.IndexCounts[0] != 3 {
		t.Errorf("unexpected index counts %v", n.IndexCounts)
	}
	if n.Neighbors[-1][6] != 40 || n.Neighbors[-1][4] != 12 {
		t.Errorf("unexpected offset -1 neighbors %v", n.Neighbors[-1])
	}
	if n.Neighbors[1][8] != 33 {
		t.Errorf("unexpected offset +1 neighbors %v", n.Neighbors[1])
	}
	if _, ok := n.Neighbors[0]; ok {
		t.Error("offset 0 must never be recorded")
	}
	if len(n.Neighbors[6]) != 0 {
		t.Errorf("offset 6 should be empty, got %v", n.Neighbors[6])
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	seqPath := filepath.Join(dir, "sequences.txt")
	if err := os.WriteFile(seqPath, []byte("40\tprimes\t2 3 5 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFiles(seqPath, "")
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if seqs, nums := c.Len(); seqs != 1 || nums != 0 {
		t.Errorf("Len() = %d,%d want 1,0", seqs, nums)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("nope\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFiles(bad, "")
	var pe *ParseError
	if !errors.As(err, &pe) || pe.File != bad {
		t.Errorf("expected ParseError for %s, got %v", bad, err)
	}

	if _, err := LoadFiles(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRecordKey(t *testing.T) {
	if k := SequenceRecord(&Sequence{ANum: 40}).Key(); k != "A000040" {
		t.Errorf("sequence key = %q", k)
	}
	if k := SequenceRecord(&Sequence{Name: "ad hoc"}).Key(); k != "ad hoc" {
		t.Errorf("ad-hoc key = %q", k)
	}
	if k := NumberRecord(&Number{Num: -3}).Key(); k != "-3" {
		t.Errorf("number key = %q", k)
	}
	if k := (Record{}).Key(); k != "" {
		t.Errorf("empty key = %q", k)
	}
}

func TestCatalogNumbersAndGaps(t *testing.T) {
	c := NewCatalog()
	c.AddNumber(&Number{Num: 12, TotalSequences: 40})
	c.AddNumber(&Number{Num: -3, TotalSequences: 2})
	c.AddNumber(&Number{Num: 7, TotalSequences: 60})

	nums := c.Numbers()
	if len(nums) != 3 || nums[0].Num != -3 || nums[2].Num != 12 {
		t.Errorf("Numbers() not sorted: %v", nums)
	}

	gaps := c.SloanesGap(0, 10)
	if len(gaps) != 1 || gaps[7] != 60 {
		t.Errorf("SloanesGap(0, 10) = %v", gaps)
	}
}

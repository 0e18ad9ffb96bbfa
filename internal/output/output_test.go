package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/xuri/excelize/v2"

	"github.com/voeis/seqplot/internal/extent"
	"github.com/voeis/seqplot/internal/grid"
	"github.com/voeis/seqplot/internal/series"
)

func primesWindow(t *testing.T) grid.Window {
	t.Helper()
	c := grid.New(grid.Options{NumCols: 20})
	if err := c.AddSeries(0, []int64{2, 3, 5, 7}); err != nil {
		t.Fatal(err)
	}
	return c.ComputeWindow()
}

var primesInfo = []SeriesInfo{{Index: 0, Key: "A000040", Name: "The prime numbers.", Color: "#0080ff", Terms: 4}}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xlsx", FormatXLSX, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
	if !FormatXLSX.Binary() || FormatJSON.Binary() {
		t.Error("only xlsx is binary")
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, FormatJSON)
	if !f.IsStructured() {
		t.Fatal("json should be structured")
	}
	if err := f.Encode(NewGridReport(primesWindow(t), primesInfo)); err != nil {
		t.Fatal(err)
	}

	var got GridReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Base != 10 || got.NumCols != 20 || len(got.Cells) != 4 {
		t.Errorf("report = %+v", got)
	}
	if got.Series[0].Key != "A000040" {
		t.Errorf("series = %+v", got.Series)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	steps := []ExtentStep{NewExtentStep(1, "select", 0, "A000045", true, extent.Global{
		X: series.Range{Min: 0, Max: 9},
		Y: series.Range{Min: 0, Max: 34},
	})}
	if err := New(&buf, FormatYAML).Encode(steps); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"op: select", "key: A000045", "changed: true", "max: 34"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeText(t *testing.T) {
	f := New(&bytes.Buffer{}, FormatText)
	if f.IsStructured() {
		t.Error("text is not structured")
	}
	if err := f.Encode(1); err == nil {
		t.Error("text formatter should refuse Encode")
	}
}

func TestGridReport(t *testing.T) {
	r := NewGridReport(primesWindow(t), nil)
	if len(r.Cells) != 4 {
		t.Fatalf("cells = %+v", r.Cells)
	}
	c := r.Cells[0]
	if c.Value != 2 || c.Column != 0 || c.Row != 2 || c.GridColumn != 0 {
		t.Errorf("first cell = %+v", c)
	}
	if len(c.Occurrences) != 1 || c.Occurrences[0].Series != 0 || c.Occurrences[0].Positions[0] != 0 {
		t.Errorf("occurrences = %+v", c.Occurrences)
	}
	if r.ColumnLabels[0] != 0 || r.ColumnLabels[1] != 10 {
		t.Errorf("labels = %v", r.ColumnLabels[:2])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, primesWindow(t), primesInfo); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Grid" || sheets[1] != "Cells" || sheets[2] != "Series" {
		t.Fatalf("sheets = %v", sheets)
	}

	checks := []struct {
		sheet, cell, want string
	}{
		{"Grid", "A1", "base 10"},
		{"Grid", "B1", "0"},
		{"Grid", "C1", "10"},
		{"Grid", "A2", "9"},
		{"Grid", "B4", "7"},
		{"Grid", "B9", "2"},
		{"Grid", "B11", ""},
		{"Cells", "A2", "2"},
		{"Cells", "E2", "0:[0]"},
		{"Series", "B2", "A000040"},
		{"Series", "E2", "4"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Errorf("GetCellValue(%s, %s): %v", c.sheet, c.cell, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestWriteXLSXMarksCollapsedColumns(t *testing.T) {
	c := grid.New(grid.Options{NumCols: 10})
	if err := c.AddSeries(0, []int64{0, 1, 2, 50}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, c.ComputeWindow(), nil); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// window columns 1 and 2 are the ellipsis, spreadsheet columns C and D
	for _, cell := range []string{"C2", "D11"} {
		if got, _ := f.GetCellValue("Grid", cell); got != "..." {
			t.Errorf("Grid!%s = %q, want ...", cell, got)
		}
	}
}

func TestTableAlignsStyledCells(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "KEY", "NAME")
	tbl.AddRow("\x1b[31mA000045\x1b[0m", "Fibonacci")
	tbl.AddRow("A1", "x")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 || tbl.Len() != 2 {
		t.Fatalf("lines = %q", lines)
	}
	want := []string{
		"  KEY      NAME",
		"  -------  ---------",
		"  A000045  Fibonacci",
		"  A1       x",
	}
	for i, line := range lines {
		if got := ansi.Strip(line); got != want[i] {
			t.Errorf("line %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestExtentTable(t *testing.T) {
	var buf bytes.Buffer
	ExtentTable(&buf, []ExtentStep{
		NewExtentStep(1, "select", 0, "A000045", true, extent.Global{
			X: series.Range{Min: 0, Max: 2},
			Y: series.Range{Min: 1, Max: 3},
		}),
		{Step: 2, Op: "select", Index: 1, Key: "A999999", Error: "not found"},
	})
	out := buf.String()
	for _, want := range []string{"CHANGED", "yes", "[1, 3]", "not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Fibonacci numbers", 20, "Fibonacci numbers"},
		{"Fibonacci numbers", 9, "Fibona..."},
		{"Fibonacci", 3, "Fib"},
		{"Fibonacci", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestCountStr(t *testing.T) {
	if got := CountStr(1, "time", "times"); got != "1 time" {
		t.Errorf("CountStr(1) = %q", got)
	}
	if got := CountStr(3, "time", "times"); got != "3 times" {
		t.Errorf("CountStr(3) = %q", got)
	}
}

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/voeis/seqplot/internal/grid"
)

// SeriesInfo describes one selected series.
type SeriesInfo struct {
	Index int    `json:"index" yaml:"index"`
	Key   string `json:"key" yaml:"key"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Color string `json:"color" yaml:"color"`
	Terms int    `json:"terms" yaml:"terms"`
}

// CellReport is a populated cell of a grid window.
type CellReport struct {
	// Column and Row are window coordinates.
	Column      int               `json:"column" yaml:"column"`
	Row         int               `json:"row" yaml:"row"`
	Value       int64             `json:"value" yaml:"value"`
	GridColumn  int               `json:"grid_column" yaml:"grid_column"`
	Occurrences []grid.Occurrence `json:"occurrences" yaml:"occurrences"`
}

// GridReport is the serializable form of a grid window.
type GridReport struct {
	Base         int             `json:"base" yaml:"base"`
	NumCols      int             `json:"num_cols" yaml:"num_cols"`
	ColumnLabels []int64         `json:"column_labels" yaml:"column_labels"`
	Series       []SeriesInfo    `json:"series" yaml:"series"`
	Cells        []CellReport    `json:"cells" yaml:"cells"`
	Ellipses     []grid.Ellipsis `json:"ellipses,omitempty" yaml:"ellipses,omitempty"`
}

// NewGridReport keeps the populated cells of w.
func NewGridReport(w grid.Window, series []SeriesInfo) GridReport {
	r := GridReport{
		Base:         w.Base,
		NumCols:      w.NumCols,
		ColumnLabels: w.ColumnLabels,
		Series:       series,
		Cells:        []CellReport{},
		Ellipses:     w.Ellipses,
	}
	for col := 0; col < w.NumCols; col++ {
		for row := 0; row < w.Base; row++ {
			c := w.Cell(col, row)
			if c.Kind != grid.CellPopulated {
				continue
			}
			r.Cells = append(r.Cells, CellReport{
				Column:      col,
				Row:         row,
				Value:       c.Value,
				GridColumn:  c.Column,
				Occurrences: c.Occurrences,
			})
		}
	}
	return r
}

const (
	gridSheet   = "Grid"
	cellsSheet  = "Cells"
	seriesSheet = "Series"
)

// WriteXLSX writes w as a workbook with three sheets: the grid laid out as
// on screen, one row per populated cell, and the selected series.
func WriteXLSX(out io.Writer, w grid.Window, series []SeriesInfo) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return err
	}
	if err := writeGridSheet(f, w); err != nil {
		return fmt.Errorf("writing %s sheet: %w", gridSheet, err)
	}

	r := NewGridReport(w, series)
	if _, err := f.NewSheet(cellsSheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Value", "Window Column", "Row", "Grid Column", "Occurrences"}}
	for _, c := range r.Cells {
		rows = append(rows, []interface{}{c.Value, c.Column, c.Row, c.GridColumn, formatOccurrences(c.Occurrences)})
	}
	if err := writeRows(f, cellsSheet, rows); err != nil {
		return fmt.Errorf("writing %s sheet: %w", cellsSheet, err)
	}

	if _, err := f.NewSheet(seriesSheet); err != nil {
		return err
	}
	rows = [][]interface{}{{"Index", "Key", "Name", "Color", "Terms"}}
	for _, s := range series {
		rows = append(rows, []interface{}{s.Index, s.Key, s.Name, s.Color, s.Terms})
	}
	if err := writeRows(f, seriesSheet, rows); err != nil {
		return fmt.Errorf("writing %s sheet: %w", seriesSheet, err)
	}

	_, err := f.WriteTo(out)
	return err
}

// writeGridSheet puts column labels in row 1 and residues base-1..0 below,
// matching the on-screen orientation.
func writeGridSheet(f *excelize.File, w grid.Window) error {
	header := make([]interface{}, w.NumCols+1)
	header[0] = fmt.Sprintf("base %d", w.Base)
	for col, label := range w.ColumnLabels {
		header[col+1] = label
	}
	if err := setRow(f, gridSheet, 1, header); err != nil {
		return err
	}

	for i := 0; i < w.Base; i++ {
		row := w.Base - 1 - i
		values := make([]interface{}, w.NumCols+1)
		values[0] = row
		for col := 0; col < w.NumCols; col++ {
			switch c := w.Cell(col, row); c.Kind {
			case grid.CellPopulated:
				values[col+1] = c.Value
			case grid.CellCollapsed:
				values[col+1] = "..."
			}
		}
		if err := setRow(f, gridSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// formatOccurrences renders occurrences as "0:[1 2]; 3:[0]".
func formatOccurrences(occ []grid.Occurrence) string {
	parts := make([]string, 0, len(occ))
	for _, o := range occ {
		pos := make([]string, len(o.Positions))
		for i, p := range o.Positions {
			pos[i] = strconv.Itoa(p)
		}
		parts = append(parts, fmt.Sprintf("%d:[%s]", o.Series, strings.Join(pos, " ")))
	}
	return strings.Join(parts, "; ")
}

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/xtding233/roic-sim/internal/roic"
)

// Sheet names in workbook order.
const (
	SheetImprovement = "Improvement"
	SheetTaxRate     = "TaxRate"
	SheetProjection  = "Projection"
	SheetSummary     = "Summary"
)

// WriteWorkbook exports both analyses as an xlsx workbook.
func WriteWorkbook(w io.Writer, sy roic.SingleYear, p roic.Projection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetImprovement); err != nil {
		return err
	}
	for _, name := range []string{SheetTaxRate, SheetProjection, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	sheets := []sheetData{
		improvementSheet(sy.Improvement),
		{
			name:   SheetTaxRate,
			header: []any{"Ineffective Share", "Effective Tax Rate"},
			rows:   columns(sy.TaxRate.X, sy.TaxRate.Y),
		},
		projectionSheet(p),
		summarySheet(p),
	}
	for _, s := range sheets {
		if err := writeRows(f, s.name, s.header, s.rows); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}

type sheetData struct {
	name   string
	header []any
	rows   [][]any
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// columns zips parallel slices into rows, stopping at the shortest.
func columns(cols ...[]float64) [][]any {
	n := -1
	for _, c := range cols {
		if n < 0 || len(c) < n {
			n = len(c)
		}
	}
	rows := make([][]any, max(n, 0))
	for i := range rows {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		rows[i] = row
	}
	return rows
}

func improvementSheet(im roic.Improvement) sheetData {
	header := []any{"Removed"}
	var cols [][]float64
	for i, s := range im.Scenarios {
		if i == 0 {
			cols = append(cols, s.X)
		}
		header = append(header, EffectivenessLabel(s.Effectiveness))
		cols = append(cols, s.Y)
	}
	var rows [][]any
	if len(cols) > 0 {
		rows = columns(cols...)
	}
	return sheetData{SheetImprovement, header, rows}
}

func projectionSheet(p roic.Projection) sheetData {
	header := []any{"Year"}
	var rows [][]any
	for i, s := range p.Scenarios {
		label := RemovalLabel(s.Removal)
		header = append(header, "Mean "+label, "Std "+label)
		for y := range s.Mean {
			if i == 0 {
				rows = append(rows, []any{s.Years[y]})
			}
			if y < len(rows) {
				rows[y] = append(rows[y], s.Mean[y], s.Std[y])
			}
		}
	}
	return sheetData{SheetProjection, header, rows}
}

func summarySheet(p roic.Projection) sheetData {
	header := []any{"Scenario", "Removal", "Mean", "Median", "Std", "Min", "Max", "P10", "P90"}
	rows := make([][]any, 0, len(p.Scenarios))
	for _, s := range p.Scenarios {
		f := s.Final
		rows = append(rows, []any{RemovalLabel(s.Removal), s.Removal, f.Mean, f.Median, f.Std, f.Min, f.Max, f.P10, f.P90})
	}
	return sheetData{SheetSummary, header, rows}
}

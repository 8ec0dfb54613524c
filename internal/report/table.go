package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xtding233/roic-sim/internal/roic"
)

// Table is a header plus formatted rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteTable prints t as aligned columns.
func WriteTable(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t")+"\t")
	for _, r := range t.Rows {
		fmt.Fprintln(tw, strings.Join(r, "\t")+"\t")
	}
	return tw.Flush()
}

// ImprovementTable lists ROIC per effectiveness scenario, keeping every
// step-th sweep point plus the last one.
func ImprovementTable(im roic.Improvement, step int) Table {
	t := Table{Header: []string{"Removed"}}
	if len(im.Scenarios) == 0 {
		return t
	}
	for _, s := range im.Scenarios {
		t.Header = append(t.Header, EffectivenessLabel(s.Effectiveness))
	}
	xs := im.Scenarios[0].X
	for _, i := range sampled(len(xs), step) {
		row := []string{FormatPercent(xs[i])}
		for _, s := range im.Scenarios {
			row = append(row, FormatPercent(s.Y[i]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TaxTable lists the effective tax rate per wasted share.
func TaxTable(c roic.Curve, step int) Table {
	t := Table{Header: []string{"Ineffective", "True Tax Rate"}}
	for _, i := range sampled(len(c.X), step) {
		t.Rows = append(t.Rows, []string{FormatPercent(c.X[i]), FormatPercent(c.Y[i])})
	}
	return t
}

// ProjectionTable lists mean ± std cumulative ROIC per year and scenario.
func ProjectionTable(p roic.Projection) Table {
	t := Table{Header: []string{"Year"}}
	if len(p.Scenarios) == 0 {
		return t
	}
	for _, s := range p.Scenarios {
		t.Header = append(t.Header, RemovalLabel(s.Removal))
	}
	for y, year := range p.Scenarios[0].Years {
		row := []string{fmt.Sprint(year)}
		for _, s := range p.Scenarios {
			row = append(row, FormatPercent(s.Mean[y])+" ± "+FormatPercent(s.Std[y]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SummaryTable lists the final-year distribution per scenario.
func SummaryTable(p roic.Projection) Table {
	t := Table{Header: []string{"Scenario", "Mean", "Median", "Std", "P10", "P90"}}
	for _, s := range p.Scenarios {
		f := s.Final
		t.Rows = append(t.Rows, []string{
			RemovalLabel(s.Removal),
			FormatPercent(f.Mean), FormatPercent(f.Median), FormatPercent(f.Std),
			FormatPercent(f.P10), FormatPercent(f.P90),
		})
	}
	return t
}

func sampled(n, step int) []int {
	if step < 1 {
		step = 1
	}
	var idx []int
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if n > 0 && idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

package report

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xtding233/roic-sim/internal/roic"
)

func sampleInputs() roic.FinancialInputs {
	return roic.FinancialInputs{
		Revenue:             100_000_000,
		COGS:                40_000_000,
		NonMarketingOpex:    20_000_000,
		TotalMarketingSpend: 30_000_000,
		TaxRate:             0.25,
		InvestedCapital:     70_000_000,
	}
}

func sampleRun(t *testing.T) (roic.SingleYear, roic.Projection) {
	t.Helper()
	sy, err := roic.Analyze(sampleInputs(), roic.DefaultAnalysisParams())
	require.NoError(t, err)
	params := roic.DefaultProjectionParams()
	params.Simulations = 50
	p, err := roic.NewProjector(roic.WithSources(roic.SeededSources(3))).
		Project(context.Background(), sampleInputs(), roic.GrowthParameters{MarketingGrowth: 0.1, CapitalGrowth: 0.1}, params)
	require.NoError(t, err)
	return sy, p
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.56, "$1,234.56"},
		{100_000_000, "$100,000,000.00"},
		{999.999, "$1,000.00"},
		{-1234.5, "$-1,234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in), "%v", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.3%", FormatPercent(0.1234))
	assert.Equal(t, "25.0%", FormatPercent(0.25))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "-5.0%", FormatPercent(-0.05))
	assert.Equal(t, "127.8%", FormatPercent(1.2776))
}

func TestFormatNonFinite(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "NaN%", FormatPercent(math.NaN()))
		assert.Equal(t, "+Inf%", FormatPercent(math.Inf(1)))
		assert.Equal(t, "$-Inf", FormatCurrency(math.Inf(-1)))
		assert.Equal(t, "$NaN", FormatCurrency(math.NaN()))
	})
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "50% Effective", EffectivenessLabel(0.5))
	assert.Equal(t, "25% Effective", EffectivenessLabel(0.25))
	assert.Equal(t, "33% Waste Removed", RemovalLabel(0.33))
	assert.Equal(t, "0% Waste Removed", RemovalLabel(0))
	assert.Equal(t, "99% Waste Removed", RemovalLabel(0.99))
}

func TestImprovementChart(t *testing.T) {
	sy, _ := sampleRun(t)
	c := ImprovementChart(sy.Improvement)

	require.Len(t, c.Series, 3)
	assert.Equal(t, "25% Effective", c.Series[0].Name)
	assert.Equal(t, "#007AFF", c.Series[0].Color)
	assert.InDelta(t, 7.5/70*100, c.Series[1].Y[0], 1e-9)
	assert.Equal(t, Benchmarks, c.References)

	lo, hi := 7.5/70*100, 24.375/70*100
	pad := (hi - lo) * 0.1
	assert.InDelta(t, lo-pad, c.YRange[0], 1e-9)
	assert.Equal(t, 40.0, c.YRange[1], "top is lifted to fit the benchmarks")

	empty := ImprovementChart(roic.Improvement{})
	assert.Equal(t, [2]float64{0, 40}, empty.YRange)
}

func TestTaxChart(t *testing.T) {
	sy, _ := sampleRun(t)
	c := TaxChart(sy.TaxRate)
	require.Len(t, c.Series, 1)
	s := c.Series[0]
	assert.Equal(t, "True Tax Rate", s.Name)
	assert.InDelta(t, 25.0, s.Y[0], 1e-9)
	assert.Equal(t, 0.0, c.YRange[0])
	assert.InDelta(t, s.Y[len(s.Y)-1]*1.1, c.YRange[1], 1e-9)
}

func TestProjectionChart(t *testing.T) {
	_, p := sampleRun(t)
	c := ProjectionChart(p)
	assert.Equal(t, "5-Year Cumulative ROIC by Waste Removal Scenario", c.Title)
	require.Len(t, c.Series, 4)
	require.Len(t, c.Bands, 4)

	first := p.Scenarios[0]
	assert.Equal(t, "0% Waste Removed", c.Series[0].Name)
	assert.Equal(t, "rgba(255, 59, 48, 0.2)", c.Bands[0].Fill)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, c.Series[0].X)
	for i := range first.Mean {
		assert.InDelta(t, (first.Mean[i]+first.Std[i])*100, c.Bands[0].Upper[i], 1e-9)
		assert.InDelta(t, (first.Mean[i]-first.Std[i])*100, c.Bands[0].Lower[i], 1e-9)
	}

	top := 0.0
	for _, b := range c.Bands {
		for _, u := range b.Upper {
			top = max(top, u)
		}
	}
	assert.InDelta(t, top*1.1, c.YRange[1], 1e-9)

	// unknown scenarios still get a color
	odd := ProjectionChart(roic.Projection{Scenarios: []roic.ScenarioProjection{{Removal: 0.5, Years: []int{1}, Mean: []float64{0.1}, Std: []float64{0}}}})
	assert.Equal(t, fallbackColor, odd.Series[0].Color)
}

func TestWriteWorkbook(t *testing.T) {
	sy, p := sampleRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sy, p))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetImprovement, SheetTaxRate, SheetProjection, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetImprovement)
	require.NoError(t, err)
	require.Len(t, rows, roic.DefaultPoints+1)
	assert.Equal(t, []string{"Removed", "25% Effective", "50% Effective", "75% Effective"}, rows[0])

	rows, err = f.GetRows(SheetTaxRate)
	require.NoError(t, err)
	assert.Len(t, rows, roic.DefaultPoints+1)
	assert.Equal(t, "0.25", rows[1][1])

	rows, err = f.GetRows(SheetProjection)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Len(t, rows[0], 1+2*len(p.Scenarios))
	assert.Equal(t, "1", rows[1][0])

	rows, err = f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(p.Scenarios))
	assert.Equal(t, "99% Waste Removed", rows[4][0])
}

func TestWriteTable(t *testing.T) {
	sy, p := sampleRun(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, ImprovementTable(sy.Improvement, 10)))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header, points 0,10,20,30,40 and the last one
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "50% Effective")
	assert.Contains(t, lines[1], "10.7%")
	assert.Contains(t, lines[6], "100.0%")

	buf.Reset()
	require.NoError(t, WriteTable(&buf, ProjectionTable(p)))
	assert.Contains(t, buf.String(), "99% Waste Removed")
	assert.Contains(t, buf.String(), "±")

	tax := TaxTable(sy.TaxRate, 49)
	require.Len(t, tax.Rows, 2)
	assert.Equal(t, []string{"0.0%", "25.0%"}, tax.Rows[0])

	assert.Len(t, SummaryTable(p).Rows, len(p.Scenarios))
	assert.Empty(t, ImprovementTable(roic.Improvement{}, 1).Rows)
}

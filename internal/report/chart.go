package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xtding233/roic-sim/internal/roic"
)

// Series is one plotted line. Y values are percentages.
type Series struct {
	Name  string    `json:"name"`
	Color string    `json:"color"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Dash  bool      `json:"dash,omitempty"`
}

// Band is a shaded mean ± std region drawn behind a series.
type Band struct {
	Name  string    `json:"name"`
	Fill  string    `json:"fill"`
	X     []float64 `json:"x"`
	Upper []float64 `json:"upper"`
	Lower []float64 `json:"lower"`
}

// Reference is a horizontal benchmark line.
type Reference struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a renderer-agnostic description of one dashboard figure.
type Chart struct {
	Title      string      `json:"title"`
	XTitle     string      `json:"x_title"`
	YTitle     string      `json:"y_title"`
	Series     []Series    `json:"series"`
	Bands      []Band      `json:"bands,omitempty"`
	References []Reference `json:"references,omitempty"`
	YRange     [2]float64  `json:"y_range"`
}

// Benchmarks are public-company ROIC levels, in percent.
var Benchmarks = []Reference{
	{Label: "META", Value: 35},
	{Label: "AAPL", Value: 39},
	{Label: "NFLX", Value: 23},
}

const (
	benchmarkColor = "#FFD700"
	taxColor       = "#FF3B30"
	fallbackColor  = "#8E8E93"
	// minImprovementTop keeps every benchmark line inside the plot.
	minImprovementTop = 40
)

var effectivenessColors = map[float64]string{
	0.25: "#007AFF",
	0.50: "#5856D6",
	0.75: "#AF52DE",
}

var removalColors = map[float64]string{
	0.00: "#FF3B30",
	0.33: "#FF9500",
	0.66: "#34C759",
	0.99: "#007AFF",
}

func colorFor(palette map[float64]string, k float64) string {
	if c, ok := palette[k]; ok {
		return c
	}
	return fallbackColor
}

// EffectivenessLabel renders 0.5 as "50% Effective".
func EffectivenessLabel(e float64) string {
	return fmt.Sprintf("%.0f%% Effective", e*100)
}

// RemovalLabel renders 0.33 as "33% Waste Removed".
func RemovalLabel(r float64) string {
	return fmt.Sprintf("%.0f%% Waste Removed", r*100)
}

func percents(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * 100
	}
	return out
}

// ImprovementChart plots ROIC against removed ineffective spend for each
// effectiveness scenario with benchmark lines.
func ImprovementChart(im roic.Improvement) Chart {
	c := Chart{
		Title:      "ROIC Improvement from Removing Ineffective Spend",
		XTitle:     "Ineffective Spend Removed (%)",
		YTitle:     "ROIC (%)",
		References: append([]Reference(nil), Benchmarks...),
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range im.Scenarios {
		y := percents(s.Y)
		for _, v := range y {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		c.Series = append(c.Series, Series{
			Name:  EffectivenessLabel(s.Effectiveness),
			Color: colorFor(effectivenessColors, s.Effectiveness),
			X:     append([]float64(nil), s.X...),
			Y:     y,
		})
	}
	if len(c.Series) == 0 || math.IsInf(lo, 0) {
		c.YRange = [2]float64{0, minImprovementTop}
		return c
	}
	pad := (hi - lo) * 0.1
	c.YRange = [2]float64{lo - pad, math.Max(hi+pad, minImprovementTop)}
	return c
}

// TaxChart plots the effective tax rate against the wasted share of spend.
func TaxChart(tax roic.Curve) Chart {
	y := percents(tax.Y)
	top := 0.0
	for _, v := range y {
		top = math.Max(top, v)
	}
	return Chart{
		Title:  "True Tax Rate From Ineffective Marketing Spend",
		XTitle: "Ineffective Marketing %",
		YTitle: "Tax Rate (%)",
		Series: []Series{{
			Name:  "True Tax Rate",
			Color: taxColor,
			X:     append([]float64(nil), tax.X...),
			Y:     y,
		}},
		YRange: [2]float64{0, top * 1.1},
	}
}

// ProjectionChart plots mean cumulative ROIC per year with a ±1 std band
// for each removal scenario.
func ProjectionChart(p roic.Projection) Chart {
	years := 0
	c := Chart{
		XTitle: "Year",
		YTitle: "Cumulative ROIC (%)",
	}
	top := 0.0
	for _, s := range p.Scenarios {
		years = max(years, len(s.Years))
		x := make([]float64, len(s.Years))
		for i, y := range s.Years {
			x[i] = float64(y)
		}
		upper := make([]float64, len(s.Mean))
		lower := make([]float64, len(s.Mean))
		for i := range s.Mean {
			upper[i] = (s.Mean[i] + s.Std[i]) * 100
			lower[i] = (s.Mean[i] - s.Std[i]) * 100
			top = math.Max(top, upper[i])
		}
		color := colorFor(removalColors, s.Removal)
		c.Bands = append(c.Bands, Band{
			Name:  RemovalLabel(s.Removal),
			Fill:  rgba(color, 0.2),
			X:     x,
			Upper: upper,
			Lower: lower,
		})
		c.Series = append(c.Series, Series{
			Name:  RemovalLabel(s.Removal),
			Color: color,
			X:     x,
			Y:     percents(s.Mean),
		})
	}
	c.Title = fmt.Sprintf("%d-Year Cumulative ROIC by Waste Removal Scenario", years)
	c.YRange = [2]float64{0, top * 1.1}
	return c
}

// rgba turns "#RRGGBB" into a CSS rgba() string with the given alpha.
func rgba(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	var rgb [3]uint64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return hex
		}
		rgb[i] = v
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", rgb[0], rgb[1], rgb[2], alpha)
}

package roic

import "fmt"

const (
	DefaultPoints            = 50
	DefaultYears             = 5
	DefaultSimulations       = 1000
	DefaultBaseEffectiveness = 0.5
	DefaultRevenueStd        = 0.05
	DefaultROICImpact        = 1.0

	// BaselineROIC is the hurdle above which ROIC feeds back into growth.
	BaselineROIC = 0.05
	// MarketingElasticity is the diminishing-returns exponent on marketing-driven revenue growth.
	MarketingElasticity = 0.7
	// ROICBoostFactor converts above-baseline ROIC into extra revenue growth.
	ROICBoostFactor = 0.7

	minROICAdjustment = -0.1
	maxROICAdjustment = 0.2
)

var (
	DefaultEffectivenessScenarios = []float64{0.25, 0.50, 0.75}
	DefaultRemovalScenarios       = []float64{0, 0.33, 0.66, 0.99}
)

// Sweep returns points evenly spaced fractions over [0,1], endpoints included.
// A single point is 0.
func Sweep(points int) []float64 {
	if points <= 0 {
		return []float64{}
	}
	xs := make([]float64, points)
	if points == 1 {
		return xs
	}
	step := 1 / float64(points-1)
	for i := range xs {
		xs[i] = float64(i) * step
	}
	xs[points-1] = 1
	return xs
}

// ROIC is NOPAT over invested capital, floored at 0 whenever operating
// income or capital is non-positive.
func ROIC(operatingIncome, taxRate, capital float64) float64 {
	if operatingIncome <= 0 || capital <= 0 {
		return 0
	}
	return operatingIncome * (1 - taxRate) / capital
}

// OperatingIncome is revenue less COGS, non-marketing opex and the given marketing spend.
func (in FinancialInputs) OperatingIncome(marketing float64) float64 {
	return in.Revenue - in.COGS - in.NonMarketingOpex - marketing
}

// EffectiveTaxRate is the rate which, applied to waste-free operating income,
// yields the NOPAT actually earned with waste taxed at the nominal rate.
// The result is not clamped and is 0 when waste-free income is non-positive.
func EffectiveTaxRate(in FinancialInputs, waste float64) float64 {
	effective := in.TotalMarketingSpend * (1 - waste)
	wasted := in.TotalMarketingSpend * waste

	trueIncome := in.OperatingIncome(effective)
	if trueIncome <= 0 {
		return 0
	}
	actualNOPAT := (trueIncome - wasted) * (1 - in.TaxRate)
	return 1 - actualNOPAT/trueIncome
}

// TaxCurve sweeps EffectiveTaxRate over points waste percentages.
func TaxCurve(in FinancialInputs, points int) Curve {
	xs := Sweep(points)
	ys := make([]float64, len(xs))
	for i, w := range xs {
		ys[i] = EffectiveTaxRate(in, w)
	}
	return Curve{X: xs, Y: ys}
}

// ROICImprovement computes ROIC as an increasing share of the ineffective
// spend is removed, for a fixed effectiveness fraction.
func ROICImprovement(in FinancialInputs, effectiveness float64, points int) Curve {
	ineffective := in.TotalMarketingSpend * (1 - effectiveness)
	xs := Sweep(points)
	ys := make([]float64, len(xs))
	for i, removal := range xs {
		marketing := in.TotalMarketingSpend - ineffective*removal
		ys[i] = ROIC(in.OperatingIncome(marketing), in.TaxRate, in.InvestedCapital)
	}
	return Curve{X: xs, Y: ys}
}

// ImprovementScenarios runs ROICImprovement once per effectiveness fraction.
func ImprovementScenarios(in FinancialInputs, effectiveness []float64, points int) Improvement {
	out := Improvement{Scenarios: make([]EffectivenessCurve, 0, len(effectiveness))}
	for _, e := range effectiveness {
		out.Scenarios = append(out.Scenarios, EffectivenessCurve{
			Effectiveness: e,
			Curve:         ROICImprovement(in, e, points),
		})
	}
	return out
}

// Analyze validates its arguments and computes both single-year analyses.
func Analyze(in FinancialInputs, p AnalysisParams) (SingleYear, error) {
	if err := in.Validate(); err != nil {
		return SingleYear{}, err
	}
	if err := p.Validate(); err != nil {
		return SingleYear{}, err
	}
	out := SingleYear{
		Improvement: ImprovementScenarios(in, p.Effectiveness, p.Points),
		TaxRate:     TaxCurve(in, p.Points),
	}
	for _, c := range out.Improvement.Scenarios {
		if !allFinite(c.Y) {
			return SingleYear{}, fmt.Errorf("%w: ROIC at %v effectiveness", ErrNonFinite, c.Effectiveness)
		}
	}
	if !allFinite(out.TaxRate.Y) {
		return SingleYear{}, fmt.Errorf("%w: effective tax rate", ErrNonFinite)
	}
	return out, nil
}

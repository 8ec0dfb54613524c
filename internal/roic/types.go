package roic

// FinancialInputs is one year's static business snapshot. Amounts are in
// currency units, TaxRate is a fraction.
type FinancialInputs struct {
	Revenue             float64 `json:"revenue" yaml:"revenue"`
	COGS                float64 `json:"cogs" yaml:"cogs"`
	NonMarketingOpex    float64 `json:"non_marketing_opex" yaml:"non_marketing_opex"`
	TotalMarketingSpend float64 `json:"total_marketing_spend" yaml:"total_marketing_spend"`
	TaxRate             float64 `json:"tax_rate" yaml:"tax_rate"`
	InvestedCapital     float64 `json:"invested_capital" yaml:"invested_capital"`
}

// GrowthParameters are annual compounding rates.
type GrowthParameters struct {
	MarketingGrowth float64 `json:"marketing_growth" yaml:"marketing_growth"`
	CapitalGrowth   float64 `json:"capital_growth" yaml:"capital_growth"`
}

// Curve is a pair of parallel sequences.
type Curve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// EffectivenessCurve is ROIC against removal fraction for one effectiveness assumption.
type EffectivenessCurve struct {
	Effectiveness float64 `json:"effectiveness"`
	Curve
}

// Improvement holds one curve per effectiveness scenario, in scenario order.
type Improvement struct {
	Scenarios []EffectivenessCurve `json:"scenarios"`
}

// ByEffectiveness looks up the curve computed for e.
func (im Improvement) ByEffectiveness(e float64) (EffectivenessCurve, bool) {
	for _, c := range im.Scenarios {
		if c.Effectiveness == e {
			return c, true
		}
	}
	return EffectivenessCurve{}, false
}

// SingleYear bundles both closed-form analyses.
type SingleYear struct {
	Improvement Improvement `json:"improvement"`
	TaxRate     Curve       `json:"tax_rate"`
}

// Summary describes a sample distribution.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"p10"`
	P90    float64 `json:"p90"`
}

// ScenarioProjection is the projector output for one removal scenario.
// Mean and Std are per-year statistics of cumulative ROIC across trials.
type ScenarioProjection struct {
	Removal float64   `json:"removal"`
	Years   []int     `json:"years"`
	Mean    []float64 `json:"mean_roic"`
	Std     []float64 `json:"std_roic"`
	// Final summarizes the last year's cumulative ROIC across trials.
	Final Summary `json:"final"`
}

// Projection holds one entry per removal scenario, in scenario order.
type Projection struct {
	Scenarios []ScenarioProjection `json:"scenarios"`
}

// ByRemoval looks up the projection for removal fraction r.
func (p Projection) ByRemoval(r float64) (ScenarioProjection, bool) {
	for _, s := range p.Scenarios {
		if s.Removal == r {
			return s, true
		}
	}
	return ScenarioProjection{}, false
}

// AnalysisParams sizes the single-year sweeps.
type AnalysisParams struct {
	Points        int       `json:"points"`
	Effectiveness []float64 `json:"effectiveness"`
}

// DefaultAnalysisParams returns 50 points over the three effectiveness scenarios.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		Points:        DefaultPoints,
		Effectiveness: append([]float64(nil), DefaultEffectivenessScenarios...),
	}
}

// ProjectionParams sizes and shapes the multi-year simulation.
type ProjectionParams struct {
	Years             int       `json:"years"`
	Simulations       int       `json:"simulations"`
	BaseEffectiveness float64   `json:"base_effectiveness"`
	RemovalScenarios  []float64 `json:"removal_scenarios"`
	// RevenueStd is the standard deviation of yearly revenue growth noise.
	RevenueStd float64 `json:"revenue_std"`
	// ROICImpact scales how strongly prior-year ROIC moves marketing growth.
	ROICImpact float64 `json:"roic_impact"`
}

// DefaultProjectionParams mirrors the dashboard defaults.
func DefaultProjectionParams() ProjectionParams {
	return ProjectionParams{
		Years:             DefaultYears,
		Simulations:       DefaultSimulations,
		BaseEffectiveness: DefaultBaseEffectiveness,
		RemovalScenarios:  append([]float64(nil), DefaultRemovalScenarios...),
		RevenueStd:        DefaultRevenueStd,
		ROICImpact:        DefaultROICImpact,
	}
}

// Settings is everything a caller supplies for one full analysis.
type Settings struct {
	Inputs     FinancialInputs  `json:"inputs"`
	Growth     GrowthParameters `json:"growth"`
	Analysis   AnalysisParams   `json:"analysis"`
	Projection ProjectionParams `json:"projection"`
	// Seed makes the projection reproducible when set.
	Seed *uint64 `json:"seed,omitempty"`
	// NoNoise replaces revenue growth noise with its expected value.
	NoNoise bool `json:"no_noise,omitempty"`
}

// Sources picks the random source factory implied by the settings.
func (s Settings) Sources() SourceFactory {
	switch {
	case s.NoNoise:
		return NoiseFree()
	case s.Seed != nil:
		return SeededSources(*s.Seed)
	default:
		return CryptoSources()
	}
}

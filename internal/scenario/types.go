package scenario

// RawConfig is one YAML profile layer. Pointer fields stay nil when a layer
// does not set them, so layers can be merged field by field.
type RawConfig struct {
	Version    string           `json:"version,omitempty" yaml:"version"`
	Notes      string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Inputs     InputsConfig     `json:"inputs,omitempty" yaml:"inputs"`
	Growth     GrowthConfig     `json:"growth,omitempty" yaml:"growth"`
	Simulation SimulationConfig `json:"simulation,omitempty" yaml:"simulation"`
	Scenarios  ScenarioSets     `json:"scenarios,omitempty" yaml:"scenarios"`
}

// InputsConfig mirrors roic.FinancialInputs.
type InputsConfig struct {
	Revenue             *float64 `json:"revenue,omitempty" yaml:"revenue"`
	COGS                *float64 `json:"cogs,omitempty" yaml:"cogs"`
	NonMarketingOpex    *float64 `json:"non_marketing_opex,omitempty" yaml:"non_marketing_opex"`
	TotalMarketingSpend *float64 `json:"total_marketing_spend,omitempty" yaml:"total_marketing_spend"`
	TaxRate             *float64 `json:"tax_rate,omitempty" yaml:"tax_rate"`
	InvestedCapital     *float64 `json:"invested_capital,omitempty" yaml:"invested_capital"`
}

type GrowthConfig struct {
	Marketing *float64 `json:"marketing,omitempty" yaml:"marketing"`
	Capital   *float64 `json:"capital,omitempty" yaml:"capital"`
}

type SimulationConfig struct {
	Years             *int     `json:"years,omitempty" yaml:"years"`
	Simulations       *int     `json:"simulations,omitempty" yaml:"simulations"`
	BaseEffectiveness *float64 `json:"base_effectiveness,omitempty" yaml:"base_effectiveness"`
	RevenueStd        *float64 `json:"revenue_std,omitempty" yaml:"revenue_std"`
	ROICImpact        *float64 `json:"roic_impact,omitempty" yaml:"roic_impact"`
	Seed              *uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ScenarioSets overrides the fixed effectiveness/removal sets and the sweep size.
type ScenarioSets struct {
	Effectiveness []float64 `json:"effectiveness,omitempty" yaml:"effectiveness,omitempty"`
	Removal       []float64 `json:"removal,omitempty" yaml:"removal,omitempty"`
	Points        *int      `json:"points,omitempty" yaml:"points,omitempty"`
}

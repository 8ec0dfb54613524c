// resolve.go
package scenario

import (
	"github.com/xtding233/roic-sim/internal/roic"
)

// Overrides carries per-request values from query params or CLI flags.
// Nil fields leave the profile value in place.
type Overrides struct {
	Revenue             *float64
	COGS                *float64
	NonMarketingOpex    *float64
	TotalMarketingSpend *float64
	TaxRate             *float64
	InvestedCapital     *float64

	MarketingGrowth *float64
	CapitalGrowth   *float64

	Years             *int
	Simulations       *int
	BaseEffectiveness *float64
	RevenueStd        *float64
	ROICImpact        *float64
	Seed              *uint64

	Effectiveness []float64
	Removal       []float64
	Points        *int

	NoNoise bool
}

// raw lifts the overrides into a layer that mergeRaw can apply last.
func (o Overrides) raw() RawConfig {
	return RawConfig{
		Inputs: InputsConfig{
			Revenue:             o.Revenue,
			COGS:                o.COGS,
			NonMarketingOpex:    o.NonMarketingOpex,
			TotalMarketingSpend: o.TotalMarketingSpend,
			TaxRate:             o.TaxRate,
			InvestedCapital:     o.InvestedCapital,
		},
		Growth: GrowthConfig{Marketing: o.MarketingGrowth, Capital: o.CapitalGrowth},
		Simulation: SimulationConfig{
			Years:             o.Years,
			Simulations:       o.Simulations,
			BaseEffectiveness: o.BaseEffectiveness,
			RevenueStd:        o.RevenueStd,
			ROICImpact:        o.ROICImpact,
			Seed:              o.Seed,
		},
		Scenarios: ScenarioSets{Effectiveness: o.Effectiveness, Removal: o.Removal, Points: o.Points},
	}
}

// AsOverrides turns a request-supplied layer into overrides.
func (r RawConfig) AsOverrides() Overrides {
	return Overrides{
		Revenue:             r.Inputs.Revenue,
		COGS:                r.Inputs.COGS,
		NonMarketingOpex:    r.Inputs.NonMarketingOpex,
		TotalMarketingSpend: r.Inputs.TotalMarketingSpend,
		TaxRate:             r.Inputs.TaxRate,
		InvestedCapital:     r.Inputs.InvestedCapital,
		MarketingGrowth:     r.Growth.Marketing,
		CapitalGrowth:       r.Growth.Capital,
		Years:               r.Simulation.Years,
		Simulations:         r.Simulation.Simulations,
		BaseEffectiveness:   r.Simulation.BaseEffectiveness,
		RevenueStd:          r.Simulation.RevenueStd,
		ROICImpact:          r.Simulation.ROICImpact,
		Seed:                r.Simulation.Seed,
		Effectiveness:       r.Scenarios.Effectiveness,
		Removal:             r.Scenarios.Removal,
		Points:              r.Scenarios.Points,
	}
}

type Resolver interface {
	// Returns merged RawConfig and the settings handed to the engine
	Resolve(profile, variant string, o Overrides) (RawConfig, roic.Settings, error)
	List() ([]string, error)
}

var _ Resolver = (*Loader)(nil)

func ptr[T any](v T) *T { return &v }

// Defaults is the bottom layer every profile is merged onto: the dashboard's
// starting sidebar values.
func Defaults() RawConfig {
	return RawConfig{
		Version: "1",
		Inputs: InputsConfig{
			Revenue:             ptr(100_000_000.0),
			COGS:                ptr(40_000_000.0),
			NonMarketingOpex:    ptr(20_000_000.0),
			TotalMarketingSpend: ptr(30_000_000.0),
			TaxRate:             ptr(0.25),
			InvestedCapital:     ptr(70_000_000.0),
		},
		Growth: GrowthConfig{Marketing: ptr(0.1), Capital: ptr(0.1)},
		Simulation: SimulationConfig{
			Years:             ptr(roic.DefaultYears),
			Simulations:       ptr(roic.DefaultSimulations),
			BaseEffectiveness: ptr(roic.DefaultBaseEffectiveness),
			RevenueStd:        ptr(roic.DefaultRevenueStd),
			ROICImpact:        ptr(roic.DefaultROICImpact),
		},
		Scenarios: ScenarioSets{
			Effectiveness: append([]float64(nil), roic.DefaultEffectivenessScenarios...),
			Removal:       append([]float64(nil), roic.DefaultRemovalScenarios...),
			Points:        ptr(roic.DefaultPoints),
		},
	}
}

// Resolve merges defaults → profile layers → overrides, validates the result
// and converts it into engine settings.
func (l *Loader) Resolve(profile, variant string, o Overrides) (RawConfig, roic.Settings, error) {
	merged, err := l.LoadMerged(profile, variant)
	if err != nil {
		return RawConfig{}, roic.Settings{}, err
	}
	raw := mergeRaw(mergeRaw(Defaults(), merged), o.raw())
	if err := ValidateRaw(raw); err != nil {
		return RawConfig{}, roic.Settings{}, err
	}
	s := Settings(raw)
	s.NoNoise = o.NoNoise
	return raw, s, nil
}

// Settings converts a fully populated RawConfig. Fields left nil read as zero,
// so callers normally merge onto Defaults first.
func Settings(raw RawConfig) roic.Settings {
	return roic.Settings{
		Inputs: roic.FinancialInputs{
			Revenue:             deref(raw.Inputs.Revenue),
			COGS:                deref(raw.Inputs.COGS),
			NonMarketingOpex:    deref(raw.Inputs.NonMarketingOpex),
			TotalMarketingSpend: deref(raw.Inputs.TotalMarketingSpend),
			TaxRate:             deref(raw.Inputs.TaxRate),
			InvestedCapital:     deref(raw.Inputs.InvestedCapital),
		},
		Growth: roic.GrowthParameters{
			MarketingGrowth: deref(raw.Growth.Marketing),
			CapitalGrowth:   deref(raw.Growth.Capital),
		},
		Analysis: roic.AnalysisParams{
			Points:        deref(raw.Scenarios.Points),
			Effectiveness: append([]float64(nil), raw.Scenarios.Effectiveness...),
		},
		Projection: roic.ProjectionParams{
			Years:             deref(raw.Simulation.Years),
			Simulations:       deref(raw.Simulation.Simulations),
			BaseEffectiveness: deref(raw.Simulation.BaseEffectiveness),
			RemovalScenarios:  append([]float64(nil), raw.Scenarios.Removal...),
			RevenueStd:        deref(raw.Simulation.RevenueStd),
			ROICImpact:        deref(raw.Simulation.ROICImpact),
		},
		Seed: raw.Simulation.Seed,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

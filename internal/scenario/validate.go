package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNotFound reports a missing profile or variant file.
	ErrNotFound = errors.New("profile not found")
	// ErrBadName rejects profile or variant names that are not plain file stems.
	ErrBadName = errors.New("invalid profile name")
	// ErrInvalidConfig wraps every semantic violation found in a profile.
	ErrInvalidConfig = errors.New("config validation failed")
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	amount := func(name string, v *float64) {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0) {
			errs = append(errs, name+" must be a finite amount >= 0")
		}
	}
	fraction := func(name string, v float64) {
		if !(v >= 0 && v <= 1) {
			errs = append(errs, name+" must be in [0,1]")
		}
	}

	// inputs
	amount("inputs.revenue", cfg.Inputs.Revenue)
	amount("inputs.cogs", cfg.Inputs.COGS)
	amount("inputs.non_marketing_opex", cfg.Inputs.NonMarketingOpex)
	amount("inputs.total_marketing_spend", cfg.Inputs.TotalMarketingSpend)
	amount("inputs.invested_capital", cfg.Inputs.InvestedCapital)
	if cfg.Inputs.TaxRate != nil {
		fraction("inputs.tax_rate", *cfg.Inputs.TaxRate)
	}

	// growth
	rate := func(name string, v *float64) {
		if v != nil && !(*v > -1 && !math.IsInf(*v, 0)) {
			errs = append(errs, name+" must be a finite rate > -1")
		}
	}
	rate("growth.marketing", cfg.Growth.Marketing)
	rate("growth.capital", cfg.Growth.Capital)

	// simulation
	sim := cfg.Simulation
	if sim.Years != nil && *sim.Years < 1 {
		errs = append(errs, "simulation.years must be >= 1")
	}
	if sim.Simulations != nil && *sim.Simulations < 1 {
		errs = append(errs, "simulation.simulations must be >= 1")
	}
	if sim.BaseEffectiveness != nil {
		fraction("simulation.base_effectiveness", *sim.BaseEffectiveness)
	}
	if sim.RevenueStd != nil && !(*sim.RevenueStd >= 0 && !math.IsInf(*sim.RevenueStd, 0)) {
		errs = append(errs, "simulation.revenue_std must be a finite value >= 0")
	}
	if sim.ROICImpact != nil && (math.IsNaN(*sim.ROICImpact) || math.IsInf(*sim.ROICImpact, 0)) {
		errs = append(errs, "simulation.roic_impact must be finite")
	}

	// scenarios
	for i, e := range cfg.Scenarios.Effectiveness {
		fraction(fmt.Sprintf("scenarios.effectiveness[%d]", i), e)
	}
	for i, r := range cfg.Scenarios.Removal {
		fraction(fmt.Sprintf("scenarios.removal[%d]", i), r)
	}
	if cfg.Scenarios.Points != nil && *cfg.Scenarios.Points < 1 {
		errs = append(errs, "scenarios.points must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

package roic

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInputs   = errors.New("invalid financial inputs")
	ErrInvalidFraction = errors.New("invalid fraction; must be 0..1")
	ErrInvalidParams   = errors.New("invalid simulation parameters")
)

// ErrNonFinite means the inputs overflowed float64 somewhere in the model.
var ErrNonFinite = errors.New("result is not finite")

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if !finite(x) {
			return false
		}
	}
	return true
}

func validateFraction(p float64) error {
	if !finite(p) || p < 0 || p > 1 {
		return ErrInvalidFraction
	}
	return nil
}

// Validate reports every out-of-range field at once.
func (in FinancialInputs) Validate() error {
	var errs []error
	amount := func(name string, v float64) {
		if !finite(v) || v < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", name, v))
		}
	}
	amount("revenue", in.Revenue)
	amount("cogs", in.COGS)
	amount("non_marketing_opex", in.NonMarketingOpex)
	amount("total_marketing_spend", in.TotalMarketingSpend)
	amount("invested_capital", in.InvestedCapital)
	if validateFraction(in.TaxRate) != nil {
		errs = append(errs, fmt.Errorf("tax_rate must be in [0,1], got %v", in.TaxRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInputs, errors.Join(errs...))
	}
	return nil
}

// Validate rejects non-finite rates and rates at or below -100%.
func (g GrowthParameters) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"marketing_growth", g.MarketingGrowth},
		{"capital_growth", g.CapitalGrowth},
	} {
		if !finite(f.v) || f.v <= -1 {
			errs = append(errs, fmt.Errorf("%s must be a finite rate above -1, got %v", f.name, f.v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInputs, errors.Join(errs...))
	}
	return nil
}

func validateSet(name string, xs []float64) []error {
	var errs []error
	if len(xs) == 0 {
		errs = append(errs, fmt.Errorf("%s must not be empty", name))
	}
	for i, x := range xs {
		if validateFraction(x) != nil {
			errs = append(errs, fmt.Errorf("%s[%d] must be in [0,1], got %v", name, i, x))
		}
	}
	return errs
}

func (p AnalysisParams) Validate() error {
	var errs []error
	if p.Points < 1 {
		errs = append(errs, fmt.Errorf("points must be >= 1, got %d", p.Points))
	}
	errs = append(errs, validateSet("effectiveness", p.Effectiveness)...)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
	}
	return nil
}

func (p ProjectionParams) Validate() error {
	var errs []error
	if p.Years < 1 {
		errs = append(errs, fmt.Errorf("years must be >= 1, got %d", p.Years))
	}
	if p.Simulations < 1 {
		errs = append(errs, fmt.Errorf("simulations must be >= 1, got %d", p.Simulations))
	}
	if validateFraction(p.BaseEffectiveness) != nil {
		errs = append(errs, fmt.Errorf("base_effectiveness must be in [0,1], got %v", p.BaseEffectiveness))
	}
	errs = append(errs, validateSet("removal_scenarios", p.RemovalScenarios)...)
	if !finite(p.RevenueStd) || p.RevenueStd < 0 {
		errs = append(errs, fmt.Errorf("revenue_std must be >= 0, got %v", p.RevenueStd))
	}
	if !finite(p.ROICImpact) {
		errs = append(errs, fmt.Errorf("roic_impact must be finite, got %v", p.ROICImpact))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
	}
	return nil
}

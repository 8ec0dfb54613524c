package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/xtding233/roic-sim/internal/simulator"
)

func parseFloat(r *http.Request, key string) (*float64, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, "invalid " + key
	}
	return &v, ""
}

func parseInt(r *http.Request, key string) (*int, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, "invalid " + key
	}
	return &v, ""
}

func parseUint(r *http.Request, key string) (*uint64, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, "invalid " + key
	}
	return &v, ""
}

// parseFloats reads a comma separated list such as removal=0,0.5,0.9.
func parseFloats(r *http.Request, key string) ([]float64, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, ""
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, "invalid " + key
		}
		out = append(out, v)
	}
	return out, ""
}

func parseBool(r *http.Request, key string) (bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return false, ""
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, "invalid " + key
	}
	return v, ""
}

// requestFromQuery maps query parameters onto a simulator request.
// Every problem is reported, not just the first.
func requestFromQuery(r *http.Request) (simulator.Request, []string) {
	var (
		req  simulator.Request
		errs []string
	)
	q := r.URL.Query()
	req.Profile = q.Get("profile")
	req.Variant = q.Get("variant")

	collect := func(msg string) {
		if msg != "" {
			errs = append(errs, msg)
		}
	}
	float := func(dst **float64, key string) {
		v, msg := parseFloat(r, key)
		collect(msg)
		*dst = v
	}
	integer := func(dst **int, key string) {
		v, msg := parseInt(r, key)
		collect(msg)
		*dst = v
	}
	list := func(dst *[]float64, key string) {
		v, msg := parseFloats(r, key)
		collect(msg)
		*dst = v
	}

	float(&req.Inputs.Revenue, "revenue")
	float(&req.Inputs.COGS, "cogs")
	float(&req.Inputs.NonMarketingOpex, "non_marketing_opex")
	float(&req.Inputs.TotalMarketingSpend, "total_marketing_spend")
	float(&req.Inputs.TaxRate, "tax_rate")
	float(&req.Inputs.InvestedCapital, "invested_capital")

	float(&req.Growth.Marketing, "marketing_growth")
	float(&req.Growth.Capital, "capital_growth")

	integer(&req.Simulation.Years, "years")
	integer(&req.Simulation.Simulations, "simulations")
	float(&req.Simulation.BaseEffectiveness, "base_effectiveness")
	float(&req.Simulation.RevenueStd, "revenue_std")
	float(&req.Simulation.ROICImpact, "roic_impact")
	seed, msg := parseUint(r, "seed")
	collect(msg)
	req.Simulation.Seed = seed

	list(&req.Scenarios.Effectiveness, "effectiveness")
	list(&req.Scenarios.Removal, "removal")
	integer(&req.Scenarios.Points, "points")

	noNoise, msg := parseBool(r, "no_noise")
	collect(msg)
	req.NoNoise = noNoise

	return req, errs
}

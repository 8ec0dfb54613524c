package roic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Observer is notified when a removal scenario finishes.
type Observer interface {
	ScenarioDone(removal float64, trials int, elapsed time.Duration)
}

// Projector runs the multi-year Monte Carlo projection.
type Projector struct {
	sources  SourceFactory
	workers  int
	logger   *slog.Logger
	observer Observer
}

type ProjectorOption func(*Projector)

// WithSources sets the random source factory. Scenario i receives stream i.
func WithSources(f SourceFactory) ProjectorOption {
	return func(p *Projector) {
		if f != nil {
			p.sources = f
		}
	}
}

// WithWorkers bounds how many scenarios run concurrently.
func WithWorkers(n int) ProjectorOption {
	return func(p *Projector) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

func WithLogger(l *slog.Logger) ProjectorOption {
	return func(p *Projector) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) ProjectorOption {
	return func(p *Projector) { p.observer = o }
}

// NewProjector defaults to crypto-seeded noise and GOMAXPROCS workers.
func NewProjector(opts ...ProjectorOption) *Projector {
	p := &Projector{
		sources: CryptoSources(),
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// yearState is carried from one simulated year to the next within a trial.
type yearState struct {
	revenue   float64
	marketing float64
	capital   float64
	priorROIC float64
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// SimulateTrial runs one trajectory and returns its cumulative ROIC per year.
// It draws exactly one revenue-growth sample per non-final year.
func SimulateTrial(in FinancialInputs, g GrowthParameters, p ProjectionParams, removal float64, rng RandomSource) []float64 {
	nopat := make([]float64, p.Years)
	capital := make([]float64, p.Years)
	waste := 1 - p.BaseEffectiveness

	st := yearState{
		revenue:   in.Revenue,
		marketing: in.TotalMarketingSpend,
		capital:   in.InvestedCapital,
	}
	for year := 0; year < p.Years; year++ {
		if year == 0 {
			// one-time cleanup of the whole initial budget
			st.marketing -= st.marketing * waste * removal
		} else {
			// ongoing discipline applies to new spend only
			adj := clamp((st.priorROIC-BaselineROIC)*p.ROICImpact, minROICAdjustment, maxROICAdjustment)
			growth := st.marketing * (g.MarketingGrowth + adj)
			st.marketing += growth - growth*waste*removal
		}

		income := st.revenue - in.COGS - in.NonMarketingOpex - st.marketing
		nopat[year] = math.Max(0, income*(1-in.TaxRate))
		capital[year] = st.capital

		roic := 0.0
		if st.capital > 0 {
			roic = nopat[year] / st.capital
		}
		if year == p.Years-1 {
			break
		}

		base := 0.0
		if in.TotalMarketingSpend > 0 && st.marketing > 0 {
			base = g.MarketingGrowth * math.Pow(st.marketing/in.TotalMarketingSpend, MarketingElasticity)
		}
		boost := math.Max(0, (roic-BaselineROIC)*ROICBoostFactor)
		revenueGrowth := rng.Normal(base+boost, p.RevenueStd)
		st.revenue *= 1 + math.Max(0, revenueGrowth)
		st.capital *= 1 + g.CapitalGrowth
		st.priorROIC = roic
	}

	out := make([]float64, p.Years)
	var cumNOPAT, cumCapital float64
	for i := range out {
		cumNOPAT += nopat[i]
		cumCapital += capital[i]
		if cumCapital > 0 {
			out[i] = cumNOPAT / cumCapital
		}
	}
	return out
}

// Project simulates every removal scenario and reduces each to per-year
// mean and standard deviation of cumulative ROIC.
func (p *Projector) Project(ctx context.Context, in FinancialInputs, g GrowthParameters, params ProjectionParams) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, err
	}
	if err := g.Validate(); err != nil {
		return Projection{}, err
	}
	if err := params.Validate(); err != nil {
		return Projection{}, err
	}

	out := Projection{Scenarios: make([]ScenarioProjection, len(params.RemovalScenarios))}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for i, removal := range params.RemovalScenarios {
		eg.Go(func() error {
			sp, err := p.runScenario(ctx, in, g, params, removal, p.sources(uint64(i)))
			if err != nil {
				return err
			}
			out.Scenarios[i] = sp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Projection{}, err
	}
	return out, nil
}

func (p *Projector) runScenario(ctx context.Context, in FinancialInputs, g GrowthParameters, params ProjectionParams, removal float64, rng RandomSource) (ScenarioProjection, error) {
	start := time.Now()
	p.logger.Debug("scenario started", "removal", removal, "simulations", params.Simulations, "years", params.Years)

	rows := make([][]float64, params.Simulations)
	for t := range rows {
		if t%256 == 0 {
			if err := ctx.Err(); err != nil {
				return ScenarioProjection{}, err
			}
		}
		rows[t] = SimulateTrial(in, g, params, removal, rng)
	}

	mean, std, err := SeriesStats(rows)
	if err != nil {
		return ScenarioProjection{}, err
	}
	if !allFinite(mean) || !allFinite(std) {
		return ScenarioProjection{}, fmt.Errorf("%w: cumulative ROIC for removal %v", ErrNonFinite, removal)
	}
	final := make([]float64, len(rows))
	for t, row := range rows {
		final[t] = row[len(row)-1]
	}
	years := make([]int, params.Years)
	for i := range years {
		years[i] = i + 1
	}

	elapsed := time.Since(start)
	p.logger.Debug("scenario finished", "removal", removal, "duration", elapsed)
	if p.observer != nil {
		p.observer.ScenarioDone(removal, params.Simulations, elapsed)
	}
	return ScenarioProjection{
		Removal: removal,
		Years:   years,
		Mean:    mean,
		Std:     std,
		Final:   Summarize(final),
	}, nil
}

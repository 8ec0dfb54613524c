// Package simulator resolves requests against scenario profiles and runs the
// ROIC analyses for the HTTP and gRPC surfaces.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xtding233/roic-sim/internal/report"
	"github.com/xtding233/roic-sim/internal/roic"
	"github.com/xtding233/roic-sim/internal/scenario"
)

// ErrOverLimit rejects requests above a configured size ceiling.
var ErrOverLimit = errors.New("request exceeds limit")

var (
	ErrTooManySimulations = fmt.Errorf("too many simulations: %w", ErrOverLimit)
	ErrTooManyYears       = fmt.Errorf("too many years: %w", ErrOverLimit)
	ErrTooManyPoints      = fmt.Errorf("too many points: %w", ErrOverLimit)
)

// Limits applied when Options leaves them zero.
const (
	DefaultMaxSimulations = 100_000
	DefaultMaxYears       = 100
	DefaultMaxPoints      = 10_000
)

// Request selects a profile and layers request values on top of it.
// The embedded RawConfig carries the same keys as a profile file.
type Request struct {
	Profile string `json:"profile,omitempty"`
	Variant string `json:"variant,omitempty"`
	NoNoise bool   `json:"no_noise,omitempty"`
	scenario.RawConfig
}

// Meta identifies one run.
type Meta struct {
	RunID    string        `json:"run_id"`
	Profile  string        `json:"profile"`
	Variant  string        `json:"variant,omitempty"`
	Settings roic.Settings `json:"settings"`
}

type SingleYearCharts struct {
	Improvement report.Chart `json:"improvement"`
	TaxRate     report.Chart `json:"tax_rate"`
}

type SingleYearResult struct {
	Meta
	Result roic.SingleYear `json:"result"`
	Charts SingleYearCharts `json:"charts"`
}

type ProjectionResult struct {
	Meta
	Result roic.Projection `json:"result"`
	Chart  report.Chart    `json:"chart"`
}

// AnalysisResult is both tabs of the dashboard computed from one settings set.
type AnalysisResult struct {
	Meta
	SingleYear       roic.SingleYear  `json:"single_year"`
	Projection       roic.Projection  `json:"projection"`
	SingleYearCharts SingleYearCharts `json:"single_year_charts"`
	ProjectionChart  report.Chart     `json:"projection_chart"`
}

// Options configures a Service.
type Options struct {
	Logger         *slog.Logger
	Observer       roic.Observer
	Workers        int
	MaxSimulations int
	MaxYears       int
	MaxPoints      int
}

// Service is safe for concurrent use.
type Service struct {
	profiles scenario.Resolver
	opts     Options
}

func New(profiles scenario.Resolver, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxSimulations <= 0 {
		opts.MaxSimulations = DefaultMaxSimulations
	}
	if opts.MaxYears <= 0 {
		opts.MaxYears = DefaultMaxYears
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}
	return &Service{profiles: profiles, opts: opts}
}

// Profiles lists the available scenario profiles.
func (s *Service) Profiles() ([]string, error) {
	return s.profiles.List()
}

// Resolve turns a request into engine settings and a fresh run ID.
func (s *Service) Resolve(req Request) (Meta, error) {
	o := req.RawConfig.AsOverrides()
	o.NoNoise = req.NoNoise
	_, settings, err := s.profiles.Resolve(req.Profile, req.Variant, o)
	if err != nil {
		return Meta{}, err
	}
	if err := s.checkLimits(settings); err != nil {
		return Meta{}, err
	}
	profile := req.Profile
	if profile == "" {
		profile = "default"
	}
	return Meta{
		RunID:    uuid.NewString(),
		Profile:  profile,
		Variant:  req.Variant,
		Settings: settings,
	}, nil
}

func (s *Service) checkLimits(settings roic.Settings) error {
	var errs []error
	over := func(sentinel error, v, limit int) {
		if v > limit {
			errs = append(errs, fmt.Errorf("%w: %d exceeds %d", sentinel, v, limit))
		}
	}
	over(ErrTooManySimulations, settings.Projection.Simulations, s.opts.MaxSimulations)
	over(ErrTooManyYears, settings.Projection.Years, s.opts.MaxYears)
	over(ErrTooManyPoints, settings.Analysis.Points, s.opts.MaxPoints)
	return errors.Join(errs...)
}

// SingleYear runs the closed-form analyses.
func (s *Service) SingleYear(_ context.Context, req Request) (SingleYearResult, error) {
	meta, err := s.Resolve(req)
	if err != nil {
		return SingleYearResult{}, err
	}
	sy, err := s.singleYear(meta)
	if err != nil {
		return SingleYearResult{}, err
	}
	return SingleYearResult{Meta: meta, Result: sy, Charts: charts(sy)}, nil
}

// Project runs the Monte Carlo projection.
func (s *Service) Project(ctx context.Context, req Request) (ProjectionResult, error) {
	meta, err := s.Resolve(req)
	if err != nil {
		return ProjectionResult{}, err
	}
	p, err := s.project(ctx, meta)
	if err != nil {
		return ProjectionResult{}, err
	}
	return ProjectionResult{Meta: meta, Result: p, Chart: report.ProjectionChart(p)}, nil
}

// Analyze runs both analyses on the same settings.
func (s *Service) Analyze(ctx context.Context, req Request) (AnalysisResult, error) {
	meta, err := s.Resolve(req)
	if err != nil {
		return AnalysisResult{}, err
	}
	sy, err := s.singleYear(meta)
	if err != nil {
		return AnalysisResult{}, err
	}
	p, err := s.project(ctx, meta)
	if err != nil {
		return AnalysisResult{}, err
	}
	return AnalysisResult{
		Meta:             meta,
		SingleYear:       sy,
		Projection:       p,
		SingleYearCharts: charts(sy),
		ProjectionChart:  report.ProjectionChart(p),
	}, nil
}

// Export writes both analyses as an xlsx workbook and returns the run metadata.
func (s *Service) Export(ctx context.Context, req Request, w io.Writer) (Meta, error) {
	res, err := s.Analyze(ctx, req)
	if err != nil {
		return Meta{}, err
	}
	return res.Meta, report.WriteWorkbook(w, res.SingleYear, res.Projection)
}

func (s *Service) singleYear(meta Meta) (roic.SingleYear, error) {
	return roic.Analyze(meta.Settings.Inputs, meta.Settings.Analysis)
}

func (s *Service) project(ctx context.Context, meta Meta) (roic.Projection, error) {
	log := s.opts.Logger.With("run_id", meta.RunID, "profile", meta.Profile)
	start := time.Now()
	p := roic.NewProjector(
		roic.WithSources(meta.Settings.Sources()),
		roic.WithWorkers(s.workers()),
		roic.WithLogger(log),
		roic.WithObserver(s.opts.Observer),
	)
	out, err := p.Project(ctx, meta.Settings.Inputs, meta.Settings.Growth, meta.Settings.Projection)
	if err != nil {
		return roic.Projection{}, err
	}
	log.Info("projection finished",
		"scenarios", len(out.Scenarios),
		"simulations", meta.Settings.Projection.Simulations,
		"years", meta.Settings.Projection.Years,
		"elapsed", time.Since(start))
	return out, nil
}

func (s *Service) workers() int {
	if s.opts.Workers < 1 {
		return 1
	}
	return s.opts.Workers
}

func charts(sy roic.SingleYear) SingleYearCharts {
	return SingleYearCharts{
		Improvement: report.ImprovementChart(sy.Improvement),
		TaxRate:     report.TaxChart(sy.TaxRate),
	}
}

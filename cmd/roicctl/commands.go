package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xtding233/roic-sim/internal/config"
	"github.com/xtding233/roic-sim/internal/logging"
	"github.com/xtding233/roic-sim/internal/report"
	"github.com/xtding233/roic-sim/internal/rpc"
	"github.com/xtding233/roic-sim/internal/scenario"
	"github.com/xtding233/roic-sim/internal/simulator"
)

type options struct {
	dir, profile, variant, remote string
	asJSON, noNoise               bool
	seed                          uint64

	revenue, cogs, opex, marketing, taxRate, capital float64
	marketingGrowth, capitalGrowth                   float64

	years, simulations, points                int
	baseEffectiveness, revenueStd, roicImpact float64
	effectiveness, removal                    []float64

	backend backend
	closer  io.Closer
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "roicctl",
		Short:         "Marketing waste ROIC simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return o.connect()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if o.closer != nil {
				return o.closer.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.dir, "dir", "", "profiles base directory (default from ROIC_PROFILES_DIR)")
	pf.StringVar(&o.profile, "profile", "", "scenario profile")
	pf.StringVar(&o.variant, "variant", "", "profile variant")
	pf.StringVar(&o.remote, "remote", "", "gRPC address of a running server; empty runs in-process")
	pf.BoolVar(&o.asJSON, "json", false, "print JSON instead of tables")
	pf.BoolVar(&o.noNoise, "no-noise", false, "replace revenue noise with its expected value")
	pf.Uint64Var(&o.seed, "seed", 0, "seed for reproducible projections")

	pf.Float64Var(&o.revenue, "revenue", 0, "annual revenue")
	pf.Float64Var(&o.cogs, "cogs", 0, "cost of goods sold")
	pf.Float64Var(&o.opex, "opex", 0, "non-marketing operating expenses")
	pf.Float64Var(&o.marketing, "marketing", 0, "total marketing spend")
	pf.Float64Var(&o.taxRate, "tax-rate", 0, "statutory tax rate as a fraction")
	pf.Float64Var(&o.capital, "capital", 0, "invested capital")
	pf.Float64Var(&o.marketingGrowth, "marketing-growth", 0, "annual marketing growth rate")
	pf.Float64Var(&o.capitalGrowth, "capital-growth", 0, "annual capital growth rate")
	pf.IntVar(&o.years, "years", 0, "projection horizon in years")
	pf.IntVar(&o.simulations, "simulations", 0, "Monte Carlo trials per scenario")
	pf.IntVar(&o.points, "points", 0, "sweep points for single-year curves")
	pf.Float64Var(&o.baseEffectiveness, "base-effectiveness", 0, "effective share of marketing in projections")
	pf.Float64Var(&o.revenueStd, "revenue-std", 0, "std of yearly revenue growth noise")
	pf.Float64Var(&o.roicImpact, "roic-impact", 0, "how strongly prior ROIC moves marketing growth")
	pf.Float64SliceVar(&o.effectiveness, "effectiveness", nil, "effectiveness scenarios, e.g. 0.25,0.5,0.75")
	pf.Float64SliceVar(&o.removal, "removal", nil, "removal scenarios, e.g. 0,0.33,0.66,0.99")

	root.AddCommand(
		newImproveCmd(o),
		newTaxCmd(o),
		newProjectCmd(o),
		newExportCmd(o),
		newScenariosCmd(o),
	)
	return root
}

func (o *options) connect() error {
	if o.remote != "" {
		conn, err := grpc.NewClient(o.remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("dial %s: %w", o.remote, err)
		}
		o.backend = remoteBackend{client: rpc.NewClient(conn)}
		o.closer = conn
		return nil
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if o.dir == "" {
		o.dir = cfg.ProfilesDir
	}
	svc := simulator.New(scenario.NewLoader(o.dir), simulator.Options{
		Logger:         logging.New("roicctl", cfg.LogLevel, os.Stderr),
		Workers:        cfg.Workers,
		MaxSimulations: cfg.MaxSimulations,
		MaxYears:       cfg.MaxYears,
		MaxPoints:      cfg.MaxPoints,
	})
	o.backend = localBackend{svc: svc}
	return nil
}

// request maps the flags the user actually set onto a simulator request.
func (o *options) request(cmd *cobra.Command) simulator.Request {
	req := simulator.Request{Profile: o.profile, Variant: o.variant, NoNoise: o.noNoise}
	set := cmd.Flags().Changed
	floats := []struct {
		name string
		src  *float64
		dst  **float64
	}{
		{"revenue", &o.revenue, &req.Inputs.Revenue},
		{"cogs", &o.cogs, &req.Inputs.COGS},
		{"opex", &o.opex, &req.Inputs.NonMarketingOpex},
		{"marketing", &o.marketing, &req.Inputs.TotalMarketingSpend},
		{"tax-rate", &o.taxRate, &req.Inputs.TaxRate},
		{"capital", &o.capital, &req.Inputs.InvestedCapital},
		{"marketing-growth", &o.marketingGrowth, &req.Growth.Marketing},
		{"capital-growth", &o.capitalGrowth, &req.Growth.Capital},
		{"base-effectiveness", &o.baseEffectiveness, &req.Simulation.BaseEffectiveness},
		{"revenue-std", &o.revenueStd, &req.Simulation.RevenueStd},
		{"roic-impact", &o.roicImpact, &req.Simulation.ROICImpact},
	}
	for _, f := range floats {
		if set(f.name) {
			*f.dst = f.src
		}
	}
	if set("years") {
		req.Simulation.Years = &o.years
	}
	if set("simulations") {
		req.Simulation.Simulations = &o.simulations
	}
	if set("points") {
		req.Scenarios.Points = &o.points
	}
	if set("seed") {
		req.Simulation.Seed = &o.seed
	}
	if set("effectiveness") {
		req.Scenarios.Effectiveness = o.effectiveness
	}
	if set("removal") {
		req.Scenarios.Removal = o.removal
	}
	return req
}

func (o *options) print(w io.Writer, v any, tables ...report.Table) error {
	if o.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := report.WriteTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func newImproveCmd(o *options) *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "improve",
		Short: "ROIC as ineffective marketing spend is removed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := o.backend.SingleYear(cmd.Context(), o.request(cmd))
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), res.Result.Improvement, report.ImprovementTable(res.Result.Improvement, step))
		},
	}
	cmd.Flags().IntVar(&step, "step", 7, "print every n-th sweep point")
	return cmd
}

func newTaxCmd(o *options) *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Effective tax rate as a share of marketing is wasted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := o.backend.SingleYear(cmd.Context(), o.request(cmd))
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), res.Result.TaxRate, report.TaxTable(res.Result.TaxRate, step))
		},
	}
	cmd.Flags().IntVar(&step, "step", 7, "print every n-th sweep point")
	return cmd
}

func newProjectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Multi-year Monte Carlo projection of cumulative ROIC",
		Long: `Project cumulative ROIC per waste removal scenario.

Example: roicctl project --profile saas --simulations 5000 --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := o.backend.Project(cmd.Context(), o.request(cmd))
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), res, report.ProjectionTable(res.Result), report.SummaryTable(res.Result))
		},
	}
}

func newExportCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both analyses to an xlsx workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			res, err := o.backend.Analyze(cmd.Context(), o.request(cmd))
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteWorkbook(f, res.SingleYear, res.Projection); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (run %s)\n", out, res.RunID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newScenariosCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List available scenario profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := o.backend.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			t := report.Table{Header: []string{"Profile"}}
			for _, n := range names {
				t.Rows = append(t.Rows, []string{n})
			}
			return o.print(cmd.OutOrStdout(), names, t)
		},
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contactkeval/option-pricer/internal/batch"
	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/payoff"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/report"
	"github.com/contactkeval/option-pricer/internal/server"
)

var verbosity int

func main() {
	root := &cobra.Command{
		Use:           "option-pricer",
		Short:         "Price equity options via binomial lattices and Monte Carlo simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbosity(verbosity)
		},
	}
	root.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "0=errors,1=info,2=debug,3=trace")
	root.AddCommand(binomialCmd(), monteCarloCmd(), batchCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func binomialCmd() *cobra.Command {
	var p pricing.BinomialParameters
	var optionType, exercise string
	var reference bool

	cmd := &cobra.Command{
		Use:   "binomial",
		Short: "Price an option on a Cox-Ross-Rubinstein lattice",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.OptionType = pricing.OptionType(optionType)
			p.Exercise = pricing.ExerciseStyle(exercise)

			price, err := pricing.PriceBinomial(p)
			if err != nil {
				return err
			}
			fmt.Printf("%.6f\n", price)

			if reference {
				ot, err := pricing.ParseOptionType(optionType)
				if err != nil {
					return err
				}
				bs := pricing.BlackScholesPrice(ot, p.Spot, p.Strike, p.Time, p.Rate, p.DividendYield, p.Volatility)
				fmt.Printf("black-scholes (european): %.6f\n", bs)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&p.Spot, "spot", 100, "spot price of the underlying")
	cmd.Flags().Float64Var(&p.Strike, "strike", 100, "strike price")
	cmd.Flags().Float64Var(&p.Rate, "rate", 0.05, "risk-free rate (continuous)")
	cmd.Flags().Float64Var(&p.Time, "time", 1, "time to maturity in years")
	cmd.Flags().Float64Var(&p.Volatility, "volatility", 0.2, "annualized volatility")
	cmd.Flags().IntVar(&p.Steps, "steps", 200, "tree levels")
	cmd.Flags().Float64Var(&p.DividendYield, "dividend-yield", 0, "continuous dividend yield")
	cmd.Flags().StringVar(&optionType, "type", "call", `"call" or "put"`)
	cmd.Flags().StringVar(&exercise, "exercise", "european", `"european" or "american"`)
	cmd.Flags().BoolVar(&reference, "reference", false, "also print the Black-Scholes closed-form price")
	return cmd
}

func monteCarloCmd() *cobra.Command {
	var p pricing.MonteCarloParameters
	var seed int64
	var expr, optionType string
	var strike float64

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Price an option by simulating GBM paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				p.Seed = &seed
			}

			var fn payoff.Function
			var err error
			if expr != "" {
				fn, err = payoff.Compile(expr)
			} else {
				fn, err = payoff.Vanilla(optionType, strike)
			}
			if err != nil {
				return err
			}

			res, err := pricing.PriceMonteCarlo(cmd.Context(), p, fn)
			if err != nil {
				return err
			}
			fmt.Printf("%.6f ± %.6f\n", res.Price, res.StdError)
			return nil
		},
	}

	cmd.Flags().Float64Var(&p.Spot, "spot", 100, "spot price of the underlying")
	cmd.Flags().Float64Var(&p.Rate, "rate", 0.05, "risk-free rate (continuous)")
	cmd.Flags().Float64Var(&p.Time, "time", 1, "time to maturity in years")
	cmd.Flags().Float64Var(&p.Volatility, "volatility", 0.2, "annualized volatility")
	cmd.Flags().Float64Var(&p.DividendYield, "dividend-yield", 0, "continuous dividend yield")
	cmd.Flags().IntVar(&p.Paths, "paths", 50000, "simulated paths")
	cmd.Flags().IntVar(&p.Steps, "steps", 252, "steps per path")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (omit for non-reproducible runs)")
	cmd.Flags().StringVar(&expr, "payoff", "", `payoff expression, e.g. "max(mean(path) - 100, 0)"`)
	cmd.Flags().StringVar(&optionType, "type", "call", `vanilla payoff type when --payoff is not set`)
	cmd.Flags().Float64Var(&strike, "strike", 100, "vanilla payoff strike when --payoff is not set")
	return cmd
}

func batchCmd() *cobra.Command {
	var configPath, outDir string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Price every scenario in a JSON config and write reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := batch.Load(configPath)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.ReportDir = outDir
			}
			if cfg.Verbosity != 0 {
				logger.SetVerbosity(cfg.Verbosity)
			}

			start := time.Now()
			res, err := batch.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
				return fmt.Errorf("creating report dir %s: %w", cfg.ReportDir, err)
			}
			if err := report.WriteJSON(res, cfg.ReportDir); err != nil {
				return err
			}
			if err := report.WriteCSV(res.Results, cfg.ReportDir); err != nil {
				return err
			}
			logger.Infof("finished %d scenarios in %v, reports in %s", len(res.Results), time.Since(start), cfg.ReportDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "scenarios.json", "path to JSON scenario config")
	cmd.Flags().StringVar(&outDir, "out", "", "report directory (overrides config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing form and JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

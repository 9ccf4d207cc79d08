// Package batch runs a list of pricing scenarios loaded from a JSON config.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/payoff"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Scenario is one pricing job. Exactly one of Binomial or MonteCarlo must be
// set. Monte Carlo scenarios evaluate PayoffExpr when present, otherwise a
// vanilla payoff built from OptionType and Strike.
type Scenario struct {
	Name       string                        `json:"name,omitempty"`        // label for reports, defaults to scenario-N
	Binomial   *pricing.BinomialParameters   `json:"binomial,omitempty"`    // lattice job
	MonteCarlo *pricing.MonteCarloParameters `json:"montecarlo,omitempty"`  // simulation job
	PayoffExpr string                        `json:"payoff_expr,omitempty"` // e.g. "max(mean(path) - 100, 0)"
	OptionType string                        `json:"option_type,omitempty"` // vanilla fallback, defaults to "call"
	Strike     float64                       `json:"strike,omitempty"`      // vanilla fallback strike
}

// Config is the batch file layout.
type Config struct {
	ReportDir string     `json:"report_dir,omitempty"` // output directory
	Verbosity int        `json:"verbosity,omitempty"`  // 0=errors,1=info,2=debug,3=trace
	Scenarios []Scenario `json:"scenarios"`
}

// ScenarioResult records one scenario's outcome. Error is set instead of
// Price when the scenario failed; the batch keeps going either way.
type ScenarioResult struct {
	Name     string   `json:"name"`
	Method   string   `json:"method"`
	Price    float64  `json:"price"`
	StdError *float64 `json:"std_error,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Result mirrors the config's scenario order.
type Result struct {
	Results []ScenarioResult `json:"results"`
}

// Load reads and parses a batch config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Run prices every scenario. Per-scenario failures are recorded in the
// result rather than aborting the batch; only an empty scenario list is a
// hard error.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	// fill defaults
	if cfg.ReportDir == "" {
		cfg.ReportDir = "./out"
	}
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("config has no scenarios")
	}

	res := &Result{Results: make([]ScenarioResult, 0, len(cfg.Scenarios))}
	for i, sc := range cfg.Scenarios {
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		res.Results = append(res.Results, runOne(ctx, sc))
	}
	return res, nil
}

func runOne(ctx context.Context, sc Scenario) ScenarioResult {
	out := ScenarioResult{Name: sc.Name}

	switch {
	case sc.Binomial != nil && sc.MonteCarlo != nil:
		out.Error = "scenario sets both binomial and montecarlo"
	case sc.Binomial != nil:
		out.Method = "binomial"
		price, err := pricing.PriceBinomial(*sc.Binomial)
		if err != nil {
			out.Error = err.Error()
			break
		}
		out.Price = price
		logger.Infof("%s: binomial price %.6f", sc.Name, price)
	case sc.MonteCarlo != nil:
		out.Method = "montecarlo"
		fn, err := buildPayoff(sc)
		if err != nil {
			out.Error = err.Error()
			break
		}
		mc, err := pricing.PriceMonteCarlo(ctx, *sc.MonteCarlo, fn)
		if err != nil {
			out.Error = err.Error()
			break
		}
		out.Price = mc.Price
		se := mc.StdError
		out.StdError = &se
		logger.Infof("%s: monte carlo price %.6f ± %.6f", sc.Name, mc.Price, mc.StdError)
	default:
		out.Error = "scenario sets neither binomial nor montecarlo"
	}

	if out.Error != "" {
		logger.Errorf("%s: %s", sc.Name, out.Error)
	}
	return out
}

func buildPayoff(sc Scenario) (payoff.Function, error) {
	if sc.PayoffExpr != "" {
		return payoff.Compile(sc.PayoffExpr)
	}
	ot := sc.OptionType
	if ot == "" {
		ot = "call"
	}
	return payoff.Vanilla(ot, sc.Strike)
}

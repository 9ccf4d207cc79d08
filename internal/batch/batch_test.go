package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-pricer/internal/pricing"
)

func seedPtr(v int64) *int64 { return &v }

func TestRunMixedScenarios(t *testing.T) {
	cfg := &Config{
		ReportDir: t.TempDir(),
		Scenarios: []Scenario{
			{
				Name: "european-call-lattice",
				Binomial: &pricing.BinomialParameters{
					Spot: 100, Strike: 100, Rate: 0.05, Time: 1,
					Volatility: 0.2, Steps: 200,
					OptionType: pricing.Call, Exercise: pricing.European,
				},
			},
			{
				Name: "asian-call-mc",
				MonteCarlo: &pricing.MonteCarloParameters{
					Spot: 100, Rate: 0.05, Time: 1, Volatility: 0.2,
					Paths: 2000, Steps: 20, Seed: seedPtr(42),
				},
				PayoffExpr: "max(mean(path) - 100, 0)",
			},
			{
				Name: "vanilla-put-mc",
				MonteCarlo: &pricing.MonteCarloParameters{
					Spot: 100, Rate: 0.05, Time: 1, Volatility: 0.2,
					Paths: 2000, Steps: 20, Seed: seedPtr(7),
				},
				OptionType: "put",
				Strike:     100,
			},
		},
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)

	for _, r := range res.Results {
		require.Empty(t, r.Error, r.Name)
		require.Greater(t, r.Price, 0.0, r.Name)
	}
	require.Equal(t, "binomial", res.Results[0].Method)
	require.Nil(t, res.Results[0].StdError)
	require.Equal(t, "montecarlo", res.Results[1].Method)
	require.NotNil(t, res.Results[1].StdError)
}

func TestRunRecordsScenarioErrors(t *testing.T) {
	cfg := &Config{
		ReportDir: t.TempDir(),
		Scenarios: []Scenario{
			{Name: "empty"},
			{
				Name: "bad-params",
				MonteCarlo: &pricing.MonteCarloParameters{
					Spot: -1, Rate: 0.05, Time: 1, Volatility: 0.2,
					Paths: 100, Steps: 5,
				},
				PayoffExpr: "max(path[-1] - 100, 0)",
			},
			{
				Name: "bad-expression",
				MonteCarlo: &pricing.MonteCarloParameters{
					Spot: 100, Rate: 0.05, Time: 1, Volatility: 0.2,
					Paths: 100, Steps: 5,
				},
				PayoffExpr: "launch(path)",
			},
		},
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err, "per-scenario failures must not abort the batch")
	require.Len(t, res.Results, 3)
	for _, r := range res.Results {
		require.NotEmpty(t, r.Error, r.Name)
	}
}

func TestRunRejectsEmptyConfig(t *testing.T) {
	_, err := Run(context.Background(), &Config{})
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/scenarios.json")
	require.NoError(t, err)
	require.Len(t, cfg.Scenarios, 2)
	require.Equal(t, "reports", cfg.ReportDir)
	require.NotNil(t, cfg.Scenarios[0].Binomial)
	require.NotNil(t, cfg.Scenarios[1].MonteCarlo)
	require.Equal(t, "max(mean(path) - 100, 0)", cfg.Scenarios[1].PayoffExpr)

	_, err = Load("testdata/missing.json")
	require.Error(t, err)
}

func TestScenarioNamesDefaulted(t *testing.T) {
	cfg := &Config{
		Scenarios: []Scenario{
			{Binomial: &pricing.BinomialParameters{
				Spot: 100, Strike: 100, Rate: 0.05, Time: 1,
				Volatility: 0.2, Steps: 50,
			}},
		},
	}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, "scenario-1", res.Results[0].Name)
}

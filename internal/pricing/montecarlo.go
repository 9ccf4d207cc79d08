package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-pricer/internal/payoff"
	"github.com/contactkeval/option-pricer/internal/simulate"
)

// evalError stamps the failing path index onto a payoff failure, unwrapping
// one layer so an expression's own EvaluationError is not double-wrapped.
func evalError(i int, err error) error {
	var ee *payoff.EvaluationError
	if errors.As(err, &ee) {
		return &payoff.EvaluationError{PathIndex: i, Err: ee.Err}
	}
	return &payoff.EvaluationError{PathIndex: i, Err: err}
}

// MonteCarloResult is a price estimate plus its statistical uncertainty.
type MonteCarloResult struct {
	Price    float64 `json:"price"`
	StdError float64 `json:"std_error"` // sample std dev of discounted payoffs / sqrt(paths)
}

// Workers stop to check for cancellation between batches of this many paths.
const cancelCheckInterval = 1024

// serialThreshold is the path count below which fan-out costs more than it
// saves.
const serialThreshold = 256

// PriceMonteCarlo estimates an option price by simulating GBM paths,
// evaluating fn on each, discounting by exp(-r*T) and averaging. Paths are
// partitioned across workers; per-path random substreams keep the result
// bit-identical for a fixed seed regardless of worker count.
//
// Errors:
//   - *ValidationError if the parameters are malformed or out of range
//   - *payoff.EvaluationError, carrying the offending path index, if fn
//     fails or produces a non-finite value on any path; no partial estimate
//     is returned
//   - ctx.Err() if the context is cancelled mid-run
func PriceMonteCarlo(ctx context.Context, params MonteCarloParameters, fn payoff.Function) (MonteCarloResult, error) {
	p, err := params.Normalized()
	if err != nil {
		return MonteCarloResult{}, err
	}

	gbm := simulate.New(simulate.Config{
		Spot:          p.Spot,
		Rate:          p.Rate,
		DividendYield: p.DividendYield,
		Volatility:    p.Volatility,
		Time:          p.Time,
		Steps:         p.Steps,
		Seed:          p.Seed,
	})

	discount := math.Exp(-p.Rate * p.Time)
	payoffs := make([]float64, p.Paths)

	workers := runtime.GOMAXPROCS(0)
	if p.Paths < serialThreshold {
		workers = 1
	}
	chunk := (p.Paths + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, p.Paths)
		if start >= end {
			break
		}
		g.Go(func() error {
			buf := make([]float64, p.Steps+1)
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				gbm.FillPath(i, buf)
				v, err := fn.Evaluate(buf)
				if err != nil {
					return evalError(i, err)
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return evalError(i, fmt.Errorf("non-finite payoff %v", v))
				}
				payoffs[i] = discount * v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonteCarloResult{}, err
	}

	mean := 0.0
	for _, v := range payoffs {
		mean += v
	}
	mean /= float64(p.Paths)

	variance := 0.0
	for _, v := range payoffs {
		d := v - mean
		variance += d * d
	}
	if p.Paths > 1 {
		variance /= float64(p.Paths - 1)
	}

	return MonteCarloResult{
		Price:    mean,
		StdError: math.Sqrt(variance / float64(p.Paths)),
	}, nil
}

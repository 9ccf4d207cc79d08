// Package simulate generates geometric Brownian motion price paths.
//
// Randomness is an explicit capability here: every path index owns a PCG
// substream keyed by (seed, index), so path i holds the same prices whether
// the caller generates paths serially or splits them across workers. A nil
// seed at construction draws a fresh base seed, giving non-reproducible runs
// while keeping the same per-path discipline within the run.
package simulate

import (
	"math"
	"math/rand/v2"
)

// Config holds the process parameters for a GBM simulation.
type Config struct {
	Spot          float64 // starting price, every path[0]
	Rate          float64 // continuously compounded risk-free rate
	DividendYield float64 // continuous dividend yield
	Volatility    float64 // annualized volatility
	Time          float64 // horizon in years
	Steps         int     // steps per path; paths have Steps+1 prices
	Seed          *int64  // nil for a randomly drawn base seed
}

// GBM produces price paths under the risk-neutral GBM dynamics
// S_k = S_{k-1} * exp((r - q - sigma^2/2)*dt + sigma*sqrt(dt)*Z_k).
type GBM struct {
	cfg   Config
	seed  uint64
	drift float64 // per-step drift term
	vol   float64 // per-step diffusion coefficient
}

// New builds a simulator; the drift and diffusion constants are precomputed
// once since they are shared by every step of every path.
func New(cfg Config) *GBM {
	dt := cfg.Time / float64(cfg.Steps)
	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = uint64(*cfg.Seed)
	}
	return &GBM{
		cfg:   cfg,
		seed:  seed,
		drift: (cfg.Rate - cfg.DividendYield - 0.5*cfg.Volatility*cfg.Volatility) * dt,
		vol:   cfg.Volatility * math.Sqrt(dt),
	}
}

// FillPath writes path i into buf, which must hold Steps+1 values.
// Safe for concurrent use across distinct indices.
func (g *GBM) FillPath(i int, buf []float64) {
	rng := rand.New(rand.NewPCG(g.seed, uint64(i)+1))
	buf[0] = g.cfg.Spot
	for k := 1; k <= g.cfg.Steps; k++ {
		z := rng.NormFloat64()
		buf[k] = buf[k-1] * math.Exp(g.drift+g.vol*z)
	}
}

// Path allocates and returns path i.
func (g *GBM) Path(i int) []float64 {
	buf := make([]float64, g.cfg.Steps+1)
	g.FillPath(i, buf)
	return buf
}

// Paths materializes n full paths as a matrix. Pricing streams paths one at
// a time instead; this form exists for callers that want the whole fan.
func (g *GBM) Paths(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = g.Path(i)
	}
	return out
}

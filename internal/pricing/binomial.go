package pricing

import "math"

// PriceBinomial prices an option on a Cox-Ross-Rubinstein binomial lattice.
//
// The tree uses up factor u = exp(sigma*sqrt(dt)), down factor d = 1/u and
// risk-neutral up probability p = (exp((r-q)*dt) - d) / (u - d). Terminal
// payoffs are rolled back level by level under the per-step discount
// exp(-r*dt); American exercise takes the better of continuation and
// immediate exercise at every interior node.
//
// Returns:
//
//	The present value of the option. Same parameters always produce the
//	same price; the function has no side effects.
//
// Errors:
//   - *ValidationError if the parameters are malformed or out of range
//   - *ArbitrageError if p falls outside (0, 1), meaning the rate,
//     volatility and step size are mutually inconsistent
func PriceBinomial(params BinomialParameters) (float64, error) {
	p, err := params.Normalized()
	if err != nil {
		return 0, err
	}

	dt := p.Time / float64(p.Steps)
	up := math.Exp(p.Volatility * math.Sqrt(dt))
	down := 1 / up
	growth := math.Exp((p.Rate - p.DividendYield) * dt)
	prob := (growth - down) / (up - down)

	// Also catches the NaN from a zero-width tree (volatility = 0 makes
	// u == d).
	if !(prob > 0 && prob < 1) {
		return 0, &ArbitrageError{Prob: prob}
	}

	intrinsic := func(price float64) float64 {
		if p.OptionType == Call {
			return math.Max(price-p.Strike, 0)
		}
		return math.Max(p.Strike-price, 0)
	}

	// Terminal payoffs; index j counts up moves.
	values := make([]float64, p.Steps+1)
	for j := 0; j <= p.Steps; j++ {
		price := p.Spot * math.Pow(up, float64(j)) * math.Pow(down, float64(p.Steps-j))
		values[j] = intrinsic(price)
	}

	disc := math.Exp(-p.Rate * dt)
	for level := p.Steps - 1; level >= 0; level-- {
		for j := 0; j <= level; j++ {
			continuation := disc * (prob*values[j+1] + (1-prob)*values[j])
			if p.Exercise == American {
				node := p.Spot * math.Pow(up, float64(j)) * math.Pow(down, float64(level-j))
				continuation = math.Max(continuation, intrinsic(node))
			}
			values[j] = continuation
		}
	}

	return values[0], nil
}

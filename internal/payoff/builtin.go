package payoff

import (
	"fmt"
	"math"
	"strings"
)

// vanilla is the built-in terminal-price payoff: max(S_T - K, 0) for a call,
// max(K - S_T, 0) for a put.
type vanilla struct {
	call   bool
	strike float64
}

// Call returns the vanilla call payoff for the given strike.
func Call(strike float64) Function { return vanilla{call: true, strike: strike} }

// Put returns the vanilla put payoff for the given strike.
func Put(strike float64) Function { return vanilla{call: false, strike: strike} }

// Vanilla builds a built-in payoff from an option type string
// ("call"/"put", case-insensitive) and a strike.
func Vanilla(optionType string, strike float64) (Function, error) {
	switch strings.ToLower(strings.TrimSpace(optionType)) {
	case "call":
		return Call(strike), nil
	case "put":
		return Put(strike), nil
	}
	return nil, fmt.Errorf("unknown option type %q", optionType)
}

func (v vanilla) Evaluate(path []float64) (float64, error) {
	if len(path) == 0 {
		return 0, &EvaluationError{PathIndex: -1, Err: fmt.Errorf("empty path")}
	}
	terminal := path[len(path)-1]
	if v.call {
		return math.Max(terminal-v.strike, 0), nil
	}
	return math.Max(v.strike-terminal, 0), nil
}

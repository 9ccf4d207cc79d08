package pricing

import "fmt"

// ValidationError reports a parameter that failed validation. Pricing never
// starts on invalid input; both entry points return this before touching a
// tree or a path.
type ValidationError struct {
	Field  string // parameter name, e.g. "spot"
	Reason string // human-readable reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ArbitrageError means the risk-neutral up probability fell outside (0, 1),
// i.e. the supplied rate/volatility/step combination admits arbitrage in the
// lattice. The inputs need adjusting; pricing such a tree is meaningless.
type ArbitrageError struct {
	Prob float64
}

func (e *ArbitrageError) Error() string {
	return fmt.Sprintf("risk-neutral probability %.6f outside (0, 1); adjust rate, volatility or steps", e.Prob)
}

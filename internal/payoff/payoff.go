// Package payoff maps simulated price paths to option payouts.
//
// A Function is the single capability Monte Carlo pricing needs: given an
// ordered path of prices (path[0] is the spot), produce one finite payoff.
// Two kinds exist: vanilla terminal-price payoffs built with Call/Put, and
// user-supplied expressions compiled by Compile against a fixed numeric
// whitelist.
package payoff

import (
	"fmt"
	"math"
)

// Function evaluates one simulated path to a single payoff value.
// Implementations are stateless and safe for concurrent use.
type Function interface {
	Evaluate(path []float64) (float64, error)
}

// CompilationError reports an expression that could not be compiled: a
// syntax error, or a reference to a name outside the whitelist. The
// expression never runs.
type CompilationError struct {
	Expr   string
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("cannot compile payoff %q: %s", e.Expr, e.Reason)
}

// EvaluationError reports a payoff that failed at evaluation time: the
// expression errored, or produced a non-numeric or non-finite result.
// PathIndex identifies the offending path when pricing sets it; it is -1
// when the failure is not tied to a particular path.
type EvaluationError struct {
	PathIndex int
	Err       error
}

func (e *EvaluationError) Error() string {
	if e.PathIndex < 0 {
		return fmt.Sprintf("payoff evaluation failed: %v", e.Err)
	}
	return fmt.Sprintf("payoff evaluation failed on path %d: %v", e.PathIndex, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// checkFinite rejects NaN and ±Inf payoffs.
func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite payoff %v", v)
	}
	return nil
}

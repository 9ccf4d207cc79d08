package payoff

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// Expressions are compiled with govaluate after a rewrite pass that turns
// path subscripts into synthetic variables, because govaluate has no index
// operator. "max(path[-1] - 100, 0)" becomes "max(path_m1 - 100, 0)" and
// path_m1 is bound per evaluation. Negative subscripts count from the end
// of the path.
var indexRe = regexp.MustCompile(`path\s*\[\s*(-?\d+)\s*\]`)

// exprFunctions is the full numeric namespace available to expressions.
// Anything else is rejected at compile time.
var exprFunctions = map[string]govaluate.ExpressionFunction{
	"max":   reduce("max", math.Inf(-1), math.Max),
	"min":   reduce("min", math.Inf(1), math.Min),
	"sum":   reduce("sum", 0, func(a, b float64) float64 { return a + b }),
	"mean":  meanFn,
	"abs":   unary("abs", math.Abs),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"sqrt":  unary("sqrt", math.Sqrt),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"pow":   powFn,
}

type expression struct {
	src     string
	ev      *govaluate.EvaluableExpression
	indices map[string]int // synthetic variable -> requested subscript
}

// Compile builds a payoff from a formula string. The formula may reference
// the variable path (the full price slice, usable as a function argument),
// path[i] subscripts, numeric literals and the whitelisted functions.
// Any other name, or anything that is not a pure expression, fails with a
// *CompilationError; the formula is never executed on failure.
func Compile(expr string) (Function, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, &CompilationError{Expr: expr, Reason: "empty expression"}
	}

	indices := make(map[string]int)
	rewritten := indexRe.ReplaceAllStringFunc(src, func(m string) string {
		idx, _ := strconv.Atoi(indexRe.FindStringSubmatch(m)[1])
		name := "path_" + strconv.Itoa(idx)
		if idx < 0 {
			name = "path_m" + strconv.Itoa(-idx)
		}
		indices[name] = idx
		return name
	})

	ev, err := govaluate.NewEvaluableExpressionWithFunctions(rewritten, exprFunctions)
	if err != nil {
		return nil, &CompilationError{Expr: src, Reason: err.Error()}
	}
	for _, v := range ev.Vars() {
		if v == "path" {
			continue
		}
		if _, ok := indices[v]; ok {
			continue
		}
		return nil, &CompilationError{Expr: src, Reason: fmt.Sprintf("unknown name %q", v)}
	}

	return &expression{src: src, ev: ev, indices: indices}, nil
}

func (e *expression) Evaluate(path []float64) (float64, error) {
	params := make(map[string]interface{}, len(e.indices)+1)
	params["path"] = path
	for name, idx := range e.indices {
		i := idx
		if i < 0 {
			i += len(path)
		}
		if i < 0 || i >= len(path) {
			return 0, &EvaluationError{PathIndex: -1, Err: fmt.Errorf("path[%d] out of range for %d prices", idx, len(path))}
		}
		params[name] = path[i]
	}

	out, err := e.ev.Evaluate(params)
	if err != nil {
		return 0, &EvaluationError{PathIndex: -1, Err: err}
	}
	v, ok := out.(float64)
	if !ok {
		return 0, &EvaluationError{PathIndex: -1, Err: fmt.Errorf("expression produced %T, want number", out)}
	}
	if err := checkFinite(v); err != nil {
		return 0, &EvaluationError{PathIndex: -1, Err: err}
	}
	return v, nil
}

// flatten accepts the mix govaluate hands a function: scalars, or the whole
// path when the expression passes it as an argument.
func flatten(args []interface{}) ([]float64, error) {
	var out []float64
	for _, a := range args {
		switch v := a.(type) {
		case float64:
			out = append(out, v)
		case []float64:
			out = append(out, v...)
		case []interface{}:
			for _, e := range v {
				f, ok := e.(float64)
				if !ok {
					return nil, fmt.Errorf("non-numeric argument %T", e)
				}
				out = append(out, f)
			}
		default:
			return nil, fmt.Errorf("non-numeric argument %T", a)
		}
	}
	return out, nil
}

func reduce(name string, init float64, step func(a, b float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		vals, err := flatten(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("%s: no arguments", name)
		}
		acc := init
		for _, v := range vals {
			acc = step(acc, v)
		}
		return acc, nil
	}
}

func meanFn(args ...interface{}) (interface{}, error) {
	vals, err := flatten(args)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("mean: no arguments")
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), nil
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		vals, err := flatten(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(vals) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(vals))
		}
		return fn(vals[0]), nil
	}
}

func powFn(args ...interface{}) (interface{}, error) {
	vals, err := flatten(args)
	if err != nil {
		return nil, fmt.Errorf("pow: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("pow: want 2 arguments, got %d", len(vals))
	}
	return math.Pow(vals[0], vals[1]), nil
}

package pricing

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// OptionType selects the payoff direction of a vanilla contract.
type OptionType string

// ExerciseStyle selects when the holder may exercise.
type ExerciseStyle string

const (
	Call OptionType = "call"
	Put  OptionType = "put"

	European ExerciseStyle = "european"
	American ExerciseStyle = "american"
)

// validate is shared by both parameter sets; struct tags cover the numeric
// range rules, enum fields are checked separately after normalization.
var validate = validator.New()

// ParseOptionType normalizes a user-supplied option type case-insensitively.
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(strings.ToLower(strings.TrimSpace(s))) {
	case Call:
		return Call, nil
	case Put:
		return Put, nil
	case "":
		return Call, nil // default
	}
	return "", &ValidationError{Field: "option_type", Reason: "must be \"call\" or \"put\", got " + strings.TrimSpace(s)}
}

// ParseExerciseStyle normalizes a user-supplied exercise style case-insensitively.
func ParseExerciseStyle(s string) (ExerciseStyle, error) {
	switch ExerciseStyle(strings.ToLower(strings.TrimSpace(s))) {
	case European:
		return European, nil
	case American:
		return American, nil
	case "":
		return European, nil // default
	}
	return "", &ValidationError{Field: "exercise", Reason: "must be \"european\" or \"american\", got " + strings.TrimSpace(s)}
}

// BinomialParameters configures a CRR lattice pricing run. Treat a value as
// frozen once Normalized has accepted it.
type BinomialParameters struct {
	Spot          float64       `json:"spot" form:"spot" validate:"gt=0"`                     // underlying price, > 0
	Strike        float64       `json:"strike" form:"strike" validate:"gt=0"`                 // strike price, > 0
	Rate          float64       `json:"rate" form:"rate"`                                     // continuously compounded risk-free rate
	Time          float64       `json:"time" form:"time" validate:"gt=0"`                     // time to maturity in years, > 0
	Volatility    float64       `json:"volatility" form:"volatility" validate:"gte=0"`        // annualized volatility, >= 0
	Steps         int           `json:"steps" form:"steps" validate:"gte=1"`                  // tree levels, >= 1
	DividendYield float64       `json:"dividend_yield" form:"dividend_yield" validate:"gte=0"` // continuous dividend yield, defaults to 0
	OptionType    OptionType    `json:"option_type" form:"option_type"`                       // "call" (default) or "put"
	Exercise      ExerciseStyle `json:"exercise" form:"exercise"`                             // "european" (default) or "american"
}

// Normalized returns a copy with enum fields lower-cased and defaults filled,
// or a *ValidationError if any field is out of range.
func (p BinomialParameters) Normalized() (BinomialParameters, error) {
	ot, err := ParseOptionType(string(p.OptionType))
	if err != nil {
		return p, err
	}
	ex, err := ParseExerciseStyle(string(p.Exercise))
	if err != nil {
		return p, err
	}
	p.OptionType = ot
	p.Exercise = ex
	if err := checkRanges(p); err != nil {
		return p, err
	}
	return p, nil
}

// MonteCarloParameters configures a GBM simulation pricing run.
type MonteCarloParameters struct {
	Spot          float64 `json:"spot" form:"spot" validate:"gt=0"`                     // underlying price, > 0
	Rate          float64 `json:"rate" form:"rate"`                                     // continuously compounded risk-free rate
	Time          float64 `json:"time" form:"time" validate:"gt=0"`                     // time to maturity in years, > 0
	Volatility    float64 `json:"volatility" form:"volatility" validate:"gte=0"`        // annualized volatility, >= 0
	DividendYield float64 `json:"dividend_yield" form:"dividend_yield" validate:"gte=0"` // continuous dividend yield, defaults to 0
	Paths         int     `json:"paths" form:"paths" validate:"gte=1"`                  // simulated paths, >= 1
	Steps         int     `json:"steps" form:"steps" validate:"gte=1"`                  // steps per path, >= 1
	Seed          *int64  `json:"seed,omitempty" form:"seed"`                           // nil means non-reproducible randomness
}

// Normalized validates the parameter set. The copy is returned for symmetry
// with BinomialParameters even though no field is rewritten today.
func (p MonteCarloParameters) Normalized() (MonteCarloParameters, error) {
	if err := checkRanges(p); err != nil {
		return p, err
	}
	return p, nil
}

// checkRanges runs the struct-tag rules and translates the first failure
// into a *ValidationError keyed by the json field name.
func checkRanges(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ValidationError{Field: "parameters", Reason: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{Field: jsonField(fe.Field()), Reason: rangeReason(fe)}
}

func jsonField(structField string) string {
	switch structField {
	case "Spot":
		return "spot"
	case "Strike":
		return "strike"
	case "Rate":
		return "rate"
	case "Time":
		return "time"
	case "Volatility":
		return "volatility"
	case "Steps":
		return "steps"
	case "Paths":
		return "paths"
	case "DividendYield":
		return "dividend_yield"
	}
	return strings.ToLower(structField)
}

func rangeReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}

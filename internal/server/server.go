// Package server exposes Monte Carlo and binomial pricing over HTTP: an
// HTML form for interactive use plus a JSON API.
package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/payoff"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

const defaultPayoffExpr = "max(path[-1] - 100, 0)"

type Server struct {
	router *gin.Engine
}

func New() *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	s := &Server{router: r}
	r.GET("/", s.form)
	r.POST("/", s.form)
	r.POST("/api/price", s.apiPrice)
	r.POST("/api/binomial", s.apiBinomial)
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return s
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	logger.Infof("starting pricing server on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// priceRequest is the JSON API body: Monte Carlo parameters plus the payoff
// formula to evaluate on each path.
type priceRequest struct {
	pricing.MonteCarloParameters
	PayoffExpr string `json:"payoff_expr" form:"payoff_expr"`
}

func (s *Server) apiPrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.PayoffExpr) == "" {
		req.PayoffExpr = defaultPayoffExpr
	}

	fn, err := payoff.Compile(req.PayoffExpr)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	res, err := pricing.PriceMonteCarlo(c.Request.Context(), req.MonteCarloParameters, fn)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"price":       res.Price,
		"std_error":   res.StdError,
		"payoff_expr": req.PayoffExpr,
	})
}

func (s *Server) apiBinomial(c *gin.Context) {
	var params pricing.BinomialParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := pricing.PriceBinomial(params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price})
}

// statusFor maps core error kinds to response codes: bad inputs and
// uncompilable payoffs are the caller's fault, payoff failures mid-run are
// unprocessable, anything else is ours.
func statusFor(err error) int {
	var (
		ve *pricing.ValidationError
		ae *pricing.ArbitrageError
		ce *payoff.CompilationError
		ee *payoff.EvaluationError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ae), errors.As(err, &ce):
		return http.StatusBadRequest
	case errors.As(err, &ee):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// form renders the interactive pricer; POST re-renders with a price or an
// error, echoing the submitted fields.
func (s *Server) form(c *gin.Context) {
	data := defaultForm()

	var res pricing.MonteCarloResult
	priced := false
	var errMsg string

	if c.Request.Method == http.MethodPost {
		for k := range data {
			if v, ok := c.GetPostForm(k); ok {
				data[k] = strings.TrimSpace(v)
			}
		}
		params, expr, err := coerceForm(data)
		if err == nil {
			var fn payoff.Function
			fn, err = payoff.Compile(expr)
			if err == nil {
				res, err = pricing.PriceMonteCarlo(c.Request.Context(), params, fn)
				priced = err == nil
			}
		}
		if err != nil {
			errMsg = err.Error()
			logger.Debugf("form pricing failed: %v", err)
		}
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"form":   data,
		"priced": priced,
		"price":  res.Price,
		"stderr": res.StdError,
		"error":  errMsg,
	})
}

func defaultForm() map[string]string {
	return map[string]string{
		"spot":           "100",
		"rate":           "0.05",
		"time":           "1.0",
		"volatility":     "0.2",
		"dividend_yield": "0",
		"paths":          "50000",
		"steps":          "252",
		"seed":           "42",
		"payoff_expr":    defaultPayoffExpr,
	}
}

// coerceForm converts the posted strings into parameters and a payoff
// expression, defaulting the expression and the seed when blank.
func coerceForm(data map[string]string) (pricing.MonteCarloParameters, string, error) {
	var params pricing.MonteCarloParameters

	num := func(key string) (float64, error) {
		v, err := strconv.ParseFloat(data[key], 64)
		if err != nil {
			return 0, &pricing.ValidationError{Field: key, Reason: "not a number"}
		}
		return v, nil
	}
	count := func(key string) (int, error) {
		v, err := strconv.Atoi(data[key])
		if err != nil {
			return 0, &pricing.ValidationError{Field: key, Reason: "not an integer"}
		}
		return v, nil
	}

	var err error
	if params.Spot, err = num("spot"); err != nil {
		return params, "", err
	}
	if params.Rate, err = num("rate"); err != nil {
		return params, "", err
	}
	if params.Time, err = num("time"); err != nil {
		return params, "", err
	}
	if params.Volatility, err = num("volatility"); err != nil {
		return params, "", err
	}
	if data["dividend_yield"] != "" {
		if params.DividendYield, err = num("dividend_yield"); err != nil {
			return params, "", err
		}
	}
	if params.Paths, err = count("paths"); err != nil {
		return params, "", err
	}
	if params.Steps, err = count("steps"); err != nil {
		return params, "", err
	}
	if data["seed"] != "" {
		seed, err := strconv.ParseInt(data["seed"], 10, 64)
		if err != nil {
			return params, "", &pricing.ValidationError{Field: "seed", Reason: "not an integer"}
		}
		params.Seed = &seed
	}

	expr := data["payoff_expr"]
	if strings.TrimSpace(expr) == "" {
		expr = defaultPayoffExpr
	}
	return params, expr, nil
}

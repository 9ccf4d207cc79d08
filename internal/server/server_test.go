package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	New().Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	New().Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestAPIPrice(t *testing.T) {
	w := doJSON(t, "/api/price", map[string]any{
		"spot": 100, "rate": 0.05, "time": 1.0, "volatility": 0.2,
		"paths": 2000, "steps": 10, "seed": 42,
		"payoff_expr": "max(path[-1] - 100, 0)",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Price      float64 `json:"price"`
		StdError   float64 `json:"std_error"`
		PayoffExpr string  `json:"payoff_expr"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Greater(t, resp.Price, 0.0)
	require.Greater(t, resp.StdError, 0.0)
	require.Equal(t, "max(path[-1] - 100, 0)", resp.PayoffExpr)
}

func TestAPIPriceDefaultsPayoff(t *testing.T) {
	w := doJSON(t, "/api/price", map[string]any{
		"spot": 100, "rate": 0.05, "time": 1.0, "volatility": 0.2,
		"paths": 500, "steps": 5, "seed": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), defaultPayoffExpr)
}

func TestAPIPriceRejectsBadExpression(t *testing.T) {
	w := doJSON(t, "/api/price", map[string]any{
		"spot": 100, "rate": 0.05, "time": 1.0, "volatility": 0.2,
		"paths": 500, "steps": 5,
		"payoff_expr": "shell(path)",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestAPIPriceRejectsBadParameters(t *testing.T) {
	w := doJSON(t, "/api/price", map[string]any{
		"spot": -5, "rate": 0.05, "time": 1.0, "volatility": 0.2,
		"paths": 500, "steps": 5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIBinomial(t *testing.T) {
	w := doJSON(t, "/api/binomial", map[string]any{
		"spot": 100, "strike": 100, "rate": 0.05, "time": 1.0,
		"volatility": 0.2, "steps": 200,
		"option_type": "call", "exercise": "european",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.InDelta(t, 10.45, resp.Price, 0.2)
}

func TestAPIBinomialRejectsBadEnum(t *testing.T) {
	w := doJSON(t, "/api/binomial", map[string]any{
		"spot": 100, "strike": 100, "rate": 0.05, "time": 1.0,
		"volatility": 0.2, "steps": 50,
		"option_type": "straddle",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormRendersAndPrices(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	New().Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Monte Carlo Option Pricer")

	form := url.Values{
		"spot": {"100"}, "rate": {"0.05"}, "time": {"1"}, "volatility": {"0.2"},
		"dividend_yield": {"0"}, "paths": {"500"}, "steps": {"5"}, "seed": {"42"},
		"payoff_expr": {"max(path[-1] - 100, 0)"},
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	New().Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Estimated option price")
}

func TestFormShowsValidationError(t *testing.T) {
	form := url.Values{
		"spot": {"oops"}, "rate": {"0.05"}, "time": {"1"}, "volatility": {"0.2"},
		"paths": {"500"}, "steps": {"5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	New().Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Error:")
}

package pricing

import (
	"math"
	"testing"
)

// Simple sanity check: ATM call should have non-zero value
func TestBlackScholesCallBasic(t *testing.T) {
	call := BlackScholesPrice(Call, 100, 100, 30.0/365.0, 0.05, 0, 0.20)
	if call <= 0 {
		t.Fatalf("expected call price > 0, got %f", call)
	}
}

func TestBlackScholesKnownValue(t *testing.T) {
	// Standard textbook case: S=K=100, r=5%, T=1y, sigma=20%.
	got := BlackScholesPrice(Call, 100, 100, 1, 0.05, 0, 0.2)
	if math.Abs(got-10.4506) > 1e-3 {
		t.Fatalf("expected ~10.4506, got %f", got)
	}
}

// Put-call parity check
func TestBlackScholesPutCallParity(t *testing.T) {
	S, K, T, r, q, iv := 100.0, 100.0, 45.0/365.0, 0.03, 0.01, 0.25

	call := BlackScholesPrice(Call, S, K, T, r, q, iv)
	put := BlackScholesPrice(Put, S, K, T, r, q, iv)

	lhs := call - put
	rhs := S*math.Exp(-q*T) - K*math.Exp(-r*T)

	if math.Abs(lhs-rhs) > 1e-6 {
		t.Fatalf("put-call parity violated: LHS=%f RHS=%f", lhs, rhs)
	}
}

func TestBlackScholesIntrinsicFallback(t *testing.T) {
	if got := BlackScholesPrice(Call, 120, 100, 0, 0.05, 0, 0.2); got != 20 {
		t.Fatalf("expected intrinsic 20 at expiry, got %f", got)
	}
	if got := BlackScholesPrice(Put, 80, 100, 1, 0.05, 0, 0); got != 20 {
		t.Fatalf("expected intrinsic 20 at zero vol, got %f", got)
	}
}

func TestImpliedVolRoundTrip(t *testing.T) {
	S, K, T, r := 100.0, 100.0, 0.5, 0.02
	sigma := 0.25

	// Feed the call quote on both sides so the averaged market price is the
	// call price the solver targets.
	call := BlackScholesPrice(Call, S, K, T, r, 0, sigma)

	got, err := ImpliedVolATM(S, K, T, r, call, call)
	if err != nil {
		t.Fatalf("ImpliedVolATM: %v", err)
	}
	if math.Abs(got-sigma) > 1e-3 {
		t.Fatalf("expected implied vol ~%f, got %f", sigma, got)
	}
}

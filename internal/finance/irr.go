// Package finance holds the periodic-rate math used by the projector.
package finance

import (
	"errors"
	"fmt"
	"math"
)

const (
	InitialGuess  = 0.10
	MaxIterations = 1000
	Tolerance     = 1e-7
)

// ErrNonConvergence means the Newton path found no root. It does not prove
// that no IRR exists.
var ErrNonConvergence = errors.New("irr: no convergence")

// NPV discounts cashFlows[t] by (1+rate)^t.
func NPV(rate float64, cashFlows []float64) float64 {
	var v float64
	for t, cf := range cashFlows {
		v += cf / math.Pow(1+rate, float64(t))
	}
	return v
}

func npvDerivative(rate float64, cashFlows []float64) float64 {
	var d float64
	for t := 1; t < len(cashFlows); t++ {
		d += -float64(t) * cashFlows[t] / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// IRR returns the periodic rate that zeroes NPV, found by a single
// Newton-Raphson path from InitialGuess. Series with several sign changes
// may converge to a spurious root or fail.
func IRR(cashFlows []float64) (float64, error) {
	rate := InitialGuess
	for i := 0; i < MaxIterations; i++ {
		v := NPV(rate, cashFlows)
		d := npvDerivative(rate, cashFlows)
		if d == 0 {
			return 0, fmt.Errorf("%w: zero derivative at iteration %d", ErrNonConvergence, i)
		}
		next := rate - v/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, fmt.Errorf("%w: non-finite step at iteration %d", ErrNonConvergence, i)
		}
		if math.Abs(next-rate) < Tolerance {
			return next, nil
		}
		rate = next
	}
	return 0, fmt.Errorf("%w: %d iterations exhausted", ErrNonConvergence, MaxIterations)
}

// Annualize compounds a monthly rate over twelve months.
func Annualize(monthly float64) float64 { return math.Pow(1+monthly, 12) - 1 }

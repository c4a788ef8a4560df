package service

import (
	"math"

	"github.com/Dan9191/fincalc/internal/models"
)

const (
	irrInitialGuess   = 0.1
	irrMaxIterations  = 100
	irrTolerance      = 1e-6
	irrFlatDerivative = 1e-10
	irrAcceptance     = 0.01
	irrMinRate        = -0.99
	irrMaxRate        = 10.0
)

// NPV discounts flows at rate, flow i being received at period i
func NPV(rate float64, flows []float64) float64 {
	var npv float64
	for i, cf := range flows {
		npv += cf / math.Pow(1+rate, float64(i))
	}
	return npv
}

func npvDerivative(rate float64, flows []float64) float64 {
	var d float64
	for i, cf := range flows {
		d += -float64(i) * cf / math.Pow(1+rate, float64(i+1))
	}
	return d
}

// SolveIRR finds the per-period rate at which the flows' NPV is zero using
// Newton-Raphson. ok is false when fewer than two flows are given or the
// iteration does not settle on a root.
func SolveIRR(flows []float64) (rate float64, ok bool) {
	if len(flows) < 2 {
		return 0, false
	}

	rate = irrInitialGuess
	var npv float64
	for i := 0; i < irrMaxIterations; i++ {
		npv = NPV(rate, flows)
		if math.Abs(npv) < irrTolerance {
			return rate, true
		}

		d := npvDerivative(rate, flows)
		if math.Abs(d) < irrFlatDerivative {
			break
		}

		rate -= npv / d
		rate = math.Min(math.Max(rate, irrMinRate), irrMaxRate)
	}

	// npv is the value at the rate before the last update
	if math.Abs(npv) < irrAcceptance {
		return rate, true
	}
	return 0, false
}

// CalculateIRR solves the IRR of a raw cash-flow sequence
func (s *Service) CalculateIRR(req models.IRRRequest) (models.IRRResult, error) {
	if len(req.CashFlows) < 2 {
		return models.IRRResult{}, invalidf("at least two cash flows are required")
	}
	for i, cf := range req.CashFlows {
		if math.IsNaN(cf) || math.IsInf(cf, 0) {
			return models.IRRResult{}, invalidf("cash flow %d is not a finite number", i)
		}
	}

	irr, ok := SolveIRR(req.CashFlows)
	if !ok {
		irrUnavailable.Inc()
		s.log.WithField("flows", len(req.CashFlows)).Warn("IRR did not converge")
		return models.IRRResult{}, nil
	}
	return models.IRRResult{IRR: floatPtr(roundTo(irr, 6)), Converged: true}, nil
}

package service

import (
	"math"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

// maxBreakevenUnits keeps unit counts representable as int on every platform.
const maxBreakevenUnits = math.MaxInt32

// CalculateBreakeven finds the volume at which contribution margin covers the
// fixed costs. Unit counts round half to even.
func (s *Service) CalculateBreakeven(in models.BreakevenInput) (models.BreakevenResult, error) {
	if in.FixedCosts < 0 || in.VariableCostPerUnit < 0 {
		return models.BreakevenResult{}, invalidf("costs must not be negative")
	}
	if in.SellingPricePerUnit <= 0 {
		return models.BreakevenResult{}, invalidf("selling price must be greater than 0")
	}
	if in.SellingPricePerUnit <= in.VariableCostPerUnit {
		return models.BreakevenResult{}, invalidf("selling price must be greater than the variable cost per unit")
	}
	if in.TargetProfit < 0 {
		return models.BreakevenResult{}, invalidf("target profit must not be negative")
	}

	margin := in.SellingPricePerUnit - in.VariableCostPerUnit
	ratio := margin / in.SellingPricePerUnit
	units := in.FixedCosts / margin
	if units > maxBreakevenUnits {
		return models.BreakevenResult{}, invalidf("break-even volume exceeds %d units", maxBreakevenUnits)
	}

	res := models.BreakevenResult{
		BreakevenUnits:          int(math.RoundToEven(units)),
		BreakevenRevenue:        round2(units * in.SellingPricePerUnit),
		ContributionMargin:      round2(margin),
		ContributionMarginRatio: round2(ratio * 100),
	}
	if in.TargetProfit > 0 {
		targetUnits := (in.FixedCosts + in.TargetProfit) / margin
		if targetUnits > maxBreakevenUnits {
			return models.BreakevenResult{}, invalidf("target profit volume exceeds %d units", maxBreakevenUnits)
		}
		res.TargetProfitUnits = intPtr(int(math.RoundToEven(targetUnits)))
		res.TargetProfitRevenue = floatPtr(round2(targetUnits * in.SellingPricePerUnit))
	}

	s.log.WithFields(logrus.Fields{
		"units":   res.BreakevenUnits,
		"revenue": res.BreakevenRevenue,
	}).Debug("Break-even calculated")
	return res, nil
}

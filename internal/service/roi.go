package service

import (
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAnalysisPeriodMonths = 12
	DefaultDiscountRate         = 0.10
	DefaultInflationRate        = 0.03

	maxAnalysisPeriodMonths = 120
)

// Investment grades and risk levels
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// DefaultROIRequest returns a request with the parameter defaults filled in.
// Decoding JSON into it keeps the defaults for omitted fields.
func DefaultROIRequest() models.ROIRequest {
	return models.ROIRequest{
		Parameters: models.ROIParameters{
			AnalysisPeriodMonths: DefaultAnalysisPeriodMonths,
			DiscountRate:         DefaultDiscountRate,
			InflationRate:        DefaultInflationRate,
		},
	}
}

func validateROI(req models.ROIRequest) error {
	inv, ret, p := req.Investment, req.Returns, req.Parameters
	if inv.InitialAmount <= 0 {
		return invalidf("initial amount must be greater than 0")
	}
	if inv.AdditionalCosts < 0 {
		return invalidf("additional costs must not be negative")
	}
	if _, err := time.Parse(time.DateOnly, inv.InvestmentDate); err != nil {
		return invalidf("investment date must be YYYY-MM-DD, got %q", inv.InvestmentDate)
	}
	if ret.MonthlyRevenueIncrease < 0 || ret.MonthlyCostSavings < 0 || ret.ResidualValue < 0 {
		return invalidf("returns must not be negative")
	}
	if p.AnalysisPeriodMonths < 1 || p.AnalysisPeriodMonths > maxAnalysisPeriodMonths {
		return invalidf("analysis period must be between 1 and %d months", maxAnalysisPeriodMonths)
	}
	if p.DiscountRate < 0 || p.DiscountRate > 1 {
		return invalidf("discount rate must be between 0 and 1")
	}
	if p.InflationRate < 0 || p.InflationRate > 1 {
		return invalidf("inflation rate must be between 0 and 1")
	}
	return nil
}

// ROICashFlows builds the period-0 outlay followed by one flow per month,
// the residual value landing in the last month.
func ROICashFlows(totalInvestment, monthlyReturns, residual float64, months int) []float64 {
	flows := make([]float64, 0, months+1)
	flows = append(flows, -totalInvestment)
	for m := 1; m <= months; m++ {
		flow := monthlyReturns
		if m == months {
			flow += residual
		}
		flows = append(flows, flow)
	}
	return flows
}

// CalculateROI analyzes an investment over the requested horizon
func (s *Service) CalculateROI(req models.ROIRequest) (models.ROIResult, error) {
	if err := validateROI(req); err != nil {
		return models.ROIResult{}, err
	}

	n := req.Parameters.AnalysisPeriodMonths
	totalInvestment := req.Investment.InitialAmount + req.Investment.AdditionalCosts
	monthlyReturns := req.Returns.MonthlyRevenueIncrease + req.Returns.MonthlyCostSavings
	residual := req.Returns.ResidualValue
	flows := ROICashFlows(totalInvestment, monthlyReturns, residual, n)

	totalReturns := monthlyReturns*float64(n) + residual
	simpleROI := (totalReturns - totalInvestment) / totalInvestment * 100
	annualizedROI := (math.Pow(totalReturns/totalInvestment, 12/float64(n)) - 1) * 100

	monthlyDiscount := req.Parameters.DiscountRate / 12
	npv := NPV(monthlyDiscount, flows)

	metrics := models.ROIMetrics{
		SimpleROI:     round2(simpleROI),
		AnnualizedROI: round2(annualizedROI),
		NPV:           round2(npv),
	}
	if irr, ok := SolveIRR(flows); ok {
		metrics.IRR = floatPtr(roundTo(irr, 4))
	} else {
		irrUnavailable.Inc()
		s.log.WithField("months", n).Warn("IRR did not converge for ROI cash flows")
	}

	cumulative := -totalInvestment
	for m := 1; m <= n; m++ {
		cumulative += monthlyReturns
		if cumulative >= 0 {
			metrics.PaybackPeriodMonths = intPtr(m)
			metrics.BreakEvenMonth = intPtr(m)
			break
		}
	}

	result := models.ROIResult{
		InvestmentData: req.Investment,
		ReturnsData:    req.Returns,
		ParametersData: req.Parameters,
		Metrics:        metrics,
		Scenarios:      roiScenarios(monthlyReturns, totalInvestment, n),
		Timeline:       roiTimeline(flows, monthlyDiscount),
		Analysis:       analyzeInvestment(metrics),
	}

	s.log.WithFields(logrus.Fields{
		"months":     n,
		"simple_roi": metrics.SimpleROI,
		"grade":      result.Analysis.InvestmentGrade,
	}).Debug("ROI calculated")
	return result, nil
}

func roiScenarios(returns, investment float64, months int) []models.ROIScenario {
	n := float64(months)
	scenario := func(name, description string, r, inv float64, payback bool) models.ROIScenario {
		sc := models.ROIScenario{
			Name:          name,
			ROIPercentage: round2((r*n - inv) / inv * 100),
			NPV:           r*n - inv,
			Description:   description,
		}
		if payback && r > 0 {
			sc.PaybackMonths = intPtr(int(inv / r))
		}
		return sc
	}

	return []models.ROIScenario{
		scenario("Pessimistic", "Scenario with returns reduced by 30%", returns*0.7, investment*1.2, false),
		scenario("Realistic", "Base scenario with current projections", returns, investment, true),
		scenario("Optimistic", "Scenario with returns increased by 50%", returns*1.5, investment*0.9, true),
	}
}

func roiTimeline(flows []float64, monthlyDiscount float64) []models.TimelinePoint {
	timeline := make([]models.TimelinePoint, 0, len(flows))
	cumulative := 0.0
	for m, flow := range flows {
		cumulative += flow
		point := models.TimelinePoint{Month: m, CashFlow: flow, Cumulative: cumulative, NPV: flow}
		if m > 0 {
			point.Cumulative = round2(cumulative)
			point.NPV = round2(flow / math.Pow(1+monthlyDiscount, float64(m)))
		}
		timeline = append(timeline, point)
	}
	return timeline
}

var roiRecommendations = map[string]string{
	GradeExcellent: "Highly recommended investment. Exceptional ROI with a fast return.",
	GradeGood:      "Recommended investment. Good balance between return and risk.",
	GradeFair:      "Investment worth considering. Evaluate alternatives before deciding.",
	GradePoor:      "Investment not recommended. Look for better opportunities.",
}

func analyzeInvestment(m models.ROIMetrics) models.ROIAnalysis {
	var grade string
	switch {
	case m.AnnualizedROI >= 50:
		grade = GradeExcellent
	case m.AnnualizedROI >= 25:
		grade = GradeGood
	case m.AnnualizedROI >= 10:
		grade = GradeFair
	default:
		grade = GradePoor
	}

	risk := RiskHigh
	if m.PaybackPeriodMonths != nil {
		switch {
		case *m.PaybackPeriodMonths <= 6:
			risk = RiskLow
		case *m.PaybackPeriodMonths <= 18:
			risk = RiskMedium
		}
	}

	payback := "No clear payback"
	if m.PaybackPeriodMonths != nil {
		payback = fmt.Sprintf("Payback period: %d months", *m.PaybackPeriodMonths)
	}
	factors := []string{
		fmt.Sprintf("Annualized ROI of %.1f%%", m.AnnualizedROI),
		payback,
		fmt.Sprintf("NPV of $%s", formatMoney(m.NPV, 0)),
		fmt.Sprintf("Risk level: %s", risk),
	}
	if m.IRR != nil {
		factors = append(factors, fmt.Sprintf("IRR of %.1f%%", *m.IRR*100))
	}

	return models.ROIAnalysis{
		InvestmentGrade: grade,
		RiskLevel:       risk,
		Recommendation:  roiRecommendations[grade],
		KeyFactors:      factors,
	}
}

package service

import (
	"math"
	"slices"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Pricing strategy labels
const (
	PricingCostPlus    = "cost_plus"
	PricingPremium     = "premium"
	PricingPenetration = "penetration"
	PricingCompetitive = "competitive"

	PositionCompetitive  = "competitive"
	PositionOutsideRange = "outside_range"

	projectionUnits = 100
)

var (
	hundred            = decimal.NewFromInt(100)
	conservativeMarkup = decimal.RequireFromString("1.20")
	premiumMarkup      = decimal.RequireFromString("1.50")
)

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// CalculatePricing derives a selling price from unit costs and a target
// margin on price, and compares it with competitor prices when given.
func (s *Service) CalculatePricing(in models.PricingInput) (models.PricingResult, error) {
	if in.CostMaterials < 0 || in.CostLabor < 0 || in.CostOverhead < 0 {
		return models.PricingResult{}, invalidf("costs must not be negative")
	}
	if in.DesiredProfitMargin < 0 || in.DesiredProfitMargin >= 100 {
		return models.PricingResult{}, invalidf("desired profit margin must be at least 0 and below 100")
	}
	for _, p := range in.CompetitorPrices {
		if p <= 0 {
			return models.PricingResult{}, invalidf("competitor prices must be greater than 0")
		}
	}

	base := decimal.NewFromFloat(in.CostMaterials).
		Add(decimal.NewFromFloat(in.CostLabor)).
		Add(decimal.NewFromFloat(in.CostOverhead))
	if !base.IsPositive() {
		return models.PricingResult{}, invalidf("total cost must be greater than 0")
	}

	margin := decimal.NewFromFloat(in.DesiredProfitMargin).Div(hundred)
	price := base.Div(decimal.NewFromInt(1).Sub(margin))
	profit := price.Sub(base)

	analysis, avg := analyzeCompetition(in.CompetitorPrices, price)
	strategy := PricingCostPlus
	if avg != nil {
		switch {
		case price.GreaterThan(avg.Mul(decimal.RequireFromString("1.1"))):
			strategy = PricingPremium
		case price.LessThan(avg.Mul(decimal.RequireFromString("0.9"))):
			strategy = PricingPenetration
		default:
			strategy = PricingCompetitive
		}
	}

	result := models.PricingResult{
		ProductName:      in.ProductName,
		RecommendedPrice: money(price),
		CostBreakdown: models.CostBreakdown{
			Materials:    in.CostMaterials,
			Labor:        in.CostLabor,
			Overhead:     in.CostOverhead,
			TotalCost:    money(base),
			ProfitAmount: money(profit),
		},
		ProfitMargin:        roundTo(in.DesiredProfitMargin, 2),
		PricingStrategy:     strategy,
		CompetitiveAnalysis: analysis,
		PricingStrategies:   pricingStrategies(base, avg),
		FinancialProjections: models.FinancialProjections{
			MonthlyRevenue100Units: money(price.Mul(decimal.NewFromInt(projectionUnits))),
			MonthlyProfit100Units:  money(profit.Mul(decimal.NewFromInt(projectionUnits))),
			ROIPercentage:          money(profit.Div(base).Mul(hundred)),
		},
	}

	s.log.WithFields(logrus.Fields{
		"product":  in.ProductName,
		"price":    result.RecommendedPrice,
		"strategy": strategy,
	}).Debug("Price calculated")
	return result, nil
}

// analyzeCompetition returns the competitor statistics and, when any prices
// were given, their mean for strategy selection.
func analyzeCompetition(prices []float64, price decimal.Decimal) (models.CompetitiveAnalysis, *decimal.Decimal) {
	if len(prices) == 0 {
		return models.CompetitiveAnalysis{Message: "No competitor data available"}, nil
	}

	sorted := slices.Clone(prices)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	sum := decimal.Zero
	for _, p := range sorted {
		sum = sum.Add(decimal.NewFromFloat(p))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(sorted))))
	mean := avg.InexactFloat64()

	var median float64
	if mid := len(sorted) / 2; len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var variance float64
	for _, p := range sorted {
		variance += (p - mean) * (p - mean)
	}
	std := math.Sqrt(variance / float64(len(sorted)))

	position := PositionOutsideRange
	if !price.LessThan(decimal.NewFromFloat(lo)) && !price.GreaterThan(decimal.NewFromFloat(hi)) {
		position = PositionCompetitive
	}

	return models.CompetitiveAnalysis{
		MinPrice:      floatPtr(round2(lo)),
		MaxPrice:      floatPtr(round2(hi)),
		AvgPrice:      floatPtr(money(avg)),
		MedianPrice:   floatPtr(round2(median)),
		StdDeviation:  floatPtr(round2(std)),
		PricePosition: position,
	}, &avg
}

func pricingStrategies(base decimal.Decimal, avg *decimal.Decimal) []models.PricingStrategy {
	strategies := []models.PricingStrategy{{
		Name:        "Conservative",
		Price:       money(base.Mul(conservativeMarkup)),
		Description: "Low but safe margin, ideal for getting started",
		Pros:        []string{"Easy to sell", "Competitive"},
		Cons:        []string{"Lower profit"},
	}}
	if avg != nil {
		strategies = append(strategies, models.PricingStrategy{
			Name:        "Competitive",
			Price:       money(*avg),
			Description: "Price close to the market average",
			Pros:        []string{"Balanced", "Market acceptance"},
			Cons:        []string{"Less differentiation"},
		})
	}
	return append(strategies, models.PricingStrategy{
		Name:        "Premium",
		Price:       money(base.Mul(premiumMarkup)),
		Description: "High margin, focused on quality and value",
		Pros:        []string{"Higher profit", "Perceived quality"},
		Cons:        []string{"Smaller market"},
	})
}

// PricingApproaches returns the catalogue of general pricing approaches
func (s *Service) PricingApproaches() []models.PricingApproach {
	return []models.PricingApproach{
		{Name: "Market penetration", Description: "Low prices to gain market share", BestFor: "New products, competitive markets"},
		{Name: "Price skimming", Description: "High initial prices, reduced over time", BestFor: "Innovative products, early adopters"},
		{Name: "Competitive pricing", Description: "Prices similar to competitors", BestFor: "Mature markets, similar products"},
		{Name: "Premium pricing", Description: "High prices based on perceived value", BestFor: "Superior quality products, strong brands"},
	}
}

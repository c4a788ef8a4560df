package models

// PricingInput is the input of the pricing endpoint
type PricingInput struct {
	ProductName         string         `json:"product_name"`
	CostMaterials       float64        `json:"cost_materials"`
	CostLabor           float64        `json:"cost_labor"`
	CostOverhead        float64        `json:"cost_overhead"`
	DesiredProfitMargin float64        `json:"desired_profit_margin"` // percent
	MarketResearch      map[string]any `json:"market_research,omitempty"`
	CompetitorPrices    []float64      `json:"competitor_prices,omitempty"`
	TargetMarket        string         `json:"target_market,omitempty"`
}

// CostBreakdown itemizes the unit cost
type CostBreakdown struct {
	Materials    float64 `json:"materials"`
	Labor        float64 `json:"labor"`
	Overhead     float64 `json:"overhead"`
	TotalCost    float64 `json:"total_cost"`
	ProfitAmount float64 `json:"profit_amount"`
}

// CompetitiveAnalysis summarizes competitor prices. Only Message is set when
// no competitor prices were supplied.
type CompetitiveAnalysis struct {
	Message       string   `json:"message,omitempty"`
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	AvgPrice      *float64 `json:"avg_price,omitempty"`
	MedianPrice   *float64 `json:"median_price,omitempty"`
	StdDeviation  *float64 `json:"std_deviation,omitempty"`
	PricePosition string   `json:"price_position,omitempty"`
}

// PricingStrategy is one candidate price
type PricingStrategy struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
}

// FinancialProjections projects revenue and profit at a reference volume
type FinancialProjections struct {
	MonthlyRevenue100Units float64 `json:"monthly_revenue_100_units"`
	MonthlyProfit100Units  float64 `json:"monthly_profit_100_units"`
	ROIPercentage          float64 `json:"roi_percentage"`
}

// PricingResult is the output of the pricing endpoint
type PricingResult struct {
	ProductName          string               `json:"product_name"`
	RecommendedPrice     float64              `json:"recommended_price"`
	CostBreakdown        CostBreakdown        `json:"cost_breakdown"`
	ProfitMargin         float64              `json:"profit_margin"`
	PricingStrategy      string               `json:"pricing_strategy"`
	CompetitiveAnalysis  CompetitiveAnalysis  `json:"competitive_analysis"`
	PricingStrategies    []PricingStrategy    `json:"pricing_strategies"`
	FinancialProjections FinancialProjections `json:"financial_projections"`
}

// PricingApproach describes a general pricing approach for the catalogue endpoint
type PricingApproach struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BestFor     string `json:"best_for"`
}

// BreakevenInput is the input of the break-even endpoint
type BreakevenInput struct {
	FixedCosts          float64 `json:"fixed_costs"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit"`
	SellingPricePerUnit float64 `json:"selling_price_per_unit"`
	TargetProfit        float64 `json:"target_profit,omitempty"`
}

// BreakevenResult is the output of the break-even endpoint
type BreakevenResult struct {
	BreakevenUnits          int      `json:"breakeven_units"`
	BreakevenRevenue        float64  `json:"breakeven_revenue"`
	ContributionMargin      float64  `json:"contribution_margin"`
	ContributionMarginRatio float64  `json:"contribution_margin_ratio"` // percent
	TargetProfitUnits       *int     `json:"target_profit_units,omitempty"`
	TargetProfitRevenue     *float64 `json:"target_profit_revenue,omitempty"`
}

package models

// InvestmentData describes the up-front outlay
type InvestmentData struct {
	InitialAmount   float64 `json:"initial_amount"`
	AdditionalCosts float64 `json:"additional_costs"`
	InvestmentDate  string  `json:"investment_date"` // YYYY-MM-DD
}

// ReturnsData describes the monthly benefit of the investment
type ReturnsData struct {
	MonthlyRevenueIncrease float64 `json:"monthly_revenue_increase"`
	MonthlyCostSavings     float64 `json:"monthly_cost_savings"`
	ResidualValue          float64 `json:"residual_value"`
}

// ROIParameters controls the analysis horizon and discounting
type ROIParameters struct {
	AnalysisPeriodMonths int     `json:"analysis_period_months"`
	DiscountRate         float64 `json:"discount_rate"`  // annual, 0..1
	InflationRate        float64 `json:"inflation_rate"` // annual, 0..1
}

// ROIRequest is the input of the ROI endpoint
type ROIRequest struct {
	Investment InvestmentData `json:"investment"`
	Returns    ReturnsData    `json:"returns"`
	Parameters ROIParameters  `json:"parameters"`
}

// ROIScenario is one what-if projection
type ROIScenario struct {
	Name          string  `json:"name"`
	ROIPercentage float64 `json:"roi_percentage"`
	NPV           float64 `json:"npv"`
	PaybackMonths *int    `json:"payback_months"`
	Description   string  `json:"description"`
}

// ROIMetrics holds the headline figures. IRR is nil when the solver does not converge.
type ROIMetrics struct {
	SimpleROI           float64  `json:"simple_roi"`
	AnnualizedROI       float64  `json:"annualized_roi"`
	NPV                 float64  `json:"npv"`
	IRR                 *float64 `json:"irr"`
	PaybackPeriodMonths *int     `json:"payback_period_months"`
	BreakEvenMonth      *int     `json:"break_even_month"`
}

// ROIAnalysis grades the investment
type ROIAnalysis struct {
	InvestmentGrade string   `json:"investment_grade"`
	RiskLevel       string   `json:"risk_level"`
	Recommendation  string   `json:"recommendation"`
	KeyFactors      []string `json:"key_factors"`
}

// TimelinePoint is one month of the cash-flow timeline
type TimelinePoint struct {
	Month      int     `json:"month"`
	CashFlow   float64 `json:"cash_flow"`
	Cumulative float64 `json:"cumulative"`
	NPV        float64 `json:"npv"`
}

// ROIResult is the output of the ROI endpoint
type ROIResult struct {
	InvestmentData InvestmentData  `json:"investment_data"`
	ReturnsData    ReturnsData     `json:"returns_data"`
	ParametersData ROIParameters   `json:"parameters_data"`
	Metrics        ROIMetrics      `json:"metrics"`
	Scenarios      []ROIScenario   `json:"scenarios"`
	Timeline       []TimelinePoint `json:"timeline"`
	Analysis       ROIAnalysis     `json:"analysis"`
}

// IRRRequest is the input of the standalone IRR endpoint
type IRRRequest struct {
	CashFlows []float64 `json:"cash_flows"`
}

// IRRResult carries the solved rate, nil when unavailable
type IRRResult struct {
	IRR       *float64 `json:"irr"`
	Converged bool     `json:"converged"`
}

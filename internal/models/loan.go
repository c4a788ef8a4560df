package models

// LoanOffer is one loan being compared
type LoanOffer struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Amount              float64 `json:"amount"`
	AnnualRate          float64 `json:"annual_rate"` // nominal, 0..1
	TermMonths          int     `json:"term_months"`
	OriginationFeePct   float64 `json:"origination_fee_pct"` // 0..1 of amount
	OriginationFeeFlat  float64 `json:"origination_fee_flat"`
	ExtraMonthlyPayment float64 `json:"extra_monthly_payment"`
}

// BorrowerContext is used for debt-to-income checks
type BorrowerContext struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	OtherMonthlyDebt float64 `json:"other_monthly_debt"`
}

// LoanComparisonRequest is the input of the loan comparison endpoint
type LoanComparisonRequest struct {
	Loans []LoanOffer     `json:"loans"`
	User  BorrowerContext `json:"user"`
}

// LoanMetrics are the computed figures for one offer
type LoanMetrics struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	MonthlyPayment          float64 `json:"monthly_payment"`
	MonthlyPaymentWithExtra float64 `json:"monthly_payment_with_extra"`
	TotalInterest           float64 `json:"total_interest"`
	TotalInterestWithExtra  float64 `json:"total_interest_with_extra"`
	TotalCost               float64 `json:"total_cost"`
	TotalCostWithExtra      float64 `json:"total_cost_with_extra"`
	PayoffMonths            int     `json:"payoff_months"`
	PayoffMonthsWithExtra   int     `json:"payoff_months_with_extra"`
	OriginationFeesTotal    float64 `json:"origination_fees_total"`
	APRApprox               float64 `json:"apr_approx"` // percent
	DTI                     float64 `json:"dti"`
}

// AmortizationPoint is one month of a loan schedule
type AmortizationPoint struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// LoanComparisonResult is the output of the loan comparison endpoint
type LoanComparisonResult struct {
	Loans               []LoanMetrics       `json:"loans"`
	BestByTotalCost     *string             `json:"best_by_total_cost"`
	BestByLowestPayment *string             `json:"best_by_lowest_payment"`
	BestByFastestPayoff *string             `json:"best_by_fastest_payoff"`
	AnalysisSummary     string              `json:"analysis_summary"`
	Recommendations     []string            `json:"recommendations"`
	SelectedSchedule    []AmortizationPoint `json:"selected_schedule"`
}

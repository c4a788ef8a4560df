package models

// LineItem is a named monthly amount
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CashflowRequest holds monthly cash movements in a single currency.
// Taxes are approximated as an outflow on positive operating profit.
type CashflowRequest struct {
	StartingCash  float64    `json:"starting_cash"`
	Revenue       []LineItem `json:"revenue"`
	OtherInflows  []LineItem `json:"other_inflows"`
	COGS          []LineItem `json:"cogs"`
	OpexFixed     []LineItem `json:"opex_fixed"`
	OpexVariable  []LineItem `json:"opex_variable"`
	Payroll       []LineItem `json:"payroll"`
	LoanInterest  []LineItem `json:"loan_interest"`
	LoanPrincipal []LineItem `json:"loan_principal"`
	Capex         []LineItem `json:"capex"`
	OtherOutflows []LineItem `json:"other_outflows"`
	TaxRate       float64    `json:"tax_rate"`
	RoundTo       int        `json:"round_to"`
}

// CashflowTotals holds the computed monthly aggregates
type CashflowTotals struct {
	TotalInflows      float64  `json:"total_inflows"`
	TotalOutflows     float64  `json:"total_outflows"`
	TaxesCash         float64  `json:"taxes_cash"`
	OperatingCashFlow float64  `json:"operating_cash_flow"`
	FreeCashFlow      float64  `json:"free_cash_flow"`
	NetCashFlow       float64  `json:"net_cash_flow"`
	EndingCash        float64  `json:"ending_cash"`
	BurnRate          float64  `json:"burn_rate"`
	RunwayMonths      *float64 `json:"runway_months"`
}

// CashflowBreakdown lists the bucket totals
type CashflowBreakdown struct {
	Inflows  []LineItem `json:"inflows"`
	Outflows []LineItem `json:"outflows"`
}

// CashflowAnalysis is the guidance attached to a cash-flow result
type CashflowAnalysis struct {
	Summary         string   `json:"summary"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

// CashflowResponse is the output of the cash-flow endpoint
type CashflowResponse struct {
	Totals    CashflowTotals    `json:"totals"`
	Breakdown CashflowBreakdown `json:"breakdown"`
	Analysis  CashflowAnalysis  `json:"analysis"`
}

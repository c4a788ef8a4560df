package models

// BudgetItem is one income or expense line
type BudgetItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"` // income or expense
	IsEssential bool    `json:"is_essential,omitempty"`
}

// BudgetRequest is the input of the budget endpoint
type BudgetRequest struct {
	Items []BudgetItem `json:"items"`
}

// BudgetSummary aggregates the items
type BudgetSummary struct {
	TotalIncome        float64            `json:"total_income"`
	TotalExpenses      float64            `json:"total_expenses"`
	Balance            float64            `json:"balance"`
	SavingsRate        float64            `json:"savings_rate"` // percent
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
	IncomeByCategory   map[string]float64 `json:"income_by_category"`
	EssentialExpenses  float64            `json:"essential_expenses"`
	OptionalExpenses   float64            `json:"optional_expenses"`
}

// BudgetAnalysis is the guidance attached to a budget
type BudgetAnalysis struct {
	Status              string   `json:"status"` // surplus, deficit or balanced
	Recommendations     []string `json:"recommendations"`
	Insights            []string `json:"insights"`
	SavingsGoal         float64  `json:"savings_goal"`
	EmergencyFundMonths int      `json:"emergency_fund_months"`
}

// BudgetProjection is one month of the running balance projection
type BudgetProjection struct {
	Month             int     `json:"month"`
	Balance           float64 `json:"balance"`
	CumulativeBalance float64 `json:"cumulative_balance"`
}

// BudgetResult is the output of the budget endpoint
type BudgetResult struct {
	Summary           BudgetSummary      `json:"summary"`
	Analysis          BudgetAnalysis     `json:"analysis"`
	MonthlyProjection []BudgetProjection `json:"monthly_projection"`
}

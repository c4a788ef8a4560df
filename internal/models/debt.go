package models

// Debt is one liability supplied by the caller
type Debt struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interest_rate"` // annual, percent
	MinimumPayment float64 `json:"minimum_payment"`
	Type           string  `json:"type"`
	Priority       *int    `json:"priority,omitempty"`
}

// DebtCalculationRequest is the input of the debt analysis and payoff plan endpoints
type DebtCalculationRequest struct {
	Debts            []Debt         `json:"debts"`
	MonthlyIncome    float64        `json:"monthly_income"`
	ExtraPayment     float64        `json:"extra_payment"`
	Strategy         string         `json:"strategy"`
	CustomPriorities map[string]int `json:"custom_priorities,omitempty"`
}

// DebtAnalysis summarizes a debt set and recommends a strategy
type DebtAnalysis struct {
	TotalDebt            float64 `json:"total_debt"`
	TotalMinimumPayments float64 `json:"total_minimum_payments"`
	AverageInterestRate  float64 `json:"average_interest_rate"`
	HighestInterestRate  float64 `json:"highest_interest_rate"`
	LowestBalance        float64 `json:"lowest_balance"`
	HighestBalance       float64 `json:"highest_balance"`
	DebtToIncomeRatio    float64 `json:"debt_to_income_ratio"`
	RecommendedStrategy  string  `json:"recommended_strategy"`
	Reasoning            string  `json:"reasoning"`
}

// DebtPayment is one (debt, month) entry of the payment ledger
type DebtPayment struct {
	Month            int     `json:"month"`
	DebtID           string  `json:"debt_id"`
	DebtName         string  `json:"debt_name"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
	IsPaidOff        bool    `json:"is_paid_off"`
}

// DebtPaymentPlan is the result of a payoff simulation.
// Converged is false when the month cap stopped the simulation before every
// balance reached zero.
type DebtPaymentPlan struct {
	Strategy        string        `json:"strategy"`
	TotalDebt       float64       `json:"total_debt"`
	TotalInterest   float64       `json:"total_interest"`
	TotalPayments   float64       `json:"total_payments"`
	MonthsToFreedom int           `json:"months_to_freedom"`
	MonthlyPayment  float64       `json:"monthly_payment"`
	ExtraPayment    float64       `json:"extra_payment"`
	Savings         float64       `json:"savings"`
	Converged       bool          `json:"converged"`
	Payments        []DebtPayment `json:"payments"`
	Explanation     string        `json:"explanation"`
	Tips            []string      `json:"tips"`
}

// DebtEmailRequest asks for a payoff plan to be mailed to Email
type DebtEmailRequest struct {
	DebtCalculationRequest
	Email string `json:"email"`
}

// StrategyInfo describes a payoff strategy for the catalogue endpoint
type StrategyInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	BestFor     string   `json:"best_for"`
}

// DebtTypeInfo describes a debt category for the catalogue endpoint
type DebtTypeInfo struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

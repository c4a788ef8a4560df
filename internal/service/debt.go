package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	maxDebtsPerRequest = 50
	maxDebtRate        = 100.0
)

func validateDebts(debts []models.Debt) error {
	if len(debts) == 0 {
		return invalidf("at least one debt is required")
	}
	if len(debts) > maxDebtsPerRequest {
		return invalidf("at most %d debts are allowed, got %d", maxDebtsPerRequest, len(debts))
	}

	seen := make(map[string]bool, len(debts))
	for _, d := range debts {
		if strings.TrimSpace(d.ID) == "" {
			return invalidf("debt id must not be empty")
		}
		if seen[d.ID] {
			return invalidf("duplicate debt id %q", d.ID)
		}
		seen[d.ID] = true

		if d.Balance < 0 {
			return invalidf("debt %q: balance must not be negative", d.ID)
		}
		if d.InterestRate < 0 || d.InterestRate > maxDebtRate {
			return invalidf("debt %q: interest rate must be between 0 and %.0f", d.ID, maxDebtRate)
		}
		if d.MinimumPayment < 0 {
			return invalidf("debt %q: minimum payment must not be negative", d.ID)
		}
	}
	return nil
}

// AnalyzeDebts summarizes a debt set and recommends a payoff strategy.
// Income only feeds the debt-to-income ratio.
func (s *Service) AnalyzeDebts(debts []models.Debt, monthlyIncome float64) (models.DebtAnalysis, error) {
	if err := validateDebts(debts); err != nil {
		return models.DebtAnalysis{}, err
	}
	if monthlyIncome < 0 {
		return models.DebtAnalysis{}, invalidf("monthly income must not be negative")
	}

	analysis := models.DebtAnalysis{
		HighestInterestRate: debts[0].InterestRate,
		LowestBalance:       debts[0].Balance,
		HighestBalance:      debts[0].Balance,
	}
	rateSum := 0.0
	for _, d := range debts {
		analysis.TotalDebt += d.Balance
		analysis.TotalMinimumPayments += d.MinimumPayment
		rateSum += d.InterestRate
		analysis.HighestInterestRate = math.Max(analysis.HighestInterestRate, d.InterestRate)
		analysis.LowestBalance = math.Min(analysis.LowestBalance, d.Balance)
		analysis.HighestBalance = math.Max(analysis.HighestBalance, d.Balance)
	}
	averageRate := rateSum / float64(len(debts))

	switch {
	case len(debts) == 1:
		analysis.RecommendedStrategy = StrategyCustom
		analysis.Reasoning = "You only have one debt. Focus on paying it off as fast as you can."
	case analysis.HighestInterestRate-averageRate > 5:
		analysis.RecommendedStrategy = StrategyAvalanche
		analysis.Reasoning = "One of your debts carries a much higher interest rate. The avalanche method will save you the most money."
	case analysis.LowestBalance < analysis.TotalDebt*0.2:
		analysis.RecommendedStrategy = StrategySnowball
		analysis.Reasoning = "You have small debts you can clear quickly. The snowball method will keep you motivated."
	default:
		analysis.RecommendedStrategy = StrategyAvalanche
		analysis.Reasoning = "The avalanche method will save you more money in the long run."
	}

	if monthlyIncome > 0 {
		analysis.DebtToIncomeRatio = round2(analysis.TotalDebt / monthlyIncome)
	}
	analysis.AverageInterestRate = round2(averageRate)
	return analysis, nil
}

// CalculateDebtPlan validates the request and simulates its payoff plan
func (s *Service) CalculateDebtPlan(req models.DebtCalculationRequest) (models.DebtPaymentPlan, error) {
	if err := validateDebts(req.Debts); err != nil {
		return models.DebtPaymentPlan{}, err
	}
	if req.MonthlyIncome <= 0 {
		return models.DebtPaymentPlan{}, invalidf("monthly income must be greater than 0")
	}
	if req.ExtraPayment < 0 {
		return models.DebtPaymentPlan{}, invalidf("extra payment must not be negative")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyAvalanche
	}
	policy, err := PolicyFor(strategy)
	if err != nil {
		return models.DebtPaymentPlan{}, err
	}
	if policy == RankByCustom && len(req.CustomPriorities) == 0 {
		return models.DebtPaymentPlan{}, invalidf("custom priorities are required for the custom strategy")
	}

	sim := SimulatePlan(req.Debts, req.ExtraPayment, policy, req.CustomPriorities)

	var totalDebt, totalMinimum, totalPayments float64
	for _, d := range req.Debts {
		totalDebt += d.Balance
		totalMinimum += d.MinimumPayment
	}
	for _, p := range sim.Payments {
		totalPayments += p.Payment
	}
	savings := estimateSavings(req.Debts, totalPayments)

	plan := models.DebtPaymentPlan{
		Strategy:        strategy,
		TotalDebt:       totalDebt,
		TotalInterest:   round2(sim.TotalInterest),
		TotalPayments:   round2(totalPayments),
		MonthsToFreedom: sim.Months,
		MonthlyPayment:  round2(totalMinimum + req.ExtraPayment),
		ExtraPayment:    req.ExtraPayment,
		Savings:         round2(savings),
		Converged:       sim.Converged,
		Payments:        sim.Payments,
		Explanation:     planExplanation(strategy, req.Debts, sim, savings),
		Tips:            planTips(strategy),
	}

	debtPlanMonths.WithLabelValues(strategy).Observe(float64(sim.Months))
	fields := logrus.Fields{
		"strategy": strategy,
		"debts":    len(req.Debts),
		"months":   sim.Months,
	}
	if !sim.Converged {
		debtPlanCapped.WithLabelValues(strategy).Inc()
		s.log.WithFields(fields).Warnf("Payoff plan stopped at the %d-month cap", MaxPayoffMonths)
	} else {
		s.log.WithFields(fields).Debug("Payoff plan calculated")
	}
	return plan, nil
}

func planExplanation(strategy string, debts []models.Debt, sim SimulationResult, savings float64) string {
	var text string
	switch strategy {
	case StrategyAvalanche:
		highest := debts[0]
		for _, d := range debts[1:] {
			if d.InterestRate > highest.InterestRate {
				highest = d
			}
		}
		text = fmt.Sprintf("The avalanche method focuses on paying off the debt with the highest interest rate first (%s at %g%%). "+
			"This saves you $%s in interest and makes you debt-free in %d months. It is the most cost-efficient strategy.",
			highest.Name, highest.InterestRate, formatMoney(savings, 2), sim.Months)
	case StrategySnowball:
		smallest := debts[0]
		for _, d := range debts[1:] {
			if d.Balance < smallest.Balance {
				smallest = d
			}
		}
		text = fmt.Sprintf("The snowball method focuses on paying off the smallest debt first (%s with $%s). "+
			"Quick wins keep you motivated and free up money for the next debts. You will be debt-free in %d months.",
			smallest.Name, formatMoney(smallest.Balance, 2), sim.Months)
	default:
		text = fmt.Sprintf("Your custom strategy lets you prioritize debts by what matters to you, such as creditor relationships, "+
			"due dates or personal goals. You will be debt-free in %d months.", sim.Months)
	}

	if !sim.Converged {
		text += fmt.Sprintf(" Warning: the minimum payments do not cover the interest on every debt, so the plan stops after %d months "+
			"with balances still outstanding. Increase your payments to reach zero.", MaxPayoffMonths)
	}
	return text
}

func planTips(strategy string) []string {
	switch strategy {
	case StrategyAvalanche:
		return []string{
			"Stay focused on the highest-interest debt and do not get distracted by the others",
			"If you can increase the extra payment, do it to speed things up",
			"Consider moving high-interest balances to a 0% APR card if possible",
			"Review your budget monthly to find extra money",
			"Celebrate every debt you pay off completely",
		}
	case StrategySnowball:
		return []string{
			"Pay the smallest debt first, regardless of its interest rate",
			"Once a debt is paid off, roll its payment into the next one",
			"Keep a visual record of your progress to stay motivated",
			"Share your progress with family or friends to stay accountable",
			"Do not take on new debt while paying off the existing ones",
		}
	default:
		return []string{
			"Review and adjust your priorities as your circumstances change",
			"Consider factors such as due dates and relationships with creditors",
			"Stay consistent with the strategy you chose",
			"Write down why you chose each priority to stay focused",
			"Check your progress monthly and adjust if needed",
		}
	}
}

// DebtStrategies returns the catalogue of payoff strategies
func (s *Service) DebtStrategies() map[string]models.StrategyInfo {
	return map[string]models.StrategyInfo{
		StrategyAvalanche: {
			Name:        "Avalanche method",
			Description: "Pay the debt with the highest interest rate first",
			Pros:        []string{"Saves the most money on interest", "Mathematically efficient"},
			Cons:        []string{"Progress can take longer to show", "Requires discipline"},
			BestFor:     "People who want to save money and are disciplined",
		},
		StrategySnowball: {
			Name:        "Snowball method",
			Description: "Pay the smallest debt first",
			Pros:        []string{"Quick motivation", "Frees up money fast"},
			Cons:        []string{"Can cost more in interest", "Not mathematically optimal"},
			BestFor:     "People who need motivation and visible progress",
		},
		StrategyCustom: {
			Name:        "Custom strategy",
			Description: "Prioritize debts according to your specific needs",
			Pros:        []string{"Full flexibility", "Adapts to your situation"},
			Cons:        []string{"Requires more planning", "May not be optimal"},
			BestFor:     "People with special circumstances or specific preferences",
		},
	}
}

// DebtTypes returns the catalogue of debt categories
func (s *Service) DebtTypes() map[string]models.DebtTypeInfo {
	return map[string]models.DebtTypeInfo{
		"credit_card":   {Name: "Credit card", Icon: "💳", Color: "red", Description: "Credit card debt"},
		"personal_loan": {Name: "Personal loan", Icon: "🏦", Color: "blue", Description: "Personal loans from banks"},
		"mortgage":      {Name: "Mortgage", Icon: "🏠", Color: "green", Description: "Home loans"},
		"car_loan":      {Name: "Car loan", Icon: "🚗", Color: "purple", Description: "Vehicle loans"},
		"student_loan":  {Name: "Student loan", Icon: "🎓", Color: "indigo", Description: "Education loans"},
		"other":         {Name: "Other debt", Icon: "📋", Color: "gray", Description: "Any other kind of debt"},
	}
}

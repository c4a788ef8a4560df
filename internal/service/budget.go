package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

// Budget item types and statuses
const (
	ItemIncome  = "income"
	ItemExpense = "expense"

	BudgetSurplus  = "surplus"
	BudgetDeficit  = "deficit"
	BudgetBalanced = "balanced"

	CategoryHousing = "Housing"

	budgetProjectionMonths = 6
	maxBudgetItems         = 200
)

// EssentialCategories are counted as essential regardless of the item flag
var EssentialCategories = []string{
	CategoryHousing,
	"Utilities",
	"Food",
	"Transportation",
	"Health/Insurance",
	"Debt/Loans",
}

// CalculateBudget summarizes monthly income and expenses and projects the
// balance over six months.
func (s *Service) CalculateBudget(req models.BudgetRequest) (models.BudgetResult, error) {
	if len(req.Items) > maxBudgetItems {
		return models.BudgetResult{}, invalidf("at most %d items are allowed", maxBudgetItems)
	}

	sum := models.BudgetSummary{
		ExpensesByCategory: map[string]float64{},
		IncomeByCategory:   map[string]float64{},
	}
	for _, it := range req.Items {
		if it.Amount < 0 {
			return models.BudgetResult{}, invalidf("item %q: amount must not be negative", it.Name)
		}
		switch it.Type {
		case ItemIncome:
			sum.TotalIncome += it.Amount
			sum.IncomeByCategory[it.Category] += it.Amount
		case ItemExpense:
			sum.TotalExpenses += it.Amount
			sum.ExpensesByCategory[it.Category] += it.Amount
			if it.IsEssential || slices.Contains(EssentialCategories, it.Category) {
				sum.EssentialExpenses += it.Amount
			}
		default:
			return models.BudgetResult{}, invalidf("item %q: type must be %q or %q", it.Name, ItemIncome, ItemExpense)
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpenses
	sum.OptionalExpenses = sum.TotalExpenses - sum.EssentialExpenses
	if sum.TotalIncome > 0 {
		sum.SavingsRate = sum.Balance / sum.TotalIncome * 100
	}

	analysis := analyzeBudget(sum)

	projection := make([]models.BudgetProjection, budgetProjectionMonths)
	cumulative := 0.0
	for i := range projection {
		cumulative += sum.Balance
		projection[i] = models.BudgetProjection{
			Month:             i + 1,
			Balance:           round2(sum.Balance),
			CumulativeBalance: round2(cumulative),
		}
	}

	sum.TotalIncome = round2(sum.TotalIncome)
	sum.TotalExpenses = round2(sum.TotalExpenses)
	sum.Balance = round2(sum.Balance)
	sum.SavingsRate = round2(sum.SavingsRate)
	sum.EssentialExpenses = round2(sum.EssentialExpenses)
	sum.OptionalExpenses = round2(sum.OptionalExpenses)

	s.log.WithFields(logrus.Fields{
		"items":  len(req.Items),
		"status": analysis.Status,
	}).Debug("Budget calculated")
	return models.BudgetResult{Summary: sum, Analysis: analysis, MonthlyProjection: projection}, nil
}

func analyzeBudget(sum models.BudgetSummary) models.BudgetAnalysis {
	a := models.BudgetAnalysis{
		Status:          BudgetBalanced,
		Recommendations: []string{},
		Insights:        []string{},
	}
	switch {
	case sum.Balance > 0:
		a.Status = BudgetSurplus
	case sum.Balance < 0:
		a.Status = BudgetDeficit
	}

	switch a.Status {
	case BudgetDeficit:
		deficit := math.Abs(sum.Balance)
		a.Recommendations = append(a.Recommendations,
			"You have a monthly deficit. Cut expenses or increase income urgently.",
			"Review optional expenses and drop the non-essential ones.")
		if sum.OptionalExpenses > deficit {
			a.Recommendations = append(a.Recommendations,
				fmt.Sprintf("Cutting %s from optional expenses would balance your budget.", formatMoney(deficit, 2)))
		}
	case BudgetSurplus:
		switch {
		case sum.SavingsRate >= 20:
			a.Insights = append(a.Insights, "Excellent! Your savings rate is above 20%.")
		case sum.SavingsRate >= 10:
			a.Insights = append(a.Insights, "Good savings rate. Consider raising it gradually.")
			a.Recommendations = append(a.Recommendations, "Aim for a 20% savings rate for stronger financial security.")
		default:
			a.Recommendations = append(a.Recommendations, "Your savings rate is low. Try to save at least 10% of your income.")
		}
	}

	if sum.TotalIncome > 0 {
		if housing := sum.ExpensesByCategory[CategoryHousing] / sum.TotalIncome * 100; housing > 30 {
			a.Recommendations = append(a.Recommendations,
				fmt.Sprintf("Your housing costs (%.1f%%) exceed the recommended 30%% of income.", housing))
		}
		if sum.EssentialExpenses/sum.TotalIncome*100 > 70 {
			a.Recommendations = append(a.Recommendations,
				"Essential expenses take more than 70% of your income. Look for ways to optimize them.")
		}
	}

	categories := make([]string, 0, len(sum.ExpensesByCategory))
	for c := range sum.ExpensesByCategory {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(x, y string) int {
		if c := cmp.Compare(sum.ExpensesByCategory[y], sum.ExpensesByCategory[x]); c != 0 {
			return c
		}
		return strings.Compare(x, y)
	})
	if len(categories) > 0 {
		top := make([]string, 0, 3)
		for _, c := range categories[:min(3, len(categories))] {
			top = append(top, fmt.Sprintf("%s ($%s)", c, formatMoney(sum.ExpensesByCategory[c], 2)))
		}
		a.Insights = append(a.Insights, fmt.Sprintf("Your largest expenses are: %s.", strings.Join(top, ", ")))
	}

	if a.Status != BudgetDeficit {
		a.Recommendations = append(a.Recommendations,
			"Build an emergency fund covering 3 to 6 months of expenses.",
			"Consider investing your savings to generate passive income.")
	}

	if sum.Balance > 0 {
		base := sum.EssentialExpenses
		if base == 0 {
			base = sum.TotalIncome * 0.7
		}
		a.EmergencyFundMonths = int(math.Floor(sum.Balance / base))
	}
	a.SavingsGoal = round2(sum.TotalIncome * 0.2)
	return a
}

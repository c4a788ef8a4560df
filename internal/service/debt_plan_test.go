package service

import (
	"io"
	"testing"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(log, nil)
}

func threeDebts() []models.Debt {
	return []models.Debt{
		{ID: "A", Name: "A", Balance: 1000, InterestRate: 20, MinimumPayment: 50},
		{ID: "B", Name: "B", Balance: 500, InterestRate: 10, MinimumPayment: 30},
		{ID: "C", Name: "C", Balance: 2000, InterestRate: 15, MinimumPayment: 80},
	}
}

func paymentsFor(payments []models.DebtPayment, id string) []models.DebtPayment {
	var out []models.DebtPayment
	for _, p := range payments {
		if p.DebtID == id {
			out = append(out, p)
		}
	}
	return out
}

func monthPayments(payments []models.DebtPayment, month int) map[string]models.DebtPayment {
	out := map[string]models.DebtPayment{}
	for _, p := range payments {
		if p.Month == month {
			out[p.DebtID] = p
		}
	}
	return out
}

func TestSimulatePlan_AvalancheFirstMonth(t *testing.T) {
	res := SimulatePlan(threeDebts(), 100, RankByRateDesc, nil)
	require.True(t, res.Converged)

	m1 := monthPayments(res.Payments, 1)
	assert.Equal(t, 150.0, m1["A"].Payment)
	assert.Equal(t, 30.0, m1["B"].Payment)
	assert.Equal(t, 80.0, m1["C"].Payment)

	// A keeps the extra until it is paid off
	for _, p := range paymentsFor(res.Payments, "A") {
		if !p.IsPaidOff {
			assert.Equal(t, 150.0, p.Payment, "month %d", p.Month)
		}
	}
}

func TestSimulatePlan_AvalancheDoesNotRedirectExtra(t *testing.T) {
	debts := []models.Debt{
		{ID: "X", Balance: 50, InterestRate: 1, MinimumPayment: 50},
		{ID: "Y", Balance: 200, InterestRate: 0, MinimumPayment: 50},
	}
	res := SimulatePlan(debts, 50, RankByRateDesc, nil)

	require.True(t, res.Converged)
	assert.Len(t, paymentsFor(res.Payments, "X"), 1)
	for _, p := range paymentsFor(res.Payments, "Y") {
		assert.Equal(t, 50.0, p.Payment, "month %d", p.Month)
	}
	assert.Equal(t, 4, res.Months)
}

func TestSimulatePlan_SingleDebtOneMonth(t *testing.T) {
	debts := []models.Debt{{ID: "only", Balance: 100, InterestRate: 0, MinimumPayment: 100}}
	res := SimulatePlan(debts, 0, RankByRateDesc, nil)

	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Months)
	assert.Zero(t, res.TotalInterest)
	require.Len(t, res.Payments, 1)
	assert.True(t, res.Payments[0].IsPaidOff)
	assert.Equal(t, 100.0, res.Payments[0].Principal)
	assert.Zero(t, res.Payments[0].RemainingBalance)
}

func TestSimulatePlan_SubCentResidualPaysOff(t *testing.T) {
	debts := []models.Debt{{ID: "card", Balance: 141.3, InterestRate: 13.35, MinimumPayment: 142.87}}
	res := SimulatePlan(debts, 0, RankByRateDesc, nil)

	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Months)
	require.Len(t, res.Payments, 1)
	p := res.Payments[0]
	assert.True(t, p.IsPaidOff)
	assert.Zero(t, p.RemainingBalance)
	assert.Equal(t, 142.87, p.Payment)
	assert.Equal(t, 141.3, p.Principal)
	assert.Equal(t, 1.57, p.Interest)
}

func TestSimulatePlan_ZeroBalanceRecordIsPaidOff(t *testing.T) {
	debts := []models.Debt{
		{ID: "a", Balance: 141.3, InterestRate: 13.35, MinimumPayment: 142.87},
		{ID: "b", Balance: 500, InterestRate: 19.99, MinimumPayment: 25},
		{ID: "c", Balance: 1234.56, InterestRate: 7.5, MinimumPayment: 60},
	}
	for _, policy := range []RankingPolicy{RankByRateDesc, RankByBalanceAsc, RankByCustom} {
		res := SimulatePlan(debts, 37.5, policy, map[string]int{"c": 1, "b": 2, "a": 3})
		require.True(t, res.Converged)

		last := map[string]int{}
		for _, p := range res.Payments {
			assert.Equal(t, p.RemainingBalance == 0, p.IsPaidOff, "policy %d debt %s month %d", policy, p.DebtID, p.Month)
			assert.Positive(t, p.Payment, "policy %d debt %s month %d", policy, p.DebtID, p.Month)
			last[p.DebtID] = p.Month
		}
		assert.Equal(t, res.Months, max(last["a"], last["b"], last["c"]))
	}
}

func TestSimulatePlan_NonConvergentHitsCap(t *testing.T) {
	debts := []models.Debt{{ID: "trap", Balance: 10000, InterestRate: 24, MinimumPayment: 100}}
	res := SimulatePlan(debts, 0, RankByRateDesc, nil)

	assert.False(t, res.Converged)
	assert.Equal(t, MaxPayoffMonths, res.Months)
	require.Len(t, res.Payments, MaxPayoffMonths)

	last := res.Payments[len(res.Payments)-1]
	assert.False(t, last.IsPaidOff)
	assert.Equal(t, 10000.0, last.RemainingBalance)
	assert.Equal(t, 100.0, last.Interest)
	assert.Zero(t, last.Principal)
}

func TestSimulatePlan_SnowballCascade(t *testing.T) {
	debts := []models.Debt{
		{ID: "big", Balance: 1000, MinimumPayment: 50},
		{ID: "small", Balance: 100, MinimumPayment: 50},
	}
	res := SimulatePlan(debts, 50, RankByBalanceAsc, nil)
	require.True(t, res.Converged)

	small := paymentsFor(res.Payments, "small")
	require.Len(t, small, 1)
	assert.Equal(t, 100.0, small[0].Payment)

	big := paymentsFor(res.Payments, "big")
	assert.Equal(t, 50.0, big[0].Payment, "freed minimum only joins from the next month")
	assert.Equal(t, 150.0, big[1].Payment)
	assert.Equal(t, 8, res.Months)
}

func TestSimulatePlan_SnowballPoolNeverDecreases(t *testing.T) {
	debts := []models.Debt{
		{ID: "a", Balance: 300, InterestRate: 5, MinimumPayment: 40},
		{ID: "b", Balance: 800, InterestRate: 12, MinimumPayment: 60},
		{ID: "c", Balance: 1500, InterestRate: 18, MinimumPayment: 70},
	}
	res := SimulatePlan(debts, 100, RankByBalanceAsc, nil)
	require.True(t, res.Converged)

	c := paymentsFor(res.Payments, "c")
	for i := 1; i < len(c); i++ {
		if c[i].IsPaidOff {
			break
		}
		assert.GreaterOrEqual(t, c[i].Payment, c[i-1].Payment, "month %d", c[i].Month)
	}
}

func TestSimulatePlan_CustomPriorities(t *testing.T) {
	res := SimulatePlan(threeDebts(), 100, RankByCustom, map[string]int{"B": 1, "C": 2, "A": 3})
	m1 := monthPayments(res.Payments, 1)
	assert.Equal(t, 130.0, m1["B"].Payment)
	assert.Equal(t, 50.0, m1["A"].Payment)
}

func TestSimulatePlan_CustomFallsBackToDebtPriority(t *testing.T) {
	one, two := 1, 2
	debts := threeDebts()
	debts[0].Priority = &two
	debts[2].Priority = &one
	// B has no priority of its own and ranks 0, ahead of both
	res := SimulatePlan(debts, 100, RankByCustom, map[string]int{"A": 5})
	m1 := monthPayments(res.Payments, 1)
	assert.Equal(t, 130.0, m1["B"].Payment)
}

func TestSimulatePlan_TiesKeepInputOrder(t *testing.T) {
	debts := []models.Debt{
		{ID: "first", Balance: 500, InterestRate: 10, MinimumPayment: 20},
		{ID: "second", Balance: 500, InterestRate: 10, MinimumPayment: 20},
	}
	res := SimulatePlan(debts, 30, RankByRateDesc, nil)
	m1 := monthPayments(res.Payments, 1)
	assert.Equal(t, 50.0, m1["first"].Payment)
	assert.Equal(t, 20.0, m1["second"].Payment)
}

func TestSimulatePlan_SkipsZeroBalanceDebts(t *testing.T) {
	debts := []models.Debt{
		{ID: "done", Balance: 0, InterestRate: 30, MinimumPayment: 25},
		{ID: "open", Balance: 100, InterestRate: 0, MinimumPayment: 25},
	}
	res := SimulatePlan(debts, 25, RankByRateDesc, nil)
	assert.Empty(t, paymentsFor(res.Payments, "done"))
	assert.Equal(t, 2, res.Months)
}

func TestSimulatePlan_LedgerInvariants(t *testing.T) {
	for _, policy := range []RankingPolicy{RankByRateDesc, RankByBalanceAsc, RankByCustom} {
		res := SimulatePlan(threeDebts(), 100, policy, map[string]int{"C": 1, "A": 2, "B": 3})
		require.True(t, res.Converged)

		var total, totalDebt float64
		for _, d := range threeDebts() {
			totalDebt += d.Balance
			ledger := paymentsFor(res.Payments, d.ID)
			require.NotEmpty(t, ledger)

			prev := d.Balance
			for i, p := range ledger {
				assert.LessOrEqual(t, p.RemainingBalance, prev+0.005, "%v %s month %d", policy, d.ID, p.Month)
				assert.InDelta(t, p.Payment, p.Principal+p.Interest, 0.011)
				assert.Equal(t, i == len(ledger)-1, p.IsPaidOff, "paid off only on the last record")
				prev = p.RemainingBalance
			}
			assert.Zero(t, ledger[len(ledger)-1].RemainingBalance)
		}
		for _, p := range res.Payments {
			total += p.Payment
		}
		assert.GreaterOrEqual(t, total, totalDebt)
	}
}

func TestSimulatePlan_DoesNotMutateInput(t *testing.T) {
	debts := threeDebts()
	SimulatePlan(debts, 100, RankByBalanceAsc, nil)
	assert.Equal(t, threeDebts(), debts)
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("snowball")
	require.NoError(t, err)
	assert.Equal(t, RankByBalanceAsc, p)

	_, err = PolicyFor("lottery")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimateSavings(t *testing.T) {
	debts := []models.Debt{{Balance: 1200, InterestRate: 12, MinimumPayment: 100}}
	// 12 months at 12% -> 144 of interest
	assert.InDelta(t, 144.0, estimateSavings(debts, 1200), 1e-9)
	assert.Zero(t, estimateSavings(debts, 5000))

	noMinimum := []models.Debt{{Balance: 1000, InterestRate: 10}}
	assert.InDelta(t, 0.0, estimateSavings(noMinimum, 1000), 1e-9)
}

func TestCalculateDebtPlan(t *testing.T) {
	svc := newTestService()
	plan, err := svc.CalculateDebtPlan(models.DebtCalculationRequest{
		Debts:         threeDebts(),
		MonthlyIncome: 5000,
		ExtraPayment:  100,
	})
	require.NoError(t, err)

	assert.Equal(t, StrategyAvalanche, plan.Strategy, "empty strategy defaults to avalanche")
	assert.Equal(t, 3500.0, plan.TotalDebt)
	assert.Equal(t, 260.0, plan.MonthlyPayment)
	assert.True(t, plan.Converged)
	assert.Contains(t, plan.Explanation, "A at 20%")
	assert.Len(t, plan.Tips, 5)
	assert.GreaterOrEqual(t, plan.TotalPayments, plan.TotalDebt)
}

func TestCalculateDebtPlan_NonConvergentExplanation(t *testing.T) {
	plan, err := newTestService().CalculateDebtPlan(models.DebtCalculationRequest{
		Debts:         []models.Debt{{ID: "x", Name: "Trap", Balance: 10000, InterestRate: 24, MinimumPayment: 100}},
		MonthlyIncome: 1000,
		Strategy:      StrategySnowball,
	})
	require.NoError(t, err)
	assert.False(t, plan.Converged)
	assert.Equal(t, MaxPayoffMonths, plan.MonthsToFreedom)
	assert.Contains(t, plan.Explanation, "Warning")
}

func TestCalculateDebtPlan_Validation(t *testing.T) {
	valid := func() models.DebtCalculationRequest {
		return models.DebtCalculationRequest{Debts: threeDebts(), MonthlyIncome: 1000}
	}
	tests := []struct {
		name   string
		mutate func(*models.DebtCalculationRequest)
	}{
		{"no debts", func(r *models.DebtCalculationRequest) { r.Debts = nil }},
		{"zero income", func(r *models.DebtCalculationRequest) { r.MonthlyIncome = 0 }},
		{"negative extra", func(r *models.DebtCalculationRequest) { r.ExtraPayment = -1 }},
		{"unknown strategy", func(r *models.DebtCalculationRequest) { r.Strategy = "lottery" }},
		{"custom without map", func(r *models.DebtCalculationRequest) { r.Strategy = StrategyCustom }},
		{"duplicate id", func(r *models.DebtCalculationRequest) { r.Debts[1].ID = "A" }},
		{"empty id", func(r *models.DebtCalculationRequest) { r.Debts[0].ID = " " }},
		{"negative balance", func(r *models.DebtCalculationRequest) { r.Debts[0].Balance = -5 }},
		{"rate over 100", func(r *models.DebtCalculationRequest) { r.Debts[0].InterestRate = 101 }},
		{"negative minimum", func(r *models.DebtCalculationRequest) { r.Debts[0].MinimumPayment = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			_, err := newTestService().CalculateDebtPlan(req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAnalyzeDebts(t *testing.T) {
	svc := newTestService()
	tests := []struct {
		name  string
		debts []models.Debt
		want  string
	}{
		{"single debt", threeDebts()[:1], StrategyCustom},
		{"rate outlier", []models.Debt{
			{ID: "a", Balance: 1000, InterestRate: 30},
			{ID: "b", Balance: 1000, InterestRate: 10},
			{ID: "c", Balance: 1000, InterestRate: 10},
		}, StrategyAvalanche},
		{"small balance", []models.Debt{
			{ID: "a", Balance: 100, InterestRate: 12},
			{ID: "b", Balance: 1000, InterestRate: 14},
		}, StrategySnowball},
		{"default", []models.Debt{
			{ID: "a", Balance: 900, InterestRate: 12},
			{ID: "b", Balance: 1000, InterestRate: 14},
		}, StrategyAvalanche},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.AnalyzeDebts(tt.debts, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.RecommendedStrategy)
			assert.NotEmpty(t, a.Reasoning)
		})
	}

	a, err := svc.AnalyzeDebts(threeDebts(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, a.TotalDebt)
	assert.Equal(t, 160.0, a.TotalMinimumPayments)
	assert.Equal(t, 15.0, a.AverageInterestRate)
	assert.Equal(t, 20.0, a.HighestInterestRate)
	assert.Equal(t, 500.0, a.LowestBalance)
	assert.Equal(t, 2000.0, a.HighestBalance)
	assert.Zero(t, a.DebtToIncomeRatio)
}

func TestCatalogues(t *testing.T) {
	svc := newTestService()
	assert.Len(t, svc.DebtStrategies(), 3)
	assert.Len(t, svc.DebtTypes(), 6)
}

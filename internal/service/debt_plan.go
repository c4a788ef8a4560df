package service

import (
	"math"
	"slices"
	"sort"

	"github.com/Dan9191/fincalc/internal/models"
)

const (
	// MaxPayoffMonths bounds a payoff simulation. Inputs whose minimum
	// payments never cover the accrued interest stop here.
	MaxPayoffMonths = 600

	// payoffTolerance is half a cent: a payment that leaves less than this
	// owing pays the debt off, so no zero-amount month follows.
	payoffTolerance = 0.005
)

// Strategy names accepted by the payoff planner
const (
	StrategyAvalanche = "avalanche"
	StrategySnowball  = "snowball"
	StrategyCustom    = "custom"
)

// RankingPolicy decides which debt receives the extra-payment pool
type RankingPolicy int

const (
	// RankByRateDesc targets the highest rate at simulation start and never re-targets.
	RankByRateDesc RankingPolicy = iota
	// RankByBalanceAsc targets the smallest balance and rolls freed minimums forward.
	RankByBalanceAsc
	// RankByCustom targets the lowest caller-supplied rank and rolls freed minimums forward.
	RankByCustom
)

// PolicyFor maps a strategy name to its ranking policy
func PolicyFor(strategy string) (RankingPolicy, error) {
	switch strategy {
	case StrategyAvalanche:
		return RankByRateDesc, nil
	case StrategySnowball:
		return RankByBalanceAsc, nil
	case StrategyCustom:
		return RankByCustom, nil
	}
	return 0, invalidf("unknown strategy %q", strategy)
}

func (p RankingPolicy) cascades() bool {
	return p != RankByRateDesc
}

// SimulationResult is the raw ledger produced by SimulatePlan
type SimulationResult struct {
	Payments      []models.DebtPayment
	TotalInterest float64
	Months        int
	Converged     bool
}

type workingDebt struct {
	id      string
	name    string
	balance float64
	rate    float64
	minimum float64
}

// rankDebts returns indexes into debts ordered by payoff priority. Ties keep
// input order.
func rankDebts(debts []models.Debt, policy RankingPolicy, priorities map[string]int) []int {
	order := make([]int, len(debts))
	for i := range order {
		order[i] = i
	}

	var less func(a, b models.Debt) bool
	switch policy {
	case RankByBalanceAsc:
		less = func(a, b models.Debt) bool { return a.Balance < b.Balance }
	case RankByCustom:
		less = func(a, b models.Debt) bool { return customRank(a, priorities) < customRank(b, priorities) }
	default:
		less = func(a, b models.Debt) bool { return a.InterestRate > b.InterestRate }
	}

	sort.SliceStable(order, func(i, j int) bool {
		return less(debts[order[i]], debts[order[j]])
	})
	return order
}

func customRank(d models.Debt, priorities map[string]int) int {
	if p, ok := priorities[d.ID]; ok {
		return p
	}
	if d.Priority != nil {
		return *d.Priority
	}
	return 0
}

// SimulatePlan runs the month-by-month payoff of debts. Every active debt
// receives its minimum payment; the top-ranked debt also receives the extra
// pool. Under cascading policies a paid-off top debt hands its minimum to
// the pool from the following month. The input slice is not modified.
func SimulatePlan(debts []models.Debt, extra float64, policy RankingPolicy, priorities map[string]int) SimulationResult {
	work := make([]workingDebt, len(debts))
	for i, d := range debts {
		work[i] = workingDebt{
			id:      d.ID,
			name:    d.Name,
			balance: d.Balance,
			rate:    d.InterestRate,
			minimum: d.MinimumPayment,
		}
	}

	paid := func(i int) bool { return work[i].balance <= 0 }
	ranked := slices.DeleteFunc(rankDebts(debts, policy, priorities), paid)

	target := -1
	if len(ranked) > 0 {
		target = ranked[0]
	}

	var res SimulationResult
	pool := extra
	month := 0
	for len(ranked) > 0 && month < MaxPayoffMonths {
		month++
		top := target
		if policy.cascades() {
			top = ranked[0]
		}

		for _, idx := range ranked {
			d := &work[idx]
			interest := d.balance * (d.rate / 100 / 12)
			payment := d.minimum
			if idx == top {
				payment += pool
			}

			owed := d.balance + interest
			principal := math.Max(0, payment-interest)
			newBalance := math.Max(0, d.balance-principal)
			if payment >= owed-payoffTolerance {
				payment = owed
				principal = d.balance
				newBalance = 0
			}

			res.Payments = append(res.Payments, models.DebtPayment{
				Month:            month,
				DebtID:           d.id,
				DebtName:         d.name,
				Payment:          round2(payment),
				Principal:        round2(principal),
				Interest:         round2(math.Min(interest, payment)),
				RemainingBalance: round2(newBalance),
				IsPaidOff:        newBalance <= 0,
			})

			d.balance = newBalance
			res.TotalInterest += interest
		}

		if policy.cascades() && paid(top) {
			pool += work[top].minimum
		}
		ranked = slices.DeleteFunc(ranked, paid)
	}

	res.Months = month
	res.Converged = len(ranked) == 0
	return res
}

// estimateSavings approximates what minimum-only payments would cost using the
// average rate over a straight-line payoff horizon, and returns how much less
// the simulated plan pays. It is a heuristic, not a second simulation.
func estimateSavings(debts []models.Debt, totalPayments float64) float64 {
	var totalDebt, totalMinimum, rateSum float64
	for _, d := range debts {
		totalDebt += d.Balance
		totalMinimum += d.MinimumPayment
		rateSum += d.InterestRate
	}
	averageRate := rateSum / float64(len(debts))

	months := 0.0
	if totalMinimum > 0 {
		months = totalDebt / totalMinimum
	}
	interestWithMinimums := totalDebt * (averageRate / 100) * (months / 12)

	return math.Max(0, totalDebt+interestWithMinimums-totalPayments)
}

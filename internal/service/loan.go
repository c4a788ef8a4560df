package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	maxLoanTermMonths = 600
	// loanScheduleSlack bounds an amortization beyond the nominal term
	loanScheduleSlack = 600
	loanPaidOffBelow  = 0.01
	dtiWarning        = 0.43
	maxLoansCompared  = 20
)

// MonthlyPayment is the annuity payment for a nominal annual rate
func MonthlyPayment(amount, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 || amount <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return amount / float64(termMonths)
	}
	f := math.Pow(1+r, float64(termMonths))
	return amount * r * f / (f - 1)
}

// Amortize runs a schedule paying payment+extra each month until the balance
// drops to a cent or the safety bound is reached.
func Amortize(amount, annualRate float64, termMonths int, payment, extra float64) []models.AmortizationPoint {
	var schedule []models.AmortizationPoint
	r := annualRate / 12
	balance := amount
	for month := 1; balance > 0 && month <= termMonths+loanScheduleSlack; month++ {
		interest := r * balance
		pay := payment + extra
		if pay > balance+interest {
			pay = balance + interest
		}
		principal := pay - interest
		balance = roundTo(balance-principal, 8)
		schedule = append(schedule, models.AmortizationPoint{
			Month:     month,
			Payment:   pay,
			Interest:  interest,
			Principal: principal,
			Balance:   math.Max(balance, 0),
		})
		if balance <= loanPaidOffBelow {
			break
		}
	}
	return schedule
}

// ApproximateAPR spreads total interest plus fees evenly over the term, in percent
func ApproximateAPR(amount, annualRate, fees float64, termMonths int) float64 {
	years := float64(termMonths) / 12
	if amount <= 0 || years <= 0 {
		return 0
	}
	interest := MonthlyPayment(amount, annualRate, termMonths)*float64(termMonths) - amount
	return (interest + fees) / amount / years * 100
}

func validateLoans(req models.LoanComparisonRequest) error {
	if len(req.Loans) == 0 {
		return invalidf("at least one loan is required")
	}
	if len(req.Loans) > maxLoansCompared {
		return invalidf("at most %d loans can be compared", maxLoansCompared)
	}
	seen := make(map[string]bool, len(req.Loans))
	for _, l := range req.Loans {
		if strings.TrimSpace(l.ID) == "" {
			return invalidf("loan id must not be empty")
		}
		if seen[l.ID] {
			return invalidf("duplicate loan id %q", l.ID)
		}
		seen[l.ID] = true
		switch {
		case l.Amount <= 0:
			return invalidf("loan %q: amount must be greater than 0", l.ID)
		case l.AnnualRate < 0 || l.AnnualRate > 1:
			return invalidf("loan %q: annual rate must be between 0 and 1", l.ID)
		case l.TermMonths < 1 || l.TermMonths > maxLoanTermMonths:
			return invalidf("loan %q: term must be between 1 and %d months", l.ID, maxLoanTermMonths)
		case l.OriginationFeePct < 0 || l.OriginationFeePct > 1:
			return invalidf("loan %q: origination fee percentage must be between 0 and 1", l.ID)
		case l.OriginationFeeFlat < 0 || l.ExtraMonthlyPayment < 0:
			return invalidf("loan %q: fees and extra payment must not be negative", l.ID)
		}
	}
	if req.User.MonthlyIncome < 0 || req.User.OtherMonthlyDebt < 0 {
		return invalidf("income and other debt must not be negative")
	}
	return nil
}

func sumPayments(schedule []models.AmortizationPoint) float64 {
	var total float64
	for _, p := range schedule {
		total += p.Payment
	}
	return total
}

func loanMetrics(l models.LoanOffer, user models.BorrowerContext) models.LoanMetrics {
	base := MonthlyPayment(l.Amount, l.AnnualRate, l.TermMonths)
	fees := l.Amount*l.OriginationFeePct + l.OriginationFeeFlat

	plain := Amortize(l.Amount, l.AnnualRate, l.TermMonths, base, 0)
	withExtra := plain
	if l.ExtraMonthlyPayment > 0 {
		withExtra = Amortize(l.Amount, l.AnnualRate, l.TermMonths, base, l.ExtraMonthlyPayment)
	}
	costPlain := sumPayments(plain) + fees
	costExtra := sumPayments(withExtra) + fees

	var dti float64
	if user.MonthlyIncome > 0 {
		dti = (base + user.OtherMonthlyDebt) / user.MonthlyIncome
	}

	return models.LoanMetrics{
		ID:                      l.ID,
		Name:                    l.Name,
		MonthlyPayment:          round2(base),
		MonthlyPaymentWithExtra: round2(base + l.ExtraMonthlyPayment),
		TotalInterest:           round2(costPlain - l.Amount - fees),
		TotalInterestWithExtra:  round2(costExtra - l.Amount - fees),
		TotalCost:               round2(costPlain),
		TotalCostWithExtra:      round2(costExtra),
		PayoffMonths:            len(plain),
		PayoffMonthsWithExtra:   len(withExtra),
		OriginationFeesTotal:    round2(fees),
		APRApprox:               roundTo(ApproximateAPR(l.Amount, l.AnnualRate, fees, l.TermMonths), 4),
		DTI:                     roundTo(dti, 4),
	}
}

// CompareLoans computes the metrics of every offer and picks the best one by
// total cost, monthly payment and payoff speed. The schedule returned is the
// cheapest offer's, with its extra payment applied.
func (s *Service) CompareLoans(req models.LoanComparisonRequest) (models.LoanComparisonResult, error) {
	if err := validateLoans(req); err != nil {
		return models.LoanComparisonResult{}, err
	}

	metrics := make([]models.LoanMetrics, len(req.Loans))
	for i, l := range req.Loans {
		metrics[i] = loanMetrics(l, req.User)
	}

	cost, pay, speed := 0, 0, 0
	for i, m := range metrics {
		if m.TotalCost < metrics[cost].TotalCost {
			cost = i
		}
		if m.MonthlyPayment < metrics[pay].MonthlyPayment {
			pay = i
		}
		if m.PayoffMonthsWithExtra < metrics[speed].PayoffMonthsWithExtra {
			speed = i
		}
	}
	cCost, cPay, cSpeed := metrics[cost], metrics[pay], metrics[speed]

	var recs []string
	if cCost.ID != cPay.ID {
		recs = append(recs, fmt.Sprintf("%q has the lowest total cost, while %q offers the lowest monthly payment. "+
			"Weigh your cash flow against the total cost.", cCost.Name, cPay.Name))
	}
	if cSpeed.ID != cCost.ID {
		recs = append(recs, fmt.Sprintf("If finishing early is your priority, %q is paid off in %d months (with extra).",
			cSpeed.Name, cSpeed.PayoffMonthsWithExtra))
	}
	for _, m := range metrics {
		if m.DTI > dtiWarning {
			recs = append(recs, fmt.Sprintf("Warning: the DTI of %q exceeds 43%% (about %.1f%%). This could be considered risky.",
				m.Name, m.DTI*100))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "All loans are within reasonable parameters. Choose based on the balance between payment and total cost.")
	}

	parts := []string{fmt.Sprintf("Best total cost: %q (%.2f)", cCost.Name, cCost.TotalCost)}
	if cPay.ID != cCost.ID {
		parts = append(parts, fmt.Sprintf("Lowest payment: %q (%.2f)", cPay.Name, cPay.MonthlyPayment))
	}
	if cSpeed.ID != cCost.ID {
		parts = append(parts, fmt.Sprintf("Fastest payoff: %q (%d months)", cSpeed.Name, cSpeed.PayoffMonthsWithExtra))
	}

	best := req.Loans[cost]
	schedule := Amortize(best.Amount, best.AnnualRate, best.TermMonths,
		MonthlyPayment(best.Amount, best.AnnualRate, best.TermMonths), best.ExtraMonthlyPayment)
	for i := range schedule {
		p := &schedule[i]
		p.Payment, p.Interest, p.Principal, p.Balance = round2(p.Payment), round2(p.Interest), round2(p.Principal), round2(p.Balance)
	}

	res := models.LoanComparisonResult{
		Loans:               metrics,
		BestByTotalCost:     &cCost.ID,
		BestByLowestPayment: &cPay.ID,
		BestByFastestPayoff: &cSpeed.ID,
		AnalysisSummary:     strings.Join(parts, ". ") + ".",
		Recommendations:     recs,
		SelectedSchedule:    schedule,
	}

	s.log.WithFields(logrus.Fields{
		"loans":     len(metrics),
		"best_cost": cCost.ID,
	}).Debug("Loans compared")
	return res, nil
}

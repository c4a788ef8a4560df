package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRoundTo = 2

	maxRoundTo       = 6
	maxLineItemName  = 64
	runwaySafeMonths = 6
	runwayMinMonths  = 3
)

// DefaultCashflowRequest returns a request with round_to preset
func DefaultCashflowRequest() models.CashflowRequest {
	return models.CashflowRequest{RoundTo: DefaultRoundTo}
}

func sumItems(bucket string, items []models.LineItem) (float64, error) {
	var total float64
	for _, it := range items {
		if n := len([]rune(it.Name)); n < 1 || n > maxLineItemName {
			return 0, invalidf("%s: item name must be 1 to %d characters", bucket, maxLineItemName)
		}
		if it.Amount < 0 {
			return 0, invalidf("%s: amount of %q must not be negative", bucket, it.Name)
		}
		total += it.Amount
	}
	return total, nil
}

// CalculateCashflow aggregates one month of cash movements and rates the
// resulting position.
func (s *Service) CalculateCashflow(req models.CashflowRequest) (models.CashflowResponse, error) {
	if len(req.Revenue) == 0 {
		return models.CashflowResponse{}, invalidf("at least one revenue item is required")
	}
	if req.StartingCash < 0 {
		return models.CashflowResponse{}, invalidf("starting cash must not be negative")
	}
	if req.TaxRate < 0 || req.TaxRate > 1 {
		return models.CashflowResponse{}, invalidf("tax rate must be between 0 and 1")
	}
	if req.RoundTo < 0 || req.RoundTo > maxRoundTo {
		return models.CashflowResponse{}, invalidf("round_to must be between 0 and %d", maxRoundTo)
	}

	buckets := []struct {
		name  string
		items []models.LineItem
	}{
		{"revenue", req.Revenue},
		{"other_inflows", req.OtherInflows},
		{"cogs", req.COGS},
		{"opex_fixed", req.OpexFixed},
		{"opex_variable", req.OpexVariable},
		{"payroll", req.Payroll},
		{"loan_interest", req.LoanInterest},
		{"loan_principal", req.LoanPrincipal},
		{"capex", req.Capex},
		{"other_outflows", req.OtherOutflows},
	}
	sums := make(map[string]float64, len(buckets))
	for _, b := range buckets {
		total, err := sumItems(b.name, b.items)
		if err != nil {
			return models.CashflowResponse{}, err
		}
		sums[b.name] = total
	}

	rev, otherIn := sums["revenue"], sums["other_inflows"]
	cogs, opexFixed, opexVar, payroll := sums["cogs"], sums["opex_fixed"], sums["opex_variable"], sums["payroll"]
	interest, principal, capex, otherOut := sums["loan_interest"], sums["loan_principal"], sums["capex"], sums["other_outflows"]

	totalInflows := rev + otherIn
	operatingOut := cogs + opexFixed + opexVar + payroll

	var taxes float64
	if profit := rev - operatingOut - interest; profit > 0 && req.TaxRate > 0 {
		taxes = profit * req.TaxRate
	}

	totalOutflows := operatingOut + interest + principal + capex + otherOut + taxes
	net := totalInflows - totalOutflows
	ending := req.StartingCash + net
	operating := rev - operatingOut - taxes
	free := operating - capex

	var burn float64
	var runway *float64
	if net < 0 {
		burn = -net
		runway = floatPtr(req.StartingCash / burn)
	}

	nd := req.RoundTo
	r := func(v float64) float64 { return roundTo(v, nd) }
	f := func(v float64) string { return formatMoney(v, nd) }

	var risk string
	switch {
	case net >= 0 && (runway == nil || *runway >= runwaySafeMonths):
		risk = RiskLow
	case net >= 0 || (runway != nil && *runway >= runwayMinMonths):
		risk = RiskMedium
	default:
		risk = RiskHigh
	}

	var summary string
	var recommendations []string
	if net >= 0 {
		summary = fmt.Sprintf("Positive cash flow of %s. Ending cash %s. Operating cash flow %s; free cash flow %s.",
			f(net), f(ending), f(operating), f(free))
		recommendations = []string{
			"Consider setting aside 10-20% of the positive flow as a cash reserve.",
			"Evaluate paying down the highest-rate debt with the surplus.",
			"Reinvest in channels with proven ROI (for example, campaigns with CAC below LTV).",
		}
	} else {
		summary = fmt.Sprintf("Negative cash flow of %s (burn). Estimated runway: %s months.", f(-net), f(*runway))

		outflows := []models.LineItem{
			{Name: "COGS", Amount: cogs},
			{Name: "Fixed OPEX", Amount: opexFixed},
			{Name: "Variable OPEX", Amount: opexVar},
			{Name: "Payroll", Amount: payroll},
			{Name: "Interest", Amount: interest},
			{Name: "Debt principal", Amount: principal},
			{Name: "CapEx", Amount: capex},
			{Name: "Other", Amount: otherOut},
		}
		slices.SortStableFunc(outflows, func(a, b models.LineItem) int { return cmp.Compare(b.Amount, a.Amount) })

		var top []string
		for _, o := range outflows[:3] {
			if o.Amount > 0 {
				top = append(top, fmt.Sprintf("%s: %s", o.Name, f(o.Amount)))
			}
		}
		cut := "Review every expense line to find cuts."
		if len(top) > 0 {
			cut = "Prioritize cuts in: " + strings.Join(top, ", ")
		}
		recommendations = []string{
			cut,
			"Negotiate payment terms with suppliers to ease cash pressure.",
			fmt.Sprintf("Revenue increase target: %s to reach cash break-even.", f(max(0, totalOutflows-totalInflows))),
		}
	}

	totals := models.CashflowTotals{
		TotalInflows:      r(totalInflows),
		TotalOutflows:     r(totalOutflows),
		TaxesCash:         r(taxes),
		OperatingCashFlow: r(operating),
		FreeCashFlow:      r(free),
		NetCashFlow:       r(net),
		EndingCash:        r(ending),
		BurnRate:          r(burn),
	}
	if runway != nil {
		totals.RunwayMonths = floatPtr(r(*runway))
	}

	resp := models.CashflowResponse{
		Totals: totals,
		Breakdown: models.CashflowBreakdown{
			Inflows: []models.LineItem{
				{Name: "Revenue", Amount: r(rev)},
				{Name: "Other inflows", Amount: r(otherIn)},
			},
			Outflows: []models.LineItem{
				{Name: "COGS", Amount: r(cogs)},
				{Name: "Fixed OPEX", Amount: r(opexFixed)},
				{Name: "Variable OPEX", Amount: r(opexVar)},
				{Name: "Payroll", Amount: r(payroll)},
				{Name: "Taxes (cash)", Amount: r(taxes)},
				{Name: "Interest", Amount: r(interest)},
				{Name: "Debt principal", Amount: r(principal)},
				{Name: "CapEx", Amount: r(capex)},
				{Name: "Other outflows", Amount: r(otherOut)},
			},
		},
		Analysis: models.CashflowAnalysis{
			Summary:         summary,
			RiskLevel:       risk,
			Recommendations: recommendations,
		},
	}

	s.log.WithFields(logrus.Fields{
		"net_cash_flow": totals.NetCashFlow,
		"risk":          risk,
	}).Debug("Cash flow calculated")
	return resp, nil
}

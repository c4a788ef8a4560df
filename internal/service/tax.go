package service

import (
	"fmt"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Taxpayer types and regimes
const (
	TaxpayerIndividual = "individual"
	TaxpayerBusiness   = "business"

	RegimeSimplified           = "simplified"
	RegimeGeneral              = "general"
	RegimeWageEarner           = "wage_earner"
	RegimeProfessionalServices = "professional_services"

	DefaultVATRate = 0.16
)

type taxBracket struct {
	min, max, rate, fixed float64
}

// isrTables are the published annual ISR tables. Ranges are checked in
// order; an income that matches none is taxed with the last bracket.
var isrTables = map[string][]taxBracket{
	TaxpayerIndividual: {
		{0, 12892.32, 0.0192, 0},
		{12892.33, 10928.33, 0.0640, 247.23},
		{10928.34, 10928.33, 0.1088, 914.96},
		{10928.34, 10928.33, 0.1600, 2000},
		{10928.34, 10928.33, 0.1792, 3000},
		{10928.34, 10928.33, 0.2136, 4000},
		{10928.34, 10928.33, 0.2352, 5000},
		{10928.34, 10928.33, 0.3000, 6000},
		{10928.34, 10928.33, 0.3200, 7000},
		{10928.34, 10928.33, 0.3400, 8000},
		{10928.34, 10928.33, 0.3500, 9000},
		{10928.34, 10928.33, 0.4000, 10000},
	},
	TaxpayerBusiness: {
		{0, 300000, 0.30, 0},
		{300001, 600000, 0.30, 90000},
		{600001, 1000000, 0.30, 180000},
		{1000001, 2000000, 0.30, 300000},
		{2000001, 3000000, 0.30, 600000},
		{3000001, 999999999, 0.30, 900000},
	},
}

// Deduction caps as a share of total annual income
const (
	medicalCap     = 0.15
	educationalCap = 0.10
	mortgageCap    = 0.10
	donationsCap   = 0.07
	totalCap       = 0.15
)

var validRegimes = map[string]bool{
	RegimeSimplified:           true,
	RegimeGeneral:              true,
	RegimeWageEarner:           true,
	RegimeProfessionalServices: true,
}

// DefaultTaxInput returns an input with the VAT rate preset
func DefaultTaxInput() models.TaxInput {
	return models.TaxInput{VATRate: DefaultVATRate}
}

func validateTax(in models.TaxInput) error {
	if _, ok := isrTables[in.TaxpayerType]; !ok {
		return invalidf("taxpayer type must be %q or %q, got %q", TaxpayerIndividual, TaxpayerBusiness, in.TaxpayerType)
	}
	if !validRegimes[in.Regime] {
		return invalidf("unknown regime %q", in.Regime)
	}
	amounts := map[string]float64{
		"monthly_income":       in.MonthlyIncome,
		"annual_income":        in.AnnualIncome,
		"business_expenses":    in.BusinessExpenses,
		"personal_deductions":  in.PersonalDeductions,
		"medical_expenses":     in.MedicalExpenses,
		"educational_expenses": in.EducationalExpenses,
		"mortgage_interest":    in.MortgageInterest,
		"donations":            in.Donations,
		"vat_collected":        in.VATCollected,
		"vat_paid":             in.VATPaid,
		"withholding_tax":      in.WithholdingTax,
		"isr_withholding":      in.ISRWithholding,
		"other_income":         in.OtherIncome,
		"other_deductions":     in.OtherDeductions,
	}
	for name, v := range amounts {
		if v < 0 {
			return invalidf("%s must not be negative", name)
		}
	}
	if in.VATRate < 0 || in.VATRate > 1 {
		return invalidf("vat_rate must be between 0 and 1")
	}
	return nil
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// CalculateTax estimates the annual income tax and the VAT balance
func (s *Service) CalculateTax(in models.TaxInput) (models.TaxResult, error) {
	if err := validateTax(in); err != nil {
		return models.TaxResult{}, err
	}

	income := dec(in.MonthlyIncome).Mul(decimal.NewFromInt(12)).Add(dec(in.OtherIncome))
	deductions := totalDeductions(in, income)
	taxable := decimal.Max(decimal.Zero, income.Sub(deductions))

	isr := calculateISR(taxable, in.TaxpayerType, in.ISRWithholding)
	vat := calculateVAT(in)

	totalTaxes := dec(isr.ISRCalculated).Add(dec(vat.VATToPay))
	net := income.Sub(totalTaxes)

	res := models.TaxResult{
		ISR:             isr,
		VAT:             vat,
		TotalTaxes:      money(totalTaxes),
		NetIncome:       money(net),
		TaxOptimization: taxOptimization(in, income),
		Breakdown: models.TaxBreakdown{
			GrossIncome:     money(income),
			TotalDeductions: money(deductions),
			TaxableIncome:   money(taxable),
			TotalTaxes:      money(totalTaxes),
			NetIncome:       money(net),
		},
	}

	s.log.WithFields(logrus.Fields{
		"taxpayer_type": in.TaxpayerType,
		"regime":        in.Regime,
		"total_taxes":   res.TotalTaxes,
	}).Debug("Taxes calculated")
	return res, nil
}

func totalDeductions(in models.TaxInput, income decimal.Decimal) decimal.Decimal {
	capped := func(amount, share float64) decimal.Decimal {
		return decimal.Min(dec(amount), income.Mul(dec(share)))
	}

	total := decimal.Zero
	if in.Regime == RegimeGeneral {
		total = total.Add(dec(in.BusinessExpenses))
	}
	total = total.
		Add(capped(in.MedicalExpenses, medicalCap)).
		Add(capped(in.EducationalExpenses, educationalCap)).
		Add(capped(in.MortgageInterest, mortgageCap)).
		Add(capped(in.Donations, donationsCap)).
		Add(dec(in.OtherDeductions))

	return decimal.Min(total, income.Mul(dec(totalCap)))
}

func findBracket(table []taxBracket, income float64) taxBracket {
	for _, b := range table {
		if b.min <= income && income <= b.max {
			return b
		}
	}
	return table[len(table)-1]
}

// calculateISR applies the bracket formula. Withholding already paid reduces
// the amount to pay but not the calculated tax.
func calculateISR(taxable decimal.Decimal, taxpayerType string, withholding float64) models.ISRResult {
	b := findBracket(isrTables[taxpayerType], taxable.InexactFloat64())
	isr := taxable.Sub(dec(b.min)).Mul(dec(b.rate)).Add(dec(b.fixed))

	effective := decimal.Zero
	if taxable.IsPositive() {
		effective = isr.Div(taxable).Mul(hundred)
	}
	return models.ISRResult{
		TaxableIncome:  money(taxable),
		ISRCalculated:  money(isr),
		ISRWithholding: round2(withholding),
		ISRToPay:       money(decimal.Max(decimal.Zero, isr.Sub(dec(withholding)))),
		EffectiveRate:  money(effective),
	}
}

func calculateVAT(in models.TaxInput) models.VATResult {
	collected, paid := dec(in.VATCollected), dec(in.VATPaid)
	return models.VATResult{
		VATCollected: money(collected),
		VATPaid:      money(paid),
		VATToPay:     money(decimal.Max(decimal.Zero, collected.Sub(paid))),
		VATToRefund:  money(decimal.Max(decimal.Zero, paid.Sub(collected))),
	}
}

func taxOptimization(in models.TaxInput, income decimal.Decimal) models.TaxOptimization {
	recs := []string{}
	savings := decimal.Zero

	if limit := income.Mul(dec(medicalCap)); dec(in.MedicalExpenses).LessThan(limit) {
		recs = append(recs, fmt.Sprintf("You can deduct up to $%s in medical expenses", formatMoney(limit.InexactFloat64(), 2)))
	}
	if limit := income.Mul(dec(educationalCap)); dec(in.EducationalExpenses).LessThan(limit) {
		recs = append(recs, fmt.Sprintf("You can deduct up to $%s in educational expenses", formatMoney(limit.InexactFloat64(), 2)))
	}

	if in.Regime == RegimeSimplified {
		recs = append(recs, "Consider switching to the general regime if your income exceeds $2,000,000")
	}
	businessTarget := income.Mul(dec(0.3))
	if in.Regime == RegimeGeneral && dec(in.BusinessExpenses).LessThan(businessTarget) {
		recs = append(recs, "Increase your deductible business expenses to reduce your income tax")
		savings = savings.Add(businessTarget.Sub(dec(in.BusinessExpenses)).Mul(dec(0.3)))
	}

	if dec(in.VATPaid).LessThan(dec(in.VATCollected).Mul(dec(0.5))) {
		recs = append(recs, "Consider increasing purchases with VAT to reduce the VAT payable")
	}

	return models.TaxOptimization{
		Recommendations:  recs,
		PotentialSavings: money(savings),
	}
}

// TaxRegimes returns the catalogue of supported regimes
func (s *Service) TaxRegimes() map[string]models.TaxRegime {
	simplifiedMax := 2000000.0
	return map[string]models.TaxRegime{
		RegimeSimplified: {
			Name:        "Simplified trust regime",
			Description: "For individuals with income below $2,000,000",
			MaxIncome:   &simplifiedMax,
			TaxRate:     "2%",
		},
		RegimeGeneral: {
			Name:        "General regime",
			Description: "For individuals and companies with income above $2,000,000",
			TaxRate:     "Variable per ISR table",
		},
		RegimeWageEarner: {
			Name:        "Wages and salaries",
			Description: "For salaried workers",
			TaxRate:     "Variable per ISR table",
		},
		RegimeProfessionalServices: {
			Name:        "Professional services",
			Description: "For independent professionals",
			TaxRate:     "Variable per ISR table",
		},
	}
}

// DeductionLimits returns the deduction caps
func (s *Service) DeductionLimits() map[string]models.DeductionLimit {
	return map[string]models.DeductionLimit{
		"medical":     {Percentage: medicalCap, Description: "Medical expenses (up to 15% of income)"},
		"educational": {Percentage: educationalCap, Description: "Educational expenses (up to 10% of income)"},
		"mortgage":    {Percentage: mortgageCap, Description: "Mortgage interest (up to 10% of income)"},
		"donations":   {Percentage: donationsCap, Description: "Donations (up to 7% of income)"},
		"total":       {Percentage: totalCap, Description: "Total deductions (up to 15% of income)"},
	}
}

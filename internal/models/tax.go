package models

// TaxInput is the input of the tax endpoint
type TaxInput struct {
	TaxpayerType        string  `json:"taxpayer_type"` // individual or business
	Regime              string  `json:"regime"`
	MonthlyIncome       float64 `json:"monthly_income"`
	AnnualIncome        float64 `json:"annual_income"`
	BusinessExpenses    float64 `json:"business_expenses"`
	PersonalDeductions  float64 `json:"personal_deductions"`
	MedicalExpenses     float64 `json:"medical_expenses"`
	EducationalExpenses float64 `json:"educational_expenses"`
	MortgageInterest    float64 `json:"mortgage_interest"`
	Donations           float64 `json:"donations"`
	VATRate             float64 `json:"vat_rate"`
	VATCollected        float64 `json:"vat_collected"`
	VATPaid             float64 `json:"vat_paid"`
	WithholdingTax      float64 `json:"withholding_tax"`
	ISRWithholding      float64 `json:"isr_withholding"`
	OtherIncome         float64 `json:"other_income"`
	OtherDeductions     float64 `json:"other_deductions"`
}

// ISRResult is the income tax part of a tax result
type ISRResult struct {
	TaxableIncome  float64 `json:"taxable_income"`
	ISRCalculated  float64 `json:"isr_calculated"`
	ISRWithholding float64 `json:"isr_withholding"`
	ISRToPay       float64 `json:"isr_to_pay"`
	EffectiveRate  float64 `json:"effective_rate"`
}

// VATResult is the value-added tax part of a tax result
type VATResult struct {
	VATCollected float64 `json:"vat_collected"`
	VATPaid      float64 `json:"vat_paid"`
	VATToPay     float64 `json:"vat_to_pay"`
	VATToRefund  float64 `json:"vat_to_refund"`
}

// TaxOptimization lists suggestions to lower the tax bill
type TaxOptimization struct {
	Recommendations  []string `json:"recommendations"`
	PotentialSavings float64  `json:"potential_savings"`
}

// TaxBreakdown shows the path from gross to net income
type TaxBreakdown struct {
	GrossIncome     float64 `json:"gross_income"`
	TotalDeductions float64 `json:"total_deductions"`
	TaxableIncome   float64 `json:"taxable_income"`
	TotalTaxes      float64 `json:"total_taxes"`
	NetIncome       float64 `json:"net_income"`
}

// TaxResult is the output of the tax endpoint
type TaxResult struct {
	ISR             ISRResult       `json:"isr"`
	VAT             VATResult       `json:"vat"`
	TotalTaxes      float64         `json:"total_taxes"`
	NetIncome       float64         `json:"net_income"`
	TaxOptimization TaxOptimization `json:"tax_optimization"`
	Breakdown       TaxBreakdown    `json:"breakdown"`
}

// TaxRegime describes a tax regime for the catalogue endpoint
type TaxRegime struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MaxIncome   *float64 `json:"max_income"`
	TaxRate     string   `json:"tax_rate"`
}

// DeductionLimit describes a deduction cap for the catalogue endpoint
type DeductionLimit struct {
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description"`
}

package handler

import (
	"net/http"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/Dan9191/fincalc/internal/service"
	"github.com/Dan9191/fincalc/internal/utils/email"
)

// CalculatePricing handles POST /api/v1/pricing/calculate
func (h *Handler) CalculatePricing(w http.ResponseWriter, r *http.Request) {
	var in models.PricingInput
	if !h.decode(w, r, &in) {
		return
	}
	res, err := h.svc.CalculatePricing(in)
	respond(h, w, res, err)
}

// PricingStrategies handles GET /api/v1/pricing/strategies
func (h *Handler) PricingStrategies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"strategies": h.svc.PricingApproaches()})
}

// CalculateBreakeven handles POST /api/v1/breakeven/calculate
func (h *Handler) CalculateBreakeven(w http.ResponseWriter, r *http.Request) {
	var in models.BreakevenInput
	if !h.decode(w, r, &in) {
		return
	}
	res, err := h.svc.CalculateBreakeven(in)
	respond(h, w, res, err)
}

// CalculateCashflow handles POST /api/v1/cashflow/calculate
func (h *Handler) CalculateCashflow(w http.ResponseWriter, r *http.Request) {
	req := service.DefaultCashflowRequest()
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CalculateCashflow(req)
	respond(h, w, res, err)
}

// CalculateROI handles POST /api/v1/roi/calculate
func (h *Handler) CalculateROI(w http.ResponseWriter, r *http.Request) {
	req := service.DefaultROIRequest()
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CalculateROI(req)
	respond(h, w, res, err)
}

// CalculateIRR handles POST /api/v1/roi/irr
func (h *Handler) CalculateIRR(w http.ResponseWriter, r *http.Request) {
	var req models.IRRRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CalculateIRR(req)
	respond(h, w, res, err)
}

// AnalyzeDebts handles POST /api/v1/debt/analyze
func (h *Handler) AnalyzeDebts(w http.ResponseWriter, r *http.Request) {
	var req models.DebtCalculationRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.AnalyzeDebts(req.Debts, req.MonthlyIncome)
	respond(h, w, res, err)
}

// CalculateDebtPlan handles POST /api/v1/debt/calculate
func (h *Handler) CalculateDebtPlan(w http.ResponseWriter, r *http.Request) {
	var req models.DebtCalculationRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CalculateDebtPlan(req)
	respond(h, w, res, err)
}

// DebtStrategies handles GET /api/v1/debt/strategies
func (h *Handler) DebtStrategies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DebtStrategies())
}

// DebtTypes handles GET /api/v1/debt/debt-types
func (h *Handler) DebtTypes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DebtTypes())
}

// EmailDebtPlan handles POST /api/v1/debt/email
func (h *Handler) EmailDebtPlan(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil || !h.mailer.Enabled() {
		h.fail(w, email.ErrDisabled)
		return
	}

	var req models.DebtEmailRequest
	if !h.decode(w, r, &req) {
		return
	}
	plan, err := h.svc.CalculateDebtPlan(req.DebtCalculationRequest)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.mailer.SendPlanSummary(req.Email, plan); err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "sent",
		"email":  req.Email,
		"plan":   plan,
	})
}

// CalculateTax handles POST /api/v1/tax/calculate
func (h *Handler) CalculateTax(w http.ResponseWriter, r *http.Request) {
	in := service.DefaultTaxInput()
	if !h.decode(w, r, &in) {
		return
	}
	res, err := h.svc.CalculateTax(in)
	respond(h, w, res, err)
}

// TaxRegimes handles GET /api/v1/tax/regimes
func (h *Handler) TaxRegimes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.TaxRegimes())
}

// DeductionLimits handles GET /api/v1/tax/deduction-limits
func (h *Handler) DeductionLimits(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DeductionLimits())
}

// CompareLoans handles POST /api/v1/loans/compare
func (h *Handler) CompareLoans(w http.ResponseWriter, r *http.Request) {
	var req models.LoanComparisonRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CompareLoans(req)
	respond(h, w, res, err)
}

// CalculateBudget handles POST /api/v1/budget/calculate
func (h *Handler) CalculateBudget(w http.ResponseWriter, r *http.Request) {
	var req models.BudgetRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.CalculateBudget(req)
	respond(h, w, res, err)
}

// KeyRate handles GET /api/v1/rates/key
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.KeyRate()
	respond(h, w, res, err)
}

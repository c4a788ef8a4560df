package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/Dan9191/fincalc/internal/repository"
	"github.com/Dan9191/fincalc/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	enabled bool
	to      string
	plan    models.DebtPaymentPlan
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendPlanSummary(to string, plan models.DebtPaymentPlan) error {
	m.to, m.plan = to, plan
	return nil
}

func newRouter(t *testing.T, rates *repository.RateStore, mailer PlanMailer) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	if rates == nil {
		rates = repository.NewRateStore()
	}
	r := mux.NewRouter()
	NewHandler(service.NewService(log, rates), mailer, log).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRootAndHealth(t *testing.T) {
	r := newRouter(t, nil, nil)

	rec := do(t, r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0.0", decodeBody[map[string]string](t, rec)["version"])

	rec = do(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody[map[string]string](t, rec)["status"])

	rec = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalculateDebtPlan(t *testing.T) {
	r := newRouter(t, nil, nil)
	body := `{
		"debts": [
			{"id": "A", "name": "Card A", "balance": 1000, "interest_rate": 20, "minimum_payment": 50, "type": "credit_card"},
			{"id": "B", "name": "Loan B", "balance": 500, "interest_rate": 10, "minimum_payment": 30, "type": "personal_loan"},
			{"id": "C", "name": "Card C", "balance": 2000, "interest_rate": 15, "minimum_payment": 80, "type": "credit_card"}
		],
		"monthly_income": 4000,
		"extra_payment": 100,
		"strategy": "avalanche"
	}`

	rec := do(t, r, http.MethodPost, "/api/v1/debt/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	plan := decodeBody[models.DebtPaymentPlan](t, rec)
	assert.Equal(t, "avalanche", plan.Strategy)
	assert.True(t, plan.Converged)
	assert.Equal(t, 260.0, plan.MonthlyPayment)
	require.GreaterOrEqual(t, len(plan.Payments), 3)
	assert.Equal(t, "A", plan.Payments[0].DebtID)
	assert.Equal(t, 150.0, plan.Payments[0].Payment)
}

func TestCalculateDebtPlan_Errors(t *testing.T) {
	r := newRouter(t, nil, nil)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"debts": [`, "invalid request body"},
		{"empty debts", `{"debts": [], "monthly_income": 1000}`, "at least one debt"},
		{"unknown strategy", `{"debts": [{"id":"a","balance":1,"minimum_payment":1}], "monthly_income": 1000, "strategy": "lottery"}`, "unknown strategy"},
		{"zero income", `{"debts": [{"id":"a","balance":1,"minimum_payment":1}], "monthly_income": 0}`, "monthly income"},
		{"custom without priorities", `{"debts": [{"id":"a","balance":1,"minimum_payment":1}], "monthly_income": 10, "strategy": "custom"}`, "custom priorities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/v1/debt/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], tt.want)
		})
	}
}

func TestAnalyzeDebts(t *testing.T) {
	r := newRouter(t, nil, nil)
	rec := do(t, r, http.MethodPost, "/api/v1/debt/analyze",
		`{"debts": [{"id":"a","name":"Only","balance":1000,"interest_rate":12,"minimum_payment":50}], "monthly_income": 2000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	a := decodeBody[models.DebtAnalysis](t, rec)
	assert.Equal(t, "custom", a.RecommendedStrategy)
	assert.Equal(t, 0.5, a.DebtToIncomeRatio)
}

func TestCatalogues(t *testing.T) {
	r := newRouter(t, nil, nil)

	rec := do(t, r, http.MethodGet, "/api/v1/debt/strategies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[map[string]models.StrategyInfo](t, rec), 3)

	rec = do(t, r, http.MethodGet, "/api/v1/debt/debt-types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[map[string]models.DebtTypeInfo](t, rec), "student_loan")

	rec = do(t, r, http.MethodGet, "/api/v1/tax/regimes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[map[string]models.TaxRegime](t, rec), 4)

	rec = do(t, r, http.MethodGet, "/api/v1/tax/deduction-limits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.07, decodeBody[map[string]models.DeductionLimit](t, rec)["donations"].Percentage)

	rec = do(t, r, http.MethodGet, "/api/v1/pricing/strategies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[map[string][]models.PricingApproach](t, rec)["strategies"], 4)
}

func TestCalculateROI_AppliesDefaults(t *testing.T) {
	r := newRouter(t, nil, nil)
	rec := do(t, r, http.MethodPost, "/api/v1/roi/calculate", `{
		"investment": {"initial_amount": 10000, "investment_date": "2025-01-15"},
		"returns": {"monthly_revenue_increase": 1500}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[models.ROIResult](t, rec)
	assert.Equal(t, 12, res.ParametersData.AnalysisPeriodMonths)
	assert.Equal(t, 0.10, res.ParametersData.DiscountRate)
	assert.Len(t, res.Timeline, 13)
	require.NotNil(t, res.Metrics.PaybackPeriodMonths)
	assert.Equal(t, 7, *res.Metrics.PaybackPeriodMonths)
}

func TestCalculateROI_InvalidDate(t *testing.T) {
	r := newRouter(t, nil, nil)
	rec := do(t, r, http.MethodPost, "/api/v1/roi/calculate",
		`{"investment": {"initial_amount": 100, "investment_date": "15/01/2025"}, "returns": {"monthly_cost_savings": 10}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateIRR(t *testing.T) {
	r := newRouter(t, nil, nil)

	rec := do(t, r, http.MethodPost, "/api/v1/roi/irr", `{"cash_flows": [-1000, 1100]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[models.IRRResult](t, rec)
	require.NotNil(t, res.IRR)
	assert.InDelta(t, 0.10, *res.IRR, 1e-6)
	assert.True(t, res.Converged)

	rec = do(t, r, http.MethodPost, "/api/v1/roi/irr", `{"cash_flows": [100, 200, 300]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"irr": null, "converged": false}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/roi/irr", `{"cash_flows": [100]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateBreakeven(t *testing.T) {
	r := newRouter(t, nil, nil)

	rec := do(t, r, http.MethodPost, "/api/v1/breakeven/calculate",
		`{"fixed_costs": 10000, "variable_cost_per_unit": 20, "selling_price_per_unit": 50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[models.BreakevenResult](t, rec)
	assert.Equal(t, 333, res.BreakevenUnits)
	assert.Equal(t, 60.0, res.ContributionMarginRatio)

	rec = do(t, r, http.MethodPost, "/api/v1/breakeven/calculate",
		`{"fixed_costs": 10000, "variable_cost_per_unit": 50, "selling_price_per_unit": 50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculatePricingCashflowTaxLoansBudget(t *testing.T) {
	r := newRouter(t, nil, nil)

	rec := do(t, r, http.MethodPost, "/api/v1/pricing/calculate",
		`{"product_name": "Mug", "cost_materials": 4, "cost_labor": 3, "cost_overhead": 1, "desired_profit_margin": 20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10.0, decodeBody[models.PricingResult](t, rec).RecommendedPrice)

	rec = do(t, r, http.MethodPost, "/api/v1/cashflow/calculate",
		`{"starting_cash": 1000, "revenue": [{"name": "Sales", "amount": 500.123}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 500.12, decodeBody[models.CashflowResponse](t, rec).Totals.TotalInflows, "round_to defaults to 2")

	rec = do(t, r, http.MethodPost, "/api/v1/tax/calculate",
		`{"taxpayer_type": "business", "regime": "general", "monthly_income": 10000, "annual_income": 120000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/tax/calculate",
		`{"taxpayer_type": "alien", "regime": "general", "monthly_income": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/loans/compare",
		`{"loans": [{"id": "x", "name": "X", "amount": 1200, "annual_rate": 0, "term_months": 12}], "user": {"monthly_income": 1000}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[models.LoanComparisonResult](t, rec).SelectedSchedule, 12)

	rec = do(t, r, http.MethodPost, "/api/v1/budget/calculate",
		`{"items": [{"id": "1", "name": "Salary", "amount": 3000, "category": "Salary", "type": "income"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "surplus", decodeBody[models.BudgetResult](t, rec).Analysis.Status)
}

func TestKeyRate(t *testing.T) {
	store := repository.NewRateStore()
	r := newRouter(t, store, nil)

	rec := do(t, r, http.MethodGet, "/api/v1/rates/key", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	store.Save(models.KeyRate{KeyRate: 20, BankMargin: 5, ReferenceRate: 25, FetchedAt: time.Now()})
	rec = do(t, r, http.MethodGet, "/api/v1/rates/key", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25.0, decodeBody[models.KeyRate](t, rec).ReferenceRate)
}

func TestEmailDebtPlan(t *testing.T) {
	body := `{"debts": [{"id":"a","name":"Card","balance":100,"interest_rate":0,"minimum_payment":100}], "monthly_income": 1000, "email": "jane@example.com"}`

	t.Run("disabled", func(t *testing.T) {
		rec := do(t, newRouter(t, nil, nil), http.MethodPost, "/api/v1/debt/email", body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("sent", func(t *testing.T) {
		m := &fakeMailer{enabled: true}
		rec := do(t, newRouter(t, nil, m), http.MethodPost, "/api/v1/debt/email", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "jane@example.com", m.to)
		assert.Equal(t, 1, m.plan.MonthsToFreedom)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	r := newRouter(t, nil, nil)
	for _, path := range []string{"/api/v1/debt/calculate", "/api/v1/roi/irr", "/health"} {
		method := http.MethodGet
		if path == "/health" {
			method = http.MethodPost
		}
		rec := do(t, r, method, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, "method not allowed", decodeBody[map[string]string](t, rec)["error"])
	}
}

func TestNotFound(t *testing.T) {
	rec := do(t, newRouter(t, nil, nil), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decodeBody[map[string]string](t, rec)["error"])
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/Dan9191/fincalc/internal/service"
	"github.com/Dan9191/fincalc/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Version is reported by the banner endpoint
const Version = "1.0.0"

// PlanMailer delivers payoff plans by email
type PlanMailer interface {
	Enabled() bool
	SendPlanSummary(to string, plan models.DebtPaymentPlan) error
}

// Handler exposes the calculators over HTTP
type Handler struct {
	svc    *service.Service
	mailer PlanMailer
	log    *logrus.Logger
}

// NewHandler creates a handler. mailer may be nil when email is not configured.
func NewHandler(svc *service.Service, mailer PlanMailer, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, mailer: mailer, log: log}
}

// APIPrefix is the path prefix of the calculator endpoints
const APIPrefix = "/api/v1"

// RegisterRoutes mounts every endpoint on r. Routes are registered on r
// itself rather than on a subrouter so a method mismatch answers 405.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := func(path string, fn http.HandlerFunc, method string) {
		r.HandleFunc(APIPrefix+path, fn).Methods(method)
	}
	api("/pricing/calculate", h.CalculatePricing, http.MethodPost)
	api("/pricing/strategies", h.PricingStrategies, http.MethodGet)
	api("/breakeven/calculate", h.CalculateBreakeven, http.MethodPost)
	api("/cashflow/calculate", h.CalculateCashflow, http.MethodPost)
	api("/roi/calculate", h.CalculateROI, http.MethodPost)
	api("/roi/irr", h.CalculateIRR, http.MethodPost)
	api("/debt/analyze", h.AnalyzeDebts, http.MethodPost)
	api("/debt/calculate", h.CalculateDebtPlan, http.MethodPost)
	api("/debt/strategies", h.DebtStrategies, http.MethodGet)
	api("/debt/debt-types", h.DebtTypes, http.MethodGet)
	api("/debt/email", h.EmailDebtPlan, http.MethodPost)
	api("/tax/calculate", h.CalculateTax, http.MethodPost)
	api("/tax/regimes", h.TaxRegimes, http.MethodGet)
	api("/tax/deduction-limits", h.DeductionLimits, http.MethodGet)
	api("/loans/compare", h.CompareLoans, http.MethodPost)
	api("/budget/calculate", h.CalculateBudget, http.MethodPost)
	api("/rates/key", h.KeyRate, http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
}

// NotFound answers requests that match no route
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers requests whose path exists under another method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// Root reports the service banner
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "FinCalc API is running",
		"version": Version,
	})
}

// Health is the liveness check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into dst. dst may carry defaults that omitted
// fields keep.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail maps a service error onto an HTTP status
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, email.ErrInvalidRecipient):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrKeyRateUnavailable), errors.Is(err, email.ErrDisabled):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// respond writes result, or the mapped error when err is set
func respond[T any](h *Handler, w http.ResponseWriter, result T, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

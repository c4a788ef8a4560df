package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	debtPlanMonths = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fincalc_debt_plan_months",
		Help:    "Months simulated per debt payoff plan.",
		Buckets: []float64{1, 6, 12, 24, 36, 60, 120, 240, 600},
	}, []string{"strategy"})

	debtPlanCapped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fincalc_debt_plan_capped_total",
		Help: "Debt payoff plans stopped by the month cap before every balance reached zero.",
	}, []string{"strategy"})

	irrUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fincalc_irr_unavailable_total",
		Help: "IRR computations that did not converge.",
	})
)

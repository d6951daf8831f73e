package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type BusinessMetrics struct {
	CustomerRegisteredTotal prometheus.Counter
	CreditApplicationsTotal *prometheus.CounterVec
	UpcomingInstallments    prometheus.Gauge
	CreditsInProgress       prometheus.Gauge
}

var Business = BusinessMetrics{
	CustomerRegisteredTotal: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_engine_customers_registered_total",
			Help: "Total number of customers successfully registered.",
		},
	),
	CreditApplicationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_engine_credit_applications_total",
			Help: "Total number of credit applications by outcome.",
		},
		[]string{"status"},
	),
	UpcomingInstallments: promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "credit_engine_upcoming_first_installments",
			Help: "Credits whose first installment falls within the coming week.",
		},
	),
	CreditsInProgress: promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "credit_engine_credits_in_progress",
			Help: "Credits currently in the IN_PROGRESS status.",
		},
	),
}

func RecordCustomerRegistered() {
	Business.CustomerRegisteredTotal.Inc()
}

func RecordCreditApplication(status string) {
	Business.CreditApplicationsTotal.WithLabelValues(status).Inc()
}

package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutsTotal counts checkout outcomes by result.
	CheckoutsTotal *prometheus.CounterVec
	// DiscountsApplied counts discounts attached to receipts.
	DiscountsApplied prometheus.Counter
	// ReceiptTotal records the distribution of receipt totals.
	ReceiptTotal prometheus.Histogram
	// OfferRegistrations counts offer registrations by kind.
	OfferRegistrations *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers checkout domain
// collectors. Safe to call once per process; later calls are no-ops.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Count of checkout outcomes.",
		}, []string{"result"})
		DiscountsApplied = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_applied_total",
			Help:      "Total number of discounts attached to receipts.",
		})
		ReceiptTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_total_amount",
			Help:      "Distribution of receipt total prices.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		})
		OfferRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_registrations_total",
			Help:      "Count of offer registrations by kind.",
		}, []string{"kind"})

		mustRegisterCollector(reg, CheckoutsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutsTotal = v
			}
		})
		mustRegisterCollector(reg, DiscountsApplied, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				DiscountsApplied = v
			}
		})
		mustRegisterCollector(reg, ReceiptTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				ReceiptTotal = v
			}
		})
		mustRegisterCollector(reg, OfferRegistrations, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OfferRegistrations = v
			}
		})
	})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics counts search traffic and session store activity.
type StorefrontMetrics struct {
	searches         *prometheus.CounterVec
	zeroResults      *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	discardedRecords *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_searches_total",
		Help: "Search page and suggestion requests.",
	}, []string{"surface"})
	zeroResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_zero_result_searches_total",
		Help: "Searches that returned no exact results.",
	}, []string{"surface"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_store_mutations_total",
		Help: "Mutations applied to session stores.",
	}, []string{"store", "op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_persist_failures_total",
		Help: "Failed writes of session state to the key-value backend.",
	}, []string{"store"})
	discarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_discarded_state_total",
		Help: "Persisted session state that could not be decoded and was reset.",
	}, []string{"store"})
	reg.MustRegister(searches, zeroResults, mutations, persistFailures, discarded)
	return &StorefrontMetrics{
		searches:         searches,
		zeroResults:      zeroResults,
		mutations:        mutations,
		persistFailures:  persistFailures,
		discardedRecords: discarded,
	}
}

// IncSearch counts one search on the named surface (page, suggest).
func (m *StorefrontMetrics) IncSearch(surface string) {
	if m == nil || m.searches == nil {
		return
	}
	m.searches.WithLabelValues(normalizeLabel(surface)).Inc()
}

// IncZeroResult counts a search that fell back to merchandising.
func (m *StorefrontMetrics) IncZeroResult(surface string) {
	if m == nil || m.zeroResults == nil {
		return
	}
	m.zeroResults.WithLabelValues(normalizeLabel(surface)).Inc()
}

// IncMutation counts one store mutation.
func (m *StorefrontMetrics) IncMutation(store, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// IncPersistFailure counts a failed write for the named store.
func (m *StorefrontMetrics) IncPersistFailure(store string) {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(store)).Inc()
}

// IncDiscarded counts persisted state dropped because it was malformed.
func (m *StorefrontMetrics) IncDiscarded(store string) {
	if m == nil || m.discardedRecords == nil {
		return
	}
	m.discardedRecords.WithLabelValues(normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

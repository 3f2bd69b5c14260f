// Package metrics exposes Prometheus counters for the resolver's request
// handling. Collecting and serving these metrics runs on its own HTTP
// listener and goroutine, entirely separate from the single-threaded DNS
// query path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts inbound queries by query type and the RCODE
	// eventually returned.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnsresolver_queries_total",
		Help: "Total queries handled, by query type and result code.",
	}, []string{"qtype", "rcode"})

	// ResolutionSteps records how many delegation steps Resolve took to
	// reach a final answer for a single inbound query.
	ResolutionSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dnsresolver_resolution_steps",
		Help:    "Delegation steps taken per resolved query.",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	})

	// FailuresTotal counts failures by kind: "oversized" datagram,
	// "formerr" and "servfail" replies, and response "write" failures.
	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnsresolver_failures_total",
		Help: "Query handling failures, by error kind.",
	}, []string{"kind"})
)

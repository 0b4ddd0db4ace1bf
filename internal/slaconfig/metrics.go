package slaconfig

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// bulkItemsTotal counts per-item outcomes of bulk operations. Outcome is one
// of "ok", "invalid" or "failed".
var bulkItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "opsdesk",
	Subsystem: "slaconfig",
	Name:      "bulk_items_total",
	Help:      "Items processed by bulk SLA configuration operations.",
}, []string{"operation", "outcome"})

const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
)

// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the Prometheus implementation of core.Recorder. It also
// counts HTTP responses by status code.
type Collector struct {
	uploads        *prometheus.CounterVec
	uploadFailures *prometheus.CounterVec
	rowsIngested   prometheus.Counter
	groupUpdates   prometheus.Counter
	rowsRegrouped  prometheus.Counter
	exports        *prometheus.CounterVec
	rowsExported   prometheus.Counter
	httpStatus     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_uploads_total",
			Help: "Successful uploads by file format.",
		}, []string{"format"}),
		uploadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_upload_failures_total",
			Help: "Rejected uploads by error code.",
		}, []string{"code"}),
		rowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_rows_ingested_total",
			Help: "Rows read from uploaded files.",
		}),
		groupUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_group_updates_total",
			Help: "Group update requests applied.",
		}),
		rowsRegrouped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_group_update_rows_total",
			Help: "Rows touched by group updates.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_exports_total",
			Help: "Exports by file format.",
		}, []string{"format"}),
		rowsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_rows_exported_total",
			Help: "Rows written by exports.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.uploads,
		c.uploadFailures,
		c.rowsIngested,
		c.groupUpdates,
		c.rowsRegrouped,
		c.exports,
		c.rowsExported,
		c.httpStatus,
	)

	return c
}

// RecordUpload records a successful upload.
func (c *Collector) RecordUpload(format string, rows int) {
	c.uploads.WithLabelValues(format).Inc()
	c.rowsIngested.Add(float64(rows))
}

// RecordUploadFailure records a rejected upload.
func (c *Collector) RecordUploadFailure(code string) {
	c.uploadFailures.WithLabelValues(code).Inc()
}

// RecordGroupUpdate records one applied group update.
func (c *Collector) RecordGroupUpdate(rows int) {
	c.groupUpdates.Inc()
	c.rowsRegrouped.Add(float64(rows))
}

// RecordExport records a finished export.
func (c *Collector) RecordExport(format string, rows int) {
	c.exports.WithLabelValues(format).Inc()
	c.rowsExported.Add(float64(rows))
}

// RecordHTTPStatus records one HTTP response.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

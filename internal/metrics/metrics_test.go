package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpload("csv", 10)
	c.RecordUpload("xlsx", 5)
	c.RecordUploadFailure("FILE002")
	c.RecordGroupUpdate(3)
	c.RecordExport("csv", 7)
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusOK)

	if got := testutil.ToFloat64(c.uploads.WithLabelValues("csv")); got != 1 {
		t.Errorf("uploads{csv} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.rowsIngested); got != 15 {
		t.Errorf("rows ingested = %v, want 15", got)
	}
	if got := testutil.ToFloat64(c.uploadFailures.WithLabelValues("FILE002")); got != 1 {
		t.Errorf("upload failures{FILE002} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.rowsRegrouped); got != 3 {
		t.Errorf("rows regrouped = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.rowsExported); got != 7 {
		t.Errorf("rows exported = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("http status{200} = %v, want 2", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordExport("xlsx", 1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `roster_exports_total{format="xlsx"} 1`) {
		t.Errorf("exposition missing export counter:\n%s", w.Body.String())
	}
}

func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("second NewCollector on same registry should panic")
		}
	}()
	NewCollector(reg)
}

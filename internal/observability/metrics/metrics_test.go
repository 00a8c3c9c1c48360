package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInstrument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ping", "204"))
	if got != 1 {
		t.Fatalf("expected 1 request counted, got %v", got)
	}

	m.RecordIngest(OutcomeIngested)
	m.RecordIngest(OutcomeIngested)
	if got := testutil.ToFloat64(m.ingestRecords.WithLabelValues(OutcomeIngested)); got != 2 {
		t.Fatalf("expected 2 ingested records, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordIngest(OutcomeFailed)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(nil))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}

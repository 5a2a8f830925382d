package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters(t *testing.T) {
	r := New()

	r.AuditWriteFailed("create_user")
	r.AuditWriteFailed("create_user")
	r.ApprovalRevoked()

	if got := testutil.ToFloat64(r.auditWriteFailures.WithLabelValues("create_user")); got != 2 {
		t.Fatalf("expected 2 audit failures, got %v", got)
	}
	if got := testutil.ToFloat64(r.approvalRevoked); got != 1 {
		t.Fatalf("expected 1 revocation, got %v", got)
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.AuditWriteFailed("delete_user")
	r.ApprovalRevoked()
	r.QuoteWritten("create")
	r.CatalogLookup(true)
}

func TestHandlerExposesRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New()

	engine := gin.New()
	engine.Use(r.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/metrics", r.Handler())

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/ping",status="200"} 1`) {
		t.Fatalf("expected request counter in exposition, got:\n%s", rec.Body.String())
	}
}
